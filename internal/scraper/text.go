package scraper

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\-()\s]{6,}\d`)
)

// textOf collapses all whitespace in a selection's text to single spaces.
func textOf(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

// mainContentText returns the collapsed text of the first matching content
// region, or the whole document's text when wholePageFallback is set and no
// region matches.
func mainContentText(doc *goquery.Document, selectors string, wholePageFallback bool) string {
	region := doc.Find(selectors).First()
	if region.Length() > 0 {
		return textOf(region)
	}
	if wholePageFallback {
		return textOf(doc.Selection)
	}
	return ""
}

// excerpt truncates s to at most n runes.
func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// containsAny reports whether the lowercased haystack contains any keyword.
func containsAny(haystack string, keywords []string) bool {
	haystack = strings.ToLower(haystack)
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

// uniqueStrings deduplicates preserving first-seen order.
func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// findEmails extracts all email addresses from text, deduplicated and sorted.
func findEmails(text string) []string {
	return sortedMatches(emailPattern, text)
}

// findPhones extracts all phone-number-shaped strings, deduplicated and sorted.
func findPhones(text string) []string {
	return sortedMatches(phonePattern, text)
}

func sortedMatches(re *regexp.Regexp, text string) []string {
	seen := make(map[string]struct{})
	for _, m := range re.FindAllString(text, -1) {
		seen[strings.TrimSpace(m)] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
