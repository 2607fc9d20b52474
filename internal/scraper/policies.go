package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/brand-insights/internal/model"
	"github.com/sells-group/brand-insights/internal/urlutil"
)

const policyExcerptLen = 400

const policyContentSelectors = "main, .rte, .content, article"

// policyKinds maps each policy we look for to its link keyword. Order fixes
// the output order.
var policyKinds = []struct {
	name    string
	keyword string
}{
	{"Privacy Policy", "privacy"},
	{"Refund Policy", "refund"},
	{"Return Policy", "return"},
	{"Shipping Policy", "shipping"},
	{"Terms of Service", "terms"},
}

// extractPolicies finds the first link per policy kind on the home page and
// pulls a short excerpt from each target page. A kind with no matching link
// yields no entry; a fetch failure yields the entry with an empty excerpt.
func (s *Scraper) extractPolicies(ctx context.Context, doc *goquery.Document) []model.Policy {
	var policies []model.Policy

	for _, kind := range policyKinds {
		href := firstAnchorMatching(doc, kind.keyword)
		if href == "" {
			continue
		}
		target, ok := urlutil.Resolve(s.root, href)
		if !ok {
			continue
		}

		policy := model.Policy{Name: kind.name, URL: target}
		if res := s.fetch(ctx, target); res.StatusCode == 200 {
			if page, err := goquery.NewDocumentFromReader(strings.NewReader(res.Body)); err == nil {
				policy.ContentExcerpt = excerpt(mainContentText(page, policyContentSelectors, true), policyExcerptLen)
			}
		}
		policies = append(policies, policy)
	}

	return policies
}

// firstAnchorMatching returns the href of the first anchor whose href or
// visible text contains the keyword, case-insensitively.
func firstAnchorMatching(doc *goquery.Document, keyword string) string {
	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if containsAny(href, []string{keyword}) || containsAny(textOf(a), []string{keyword}) {
			found = href
			return false
		}
		return true
	})
	return found
}
