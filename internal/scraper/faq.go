package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/brand-insights/internal/model"
	"github.com/sells-group/brand-insights/internal/urlutil"
)

const (
	maxFAQQuestionLen  = 160
	minFAQBeforeFollow = 3
	faqAnswerMargin    = 10
)

const faqHeadingSelectors = ".accordion__title, .faq__question, h3, h4"

var faqLinkKeywords = []string{"faq", "help", "support"}

// extractFAQs scans the home page for question/answer pairs and, when too few
// are found, follows a handful of FAQ-looking links one level deep. Followed
// pages are scanned but never followed further.
func (s *Scraper) extractFAQs(ctx context.Context, doc *goquery.Document) []model.FAQItem {
	faqs := scanFAQs(doc)

	if len(faqs) < minFAQBeforeFollow {
		for _, target := range s.faqPageLinks(doc) {
			res := s.fetch(ctx, target)
			if res.StatusCode != 200 {
				continue
			}
			page, err := goquery.NewDocumentFromReader(strings.NewReader(res.Body))
			if err != nil {
				continue
			}
			faqs = append(faqs, scanFAQs(page)...)
		}
	}

	return dedupeFAQs(faqs)
}

// scanFAQs extracts question/answer pairs from one document using two
// strategies: details/summary disclosure widgets, then short headings whose
// following content is meaningfully longer than the heading itself.
func scanFAQs(doc *goquery.Document) []model.FAQItem {
	var faqs []model.FAQItem

	doc.Find("details").Each(func(_ int, d *goquery.Selection) {
		q := textOf(d.Find("summary").First())
		if q == "" {
			return
		}
		faqs = append(faqs, model.FAQItem{Question: q, Answer: textOf(d)})
	})

	doc.Find(faqHeadingSelectors).Each(func(_ int, h *goquery.Selection) {
		q := textOf(h)
		if q == "" || len([]rune(q)) > maxFAQQuestionLen {
			return
		}
		// The answer must be meaningfully longer than the question,
		// whether it comes from the next sibling or the parent.
		a := textOf(h.Next())
		if len(a) <= len(q)+faqAnswerMargin {
			a = textOf(h.Parent())
		}
		if len(a) > len(q)+faqAnswerMargin {
			faqs = append(faqs, model.FAQItem{Question: q, Answer: a})
		}
	})

	return faqs
}

// faqPageLinks returns up to MaxPagesToScan resolved links that look like
// FAQ, help, or support pages, deduplicated.
func (s *Scraper) faqPageLinks(doc *goquery.Document) []string {
	var targets []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !containsAny(href, faqLinkKeywords) && !containsAny(textOf(a), faqLinkKeywords) {
			return
		}
		if target, ok := urlutil.Resolve(s.root, href); ok {
			targets = append(targets, target)
		}
	})

	targets = uniqueStrings(targets)
	if len(targets) > s.cfg.MaxPagesToScan {
		targets = targets[:s.cfg.MaxPagesToScan]
	}
	return targets
}

// dedupeFAQs keeps the first item per question.
func dedupeFAQs(in []model.FAQItem) []model.FAQItem {
	seen := make(map[string]struct{}, len(in))
	out := make([]model.FAQItem, 0, len(in))
	for _, f := range in {
		if _, dup := seen[f.Question]; dup {
			continue
		}
		seen[f.Question] = struct{}{}
		out = append(out, f)
	}
	return out
}
