package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/brand-insights/internal/model"
	"github.com/sells-group/brand-insights/internal/urlutil"
)

const (
	aboutExcerptLen   = 800
	maxAboutAnchorLen = 30
)

const (
	heroProductSelectors  = "section a[href*='/products/'], .hero a[href*='/products/']"
	aboutContentSelectors = "main, article, .rte, .content"
)

var aboutKeywords = []string{"about", "our story", "story"}

// importantLinkKinds maps well-known storefront links to their keywords and
// fixed titles. Contact Us keeps the anchor's own text when present.
var importantLinkKinds = []struct {
	title    string
	keywords []string
	ownTitle bool
}{
	{title: "Order Tracking", keywords: []string{"track", "order status"}},
	{title: "Contact Us", keywords: []string{"contact"}, ownTitle: true},
	{title: "Blog", keywords: []string{"blog"}},
}

// extractHeroProducts collects product links from hero-like home sections,
// resolved against the site root and deduplicated in order.
func (s *Scraper) extractHeroProducts(doc *goquery.Document) []string {
	var urls []string
	doc.Find(heroProductSelectors).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if target, ok := urlutil.Resolve(s.root, href); ok {
			urls = append(urls, target)
		}
	})
	return uniqueStrings(urls)
}

// extractAboutAndLinks returns the brand's about text plus its notable
// navigational links. All about anchors contribute links, but only the first
// reachable about page supplies the excerpt.
func (s *Scraper) extractAboutAndLinks(ctx context.Context, doc *goquery.Document) (string, []model.Link) {
	var about string
	var links []model.Link

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		text := textOf(a)
		href, _ := a.Attr("href")
		// About anchors match on visible text only; hrefs like
		// /pages/about-us under a "Learn more" label do not count.
		if len([]rune(text)) > maxAboutAnchorLen {
			return
		}
		if !containsAny(text, aboutKeywords) {
			return
		}
		target, ok := urlutil.Resolve(s.root, href)
		if !ok {
			return
		}

		title := text
		if title == "" {
			title = "About"
		}
		links = append(links, model.Link{Title: title, URL: target})

		if about != "" {
			return
		}
		if res := s.fetch(ctx, target); res.StatusCode == 200 {
			if page, err := goquery.NewDocumentFromReader(strings.NewReader(res.Body)); err == nil {
				about = excerpt(mainContentText(page, aboutContentSelectors, false), aboutExcerptLen)
			}
		}
	})

	for _, kind := range importantLinkKinds {
		doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			text := textOf(a)
			href, _ := a.Attr("href")
			if !containsAny(text, kind.keywords) && !containsAny(href, kind.keywords) {
				return true
			}
			target, ok := urlutil.Resolve(s.root, href)
			if !ok {
				return true
			}
			title := kind.title
			if kind.ownTitle && text != "" {
				title = text
			}
			links = append(links, model.Link{Title: title, URL: target})
			return false
		})
	}

	return about, dedupeLinks(links)
}

// dedupeLinks keeps the first link per URL.
func dedupeLinks(in []model.Link) []model.Link {
	seen := make(map[string]struct{}, len(in))
	out := make([]model.Link, 0, len(in))
	for _, l := range in {
		if _, dup := seen[l.URL]; dup {
			continue
		}
		seen[l.URL] = struct{}{}
		out = append(out, l)
	}
	return out
}
