package scraper

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/brand-insights/internal/model"
	"github.com/sells-group/brand-insights/internal/urlutil"
)

var contactHrefKeywords = []string{"contact", "support"}

// extractContact pulls emails and phone numbers out of the home page's
// visible text and records the first contact-looking link. Address stays
// empty; there is no reliable markup-free heuristic for postal addresses.
func (s *Scraper) extractContact(doc *goquery.Document) model.ContactInfo {
	text := textOf(doc.Selection)

	info := model.ContactInfo{
		Emails: findEmails(text),
		Phones: findPhones(text),
	}

	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if !containsAny(href, contactHrefKeywords) {
			return true
		}
		if target, ok := urlutil.Resolve(s.root, href); ok {
			info.ContactPageURL = target
			return false
		}
		return true
	})

	return info
}
