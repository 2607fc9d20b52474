package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/brand-insights/internal/urlutil"
)

// socialPlatforms maps platform names to the host fragments that identify
// them, including short-link hosts.
var socialPlatforms = []struct {
	name  string
	hosts []string
}{
	{"instagram", []string{"instagram.com", "instagr.am"}},
	{"facebook", []string{"facebook.com"}},
	{"tiktok", []string{"tiktok.com"}},
	{"twitter", []string{"twitter.com", "x.com"}},
	{"youtube", []string{"youtube.com", "youtu.be"}},
	{"pinterest", []string{"pinterest.com"}},
	{"linkedin", []string{"linkedin.com"}},
	{"snapchat", []string{"snapchat.com"}},
}

// extractSocialHandles classifies outbound links by host. The first URL seen
// per platform wins.
func (s *Scraper) extractSocialHandles(doc *goquery.Document) map[string]string {
	handles := make(map[string]string)

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		target, ok := urlutil.Resolve(s.root, href)
		if !ok {
			return
		}
		host := urlutil.Domain(target)
		if host == "" {
			return
		}
		for _, platform := range socialPlatforms {
			if _, taken := handles[platform.name]; taken {
				continue
			}
			for _, h := range platform.hosts {
				if strings.Contains(host, h) {
					handles[platform.name] = target
					break
				}
			}
		}
	})

	return handles
}
