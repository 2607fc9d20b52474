// Package scraper extracts a structured brand context from a storefront
// website: catalog, hero products, policies, FAQs, about text, contact and
// social data. The site root must answer 200; everything past that degrades
// gracefully, with failures collected into the result's error log.
package scraper

import (
	"context"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/brand-insights/internal/config"
	"github.com/sells-group/brand-insights/internal/model"
	"github.com/sells-group/brand-insights/internal/urlutil"
)

// ErrSiteUnreachable is returned when the site root does not answer HTTP 200.
var ErrSiteUnreachable = eris.New("scraper: site unreachable")

// Scraper runs the extraction pipeline against a single site.
type Scraper struct {
	fetcher *Fetcher
	root    string
	cfg     config.ScrapeConfig

	mu     sync.Mutex
	errLog []string
}

// New builds a Scraper for the given site URL.
func New(rawURL string, cfg config.ScrapeConfig) (*Scraper, error) {
	root, err := urlutil.Normalize(rawURL)
	if err != nil {
		return nil, eris.Wrap(err, "scraper: normalize site url")
	}
	return &Scraper{
		fetcher: NewFetcher(cfg),
		root:    strings.TrimRight(root, "/"),
		cfg:     cfg,
	}, nil
}

// fetch resolves a path against the site root and GETs it. Absolute URLs
// pass through untouched.
func (s *Scraper) fetch(ctx context.Context, pathOrURL string) FetchResult {
	target := pathOrURL
	if strings.HasPrefix(pathOrURL, "/") {
		target = s.root + pathOrURL
	}
	return s.fetcher.Fetch(ctx, target)
}

func (s *Scraper) recordError(msg string) {
	s.mu.Lock()
	s.errLog = append(s.errLog, msg)
	s.mu.Unlock()
}

// Scrape fetches the site root and runs all extractors concurrently against
// the parsed home document. The only hard failure is an unreachable or
// non-200 root; every extractor failure degrades its field to empty and is
// recorded in the result's Errors.
func (s *Scraper) Scrape(ctx context.Context) (*model.BrandContext, error) {
	res := s.fetcher.Fetch(ctx, s.root)
	if res.StatusCode != 200 {
		return nil, eris.Wrapf(ErrSiteUnreachable, "scraper: %s answered %d", s.root, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.Body))
	if err != nil {
		return nil, eris.Wrapf(ErrSiteUnreachable, "scraper: parse %s: %v", s.root, err)
	}

	bc := &model.BrandContext{
		SiteURL:  s.root,
		SiteName: textOf(doc.Find("title").First()),
		Domain:   urlutil.Domain(s.root),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		bc.Products = s.extractCatalog(gctx, doc)
		return nil
	})
	g.Go(func() error {
		bc.HeroProducts = s.extractHeroProducts(doc)
		return nil
	})
	g.Go(func() error {
		bc.Policies = s.extractPolicies(gctx, doc)
		return nil
	})
	g.Go(func() error {
		bc.FAQs = s.extractFAQs(gctx, doc)
		return nil
	})
	var about string
	var links []model.Link
	g.Go(func() error {
		about, links = s.extractAboutAndLinks(gctx, doc)
		return nil
	})
	g.Go(func() error {
		bc.Contact = s.extractContact(doc)
		return nil
	})
	g.Go(func() error {
		bc.SocialHandles = s.extractSocialHandles(doc)
		return nil
	})

	g.Wait()

	bc.AboutText = about
	bc.ImportantLinks = links
	if n := len(bc.Products); n > 0 {
		bc.CatalogCount = &n
	}
	bc.Errors = s.errLog

	zap.L().Info("scraper: site scraped",
		zap.String("site", s.root),
		zap.Int("products", len(bc.Products)),
		zap.Int("faqs", len(bc.FAQs)),
		zap.Int("errors", len(bc.Errors)))

	return bc, nil
}

// GetInsights scrapes a single site end to end.
func GetInsights(ctx context.Context, rawURL string, cfg config.ScrapeConfig) (*model.BrandContext, error) {
	s, err := New(rawURL, cfg)
	if err != nil {
		return nil, err
	}
	return s.Scrape(ctx)
}
