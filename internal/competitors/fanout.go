// Package competitors repeats the brand extraction across a batch of
// competitor sites with bounded concurrency.
package competitors

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/brand-insights/internal/model"
)

// ScrapeFunc extracts a brand context from one site.
type ScrapeFunc func(ctx context.Context, url string) (*model.BrandContext, error)

// Result pairs one input URL with its extraction outcome. Exactly one of
// Data and Error is set.
type Result struct {
	URL   string              `json:"url"`
	Data  *model.BrandContext `json:"data,omitempty"`
	Error string              `json:"error,omitempty"`
}

// FetchAll scrapes every URL with at most maxWidth in flight, preserving
// input order in the results. A failing site yields an error entry and never
// affects its siblings.
func FetchAll(ctx context.Context, urls []string, maxWidth int, scrape ScrapeFunc) []Result {
	if maxWidth < 1 {
		maxWidth = 1
	}

	results := make([]Result, len(urls))

	var g errgroup.Group
	g.SetLimit(maxWidth)
	for i, url := range urls {
		g.Go(func() error {
			results[i] = Result{URL: url}
			data, err := scrape(ctx, url)
			if err != nil {
				zap.L().Warn("competitors: site failed", zap.String("url", url), zap.Error(err))
				results[i].Error = err.Error()
				return nil
			}
			results[i].Data = data
			return nil
		})
	}
	g.Wait()

	return results
}
