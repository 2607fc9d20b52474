package discovery

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/brand-insights/internal/urlutil"
	"github.com/sells-group/brand-insights/pkg/bing"
)

// bingDiscoverer finds competitors through a Bing web search for the site's
// domain. It over-fetches so that filtering still leaves enough candidates.
type bingDiscoverer struct {
	client bing.Client
}

func (d *bingDiscoverer) Discover(ctx context.Context, siteURL string, limit int) []string {
	domain := urlutil.Domain(siteURL)
	if domain == "" {
		return nil
	}

	count := limit * 3
	if count < 10 {
		count = 10
	}

	resp, err := d.client.WebSearch(ctx, fmt.Sprintf("competitors of %s", domain), count)
	if err != nil {
		zap.L().Warn("discovery: bing search failed", zap.String("domain", domain), zap.Error(err))
		return nil
	}

	raw := make([]string, 0, len(resp.WebPages.Value))
	for _, page := range resp.WebPages.Value {
		raw = append(raw, page.URL)
	}
	return filterCandidates(siteURL, raw, limit)
}
