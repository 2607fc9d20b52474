// Package discovery suggests competitor storefronts for a given site.
// Discovery is advisory: backends absorb their own failures and return
// whatever candidates they could find, possibly none.
package discovery

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/brand-insights/internal/config"
	"github.com/sells-group/brand-insights/internal/urlutil"
	"github.com/sells-group/brand-insights/pkg/bing"
)

// Discoverer suggests up to limit competitor site URLs. It never fails;
// backend errors are logged and degrade to an empty result.
type Discoverer interface {
	Discover(ctx context.Context, siteURL string, limit int) []string
}

// New selects a discovery backend from configuration: Bing when its key is
// set, otherwise Claude, otherwise none (nil).
func New(cfg config.DiscoveryConfig) Discoverer {
	switch {
	case cfg.BingKey != "":
		return &bingDiscoverer{
			client: bing.NewClient(cfg.BingKey, bing.WithBaseURL(cfg.BingBaseURL)),
		}
	case cfg.AnthropicKey != "":
		return newClaudeDiscoverer(cfg.AnthropicKey, cfg.AnthropicModel)
	default:
		zap.L().Debug("discovery: no backend configured")
		return nil
	}
}

// filterCandidates normalizes raw candidate URLs to https://<domain>, drops
// the origin site's own domain, deduplicates first-seen, and truncates to
// limit.
func filterCandidates(siteURL string, raw []string, limit int) []string {
	origin := urlutil.Domain(siteURL)

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, limit)
	for _, candidate := range raw {
		normalized, err := urlutil.Normalize(candidate)
		if err != nil {
			continue
		}
		domain := urlutil.Domain(normalized)
		if domain == "" || domain == origin {
			continue
		}
		if _, dup := seen[domain]; dup {
			continue
		}
		seen[domain] = struct{}{}
		out = append(out, "https://"+domain)
		if len(out) >= limit {
			break
		}
	}
	return out
}
