package scraper

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/brand-insights/internal/config"
)

// maxBodyBytes caps how much of any response body is read. Storefront pages
// and products.json payloads fit well under this; anything larger is cut off.
const maxBodyBytes = 2 << 20

// FetchResult is the outcome of a single GET. A network-level failure is
// reported as StatusCode 0 with an empty body, never as an error, so callers
// can treat unreachable and non-200 uniformly.
type FetchResult struct {
	URL        string
	StatusCode int
	Body       string
}

// Fetcher issues polite single-page GETs with a browser User-Agent, a hard
// timeout, and an optional shared rate limit across all requests.
type Fetcher struct {
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
}

// NewFetcher builds a Fetcher from scrape settings.
func NewFetcher(cfg config.ScrapeConfig) *Fetcher {
	transport := &http.Transport{
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		MaxIdleConnsPerHost: cfg.MaxConnsPerHost,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		IdleConnTimeout:     90 * time.Second,
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Fetcher{
		http: &http.Client{
			Timeout:   time.Duration(cfg.TimeoutSecs) * time.Second,
			Transport: transport,
		},
		userAgent: cfg.UserAgent,
		limiter:   limiter,
	}
}

// Fetch GETs a single URL, following redirects. The returned URL is the final
// one after redirects. Bodies are capped at maxBodyBytes.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) FetchResult {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return FetchResult{URL: rawURL}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		zap.L().Debug("scraper: bad request url", zap.String("url", rawURL), zap.Error(err))
		return FetchResult{URL: rawURL}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/json,application/xhtml+xml")

	resp, err := f.http.Do(req)
	if err != nil {
		zap.L().Debug("scraper: fetch failed", zap.String("url", rawURL), zap.Error(err))
		return FetchResult{URL: rawURL}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		zap.L().Debug("scraper: read body failed", zap.String("url", rawURL), zap.Error(err))
		return FetchResult{URL: rawURL, StatusCode: resp.StatusCode}
	}

	return FetchResult{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}
}
