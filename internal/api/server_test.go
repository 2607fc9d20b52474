package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/brand-insights/internal/model"
	"github.com/sells-group/brand-insights/internal/scraper"
)

func okScrape(ctx context.Context, url string) (*model.BrandContext, error) {
	return &model.BrandContext{SiteURL: url, SiteName: "Fake Shop"}, nil
}

type fakeDiscoverer struct {
	urls []string
}

func (f *fakeDiscoverer) Discover(ctx context.Context, siteURL string, limit int) []string {
	if len(f.urls) > limit {
		return f.urls[:limit]
	}
	return f.urls
}

type fakeStore struct {
	mu    sync.Mutex
	saved []*model.BrandContext
	err   error
}

func (f *fakeStore) SaveBrandContext(ctx context.Context, bc *model.BrandContext) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, bc)
	return f.err
}

func (f *fakeStore) GetBrandContext(ctx context.Context, siteURL string) (*model.BrandContext, error) {
	return nil, nil
}

func (f *fakeStore) Migrate(ctx context.Context) error { return nil }

func (f *fakeStore) Close() error { return nil }

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router := NewServer(okScrape, nil, nil, 5).Router()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestInsights(t *testing.T) {
	router := NewServer(okScrape, nil, nil, 5).Router()

	rec := postJSON(t, router, "/api/insights", `{"website_url": "https://example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data model.BrandContext `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Fake Shop", resp.Data.SiteName)
}

func TestInsights_MissingURL(t *testing.T) {
	router := NewServer(okScrape, nil, nil, 5).Router()

	rec := postJSON(t, router, "/api/insights", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = postJSON(t, router, "/api/insights", `not json`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestInsights_UnreachableSiteIs404(t *testing.T) {
	scrape := func(ctx context.Context, url string) (*model.BrandContext, error) {
		return nil, eris.Wrap(scraper.ErrSiteUnreachable, "api test")
	}
	router := NewServer(scrape, nil, nil, 5).Router()

	rec := postJSON(t, router, "/api/insights", `{"website_url": "https://down.com"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not found or unreachable")
}

func TestInsights_OtherErrorIs500(t *testing.T) {
	scrape := func(ctx context.Context, url string) (*model.BrandContext, error) {
		return nil, eris.New("boom")
	}
	router := NewServer(scrape, nil, nil, 5).Router()

	rec := postJSON(t, router, "/api/insights", `{"website_url": "https://example.com"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestInsights_PersistsAsync(t *testing.T) {
	st := &fakeStore{}
	router := NewServer(okScrape, nil, st, 5).Router()

	rec := postJSON(t, router, "/api/insights", `{"website_url": "https://example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Eventually(t, func() bool {
		st.mu.Lock()
		defer st.mu.Unlock()
		return len(st.saved) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestInsights_PersistFailureDoesNotAffectResponse(t *testing.T) {
	st := &fakeStore{err: eris.New("db down")}
	router := NewServer(okScrape, nil, st, 5).Router()

	rec := postJSON(t, router, "/api/insights", `{"website_url": "https://example.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCompetitors_SuppliedURLs(t *testing.T) {
	router := NewServer(okScrape, nil, nil, 5).Router()

	rec := postJSON(t, router, "/api/insights/competitors",
		`{"website_url": "https://example.com", "competitor_urls": ["https://a.com", "https://b.com"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp competitorsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Competitors, 2)
	assert.Equal(t, "https://a.com", resp.Competitors[0].URL)
	assert.False(t, resp.Discovered)
	assert.Empty(t, resp.Note)
}

func TestCompetitors_AutoDiscover(t *testing.T) {
	d := &fakeDiscoverer{urls: []string{"https://rival.com"}}
	router := NewServer(okScrape, d, nil, 5).Router()

	rec := postJSON(t, router, "/api/insights/competitors",
		`{"website_url": "https://example.com", "auto_discover": true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp competitorsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Discovered)
	require.Len(t, resp.Competitors, 1)
	assert.Equal(t, "https://rival.com", resp.Competitors[0].URL)
}

func TestCompetitors_NoBackendStill200(t *testing.T) {
	router := NewServer(okScrape, nil, nil, 5).Router()

	rec := postJSON(t, router, "/api/insights/competitors",
		`{"website_url": "https://example.com", "auto_discover": true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp competitorsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Competitors)
	assert.Equal(t, "no discovery backend configured", resp.Note)
}

func TestCompetitors_FailuresIsolated(t *testing.T) {
	scrape := func(ctx context.Context, url string) (*model.BrandContext, error) {
		if url == "https://down.com" {
			return nil, eris.New("unreachable")
		}
		return &model.BrandContext{SiteURL: url}, nil
	}
	router := NewServer(scrape, nil, nil, 5).Router()

	rec := postJSON(t, router, "/api/insights/competitors",
		`{"website_url": "https://example.com", "competitor_urls": ["https://ok.com", "https://down.com"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp competitorsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Competitors, 2)
	assert.NotNil(t, resp.Competitors[0].Data)
	assert.Contains(t, resp.Competitors[1].Error, "unreachable")
}

func TestCompetitors_MissingURL(t *testing.T) {
	router := NewServer(okScrape, nil, nil, 5).Router()
	rec := postJSON(t, router, "/api/insights/competitors", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
