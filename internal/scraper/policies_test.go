package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPolicies(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/policies/privacy-policy", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><main>We respect your privacy. ` + strings.Repeat("More detail. ", 50) + `</main></body></html>`))
	})
	mux.HandleFunc("/policies/refund-policy", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})

	home := mustDoc(t, `
<footer>
  <a href="/policies/privacy-policy">Privacy Policy</a>
  <a href="/policies/refund-policy">Refund Policy</a>
</footer>`)

	s := newTestScraper(t, srv.URL)
	policies := s.extractPolicies(context.Background(), home)

	require.Len(t, policies, 2)

	assert.Equal(t, "Privacy Policy", policies[0].Name)
	assert.Equal(t, srv.URL+"/policies/privacy-policy", policies[0].URL)
	assert.True(t, strings.HasPrefix(policies[0].ContentExcerpt, "We respect your privacy."))
	assert.LessOrEqual(t, len([]rune(policies[0].ContentExcerpt)), policyExcerptLen)

	// fetch failed: entry kept, excerpt empty
	assert.Equal(t, "Refund Policy", policies[1].Name)
	assert.Empty(t, policies[1].ContentExcerpt)
}

func TestExtractPolicies_NoAnchorsNoEntries(t *testing.T) {
	home := mustDoc(t, `<a href="/collections/all">Shop</a>`)
	s := newTestScraper(t, "https://shop.example.com")
	assert.Empty(t, s.extractPolicies(context.Background(), home))
}

func TestExtractPolicies_MatchesByText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><article>Ships worldwide.</article></body></html>`))
	}))
	defer srv.Close()

	home := mustDoc(t, `<a href="/pages/delivery">Shipping info</a>`)
	s := newTestScraper(t, srv.URL)
	policies := s.extractPolicies(context.Background(), home)

	require.Len(t, policies, 1)
	assert.Equal(t, "Shipping Policy", policies[0].Name)
	assert.Equal(t, "Ships worldwide.", policies[0].ContentExcerpt)
}

func TestExtractPolicies_WholePageFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>Terms text without a content wrapper.</p></body></html>`))
	}))
	defer srv.Close()

	home := mustDoc(t, `<a href="/pages/terms">Terms of Service</a>`)
	s := newTestScraper(t, srv.URL)
	policies := s.extractPolicies(context.Background(), home)

	require.Len(t, policies, 1)
	assert.Equal(t, "Terms of Service", policies[0].Name)
	assert.Contains(t, policies[0].ContentExcerpt, "Terms text")
}
