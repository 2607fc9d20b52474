package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/brand-insights/internal/model"
)

func TestScanFAQs_DetailsSummary(t *testing.T) {
	doc := mustDoc(t, `
<details>
  <summary>Do you ship internationally?</summary>
  <p>Yes, to over 40 countries.</p>
</details>`)

	faqs := scanFAQs(doc)
	require.Len(t, faqs, 1)
	assert.Equal(t, "Do you ship internationally?", faqs[0].Question)
	// the answer is the element's full text, question included
	assert.Equal(t, "Do you ship internationally? Yes, to over 40 countries.", faqs[0].Answer)
}

func TestScanFAQs_HeadingWithSibling(t *testing.T) {
	doc := mustDoc(t, `
<div class="faq">
  <h3>What is your return window?</h3>
  <p>You have 30 days from delivery to start a return.</p>
</div>`)

	faqs := scanFAQs(doc)
	require.Len(t, faqs, 1)
	assert.Equal(t, "What is your return window?", faqs[0].Question)
	assert.Contains(t, faqs[0].Answer, "30 days")
}

func TestScanFAQs_HeadingParentFallback(t *testing.T) {
	doc := mustDoc(t, `
<div class="faq__item">
  <h4>Care instructions?</h4>
  Machine wash cold with like colors, tumble dry low, do not bleach.
</div>`)

	faqs := scanFAQs(doc)
	require.Len(t, faqs, 1)
	assert.Contains(t, faqs[0].Answer, "Machine wash")
}

func TestScanFAQs_ShortSiblingNotAnAnswer(t *testing.T) {
	doc := mustDoc(t, `
<div>
  <h3>Do you ship internationally to every country?</h3>
  <h4>Shipping</h4>
</div>`)

	// A sibling heading barely longer than nothing must not become the
	// answer; with the parent text not meaningfully longer either, the
	// question is dropped.
	for _, f := range scanFAQs(doc) {
		assert.NotEqual(t, "Do you ship internationally to every country?", f.Question)
		assert.NotEqual(t, "Shipping", f.Answer)
	}
}

func TestScanFAQs_LongHeadingSkipped(t *testing.T) {
	long := strings.Repeat("words ", 40)
	doc := mustDoc(t, `<h3>`+long+`</h3><p>answer text follows here</p>`)
	assert.Empty(t, scanFAQs(doc))
}

func TestExtractFAQs_FollowsFAQLinks(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	var faqPageHits int
	mux.HandleFunc("/pages/faq", func(w http.ResponseWriter, r *http.Request) {
		faqPageHits++
		w.Write([]byte(`
<details><summary>Q1?</summary>A1</details>
<details><summary>Q2?</summary>A2</details>
<a href="/pages/faq-deeper">More FAQ</a>`))
	})
	mux.HandleFunc("/pages/faq-deeper", func(w http.ResponseWriter, r *http.Request) {
		t.Error("followed a link from a followed page")
	})

	home := mustDoc(t, `<a href="/pages/faq">FAQ</a>`)
	s := newTestScraper(t, srv.URL)
	faqs := s.extractFAQs(context.Background(), home)

	assert.Equal(t, 1, faqPageHits)
	require.Len(t, faqs, 2)
	assert.Equal(t, "Q1?", faqs[0].Question)
}

func TestExtractFAQs_EnoughOnHomeSkipsFollowing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("followed a link despite enough home-page FAQs")
	}))
	defer srv.Close()

	home := mustDoc(t, `
<details><summary>A?</summary>1</details>
<details><summary>B?</summary>2</details>
<details><summary>C?</summary>3</details>
<a href="`+srv.URL+`/pages/help">Help</a>`)

	s := newTestScraper(t, srv.URL)
	faqs := s.extractFAQs(context.Background(), home)
	assert.Len(t, faqs, 3)
}

func TestFAQPageLinks_CappedAndDeduped(t *testing.T) {
	home := mustDoc(t, `
<a href="/pages/faq">FAQ</a>
<a href="/pages/faq">FAQ again</a>
<a href="/pages/help">Help</a>
<a href="/pages/support">Support</a>
<a href="/pages/support-plus">More support</a>`)

	cfg := testScrapeConfig()
	cfg.MaxPagesToScan = 3
	s, err := New("https://shop.example.com", cfg)
	require.NoError(t, err)

	links := s.faqPageLinks(home)
	assert.Len(t, links, 3)
	assert.Equal(t, "https://shop.example.com/pages/faq", links[0])
}

func TestDedupeFAQs_FirstWins(t *testing.T) {
	in := []model.FAQItem{
		{Question: "Q?", Answer: "first"},
		{Question: "Q?", Answer: "second"},
		{Question: "Other?", Answer: "x"},
	}
	out := dedupeFAQs(in)
	require.Len(t, out, 2)
	assert.Equal(t, "first", out[0].Answer)
}
