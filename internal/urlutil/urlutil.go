// Package urlutil canonicalizes storefront URLs and resolves the relative
// links the extractors discover while scanning pages.
package urlutil

import (
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
)

// Normalize canonicalizes a raw site URL: prepends an https scheme when none
// is present and strips the fragment. Fails when no host remains after
// normalization. Normalize is idempotent.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", eris.Wrapf(err, "urlutil: parse %q", raw)
	}
	if u.Host == "" {
		return "", eris.Errorf("urlutil: invalid url %q: missing host", raw)
	}

	u.Fragment = ""
	return u.String(), nil
}

// Resolve resolves a possibly-relative href against a base URL. Returns
// ("", false) for empty or malformed input; it never fails, malformed hrefs
// degrade to absent.
func Resolve(base, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}

	b, err := url.Parse(base)
	if err != nil {
		return "", false
	}
	h, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	return b.ResolveReference(h).String(), true
}

// Domain returns the lowercased host of a URL, or "" when it cannot be parsed.
func Domain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}
