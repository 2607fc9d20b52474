package urlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "bare_domain", input: "example.com", want: "https://example.com"},
		{name: "strips_fragment", input: "https://example.com#frag", want: "https://example.com"},
		{name: "keeps_http_scheme", input: "http://example.com/shop", want: "http://example.com/shop"},
		{name: "trims_whitespace", input: "  example.com/path  ", want: "https://example.com/path"},
		{name: "keeps_query", input: "example.com/p?page=2#top", want: "https://example.com/p?page=2"},
		{name: "empty", input: "", wantErr: true},
		{name: "no_host", input: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, strings.HasPrefix(got, "http"))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, input := range []string{"example.com", "https://example.com/shop#frag", "http://shop.example.com/a/b?x=1"} {
		once, err := Normalize(input)
		require.NoError(t, err)
		twice, err := Normalize(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		base string
		href string
		want string
		ok   bool
	}{
		{name: "relative_path", base: "https://example.com", href: "/pages/faq", want: "https://example.com/pages/faq", ok: true},
		{name: "absolute_href", base: "https://example.com", href: "https://other.com/x", want: "https://other.com/x", ok: true},
		{name: "empty_href", base: "https://example.com", href: "", ok: false},
		{name: "whitespace_href", base: "https://example.com", href: "   ", ok: false},
		{name: "malformed_href", base: "https://example.com", href: "ht tp://%zz", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.base, tt.href)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDomain(t *testing.T) {
	assert.Equal(t, "example.com", Domain("https://EXAMPLE.com/path"))
	assert.Equal(t, "shop.example.com", Domain("https://shop.example.com"))
	assert.Equal(t, "", Domain("://bad"))
}
