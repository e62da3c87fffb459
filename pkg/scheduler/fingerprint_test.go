package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	base := Fingerprint("Data Breach at ACME", "https://www.example.com/news/1/")
	assert.Len(t, base, 40)

	same := []struct{ title, url string }{
		{"Data Breach at ACME", "https://www.example.com/news/1/"},
		{"data breach at acme", "https://example.com/news/1"},
		{"Data-Breach at ACME!!!", "HTTPS://WWW.EXAMPLE.COM/news/1#comments"},
		{"  Data Breach at ACME ", " https://example.com/news/1/ "},
	}
	for _, tt := range same {
		assert.Equal(t, base, Fingerprint(tt.title, tt.url), "%q %q", tt.title, tt.url)
	}

	different := []struct{ title, url string }{
		{"Data Breach at ACME Corp", "https://example.com/news/1"},
		{"Data Breach at ACME", "https://example.com/news/2"},
		{"Data Breach at ACME", "https://example.com/news/1?page=2"},
		{"Data Breach at ACME", "https://example.com/News/1"},
		{"Data Breach at ACME", ""},
	}
	for _, tt := range different {
		assert.NotEqual(t, base, Fingerprint(tt.title, tt.url), "%q %q", tt.title, tt.url)
	}
}

func TestFingerprint_Stable(t *testing.T) {
	// value must never change between releases, stored findings are keyed by it
	assert.Equal(t, "0aa6897988d93cc7b6bd120b1b27ad4ab4b3fd1d", Fingerprint("Hello", "https://example.com/"))
	assert.NotEqual(t, Fingerprint("", ""), Fingerprint("a", ""))
}

func TestCanonicalURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"https://www.Example.com/a/b/", "https://example.com/a/b"},
		{"HTTP://example.com", "http://example.com"},
		{"https://example.com/a?x=1#frag", "https://example.com/a?x=1"},
		{"not a url", "not a url"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, canonicalURL(tt.in), tt.in)
	}
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "zeroday2024", normalizeTitle("Zero-Day 2024!"))
	assert.Equal(t, "привет", normalizeTitle("Привет, ..."))
	assert.Empty(t, normalizeTitle(" !? "))
}
