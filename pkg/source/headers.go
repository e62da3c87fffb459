package source

import (
	"math/rand"
	"net/http"
)

// accept headers for different kinds of fetches
const (
	AcceptFeed = "application/rss+xml,application/atom+xml,application/xml;q=0.9,text/xml;q=0.8,text/html;q=0.7,*/*;q=0.5"
	AcceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	AcceptJSON = "application/json"
)

var acceptLanguages = []string{
	"en-US,en;q=0.9",
	"en-GB,en;q=0.9",
	"en-US,en;q=0.9,es;q=0.8",
	"en-US,en;q=0.9,fr;q=0.8",
	"en-US,en;q=0.9,de;q=0.8",
	"en-US,en;q=0.9,ru;q=0.8",
}

// SetBrowserHeaders sets user agent and browser-like headers. Many publishers reject bare clients,
// so requests get a randomized language and an occasional DNT.
func SetBrowserHeaders(req *http.Request, userAgent, accept string) {
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept-Language", acceptLanguages[rand.Intn(len(acceptLanguages))]) //nolint:gosec // header variation only
	if rand.Float32() < 0.3 {                                                             //nolint:gosec // header variation only
		req.Header.Set("DNT", "1")
	}
}
