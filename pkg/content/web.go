// Package content implements the web adapter, collecting a single article from a page url
// with trafilatura main-content extraction.
package content

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/markusmobius/go-trafilatura"

	"github.com/umputun/sentinel/pkg/domain"
	"github.com/umputun/sentinel/pkg/source"
)

// Params for the web adapter
type Params struct {
	Timeout       time.Duration
	UserAgent     string
	MinTextLength int // extracted text shorter than this is a failure
}

// WebAdapter extracts the main article text of a page
type WebAdapter struct {
	Params
	client *http.Client
	now    func() time.Time
}

// NewWebAdapter makes web adapter, zero timeout replaced by default
func NewWebAdapter(params Params) *WebAdapter {
	if params.Timeout <= 0 {
		params.Timeout = 30 * time.Second
	}
	return &WebAdapter{Params: params, client: &http.Client{Timeout: params.Timeout}, now: time.Now}
}

// Name of the adapter, used as provenance
func (w *WebAdapter) Name() string { return "web" }

// Collect fetches src.URL and returns one candidate with the extracted article
func (w *WebAdapter) Collect(ctx context.Context, src domain.Source) ([]domain.Candidate, error) {
	parsedURL, err := url.Parse(src.URL)
	if err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid URL: %q", src.URL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	source.SetBrowserHeaders(req, w.UserAgent, source.AcceptHTML)

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL %s: %w", src.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d for URL %s", resp.StatusCode, src.URL)
	}

	result, err := trafilatura.Extract(resp.Body, trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		Deduplicate:     true,
		OriginalURL:     parsedURL,
	})
	if err != nil {
		return nil, fmt.Errorf("extract content from %s: %w", src.URL, err)
	}
	if result == nil {
		return nil, fmt.Errorf("no content extracted from %s", src.URL)
	}

	text := strings.TrimSpace(result.ContentText)
	if len([]rune(text)) < w.MinTextLength {
		return nil, fmt.Errorf("extracted text too short from %s: %d < %d", src.URL, len([]rune(text)), w.MinTextLength)
	}

	title := strings.TrimSpace(result.Metadata.Title)
	if title == "" {
		title = src.Name
	}
	published := result.Metadata.Date
	if published.IsZero() {
		published = w.now()
	}
	lgr.Printf("[DEBUG] extracted %d chars from %s", len(text), src.URL)

	return []domain.Candidate{{
		SourceID:      src.ID,
		Title:         title,
		Content:       text,
		URL:           src.URL,
		Author:        result.Metadata.Author,
		PublishedDate: published.UTC(),
		CreatedBy:     w.Name(),
	}}, nil
}
