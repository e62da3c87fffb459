// Package feed collects RSS/Atom/JSON feeds into candidates and renders findings as RSS.
package feed

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"github.com/umputun/sentinel/pkg/domain"
	"github.com/umputun/sentinel/pkg/source"
)

// ErrMalformedFeed returned when the feed body can't be parsed
var ErrMalformedFeed = errors.New("malformed feed")

// UntitledEntry is the title for entries without one
const UntitledEntry = "Untitled entry"

// Params for the feed adapter
type Params struct {
	Timeout    time.Duration
	UserAgent  string
	MaxEntries int // entries kept per feed, first N in feed order
}

// Adapter collects entries of RSS/Atom/JSON feeds
type Adapter struct {
	Params
	client *http.Client
	policy *bluemonday.Policy
	now    func() time.Time
}

// NewAdapter makes feed adapter, zero params replaced by defaults
func NewAdapter(params Params) *Adapter {
	if params.Timeout <= 0 {
		params.Timeout = 30 * time.Second
	}
	if params.MaxEntries <= 0 {
		params.MaxEntries = 10
	}
	return &Adapter{
		Params: params,
		client: &http.Client{Timeout: params.Timeout, Transport: newTransport()},
		policy: bluemonday.StrictPolicy(),
		now:    time.Now,
	}
}

// newTransport clones the default transport, so proxy settings from environment and dial timeouts are kept
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 10
	t.IdleConnTimeout = 90 * time.Second
	return t
}

// Name of the adapter, used as provenance
func (a *Adapter) Name() string { return "feed" }

// Collect fetches the feed at src.URL and converts up to MaxEntries entries to candidates.
// Unparseable feed returns ErrMalformedFeed and no candidates.
func (a *Adapter) Collect(ctx context.Context, src domain.Source) ([]domain.Candidate, error) {
	parsed, err := a.fetch(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	items := parsed.Items
	if len(items) > a.MaxEntries {
		lgr.Printf("[DEBUG] feed %s has %d entries, keeping first %d", src.Identifier(), len(items), a.MaxEntries)
		items = items[:a.MaxEntries]
	}

	res := make([]domain.Candidate, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		res = append(res, a.toCandidate(src, item))
	}
	return res, nil
}

func (a *Adapter) toCandidate(src domain.Source, item *gofeed.Item) domain.Candidate {
	title := strings.TrimSpace(a.plain(item.Title))
	if title == "" {
		title = UntitledEntry
	}

	body := item.Description
	if strings.TrimSpace(body) == "" {
		body = item.Content
	}

	published := a.now()
	switch {
	case item.PublishedParsed != nil:
		published = *item.PublishedParsed
	case item.UpdatedParsed != nil:
		published = *item.UpdatedParsed
	}

	c := domain.Candidate{
		SourceID:      src.ID,
		Title:         title,
		Content:       strings.TrimSpace(a.plain(body)),
		URL:           strings.TrimSpace(item.Link),
		PublishedDate: published.UTC(),
		CreatedBy:     a.Name(),
	}
	if item.Author != nil {
		c.Author = item.Author.Name
	}
	return c
}

// plain strips markup, bluemonday escapes entities so they are unescaped back
func (a *Adapter) plain(s string) string {
	if s == "" {
		return ""
	}
	return html.UnescapeString(a.policy.Sanitize(s))
}

func (a *Adapter) fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	source.SetBrowserHeaders(req, a.UserAgent, source.AcceptFeed)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed %s: unexpected status code %d", url, resp.StatusCode)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrMalformedFeed, url, err)
	}
	return parsed, nil
}
