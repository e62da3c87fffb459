// Package social collects posts from social platforms. Without credentials the adapter runs in standby
// mode and emits a single informational candidate per fetch instead of failing.
package social

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/sentinel/pkg/domain"
)

// ErrNotConnected returned when the live platform client can't authenticate
var ErrNotConnected = errors.New("platform client not connected")

// supported platforms
const (
	PlatformReddit   = "reddit"
	PlatformTelegram = "telegram"
)

// StandbyURL points operators to the place where platform credentials are issued
const StandbyURL = "https://www.reddit.com/prefs/apps"

// Params for the social adapter
type Params struct {
	Reddit RedditParams
}

// Adapter collects posts from social platforms
type Adapter struct {
	params Params
	reddit *redditClient // nil in standby mode
	now    func() time.Time

	mu        sync.Mutex
	connected bool
}

// NewAdapter makes social adapter. Missing reddit credentials switch it to standby mode.
func NewAdapter(params Params) *Adapter {
	if params.Reddit.DefaultLimit <= 0 {
		params.Reddit.DefaultLimit = 10
	}
	res := &Adapter{params: params, now: time.Now}
	if params.Reddit.HasCredentials() {
		res.reddit = newRedditClient(params.Reddit)
	}
	return res
}

// Name of the adapter, used as provenance
func (a *Adapter) Name() string { return "social" }

// Standby reports whether the adapter runs without platform credentials
func (a *Adapter) Standby() bool { return a.reddit == nil }

// Connect establishes the platform client. Standby mode is not an error and reports success.
// Live mode verifies credentials by obtaining an access token.
func (a *Adapter) Connect(_ context.Context) bool {
	if a.Standby() {
		lgr.Printf("[WARN] reddit credentials not configured, social adapter in standby mode")
		return true
	}
	if err := a.reddit.verify(); err != nil {
		lgr.Printf("[ERROR] can't connect to reddit: %v", err)
		return false
	}
	lgr.Printf("[INFO] connected to reddit api")
	return true
}

// Fetch searches reddit for the query. Standby mode returns exactly one informational candidate,
// live mode failures are logged and return empty list.
func (a *Adapter) Fetch(ctx context.Context, query string, limit int) []domain.Candidate {
	res, err := a.fetch(ctx, query, limit)
	if err != nil {
		lgr.Printf("[ERROR] reddit search for %q failed: %v", query, err)
		return []domain.Candidate{}
	}
	return res
}

// Collect runs the search with the source options. Platform is taken from config "platform",
// query from "query" falling back to the source name, limit from "limit".
// Live platform failures are returned as error with no candidates, declared but unsupported platforms
// return empty result without error.
func (a *Adapter) Collect(ctx context.Context, src domain.Source) ([]domain.Candidate, error) {
	platform := strings.ToLower(src.Option("platform", PlatformReddit))
	query := src.Option("query", src.Name)
	limit, err := strconv.Atoi(src.Option("limit", "0"))
	if err != nil {
		lgr.Printf("[WARN] invalid limit %q for source %s, using default", src.Option("limit", ""), src.Identifier())
		limit = 0
	}

	switch platform {
	case PlatformReddit:
		res, err := a.fetch(ctx, query, limit)
		if err != nil {
			return []domain.Candidate{}, fmt.Errorf("reddit search for %q: %w", query, err)
		}
		return res, nil
	case PlatformTelegram:
		lgr.Printf("[WARN] telegram scan for %q requires an active session, not supported", query)
		return []domain.Candidate{}, nil
	default:
		lgr.Printf("[WARN] unknown social platform %q for source %s", platform, src.Identifier())
		return []domain.Candidate{}, nil
	}
}

func (a *Adapter) fetch(ctx context.Context, query string, limit int) ([]domain.Candidate, error) {
	lgr.Printf("[DEBUG] social search on %s for %q, limit %d", PlatformReddit, query, limit)
	if a.Standby() {
		return []domain.Candidate{a.standby(query)}, nil
	}
	if !a.ensureConnected(ctx) {
		return nil, ErrNotConnected
	}

	if limit <= 0 {
		limit = a.params.Reddit.DefaultLimit
	}
	return a.reddit.search(ctx, query, min(limit, redditMaxLimit))
}

// ensureConnected connects once, failed connection is retried on the next call
func (a *Adapter) ensureConnected(ctx context.Context) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.connected {
		a.connected = a.Connect(ctx)
	}
	return a.connected
}

func (a *Adapter) standby(query string) domain.Candidate {
	return domain.Candidate{
		SourceID: domain.StandbyProvenance,
		Title:    fmt.Sprintf("Reddit module: awaiting activation for %q", query),
		Content: fmt.Sprintf("Sentinel search is configured for %q. To receive real-time data set the reddit "+
			"client_id and client_secret in the server configuration.", query),
		URL:           StandbyURL,
		Author:        "Sentinel System",
		PublishedDate: a.now().UTC(),
		CreatedBy:     domain.StandbyProvenance,
		Informational: true,
	}
}
