package social

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/umputun/sentinel/pkg/domain"
	"github.com/umputun/sentinel/pkg/source"
)

// reddit api defaults
const (
	DefaultRedditTokenURL = "https://www.reddit.com/api/v1/access_token"
	DefaultRedditAPIURL   = "https://oauth.reddit.com"
	redditMaxLimit        = 100
	redditSourceID        = "reddit_api"
	redditTitleLen        = 80
	redditContentLen      = 500
	deletedAuthor         = "deleted"
)

// RedditParams configures the reddit client. Both ClientID and ClientSecret are required for live mode.
type RedditParams struct {
	ClientID          string
	ClientSecret      string
	UserAgent         string
	TokenURL          string
	APIURL            string
	RequestsPerMinute int
	DefaultLimit      int
	Timeout           time.Duration
}

// HasCredentials checks if both client id and secret are set
func (p RedditParams) HasCredentials() bool {
	return strings.TrimSpace(p.ClientID) != "" && strings.TrimSpace(p.ClientSecret) != ""
}

// redditClient searches reddit with app-only oauth2 and a request rate limit
type redditClient struct {
	apiURL  string
	ua      string
	tokens  oauth2.TokenSource
	client  *http.Client
	limiter *rate.Limiter
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Selftext   string  `json:"selftext"`
	URL        string  `json:"url"`
	Permalink  string  `json:"permalink"`
	Author     string  `json:"author"`
	CreatedUTC float64 `json:"created_utc"`
}

func newRedditClient(p RedditParams) *redditClient {
	if p.TokenURL == "" {
		p.TokenURL = DefaultRedditTokenURL
	}
	if p.APIURL == "" {
		p.APIURL = DefaultRedditAPIURL
	}
	if p.Timeout <= 0 {
		p.Timeout = 30 * time.Second
	}
	if p.RequestsPerMinute <= 0 {
		p.RequestsPerMinute = 60
	}

	// token requests need the user agent too, reddit throttles anonymous agents hard
	base := &http.Client{Timeout: p.Timeout, Transport: &uaTransport{ua: p.UserAgent, next: http.DefaultTransport}}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	cfg := clientcredentials.Config{
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
		TokenURL:     p.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	tokens := cfg.TokenSource(ctx)
	client := oauth2.NewClient(ctx, tokens)
	client.Timeout = p.Timeout

	return &redditClient{
		apiURL:  strings.TrimRight(p.APIURL, "/"),
		ua:      p.UserAgent,
		tokens:  tokens,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(p.RequestsPerMinute)), 1),
	}
}

// verify obtains an access token, cached by the token source for subsequent calls
func (r *redditClient) verify() error {
	if _, err := r.tokens.Token(); err != nil {
		return fmt.Errorf("get reddit token: %w", err)
	}
	return nil
}

// search returns newest posts across all subreddits matching the query, in reddit's order
func (r *redditClient) search(ctx context.Context, query string, limit int) ([]domain.Candidate, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sort", "new")
	params.Set("raw_json", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.apiURL+"/r/all/search?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	source.SetBrowserHeaders(req, r.ua, source.AcceptJSON)

	resp, err := r.client.Do(req)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			return nil, fmt.Errorf("%w: %v", ErrNotConnected, err)
		}
		return nil, fmt.Errorf("search reddit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search reddit: unexpected status code %d", resp.StatusCode)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode reddit listing: %w", err)
	}

	res := make([]domain.Candidate, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		res = append(res, child.Data.candidate())
	}
	return res, nil
}

func (p redditPost) candidate() domain.Candidate {
	content := truncate(p.Selftext, redditContentLen)
	if strings.TrimSpace(content) == "" {
		content = p.Title
	}
	link := p.URL
	if link == "" && p.Permalink != "" {
		link = "https://www.reddit.com" + p.Permalink
	}
	author := p.Author
	if author == "" || author == "[deleted]" {
		author = deletedAuthor
	}
	sec := int64(p.CreatedUTC)
	nsec := int64((p.CreatedUTC - float64(sec)) * 1e9)

	return domain.Candidate{
		SourceID:      redditSourceID,
		Title:         "Reddit: " + truncate(p.Title, redditTitleLen),
		Content:       content,
		URL:           link,
		Author:        author,
		PublishedDate: time.Unix(sec, nsec).UTC(),
		CreatedBy:     "reddit",
	}
}

// truncate cuts s to n runes, adding ellipsis when cut
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

type uaTransport struct {
	ua   string
	next http.RoundTripper
}

func (t *uaTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.ua == "" || req.Header.Get("User-Agent") != "" {
		return t.next.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.ua)
	return t.next.RoundTrip(r)
}
