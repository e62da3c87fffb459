// Package config loads sentinel configuration from a YAML file with environment expansion,
// applies defaults and validates it.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"

	"github.com/umputun/sentinel/pkg/domain"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" json:"server" jsonschema:"description=HTTP server configuration"`
	Database DatabaseConfig `yaml:"database" json:"database" jsonschema:"description=Database configuration"`
	Schedule ScheduleConfig `yaml:"schedule" json:"schedule" jsonschema:"description=Ingestion scheduler configuration"`
	Feed     FeedConfig     `yaml:"feed" json:"feed" jsonschema:"description=Feed adapter configuration"`
	Web      WebConfig      `yaml:"web" json:"web" jsonschema:"description=Web page adapter configuration"`
	Social   SocialConfig   `yaml:"social" json:"social" jsonschema:"description=Social platform adapter configuration"`
	Sources  []SourceConfig `yaml:"sources" json:"sources" jsonschema:"description=Sources upserted into the store on startup"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled" jsonschema:"default=true,description=Run HTTP server"`
	Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	BaseURL string        `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8080,description=Base URL for RSS feeds"`
}

// DatabaseConfig holds store settings
type DatabaseConfig struct {
	DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:sentinel.db?cache=shared&mode=rwc&_txlock=immediate,description=Database connection string"`
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,minimum=1,description=Maximum number of open connections"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,minimum=1,description=Maximum number of idle connections"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
}

// ScheduleConfig holds ingestion cycle settings
type ScheduleConfig struct {
	Interval      time.Duration `yaml:"interval" json:"interval" jsonschema:"default=10m,description=Interval between ingestion cycles"`
	MaxWorkers    int           `yaml:"max_workers" json:"max_workers" jsonschema:"default=5,minimum=1,description=Sources collected concurrently"`
	SourceTimeout time.Duration `yaml:"source_timeout" json:"source_timeout" jsonschema:"default=30s,description=Collection budget of a single source"`
	WriteTimeout  time.Duration `yaml:"write_timeout" json:"write_timeout" jsonschema:"default=10s,description=Budget of a single finding write"`
	CycleTimeout  time.Duration `yaml:"cycle_timeout" json:"cycle_timeout" jsonschema:"default=5m,description=Budget of a whole cycle"`
}

// FeedConfig holds feed adapter settings
type FeedConfig struct {
	Timeout    time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Feed request timeout"`
	UserAgent  string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Sentinel/1.0,description=User agent for feed requests"`
	MaxEntries int           `yaml:"max_entries" json:"max_entries" jsonschema:"default=10,minimum=1,description=Entries kept per feed"`
}

// WebConfig holds web page adapter settings
type WebConfig struct {
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Page request timeout"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Sentinel/1.0,description=User agent for page requests"`
	MinTextLength int           `yaml:"min_text_length" json:"min_text_length" jsonschema:"default=100,minimum=0,description=Minimum extracted text length"`
}

// SocialConfig holds social platform settings
type SocialConfig struct {
	Reddit RedditConfig `yaml:"reddit" json:"reddit" jsonschema:"description=Reddit API settings (standby mode without credentials)"`
}

// RedditConfig holds reddit app credentials and limits
type RedditConfig struct {
	ClientID          string        `yaml:"client_id" json:"client_id" jsonschema:"description=Reddit app client id (can use environment variable)"`
	ClientSecret      string        `yaml:"client_secret" json:"client_secret" jsonschema:"description=Reddit app client secret (can use environment variable)"`
	UserAgent         string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Sentinel_OSINT_Bot/1.0,description=User agent for reddit api"`
	TokenURL          string        `yaml:"token_url" json:"token_url" jsonschema:"default=https://www.reddit.com/api/v1/access_token,description=OAuth2 token endpoint"`
	APIURL            string        `yaml:"api_url" json:"api_url" jsonschema:"default=https://oauth.reddit.com,description=Reddit api base URL"`
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute" jsonschema:"default=60,minimum=1,description=Api request rate limit"`
	DefaultLimit      int           `yaml:"default_limit" json:"default_limit" jsonschema:"default=10,minimum=1,maximum=100,description=Posts per search when source sets no limit"`
	Timeout           time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Api request timeout"`
}

// SourceConfig is a source seeded into the store on startup
type SourceConfig struct {
	ID     string            `yaml:"id" json:"id" jsonschema:"description=Source id (derived from kind and url if empty)"`
	Kind   string            `yaml:"kind" json:"kind" jsonschema:"description=Source kind (feed rss social reddit or web)"`
	URL    string            `yaml:"url" json:"url" jsonschema:"description=Source URL (required for feed and web kinds)"`
	Name   string            `yaml:"name" json:"name" jsonschema:"description=Human-readable name and default search query for social sources"`
	Config map[string]string `yaml:"config" json:"config" jsonschema:"description=Adapter options (platform and query and limit)"`
	Status string            `yaml:"status" json:"status" jsonschema:"enum=active,enum=inactive,default=active,description=Source status"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	// enabled flag is on unless set explicitly
	cfg := Config{Server: ServerConfig{Enabled: true}}
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// schema validation is supplementary, log and go on
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		lgr.Printf("[WARN] schema validation failed: %v", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	// server
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8080"
	}

	// database
	if c.Database.DSN == "" {
		c.Database.DSN = "file:sentinel.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	// schedule
	if c.Schedule.Interval == 0 {
		c.Schedule.Interval = 10 * time.Minute
	}
	if c.Schedule.MaxWorkers == 0 {
		c.Schedule.MaxWorkers = 5
	}
	if c.Schedule.SourceTimeout == 0 {
		c.Schedule.SourceTimeout = 30 * time.Second
	}
	if c.Schedule.WriteTimeout == 0 {
		c.Schedule.WriteTimeout = 10 * time.Second
	}
	if c.Schedule.CycleTimeout == 0 {
		c.Schedule.CycleTimeout = 5 * time.Minute
	}

	// adapters
	if c.Feed.Timeout == 0 {
		c.Feed.Timeout = 30 * time.Second
	}
	if c.Feed.UserAgent == "" {
		c.Feed.UserAgent = "Sentinel/1.0"
	}
	if c.Feed.MaxEntries == 0 {
		c.Feed.MaxEntries = 10
	}
	if c.Web.Timeout == 0 {
		c.Web.Timeout = 30 * time.Second
	}
	if c.Web.UserAgent == "" {
		c.Web.UserAgent = "Sentinel/1.0"
	}
	if c.Web.MinTextLength == 0 {
		c.Web.MinTextLength = 100
	}

	// reddit
	r := &c.Social.Reddit
	r.ClientID, r.ClientSecret = strings.TrimSpace(r.ClientID), strings.TrimSpace(r.ClientSecret)
	if r.UserAgent == "" {
		r.UserAgent = "Sentinel_OSINT_Bot/1.0"
	}
	if r.TokenURL == "" {
		r.TokenURL = "https://www.reddit.com/api/v1/access_token"
	}
	if r.APIURL == "" {
		r.APIURL = "https://oauth.reddit.com"
	}
	if r.RequestsPerMinute == 0 {
		r.RequestsPerMinute = 60
	}
	if r.DefaultLimit == 0 {
		r.DefaultLimit = 10
	}
	if r.Timeout == 0 {
		r.Timeout = 30 * time.Second
	}

	// sources
	for i := range c.Sources {
		s := &c.Sources[i]
		s.Kind = strings.ToLower(strings.TrimSpace(s.Kind))
		s.URL = strings.TrimSpace(s.URL)
		if s.Status == "" {
			s.Status = string(domain.SourceActive)
		}
		if s.ID == "" {
			s.ID = sourceID(s.Kind, s.URL, s.Name)
		}
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	if cfg.Schedule.Interval < time.Second {
		return fmt.Errorf("schedule interval must be at least 1 second")
	}
	if cfg.Schedule.MaxWorkers < 1 {
		return fmt.Errorf("schedule max_workers must be at least 1")
	}
	if cfg.Schedule.SourceTimeout < 0 || cfg.Schedule.WriteTimeout < 0 || cfg.Schedule.CycleTimeout < 0 {
		return fmt.Errorf("schedule timeouts must be non-negative")
	}

	if cfg.Feed.MaxEntries < 1 {
		return fmt.Errorf("feed max_entries must be at least 1")
	}
	if cfg.Web.MinTextLength < 0 {
		return fmt.Errorf("web min_text_length must be non-negative")
	}

	if cfg.Social.Reddit.RequestsPerMinute < 1 {
		return fmt.Errorf("social.reddit requests_per_minute must be at least 1")
	}
	if cfg.Social.Reddit.DefaultLimit < 1 || cfg.Social.Reddit.DefaultLimit > 100 {
		return fmt.Errorf("social.reddit default_limit must be between 1 and 100")
	}
	if (cfg.Social.Reddit.ClientID == "") != (cfg.Social.Reddit.ClientSecret == "") {
		lgr.Printf("[WARN] only one of reddit client_id and client_secret is set, social adapter will run in standby mode")
	}

	ids := make(map[string]bool, len(cfg.Sources))
	for i, s := range cfg.Sources {
		if s.Kind == "" {
			return fmt.Errorf("sources[%d]: kind is required", i)
		}
		switch domain.SourceKind(s.Kind) {
		case domain.KindFeed, domain.KindRSS, domain.KindWeb:
			if s.URL == "" {
				return fmt.Errorf("sources[%d]: url is required for %s sources", i, s.Kind)
			}
		}
		if s.Status != string(domain.SourceActive) && s.Status != string(domain.SourceInactive) {
			return fmt.Errorf("sources[%d]: invalid status %q", i, s.Status)
		}
		if ids[s.ID] {
			return fmt.Errorf("sources[%d]: duplicate id %q", i, s.ID)
		}
		ids[s.ID] = true
	}

	return nil
}

// sourceID makes a stable id from kind and url, name is used for sources without url
func sourceID(kind, url, name string) string {
	key := url
	if key == "" {
		key = strings.ToLower(strings.TrimSpace(name))
	}
	h := sha256.Sum256([]byte(kind + "|" + key))
	return kind + "-" + hex.EncodeToString(h[:])[:12]
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetBaseURL returns base URL for links in generated feeds
func (c *Config) GetBaseURL() string {
	return c.Server.BaseURL
}

// SeedSources returns configured sources as domain sources
func (c *Config) SeedSources() []domain.Source {
	res := make([]domain.Source, 0, len(c.Sources))
	for _, s := range c.Sources {
		res = append(res, domain.Source{
			ID:     s.ID,
			Kind:   domain.SourceKind(s.Kind),
			URL:    s.URL,
			Name:   s.Name,
			Config: s.Config,
			Status: domain.SourceStatus(s.Status),
		})
	}
	return res
}

// Secrets returns configured credentials to be masked in logs
func (c *Config) Secrets() []string {
	var res []string
	if c.Social.Reddit.ClientSecret != "" {
		res = append(res, c.Social.Reddit.ClientSecret)
	}
	return res
}
