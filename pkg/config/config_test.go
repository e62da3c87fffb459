package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/sentinel/pkg/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	return configPath
}

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		t.Setenv("TEST_REDDIT_SECRET", "s3cr3t")
		configContent := `
server:
  listen: ":9090"
  timeout: 45s
  base_url: https://sentinel.example.com
schedule:
  interval: 5m
  max_workers: 3
  cycle_timeout: 2m
feed:
  max_entries: 20
social:
  reddit:
    client_id: app-id
    client_secret: ${TEST_REDDIT_SECRET}
    requests_per_minute: 30
sources:
  - id: wire
    kind: feed
    url: https://example.com/rss.xml
    name: Security Wire
  - kind: Social
    name: ransomware
    config:
      platform: reddit
      limit: "25"
  - kind: web
    url: https://example.com/advisory
    status: inactive
`
		cfg, err := Load(writeConfig(t, configContent))
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.True(t, cfg.Server.Enabled)
		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "https://sentinel.example.com", cfg.GetBaseURL())

		assert.Equal(t, 5*time.Minute, cfg.Schedule.Interval)
		assert.Equal(t, 3, cfg.Schedule.MaxWorkers)
		assert.Equal(t, 2*time.Minute, cfg.Schedule.CycleTimeout)
		assert.Equal(t, 30*time.Second, cfg.Schedule.SourceTimeout)
		assert.Equal(t, 20, cfg.Feed.MaxEntries)

		assert.Equal(t, "app-id", cfg.Social.Reddit.ClientID)
		assert.Equal(t, "s3cr3t", cfg.Social.Reddit.ClientSecret)
		assert.Equal(t, 30, cfg.Social.Reddit.RequestsPerMinute)
		assert.Equal(t, []string{"s3cr3t"}, cfg.Secrets())

		sources := cfg.SeedSources()
		require.Len(t, sources, 3)
		assert.Equal(t, domain.Source{ID: "wire", Kind: domain.KindFeed, URL: "https://example.com/rss.xml",
			Name: "Security Wire", Status: domain.SourceActive}, sources[0])
		assert.Equal(t, domain.KindSocial, sources[1].Kind, "kind normalized")
		assert.Equal(t, "25", sources[1].Config["limit"])
		assert.Regexp(t, `^social-[0-9a-f]{12}$`, sources[1].ID)
		assert.Regexp(t, `^web-[0-9a-f]{12}$`, sources[2].ID)
		assert.Equal(t, domain.SourceInactive, sources[2].Status)
	})

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "server:\n  listen: \":8081\"\n"))
		require.NoError(t, err)

		assert.True(t, cfg.Server.Enabled)
		assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
		assert.Equal(t, "file:sentinel.db?cache=shared&mode=rwc&_txlock=immediate", cfg.Database.DSN)
		assert.Equal(t, 10, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10*time.Minute, cfg.Schedule.Interval)
		assert.Equal(t, 5, cfg.Schedule.MaxWorkers)
		assert.Equal(t, 10*time.Second, cfg.Schedule.WriteTimeout)
		assert.Equal(t, 5*time.Minute, cfg.Schedule.CycleTimeout)
		assert.Equal(t, 10, cfg.Feed.MaxEntries)
		assert.Equal(t, 100, cfg.Web.MinTextLength)
		assert.Equal(t, "Sentinel_OSINT_Bot/1.0", cfg.Social.Reddit.UserAgent)
		assert.Equal(t, "https://www.reddit.com/api/v1/access_token", cfg.Social.Reddit.TokenURL)
		assert.Equal(t, 60, cfg.Social.Reddit.RequestsPerMinute)
		assert.Equal(t, 10, cfg.Social.Reddit.DefaultLimit)
		assert.Empty(t, cfg.Social.Reddit.ClientID)
		assert.Empty(t, cfg.Secrets())
		assert.Empty(t, cfg.SeedSources())
	})

	t.Run("server disabled", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "server:\n  enabled: false\n"))
		require.NoError(t, err)
		assert.False(t, cfg.Server.Enabled)
	})

	t.Run("file not found", func(t *testing.T) {
		cfg, err := Load("/non/existent/file.yml")
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "invalid yaml content\n  with bad indentation\n    and no structure\n"))
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("invalid values", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "schedule:\n  max_workers: -1\n"))
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "validate config")
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.setDefaults()
		return cfg
	}

	tests := []struct {
		name   string
		modify func(c *Config)
		errMsg string
	}{
		{name: "defaults are valid", modify: func(*Config) {}},
		{name: "short server timeout", modify: func(c *Config) { c.Server.Timeout = time.Millisecond },
			errMsg: "server timeout"},
		{name: "short interval", modify: func(c *Config) { c.Schedule.Interval = time.Millisecond },
			errMsg: "schedule interval"},
		{name: "no workers", modify: func(c *Config) { c.Schedule.MaxWorkers = -2 }, errMsg: "max_workers"},
		{name: "negative timeout", modify: func(c *Config) { c.Schedule.WriteTimeout = -time.Second },
			errMsg: "non-negative"},
		{name: "zero feed entries", modify: func(c *Config) { c.Feed.MaxEntries = -1 }, errMsg: "max_entries"},
		{name: "negative text length", modify: func(c *Config) { c.Web.MinTextLength = -5 }, errMsg: "min_text_length"},
		{name: "reddit limit too big", modify: func(c *Config) { c.Social.Reddit.DefaultLimit = 500 },
			errMsg: "default_limit"},
		{name: "reddit rate", modify: func(c *Config) { c.Social.Reddit.RequestsPerMinute = -1 },
			errMsg: "requests_per_minute"},
		{name: "partial reddit credentials only warn", modify: func(c *Config) { c.Social.Reddit.ClientID = "id" }},
		{name: "source without kind", modify: func(c *Config) {
			c.Sources = []SourceConfig{{ID: "x", URL: "https://example.com", Status: "active"}}
		}, errMsg: "kind is required"},
		{name: "feed without url", modify: func(c *Config) {
			c.Sources = []SourceConfig{{ID: "x", Kind: "rss", Status: "active"}}
		}, errMsg: "url is required"},
		{name: "social without url", modify: func(c *Config) {
			c.Sources = []SourceConfig{{ID: "x", Kind: "social", Name: "apt29", Status: "active"}}
		}},
		{name: "bad status", modify: func(c *Config) {
			c.Sources = []SourceConfig{{ID: "x", Kind: "web", URL: "https://example.com", Status: "paused"}}
		}, errMsg: "invalid status"},
		{name: "duplicate ids", modify: func(c *Config) {
			c.Sources = []SourceConfig{
				{ID: "x", Kind: "web", URL: "https://example.com/1", Status: "active"},
				{ID: "x", Kind: "web", URL: "https://example.com/2", Status: "active"},
			}
		}, errMsg: "duplicate id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)
			err := validate(cfg)
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSourceID(t *testing.T) {
	id := sourceID("feed", "https://example.com/rss", "")
	assert.Equal(t, id, sourceID("feed", "https://example.com/rss", "other name"), "url wins over name")
	assert.NotEqual(t, id, sourceID("rss", "https://example.com/rss", ""), "kind is part of the id")
	assert.Equal(t, sourceID("social", "", "Ransomware"), sourceID("social", "", " ransomware "))
	assert.NotEqual(t, sourceID("social", "", "ransomware"), sourceID("social", "", "apt29"))
	assert.Len(t, id, len("feed-")+12)
}

func TestConfig_GetServerConfig(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Listen: ":9090", Timeout: 45 * time.Second}}
	listen, timeout := cfg.GetServerConfig()
	assert.Equal(t, ":9090", listen)
	assert.Equal(t, 45*time.Second, timeout)
}
