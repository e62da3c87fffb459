package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/sentinel/pkg/config"
	"github.com/umputun/sentinel/pkg/domain"
	"github.com/umputun/sentinel/pkg/repository"
)

func TestRun_MissingConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: "non-existent-config.yml"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: configPath})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_Once(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = io.WriteString(w, `<?xml version="1.0"?><rss version="2.0"><channel><title>t</title>
<item><title>Zero-day exploit in VPN appliance</title><link>https://example.com/vpn</link>
<description>Patch now.</description></item>
<item><title>Team wins award</title><link>https://example.com/award</link>
<description>Great news.</description></item>
</channel></rss>`)
	}))
	defer ts.Close()

	tmpDir := t.TempDir()
	dsn := fmt.Sprintf("file:%s/once.db?mode=rwc&_txlock=immediate", tmpDir)
	configContent := fmt.Sprintf(`
database:
  dsn: %q
  max_open_conns: 1
sources:
  - id: wire
    kind: rss
    url: %s/feed.xml
  - id: reddit-watch
    kind: reddit
    name: ransomware
`, dsn, ts.URL)
	configPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, run(ctx, Opts{Config: configPath, Once: true}))

	repos, err := repository.NewRepositories(ctx, repository.Config{DSN: dsn, MaxOpenConns: 1})
	require.NoError(t, err)
	defer repos.Close()

	sources, err := repos.Source.GetSources(ctx, false)
	require.NoError(t, err)
	assert.Len(t, sources, 2)

	findings, err := repos.Finding.GetFindings(ctx, domain.FindingFilter{})
	require.NoError(t, err)
	require.Len(t, findings, 3, "two feed entries and one standby notice")

	byCreator := map[string][]domain.Finding{}
	for _, f := range findings {
		byCreator[f.CreatedBy] = append(byCreator[f.CreatedBy], f)
	}
	require.Len(t, byCreator["feed"], 2)
	require.Len(t, byCreator[domain.StandbyProvenance], 1)
	assert.Equal(t, domain.RiskLow, byCreator[domain.StandbyProvenance][0].RiskLevel)

	critical, err := repos.Finding.GetFindings(ctx, domain.FindingFilter{RiskLevels: []domain.RiskLevel{domain.RiskCritical}})
	require.NoError(t, err)
	require.Len(t, critical, 1)
	assert.Equal(t, "Zero-day exploit in VPN appliance", critical[0].Title)
}

func TestRun_ServerStartStop(t *testing.T) {
	t.Setenv("DB_PATH", t.TempDir())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- run(ctx, Opts{Config: "testdata/test_config.yml"})
	}()

	// wait for server to start
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://127.0.0.1:18765/ping")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && string(body) == "pong"
	}, 5*time.Second, 50*time.Millisecond)

	// eager cycle stores the standby notice of the social source
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://127.0.0.1:18765/api/v1/findings")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var res struct {
			Total int `json:"total"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
			return false
		}
		return res.Total == 1
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-serverErr:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Error("server shutdown timeout")
	}
}

type fakeUpserter struct {
	got    []domain.Source
	failOn string
}

func (f *fakeUpserter) UpsertSource(_ context.Context, src *domain.Source) error {
	if src.ID == f.failOn {
		return errors.New("constraint failed")
	}
	f.got = append(f.got, *src)
	return nil
}

func TestSeedSources(t *testing.T) {
	sources := []domain.Source{{ID: "a", Kind: domain.KindFeed}, {ID: "b", Kind: domain.KindWeb}}

	store := &fakeUpserter{}
	require.NoError(t, seedSources(context.Background(), store, sources))
	assert.Equal(t, sources, store.got)

	store = &fakeUpserter{failOn: "b"}
	err := seedSources(context.Background(), store, sources)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert source b")
	assert.Len(t, store.got, 1)
}

func TestMakeRegistry(t *testing.T) {
	cfg := &config.Config{}
	cfg.Feed.MaxEntries = 5
	registry := makeRegistry(context.Background(), cfg)

	assert.Equal(t, []domain.SourceKind{domain.KindFeed, domain.KindReddit, domain.KindRSS, domain.KindSocial, domain.KindWeb},
		registry.Kinds())

	tests := []struct {
		kind    domain.SourceKind
		adapter string
	}{
		{domain.KindFeed, "feed"}, {domain.KindRSS, "feed"}, {domain.KindSocial, "social"},
		{domain.KindReddit, "social"}, {domain.KindWeb, "web"},
	}
	for _, tt := range tests {
		a, ok := registry.Dispatch(domain.Source{Kind: tt.kind})
		require.True(t, ok, tt.kind)
		assert.Equal(t, tt.adapter, a.Name())
	}
	_, ok := registry.Dispatch(domain.Source{Kind: "telegram-channel"})
	assert.False(t, ok)
}

func TestPrintStats(t *testing.T) {
	buf := bytes.Buffer{}
	stats := domain.CycleStats{Sources: 2, Processed: 1, Failed: 1, Inserted: 4,
		Failures: []domain.SourceFailure{{SourceID: "s2", Reason: "timeout"}}}
	require.NoError(t, printStats(&buf, stats))

	var got domain.CycleStats
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, stats, got)
}

func TestSetupLog(t *testing.T) {
	t.Run("debug mode enabled", func(t *testing.T) {
		SetupLog(true, false)
	})
	t.Run("debug mode disabled", func(t *testing.T) {
		SetupLog(false, false)
	})
	t.Run("with secrets and no color", func(t *testing.T) {
		SetupLog(true, true, "secret1", "secret2")
	})
}
