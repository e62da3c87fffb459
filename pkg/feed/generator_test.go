package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/sentinel/pkg/domain"
)

func TestGenerator_GenerateRSS(t *testing.T) {
	generator := NewGenerator("https://example.com/")
	generator.now = func() time.Time { return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC) }

	pubTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	findings := []domain.Finding{
		{
			ID:            "abc123",
			SourceID:      "src-1",
			Title:         "Credentials dump & more",
			Content:       "Dump of leaked credentials",
			URL:           "https://example.com/leak",
			PublishedDate: pubTime,
			Sentiment:     -0.6,
			RiskLevel:     domain.RiskCritical,
			Status:        domain.StatusNew,
			Comments:      "escalated",
		},
		{
			ID:            "def456",
			SourceID:      "src-2",
			Title:         "Quiet day",
			PublishedDate: pubTime.Add(time.Hour),
			RiskLevel:     domain.RiskLow,
			Status:        domain.StatusReviewed,
		},
	}

	t.Run("all findings", func(t *testing.T) {
		rss, err := generator.GenerateRSS(findings, "")
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(rss, `<?xml version="1.0" encoding="UTF-8"?>`))
		assert.Contains(t, rss, `<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
		assert.Contains(t, rss, `<title>Sentinel - All Findings</title>`)
		assert.Contains(t, rss, `<link>https://example.com/</link>`)
		assert.Contains(t, rss, `<link xmlns="http://www.w3.org/2005/Atom" href="https://example.com/rss" rel="self" type="application/rss+xml"></link>`)
		assert.Contains(t, rss, `<lastBuildDate>Tue, 02 Jan 2024 00:00:00 +0000</lastBuildDate>`)

		assert.Contains(t, rss, `<title>[CRITICAL] Credentials dump &amp; more</title>`)
		assert.Contains(t, rss, `<guid isPermaLink="false">abc123</guid>`)
		assert.Contains(t, rss, `<link>https://example.com/leak</link>`)
		assert.Contains(t, rss, `Risk: critical, sentiment -0.60, status new`)
		assert.Contains(t, rss, `Comments: escalated`)
		assert.Contains(t, rss, `<category>critical</category>`)
		assert.Contains(t, rss, `<category>src-1</category>`)
		assert.Contains(t, rss, `<pubDate>Mon, 01 Jan 2024 12:00:00 +0000</pubDate>`)

		assert.Contains(t, rss, `<title>[LOW] Quiet day</title>`)
		assert.Equal(t, 2, strings.Count(rss, "<item>"))
	})

	t.Run("risk filtered title", func(t *testing.T) {
		rss, err := generator.GenerateRSS(findings[:1], domain.RiskHigh)
		require.NoError(t, err)
		assert.Contains(t, rss, `<title>Sentinel - Risk high+</title>`)
		assert.Contains(t, rss, `href="https://example.com/rss/high"`)
		assert.Equal(t, 1, strings.Count(rss, "<item>"))
	})

	t.Run("empty", func(t *testing.T) {
		rss, err := generator.GenerateRSS(nil, "")
		require.NoError(t, err)
		assert.Contains(t, rss, "<channel>")
		assert.NotContains(t, rss, "<item>")
	})
}
