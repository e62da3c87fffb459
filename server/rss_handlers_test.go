package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/sentinel/pkg/domain"
	"github.com/umputun/sentinel/server/mocks"
)

func TestServer_rssHandler(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantCode   int
		wantLevels []domain.RiskLevel
		wantTitle  string
	}{
		{name: "all findings", path: "/rss", wantCode: http.StatusOK, wantTitle: "Sentinel - All Findings"},
		{name: "high and above", path: "/rss/high", wantCode: http.StatusOK,
			wantLevels: []domain.RiskLevel{domain.RiskHigh, domain.RiskCritical}, wantTitle: "Sentinel - Risk high+"},
		{name: "upper case level", path: "/rss/CRITICAL", wantCode: http.StatusOK,
			wantLevels: []domain.RiskLevel{domain.RiskCritical}, wantTitle: "Sentinel - Risk critical+"},
		{name: "unknown level", path: "/rss/severe", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := &mocks.FindingStoreMock{
				GetFindingsFunc: func(ctx context.Context, filter domain.FindingFilter) ([]domain.Finding, error) {
					return []domain.Finding{testFinding("f1", domain.RiskCritical)}, nil
				},
			}
			srv := testServer(t, findings, nil, nil)

			w := httptest.NewRecorder()
			srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, http.NoBody))
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())
			if tt.wantCode != http.StatusOK {
				assert.Empty(t, findings.GetFindingsCalls())
				return
			}

			assert.Equal(t, "application/rss+xml; charset=utf-8", w.Header().Get("Content-Type"))
			body := w.Body.String()
			assert.Contains(t, body, `<rss version="2.0"`)
			assert.Contains(t, body, "<title>"+tt.wantTitle+"</title>")
			assert.Contains(t, body, "[CRITICAL] Finding f1")

			require.Len(t, findings.GetFindingsCalls(), 1)
			filter := findings.GetFindingsCalls()[0].Filter
			assert.Equal(t, tt.wantLevels, filter.RiskLevels)
			assert.Equal(t, defaultRSSLimit, filter.Limit)
		})
	}
}

func TestServer_rssHandler_StoreError(t *testing.T) {
	findings := &mocks.FindingStoreMock{
		GetFindingsFunc: func(context.Context, domain.FindingFilter) ([]domain.Finding, error) {
			return nil, errors.New("db error")
		},
	}
	srv := testServer(t, findings, nil, nil)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rss/low", http.NoBody))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to generate RSS feed")
}
