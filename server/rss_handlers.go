package server

import (
	"net/http"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/sentinel/pkg/domain"
	"github.com/umputun/sentinel/pkg/feed"
)

const defaultRSSLimit = 100

// rssHandler serves RSS feed of findings. /rss has all findings, /rss/{risk} those at or above the level.
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	var minRisk domain.RiskLevel
	filter := domain.FindingFilter{Limit: defaultRSSLimit}
	if v := r.PathValue("risk"); v != "" {
		level, err := parseRisk(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		minRisk = level
		filter.RiskLevels = level.AtLeast()
	}

	findings, err := s.findings.GetFindings(r.Context(), filter)
	if err != nil {
		lgr.Printf("[ERROR] failed to get findings for RSS: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	rss, err := feed.NewGenerator(s.config.GetBaseURL()).GenerateRSS(findings, minRisk)
	if err != nil {
		lgr.Printf("[ERROR] failed to generate RSS feed: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(rss)); err != nil {
		lgr.Printf("[ERROR] failed to write RSS response: %v", err)
	}
}
