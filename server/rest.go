package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"

	"github.com/umputun/sentinel/pkg/domain"
)

const maxFindingsLimit = 500

// findingsResponse is a page of findings with the total number matching the filter
type findingsResponse struct {
	Findings []domain.Finding `json:"findings"`
	Total    int              `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

// statusHandler returns server status with the last cycle counters
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := rest.JSON{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
		"cycles":  s.ingester.Cycles(),
	}
	if last, ok := s.ingester.LastCycle(); ok {
		status["last_cycle"] = last
	}

	risks, err := s.findings.CountByRisk(r.Context())
	if err != nil {
		lgr.Printf("[WARN] failed to count findings by risk: %v", err)
		status["status"] = "degraded"
	} else {
		status["findings"] = risks
	}
	renderJSON(w, r, http.StatusOK, status)
}

// ingestHandler runs one ingestion cycle and returns its counters. The cycle outlives a dropped
// client connection, a running cycle is waited for first.
func (s *Server) ingestHandler(w http.ResponseWriter, r *http.Request) {
	lgr.Printf("[INFO] manual ingestion triggered from %s", r.RemoteAddr)
	stats := s.ingester.RunCycle(context.WithoutCancel(r.Context()))
	renderJSON(w, r, http.StatusOK, stats)
}

// findingsHandler lists findings matching risk, status and source filters
func (s *Server) findingsHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFindingFilter(r)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	if filter.RiskLevels != nil && len(filter.RiskLevels) == 0 {
		// risk and min_risk exclude each other
		renderJSON(w, r, http.StatusOK, findingsResponse{Findings: []domain.Finding{}, Limit: filter.Limit, Offset: filter.Offset})
		return
	}

	findings, err := s.findings.GetFindings(r.Context(), filter)
	if err != nil {
		lgr.Printf("[ERROR] failed to get findings: %v", err)
		renderError(w, r, errors.New("can't get findings"), http.StatusInternalServerError)
		return
	}
	total, err := s.findings.CountFindings(r.Context(), filter)
	if err != nil {
		lgr.Printf("[ERROR] failed to count findings: %v", err)
		renderError(w, r, errors.New("can't count findings"), http.StatusInternalServerError)
		return
	}
	if findings == nil {
		findings = []domain.Finding{}
	}
	renderJSON(w, r, http.StatusOK, findingsResponse{Findings: findings, Total: total, Limit: filter.Limit, Offset: filter.Offset})
}

// findingHandler returns a single finding
func (s *Server) findingHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	f, err := s.findings.GetFinding(r.Context(), id)
	if err != nil {
		s.renderStoreError(w, r, err, "get finding "+id)
		return
	}
	renderJSON(w, r, http.StatusOK, f)
}

// updateFindingHandler sets collaborator-owned workflow fields and returns the updated finding
func (s *Server) updateFindingHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var upd domain.WorkflowUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}
	if upd.Status != nil {
		status := strings.TrimSpace(*upd.Status)
		if status == "" {
			renderError(w, r, errors.New("status can't be empty"), http.StatusBadRequest)
			return
		}
		upd.Status = &status
	}

	if err := s.findings.UpdateFindingWorkflow(r.Context(), id, upd); err != nil {
		s.renderStoreError(w, r, err, "update finding "+id)
		return
	}

	f, err := s.findings.GetFinding(r.Context(), id)
	if err != nil {
		s.renderStoreError(w, r, err, "get finding "+id)
		return
	}
	renderJSON(w, r, http.StatusOK, f)
}

// sourcesHandler lists all registered sources, active and inactive
func (s *Server) sourcesHandler(w http.ResponseWriter, r *http.Request) {
	sources, err := s.sources.GetSources(r.Context(), false)
	if err != nil {
		lgr.Printf("[ERROR] failed to get sources: %v", err)
		renderError(w, r, errors.New("can't get sources"), http.StatusInternalServerError)
		return
	}
	if sources == nil {
		sources = []domain.Source{}
	}
	renderJSON(w, r, http.StatusOK, sources)
}

func (s *Server) renderStoreError(w http.ResponseWriter, r *http.Request, err error, op string) {
	if errors.Is(err, domain.ErrNotFound) {
		renderError(w, r, errors.New("finding not found"), http.StatusNotFound)
		return
	}
	lgr.Printf("[ERROR] failed to %s: %v", op, err)
	renderError(w, r, fmt.Errorf("can't %s", op), http.StatusInternalServerError)
}

// parseFindingFilter makes filter from query params. Both risk and min_risk narrow the levels,
// an empty non-nil RiskLevels means nothing can match.
func parseFindingFilter(r *http.Request) (domain.FindingFilter, error) {
	q := r.URL.Query()
	filter := domain.FindingFilter{
		Status:   strings.TrimSpace(q.Get("status")),
		SourceID: strings.TrimSpace(q.Get("source")),
	}

	if v := q.Get("risk"); v != "" {
		for _, part := range strings.Split(v, ",") {
			level, err := parseRisk(part)
			if err != nil {
				return filter, err
			}
			filter.RiskLevels = append(filter.RiskLevels, level)
		}
	}

	if v := q.Get("min_risk"); v != "" {
		minLevel, err := parseRisk(v)
		if err != nil {
			return filter, err
		}
		if filter.RiskLevels == nil {
			filter.RiskLevels = minLevel.AtLeast()
		} else {
			levels := []domain.RiskLevel{}
			for _, l := range filter.RiskLevels {
				if l.Rank() >= minLevel.Rank() {
					levels = append(levels, l)
				}
			}
			filter.RiskLevels = levels
		}
	}

	var err error
	if filter.Limit, err = parseNonNegative(q.Get("limit"), "limit"); err != nil {
		return filter, err
	}
	if filter.Limit > maxFindingsLimit {
		filter.Limit = maxFindingsLimit
	}
	if filter.Offset, err = parseNonNegative(q.Get("offset"), "offset"); err != nil {
		return filter, err
	}
	return filter, nil
}

func parseRisk(v string) (domain.RiskLevel, error) {
	level := domain.RiskLevel(strings.ToLower(strings.TrimSpace(v)))
	if !level.Valid() {
		return "", fmt.Errorf("invalid risk level %q", v)
	}
	return level, nil
}

func parseNonNegative(v, name string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return n, nil
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			lgr.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, rest.JSON{"error": errMsg})
}
