package domain

import (
	"errors"
	"time"
)

// ErrNotFound returned by stores when the requested record does not exist
var ErrNotFound = errors.New("not found")

// RiskLevel is an ordinal classification of a finding
type RiskLevel string

// risk levels, ordered from least to most severe
const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

var riskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskCritical}

// Rank returns position of the level in severity order, -1 for unknown levels
func (r RiskLevel) Rank() int {
	for i, l := range riskLevels {
		if l == r {
			return i
		}
	}
	return -1
}

// Valid checks if the level is one of the known risk levels
func (r RiskLevel) Valid() bool { return r.Rank() >= 0 }

// AtLeast returns all known levels with severity equal or above r
func (r RiskLevel) AtLeast() []RiskLevel {
	rank := r.Rank()
	if rank < 0 {
		return nil
	}
	res := make([]RiskLevel, len(riskLevels)-rank)
	copy(res, riskLevels[rank:])
	return res
}

// workflow statuses. Collaborators may set any other value, these are the ones the pipeline knows about.
const (
	StatusNew      = "new"
	StatusReviewed = "reviewed"
)

// StandbyProvenance marks informational records of a social adapter running without credentials
const StandbyProvenance = "sentinel_standby"

// Candidate is an unclassified record produced by an adapter within one ingestion pass
type Candidate struct {
	SourceID      string
	Title         string
	Content       string
	URL           string
	Author        string
	PublishedDate time.Time
	CreatedBy     string // provenance tag, adapter name or standby marker
	Informational bool   // system notice, stored as low risk without classification
}

// Assessment is the classifier output for a piece of text
type Assessment struct {
	Sentiment float64
	RiskLevel RiskLevel
}

// Finding is a persisted, classified and deduplicated unit of intelligence.
// Status and Comments belong to collaborators and survive re-ingestion.
type Finding struct {
	ID            string    `json:"id"`
	SourceID      string    `json:"source_id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	URL           string    `json:"url"`
	PublishedDate time.Time `json:"published_date"`
	Sentiment     float64   `json:"sentiment"`
	RiskLevel     RiskLevel `json:"risk_level"`
	Status        string    `json:"status"`
	Comments      string    `json:"comments,omitempty"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

// FindingFilter represents filtering criteria for findings
type FindingFilter struct {
	RiskLevels []RiskLevel
	Status     string
	SourceID   string
	Limit      int
	Offset     int
}

// WorkflowUpdate carries collaborator-owned fields, nil fields are left unchanged
type WorkflowUpdate struct {
	Status   *string `json:"status,omitempty"`
	Comments *string `json:"comments,omitempty"`
}
