package domain

import "time"

// SourceFailure records a source that did not complete within a cycle
type SourceFailure struct {
	SourceID string `json:"source_id"`
	Name     string `json:"name"`
	Reason   string `json:"reason"`
}

// CycleStats holds aggregate counters of one ingestion cycle
type CycleStats struct {
	StartedAt   time.Time       `json:"started_at"`
	Duration    time.Duration   `json:"duration"`
	Sources     int             `json:"sources"`      // active sources enumerated
	Processed   int             `json:"processed"`    // sources collected without adapter failure
	Skipped     int             `json:"skipped"`      // sources with unrecognized kind
	Failed      int             `json:"failed"`       // sources with adapter failure
	Candidates  int             `json:"candidates"`   // candidates produced by adapters
	Inserted    int             `json:"inserted"`     // new findings
	Merged      int             `json:"merged"`       // existing findings updated
	WriteErrors int             `json:"write_errors"` // candidates dropped on store failure
	Failures    []SourceFailure `json:"failures,omitempty"`
}

// Written returns number of findings written, both new and merged
func (s CycleStats) Written() int { return s.Inserted + s.Merged }
