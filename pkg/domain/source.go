package domain

import "time"

// SourceKind selects the adapter that collects a source
type SourceKind string

// known source kinds, rss and reddit are aliases kept for sources registered by older tooling
const (
	KindFeed   SourceKind = "feed"
	KindRSS    SourceKind = "rss"
	KindSocial SourceKind = "social"
	KindReddit SourceKind = "reddit"
	KindWeb    SourceKind = "web"
)

// SourceStatus tells the scheduler whether to collect a source
type SourceStatus string

// source statuses
const (
	SourceActive   SourceStatus = "active"
	SourceInactive SourceStatus = "inactive"
)

// Source is a registered origin of content. Sources are owned by collaborators,
// the ingestion pipeline only reads them.
type Source struct {
	ID        string            `json:"id"`
	Kind      SourceKind        `json:"kind"`
	URL       string            `json:"url"`
	Name      string            `json:"name"`
	Config    map[string]string `json:"config"`
	Status    SourceStatus      `json:"status"`
	CreatedAt time.Time         `json:"created_at,omitempty"`
}

// Option returns adapter-specific option by key or the fallback if not set
func (s Source) Option(key, fallback string) string {
	if v, ok := s.Config[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Identifier returns a human-readable identifier for logs
func (s Source) Identifier() string {
	if s.Name != "" {
		return s.Name + " (" + s.ID + ")"
	}
	if s.URL != "" {
		return s.URL + " (" + s.ID + ")"
	}
	return s.ID
}
