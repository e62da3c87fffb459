// Package source defines the adapter contract shared by all content collectors and the registry
// that dispatches a source to its adapter by kind.
package source

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/umputun/sentinel/pkg/domain"
)

// Adapter collects candidates from one source. Adapter errors are local to the source.
type Adapter interface {
	Name() string
	Collect(ctx context.Context, src domain.Source) ([]domain.Candidate, error)
}

// Registry maps source kinds to adapters, safe for concurrent use
type Registry struct {
	mu       sync.RWMutex
	adapters map[domain.SourceKind]Adapter
}

// NewRegistry makes an empty registry
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[domain.SourceKind]Adapter)}
}

// Register binds adapter to one or more kinds, replacing previous bindings
func (r *Registry) Register(a Adapter, kinds ...domain.SourceKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range kinds {
		r.adapters[normalizeKind(k)] = a
	}
}

// Dispatch returns adapter for the source kind, false if the kind is unrecognized
func (r *Registry) Dispatch(src domain.Source) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[normalizeKind(src.Kind)]
	return a, ok
}

// Kinds returns sorted list of registered kinds
func (r *Registry) Kinds() []domain.SourceKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]domain.SourceKind, 0, len(r.adapters))
	for k := range r.adapters {
		res = append(res, k)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

func normalizeKind(k domain.SourceKind) domain.SourceKind {
	return domain.SourceKind(strings.ToLower(strings.TrimSpace(string(k))))
}
