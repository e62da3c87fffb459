// Package scheduler drives ingestion cycles. A cycle collects every active source through its adapter,
// classifies the candidates and upserts them as findings keyed by a content fingerprint.
// Sources are isolated from each other: a failing, hanging or panicking source only affects itself.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/sentinel/pkg/domain"
	"github.com/umputun/sentinel/pkg/source"
)

//go:generate moq -out mocks/source_store.go -pkg mocks -skip-ensure -fmt goimports . SourceStore
//go:generate moq -out mocks/finding_store.go -pkg mocks -skip-ensure -fmt goimports . FindingStore
//go:generate moq -out mocks/dispatcher.go -pkg mocks -skip-ensure -fmt goimports . Dispatcher
//go:generate moq -out mocks/classifier.go -pkg mocks -skip-ensure -fmt goimports . Classifier
//go:generate moq -out mocks/adapter.go -pkg mocks -skip-ensure -fmt goimports ../source Adapter

// SourceStore lists registered sources
type SourceStore interface {
	GetSources(ctx context.Context, activeOnly bool) ([]domain.Source, error)
}

// FindingStore persists findings with merge semantics, returns true for new findings
type FindingStore interface {
	UpsertFinding(ctx context.Context, f *domain.Finding) (inserted bool, err error)
}

// Dispatcher resolves the adapter for a source, false for unrecognized kinds
type Dispatcher interface {
	Dispatch(src domain.Source) (source.Adapter, bool)
}

// Classifier assigns sentiment and risk level to text
type Classifier interface {
	Classify(text string) domain.Assessment
}

// Params for the scheduler
type Params struct {
	SourceStore  SourceStore
	FindingStore FindingStore
	Dispatcher   Dispatcher
	Classifier   Classifier

	Interval      time.Duration // between timer-driven cycles
	MaxWorkers    int           // sources collected concurrently
	SourceTimeout time.Duration // collection budget of a single source
	WriteTimeout  time.Duration // budget of a single finding upsert
	CycleTimeout  time.Duration // budget of a whole cycle, 0 for unlimited
}

// Scheduler runs ingestion cycles on startup, on a timer and on demand. Cycles never overlap.
type Scheduler struct {
	Params

	cycleMu sync.Mutex // held for the duration of a cycle

	statsMu sync.RWMutex
	last    domain.CycleStats
	cycles  int

	wg     sync.WaitGroup
	cancel context.CancelFunc
	now    func() time.Time
}

// sourceResult is the outcome of one source within a cycle
type sourceResult struct {
	processed   bool
	skipped     bool
	failure     *domain.SourceFailure
	candidates  int
	inserted    int
	merged      int
	writeErrors int
}

// NewScheduler creates a new scheduler instance, zero params replaced by defaults
func NewScheduler(params Params) *Scheduler {
	if params.Interval <= 0 {
		params.Interval = 10 * time.Minute
	}
	if params.MaxWorkers <= 0 {
		params.MaxWorkers = 5
	}
	if params.SourceTimeout <= 0 {
		params.SourceTimeout = 30 * time.Second
	}
	if params.WriteTimeout <= 0 {
		params.WriteTimeout = 10 * time.Second
	}
	return &Scheduler{Params: params, now: time.Now}
}

// Start runs the first cycle immediately and then one cycle per interval in background.
// A timer tick that finds a cycle in progress is skipped.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()

		s.tick(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(ctx)
			}
		}
	}()

	lgr.Printf("[INFO] scheduler started with interval %v, max workers %d", s.Interval, s.MaxWorkers)
}

// Stop gracefully stops the scheduler, waits for the running cycle to finish
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// RunCycle runs one ingestion cycle synchronously and returns its counters.
// If another cycle is running it waits for it to finish first.
func (s *Scheduler) RunCycle(ctx context.Context) domain.CycleStats {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()
	return s.runCycle(ctx)
}

// LastCycle returns counters of the last completed cycle, false if no cycle completed yet
func (s *Scheduler) LastCycle() (domain.CycleStats, bool) {
	s.statsMu.RLock()
	defer s.statsMu.RUnlock()
	return s.last, s.cycles > 0
}

// Cycles returns number of completed cycles
func (s *Scheduler) Cycles() int {
	s.statsMu.RLock()
	defer s.statsMu.RUnlock()
	return s.cycles
}

// tick runs a timer-driven cycle unless one is already in progress
func (s *Scheduler) tick(ctx context.Context) {
	if !s.cycleMu.TryLock() {
		lgr.Printf("[INFO] previous cycle still running, skipping scheduled cycle")
		return
	}
	defer s.cycleMu.Unlock()
	s.runCycle(ctx)
}

func (s *Scheduler) runCycle(ctx context.Context) (stats domain.CycleStats) {
	stats.StartedAt = s.now()
	defer func() {
		stats.Duration = s.now().Sub(stats.StartedAt)
		s.statsMu.Lock()
		s.last = stats
		s.cycles++
		s.statsMu.Unlock()
		lgr.Printf("[INFO] cycle completed in %v: sources %d, processed %d, skipped %d, failed %d, "+
			"candidates %d, written %d (inserted %d, merged %d), write errors %d", stats.Duration, stats.Sources,
			stats.Processed, stats.Skipped, stats.Failed, stats.Candidates, stats.Written(), stats.Inserted,
			stats.Merged, stats.WriteErrors)
	}()

	if s.CycleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.CycleTimeout)
		defer cancel()
	}

	sources, err := s.SourceStore.GetSources(ctx, true)
	if err != nil {
		lgr.Printf("[ERROR] failed to get active sources: %v", err)
		stats.Failures = append(stats.Failures, domain.SourceFailure{Name: "source listing", Reason: err.Error()})
		return stats
	}
	if len(sources) == 0 {
		lgr.Printf("[INFO] no active sources")
		return stats
	}
	stats.Sources = len(sources)
	lgr.Printf("[DEBUG] collecting %d sources", len(sources))

	// plain group, not WithContext: a failed source must not cancel its siblings
	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(s.MaxWorkers)
	for _, src := range sources {
		g.Go(func() error {
			res := s.processSource(ctx, src)
			mu.Lock()
			res.apply(&stats)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(stats.Failures, func(i, j int) bool { return stats.Failures[i].SourceID < stats.Failures[j].SourceID })
	return stats
}

// processSource collects, classifies and stores candidates of a single source. Panics are contained
// and reported as the source failure.
func (s *Scheduler) processSource(ctx context.Context, src domain.Source) (res sourceResult) {
	defer func() {
		if r := recover(); r != nil {
			lgr.Printf("[ERROR] panic while processing source %s: %v", src.Identifier(), r)
			res.processed = false
			res.failure = &domain.SourceFailure{SourceID: src.ID, Name: src.Name, Reason: fmt.Sprintf("panic: %v", r)}
		}
	}()

	adapter, ok := s.Dispatcher.Dispatch(src)
	if !ok {
		lgr.Printf("[WARN] no adapter for kind %q, source %s skipped", src.Kind, src.Identifier())
		res.skipped = true
		return res
	}

	collectCtx, cancel := context.WithTimeout(ctx, s.SourceTimeout)
	candidates, err := adapter.Collect(collectCtx, src)
	cancel()
	if err != nil {
		lgr.Printf("[WARN] source %s failed: %v", src.Identifier(), err)
		res.failure = &domain.SourceFailure{SourceID: src.ID, Name: src.Name, Reason: err.Error()}
		return res
	}
	res.processed = true
	res.candidates = len(candidates)
	lgr.Printf("[DEBUG] source %s produced %d candidates", src.Identifier(), len(candidates))

	for i, c := range candidates {
		if ctx.Err() != nil {
			lgr.Printf("[WARN] cycle budget exhausted, dropping %d candidates of source %s", len(candidates)-i, src.Identifier())
			res.writeErrors += len(candidates) - i
			break
		}

		f := s.toFinding(src, adapter.Name(), c)
		writeCtx, cancel := context.WithTimeout(ctx, s.WriteTimeout)
		inserted, err := s.FindingStore.UpsertFinding(writeCtx, &f)
		cancel()
		if err != nil {
			lgr.Printf("[WARN] can't store finding %q of source %s: %v", f.Title, src.Identifier(), err)
			res.writeErrors++
			continue
		}
		if inserted {
			res.inserted++
			continue
		}
		res.merged++
	}
	return res
}

// toFinding classifies the candidate, informational candidates skip classification and stay low risk
func (s *Scheduler) toFinding(src domain.Source, adapterName string, c domain.Candidate) domain.Finding {
	assessment := domain.Assessment{Sentiment: 0, RiskLevel: domain.RiskLow}
	if !c.Informational {
		assessment = s.Classifier.Classify(strings.TrimSpace(c.Title + " " + c.Content))
	}

	sourceID := c.SourceID
	if sourceID == "" {
		sourceID = src.ID
	}
	createdBy := c.CreatedBy
	if createdBy == "" {
		createdBy = adapterName
	}
	published := c.PublishedDate
	if published.IsZero() {
		published = s.now()
	}

	return domain.Finding{
		ID:            Fingerprint(c.Title, c.URL),
		SourceID:      sourceID,
		Title:         c.Title,
		Content:       c.Content,
		URL:           c.URL,
		PublishedDate: published,
		Sentiment:     assessment.Sentiment,
		RiskLevel:     assessment.RiskLevel,
		Status:        domain.StatusNew,
		CreatedBy:     createdBy,
	}
}

// apply adds source outcome to the cycle counters
func (r sourceResult) apply(stats *domain.CycleStats) {
	switch {
	case r.skipped:
		stats.Skipped++
	case r.failure != nil:
		stats.Failed++
		stats.Failures = append(stats.Failures, *r.failure)
	case r.processed:
		stats.Processed++
	}
	stats.Candidates += r.candidates
	stats.Inserted += r.inserted
	stats.Merged += r.merged
	stats.WriteErrors += r.writeErrors
}
