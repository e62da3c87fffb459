package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/sentinel/pkg/domain"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/finding_store.go -pkg mocks -skip-ensure -fmt goimports . FindingStore
//go:generate moq -out mocks/source_store.go -pkg mocks -skip-ensure -fmt goimports . SourceStore
//go:generate moq -out mocks/ingester.go -pkg mocks -skip-ensure -fmt goimports . Ingester

// Server represents HTTP server instance
type Server struct {
	config   ConfigProvider
	findings FindingStore
	sources  SourceStore
	ingester Ingester
	version  string
	debug    bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// FindingStore is the read and workflow-update side of the findings store
type FindingStore interface {
	GetFinding(ctx context.Context, id string) (*domain.Finding, error)
	GetFindings(ctx context.Context, filter domain.FindingFilter) ([]domain.Finding, error)
	CountFindings(ctx context.Context, filter domain.FindingFilter) (int, error)
	CountByRisk(ctx context.Context) (map[domain.RiskLevel]int, error)
	UpdateFindingWorkflow(ctx context.Context, id string, upd domain.WorkflowUpdate) error
}

// SourceStore lists registered sources
type SourceStore interface {
	GetSources(ctx context.Context, activeOnly bool) ([]domain.Source, error)
}

// Ingester runs ingestion cycles on demand and reports the last one
type Ingester interface {
	RunCycle(ctx context.Context) domain.CycleStats
	LastCycle() (domain.CycleStats, bool)
	Cycles() int
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetBaseURL() string
}

// New initializes a new server instance
func New(cfg ConfigProvider, findings FindingStore, sources SourceStore, ingester Ingester, version string, debug bool) *Server {
	s := &Server{
		config:   cfg,
		findings: findings,
		sources:  sources,
		ingester: ingester,
		version:  version,
		debug:    debug,
		router:   routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	lgr.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		// manual ingest responds after a whole cycle, not bound by the request timeout
		WriteTimeout: 0,
		IdleTimeout:  timeout,
	}
	httpServer := s.httpServer
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		lgr.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// ServeHTTP makes the server usable as http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("sentinel", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("POST /ingest", s.ingestHandler)
		r.HandleFunc("GET /findings", s.findingsHandler)
		r.HandleFunc("GET /findings/{id}", s.findingHandler)
		r.HandleFunc("PATCH /findings/{id}", s.updateFindingHandler)
		r.HandleFunc("GET /sources", s.sourcesHandler)
	})

	s.router.HandleFunc("GET /rss", s.rssHandler)
	s.router.HandleFunc("GET /rss/{risk}", s.rssHandler)
}
