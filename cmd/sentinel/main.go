package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/sentinel/pkg/classifier"
	"github.com/umputun/sentinel/pkg/config"
	"github.com/umputun/sentinel/pkg/content"
	"github.com/umputun/sentinel/pkg/domain"
	"github.com/umputun/sentinel/pkg/feed"
	"github.com/umputun/sentinel/pkg/repository"
	"github.com/umputun/sentinel/pkg/scheduler"
	"github.com/umputun/sentinel/pkg/social"
	"github.com/umputun/sentinel/pkg/source"
	"github.com/umputun/sentinel/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"sentinel.yml" description:"configuration file"`
	Once   bool   `long:"once" env:"ONCE" description:"run a single ingestion cycle, print counters and exit"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	SetupLog(opts.Debug, opts.NoColor)
	log.Printf("[INFO] starting sentinel version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()
	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	// reconfigure with secrets known only after config load
	SetupLog(opts.Debug, opts.NoColor, cfg.Secrets()...)

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			log.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	if err := seedSources(ctx, repos.Source, cfg.SeedSources()); err != nil {
		return fmt.Errorf("failed to seed sources: %w", err)
	}

	sched := scheduler.NewScheduler(scheduler.Params{
		SourceStore:   repos.Source,
		FindingStore:  repos.Finding,
		Dispatcher:    makeRegistry(ctx, cfg),
		Classifier:    classifier.New(),
		Interval:      cfg.Schedule.Interval,
		MaxWorkers:    cfg.Schedule.MaxWorkers,
		SourceTimeout: cfg.Schedule.SourceTimeout,
		WriteTimeout:  cfg.Schedule.WriteTimeout,
		CycleTimeout:  cfg.Schedule.CycleTimeout,
	})

	if opts.Once {
		stats := sched.RunCycle(ctx)
		if stats.Written() == 0 && len(stats.Failures) > 0 {
			lgr.Printf("[WARN] nothing written, %d sources failed", len(stats.Failures))
		}
		return printStats(os.Stdout, stats)
	}

	sched.Start(ctx)
	defer sched.Stop()

	if !cfg.Server.Enabled {
		log.Printf("[INFO] http server disabled")
		<-ctx.Done()
		return nil
	}

	srv := server.New(cfg, repos.Finding, repos.Source, sched, revision, opts.Debug)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// sourceUpserter writes seeded sources
type sourceUpserter interface {
	UpsertSource(ctx context.Context, src *domain.Source) error
}

func seedSources(ctx context.Context, store sourceUpserter, sources []domain.Source) error {
	for i := range sources {
		if err := store.UpsertSource(ctx, &sources[i]); err != nil {
			return fmt.Errorf("upsert source %s: %w", sources[i].Identifier(), err)
		}
	}
	if len(sources) > 0 {
		log.Printf("[INFO] seeded %d sources", len(sources))
	}
	return nil
}

// makeRegistry wires adapters to source kinds
func makeRegistry(ctx context.Context, cfg *config.Config) *source.Registry {
	feedAdapter := feed.NewAdapter(feed.Params{
		Timeout:    cfg.Feed.Timeout,
		UserAgent:  cfg.Feed.UserAgent,
		MaxEntries: cfg.Feed.MaxEntries,
	})

	socialAdapter := social.NewAdapter(social.Params{Reddit: social.RedditParams{
		ClientID:          cfg.Social.Reddit.ClientID,
		ClientSecret:      cfg.Social.Reddit.ClientSecret,
		UserAgent:         cfg.Social.Reddit.UserAgent,
		TokenURL:          cfg.Social.Reddit.TokenURL,
		APIURL:            cfg.Social.Reddit.APIURL,
		RequestsPerMinute: cfg.Social.Reddit.RequestsPerMinute,
		DefaultLimit:      cfg.Social.Reddit.DefaultLimit,
		Timeout:           cfg.Social.Reddit.Timeout,
	}})
	if !socialAdapter.Connect(ctx) {
		log.Printf("[WARN] social adapter not connected, will retry on next cycle")
	}

	webAdapter := content.NewWebAdapter(content.Params{
		Timeout:       cfg.Web.Timeout,
		UserAgent:     cfg.Web.UserAgent,
		MinTextLength: cfg.Web.MinTextLength,
	})

	registry := source.NewRegistry()
	registry.Register(feedAdapter, domain.KindFeed, domain.KindRSS)
	registry.Register(socialAdapter, domain.KindSocial, domain.KindReddit)
	registry.Register(webAdapter, domain.KindWeb)
	log.Printf("[DEBUG] registered source kinds: %v", registry.Kinds())
	return registry
}

func printStats(w io.Writer, stats domain.CycleStats) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cycle stats: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return fmt.Errorf("failed to print cycle stats: %w", err)
	}
	return nil
}

// SetupLog configures lgr and redirects standard log through it, secrets are masked in all output
func SetupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	color.NoColor = noColor
	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
