// Package app wires the store, mastery engine, decay scheduler and progress
// views into one unit shared by the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/abhisek/masterypath/internal/config"
	"github.com/abhisek/masterypath/internal/decay"
	"github.com/abhisek/masterypath/internal/mastery"
	"github.com/abhisek/masterypath/internal/progress"
	"github.com/abhisek/masterypath/internal/skillgraph"
	"github.com/abhisek/masterypath/internal/store"
)

// App holds the long-lived services. Tracker and Decay share one
// RecordLocks so a decay write never interleaves with a practice write on
// the same record.
type App struct {
	Config   *config.Config
	Store    *store.Store
	Tracker  *mastery.Tracker
	Decay    *decay.Scheduler
	Progress *progress.Service
	Logger   *slog.Logger
}

// Open opens the database at dbPath and builds an App around it.
func Open(dbPath string, cfg *config.Config, logger *slog.Logger) (*App, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return New(st, cfg, logger), nil
}

// New builds an App over an open store.
func New(st *store.Store, cfg *config.Config, logger *slog.Logger) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	locks := mastery.NewRecordLocks()
	tracker := mastery.NewTracker(st, st, st,
		mastery.WithLocks(locks),
		mastery.WithLogger(logger.With("component", "mastery")),
	)
	sched := decay.NewScheduler(st, decay.Config{
		Policy:   cfg.DecayPolicy(),
		Workers:  cfg.Decay.Workers,
		Interval: cfg.Decay.Interval,
		Locks:    locks,
		Logger:   logger.With("component", "decay"),
	})

	return &App{
		Config:   cfg,
		Store:    st,
		Tracker:  tracker,
		Decay:    sched,
		Progress: progress.NewService(st, cfg.Decay.GraceDays),
		Logger:   logger,
	}
}

// ImportSeed parses, validates and stores a skill graph file. An empty
// path imports the built-in starter graph.
func (a *App) ImportSeed(ctx context.Context, path string) (*skillgraph.Seed, error) {
	var (
		seed *skillgraph.Seed
		err  error
	)
	if path == "" {
		seed, err = skillgraph.DefaultSeed()
		path = "builtin"
	} else {
		seed, err = skillgraph.LoadSeed(path)
	}
	if err != nil {
		return nil, err
	}
	if err := a.Store.SaveSeed(ctx, seed); err != nil {
		return nil, fmt.Errorf("save seed: %w", err)
	}
	a.Logger.Info("skill graph imported",
		"path", path,
		"categories", len(seed.Categories),
		"nodes", len(seed.Nodes),
		"edges", len(seed.Edges),
		"paths", len(seed.Paths),
		"problems", len(seed.Problems))
	return seed, nil
}

// Close stops the decay loop and closes the store.
func (a *App) Close() error {
	a.Decay.Stop()
	return a.Store.Close()
}

// NewLogger returns a text slog logger at level writing to w.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
