package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/warden/internal/ai"
	"github.com/udisondev/warden/internal/config"
	"github.com/udisondev/warden/internal/db"
	"github.com/udisondev/warden/internal/model"
	"github.com/udisondev/warden/internal/telemetry"
)

const (
	ConfigPath     = "config/npcsim.yaml"
	summaryTimeout = 5 * time.Second
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("WARDEN_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	// Enable AI debug logging if log level is debug
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("npcsim starting",
		"config", cfgPath,
		"log_level", cfg.LogLevel,
		"tick_interval", cfg.TickInterval,
		"time_scale", cfg.TimeScale)

	trace, err := telemetry.NewTraceWriter(cfg.Telemetry.TraceDir)
	if err != nil {
		return fmt.Errorf("opening trace: %w", err)
	}
	defer func() {
		if err := trace.Close(); err != nil {
			slog.Error("closing trace", "err", err)
		}
	}()
	if trace != nil {
		slog.Info("transition trace enabled", "path", trace.Path())
	}

	var (
		journal *db.Journal
		repo    *db.TransitionRepository
	)
	if cfg.Database.Enabled {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")

		repo = db.NewTransitionRepository(database.Pool())
		journal = db.NewJournal(repo, cfg.Database.JournalBuffer)
	}

	sink := func(name string, t model.Transition) {
		slog.Info("npc state changed",
			"npc", name,
			"tick", t.Tick,
			"from", t.From,
			"to", t.To)

		if err := trace.Write(telemetry.NewTransitionRecord(t, name)); err != nil {
			slog.Warn("writing trace row", "npc", name, "err", err)
		}
		if journal != nil {
			journal.Record(t)
		}
	}

	sim, err := newSimulation(cfg, sink)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting AI tick manager", "interval", cfg.TickInterval, "npcs", sim.manager.Count())
		if err := sim.manager.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("AI tick manager: %w", err)
		}
		return nil
	})

	if journal != nil {
		g.Go(func() error {
			slog.Info("starting transition journal", "buffer", cfg.Database.JournalBuffer)
			if err := journal.Run(gctx); err != nil {
				return fmt.Errorf("transition journal: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("simulation error: %w", err)
	}

	slog.Info("npcsim stopped", "frames", sim.manager.Frames(), "trace_rows", trace.Rows())

	if repo != nil {
		// ctx is already canceled here
		sumCtx, cancel := context.WithTimeout(context.Background(), summaryTimeout)
		defer cancel()
		summary, err := journalSummary(sumCtx, repo)
		if err != nil {
			slog.Warn("journal summary unavailable", "err", err)
		} else {
			slog.Info("journal summary", summary...)
		}
	}
	return nil
}

// stateCounter counts persisted transitions per entered state.
type stateCounter interface {
	CountByTargetState(ctx context.Context) (map[model.BehaviorState]int64, error)
}

// journalSummary returns slog attrs "entered_<state>" in state order.
func journalSummary(ctx context.Context, counter stateCounter) ([]any, error) {
	counts, err := counter.CountByTargetState(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting transitions: %w", err)
	}

	states := []model.BehaviorState{
		model.StatePatrolling,
		model.StateChasing,
		model.StateSearching,
		model.StateWaiting,
		model.StateAttacking,
	}
	attrs := make([]any, 0, len(states))
	for _, s := range states {
		attrs = append(attrs, slog.Int64("entered_"+strings.ToLower(s.String()), counts[s]))
	}
	return attrs, nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
