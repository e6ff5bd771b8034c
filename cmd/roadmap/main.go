package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/cli"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/config"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/db"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/history"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/reconcile"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/repository"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
)

// closeTimeout bounds the final flush on exit.
const closeTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags, err := cli.ParseGlobalFlags(os.Args[1:])
	if err != nil {
		return err
	}
	v, err := config.NewViper(flags.ConfigFile)
	if err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	if flags.Offline {
		cfg.Sync.Offline = true
	}

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	// Local database holding the outbox
	local, err := db.OpenDB(cfg.Local.Path)
	if err != nil {
		return fmt.Errorf("opening local database: %w", err)
	}
	defer local.Close()
	outbox := repository.NewSQLiteOutbox(local, cfg.Roadmap.ID)

	// Shared document store, opened lazily so an unmounted share means offline
	store := repository.OpenSQLiteDocumentStore(cfg.Store.Path, cfg.Roadmap.ID, cfg.Roadmap.Writer)
	defer store.Close()

	reg := prometheus.NewRegistry()
	rec := reconcile.New(store, reconcile.Options{
		Retry: reconcile.RetryOptions{
			MaxRetries: cfg.Sync.MaxRetries,
			BaseDelay:  cfg.Sync.BaseDelay(),
		},
		Outbox:  outbox,
		Metrics: reconcile.NewMetrics(reg),
		Logger:  logger,
		Offline: cfg.Sync.Offline,
	})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if cerr := rec.Close(ctx); cerr != nil {
			logger.Warn("closing reconciler", "error", cerr)
		}
		logSyncMetrics(logger, reg)
	}()

	ctx := context.Background()
	data, err := rec.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading roadmap: %w", err)
	}

	svc := service.NewRoadmapService(data, rec, history.New(cfg.History.Limit), logger,
		service.NewSlogUseCaseObserver(logger))

	app := &cli.App{
		Roadmap: svc,
		Sync:    rec,
		Store:   store,
		Config:  cfg,
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

// newLogger builds the process logger. Without a log file, records go to
// stderr at the configured level.
func newLogger(cfg config.LogConfig) (*slog.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closeFn := func() {}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	return logger, closeFn, nil
}

// logSyncMetrics writes the session's sync counters at debug level.
func logSyncMetrics(logger *slog.Logger, reg *prometheus.Registry) {
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	families, err := reg.Gather()
	if err != nil {
		logger.Debug("gathering sync metrics", "error", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				value = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				value = float64(m.GetHistogram().GetSampleCount())
			}
			attrs := []any{"metric", mf.GetName(), "value", value}
			for _, lp := range m.GetLabel() {
				attrs = append(attrs, lp.GetName(), lp.GetValue())
			}
			logger.Debug("sync metric", attrs...)
		}
	}
}
