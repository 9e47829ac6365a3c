// Package internal provides the application initialization and runtime logic
// for the technical-report inventory builder.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/trinventory/internal/inventory"
	"github.com/starford/trinventory/internal/storage"
	"github.com/starford/trinventory/internal/watch"
)

// session is the wired state shared by every command.
type session struct {
	cfg    *Config
	logger *slog.Logger
	store  *storage.FS
	opts   inventory.Options
}

func setup(opts []Option) (*session, error) {
	app := &application{logOut: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, errors.New("config is required")
	}
	cfg := app.config

	logger := app.logger
	if logger == nil {
		// Initialize structured JSON logger.
		logger = slog.New(slog.NewJSONHandler(app.logOut, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))
		slog.SetDefault(logger)
	}

	store, err := storage.NewFS(cfg.Inventory.Root)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	repoRoot := cfg.Inventory.RepoRoot
	if repoRoot != "" && !filepath.IsAbs(repoRoot) {
		repoRoot = filepath.Join(store.Root(), repoRoot)
	}

	logger.Debug("Configuration loaded",
		slog.String("root", store.Root()),
		slog.String("output", cfg.Inventory.Output),
		slog.String("repo_root", repoRoot),
		slog.String("log_level", cfg.App.LogLevel.String()))

	return &session{
		cfg:    cfg,
		logger: logger,
		store:  store,
		opts: inventory.Options{
			Output:   cfg.Inventory.Output,
			RepoRoot: repoRoot,
		},
	}, nil
}

func (r *session) build(dryRun bool) (*inventory.Result, error) {
	opts := r.opts
	opts.DryRun = dryRun
	res, err := inventory.Build(r.store, opts, r.logger)
	if err != nil {
		return nil, err
	}
	r.logger.Info("Inventory built",
		slog.Int("reports", len(res.Cards)),
		slog.String("output", opts.Output),
		slog.Bool("written", res.Written),
		slog.String("checksum", res.Checksum))
	return res, nil
}

// Run builds the inventory once and writes it to the configured output.
// The first malformed notebook aborts the run and nothing is written.
func Run(_ context.Context, opts ...Option) error {
	r, err := setup(opts)
	if err != nil {
		return err
	}
	_, err = r.build(false)
	return err
}

// Check validates every report card without writing the inventory.
func Check(_ context.Context, opts ...Option) error {
	r, err := setup(opts)
	if err != nil {
		return err
	}
	_, err = r.build(true)
	return err
}

// Watch builds the inventory, then rebuilds it on every notebook change until
// ctx is cancelled or the process receives SIGINT/SIGTERM.
func Watch(ctx context.Context, opts ...Option) error {
	r, err := setup(opts)
	if err != nil {
		return err
	}
	if _, err := r.build(false); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return watch.Watch(gCtx, watch.Options{
			Root:     r.store.Root(),
			Output:   r.opts.Output,
			Debounce: r.cfg.Watch.Debounce,
		}, r.logger, func() error {
			_, err := r.build(false)
			return err
		})
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			r.logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		r.logger.Error("Watch error", slog.String("error", err.Error()))
		return err
	}

	r.logger.Info("Watch stopped")
	return nil
}
