// Package engine wires settings, catalog, prober, scanner and cleanup
// executor into the single object every front end talks to.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lakshaymaurya-felt/macmole/internal/clean"
	"github.com/lakshaymaurya-felt/macmole/internal/config"
	"github.com/lakshaymaurya-felt/macmole/internal/core"
	"github.com/lakshaymaurya-felt/macmole/internal/logfields"
	"github.com/lakshaymaurya-felt/macmole/internal/probe"
	"github.com/lakshaymaurya-felt/macmole/internal/scan"
)

// ErrInvalidInput is returned for a malformed request, before any work is
// done.
var ErrInvalidInput = errors.New("invalid input")

// BatchResult is the outcome of DeletePaths. OK is true whenever the request
// itself was well formed; individual failures are in Results.
type BatchResult struct {
	OK      bool           `json:"ok"`
	Results []clean.Result `json:"results"`
}

// Engine is safe for concurrent use; it keeps no state between calls.
type Engine struct {
	home     string
	catalog  config.Catalog
	scanner  *scan.Scanner
	executor *clean.Executor
	logger   *slog.Logger
}

type options struct {
	prober  probe.Prober
	runner  clean.Runner
	remover clean.Remover
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*options)

// WithProber replaces the prober selected from settings.
func WithProber(p probe.Prober) Option {
	return func(o *options) { o.prober = p }
}

// WithRunner replaces the external command runner.
func WithRunner(r clean.Runner) Option {
	return func(o *options) { o.runner = r }
}

// WithRemover replaces the filesystem removal primitive.
func WithRemover(r clean.Remover) Option {
	return func(o *options) { o.remover = r }
}

// WithLogger sets the logger shared by the scanner and the executor.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New builds an engine from validated settings.
func New(s *config.Settings, opts ...Option) (*Engine, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil settings", ErrInvalidInput)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}

	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	guard, err := core.NewGuard(s.Home)
	if err != nil {
		return nil, err
	}

	prober := o.prober
	if prober == nil {
		prober, err = probe.New(s.Probe.Mode, s.Probe.Timeout)
		if err != nil {
			return nil, err
		}
	}

	catalog := s.BuildCatalog()
	home := guard.Home()

	execOpts := []clean.Option{clean.WithDryRun(s.DryRun), clean.WithLogger(o.logger)}
	if o.runner != nil {
		execOpts = append(execOpts, clean.WithRunner(o.runner))
	}
	if o.remover != nil {
		execOpts = append(execOpts, clean.WithRemover(o.remover))
	}

	return &Engine{
		home:     home,
		catalog:  catalog,
		scanner:  scan.NewScanner(home, catalog, prober, o.logger),
		executor: clean.NewExecutor(guard, s.Timeouts, catalog.EditorBackupPath(home), execOpts...),
		logger:   o.logger,
	}, nil
}

// Home returns the directory the engine is confined to.
func (e *Engine) Home() string {
	return e.home
}

// Catalog returns the catalog the engine scans.
func (e *Engine) Catalog() config.Catalog {
	return e.catalog
}

// Scan measures every category and returns the full report.
func (e *Engine) Scan(ctx context.Context) (*scan.Report, error) {
	return e.scanner.Run(ctx)
}

// DeletePaths removes each path in order, continuing past failures.
func (e *Engine) DeletePaths(ctx context.Context, paths []string) (BatchResult, error) {
	if len(paths) == 0 {
		return BatchResult{}, fmt.Errorf("%w: paths array required", ErrInvalidInput)
	}

	results := e.executor.DeleteMany(ctx, paths)

	deleted := 0
	for _, r := range results {
		deleted += r.DeletedCount
	}
	e.logger.Info("batch delete finished",
		logfields.Count(len(paths)),
		slog.Int("deleted", deleted))

	return BatchResult{OK: true, Results: results}, nil
}

// CleanPackageCache clears the npm cache.
func (e *Engine) CleanPackageCache(ctx context.Context) clean.Result {
	return e.executor.CleanPackageCache(ctx)
}

// PruneContainerEngine prunes every unused Docker object, volumes included.
func (e *Engine) PruneContainerEngine(ctx context.Context) clean.Result {
	return e.executor.PruneContainerEngine(ctx)
}

// PruneSimulatorRuntimes deletes unavailable iOS simulators.
func (e *Engine) PruneSimulatorRuntimes(ctx context.Context) clean.Result {
	return e.executor.PruneSimulatorRuntimes(ctx)
}

// DeleteEditorBackup removes the editor's state backup file.
func (e *Engine) DeleteEditorBackup(ctx context.Context) clean.Result {
	return e.executor.DeleteEditorBackup(ctx)
}
