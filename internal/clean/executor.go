// Package clean performs guarded path deletion and runs the fixed set of
// external maintenance commands.
package clean

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/lakshaymaurya-felt/macmole/internal/config"
	"github.com/lakshaymaurya-felt/macmole/internal/core"
	"github.com/lakshaymaurya-felt/macmole/internal/logfields"
)

// Remover is the filesystem mutation primitive used for deletion.
type Remover interface {
	Remove(path string) error
	RemoveAll(path string) error
}

type osRemover struct{}

func (osRemover) Remove(path string) error    { return os.Remove(path) }
func (osRemover) RemoveAll(path string) error { return os.RemoveAll(path) }

// Executor runs cleanup actions confined to one home directory. It holds
// no per-request state; concurrent calls on the same path are not
// serialized, and losing such a race is reported as a no-op.
type Executor struct {
	guard        *core.Guard
	timeouts     config.Timeouts
	editorBackup string
	runner       Runner
	remover      Remover
	dryRun       bool
	logger       *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithRunner replaces the external command runner.
func WithRunner(r Runner) Option {
	return func(e *Executor) { e.runner = r }
}

// WithRemover replaces the filesystem removal primitive.
func WithRemover(r Remover) Option {
	return func(e *Executor) { e.remover = r }
}

// WithDryRun makes every action report what it would do without doing it.
func WithDryRun(dryRun bool) Option {
	return func(e *Executor) { e.dryRun = dryRun }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// NewExecutor creates an executor. editorBackup is the absolute path
// removed by DeleteEditorBackup.
func NewExecutor(guard *core.Guard, timeouts config.Timeouts, editorBackup string, opts ...Option) *Executor {
	e := &Executor{
		guard:        guard,
		timeouts:     timeouts,
		editorBackup: editorBackup,
		runner:       ExecRunner{},
		remover:      osRemover{},
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ─── Path deletion ───────────────────────────────────────────────────────────

// DeletePath removes a single file or directory tree inside home. The path
// is validated before any filesystem access; a rejected path is never
// stat'ed or removed. A path that does not exist is a successful no-op.
func (e *Executor) DeletePath(ctx context.Context, userPath string) Result {
	resolved, err := e.guard.ResolveForDelete(userPath)
	if err != nil {
		e.logger.Warn("deletion rejected", logfields.Path(userPath), logfields.Error(err))
		if errors.Is(err, core.ErrProtectedPath) {
			return failure("Protected path: " + userPath)
		}
		return failure("Invalid path: " + userPath)
	}

	if err := ctx.Err(); err != nil {
		return Result{Message: "Cancelled: " + err.Error(), Path: resolved}
	}

	// Lstat: a symlink is removed as a link, its target is left alone.
	info, err := os.Lstat(resolved)
	if errors.Is(err, fs.ErrNotExist) {
		return Result{OK: true, Message: "Path did not exist", Path: resolved}
	}
	if err != nil {
		return Result{Message: err.Error(), Path: resolved}
	}

	kind := "File"
	if info.IsDir() {
		kind = "Directory"
	}

	if e.dryRun {
		return Result{OK: true, Message: fmt.Sprintf("Would remove %s", resolved), Path: resolved}
	}

	if info.IsDir() {
		err = e.remover.RemoveAll(resolved)
	} else {
		err = e.remover.Remove(resolved)
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Someone else removed it between Lstat and now.
		return Result{OK: true, Message: "Path did not exist", Path: resolved}
	case err != nil:
		e.logger.Warn("deletion failed", logfields.Path(resolved), logfields.Error(err))
		return Result{Message: err.Error(), Path: resolved}
	}

	e.logger.Info("removed", logfields.Path(resolved))
	return Result{OK: true, Message: kind + " removed", DeletedCount: 1, Path: resolved}
}

// DeleteMany applies DeletePath to each path in order and returns one
// result per input. A failure never stops the remaining deletions.
func (e *Executor) DeleteMany(ctx context.Context, paths []string) []Result {
	results := make([]Result, 0, len(paths))
	for _, p := range paths {
		results = append(results, e.DeletePath(ctx, p))
	}
	return results
}

// DeleteEditorBackup removes the editor's large state backup file.
func (e *Executor) DeleteEditorBackup(ctx context.Context) Result {
	return e.DeletePath(ctx, e.editorBackup)
}
