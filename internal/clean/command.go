package clean

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lakshaymaurya-felt/macmole/internal/logfields"
)

// waitDelay bounds how long we wait for output pipes after the process was
// killed, in case a grandchild keeps them open.
const waitDelay = 5 * time.Second

// Runner runs an external command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec. The process is killed when ctx is
// done.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay
	return cmd.CombinedOutput()
}

// maintenance describes one fixed external cleanup command.
type maintenance struct {
	name     string
	args     []string
	timeout  time.Duration
	success  string
	fallback string
}

func (m maintenance) commandLine() string {
	return strings.Join(append([]string{m.name}, m.args...), " ")
}

// ─── Maintenance commands ────────────────────────────────────────────────────

// CleanPackageCache runs `npm cache clean --force`.
func (e *Executor) CleanPackageCache(ctx context.Context) Result {
	return e.runMaintenance(ctx, maintenance{
		name:     "npm",
		args:     []string{"cache", "clean", "--force"},
		timeout:  e.timeouts.PackageCache,
		success:  "npm cache cleaned",
		fallback: "npm command failed",
	})
}

// PruneContainerEngine runs `docker system prune -a -f --volumes`, removing
// every unused image, container, network and volume the engine manages.
func (e *Executor) PruneContainerEngine(ctx context.Context) Result {
	return e.runMaintenance(ctx, maintenance{
		name:     "docker",
		args:     []string{"system", "prune", "-a", "-f", "--volumes"},
		timeout:  e.timeouts.ContainerPrune,
		success:  "Docker prune completed",
		fallback: "Docker not running or failed",
	})
}

// PruneSimulatorRuntimes runs `xcrun simctl delete unavailable`.
func (e *Executor) PruneSimulatorRuntimes(ctx context.Context) Result {
	return e.runMaintenance(ctx, maintenance{
		name:     "xcrun",
		args:     []string{"simctl", "delete", "unavailable"},
		timeout:  e.timeouts.SimulatorPrune,
		success:  "Unavailable simulators removed",
		fallback: "xcrun failed",
	})
}

// runMaintenance runs m under its timeout. It is never retried.
func (e *Executor) runMaintenance(ctx context.Context, m maintenance) Result {
	line := m.commandLine()
	if e.dryRun {
		return Result{OK: true, Message: "Would run: " + line}
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := time.Now()
	output, err := e.runner.Run(ctx, m.name, m.args...)
	elapsed := logfields.DurationMS(float64(time.Since(start).Milliseconds()))

	if err != nil {
		msg := commandFailure(ctx, err, output, m)
		e.logger.Warn("maintenance command failed",
			logfields.Command(line), elapsed, logfields.Error(errors.New(msg)))
		return failure(msg)
	}

	e.logger.Info("maintenance command completed", logfields.Command(line), elapsed)
	return Result{OK: true, Message: m.success}
}

// commandFailure turns a command error into the message shown to the user.
func commandFailure(ctx context.Context, err error, output []byte, m maintenance) string {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("%s timed out after %s", m.name, m.timeout)
	}
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Sprintf("%s: %s not found on PATH", m.fallback, m.name)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if out := truncateOutput(output, 200); out != "" {
			return out
		}
		return fmt.Sprintf("%s (exit code %d)", m.fallback, exitErr.ExitCode())
	}

	return fmt.Sprintf("%s: %v", m.fallback, err)
}

// truncateOutput trims output and cuts it at max bytes on a UTF-8 boundary.
func truncateOutput(output []byte, max int) string {
	s := strings.TrimSpace(string(output))
	if len(s) <= max {
		return s
	}
	s = s[:max]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s + "..."
}
