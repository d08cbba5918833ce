// Package probe measures the disk footprint of a single path in 1 KiB blocks.
package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/lakshaymaurya-felt/macmole/internal/config"
)

const (
	// maxOutput caps what we read from the measurement tool.
	maxOutput = 32 << 20

	// DefaultTimeout bounds one measurement when none is configured.
	DefaultTimeout = 5 * time.Minute
)

var (
	// ErrUnparsable is wrapped when the tool output carries no size.
	ErrUnparsable = errors.New("unparsable output")

	errOutputTooLarge = errors.New("output exceeds limit")
)

// Prober measures one path. Measure returns the size in 1 KiB blocks or a
// *Error; it never panics on filesystem or tool failures.
type Prober interface {
	Measure(ctx context.Context, path string) (int64, error)
}

// Error describes a failed measurement.
type Error struct {
	Path string
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("probe %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Blocks measures path and converts any failure to zero, reporting the
// error to onErr when it is non-nil. This is where a single unreadable
// directory stops mattering to the aggregate.
func Blocks(ctx context.Context, p Prober, path string, onErr func(error)) int64 {
	kb, err := p.Measure(ctx, path)
	if err != nil {
		if onErr != nil {
			onErr(err)
		}
		return 0
	}
	if kb < 0 {
		return 0
	}
	return kb
}

// FileBlocks converts a byte size to 1 KiB blocks, rounding up.
func FileBlocks(size int64) int64 {
	if size <= 0 {
		return 0
	}
	return (size + 1023) / 1024
}

// New returns the prober for a configured mode. "auto" prefers du and falls
// back to the native walker when du is not on PATH.
func New(mode string, timeout time.Duration) (Prober, error) {
	switch mode {
	case config.ProbeDu:
		return NewDuProber(timeout), nil
	case config.ProbeNative:
		return NewNativeProber(timeout), nil
	case config.ProbeAuto, "":
		if _, err := exec.LookPath("du"); err == nil {
			return NewDuProber(timeout), nil
		}
		return NewNativeProber(timeout), nil
	default:
		return nil, fmt.Errorf("unknown probe mode %q", mode)
	}
}

// ─── du ──────────────────────────────────────────────────────────────────────

// DuProber shells out to `du -sk`.
type DuProber struct {
	// Binary is the du executable, "du" unless overridden.
	Binary  string
	Timeout time.Duration
}

// NewDuProber creates a du-backed prober with a per-call timeout.
func NewDuProber(timeout time.Duration) *DuProber {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &DuProber{Binary: "du", Timeout: timeout}
}

// Measure runs du on path. A non-zero exit, a timeout or output without a
// leading integer are all failures.
func (p *DuProber) Measure(ctx context.Context, path string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	var out cappedBuffer
	out.max = maxOutput

	cmd := exec.CommandContext(ctx, p.Binary, "-sk", path)
	cmd.Stdout = &out
	cmd.Stderr = io.Discard

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return 0, &Error{Path: path, Op: "du", Err: fmt.Errorf("timed out after %s", p.Timeout)}
		}
		return 0, &Error{Path: path, Op: "du", Err: err}
	}

	kb, err := parseDu(out.Bytes())
	if err != nil {
		return 0, &Error{Path: path, Op: "du", Err: err}
	}
	return kb, nil
}

// parseDu reads the block count from "<kb>\t<path>" output.
func parseDu(out []byte) (int64, error) {
	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return 0, ErrUnparsable
	}
	kb, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || kb < 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnparsable, fields[0])
	}
	return kb, nil
}

// cappedBuffer fails writes past max so a runaway tool cannot exhaust memory.
type cappedBuffer struct {
	buf bytes.Buffer
	max int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if b.buf.Len()+len(p) > b.max {
		return 0, errOutputTooLarge
	}
	return b.buf.Write(p)
}

func (b *cappedBuffer) Bytes() []byte {
	return b.buf.Bytes()
}
