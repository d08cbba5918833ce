//go:build unix

package probe

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// NativeProber sums allocated blocks itself, the way du does: symlinks are
// not followed, hard-linked files count once, unreadable subdirectories are
// skipped.
type NativeProber struct {
	Timeout time.Duration
}

// NewNativeProber creates a walker-backed prober with a per-call timeout.
func NewNativeProber(timeout time.Duration) *NativeProber {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &NativeProber{Timeout: timeout}
}

type inodeKey struct {
	dev uint64
	ino uint64
}

// Measure walks path and returns its allocated size in 1 KiB blocks.
func (p *NativeProber) Measure(ctx context.Context, path string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return 0, &Error{Path: path, Op: "lstat", Err: err}
	}

	seen := make(map[inodeKey]bool)
	var sectors int64 // 512-byte units, as reported by stat(2)

	walkErr := filepath.WalkDir(path, func(child string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if child == path {
				return err
			}
			// Permission denied below the root: skip, don't fail.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		var cst unix.Stat_t
		if err := unix.Lstat(child, &cst); err != nil {
			return nil
		}
		if !d.IsDir() && cst.Nlink > 1 {
			key := inodeKey{dev: uint64(cst.Dev), ino: uint64(cst.Ino)}
			if seen[key] {
				return nil
			}
			seen[key] = true
		}
		sectors += int64(cst.Blocks)
		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, context.DeadlineExceeded) {
			walkErr = fmt.Errorf("timed out after %s", p.Timeout)
		}
		return 0, &Error{Path: path, Op: "walk", Err: walkErr}
	}

	return (sectors*512 + 1023) / 1024, nil
}
