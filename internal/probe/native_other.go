//go:build !unix

package probe

import (
	"context"
	"errors"
	"time"
)

// ErrNativeUnsupported is returned by NativeProber where allocated block
// counts are not available.
var ErrNativeUnsupported = errors.New("native size measurement is not supported on this platform")

// NativeProber is unavailable on this platform; every measurement fails.
type NativeProber struct {
	Timeout time.Duration
}

// NewNativeProber creates a prober whose measurements always fail.
func NewNativeProber(timeout time.Duration) *NativeProber {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &NativeProber{Timeout: timeout}
}

func (p *NativeProber) Measure(_ context.Context, path string) (int64, error) {
	return 0, &Error{Path: path, Op: "measure", Err: ErrNativeUnsupported}
}
