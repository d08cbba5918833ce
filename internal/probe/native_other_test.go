//go:build !unix

package probe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNativeProberUnsupported(t *testing.T) {
	kb, err := NewNativeProber(0).Measure(context.Background(), t.TempDir())
	assert.Zero(t, kb)
	assert.ErrorIs(t, err, ErrNativeUnsupported)
}
