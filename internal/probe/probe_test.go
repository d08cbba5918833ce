package probe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/macmole/internal/config"
)

type stubProber struct {
	kb  int64
	err error
}

func (s stubProber) Measure(context.Context, string) (int64, error) {
	return s.kb, s.err
}

// fakeDu writes an executable shell script standing in for du.
func fakeDu(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "du")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestParseDu(t *testing.T) {
	kb, err := parseDu([]byte("2048\t/Users/me/.npm\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(2048), kb)

	kb, err = parseDu([]byte("  7 /tmp/x"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), kb)

	for _, bad := range []string{"", "\n", "abc\t/x", "-5\t/x"} {
		_, err := parseDu([]byte(bad))
		assert.ErrorIs(t, err, ErrUnparsable, "input %q", bad)
	}
}

func TestFileBlocks(t *testing.T) {
	assert.Equal(t, int64(0), FileBlocks(0))
	assert.Equal(t, int64(0), FileBlocks(-1))
	assert.Equal(t, int64(1), FileBlocks(1))
	assert.Equal(t, int64(1), FileBlocks(1024))
	assert.Equal(t, int64(2), FileBlocks(1025))
}

func TestBlocksConvertsFailureToZero(t *testing.T) {
	var reported error
	got := Blocks(context.Background(), stubProber{err: errors.New("permission denied")}, "/x", func(err error) {
		reported = err
	})
	assert.Equal(t, int64(0), got)
	assert.EqualError(t, reported, "permission denied")

	assert.Equal(t, int64(12), Blocks(context.Background(), stubProber{kb: 12}, "/x", nil))
	assert.Equal(t, int64(0), Blocks(context.Background(), stubProber{kb: -3}, "/x", nil))
}

func TestNew(t *testing.T) {
	p, err := New(config.ProbeDu, time.Second)
	require.NoError(t, err)
	assert.IsType(t, &DuProber{}, p)

	p, err = New(config.ProbeNative, 0)
	require.NoError(t, err)
	require.IsType(t, &NativeProber{}, p)
	assert.Equal(t, DefaultTimeout, p.(*NativeProber).Timeout)

	p, err = New(config.ProbeAuto, time.Second)
	require.NoError(t, err)
	assert.NotNil(t, p)

	_, err = New("bogus", time.Second)
	assert.Error(t, err)
}

func TestDuProberParsesOutput(t *testing.T) {
	p := &DuProber{Binary: fakeDu(t, `printf '4096\t%s\n' "$2"`), Timeout: 5 * time.Second}
	kb, err := p.Measure(context.Background(), "/some/dir")
	require.NoError(t, err)
	assert.Equal(t, int64(4096), kb)
}

func TestDuProberNonZeroExit(t *testing.T) {
	p := &DuProber{Binary: fakeDu(t, `echo "du: $2: Permission denied" >&2; exit 1`), Timeout: 5 * time.Second}
	_, err := p.Measure(context.Background(), "/private")
	require.Error(t, err)

	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "/private", pe.Path)
	assert.Equal(t, "du", pe.Op)
}

func TestDuProberGarbageOutput(t *testing.T) {
	p := &DuProber{Binary: fakeDu(t, `echo "not a number"`), Timeout: 5 * time.Second}
	_, err := p.Measure(context.Background(), "/x")
	assert.ErrorIs(t, err, ErrUnparsable)
}

func TestDuProberMissingBinary(t *testing.T) {
	p := &DuProber{Binary: filepath.Join(t.TempDir(), "no-such-du"), Timeout: time.Second}
	_, err := p.Measure(context.Background(), "/x")
	assert.Error(t, err)
}

func TestDuProberTimeout(t *testing.T) {
	p := &DuProber{Binary: fakeDu(t, `exec sleep 5`), Timeout: 50 * time.Millisecond}
	start := time.Now()
	_, err := p.Measure(context.Background(), "/x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestDuProberRealDirectory(t *testing.T) {
	if _, err := os.Stat("/usr/bin/du"); err != nil {
		t.Skip("du not available")
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f"), make([]byte, 8192), 0o644))

	kb, err := NewDuProber(10*time.Second).Measure(context.Background(), dir)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, kb, int64(0))

	_, err = NewDuProber(10*time.Second).Measure(context.Background(), filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestCappedBuffer(t *testing.T) {
	b := cappedBuffer{max: 4}
	n, err := b.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = b.Write([]byte("de"))
	assert.ErrorIs(t, err, errOutputTooLarge)
	assert.Equal(t, "abc", string(b.Bytes()))
}
