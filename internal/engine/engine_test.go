package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/macmole/internal/config"
)

type sizeProber map[string]int64

func (s sizeProber) Measure(_ context.Context, path string) (int64, error) {
	return s[path], nil
}

type okRunner struct{ calls int }

func (r *okRunner) Run(context.Context, string, ...string) ([]byte, error) {
	r.calls++
	return nil, nil
}

func testSettings(t *testing.T) *config.Settings {
	t.Helper()
	s := config.DefaultSettings()
	s.Home = t.TempDir()
	return &s
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	s := testSettings(t)
	s.Home = "relative"
	_, err = New(s)
	assert.Error(t, err)

	s = testSettings(t)
	s.Probe.Mode = "magic"
	_, err = New(s)
	assert.Error(t, err)
}

func TestScanUsesInjectedProber(t *testing.T) {
	s := testSettings(t)
	npm := filepath.Join(s.Home, ".npm")
	require.NoError(t, os.MkdirAll(npm, 0o755))

	e, err := New(s, WithProber(sizeProber{npm: 2048}))
	require.NoError(t, err)

	report, err := e.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2048), report.DotCaches.TotalBlocks)
	assert.Equal(t, int64(2048), report.Summary.TotalBlocks)
	assert.Equal(t, s.Home, report.Home)
}

func TestDeletePathsRequiresPaths(t *testing.T) {
	e, err := New(testSettings(t), WithProber(sizeProber{}))
	require.NoError(t, err)

	_, err = e.DeletePaths(context.Background(), nil)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "paths array required")
}

func TestDeletePathsMixedBatch(t *testing.T) {
	s := testSettings(t)
	inside := filepath.Join(s.Home, "Library", "Caches", "x")
	require.NoError(t, os.MkdirAll(inside, 0o755))

	e, err := New(s, WithProber(sizeProber{}))
	require.NoError(t, err)

	batch, err := e.DeletePaths(context.Background(), []string{"/outside", inside})
	require.NoError(t, err)
	assert.True(t, batch.OK)
	require.Len(t, batch.Results, 2)
	assert.False(t, batch.Results[0].OK)
	assert.True(t, batch.Results[1].OK)
	assert.NoDirExists(t, inside)
}

func TestDryRunSettingPropagates(t *testing.T) {
	s := testSettings(t)
	s.DryRun = true
	inside := filepath.Join(s.Home, "Library", "Caches", "x")
	require.NoError(t, os.MkdirAll(inside, 0o755))

	runner := &okRunner{}
	e, err := New(s, WithProber(sizeProber{}), WithRunner(runner))
	require.NoError(t, err)

	batch, err := e.DeletePaths(context.Background(), []string{inside})
	require.NoError(t, err)
	assert.Equal(t, "Would remove "+inside, batch.Results[0].Message)
	assert.DirExists(t, inside)

	res := e.CleanPackageCache(context.Background())
	assert.True(t, res.OK)
	assert.Zero(t, runner.calls)
}

func TestMaintenanceDelegates(t *testing.T) {
	runner := &okRunner{}
	e, err := New(testSettings(t), WithProber(sizeProber{}), WithRunner(runner))
	require.NoError(t, err)

	ctx := context.Background()
	assert.True(t, e.CleanPackageCache(ctx).OK)
	assert.True(t, e.PruneContainerEngine(ctx).OK)
	assert.True(t, e.PruneSimulatorRuntimes(ctx).OK)
	assert.Equal(t, 3, runner.calls)
}

func TestDeleteEditorBackup(t *testing.T) {
	s := testSettings(t)
	e, err := New(s, WithProber(sizeProber{}))
	require.NoError(t, err)

	backup := e.Catalog().EditorBackupPath(e.Home())
	require.NoError(t, os.MkdirAll(filepath.Dir(backup), 0o755))
	require.NoError(t, os.WriteFile(backup, []byte("x"), 0o644))

	res := e.DeleteEditorBackup(context.Background())
	assert.True(t, res.OK)
	assert.Equal(t, 1, res.DeletedCount)
	assert.NoFileExists(t, backup)
}
