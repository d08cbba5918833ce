package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/macmole/internal/clean"
	"github.com/lakshaymaurya-felt/macmole/internal/config"
	"github.com/lakshaymaurya-felt/macmole/internal/engine"
	"github.com/lakshaymaurya-felt/macmole/internal/scan"
)

// execute runs the root command with args against a throwaway home and an
// empty config file, resetting the package-level flag state first.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	debug, dryRun, configPath, homeDir = false, false, "", ""
	scanJSON, scanMaxItems, scanWarnings = false, 10, false
	cleanInteractive, cleanJSON = false, false

	cfg := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("probe:\n  mode: native\n"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestScanJSON(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".npm", "_cacache"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".npm", "_cacache", "blob"), make([]byte, 64*1024), 0o644))

	out, err := execute(t, "scan", "--json", "--home", home)
	require.NoError(t, err)

	var report map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	for _, key := range []string{"caches", "containerEngine", "dotCaches", "library", "editorState", "summary"} {
		assert.Contains(t, report, key)
	}

	var dot struct {
		TotalBlocks int64 `json:"totalBlocks"`
		Items       []struct {
			Key string `json:"key"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(report["dotCaches"], &dot))
	assert.Positive(t, dot.TotalBlocks)
	require.Len(t, dot.Items, 1)
	assert.Equal(t, "npm", dot.Items[0].Key)
}

func TestCleanRefusesOutsideHome(t *testing.T) {
	home := t.TempDir()
	outside := t.TempDir()

	out, err := execute(t, "clean", "--home", home, outside)
	require.Error(t, err)
	assert.Contains(t, out, "Invalid path: "+outside)
	assert.DirExists(t, outside)
}

func TestCleanDryRun(t *testing.T) {
	home := t.TempDir()
	target := filepath.Join(home, "Library", "Caches", "com.example")
	require.NoError(t, os.MkdirAll(target, 0o755))

	out, err := execute(t, "clean", "--dry-run", "--home", home, target)
	require.NoError(t, err)
	assert.Contains(t, out, "Would remove "+target)
	assert.DirExists(t, target)
}

func TestMaintainDryRun(t *testing.T) {
	out, err := execute(t, "maintain", "docker", "--dry-run", "--home", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "Would run: docker system prune -a -f --volumes")
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish"} {
		out, err := execute(t, "completion", shell)
		require.NoError(t, err, shell)
		assert.Contains(t, out, "mm", shell)
	}

	_, err := execute(t, "completion", "powershell")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2026-01-01")
	t.Cleanup(func() { SetVersionInfo("dev", "none", "unknown") })

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mm 1.2.3 (abc123) built 2026-01-01")
}

func TestPickerItemsOnlyCachesAndEditorBackup(t *testing.T) {
	backup := "/h/Library/Application Support/Cursor/User/globalStorage/state.vscdb.backup"
	r := &scan.Report{
		Caches: scan.Section{
			Category: config.CategoryCaches,
			Items:    []scan.Entry{{Name: "com.apple.Safari", Path: "/h/Library/Caches/com.apple.Safari", SizeFormatted: "1.0 MB"}},
		},
		ContainerEngine: scan.Section{
			Category:  config.CategoryContainerEngine,
			Breakdown: true,
			Items:     []scan.Entry{{Name: "vms", Path: "/h/Library/Containers/com.docker.docker/Data/vms"}},
		},
		DotCaches: scan.Section{
			Category: config.CategoryDotCaches,
			Items:    []scan.Entry{{Key: "npm", Name: ".npm", Path: "/h/.npm", SizeFormatted: "2.0 MB"}},
		},
		Library: scan.Section{
			Category: config.CategoryLibrary,
			Items:    []scan.Entry{{Key: "developer", Name: "Library/Developer", Path: "/h/Library/Developer"}},
		},
		EditorState: scan.Section{
			Category: config.CategoryEditorState,
			Items: []scan.Entry{
				{Name: "state.vscdb", Path: "/h/Library/Application Support/Cursor/User/globalStorage/state.vscdb"},
				{Name: "state.vscdb.backup", Path: backup, SizeFormatted: "3.0 MB"},
			},
		},
	}

	items := pickerItems(r, backup)
	require.Len(t, items, 2)
	assert.Equal(t, "Caches", items[0].Group)
	assert.Equal(t, "/h/Library/Caches/com.apple.Safari", items[0].Path)
	assert.Equal(t, backup, items[1].Path)
	assert.Equal(t, "3.0 MB", items[1].Size)
}

type fixedProber int64

func (p fixedProber) Measure(context.Context, string) (int64, error) { return int64(p), nil }

func TestPickerItemsFromScanExcludeUserData(t *testing.T) {
	s := config.DefaultSettings()
	s.Home = t.TempDir()
	for _, rel := range []string{
		"Library/Caches/com.example",
		"Library/Developer",
		"Library/Application Support/Cursor/User/globalStorage",
		".cargo",
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(s.Home, rel), 0o755))
	}
	storage := filepath.Join(s.Home, "Library/Application Support/Cursor/User/globalStorage")
	require.NoError(t, os.WriteFile(filepath.Join(storage, "state.vscdb"), make([]byte, 4096), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(storage, "state.vscdb.backup"), make([]byte, 4096), 0o644))

	eng, err := engine.New(&s, engine.WithProber(fixedProber(1024)))
	require.NoError(t, err)
	report, err := eng.Scan(context.Background())
	require.NoError(t, err)

	var paths []string
	for _, it := range pickerItems(report, eng.Catalog().EditorBackupPath(eng.Home())) {
		paths = append(paths, it.Path)
	}
	assert.ElementsMatch(t, []string{
		filepath.Join(s.Home, "Library/Caches/com.example"),
		filepath.Join(storage, "state.vscdb.backup"),
	}, paths)
}

func TestPrintResults(t *testing.T) {
	var buf bytes.Buffer
	err := printResults(&buf, []clean.Result{
		{OK: true, Message: "Directory removed", DeletedCount: 1, Path: "/h/a"},
		{OK: false, Message: "Invalid path: /etc"},
	})
	require.Error(t, err)
	assert.Contains(t, buf.String(), "/h/a")
	assert.Contains(t, buf.String(), "Invalid path: /etc")
	assert.Contains(t, buf.String(), "1 removed, 1 failed")
}
