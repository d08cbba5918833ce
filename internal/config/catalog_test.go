package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogTables(t *testing.T) {
	c := DefaultCatalog()

	require.Len(t, c.DotCaches, 8)
	assert.Equal(t, ScanTarget{Key: "npm", RelativePath: ".npm", Label: "npm cache"}, c.DotCaches[0])
	assert.Equal(t, ".pub-cache", c.DotCaches[7].RelativePath)

	require.Len(t, c.Library, 5)
	assert.Equal(t, filepath.Join("Library", "Developer"), c.Library[0].RelativePath)
	assert.Equal(t, "parallels", c.Library[4].Key)

	assert.Len(t, c.ContainerSubpaths, 4)
	assert.Equal(t, filepath.Join("Library", "Caches"), c.CachesRoot)
}

func TestEditorBackupPath(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t,
		"/Users/me/Library/Application Support/Cursor/User/globalStorage/state.vscdb.backup",
		c.EditorBackupPath("/Users/me"))
}

func TestTargetsStaticDoNotTouchFilesystem(t *testing.T) {
	c := DefaultCatalog()
	missing := filepath.Join(t.TempDir(), "nope")

	dot, err := c.Targets(CategoryDotCaches, missing)
	require.NoError(t, err)
	assert.Equal(t, c.DotCaches, dot)

	lib, err := c.Targets(CategoryLibrary, missing)
	require.NoError(t, err)
	assert.Equal(t, c.Library, lib)

	ce, err := c.Targets(CategoryContainerEngine, missing)
	require.NoError(t, err)
	require.Len(t, ce, 4)
	assert.Equal(t, "vms", ce[0].Key)
	assert.Equal(t, filepath.Join(c.ContainerRoot, "Data", "vms"), ce[0].RelativePath)
}

func TestTargetsReturnCopies(t *testing.T) {
	c := DefaultCatalog()
	dot, err := c.Targets(CategoryDotCaches, "/")
	require.NoError(t, err)
	dot[0].Key = "mutated"
	assert.Equal(t, "npm", c.DotCaches[0].Key)
}

func TestTargetsCachesListsDirectoriesOnly(t *testing.T) {
	home := t.TempDir()
	caches := filepath.Join(home, "Library", "Caches")
	require.NoError(t, os.MkdirAll(filepath.Join(caches, "com.apple.Safari"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(caches, "Homebrew"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(caches, "loose.txt"), []byte("x"), 0o644))

	targets, err := DefaultCatalog().Targets(CategoryCaches, home)
	require.NoError(t, err)
	require.Len(t, targets, 2)

	names := []string{targets[0].Key, targets[1].Key}
	assert.ElementsMatch(t, []string{"com.apple.Safari", "Homebrew"}, names)
	for _, tg := range targets {
		assert.Equal(t, filepath.Join("Library", "Caches", tg.Key), tg.RelativePath)
	}
}

func TestTargetsCachesMissingRoot(t *testing.T) {
	_, err := DefaultCatalog().Targets(CategoryCaches, t.TempDir())
	assert.Error(t, err)
}

func TestTargetsEditorStateIncludesFiles(t *testing.T) {
	home := t.TempDir()
	c := DefaultCatalog()
	storage := filepath.Join(home, c.EditorRoot, c.EditorStorage)
	require.NoError(t, os.MkdirAll(filepath.Join(storage, "ext"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(storage, "state.vscdb"), []byte("db"), 0o644))

	targets, err := c.Targets(CategoryEditorState, home)
	require.NoError(t, err)
	assert.Len(t, targets, 2)
}

func TestTargetsUnknownCategory(t *testing.T) {
	_, err := DefaultCatalog().Targets(Category("bogus"), "/")
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	base := DefaultCatalog()
	merged := base.Merge(
		[]ScanTarget{
			{Key: "npm", RelativePath: ".npm-other"},
			{Key: "pip", RelativePath: ".cache/pip"},
			{Key: "", RelativePath: ".nokey"},
		},
		[]ScanTarget{{Key: "vbox", RelativePath: "VirtualBox VMs", Label: "VirtualBox"}},
	)

	require.Len(t, merged.DotCaches, len(base.DotCaches)+1)
	assert.Equal(t, ".npm", merged.DotCaches[0].RelativePath)
	last := merged.DotCaches[len(merged.DotCaches)-1]
	assert.Equal(t, ScanTarget{Key: "pip", RelativePath: ".cache/pip", Label: "pip"}, last)

	require.Len(t, merged.Library, len(base.Library)+1)
	assert.Equal(t, "VirtualBox", merged.Library[len(merged.Library)-1].Label)

	assert.Len(t, base.DotCaches, 8, "merge must not modify the receiver")
}
