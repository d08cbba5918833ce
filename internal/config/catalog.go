package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Category names one grouping of scan targets. The values double as the
// report's JSON keys.
type Category string

const (
	CategoryCaches          Category = "caches"
	CategoryContainerEngine Category = "containerEngine"
	CategoryDotCaches       Category = "dotCaches"
	CategoryLibrary         Category = "library"
	CategoryEditorState     Category = "editorState"
)

// Categories lists every category in report order.
var Categories = []Category{
	CategoryCaches,
	CategoryContainerEngine,
	CategoryDotCaches,
	CategoryLibrary,
	CategoryEditorState,
}

// ScanTarget is one location the scanner measures.
type ScanTarget struct {
	// Key is a stable identifier (e.g. "npm").
	Key string `yaml:"key"`

	// RelativePath is the location relative to the home directory.
	RelativePath string `yaml:"path"`

	// Label is a human-readable description.
	Label string `yaml:"label"`
}

// Catalog describes everything a scan looks at. All paths are relative to
// the home directory. A Catalog is built once and only read afterwards.
type Catalog struct {
	// CachesRoot is listed at scan time; each child directory is a target.
	CachesRoot string

	// DotCaches are per-tool dot-directories in the home root.
	DotCaches []ScanTarget

	// Library are large subtrees of ~/Library.
	Library []ScanTarget

	// ContainerRoot is the container engine's top-level directory, measured
	// as a lump when none of ContainerSubpaths report a size.
	ContainerRoot string

	// ContainerSubpaths are relative to ContainerRoot.
	ContainerSubpaths []string

	// EditorRoot is the editor's application-support directory.
	EditorRoot string

	// EditorStorage is relative to EditorRoot; each child is a target.
	EditorStorage string

	// EditorBackup is a file name inside EditorStorage.
	EditorBackup string
}

// ─── Default tables ──────────────────────────────────────────────────────────

var defaultDotCaches = []ScanTarget{
	{Key: "npm", RelativePath: ".npm", Label: "npm cache"},
	{Key: "yarn", RelativePath: ".yarn", Label: "Yarn cache"},
	{Key: "gradle", RelativePath: ".gradle", Label: "Gradle"},
	{Key: "android", RelativePath: ".android", Label: "Android (home)"},
	{Key: "nuget", RelativePath: ".nuget", Label: "NuGet"},
	{Key: "nvm", RelativePath: ".nvm", Label: "Node versions (nvm)"},
	{Key: "cargo", RelativePath: ".cargo", Label: "Rust/Cargo"},
	{Key: "pub", RelativePath: ".pub-cache", Label: "Flutter pub"},
}

var defaultLibrary = []ScanTarget{
	{Key: "developer", RelativePath: filepath.Join("Library", "Developer"), Label: "Xcode & Simulators"},
	{Key: "applicationSupport", RelativePath: filepath.Join("Library", "Application Support"), Label: "Application Support"},
	{Key: "containers", RelativePath: filepath.Join("Library", "Containers"), Label: "Containers (Docker, apps)"},
	{Key: "android", RelativePath: filepath.Join("Library", "Android"), Label: "Android SDK"},
	{Key: "parallels", RelativePath: filepath.Join("Library", "Parallels"), Label: "Parallels VMs"},
}

// DefaultCatalog returns the built-in catalog of macOS disk-usage hotspots.
func DefaultCatalog() Catalog {
	return Catalog{
		CachesRoot:    filepath.Join("Library", "Caches"),
		DotCaches:     append([]ScanTarget(nil), defaultDotCaches...),
		Library:       append([]ScanTarget(nil), defaultLibrary...),
		ContainerRoot: filepath.Join("Library", "Containers", "com.docker.docker"),
		ContainerSubpaths: []string{
			filepath.Join("Data", "vms"),
			filepath.Join("Data", "log"),
			filepath.Join("Data", "cagent"),
			filepath.Join("Data", "tasks"),
		},
		EditorRoot:    filepath.Join("Library", "Application Support", "Cursor"),
		EditorStorage: filepath.Join("User", "globalStorage"),
		EditorBackup:  "state.vscdb.backup",
	}
}

// ─── Lookups ─────────────────────────────────────────────────────────────────

// Targets returns the scan targets of a category in catalog order.
//
// Static categories never touch the filesystem. The caches and editor-state
// categories list their directory at call time; a listing failure is
// returned as an error so the caller can mark just that category.
func (c Catalog) Targets(category Category, home string) ([]ScanTarget, error) {
	switch category {
	case CategoryCaches:
		return listChildren(home, c.CachesRoot, true)
	case CategoryDotCaches:
		return append([]ScanTarget(nil), c.DotCaches...), nil
	case CategoryLibrary:
		return append([]ScanTarget(nil), c.Library...), nil
	case CategoryContainerEngine:
		targets := make([]ScanTarget, 0, len(c.ContainerSubpaths))
		for _, sub := range c.ContainerSubpaths {
			targets = append(targets, ScanTarget{
				Key:          filepath.Base(sub),
				RelativePath: filepath.Join(c.ContainerRoot, sub),
				Label:        filepath.Base(sub),
			})
		}
		return targets, nil
	case CategoryEditorState:
		return listChildren(home, filepath.Join(c.EditorRoot, c.EditorStorage), false)
	default:
		return nil, fmt.Errorf("unknown category %q", category)
	}
}

// EditorBackupPath returns the absolute path of the editor's state backup.
func (c Catalog) EditorBackupPath(home string) string {
	return filepath.Join(home, c.EditorRoot, c.EditorStorage, c.EditorBackup)
}

// Merge returns a copy of c with extra dot-cache and Library targets
// appended. Targets whose key already exists in the category are ignored.
func (c Catalog) Merge(dotCaches, library []ScanTarget) Catalog {
	out := c
	out.DotCaches = mergeTargets(c.DotCaches, dotCaches)
	out.Library = mergeTargets(c.Library, library)
	out.ContainerSubpaths = append([]string(nil), c.ContainerSubpaths...)
	return out
}

func mergeTargets(base, extra []ScanTarget) []ScanTarget {
	seen := make(map[string]bool, len(base)+len(extra))
	out := make([]ScanTarget, 0, len(base)+len(extra))
	for _, t := range base {
		seen[t.Key] = true
		out = append(out, t)
	}
	for _, t := range extra {
		if t.Key == "" || t.RelativePath == "" || seen[t.Key] {
			continue
		}
		seen[t.Key] = true
		if t.Label == "" {
			t.Label = t.Key
		}
		out = append(out, t)
	}
	return out
}

// listChildren turns the entries of home/rel into targets keyed by name.
func listChildren(home, rel string, dirsOnly bool) ([]ScanTarget, error) {
	entries, err := os.ReadDir(filepath.Join(home, rel))
	if err != nil {
		return nil, err
	}

	targets := make([]ScanTarget, 0, len(entries))
	for _, e := range entries {
		if dirsOnly && !e.IsDir() {
			continue
		}
		targets = append(targets, ScanTarget{
			Key:          e.Name(),
			RelativePath: filepath.Join(rel, e.Name()),
			Label:        e.Name(),
		})
	}
	return targets, nil
}
