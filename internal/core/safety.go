package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrInvalidPath is returned when a path does not resolve inside the
	// home directory.
	ErrInvalidPath = errors.New("invalid path")

	// ErrProtectedPath is returned for paths inside home that must never be
	// removed (the home directory itself and its top-level user folders).
	ErrProtectedPath = errors.New("protected path")
)

// neverDeleteRel lists home-relative paths that no cleanup may remove, even
// though they pass the containment check.
var neverDeleteRel = []string{
	"",
	"Library",
	"Documents",
	"Desktop",
	"Downloads",
	"Pictures",
	"Movies",
	"Music",
	".ssh",
}

// Guard validates that user-supplied paths stay inside a home directory.
//
// Containment is checked on the lexical resolution of the path only. A path
// whose last component is a symlink pointing outside home still passes; the
// deletion primitive removes the link itself, not its target.
type Guard struct {
	home      string
	protected map[string]bool
}

// NewGuard creates a Guard rooted at home, which must be an absolute path.
func NewGuard(home string) (*Guard, error) {
	if home == "" || !filepath.IsAbs(home) {
		return nil, fmt.Errorf("home directory must be absolute, got %q", home)
	}
	home = filepath.Clean(home)
	if filepath.Dir(home) == home {
		return nil, fmt.Errorf("home directory cannot be the filesystem root, got %q", home)
	}

	protected := make(map[string]bool, len(neverDeleteRel))
	for _, rel := range neverDeleteRel {
		protected[filepath.Join(home, rel)] = true
	}
	return &Guard{home: home, protected: protected}, nil
}

// Home returns the cleaned home directory.
func (g *Guard) Home() string {
	return g.home
}

// Resolve turns userPath into an absolute path and rejects it with
// ErrInvalidPath unless it lies within home. Relative paths are taken
// relative to home; a leading "~" or "~/" is accepted and stripped.
func (g *Guard) Resolve(userPath string) (string, error) {
	if strings.TrimSpace(userPath) == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	var resolved string
	if filepath.IsAbs(userPath) {
		resolved = filepath.Clean(userPath)
	} else {
		rel := strings.TrimPrefix(userPath, "~")
		rel = strings.TrimPrefix(rel, string(os.PathSeparator))
		resolved = filepath.Join(g.home, rel)
	}

	if !g.contains(resolved) {
		return "", fmt.Errorf("%w: %s is outside %s", ErrInvalidPath, userPath, g.home)
	}
	return resolved, nil
}

// ResolveForDelete is Resolve plus the never-delete check.
func (g *Guard) ResolveForDelete(userPath string) (string, error) {
	resolved, err := g.Resolve(userPath)
	if err != nil {
		return "", err
	}
	if g.IsProtected(resolved) {
		return "", fmt.Errorf("%w: %s", ErrProtectedPath, resolved)
	}
	return resolved, nil
}

// IsProtected reports whether an already-resolved path is on the
// never-delete list.
func (g *Guard) IsProtected(resolved string) bool {
	return g.protected[filepath.Clean(resolved)]
}

func (g *Guard) contains(resolved string) bool {
	if resolved == g.home {
		return true
	}
	prefix := g.home
	if !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix += string(os.PathSeparator)
	}
	return strings.HasPrefix(resolved, prefix)
}
