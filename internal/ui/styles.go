// Package ui holds the shared palette, icons and terminal helpers used by
// the report, status and picker views.
package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ─── Palette ─────────────────────────────────────────────────────────────────

var (
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#a78bfa"}
	ColorCoral   = lipgloss.AdaptiveColor{Light: "#e8553f", Dark: "#ff7f6b"}
	ColorText    = lipgloss.AdaptiveColor{Light: "#1f2937", Dark: "#e5e7eb"}
	ColorTextDim = lipgloss.AdaptiveColor{Light: "#4b5563", Dark: "#9ca3af"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "#6b7280"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#ca8a04", Dark: "#facc15"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
)

// ─── Icons ───────────────────────────────────────────────────────────────────

const (
	IconDiamond  = "◆"
	IconBullet   = "•"
	IconCheck    = "✓"
	IconCross    = "✗"
	IconWarning  = "⚠"
	IconBlock    = "▌"
	IconSelected = "[x]"
	IconEmpty    = "[ ]"
)

// ─── Terminal detection ──────────────────────────────────────────────────────

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ColorEnabled reports whether output to f should be styled. NO_COLOR
// disables styling regardless of the terminal.
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return IsTerminal(f)
}

// IsInteractive reports whether both stdin and stdout are terminals, which
// the full-screen picker needs.
func IsInteractive() bool {
	return IsTerminal(os.Stdin) && IsTerminal(os.Stdout)
}

// ─── Styler ──────────────────────────────────────────────────────────────────

// Styler applies the palette when enabled and returns text untouched
// otherwise, so plain output stays byte-for-byte predictable.
type Styler struct {
	Enabled bool
}

func (s Styler) render(style lipgloss.Style, text string) string {
	if !s.Enabled {
		return text
	}
	return style.Render(text)
}

func (s Styler) Title(text string) string {
	return s.render(lipgloss.NewStyle().Bold(true).Foreground(ColorCoral), text)
}

func (s Styler) Heading(text string) string {
	return s.render(lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary), text)
}

func (s Styler) Text(text string) string {
	return s.render(lipgloss.NewStyle().Foreground(ColorText), text)
}

func (s Styler) Dim(text string) string {
	return s.render(lipgloss.NewStyle().Foreground(ColorTextDim), text)
}

func (s Styler) Muted(text string) string {
	return s.render(lipgloss.NewStyle().Foreground(ColorMuted), text)
}

func (s Styler) Success(text string) string {
	return s.render(lipgloss.NewStyle().Foreground(ColorSuccess), text)
}

func (s Styler) Warning(text string) string {
	return s.render(lipgloss.NewStyle().Foreground(ColorWarning), text)
}

func (s Styler) Error(text string) string {
	return s.render(lipgloss.NewStyle().Foreground(ColorError), text)
}

// ─── Bars ────────────────────────────────────────────────────────────────────

// Bar renders pct (0–100) as a fixed-width bar of filled and empty cells.
func Bar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct/100*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
