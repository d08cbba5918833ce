package status

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/macmole/internal/core"
	"github.com/lakshaymaurya-felt/macmole/internal/ui"
)

// ─── Palette ─────────────────────────────────────────────────────────────────

var (
	clrGreen  = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
	clrYellow = lipgloss.AdaptiveColor{Light: "#ca8a04", Dark: "#facc15"}
	clrOrange = lipgloss.AdaptiveColor{Light: "#ea580c", Dark: "#fb923c"}
	clrRed    = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
	clrCyan   = lipgloss.AdaptiveColor{Light: "#0891b2", Dark: "#22d3ee"}
)

// ─── Top-level renderer ─────────────────────────────────────────────────────

func (m StatusModel) renderView() string {
	w := m.Width
	if w < 50 {
		w = 50
	}

	var s strings.Builder
	s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary).
		Render("  " + ui.IconDiamond + " macmole status"))
	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(strings.Repeat("─", w)))
	s.WriteString("\n")

	if m.Metrics == nil {
		s.WriteString(lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render("  Collecting metrics…"))
		s.WriteString("\n")
		s.WriteString(m.renderFooter())
		return s.String()
	}

	barW := 36
	if w > 110 {
		barW = 48
	}
	met := m.Metrics

	s.WriteString(fmt.Sprintf("  %s  %s\n", lipgloss.NewStyle().Bold(true).Render(met.Platform), met.Hostname))
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("  Volume  %s  %5.1f%%  %s / %s\n",
		colorBar(met.Volume.UsedPercent, barW), met.Volume.UsedPercent,
		core.FormatBytes(met.Volume.Used), core.FormatBytes(met.Volume.Total)))
	s.WriteString(fmt.Sprintf("  Free    %s\n", severityStyle(met.Volume.UsedPercent).Render(core.FormatBytes(met.Volume.Free))))
	if met.Memory.Total > 0 {
		s.WriteString(fmt.Sprintf("  Memory  %s  %5.1f%%  %s / %s\n",
			colorBar(met.Memory.UsedPercent, barW), met.Memory.UsedPercent,
			core.FormatBytes(met.Memory.Used), core.FormatBytes(met.Memory.Total)))
	}
	if len(m.UsedHistory) > 1 {
		s.WriteString("\n")
		s.WriteString(lipgloss.NewStyle().Foreground(clrCyan).Render("  used ") + sparklineF64(m.UsedHistory, 30))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(m.renderFooter())
	return s.String()
}

func (m StatusModel) renderFooter() string {
	footer := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Italic(true).
		Render("  r refresh  " + ui.IconBullet + "  q quit")

	if m.Err != nil {
		errStr := lipgloss.NewStyle().
			Foreground(ui.ColorError).
			Render("  " + ui.IconCross + " " + m.Err.Error())
		return errStr + "\n" + footer
	}
	return footer
}

// ─── Plain output ────────────────────────────────────────────────────────────

// PrintMetrics writes a one-shot, non-interactive view of m.
func PrintMetrics(w io.Writer, m *Metrics, st ui.Styler) {
	fmt.Fprintf(w, "  %s\n", st.Title(ui.IconDiamond+" "+m.Platform))
	if m.Hostname != "" {
		fmt.Fprintf(w, "  Host:    %s (up %s)\n", m.Hostname, formatUptime(m.Uptime))
	}
	fmt.Fprintf(w, "  Volume:  %s  %5.1f%%  %s used of %s\n",
		st.Dim(ui.Bar(m.Volume.UsedPercent, 20)), m.Volume.UsedPercent,
		core.FormatBytes(m.Volume.Used), core.FormatBytes(m.Volume.Total))

	free := core.FormatBytes(m.Volume.Free) + " free"
	switch {
	case m.Volume.UsedPercent >= 90:
		free = st.Error(free)
	case m.Volume.UsedPercent >= 75:
		free = st.Warning(free)
	default:
		free = st.Success(free)
	}
	fmt.Fprintf(w, "  Free:    %s\n", free)

	if m.Memory.Total > 0 {
		fmt.Fprintf(w, "  Memory:  %s  %5.1f%%  %s used of %s\n",
			st.Dim(ui.Bar(m.Memory.UsedPercent, 20)), m.Memory.UsedPercent,
			core.FormatBytes(m.Memory.Used), core.FormatBytes(m.Memory.Total))
	}
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	return fmt.Sprintf("%dh %dm", hours, int(d.Minutes())%60)
}

// ─── Drawing primitives ─────────────────────────────────────────────────────

func severityStyle(pct float64) lipgloss.Style {
	c := clrGreen
	switch {
	case pct >= 90:
		c = clrRed
	case pct >= 75:
		c = clrOrange
	case pct >= 50:
		c = clrYellow
	}
	return lipgloss.NewStyle().Foreground(c)
}

// colorBar renders a ████░░░░ bar colored by severity.
func colorBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}

	fStr := severityStyle(pct).Render(strings.Repeat("█", filled))
	eStr := lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(strings.Repeat("░", width-filled))
	return fStr + eStr
}

// sparklineF64 draws percentages (0–100) as a fixed-width sparkline.
func sparklineF64(data []float64, width int) string {
	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	d := data
	if len(d) > width {
		d = d[len(d)-width:]
	}

	var b strings.Builder
	for _, v := range d {
		idx := int(v / 100 * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(blocks[idx])
	}
	for i := len(d); i < width; i++ {
		b.WriteRune(blocks[0])
	}
	return lipgloss.NewStyle().Foreground(clrCyan).Render(b.String())
}
