package status

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ─── Messages ────────────────────────────────────────────────────────────────

type tickMsg time.Time

type metricsMsg struct {
	metrics *Metrics
	err     error
}

// CollectFunc gathers one snapshot. It is a field so tests can feed fixed
// metrics to the model.
type CollectFunc func(ctx context.Context, home string) (*Metrics, error)

// ─── Model ───────────────────────────────────────────────────────────────────

// StatusModel is the bubbletea Model for the live volume dashboard.
type StatusModel struct {
	Metrics *Metrics
	Width   int
	Err     error

	// UsedHistory holds the last 60 volume usage readings.
	UsedHistory []float64

	home            string
	collect         CollectFunc
	refreshInterval time.Duration
	quitting        bool
}

// NewStatusModel creates a StatusModel watching the volume that holds home.
func NewStatusModel(home string, refreshInterval time.Duration) StatusModel {
	if refreshInterval <= 0 {
		refreshInterval = time.Second
	}
	return StatusModel{
		Width:           80,
		home:            home,
		collect:         Collect,
		refreshInterval: refreshInterval,
	}
}

func (m StatusModel) doTick() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m StatusModel) collectMetrics() tea.Cmd {
	collect, home, timeout := m.collect, m.home, m.refreshInterval
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout+5*time.Second)
		defer cancel()
		metrics, err := collect(ctx, home)
		return metricsMsg{metrics: metrics, err: err}
	}
}

// ─── tea.Model interface ─────────────────────────────────────────────────────

func (m StatusModel) Init() tea.Cmd {
	// The first metricsMsg starts the tick loop, so collection never overlaps.
	return m.collectMetrics()
}

func (m StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			return m, m.collectMetrics()
		}
		return m, nil

	case tickMsg:
		return m, m.collectMetrics()

	case metricsMsg:
		if msg.err != nil {
			m.Err = msg.err
			return m, m.doTick()
		}
		m.Err = nil
		m.Metrics = msg.metrics
		m.UsedHistory = appendF64(m.UsedHistory, msg.metrics.Volume.UsedPercent, 60)
		return m, m.doTick()
	}

	return m, nil
}

func (m StatusModel) View() string {
	if m.quitting {
		return ""
	}
	return m.renderView()
}

// ─── History helpers ─────────────────────────────────────────────────────────

func appendF64(h []float64, v float64, maxLen int) []float64 {
	h = append(h, v)
	if len(h) > maxLen {
		h = h[1:]
	}
	return h
}
