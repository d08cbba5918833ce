package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PickerItem is one deletable entry offered by the picker.
type PickerItem struct {
	Group string
	Name  string
	Path  string
	Size  string
}

// LoadFunc produces the picker's items. It runs off the UI goroutine while a
// spinner is shown.
type LoadFunc func() ([]PickerItem, error)

// ─── Key bindings ────────────────────────────────────────────────────────────

type pickerKeys struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	All     key.Binding
	Delete  key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

func (k pickerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.All, k.Delete, k.Quit}
}

func (k pickerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Toggle, k.All}, {k.Delete, k.Confirm, k.Quit}}
}

var defaultPickerKeys = pickerKeys{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:  key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "select")),
	All:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
	Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete selected")),
	Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ─── Messages ────────────────────────────────────────────────────────────────

type itemsLoadedMsg struct {
	items []PickerItem
	err   error
}

// ─── Model ───────────────────────────────────────────────────────────────────

// PickerModel lets the user select entries for deletion. Deleting takes two
// keys: d arms the confirmation, enter accepts it, anything else cancels.
type PickerModel struct {
	items    []PickerItem
	selected map[int]bool
	cursor   int
	offset   int
	width    int
	height   int

	load    LoadFunc
	loading bool
	spinner spinner.Model
	help    help.Model
	keys    pickerKeys

	confirmDelete bool
	confirmed     bool
	quitting      bool
	err           error
}

// NewPickerModel creates a picker that calls load on Init.
func NewPickerModel(load LoadFunc) PickerModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	return PickerModel{
		selected: make(map[int]bool),
		width:    80,
		height:   24,
		load:     load,
		loading:  true,
		spinner:  sp,
		help:     help.New(),
		keys:     defaultPickerKeys,
	}
}

// Confirmed reports whether the user accepted the deletion.
func (m PickerModel) Confirmed() bool { return m.confirmed }

// Err returns the error from loading items, if any.
func (m PickerModel) Err() error { return m.err }

// Selected returns the selected paths in display order.
func (m PickerModel) Selected() []string {
	var paths []string
	for i, it := range m.items {
		if m.selected[i] {
			paths = append(paths, it.Path)
		}
	}
	return paths
}

func (m PickerModel) loadItems() tea.Cmd {
	load := m.load
	return func() tea.Msg {
		items, err := load()
		return itemsLoadedMsg{items: items, err: err}
	}
}

// ─── tea.Model interface ─────────────────────────────────────────────────────

func (m PickerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadItems())
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case itemsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.quitting = true
			return m, tea.Quit
		}
		m.items = msg.items
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.loading {
			return m, nil
		}

		// While armed, only enter confirms.
		if m.confirmDelete {
			m.confirmDelete = false
			if key.Matches(msg, m.keys.Confirm) {
				m.confirmed = true
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.ensureVisible()
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
				m.ensureVisible()
			}
		case key.Matches(msg, m.keys.Toggle):
			if m.cursor < len(m.items) {
				m.selected[m.cursor] = !m.selected[m.cursor]
			}
		case key.Matches(msg, m.keys.All):
			m.toggleAll()
		case key.Matches(msg, m.keys.Delete):
			if len(m.Selected()) > 0 {
				m.confirmDelete = true
			}
		}
		return m, nil
	}

	return m, nil
}

func (m PickerModel) View() string {
	if m.quitting {
		return ""
	}
	return m.renderView()
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// toggleAll selects everything, or clears the selection when everything is
// already selected.
func (m *PickerModel) toggleAll() {
	all := len(m.items) > 0
	for i := range m.items {
		if !m.selected[i] {
			all = false
			break
		}
	}
	for i := range m.items {
		m.selected[i] = !all
	}
}

func (m *PickerModel) ensureVisible() {
	vh := m.viewportHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+vh {
		m.offset = m.cursor - vh + 1
	}
}

func (m PickerModel) viewportHeight() int {
	h := m.height - 6 // title (2) + footer (3) + padding
	if h < 1 {
		h = 1
	}
	return h
}

// ─── View ────────────────────────────────────────────────────────────────────

func (m PickerModel) renderView() string {
	var s strings.Builder
	s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(ColorCoral).
		Render("  " + IconDiamond + " Select entries to delete"))
	s.WriteString("\n\n")

	if m.loading {
		s.WriteString(fmt.Sprintf("  %s Scanning…\n", m.spinner.View()))
		return s.String()
	}
	if len(m.items) == 0 {
		s.WriteString(lipgloss.NewStyle().Foreground(ColorMuted).Italic(true).Render("  Nothing to clean."))
		s.WriteString("\n")
		return s.String()
	}

	cursorStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	groupStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	end := m.offset + m.viewportHeight()
	if end > len(m.items) {
		end = len(m.items)
	}
	for i := m.offset; i < end; i++ {
		it := m.items[i]
		box := IconEmpty
		if m.selected[i] {
			box = IconSelected
		}
		line := fmt.Sprintf("%s %-40s %10s  %s", box, it.Name, it.Size, groupStyle.Render(it.Group))
		if i == m.cursor {
			s.WriteString(cursorStyle.Render(IconBlock+" ") + line)
		} else {
			s.WriteString("  " + line)
		}
		s.WriteString("\n")
	}

	s.WriteString("\n")
	if m.confirmDelete {
		s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(ColorError).
			Render(fmt.Sprintf("  %s Permanently delete %d item(s)? enter to confirm, any key to cancel",
				IconWarning, len(m.Selected()))))
	} else {
		s.WriteString("  " + m.help.View(m.keys))
	}
	return s.String()
}
