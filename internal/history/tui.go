package history

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkarppi/catwatch/internal/state"
)

// viewMode selects between the run list and a single-run detail view.
type viewMode int

const (
	listViewMode viewMode = iota
	detailViewMode
)

// Model is the Bubble Tea model for browsing the run history.
type Model struct {
	records  []state.Record
	cursor   int
	viewMode viewMode
	height   int
	selected int
}

// NewModel creates a history model. Records are shown newest first.
func NewModel(records []state.Record) Model {
	reversed := make([]state.Record, len(records))
	for i, rec := range records {
		reversed[len(records)-1-i] = rec
	}
	return Model{records: reversed, selected: -1}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.viewMode {
		case listViewMode:
			return m.updateListView(msg)
		case detailViewMode:
			return m.updateDetailView(msg)
		}
	}

	return m, nil
}

func (m Model) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.records)-1 {
			m.cursor++
		}

	case "enter":
		m.selected = m.cursor
		m.viewMode = detailViewMode
	}

	return m, nil
}

func (m Model) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc", "enter":
		m.viewMode = listViewMode
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.viewMode == detailViewMode {
		return m.renderDetailView()
	}
	return m.renderListView()
}

func (m Model) renderListView() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))

	b.WriteString(headerStyle.Render(fmt.Sprintf("Check history (%d runs, newest first)", len(m.records))))
	b.WriteString("\n\n")

	if len(m.records) == 0 {
		b.WriteString("  No runs recorded yet.\n")
	}

	visibleStart := 0
	visibleEnd := len(m.records)
	if m.height > 0 {
		maxVisible := m.height - 6
		if maxVisible > 0 && maxVisible < len(m.records) {
			visibleStart = m.cursor - maxVisible/2
			if visibleStart < 0 {
				visibleStart = 0
			}
			visibleEnd = visibleStart + maxVisible
			if visibleEnd > len(m.records) {
				visibleEnd = len(m.records)
				visibleStart = visibleEnd - maxVisible
			}
		}
	}

	for i := visibleStart; i < visibleEnd; i++ {
		line := FormatCompactRecord(i, m.records[i])
		if i == m.cursor {
			selectedStyle := lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("12")).
				Bold(true)
			b.WriteString(selectedStyle.Render("→ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	b.WriteString(footerStyle.Render("↑/↓ or j/k: navigate • enter: details • q: quit"))

	return b.String()
}

func (m Model) renderDetailView() string {
	if m.selected < 0 || m.selected >= len(m.records) {
		return "No run selected"
	}

	var b strings.Builder
	b.WriteString(FormatDetailedRecord(m.records[m.selected]))
	b.WriteString("\n")

	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	b.WriteString(footerStyle.Render("esc: back to list • q: quit"))

	return b.String()
}

// Run starts the interactive history browser.
func Run(records []state.Record) error {
	p := tea.NewProgram(NewModel(records), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("history browser failed: %w", err)
	}
	return nil
}
