package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/Matoxx01/JobCounter/internal/service"
	"github.com/Matoxx01/JobCounter/internal/storage"
	"github.com/Matoxx01/JobCounter/internal/timeutil"
	"github.com/Matoxx01/JobCounter/internal/tui/ui"
)

// RegisterModel is the model for the register view
type RegisterModel struct {
	services *service.Services
	styles   ui.Styles
	keys     ui.KeyMap

	// UI state
	width      int
	height     int
	cursor     int
	result     *service.RegisterResult
	archived   []storage.RegisterEntry
	loading    bool
	confirming bool
	err        error
	deleteErr  error
}

// NewRegisterModel creates a new register view model
func NewRegisterModel(services *service.Services, styles ui.Styles, keys ui.KeyMap) RegisterModel {
	return RegisterModel{
		services: services,
		styles:   styles,
		keys:     keys,
		loading:  true,
	}
}

// registerLoadedMsg is sent after reconciliation ran and the register was read
type registerLoadedMsg struct {
	archived []storage.RegisterEntry
	result   *service.RegisterResult
	err      error
}

// registerDeletedMsg reports the outcome of a deletion
type registerDeletedMsg struct {
	id      int64
	removed bool
	err     error
}

// Init implements tea.Model. Opening the register archives a finished week first.
func (m RegisterModel) Init() tea.Cmd {
	return m.load()
}

// Update implements tea.Model
func (m RegisterModel) Update(msg tea.Msg) (RegisterModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirming {
			return m.handleConfirm(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < m.count()-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Delete):
			if m.count() > 0 {
				m.confirming = true
				m.deleteErr = nil
			}
		case key.Matches(msg, m.keys.Refresh):
			return m, m.load()
		}
		return m, nil

	case registerLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.result = msg.result
		if len(msg.archived) > 0 {
			m.archived = msg.archived
		}
		if m.cursor >= m.count() {
			m.cursor = max(m.count()-1, 0)
		}
		return m, nil

	case registerDeletedMsg:
		if msg.err != nil {
			m.deleteErr = msg.err
			return m, nil
		}
		if !msg.removed {
			m.deleteErr = fmt.Errorf("entry %d no longer exists", msg.id)
		}
		return m, m.load()

	case ui.DataChangedMsg:
		m.archived = nil
		return m, m.load()

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		return m, nil
	}

	return m, nil
}

// handleConfirm handles keys while the delete dialog is open
func (m RegisterModel) handleConfirm(msg tea.KeyMsg) (RegisterModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.confirming = false
		if entry, ok := m.selected(); ok {
			return m, m.deleteEntry(entry.ID)
		}
	case key.Matches(msg, m.keys.Deny):
		m.confirming = false
	}
	return m, nil
}

// View implements tea.Model
func (m RegisterModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render("Register"))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString("Loading...")
		return b.String()
	}
	if m.err != nil {
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
		return b.String()
	}

	if m.confirming {
		if entry, ok := m.selected(); ok {
			b.WriteString(renderConfirm(m.styles, "Delete Entry",
				"Are you sure you want to delete this week?",
				renderLine(m.styles, "Week", fmt.Sprintf("%s (%s)", timeutil.WeekLabel(entry.Week), entry.Week)),
				renderLine(m.styles, "Offset", entry.Offset)))
			return b.String()
		}
	}

	for _, e := range m.archived {
		b.WriteString(m.styles.Success.Render(fmt.Sprintf("Archived week of %s: %s", timeutil.WeekLabel(e.Week), e.Offset)))
		b.WriteString("\n")
	}
	if len(m.archived) > 0 {
		b.WriteString("\n")
	}

	if m.count() == 0 {
		b.WriteString(m.styles.StateStopped.Render("No weeks archived yet"))
		return b.String()
	}

	b.WriteString(m.renderRows())
	b.WriteString("\n")

	s := m.result.Statistics
	b.WriteString(renderLine(m.styles, "Balance", fmt.Sprintf("%s over %d %s",
		timeutil.FormatShort(s.BalanceSeconds), s.Weeks, pluralize("week", s.Weeks))))
	b.WriteString(renderLine(m.styles, "Average", timeutil.FormatShort(s.AverageSeconds)))

	if m.deleteErr != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Delete failed: %v", m.deleteErr)))
	}
	return b.String()
}

// renderRows renders one "d-Mon  ±HH:MM" row per entry
func (m RegisterModel) renderRows() string {
	var b strings.Builder
	for i, e := range m.result.Entries {
		line := m.styles.RowWeek.Render(timeutil.WeekLabel(e.Week)) + " " + m.styles.RowOffset.Render(e.Offset)
		if i == m.cursor {
			b.WriteString(m.styles.RowSelected.Render("▸ " + line))
		} else {
			b.WriteString(m.styles.RowNormal.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// SetSize sets the view dimensions
func (m *RegisterModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// IsInputMode returns true while the delete dialog is open
func (m RegisterModel) IsInputMode() bool {
	return m.confirming
}

func (m RegisterModel) count() int {
	if m.result == nil {
		return 0
	}
	return len(m.result.Entries)
}

func (m RegisterModel) selected() (storage.RegisterEntry, bool) {
	if m.cursor < 0 || m.cursor >= m.count() {
		return storage.RegisterEntry{}, false
	}
	return m.result.Entries[m.cursor], true
}

func (m RegisterModel) load() tea.Cmd {
	return func() tea.Msg {
		archived, err := m.services.Store.ProcessWeekly()
		if err != nil {
			return registerLoadedMsg{err: err}
		}
		result, err := m.services.Store.GetRegisterSummary()
		return registerLoadedMsg{archived: archived, result: result, err: err}
	}
}

func (m RegisterModel) deleteEntry(id int64) tea.Cmd {
	return func() tea.Msg {
		removed, err := m.services.Store.DeleteRegister(id)
		return registerDeletedMsg{id: id, removed: removed, err: err}
	}
}
