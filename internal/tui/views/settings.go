package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/Matoxx01/JobCounter/internal/config"
	"github.com/Matoxx01/JobCounter/internal/service"
	"github.com/Matoxx01/JobCounter/internal/tui/ui"
)

// settingsMode is what the settings view is currently doing
type settingsMode int

const (
	settingsNormal settingsMode = iota
	settingsEditQuota
	settingsSaving
	settingsTheme
	settingsConfirmReset
)

// maxVisibleThemes is the maximum number of themes to show at once
const maxVisibleThemes = 10

// SettingsModel is the model for the settings view
type SettingsModel struct {
	services      *service.Services
	themeProvider *ui.ThemeProvider
	styles        ui.Styles
	keys          ui.KeyMap

	// UI state
	width      int
	height     int
	mode       settingsMode
	config     config.Config
	path       string
	exists     bool
	backend    string
	dataPath   string
	quota      string
	quotaInput textinput.Model
	err        error
	notice     string

	// Theme selector state
	themeName   string
	themes      []string
	themeCursor int
	themeOffset int
}

// NewSettingsModel creates a new settings view model
func NewSettingsModel(services *service.Services, themeProvider *ui.ThemeProvider, styles ui.Styles, keys ui.KeyMap) SettingsModel {
	ti := textinput.New()
	ti.Placeholder = "HH:MM:SS, MM:SS or minutes"
	ti.CharLimit = 12
	ti.Width = 20

	m := SettingsModel{
		services:      services,
		themeProvider: themeProvider,
		styles:        styles,
		keys:          keys,
		quotaInput:    ti,
		themes:        themeProvider.AvailableThemes(),
		themeName:     themeProvider.CurrentName(),
	}
	m.syncThemeCursor()
	return m
}

// settingsLoadedMsg carries the configuration and the stored quota
type settingsLoadedMsg struct {
	config   config.Config
	path     string
	exists   bool
	backend  string
	dataPath string
	quota    string
	err      error
}

// quotaSavedMsg reports the outcome of saving a quota
type quotaSavedMsg struct {
	quota string
	err   error
}

// resetDoneMsg reports the outcome of a reset to defaults
type resetDoneMsg struct {
	err error
}

// Init implements tea.Model
func (m SettingsModel) Init() tea.Cmd {
	return m.load()
}

// Update implements tea.Model
func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case settingsEditQuota:
			return m.handleQuotaInput(msg)
		case settingsSaving:
			return m, nil
		case settingsTheme:
			return m.handleThemeSelection(msg)
		case settingsConfirmReset:
			return m.handleConfirmReset(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Edit):
			m.mode = settingsEditQuota
			m.err = nil
			m.notice = ""
			m.quotaInput.SetValue(m.quota)
			m.quotaInput.CursorEnd()
			m.quotaInput.Focus()
			return m, textinput.Blink
		case key.Matches(msg, m.keys.Themes):
			m.mode = settingsTheme
			m.updateThemeOffset()
			return m, nil
		case key.Matches(msg, m.keys.Reset):
			m.mode = settingsConfirmReset
			m.notice = ""
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m, m.load()
		}

	case settingsLoadedMsg:
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.config = msg.config
		m.path = msg.path
		m.exists = msg.exists
		m.backend = msg.backend
		m.dataPath = msg.dataPath
		m.quota = msg.quota
		return m, nil

	case quotaSavedMsg:
		if msg.err != nil {
			// Stay in the form until the quota is saved or the edit is cancelled
			m.mode = settingsEditQuota
			m.err = msg.err
			m.quotaInput.Focus()
			return m, nil
		}
		m.mode = settingsNormal
		m.err = nil
		m.quota = msg.quota
		m.notice = "Quota saved: " + msg.quota
		m.quotaInput.Blur()
		return m, dataChanged

	case resetDoneMsg:
		m.mode = settingsNormal
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.notice = "Data reset to defaults"
		return m, dataChanged

	case ui.DataChangedMsg:
		return m, m.load()

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		m.themeName = msg.ThemeName
		m.syncThemeCursor()
		return m, nil
	}

	if m.mode == settingsEditQuota {
		var cmd tea.Cmd
		m.quotaInput, cmd = m.quotaInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m SettingsModel) handleQuotaInput(msg tea.KeyMsg) (SettingsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		m.mode = settingsSaving
		m.quotaInput.Blur()
		return m, m.saveQuota(m.quotaInput.Value())
	case key.Matches(msg, m.keys.Back):
		m.mode = settingsNormal
		m.err = nil
		m.quotaInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.quotaInput, cmd = m.quotaInput.Update(msg)
	return m, cmd
}

func (m SettingsModel) handleConfirmReset(msg tea.KeyMsg) (SettingsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.mode = settingsSaving
		return m, m.reset()
	case key.Matches(msg, m.keys.Deny):
		m.mode = settingsNormal
	}
	return m, nil
}

// handleThemeSelection handles keys when theme selector is open
func (m SettingsModel) handleThemeSelection(msg tea.KeyMsg) (SettingsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.themeCursor > 0 {
			m.themeCursor--
			m.updateThemeOffset()
		}
	case key.Matches(msg, m.keys.Down):
		if m.themeCursor < len(m.themes)-1 {
			m.themeCursor++
			m.updateThemeOffset()
		}
	case key.Matches(msg, m.keys.Select):
		m.mode = settingsNormal
		if len(m.themes) == 0 {
			return m, nil
		}
		name := m.themes[m.themeCursor]
		return m, func() tea.Msg { return ui.ThemeChangeRequestMsg{ThemeName: name} }
	case key.Matches(msg, m.keys.Back):
		m.mode = settingsNormal
		m.syncThemeCursor()
	}
	return m, nil
}

func (m *SettingsModel) syncThemeCursor() {
	for i, t := range m.themes {
		if t == m.themeName {
			m.themeCursor = i
			return
		}
	}
}

// updateThemeOffset adjusts scroll offset to keep cursor visible
func (m *SettingsModel) updateThemeOffset() {
	if m.themeCursor < m.themeOffset {
		m.themeOffset = m.themeCursor
	} else if m.themeCursor >= m.themeOffset+maxVisibleThemes {
		m.themeOffset = m.themeCursor - maxVisibleThemes + 1
	}
}

// View implements tea.Model
func (m SettingsModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render("Settings"))
	b.WriteString("\n\n")

	if m.mode == settingsConfirmReset {
		b.WriteString(renderConfirm(m.styles, "Reset Data",
			"Replace the snapshot and the register with the defaults?",
			m.styles.StatLabel.Render("A running countdown is discarded.")))
		return b.String()
	}

	switch m.mode {
	case settingsEditQuota, settingsSaving:
		b.WriteString(m.styles.StatLabel.Render("Weekly quota:"))
		b.WriteString("\n")
		b.WriteString(m.quotaInput.View())
		b.WriteString("\n\n")
		if m.mode == settingsSaving {
			b.WriteString(m.styles.StatLabel.Render("Saving..."))
		} else {
			b.WriteString(m.styles.StatLabel.Render("Enter to save, Esc to cancel"))
		}
		b.WriteString("\n")
	default:
		b.WriteString(renderLine(m.styles, "Weekly quota", m.quota))
	}
	if m.err != nil {
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(m.styles.Success.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(renderLine(m.styles, "Config file", m.path))
	if m.exists {
		b.WriteString(renderLine(m.styles, "Status", "File exists"))
	} else {
		b.WriteString(renderLine(m.styles, "Status", "Using defaults (no config file)"))
	}
	b.WriteString(renderLine(m.styles, "Storage", fmt.Sprintf("%s (%s)", m.dataPath, m.backend)))
	b.WriteString(renderLine(m.styles, "Alarm", fmt.Sprintf("%d rings, %s apart", m.config.AlarmRepeat, m.config.AlarmGap)))
	b.WriteString("\n")

	if m.mode == settingsTheme {
		b.WriteString(m.renderThemeSelector())
	} else {
		b.WriteString(renderLine(m.styles, "theme", m.themeName))
	}
	return b.String()
}

// renderThemeSelector renders the theme selection list
func (m SettingsModel) renderThemeSelector() string {
	var b strings.Builder

	b.WriteString(m.styles.StatLabel.Render("theme:"))
	b.WriteString(" ")
	b.WriteString(m.styles.StatValue.Render("Select a theme"))
	b.WriteString("\n\n")

	endIdx := min(m.themeOffset+maxVisibleThemes, len(m.themes))

	if m.themeOffset > 0 {
		b.WriteString(m.styles.StatLabel.Render("  ↑ more themes above"))
		b.WriteString("\n")
	}

	for i := m.themeOffset; i < endIdx; i++ {
		theme := m.themes[i]
		current := ""
		if theme == m.themeName {
			current = m.styles.Success.Render(" (current)")
		}
		if i == m.themeCursor {
			b.WriteString(m.styles.RowSelected.Render("▸ " + theme))
		} else {
			b.WriteString("  " + m.styles.StatValue.Render(theme))
		}
		b.WriteString(current)
		b.WriteString("\n")
	}

	if endIdx < len(m.themes) {
		b.WriteString(m.styles.StatLabel.Render("  ↓ more themes below"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.StatLabel.Render("↑/↓ navigate  Enter select  Esc cancel"))
	return b.String()
}

// SetSize sets the view dimensions
func (m *SettingsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// IsInputMode returns true while a form or dialog owns the keyboard.
// Saving counts too: navigation waits for the outcome.
func (m SettingsModel) IsInputMode() bool {
	return m.mode != settingsNormal
}

func (m SettingsModel) load() tea.Cmd {
	return func() tea.Msg {
		cfg := m.services.Config.Get()
		snap, err := m.services.Store.GetLast()
		if err != nil {
			return settingsLoadedMsg{err: err}
		}
		quota := cfg.Quota
		if snap != nil && snap.ConfiguredStart != nil {
			quota = *snap.ConfiguredStart
		}
		return settingsLoadedMsg{
			config:   cfg,
			path:     m.services.Config.GetPath(),
			exists:   m.services.Config.Exists(),
			backend:  m.services.Store.Backend(),
			dataPath: m.services.Store.DataPath(),
			quota:    quota,
		}
	}
}

func (m SettingsModel) saveQuota(input string) tea.Cmd {
	return func() tea.Msg {
		quota, err := m.services.SaveQuota(input)
		return quotaSavedMsg{quota: quota, err: err}
	}
}

func (m SettingsModel) reset() tea.Cmd {
	return func() tea.Msg {
		return resetDoneMsg{err: m.services.ResetDefaults()}
	}
}

func dataChanged() tea.Msg {
	return ui.DataChangedMsg{}
}
