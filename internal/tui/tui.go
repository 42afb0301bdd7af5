// Package tui provides the interactive terminal app for jobcounter.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/Matoxx01/JobCounter/internal/service"
	"github.com/Matoxx01/JobCounter/internal/tui/ui"
	"github.com/Matoxx01/JobCounter/internal/tui/views"
)

// Tab represents a view tab
type Tab int

const (
	TabCounter Tab = iota
	TabRegister
	TabSettings
)

var tabNames = []string{"Counter", "Register", "Settings"}

// Model is the root TUI model
type Model struct {
	services *service.Services

	// UI state
	activeTab Tab
	width     int
	height    int
	showHelp  bool

	// View models
	counterView  views.CounterModel
	registerView views.RegisterModel
	settingsView views.SettingsModel

	themeProvider *ui.ThemeProvider
	styles        ui.Styles
	keys          ui.KeyMap
}

// New creates a new TUI model
func New(services *service.Services) Model {
	themeProvider := ui.NewThemeProvider(services.Config.Get().Theme)
	styles := themeProvider.Styles()
	keys := ui.DefaultKeyMap()

	return Model{
		services:      services,
		activeTab:     TabCounter,
		themeProvider: themeProvider,
		styles:        styles,
		keys:          keys,
		counterView:   views.NewCounterModel(services, styles, keys),
		registerView:  views.NewRegisterModel(services, styles, keys),
		settingsView:  views.NewSettingsModel(services, themeProvider, styles, keys),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.counterView.Init()
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// A view that owns the keyboard (quota form, y/n dialog) blocks
		// navigation; ctrl+c always quits.
		inputMode := m.isInputMode()

		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}

		switch {
		case key.Matches(msg, m.keys.Quit) && !inputMode:
			return m, m.quit()

		case key.Matches(msg, m.keys.Help) && !inputMode:
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.NextTab) && !inputMode:
			return m.switchTo(Tab((int(m.activeTab) + 1) % len(tabNames)))

		case key.Matches(msg, m.keys.PrevTab) && !inputMode:
			return m.switchTo(Tab((int(m.activeTab) - 1 + len(tabNames)) % len(tabNames)))

		case key.Matches(msg, m.keys.Tab1) && !inputMode:
			return m.switchTo(TabCounter)

		case key.Matches(msg, m.keys.Tab2) && !inputMode:
			return m.switchTo(TabRegister)

		case key.Matches(msg, m.keys.Tab3) && !inputMode:
			return m.switchTo(TabSettings)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		contentHeight := m.height - 4 // tabs and status bar
		m.counterView.SetSize(m.width, contentHeight)
		m.registerView.SetSize(m.width, contentHeight)
		m.settingsView.SetSize(m.width, contentHeight)
		return m, nil

	case ui.ThemeChangeRequestMsg:
		m.themeProvider.SetTheme(msg.ThemeName)
		m.styles = m.themeProvider.Styles()
		changed := ui.ThemeChangedMsg{ThemeName: m.themeProvider.CurrentName(), Styles: m.styles}
		return m, tea.Batch(m.broadcast(changed), m.saveThemeConfig(changed.ThemeName))

	case ui.DataChangedMsg:
		return m, m.broadcast(msg)
	}

	// Ticks, loads and saves are routed by type, so a tick keeps running
	// while another tab is shown.
	switch msg.(type) {
	case tea.KeyMsg:
		switch m.activeTab {
		case TabCounter:
			m.counterView, cmd = m.counterView.Update(msg)
		case TabRegister:
			m.registerView, cmd = m.registerView.Update(msg)
		case TabSettings:
			m.settingsView, cmd = m.settingsView.Update(msg)
		}
		return m, cmd
	}

	var cmds []tea.Cmd
	m.counterView, cmd = m.counterView.Update(msg)
	cmds = append(cmds, cmd)
	m.registerView, cmd = m.registerView.Update(msg)
	cmds = append(cmds, cmd)
	m.settingsView, cmd = m.settingsView.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// broadcast delivers msg to every view
func (m *Model) broadcast(msg tea.Msg) tea.Cmd {
	var c1, c2, c3 tea.Cmd
	m.counterView, c1 = m.counterView.Update(msg)
	m.registerView, c2 = m.registerView.Update(msg)
	m.settingsView, c3 = m.settingsView.Update(msg)
	return tea.Batch(c1, c2, c3)
}

func (m Model) switchTo(tab Tab) (tea.Model, tea.Cmd) {
	m.activeTab = tab
	return m, m.initCurrentView()
}

// quit stops a running countdown through the exit flush, then quits
func (m Model) quit() tea.Cmd {
	return func() tea.Msg {
		m.services.Timer.Flush()
		return tea.Quit()
	}
}

// View implements tea.Model
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	switch m.activeTab {
	case TabCounter:
		b.WriteString(m.counterView.View())
	case TabRegister:
		b.WriteString(m.registerView.View())
	case TabSettings:
		b.WriteString(m.settingsView.View())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	if m.showHelp {
		return m.renderHelpOverlay()
	}

	return m.styles.App.Render(b.String())
}

// renderTabs renders the tab bar
func (m Model) renderTabs() string {
	var tabs []string
	for i, name := range tabNames {
		if Tab(i) == m.activeTab {
			tabs = append(tabs, m.styles.TabActive.Render(name))
		} else {
			tabs = append(tabs, m.styles.TabInactive.Render(name))
		}
	}
	return m.styles.TabBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

// renderStatusBar renders the status bar at the bottom
func (m Model) renderStatusBar() string {
	var parts []string

	if m.isInputMode() {
		parts = append(parts, m.renderKeyHelp("Enter/y", "confirm"))
		parts = append(parts, m.renderKeyHelp("Esc/n", "cancel"))
	} else {
		switch m.activeTab {
		case TabCounter:
			parts = append(parts, m.renderKeyHelp("s", "start"))
			parts = append(parts, m.renderKeyHelp("x", "stop"))
			parts = append(parts, m.renderKeyHelp("r", "refresh"))
		case TabRegister:
			parts = append(parts, m.renderKeyHelp("j/k", "move"))
			parts = append(parts, m.renderKeyHelp("d", "delete"))
			parts = append(parts, m.renderKeyHelp("r", "refresh"))
		case TabSettings:
			parts = append(parts, m.renderKeyHelp("e", "quota"))
			parts = append(parts, m.renderKeyHelp("t", "themes"))
			parts = append(parts, m.renderKeyHelp("R", "reset"))
		}

		parts = append(parts, m.renderKeyHelp("1-3", "views"))
		parts = append(parts, m.renderKeyHelp("?", "help"))
		parts = append(parts, m.renderKeyHelp("q", "quit"))
	}

	content := strings.Join(parts, "  ")

	padding := m.width - lipgloss.Width(content)
	if padding > 0 {
		content += strings.Repeat(" ", padding)
	}

	return m.styles.StatusBar.Render(content)
}

// renderKeyHelp renders a single key help item
func (m Model) renderKeyHelp(key, desc string) string {
	return fmt.Sprintf("%s %s",
		m.styles.StatusKey.Render(key),
		m.styles.StatusHelp.Render(desc))
}

// isInputMode checks if the current view owns the keyboard
func (m Model) isInputMode() bool {
	switch m.activeTab {
	case TabRegister:
		return m.registerView.IsInputMode()
	case TabSettings:
		return m.settingsView.IsInputMode()
	}
	return false
}

// initCurrentView reloads the view being switched to
func (m Model) initCurrentView() tea.Cmd {
	switch m.activeTab {
	case TabCounter:
		return m.counterView.Init()
	case TabRegister:
		return m.registerView.Init()
	case TabSettings:
		return m.settingsView.Init()
	}
	return nil
}

// saveThemeConfig saves the theme to the config file
func (m Model) saveThemeConfig(themeName string) tea.Cmd {
	return func() tea.Msg {
		cfg := m.services.Config.Get()
		cfg.Theme = themeName
		if err := m.services.Config.Update(cfg); err != nil {
			m.services.Logger().Warn("could not save theme", "error", err)
		}
		return nil
	}
}

// renderHelpOverlay renders the keyboard shortcuts for the active view
func (m Model) renderHelpOverlay() string {
	var help strings.Builder

	help.WriteString(m.styles.ViewTitle.Render("Keyboard Shortcuts"))
	help.WriteString("\n\n")

	help.WriteString(m.styles.StatLabel.Render("Global:"))
	help.WriteString("\n")
	help.WriteString("  Tab/1-3    Switch views\n")
	help.WriteString("  ?          Toggle help\n")
	help.WriteString("  q          Save and quit\n")
	help.WriteString("\n")

	switch m.activeTab {
	case TabCounter:
		help.WriteString(m.styles.StatLabel.Render("Counter:"))
		help.WriteString("\n")
		help.WriteString("  s          Start countdown\n")
		help.WriteString("  x          Stop and save\n")
		help.WriteString("  r          Refresh\n")
	case TabRegister:
		help.WriteString(m.styles.StatLabel.Render("Register:"))
		help.WriteString("\n")
		help.WriteString("  j/k        Navigate up/down\n")
		help.WriteString("  d          Delete week\n")
		help.WriteString("  r          Refresh\n")
	case TabSettings:
		help.WriteString(m.styles.StatLabel.Render("Settings:"))
		help.WriteString("\n")
		help.WriteString("  e/Enter    Edit weekly quota\n")
		help.WriteString("  t          Open theme selector\n")
		help.WriteString("  R          Reset data to defaults\n")
	}

	help.WriteString("\n")
	help.WriteString(m.styles.StatLabel.Render("Press ? to close"))

	return m.styles.App.Render(m.styles.Dialog.Render(help.String()))
}

// Run starts the TUI application. The alarm notice is silenced since the
// counter view shows its own banner.
func Run(services *service.Services) error {
	services.Timer.QuietAlarm()
	p := tea.NewProgram(New(services), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
