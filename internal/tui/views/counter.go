package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/Matoxx01/JobCounter/internal/service"
	"github.com/Matoxx01/JobCounter/internal/timer"
	"github.com/Matoxx01/JobCounter/internal/timeutil"
	"github.com/Matoxx01/JobCounter/internal/tui/ui"
)

// TickInterval is how often a running countdown loses a second.
const TickInterval = time.Second

// CounterModel is the model for the counter view
type CounterModel struct {
	services *service.Services
	styles   ui.Styles
	keys     ui.KeyMap

	// UI state
	width     int
	height    int
	remaining int64
	running   bool
	run       timer.Run
	ticking   timer.Run // run whose tick loop is scheduled
	alarmed   bool
	observed  bool
	week      time.Time
	loaded    bool
	err       error
}

// NewCounterModel creates a new counter view model
func NewCounterModel(services *service.Services, styles ui.Styles, keys ui.KeyMap) CounterModel {
	return CounterModel{
		services: services,
		styles:   styles,
		keys:     keys,
	}
}

// counterLoadedMsg carries the state of the countdown after a refresh
type counterLoadedMsg struct {
	remaining int64
	running   bool
	run       timer.Run
	observed  bool
	week      time.Time
	err       error
}

// counterStartedMsg is sent when a run has been opened
type counterStartedMsg struct {
	run  timer.Run
	seed int64
	err  error
}

// counterStoppedMsg is sent when the countdown has been stopped and saved
type counterStoppedMsg struct {
	remaining int64
	err       error
}

// counterTickMsg is the result of one tick of run
type counterTickMsg struct {
	run  timer.Run
	tick timer.Tick
}

// Init implements tea.Model
func (m CounterModel) Init() tea.Cmd {
	return m.load()
}

// Update implements tea.Model
func (m CounterModel) Update(msg tea.Msg) (CounterModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Start):
			if !m.running {
				return m, m.start()
			}
			return m, nil
		case key.Matches(msg, m.keys.Stop):
			if m.running {
				return m, m.stop()
			}
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m, m.load()
		}

	case counterLoadedMsg:
		m.loaded = true
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.remaining = msg.remaining
		m.running = msg.running
		m.run = msg.run
		m.observed = msg.observed
		m.week = msg.week
		// A run started outside the view (start command) needs its own tick loop
		if m.running && m.ticking != m.run {
			m.ticking = m.run
			return m, m.tick(m.run)
		}
		return m, nil

	case counterStartedMsg:
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.running = true
		m.run = msg.run
		m.remaining = msg.seed
		m.alarmed = false
		m.ticking = msg.run
		return m, m.tick(msg.run)

	case counterStoppedMsg:
		m.err = msg.err
		m.running = false
		m.run = 0
		m.remaining = msg.remaining
		if msg.err == nil {
			m.observed = true
		}
		return m, nil

	case counterTickMsg:
		if msg.tick.Stale || msg.run != m.run {
			if m.ticking == msg.run {
				m.ticking = 0
			}
			return m, nil
		}
		m.remaining = msg.tick.Remaining
		if msg.tick.Alarm {
			m.alarmed = true
		}
		return m, m.tick(msg.run)

	case ui.DataChangedMsg:
		m.alarmed = false
		return m, m.load()

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		return m, nil
	}

	return m, nil
}

// View implements tea.Model
func (m CounterModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render("Counter"))
	b.WriteString("\n\n")

	if !m.loaded {
		b.WriteString("Loading...")
		return b.String()
	}

	b.WriteString(renderLine(m.styles, "Week of", m.week.Format("Mon Jan 2, 2006")))
	b.WriteString("\n")

	value := timeutil.FormatSigned(m.remaining)
	b.WriteString(m.styles.Counter(m.remaining, m.running).Render(value))
	b.WriteString("\n\n")

	if m.running {
		b.WriteString(m.styles.StateRunning.Render("● Running"))
	} else {
		b.WriteString(m.styles.StateStopped.Render("Stopped"))
	}
	b.WriteString("\n")

	if m.alarmed {
		b.WriteString("\n")
		b.WriteString(m.styles.Warning.Render("Time is up: the weekly quota is spent."))
		b.WriteString("\n")
	}
	if !m.running && !m.observed {
		b.WriteString("\n")
		b.WriteString(m.styles.StatLabel.Render("No time recorded this week yet."))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.running {
		b.WriteString(m.styles.StatLabel.Render("Press 'x' to stop and save"))
	} else {
		b.WriteString(m.styles.StatLabel.Render("Press 's' to start the countdown"))
	}
	return b.String()
}

// SetSize sets the view dimensions
func (m *CounterModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Remaining returns the value on display.
func (m CounterModel) Remaining() int64 {
	return m.remaining
}

// IsRunning reports whether the view shows a running countdown.
func (m CounterModel) IsRunning() bool {
	return m.running
}

func (m CounterModel) load() tea.Cmd {
	return func() tea.Msg {
		if err := m.services.Timer.Refresh(); err != nil {
			return counterLoadedMsg{err: err}
		}
		status, err := m.services.Status()
		if err != nil {
			return counterLoadedMsg{err: err}
		}
		return counterLoadedMsg{
			remaining: status.Remaining,
			running:   status.Running,
			run:       m.services.Timer.Current(),
			observed:  status.ObservedThisWeek,
			week:      status.Week,
		}
	}
}

func (m CounterModel) start() tea.Cmd {
	return func() tea.Msg {
		run, seed, err := m.services.Timer.Start()
		return counterStartedMsg{run: run, seed: seed, err: err}
	}
}

func (m CounterModel) stop() tea.Cmd {
	return func() tea.Msg {
		remaining, err := m.services.Timer.Stop()
		return counterStoppedMsg{remaining: remaining, err: err}
	}
}

// tick schedules one second of run. The tick itself is applied inside the
// command, so a stop that lands first turns it stale.
func (m CounterModel) tick(run timer.Run) tea.Cmd {
	return tea.Tick(TickInterval, func(time.Time) tea.Msg {
		return counterTickMsg{run: run, tick: m.services.Timer.Tick(run)}
	})
}
