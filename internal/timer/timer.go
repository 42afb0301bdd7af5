// Package timer holds the countdown state machine behind the counter view.
//
// Countdown does no I/O and owns no goroutines. Callers deliver ticks, one
// per second, tagged with the Run they were scheduled for; a tick for any
// run other than the current one is stale and has no effect. That is what
// makes Stop final: once it returns, no queued tick can move the value.
package timer

import "sync"

// Run identifies one start/stop cycle.
type Run uint64

// State is the lifecycle state of a Countdown.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Tick is the result of delivering one tick.
type Tick struct {
	Remaining int64
	// Alarm is set on the tick that takes Remaining from 0 to -1.
	Alarm bool
	// Stale ticks belong to a run that is no longer current.
	Stale bool
}

// Countdown decrements a signed number of seconds once per tick. The value
// keeps going below zero; negative means overtime.
type Countdown struct {
	mu        sync.Mutex
	state     State
	run       Run
	remaining int64
	alarmed   bool
}

// New returns an idle countdown showing seconds.
func New(seconds int64) *Countdown {
	return &Countdown{remaining: seconds}
}

// Start begins a new run from seed. A running countdown is restarted; ticks
// of the previous run become stale.
func (c *Countdown) Start(seed int64) Run {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.run++
	c.state = Running
	c.remaining = seed
	c.alarmed = false
	return c.run
}

// Tick decrements the value if run is the current run.
func (c *Countdown) Tick(run Run) Tick {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Running || run != c.run {
		return Tick{Remaining: c.remaining, Stale: true}
	}

	c.remaining--
	t := Tick{Remaining: c.remaining}
	if c.remaining == -1 && !c.alarmed {
		c.alarmed = true
		t.Alarm = true
	}
	return t
}

// Stop ends the current run and returns the value it reached. wasRunning is
// false if the countdown was already idle, in which case nothing changes.
func (c *Countdown) Stop() (remaining int64, wasRunning bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Running {
		return c.remaining, false
	}
	c.state = Idle
	// invalidate in-flight ticks
	c.run++
	return c.remaining, true
}

// Set replaces the displayed value while idle. It returns false when running.
func (c *Countdown) Set(seconds int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Running {
		return false
	}
	c.remaining = seconds
	return true
}

// Remaining returns the current value.
func (c *Countdown) Remaining() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// State returns the lifecycle state.
func (c *Countdown) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns the id of the active run, or 0 when idle.
func (c *Countdown) Current() Run {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Running {
		return 0
	}
	return c.run
}
