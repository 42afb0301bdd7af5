// Package alarm delivers the "time is up" notification.
package alarm

import (
	"fmt"
	"io"
	"sync"
	"time"
)

const (
	DefaultRepeat = 4
	DefaultGap    = 600 * time.Millisecond
)

// Notifier is told when a countdown crosses zero.
type Notifier interface {
	NotifyAlarm()
}

// Func adapts a plain function to Notifier.
type Func func()

func (f Func) NotifyAlarm() { f() }

// Multi notifies each notifier in order.
type Multi []Notifier

func (m Multi) NotifyAlarm() {
	for _, n := range m {
		if n != nil {
			n.NotifyAlarm()
		}
	}
}

// Bell rings the terminal bell Repeat times, one after the other, then
// prints a notice. Concurrent alarms queue instead of overlapping.
type Bell struct {
	W      io.Writer
	Repeat int
	Gap    time.Duration
	Notice string

	mu    sync.Mutex
	sleep func(time.Duration)
}

// NewBell returns a Bell with the default cue.
func NewBell(w io.Writer, repeat int, gap time.Duration) *Bell {
	if repeat <= 0 {
		repeat = DefaultRepeat
	}
	if gap < 0 {
		gap = 0
	}
	return &Bell{W: w, Repeat: repeat, Gap: gap, Notice: "Time is up: the weekly quota is spent."}
}

// Quiet drops the notice so only the bell rings. Used while a full screen UI
// owns the terminal and shows its own banner.
func (b *Bell) Quiet() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Notice = ""
}

// Quiet silences the text output of n, and of every notifier inside a Multi,
// where the notifier supports it.
func Quiet(n Notifier) {
	switch v := n.(type) {
	case Multi:
		for _, inner := range v {
			Quiet(inner)
		}
	case interface{ Quiet() }:
		v.Quiet()
	}
}

func (b *Bell) NotifyAlarm() {
	b.mu.Lock()
	defer b.mu.Unlock()

	sleep := b.sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	for i := 0; i < b.Repeat; i++ {
		if i > 0 {
			sleep(b.Gap)
		}
		_, _ = io.WriteString(b.W, "\a")
	}
	if b.Notice != "" {
		_, _ = fmt.Fprintln(b.W, b.Notice)
	}
}
