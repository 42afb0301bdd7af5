package alarm

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestBell_RingsSequentially(t *testing.T) {
	var buf bytes.Buffer
	b := NewBell(&buf, 4, 600*time.Millisecond)

	var gaps []time.Duration
	b.sleep = func(d time.Duration) { gaps = append(gaps, d) }

	b.NotifyAlarm()

	out := buf.String()
	if got := strings.Count(out, "\a"); got != 4 {
		t.Errorf("bell rang %d times, expected 4", got)
	}
	if len(gaps) != 3 {
		t.Errorf("slept %d times, expected 3 gaps between 4 rings", len(gaps))
	}
	for _, g := range gaps {
		if g != 600*time.Millisecond {
			t.Errorf("gap = %v, expected 600ms", g)
		}
	}
	if !strings.Contains(out, "Time is up") {
		t.Errorf("expected notice in output, got %q", out)
	}
}

func TestNewBell_Defaults(t *testing.T) {
	tests := []struct {
		name       string
		repeat     int
		gap        time.Duration
		wantRepeat int
		wantGap    time.Duration
	}{
		{"zero repeat", 0, time.Second, DefaultRepeat, time.Second},
		{"negative gap", 2, -time.Second, 2, 0},
		{"explicit", 1, time.Millisecond, 1, time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBell(&bytes.Buffer{}, tt.repeat, tt.gap)
			if b.Repeat != tt.wantRepeat || b.Gap != tt.wantGap {
				t.Errorf("NewBell() = (%d, %v), expected (%d, %v)", b.Repeat, b.Gap, tt.wantRepeat, tt.wantGap)
			}
		})
	}
}

func TestBell_ConcurrentAlarmsDoNotInterleave(t *testing.T) {
	var buf bytes.Buffer
	b := NewBell(&buf, 2, 0)
	b.Notice = "done"
	b.sleep = func(time.Duration) {}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.NotifyAlarm()
		}()
	}
	wg.Wait()

	expected := strings.Repeat("\a\adone\n", 5)
	if buf.String() != expected {
		t.Errorf("output = %q, expected %q", buf.String(), expected)
	}
}

func TestMultiAndFunc(t *testing.T) {
	var calls []string
	m := Multi{
		Func(func() { calls = append(calls, "first") }),
		nil,
		Func(func() { calls = append(calls, "second") }),
	}
	m.NotifyAlarm()

	if strings.Join(calls, ",") != "first,second" {
		t.Errorf("calls = %v, expected [first second]", calls)
	}
}

func TestQuiet_LeavesOnlyTheBell(t *testing.T) {
	var first, second bytes.Buffer
	a := NewBell(&first, 2, 0)
	b := NewBell(&second, 1, 0)
	a.sleep = func(time.Duration) {}

	Quiet(Multi{a, nil, Func(func() {}), b})
	a.NotifyAlarm()
	b.NotifyAlarm()

	if first.String() != "\a\a" {
		t.Errorf("first bell wrote %q, expected only the bell", first.String())
	}
	if second.String() != "\a" {
		t.Errorf("second bell wrote %q, expected only the bell", second.String())
	}
}
