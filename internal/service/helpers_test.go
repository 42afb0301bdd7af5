package service

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Matoxx01/JobCounter/internal/alarm"
	"github.com/Matoxx01/JobCounter/internal/config"
	"github.com/Matoxx01/JobCounter/internal/storage"
)

func makeTime(year int, month time.Month, day, hour, min, sec int) time.Time {
	return time.Date(year, month, day, hour, min, sec, 0, time.Local)
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

// thursday is the default "now"; its week starts 2024-01-15.
var thursday = makeTime(2024, time.January, 18, 12, 0, 0)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock(t time.Time) *testClock { return &testClock{t: t} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

// alarmCounter counts notifications.
type alarmCounter struct {
	fired chan struct{}
}

func newAlarmCounter() *alarmCounter {
	return &alarmCounter{fired: make(chan struct{}, 16)}
}

func (a *alarmCounter) NotifyAlarm() { a.fired <- struct{}{} }

func (a *alarmCounter) count(wait time.Duration) int {
	n := 0
	deadline := time.After(wait)
	for {
		select {
		case <-a.fired:
			n++
		case <-deadline:
			return n
		}
	}
}

type fixture struct {
	dir         string
	storagePath string
	configPath  string
	clock       *testClock
	alarms      *alarmCounter
	logs        *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	return &fixture{
		dir:         dir,
		storagePath: filepath.Join(dir, storage.DataFile),
		configPath:  filepath.Join(dir, config.ConfigFile),
		clock:       newClock(thursday),
		alarms:      newAlarmCounter(),
		logs:        &bytes.Buffer{},
	}
}

// seed writes a data file before the services are opened.
func (f *fixture) seed(t *testing.T, doc storage.Document) {
	t.Helper()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(f.storagePath, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func (f *fixture) open(t *testing.T, backend string) *Services {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Backend = backend

	s, err := Open(f.storagePath, f.configPath, cfg,
		WithClock(f.clock.Now),
		WithLogger(slog.New(slog.NewTextHandler(f.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
		WithNotifier(f.alarms),
	)
	if err != nil {
		t.Fatalf("Open() returned error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

var backends = []string{config.BackendFile, config.BackendMirror}

func forEachBackend(t *testing.T, fn func(t *testing.T, f *fixture, backend string)) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			fn(t, newFixture(t), backend)
		})
	}
}

var _ alarm.Notifier = (*alarmCounter)(nil)

