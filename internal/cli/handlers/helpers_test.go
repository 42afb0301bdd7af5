package handlers

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Matoxx01/JobCounter/internal/alarm"
	"github.com/Matoxx01/JobCounter/internal/cli"
	"github.com/Matoxx01/JobCounter/internal/config"
	"github.com/Matoxx01/JobCounter/internal/logging"
	"github.com/Matoxx01/JobCounter/internal/service"
	"github.com/Matoxx01/JobCounter/internal/storage"
)

// thursday is "now" in every handler test; its week starts 2024-01-15.
var thursday = time.Date(2024, time.January, 18, 12, 0, 0, 0, time.Local)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

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

func setupTestDeps(t *testing.T) (*cli.Deps, *bytes.Buffer, *bytes.Buffer, *int) {
	t.Helper()
	return setupSeededDeps(t, nil)
}

// setupSeededDeps writes doc as the data file (when non-nil) before the
// services are opened over the file backend.
func setupSeededDeps(t *testing.T, doc *storage.Document) (*cli.Deps, *bytes.Buffer, *bytes.Buffer, *int) {
	t.Helper()
	return setupClockDeps(t, doc, &testClock{t: thursday})
}

func setupClockDeps(t *testing.T, doc *storage.Document, clock *testClock) (*cli.Deps, *bytes.Buffer, *bytes.Buffer, *int) {
	t.Helper()
	tmpDir := t.TempDir()
	storagePath := filepath.Join(tmpDir, "data.json")
	configPath := filepath.Join(tmpDir, "config.toml")

	if doc != nil {
		data, err := json.Marshal(doc)
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(storagePath, data, 0644); err != nil {
			t.Fatal(err)
		}
	}

	return newTestDeps(t, storagePath, configPath, clock)
}

func setupBrokenConfigDeps(t *testing.T) (*cli.Deps, *bytes.Buffer, *bytes.Buffer, *int) {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	// A directory where the config file should be
	if err := os.MkdirAll(configPath, 0755); err != nil {
		t.Fatal(err)
	}

	return newTestDeps(t, filepath.Join(tmpDir, "data.json"), configPath, &testClock{t: thursday})
}

func newTestDeps(t *testing.T, storagePath, configPath string, clock *testClock) (*cli.Deps, *bytes.Buffer, *bytes.Buffer, *int) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Backend = config.BackendFile

	services, err := service.Open(storagePath, configPath, cfg,
		service.WithClock(clock.Now),
		service.WithLogger(logging.Discard()),
		service.WithNotifier(alarm.Func(func() {})),
	)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = services.Close() })

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	exitCode := 0

	deps := &cli.Deps{
		Stdout:   stdout,
		Stderr:   stderr,
		Stdin:    strings.NewReader(""),
		Exit:     func(code int) { exitCode = code },
		Services: services,
	}

	return deps, stdout, stderr, &exitCode
}

// registerDoc holds two archived weeks and a snapshot from the current week.
func registerDoc() *storage.Document {
	return &storage.Document{
		Snapshots: []storage.Snapshot{{
			ConfiguredStart: strPtr("10:00:00"),
			LastObserved:    strPtr("+04:00:00"),
			ObservedAt:      timePtr(thursday.Add(-time.Hour)),
		}},
		Register: []storage.RegisterEntry{
			{ID: 1, Week: "2024-01-01", Offset: "+01:30"},
			{ID: 2, Week: "2024-01-08", Offset: "-00:45"},
		},
	}
}
