package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Matoxx01/JobCounter/internal/osutil"
)

// Helper to create a temporary config file
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}
	return tmpFile
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Quota != "10:00:00" {
		t.Errorf("DefaultConfig().Quota = %q, expected %q", cfg.Quota, "10:00:00")
	}
	if cfg.Backend != BackendMirror {
		t.Errorf("DefaultConfig().Backend = %q, expected %q", cfg.Backend, BackendMirror)
	}
	if cfg.AlarmRepeat != 4 {
		t.Errorf("DefaultConfig().AlarmRepeat = %d, expected 4", cfg.AlarmRepeat)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig() does not validate: %v", err)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	tests := []struct {
		name          string
		configContent string
		check         func(t *testing.T, cfg Config)
	}{
		{
			name: "all fields set",
			configContent: `quota = "40:00:00"
backend = "file"
data_dir = "/srv/jobcounter"
alarm_repeat = 2
alarm_gap = "1s"
theme = "nord"
log_level = "debug"`,
			check: func(t *testing.T, cfg Config) {
				want := Config{Quota: "40:00:00", Backend: "file", DataDir: "/srv/jobcounter", AlarmRepeat: 2, AlarmGap: "1s", Theme: "nord", LogLevel: "debug"}
				if cfg != want {
					t.Errorf("Load() = %+v, expected %+v", cfg, want)
				}
			},
		},
		{
			name:          "missing keys keep defaults",
			configContent: `backend = "file"`,
			check: func(t *testing.T, cfg Config) {
				if cfg.Quota != "10:00:00" || cfg.AlarmRepeat != 4 || cfg.Theme != "dracula" {
					t.Errorf("defaults not kept: %+v", cfg)
				}
			},
		},
		{
			name:          "quota in minutes is normalized",
			configContent: `quota = "90"`,
			check: func(t *testing.T, cfg Config) {
				if cfg.Quota != "01:30:00" {
					t.Errorf("Quota = %q, expected %q", cfg.Quota, "01:30:00")
				}
			},
		},
		{
			name:          "quota as MM:SS",
			configContent: `quota = "45:30"`,
			check: func(t *testing.T, cfg Config) {
				if cfg.Quota != "00:45:30" {
					t.Errorf("Quota = %q, expected %q", cfg.Quota, "00:45:30")
				}
			},
		},
		{
			name: "case and whitespace",
			configContent: `backend = "  MIRROR "
log_level = "Info"`,
			check: func(t *testing.T, cfg Config) {
				if cfg.Backend != "mirror" || cfg.LogLevel != "info" {
					t.Errorf("not normalized: %+v", cfg)
				}
			},
		},
		{
			name:          "empty file",
			configContent: ``,
			check: func(t *testing.T, cfg Config) {
				if cfg != DefaultConfig() {
					t.Errorf("Load() = %+v, expected defaults", cfg)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpFile := createTempConfigFile(t, tt.configContent)

			cfg, err := Load(tmpFile)
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does_not_exist.toml"))
	if err == nil {
		t.Error("Load() should return error for non-existent file")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	tests := []struct {
		name          string
		configContent string
	}{
		{"malformed TOML", `quota = "10:00:00`},
		{"invalid syntax", `this is not valid TOML at all`},
		{"missing quotes", `backend = mirror`},
		{"wrong type", `alarm_repeat = "four"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpFile := createTempConfigFile(t, tt.configContent)

			_, err := Load(tmpFile)
			if err == nil {
				t.Fatal("Load() should return error for invalid TOML")
			}
			if !strings.Contains(err.Error(), "failed to parse config file") {
				t.Errorf("Error message should mention parsing failure, got: %v", err)
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name           string
		configContent  string
		errorSubstring string
	}{
		{"negative quota", `quota = "-10:00:00"`, "invalid quota"},
		{"garbage quota", `quota = "ten hours"`, "invalid quota"},
		{"unknown backend", `backend = "postgres"`, "invalid backend"},
		{"zero repeats", `alarm_repeat = 0`, "invalid alarm_repeat"},
		{"bad gap", `alarm_gap = "soon"`, "invalid alarm_gap"},
		{"negative gap", `alarm_gap = "-1s"`, "invalid alarm_gap"},
		{"bad log level", `log_level = "loud"`, "invalid log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpFile := createTempConfigFile(t, tt.configContent)

			_, err := Load(tmpFile)
			if err == nil {
				t.Fatalf("Load() should fail for %s", tt.configContent)
			}
			if !strings.Contains(err.Error(), tt.errorSubstring) {
				t.Errorf("Error should contain %q, got: %v", tt.errorSubstring, err)
			}
		})
	}
}

func TestValidate_BackendSentinel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = "redis"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidBackend) {
		t.Errorf("Validate() = %v, expected ErrInvalidBackend", err)
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "does_not_exist.toml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() returned unexpected error for non-existent file: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("LoadOrDefault() = %+v, expected defaults", cfg)
	}
}

func TestLoadOrDefault_InvalidFile(t *testing.T) {
	tmpFile := createTempConfigFile(t, `backend = "nope"`)
	if _, err := LoadOrDefault(tmpFile); err == nil {
		t.Error("LoadOrDefault() should surface validation errors for an existing file")
	}
}

func TestGap(t *testing.T) {
	cfg := DefaultConfig()
	gap, err := cfg.Gap()
	if err != nil {
		t.Fatal(err)
	}
	if gap != 600*time.Millisecond {
		t.Errorf("Gap() = %v, expected 600ms", gap)
	}
}

func TestQuotaSeconds(t *testing.T) {
	tests := []struct {
		quota    string
		expected int64
	}{
		{"10:00:00", 36000},
		{"30:15", 1815},
		{"5", 300},
		{"bogus", 0},
	}
	for _, tt := range tests {
		t.Run(tt.quota, func(t *testing.T) {
			cfg := Config{Quota: tt.quota}
			if got := cfg.QuotaSeconds(); got != tt.expected {
				t.Errorf("QuotaSeconds() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	cfg := DefaultConfig()
	cfg.Quota = "37:30:00"
	cfg.Backend = BackendFile
	cfg.AlarmRepeat = 1

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after Save()")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() after Save() returned error: %v", err)
	}
	if loaded != cfg {
		t.Errorf("Load() = %+v, expected %+v", loaded, cfg)
	}
}

func TestSave_UnwritableDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", ConfigFile)
	if err := Save(path, DefaultConfig()); err == nil {
		t.Error("Save() into a missing directory should fail")
	}
}

func TestGenerateSampleConfig(t *testing.T) {
	sample := GenerateSampleConfig()
	for _, key := range []string{"quota", "backend", "data_dir", "alarm_repeat", "alarm_gap", "theme", "log_level"} {
		if !strings.Contains(sample, key+" =") {
			t.Errorf("sample config is missing %q", key)
		}
	}

	tmpFile := createTempConfigFile(t, sample)
	cfg, err := Load(tmpFile)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("sample config = %+v, expected defaults", cfg)
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	osutil.SetProvider(&mockProvider{configDir: tmpDir})
	defer osutil.ResetProvider()

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() returned error: %v", err)
	}
	expected := filepath.Join(tmpDir, AppName, ConfigFile)
	if path != expected {
		t.Errorf("GetConfigPath() = %q, expected %q", path, expected)
	}
	if info, err := os.Stat(filepath.Dir(path)); err != nil || !info.IsDir() {
		t.Error("GetConfigPath() should create the config directory")
	}
}

func TestGetConfigPath_Errors(t *testing.T) {
	tests := []struct {
		name     string
		provider *mockProvider
	}{
		{"config dir unavailable", &mockProvider{dirErr: errors.New("no home")}},
		{"mkdir fails", &mockProvider{configDir: "/nowhere", mkdirErr: errors.New("read-only")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			osutil.SetProvider(tt.provider)
			defer osutil.ResetProvider()

			if _, err := GetConfigPath(); err == nil {
				t.Error("GetConfigPath() should return error")
			}
		})
	}
}

type mockProvider struct {
	configDir string
	dirErr    error
	mkdirErr  error
}

func (m *mockProvider) UserConfigDir() (string, error) {
	return m.configDir, m.dirErr
}

func (m *mockProvider) MkdirAll(path string, perm os.FileMode) error {
	if m.mkdirErr != nil {
		return m.mkdirErr
	}
	return os.MkdirAll(path, perm)
}
