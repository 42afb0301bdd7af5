package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Matoxx01/JobCounter/internal/logging"
	"github.com/Matoxx01/JobCounter/internal/osutil"
	"github.com/Matoxx01/JobCounter/internal/timeutil"
)

const (
	// AppName is the application name used for config directory
	AppName = osutil.AppName
	// ConfigFile is the name of the TOML configuration file
	ConfigFile = "config.toml"

	BackendMirror = "mirror"
	BackendFile   = "file"
)

// ErrInvalidBackend is returned by Validate for an unknown backend name.
var ErrInvalidBackend = errors.New("invalid backend")

// Config represents the application configuration
type Config struct {
	// Quota is the weekly time budget as HH:MM:SS. The timer falls back to it
	// when the data file has no configured start.
	Quota string `toml:"quota"`
	// Backend selects storage: "mirror" serves reads and writes from the
	// SQLite mirror, "file" uses the JSON data file only.
	Backend string `toml:"backend"`
	// DataDir overrides where data.json and mirror.db live.
	DataDir string `toml:"data_dir"`
	// AlarmRepeat is how many times the bell rings when time is up.
	AlarmRepeat int `toml:"alarm_repeat"`
	// AlarmGap is the pause between rings, as a Go duration ("600ms").
	AlarmGap string `toml:"alarm_gap"`
	// Theme is a bubbletint theme id.
	Theme string `toml:"theme"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Quota:       "10:00:00",
		Backend:     BackendMirror,
		DataDir:     "",
		AlarmRepeat: 4,
		AlarmGap:    "600ms",
		Theme:       "dracula",
		LogLevel:    "warn",
	}
}

// GetConfigPath returns the path to the config file in the user config
// directory, creating the directory if it doesn't exist.
func GetConfigPath() (string, error) {
	appDir, err := osutil.AppDir("")
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, ConfigFile), nil
}

// Load reads and validates the config file at path. Keys missing from the
// file keep their default values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return Config{}, err
		}
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields DefaultConfig.
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return Load(path)
}

// Normalize trims values, lowercases enum-like keys, fills blanks with
// defaults and rewrites the quota as HH:MM:SS when it parses.
func (c *Config) Normalize() {
	def := DefaultConfig()

	c.Quota = strings.TrimSpace(c.Quota)
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.DataDir = strings.TrimSpace(c.DataDir)
	c.AlarmGap = strings.TrimSpace(c.AlarmGap)
	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))

	if c.Quota == "" {
		c.Quota = def.Quota
	}
	if seconds, err := timeutil.ParseQuota(c.Quota); err == nil {
		c.Quota = timeutil.FormatQuota(seconds)
	}
	if c.Backend == "" {
		c.Backend = def.Backend
	}
	if c.AlarmGap == "" {
		c.AlarmGap = def.AlarmGap
	}
	if c.Theme == "" {
		c.Theme = def.Theme
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

// Validate checks every field and returns the first problem found.
func (c Config) Validate() error {
	if _, err := timeutil.ParseQuota(c.Quota); err != nil {
		return fmt.Errorf("invalid quota: %w", err)
	}
	if c.Backend != BackendMirror && c.Backend != BackendFile {
		return fmt.Errorf("%w %q (valid: %s, %s)", ErrInvalidBackend, c.Backend, BackendMirror, BackendFile)
	}
	if c.AlarmRepeat < 1 {
		return fmt.Errorf("invalid alarm_repeat %d: must be at least 1", c.AlarmRepeat)
	}
	if _, err := c.Gap(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}

// Gap parses AlarmGap.
func (c Config) Gap() (time.Duration, error) {
	d, err := time.ParseDuration(c.AlarmGap)
	if err != nil {
		return 0, fmt.Errorf("invalid alarm_gap %q: %w", c.AlarmGap, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid alarm_gap %q: must not be negative", c.AlarmGap)
	}
	return d, nil
}

// QuotaSeconds returns the quota in seconds, or 0 if it does not parse.
func (c Config) QuotaSeconds() int64 {
	seconds, err := timeutil.ParseQuota(c.Quota)
	if err != nil {
		return 0
	}
	return seconds
}

// Save writes cfg to path as TOML using a temp file and rename.
func Save(path string, cfg Config) error {
	var buf bytes.Buffer
	buf.WriteString("# jobcounter configuration file\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, buf.Bytes(), 0644); err != nil {
		return err
	}
	return os.Rename(tmpFile, path)
}

// GenerateSampleConfig returns a commented config file holding the defaults.
func GenerateSampleConfig() string {
	def := DefaultConfig()
	return fmt.Sprintf(`# jobcounter configuration file

# Weekly quota the counter starts from (HH:MM:SS, MM:SS or minutes).
# Used when the data file has no configured start yet.
quota = %q

# Storage backend: "mirror" (SQLite mirror next to data.json) or "file".
backend = %q

# Directory holding data.json and mirror.db. Empty means the config directory.
data_dir = %q

# How many times the bell rings when the countdown crosses zero,
# and the pause between rings.
alarm_repeat = %d
alarm_gap = %q

# Color theme for the interactive UI (any bubbletint id, e.g. "dracula", "nord").
theme = %q

# Log level for diagnostics on stderr: debug, info, warn, error.
log_level = %q
`, def.Quota, def.Backend, def.DataDir, def.AlarmRepeat, def.AlarmGap, def.Theme, def.LogLevel)
}
