package handlers

import (
	"fmt"
	"strings"

	"github.com/Matoxx01/JobCounter/internal/cli"
)

// ShowConfig displays the current configuration
func ShowConfig(deps *cli.Deps) {
	cfg := deps.Services.Config.Get()
	path := deps.Services.Config.GetPath()

	_, _ = fmt.Fprintln(deps.Stdout, "Configuration:")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
	_, _ = fmt.Fprintf(deps.Stdout, "Config file: %s\n", path)
	if deps.Services.Config.Exists() {
		_, _ = fmt.Fprintln(deps.Stdout, "Status: File exists")
	} else {
		_, _ = fmt.Fprintln(deps.Stdout, "Status: Using defaults (no config file)")
	}
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 50))
	_, _ = fmt.Fprintf(deps.Stdout, "quota:        %s\n", cfg.Quota)
	_, _ = fmt.Fprintf(deps.Stdout, "backend:      %s (active: %s)\n", cfg.Backend, deps.Services.Store.Backend())
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "(default)"
	}
	_, _ = fmt.Fprintf(deps.Stdout, "data_dir:     %s\n", dataDir)
	_, _ = fmt.Fprintf(deps.Stdout, "data file:    %s\n", deps.Services.Store.DataPath())
	_, _ = fmt.Fprintf(deps.Stdout, "alarm_repeat: %d\n", cfg.AlarmRepeat)
	_, _ = fmt.Fprintf(deps.Stdout, "alarm_gap:    %s\n", cfg.AlarmGap)
	_, _ = fmt.Fprintf(deps.Stdout, "theme:        %s\n", cfg.Theme)
	_, _ = fmt.Fprintf(deps.Stdout, "log_level:    %s\n", cfg.LogLevel)
}

// InitConfig creates a sample config file
func InitConfig(deps *cli.Deps) {
	err := deps.Services.Config.Init()
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		deps.Exit(1)
		return
	}

	path := deps.Services.Config.GetPath()
	_, _ = fmt.Fprintf(deps.Stdout, "Created config file: %s\n", path)
	_, _ = fmt.Fprintln(deps.Stdout, "Edit this file to customize your settings.")
}
