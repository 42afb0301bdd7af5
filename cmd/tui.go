package cmd

import (
	"fmt"

	"github.com/Matoxx01/JobCounter/internal/cli"
	"github.com/Matoxx01/JobCounter/internal/tui"
	"github.com/spf13/cobra"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	Long: `Launch the interactive Terminal User Interface for jobcounter.

Views available:
  - Counter: Start and stop the weekly countdown
  - Register: Browse and delete archived weeks
  - Settings: Edit the weekly quota, pick a theme, reset data

Keyboard shortcuts:
  - Tab/Shift+Tab: Navigate between views
  - 1-3: Jump to specific view
  - j/k or arrows: Navigate within lists
  - ?: Show help
  - q: Save and quit`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withServices(func(d *cli.Deps) { runTUI(d, false) })
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// runTUI runs the TUI, optionally with the countdown already started.
func runTUI(d *cli.Deps, start bool) {
	if start {
		if _, _, err := d.Services.Timer.Start(); err != nil {
			cli.Fail(d, "Failed to start the countdown", err)
			return
		}
	}

	if err := tuiRunner(d); err != nil {
		_, _ = fmt.Fprintf(d.Stderr, "Error running TUI: %v\n", err)
		d.Exit(1)
	}
}

// tuiRunner is replaced in tests, where there is no terminal.
var tuiRunner = func(d *cli.Deps) error {
	return tui.Run(d.Services)
}
