package cmd

import (
	"github.com/Matoxx01/JobCounter/internal/cli/handlers"
	"github.com/spf13/cobra"
)

// configPath is the --config flag shared by every command.
var configPath string

var rootCmd = &cobra.Command{
	Use:   "jobcounter",
	Short: "A weekly working-time countdown",
	Long: `jobcounter counts your weekly working hours down from a quota.

Start the countdown when you begin working and stop it when you are done;
the remaining time is saved between sessions. When a new week begins, the
balance of the previous week is archived in the register and the countdown
starts over from the quota.

Usage:
  jobcounter                           Show the countdown and this week's status
  jobcounter tui                       Launch the interactive terminal UI
  jobcounter start                     Start the countdown in the terminal UI
  jobcounter start --headless          Count down on one line until Ctrl+C
  jobcounter quota [HH:MM:SS]          Show or set the weekly quota
  jobcounter stamp <±HH:MM:SS>         Record the remaining time by hand
  jobcounter register                  List archived weeks
  jobcounter register delete <id>      Delete an archived week
  jobcounter restore [n]               Restore from backup (default: most recent)

Durations: HH:MM:SS, MM:SS or a number of minutes (e.g., 10:00:00, 90:00, 600)`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withServices(handlers.ShowStatus)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: user config dir)")
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(version, commit, date string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		"jobcounter version {{.Version}}\n" +
			"commit: " + commit + "\n" +
			"built: " + date + "\n",
	)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
