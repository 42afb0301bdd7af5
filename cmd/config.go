package cmd

import (
	"github.com/Matoxx01/JobCounter/internal/cli"
	"github.com/Matoxx01/JobCounter/internal/cli/handlers"
	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display or manage configuration settings",
	Long: `Display the current effective configuration settings for jobcounter.

jobcounter works without a config file. All settings have defaults:
  - quota: 10:00:00
  - backend: mirror (JSON data file plus a SQLite copy)
  - alarm_repeat: 4, alarm_gap: 600ms
  - theme: dracula

Configuration file location:
  ~/.config/jobcounter/config.toml     Linux
  %APPDATA%\jobcounter\config.toml     Windows

Examples:
  jobcounter config            Show all current settings
  jobcounter config --init     Create a sample config file`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		initFlag, _ := cmd.Flags().GetBool("init")
		withServices(func(d *cli.Deps) {
			if initFlag {
				handlers.InitConfig(d)
				return
			}
			handlers.ShowConfig(d)
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().Bool("init", false, "Create a sample config file")
}
