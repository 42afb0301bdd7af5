package cmd

import (
	"github.com/Matoxx01/JobCounter/internal/cli"
	"github.com/Matoxx01/JobCounter/internal/cli/handlers"
	"github.com/spf13/cobra"
)

// quotaCmd represents the quota command
var quotaCmd = &cobra.Command{
	Use:   "quota [HH:MM:SS]",
	Short: "Show or set the weekly quota",
	Long: `Show the weekly quota, or set it when a value is given.

Setting the quota restarts this week's countdown from the new value.

Accepted formats:
  HH:MM:SS    e.g., 10:00:00
  MM:SS       e.g., 90:00 (ninety minutes)
  minutes     e.g., 600

Examples:
  jobcounter quota
  jobcounter quota 37:30:00`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withServices(func(d *cli.Deps) {
			if len(args) == 0 {
				handlers.ShowQuota(d)
				return
			}
			handlers.SetQuota(d, args[0])
		})
	},
}

// stampCmd represents the stamp command
var stampCmd = &cobra.Command{
	Use:   "stamp <±HH:MM:SS>",
	Short: "Record the remaining time by hand",
	Long: `Record the remaining time of this week without running the countdown.

A leading minus records overtime. Missing or malformed parts count as zero.

Examples:
  jobcounter stamp 04:30:00
  jobcounter stamp -- -00:15:00`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withServices(func(d *cli.Deps) { handlers.Stamp(d, args[0]) })
	},
}

func init() {
	rootCmd.AddCommand(quotaCmd)
	rootCmd.AddCommand(stampCmd)
}
