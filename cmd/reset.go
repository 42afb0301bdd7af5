package cmd

import (
	"github.com/Matoxx01/JobCounter/internal/cli"
	"github.com/Matoxx01/JobCounter/internal/cli/handlers"
	"github.com/spf13/cobra"
)

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset all data to defaults",
	Long: `Replace the snapshot and the register with the defaults.

The previous data is kept as backup 1 and can be brought back with
'jobcounter restore'.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		yes, _ := cmd.Flags().GetBool("yes")
		withServices(func(d *cli.Deps) { handlers.ResetDefaults(d, yes) })
	},
}

// restoreCmd represents the restore command
var restoreCmd = &cobra.Command{
	Use:   "restore [n]",
	Short: "Restore from backup",
	Long: `Restore the data file from a backup.

Backups are made before every delete and reset; up to 3 are kept, 1 being
the most recent.

Examples:
  jobcounter restore           Restore the most recent backup
  jobcounter restore 2         Restore backup 2
  jobcounter restore --list    List the available backups`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		list, _ := cmd.Flags().GetBool("list")
		withServices(func(d *cli.Deps) {
			if list {
				handlers.ListBackups(d)
				return
			}
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			handlers.RestoreBackup(d, arg)
		})
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(restoreCmd)

	resetCmd.Flags().BoolP("yes", "y", false, "Reset without asking")
	restoreCmd.Flags().Bool("list", false, "List the available backups")
}
