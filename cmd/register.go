package cmd

import (
	"github.com/Matoxx01/JobCounter/internal/cli"
	"github.com/Matoxx01/JobCounter/internal/cli/handlers"
	"github.com/spf13/cobra"
)

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "List archived weeks",
	Long: `List the weekly balances archived in the register.

A finished week is archived first. Each row shows the id, the Monday of the
week and the time left (+) or worked beyond the quota (-).

Examples:
  jobcounter register
  jobcounter register --markdown
  jobcounter register --markdown --style dark`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		markdown, _ := cmd.Flags().GetBool("markdown")
		style, _ := cmd.Flags().GetString("style")
		withServices(func(d *cli.Deps) { handlers.ShowRegister(d, markdown, style) })
	},
}

// registerDeleteCmd represents the register delete command
var registerDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an archived week",
	Long: `Delete the register entry with the given id, after confirmation.

Ids are listed by 'jobcounter register'. The data file is backed up first.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		yes, _ := cmd.Flags().GetBool("yes")
		withServices(func(d *cli.Deps) { handlers.DeleteRegister(d, args[0], yes) })
	},
}

// processCmd represents the process-weekly command
var processCmd = &cobra.Command{
	Use:     "process-weekly",
	Aliases: []string{"process"},
	Short:   "Archive a finished week",
	Long: `Archive the balance of a finished week in the register.

This runs on every start and when the register is opened; running it again
in the same week does nothing.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withServices(handlers.ProcessWeekly)
	},
}

// snapshotsCmd represents the snapshots command
var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List stored snapshots",
	Long:  `List every stored snapshot: configured start, last observed value and when it was observed.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withServices(handlers.ListSnapshots)
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(snapshotsCmd)
	registerCmd.AddCommand(registerDeleteCmd)

	registerCmd.Flags().Bool("markdown", false, "Render the register as formatted markdown")
	registerCmd.Flags().String("style", "", "Markdown style: dark, light, notty, ... (default: detect)")
	registerDeleteCmd.Flags().BoolP("yes", "y", false, "Delete without asking")
}
