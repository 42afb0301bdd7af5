package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Matoxx01/JobCounter/internal/cli"
	"github.com/Matoxx01/JobCounter/internal/cli/handlers"
	"github.com/Matoxx01/JobCounter/internal/tui/views"
	"github.com/spf13/cobra"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the weekly countdown",
	Long: `Start counting down from the remaining time of this week.

The countdown resumes from the last saved value, or from the quota when
nothing was recorded this week. It loses one second per second and keeps
going below zero; the terminal bell rings once when it crosses zero.

By default the countdown runs in the terminal UI. With --headless it is
drawn on a single line until Ctrl+C, which stops it and saves the value.

Examples:
  jobcounter start
  jobcounter start --headless`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		headless, _ := cmd.Flags().GetBool("headless")
		withServices(func(d *cli.Deps) { startCountdown(d, headless) })
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
	startCmd.Flags().Bool("headless", false, "Run without the terminal UI until interrupted")
}

func startCountdown(d *cli.Deps, headless bool) {
	if !headless {
		runTUI(d, true)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	handlers.RunHeadless(ctx, d, views.TickInterval)
}
