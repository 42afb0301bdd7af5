package handlers

import (
	"fmt"

	"github.com/Matoxx01/JobCounter/internal/cli"
	"github.com/Matoxx01/JobCounter/internal/timeutil"
)

// ShowStatus prints the countdown, the snapshot behind it and the register size
func ShowStatus(deps *cli.Deps) {
	status, err := deps.Services.Status()
	if err != nil {
		cli.Fail(deps, "Failed to read data", err, "Run 'jobcounter restore' if the data file is damaged")
		return
	}

	state := "idle"
	if status.Running {
		state = "running"
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Week of %s\n", status.Week.Format("Mon Jan 2, 2006"))
	_, _ = fmt.Fprintf(deps.Stdout, "Countdown: %s (%s)\n", timeutil.FormatSigned(status.Remaining), state)
	if !status.ObservedThisWeek {
		_, _ = fmt.Fprintln(deps.Stdout, "No time recorded this week yet.")
	}
	_, _ = fmt.Fprintln(deps.Stdout)
	_, _ = fmt.Fprintln(deps.Stdout, "Snapshot:")
	_, _ = fmt.Fprint(deps.Stdout, cli.FormatSnapshot(status.Snapshot))
	_, _ = fmt.Fprintln(deps.Stdout)
	_, _ = fmt.Fprintf(deps.Stdout, "Register: %d archived %s\n", status.RegisterSize, cli.Pluralize("week", status.RegisterSize))
	_, _ = fmt.Fprintf(deps.Stdout, "Storage:  %s (%s)\n", status.DataPath, status.Backend)
}
