package handlers

import (
	"fmt"

	"github.com/Matoxx01/JobCounter/internal/cli"
)

// ShowQuota prints the configured start and the quota from the config
func ShowQuota(deps *cli.Deps) {
	snap, err := deps.Services.Store.GetLast()
	if err != nil {
		cli.Fail(deps, "Failed to read data", err)
		return
	}

	start := deps.Services.Config.Get().Quota
	if snap != nil && snap.ConfiguredStart != nil {
		start = *snap.ConfiguredStart
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Weekly quota: %s\n", start)
}

// SetQuota validates and saves a new quota
func SetQuota(deps *cli.Deps, input string) {
	quota, err := deps.Services.SaveQuota(input)
	if err != nil {
		cli.Fail(deps, "Failed to save quota", err, "Use HH:MM:SS, MM:SS or minutes, e.g. 'jobcounter quota 40:00:00'")
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Weekly quota set to %s\n", quota)
}

// Stamp records an observed countdown value
func Stamp(deps *cli.Deps, input string) {
	if err := deps.Services.Store.SetTimeSlap(input); err != nil {
		cli.Fail(deps, "Failed to record the countdown", err)
		return
	}
	snap, err := deps.Services.Store.GetLast()
	if err != nil {
		cli.Fail(deps, "Failed to read data", err)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Recorded %s\n", cli.FormatOptional(snap.LastObserved))
	if err := deps.Services.Timer.Refresh(); err != nil {
		deps.Services.Logger().Warn("could not refresh countdown", "error", err)
	}
}
