package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Matoxx01/JobCounter/internal/cli"
	"github.com/Matoxx01/JobCounter/internal/service"
	"github.com/Matoxx01/JobCounter/internal/timeutil"
)

// RunHeadless starts the countdown and redraws it on one line every tick
// until ctx is cancelled, then stops and saves it.
func RunHeadless(ctx context.Context, deps *cli.Deps, interval time.Duration) {
	run, seed, err := deps.Services.Timer.Start()
	if err != nil {
		if errors.Is(err, service.ErrTimerAlreadyRunning) {
			cli.Fail(deps, "A countdown is already running", nil)
			return
		}
		cli.Fail(deps, "Failed to start the countdown", err)
		return
	}

	_, _ = fmt.Fprintln(deps.Stdout, "Countdown started. Press Ctrl+C to stop and save.")
	_, _ = fmt.Fprintf(deps.Stdout, "\r%s", timeutil.FormatSigned(seed))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			remaining, err := deps.Services.Timer.Stop()
			_, _ = fmt.Fprintln(deps.Stdout)
			if err != nil {
				cli.Fail(deps, "Failed to save the countdown", err)
				return
			}
			_, _ = fmt.Fprintf(deps.Stdout, "Stopped at %s\n", timeutil.FormatSigned(remaining))
			return
		case <-ticker.C:
			tick := deps.Services.Timer.Tick(run)
			if tick.Stale {
				continue
			}
			_, _ = fmt.Fprintf(deps.Stdout, "\r%s", timeutil.FormatSigned(tick.Remaining))
		}
	}
}
