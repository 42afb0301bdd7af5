package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/Matoxx01/JobCounter/internal/cli"
	"github.com/Matoxx01/JobCounter/internal/service"
)

// Deps holds external dependencies for CLI commands, enabling testability.
type Deps struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Exit   func(code int)

	// OpenServices opens the services for the config file at configPath
	// (the default location when empty).
	OpenServices func(configPath string) (*service.Services, error)
}

// DefaultDeps returns the default production dependencies.
func DefaultDeps() *Deps {
	return &Deps{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Stdin:  os.Stdin,
		Exit:   os.Exit,
		OpenServices: func(configPath string) (*service.Services, error) {
			return service.NewServices(configPath)
		},
	}
}

// deps is the global dependencies instance used by commands.
// In production, this is DefaultDeps(). Tests can replace it.
var deps = DefaultDeps()

// SetDeps sets the global dependencies (for testing).
func SetDeps(d *Deps) {
	deps = d
}

// ResetDeps resets dependencies to defaults (for testing cleanup).
func ResetDeps() {
	deps = DefaultDeps()
}

// withServices opens the services, runs fn with handler dependencies and
// closes them again. Closing flushes a countdown that is still running.
func withServices(fn func(d *cli.Deps)) {
	services, err := deps.OpenServices(configPath)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to open the data files")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Check the data_dir setting shown by 'jobcounter config'")
		deps.Exit(1)
		return
	}
	defer func() {
		if err := services.Close(); err != nil {
			services.Logger().Warn("failed to close storage", "error", err)
		}
	}()

	fn(&cli.Deps{
		Stdout:   deps.Stdout,
		Stderr:   deps.Stderr,
		Stdin:    deps.Stdin,
		Exit:     deps.Exit,
		Services: services,
	})
}
