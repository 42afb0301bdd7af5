package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Matoxx01/JobCounter/internal/cli"
	"github.com/Matoxx01/JobCounter/internal/storage"
)

// ResetDefaults asks for confirmation, unless yes is set, and resets data and quota
func ResetDefaults(deps *cli.Deps, yes bool) {
	if !yes {
		_, _ = fmt.Fprintln(deps.Stdout, "This replaces the snapshot and the register with the defaults.")
		if !cli.Confirm(deps, "Reset all data?") {
			_, _ = fmt.Fprintln(deps.Stdout, "Reset cancelled")
			return
		}
	}

	if err := deps.Services.ResetDefaults(); err != nil {
		cli.Fail(deps, "Failed to reset data", err)
		return
	}
	_, _ = fmt.Fprintln(deps.Stdout, "Data reset to defaults. The previous data was saved as backup 1.")
}

// RestoreBackup restores the data file from backup n ("" means 1)
func RestoreBackup(deps *cli.Deps, arg string) {
	n := 1
	if arg != "" {
		parsed, err := strconv.Atoi(arg)
		if err != nil {
			cli.Fail(deps, fmt.Sprintf("Invalid backup number '%s'", arg), nil, "Use a number from 1 to 3")
			return
		}
		n = parsed
	}

	if err := deps.Services.Store.Restore(n); err != nil {
		backups, _ := deps.Services.Store.ListBackups()
		hint := "No backups exist yet; they are created before deletions and resets"
		if len(backups) > 0 {
			hint = fmt.Sprintf("Available backups: %s", formatBackupNumbers(backups))
		}
		cli.Fail(deps, "Failed to restore backup", err, hint)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Restored backup %d\n", n)
}

// ListBackups prints the available backups
func ListBackups(deps *cli.Deps) {
	backups, err := deps.Services.Store.ListBackups()
	if err != nil {
		cli.Fail(deps, "Failed to list backups", err)
		return
	}
	if len(backups) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No backups available")
		return
	}
	for _, b := range backups {
		_, _ = fmt.Fprintf(deps.Stdout, "  %d  %s\n", b.Number, b.Path)
	}
}

func formatBackupNumbers(backups []storage.BackupInfo) string {
	nums := make([]string, len(backups))
	for i, b := range backups {
		nums[i] = strconv.Itoa(b.Number)
	}
	return strings.Join(nums, ", ")
}
