// Package service provides the business logic layer for jobcounter.
// It wraps storage, reconciliation, the countdown and configuration behind
// one API shared by the CLI and the TUI.
package service

import (
	"time"

	"github.com/Matoxx01/JobCounter/internal/stats"
	"github.com/Matoxx01/JobCounter/internal/storage"
)

// RegisterResult contains the register and its statistics
type RegisterResult struct {
	Entries    []storage.RegisterEntry
	Statistics stats.Statistics
	Years      []stats.YearBreakdown
}

// Status describes the state shown by the status command
type Status struct {
	Snapshot         *storage.Snapshot
	Remaining        int64
	Running          bool
	ObservedThisWeek bool
	Week             time.Time
	RegisterSize     int
	Backend          string
	DataPath         string
}
