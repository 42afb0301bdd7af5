// Package weekly closes stale snapshots into the register.
//
// A snapshot belongs to the week of its ObservedAt. Once that week is over,
// exactly one register entry is written for it (never for the weeks in
// between) and the snapshot is reset for the current week.
package weekly

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Matoxx01/JobCounter/internal/storage"
	"github.com/Matoxx01/JobCounter/internal/timeutil"
)

// Decision is the outcome of Plan.
type Decision struct {
	// Stale is true when the snapshot's week ended before now.
	Stale bool
	// Create is true when an entry must be appended for Week.
	Create bool
	Week   string
	Offset string
}

// Plan decides what reconciliation has to do. It performs no I/O.
func Plan(snap *storage.Snapshot, entries []storage.RegisterEntry, now time.Time) Decision {
	if snap == nil || snap.ObservedAt == nil {
		return Decision{}
	}

	snapshotWeek := timeutil.MondayOf(*snap.ObservedAt)
	currentWeek := timeutil.MondayOf(now)
	if !snapshotWeek.Before(currentWeek) {
		return Decision{}
	}

	d := Decision{Stale: true, Week: snapshotWeek.Format(timeutil.WeekKeyLayout)}
	for _, e := range entries {
		if e.Week == d.Week {
			return d
		}
	}

	d.Create = true
	d.Offset = timeutil.FormatShort(ArchivedSeconds(snap))
	return d
}

// ArchivedSeconds is the value a snapshot contributes to the register:
// LastObserved, else ConfiguredStart, else zero.
func ArchivedSeconds(snap *storage.Snapshot) int64 {
	if snap.LastObserved != nil {
		if seconds, ok := timeutil.ParseSigned(*snap.LastObserved); ok {
			return seconds
		}
	}
	if snap.ConfiguredStart != nil {
		if seconds, ok := timeutil.ParseSigned(*snap.ConfiguredStart); ok {
			return seconds
		}
	}
	return 0
}

// ObservedThisWeek reports whether snap holds a countdown value recorded
// during now's week.
func ObservedThisWeek(snap *storage.Snapshot, now time.Time) bool {
	if snap == nil || snap.ObservedAt == nil || snap.LastObserved == nil {
		return false
	}
	return timeutil.SameWeek(*snap.ObservedAt, now)
}

// Reconciler runs Plan against a backend. Runs are serialized.
type Reconciler struct {
	mu      sync.Mutex
	backend storage.Backend
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) { r.logger = logger }
}

// NewReconciler creates a Reconciler over backend.
func NewReconciler(backend storage.Backend, opts ...Option) *Reconciler {
	r := &Reconciler{
		backend: backend,
		now:     time.Now,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run archives the snapshot's week if it is over and returns the entries it
// created. Calling Run again without the week changing returns nothing.
func (r *Reconciler) Run() ([]storage.RegisterEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()

	snap, err := r.backend.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	entries, err := r.backend.Entries()
	if err != nil {
		return nil, fmt.Errorf("read register: %w", err)
	}

	d := Plan(snap, entries, now)
	if !d.Create {
		if d.Stale {
			r.logger.Debug("week already archived", "week", d.Week)
		}
		return []storage.RegisterEntry{}, nil
	}

	reset := storage.Snapshot{
		ConfiguredStart: snap.ConfiguredStart,
		ObservedAt:      &now,
	}
	entry, created, err := r.backend.Archive(d.Week, d.Offset, reset)
	if err != nil {
		return nil, fmt.Errorf("archive week %s: %w", d.Week, err)
	}
	if !created {
		return []storage.RegisterEntry{}, nil
	}

	r.logger.Info("archived week", "week", entry.Week, "offset", entry.Offset, "id", entry.ID)
	return []storage.RegisterEntry{entry}, nil
}
