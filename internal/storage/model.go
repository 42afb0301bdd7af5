// Package storage persists the current-week snapshot and the register of
// archived weeks. Two interchangeable backends implement Backend: FileStore,
// the authoritative JSON document, and MirrorStore, a SQLite mirror seeded
// from it.
package storage

import (
	"errors"
	"time"
)

// DefaultConfiguredStart is the quota written by a reset to defaults.
const DefaultConfiguredStart = "10:00:00"

var (
	// ErrCorruptDocument is returned when the data file exists but is not valid JSON.
	ErrCorruptDocument = errors.New("data file is corrupt")
	// ErrClosed is returned by operations on a closed backend.
	ErrClosed = errors.New("storage is closed")
)

// Snapshot is the working record of the week in progress.
type Snapshot struct {
	// ConfiguredStart is the quota configured for the week, e.g. "10:00:00".
	ConfiguredStart *string `json:"time_start"`
	// LastObserved is the countdown value saved on the last stop or exit.
	LastObserved *string `json:"time_stamp"`
	// ObservedAt is when the snapshot was last written.
	ObservedAt *time.Time `json:"saved_at"`
}

// RegisterEntry is an archived week. Entries are never modified once written.
type RegisterEntry struct {
	ID     int64  `json:"id"`
	Week   string `json:"week"` // Monday of the archived week, YYYY-MM-DD
	Offset string `json:"hour"` // ±HH:MM
}

// Document is the on-disk representation of the authoritative store.
type Document struct {
	Snapshots []Snapshot      `json:"time_slaps"`
	Register  []RegisterEntry `json:"register"`
}

// Backend is the storage interface shared by every implementation.
// All mutating calls persist before returning; an error means nothing changed.
type Backend interface {
	// Snapshot returns the current snapshot, or nil if none exists.
	Snapshot() (*Snapshot, error)
	// Snapshots returns every stored snapshot row, current one first.
	Snapshots() ([]Snapshot, error)
	// ReplaceSnapshot overwrites the current snapshot.
	ReplaceSnapshot(s Snapshot) error
	// SetConfiguredStart sets the quota, clears LastObserved and stamps ObservedAt.
	SetConfiguredStart(duration string) error
	// SetLastObserved records a countdown value, keeping ConfiguredStart.
	SetLastObserved(duration string) error
	// Entries returns a copy of the register.
	Entries() ([]RegisterEntry, error)
	// AppendEntry adds an entry for week unless one already exists.
	// created reports whether a row was added.
	AppendEntry(week, offset string) (entry RegisterEntry, created bool, err error)
	// Archive appends an entry for week and replaces the current snapshot
	// with reset in one write. When week already exists neither changes.
	Archive(week, offset string, reset Snapshot) (entry RegisterEntry, created bool, err error)
	// DeleteEntry removes the entry with id and reports whether it existed.
	DeleteEntry(id int64) (bool, error)
	// Replace swaps the whole content for doc.
	Replace(doc Document) error
	Close() error
}

// DefaultDocument is the content written by a reset to defaults.
func DefaultDocument() Document {
	start := DefaultConfiguredStart
	return Document{
		Snapshots: []Snapshot{{ConfiguredStart: &start}},
		Register:  []RegisterEntry{},
	}
}

// nextID returns max(ids, 0) + 1.
func nextID(entries []RegisterEntry) int64 {
	var maxID int64
	for _, e := range entries {
		if e.ID > maxID {
			maxID = e.ID
		}
	}
	return maxID + 1
}

func hasWeek(entries []RegisterEntry, week string) bool {
	for _, e := range entries {
		if e.Week == week {
			return true
		}
	}
	return false
}

// optional maps "" to nil, matching how absent durations are stored.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneSnapshot(s Snapshot) Snapshot {
	return Snapshot{
		ConfiguredStart: cloneString(s.ConfiguredStart),
		LastObserved:    cloneString(s.LastObserved),
		ObservedAt:      cloneTime(s.ObservedAt),
	}
}

func cloneDocument(d Document) Document {
	out := Document{
		Snapshots: make([]Snapshot, len(d.Snapshots)),
		Register:  make([]RegisterEntry, len(d.Register)),
	}
	for i, s := range d.Snapshots {
		out.Snapshots[i] = cloneSnapshot(s)
	}
	copy(out.Register, d.Register)
	return out
}
