package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Matoxx01/JobCounter/internal/stats"
	"github.com/Matoxx01/JobCounter/internal/storage"
	"github.com/Matoxx01/JobCounter/internal/timeutil"
	"github.com/Matoxx01/JobCounter/internal/weekly"
)

// Common errors for the store service
var (
	ErrEmptyDuration = errors.New("duration cannot be empty")
	ErrInvalidID     = errors.New("invalid register id")
)

// StoreService exposes the snapshot and register operations. Every call is
// routed through the preferred backend; delete, reset and restore touch both.
type StoreService struct {
	backend    *storage.Preferred
	file       *storage.FileStore
	mirror     *storage.MirrorStore
	reconciler *weekly.Reconciler
	now        func() time.Time
	logger     *slog.Logger
}

// NewStoreService wires a store over file and an optional mirror.
func NewStoreService(file *storage.FileStore, mirror *storage.MirrorStore, now func() time.Time, logger *slog.Logger) *StoreService {
	var m storage.Backend
	if mirror != nil {
		m = mirror
	}
	backend := storage.Prefer(m, file)
	return &StoreService{
		backend:    backend,
		file:       file,
		mirror:     mirror,
		reconciler: weekly.NewReconciler(backend, weekly.WithClock(now), weekly.WithLogger(logger)),
		now:        now,
		logger:     logger,
	}
}

// Backend returns the name of the backend serving calls.
func (s *StoreService) Backend() string {
	return s.backend.ActiveName()
}

// DataPath returns the authoritative data file.
func (s *StoreService) DataPath() string {
	return s.file.Path()
}

// GetLast returns the current snapshot, or nil when none exists.
func (s *StoreService) GetLast() (*storage.Snapshot, error) {
	return s.backend.Snapshot()
}

// SetStart stores a new configured start and clears the observation.
// The value goes through the signed codec, so "5" is five seconds; malformed
// input is coerced and logged.
func (s *StoreService) SetStart(duration string) error {
	duration = strings.TrimSpace(duration)
	if duration == "" {
		return ErrEmptyDuration
	}
	if !timeutil.WellFormed(duration) {
		s.logger.Warn("malformed duration coerced", "input", duration, "op", "set start")
	}
	return s.backend.SetConfiguredStart(timeutil.NormalizeSigned(duration))
}

// storeQuota writes an already normalized quota as the configured start.
func (s *StoreService) storeQuota(quota string) error {
	return s.backend.SetConfiguredStart(quota)
}

// SetTimeSlap records an observed countdown value. Blank input clears the
// observation; malformed components count as zero.
func (s *StoreService) SetTimeSlap(duration string) error {
	if strings.TrimSpace(duration) != "" && !timeutil.WellFormed(duration) {
		s.logger.Warn("malformed duration coerced", "input", duration, "op", "set time slap")
	}
	return s.backend.SetLastObserved(timeutil.NormalizeSigned(duration))
}

// GetRegister returns the register in insertion order.
func (s *StoreService) GetRegister() ([]storage.RegisterEntry, error) {
	return s.backend.Entries()
}

// GetRegisterSummary returns the register together with its statistics.
func (s *StoreService) GetRegisterSummary() (*RegisterResult, error) {
	entries, err := s.backend.Entries()
	if err != nil {
		return nil, err
	}
	return &RegisterResult{
		Entries:    entries,
		Statistics: stats.CalculateStatistics(entries, time.Time{}, time.Time{}),
		Years:      stats.CalculateYearBreakdown(entries),
	}, nil
}

// DeleteRegister removes the entry with the given id. Unknown ids report false.
// A removal is preceded by a backup of the current data.
func (s *StoreService) DeleteRegister(id int64) (bool, error) {
	if err := s.syncFile(); err != nil {
		return false, err
	}
	removed, err := s.file.DeleteEntry(id)
	if err != nil {
		return false, fmt.Errorf("failed to delete register entry %d: %w", id, err)
	}
	if s.mirror != nil {
		if removed, err = s.mirror.DeleteEntry(id); err != nil {
			return false, fmt.Errorf("failed to delete register entry %d from mirror: %w", id, err)
		}
	}
	if removed {
		s.logger.Info("deleted register entry", "id", id)
	}
	return removed, nil
}

// syncFile copies the mirror's content into the data file, so that backups
// taken from the file hold what the user actually sees.
func (s *StoreService) syncFile() error {
	if s.mirror == nil {
		return nil
	}
	snapshots, err := s.mirror.Snapshots()
	if err != nil {
		return fmt.Errorf("failed to read mirror: %w", err)
	}
	entries, err := s.mirror.Entries()
	if err != nil {
		return fmt.Errorf("failed to read mirror: %w", err)
	}
	if err := s.file.Adopt(storage.Document{Snapshots: snapshots, Register: entries}); err != nil {
		return fmt.Errorf("failed to sync data file: %w", err)
	}
	return nil
}

// ProcessWeekly archives a finished week and returns the entries created.
func (s *StoreService) ProcessWeekly() ([]storage.RegisterEntry, error) {
	return s.reconciler.Run()
}

// ListAllSnapshots returns every stored snapshot.
func (s *StoreService) ListAllSnapshots() ([]storage.Snapshot, error) {
	return s.backend.Snapshots()
}

// ObservedThisWeek reports whether the snapshot holds a countdown value from
// the current week.
func (s *StoreService) ObservedThisWeek() (bool, error) {
	snap, err := s.backend.Snapshot()
	if err != nil {
		return false, err
	}
	return weekly.ObservedThisWeek(snap, s.now()), nil
}

// ResetDefaults replaces the data on both backends with the default
// document. The current data is backed up first. The file is written before
// the mirror; a failure there leaves the mirror untouched.
func (s *StoreService) ResetDefaults() error {
	if err := s.syncFile(); err != nil {
		return err
	}
	doc := storage.DefaultDocument()
	if err := s.file.Replace(doc); err != nil {
		return fmt.Errorf("failed to reset data file: %w", err)
	}
	if s.mirror != nil {
		if err := s.mirror.Replace(doc); err != nil {
			return fmt.Errorf("failed to reset mirror: %w", err)
		}
	}
	s.logger.Info("reset data to defaults")
	return nil
}

// ListBackups returns the available backups of the data file.
func (s *StoreService) ListBackups() ([]storage.BackupInfo, error) {
	return storage.ListBackupsForStorage(s.file.Path())
}

// Restore replaces the data file with backup n, reloads it and reseeds the
// mirror from it. The data being replaced becomes backup 1.
func (s *StoreService) Restore(n int) error {
	if err := s.syncFile(); err != nil {
		return err
	}
	if err := storage.RestoreBackupForStorage(s.file.Path(), n); err != nil {
		return err
	}
	if err := s.file.Reload(); err != nil {
		return fmt.Errorf("failed to reload data file: %w", err)
	}
	if s.mirror != nil {
		if err := s.mirror.Reseed(s.file); err != nil {
			return fmt.Errorf("failed to reseed mirror: %w", err)
		}
	}
	s.logger.Info("restored backup", "backup", n)
	return nil
}

// Close closes both backends.
func (s *StoreService) Close() error {
	return s.backend.Close()
}

// ParseID parses a user supplied register id.
func ParseID(input string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w '%s': id must be a positive number", ErrInvalidID, input)
	}
	return id, nil
}
