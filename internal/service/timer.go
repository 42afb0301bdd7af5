package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Matoxx01/JobCounter/internal/alarm"
	"github.com/Matoxx01/JobCounter/internal/timer"
	"github.com/Matoxx01/JobCounter/internal/timeutil"
	"github.com/Matoxx01/JobCounter/internal/weekly"
)

// Timer-specific errors
var (
	ErrTimerAlreadyRunning = errors.New("timer is already running")
	ErrNoTimerRunning      = errors.New("no timer is running")
)

// TimerService runs the countdown. Start, Tick, Stop and Flush are
// serialized by one mutex, so a stop persists a value no tick can overwrite.
type TimerService struct {
	mu        sync.Mutex
	countdown *timer.Countdown
	store     *StoreService
	config    *ConfigService
	notifier  alarm.Notifier
	logger    *slog.Logger

	suppressFlush bool
}

// NewTimerService creates a new TimerService. notifier may be nil.
func NewTimerService(store *StoreService, cfg *ConfigService, notifier alarm.Notifier, logger *slog.Logger) *TimerService {
	return &TimerService{
		countdown: timer.New(cfg.Get().QuotaSeconds()),
		store:     store,
		config:    cfg,
		notifier:  notifier,
		logger:    logger,
	}
}

// Start reads the snapshot and starts a run from it: the last observed value
// if any, else the configured start, else the configured quota.
func (s *TimerService) Start() (timer.Run, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.countdown.State() == timer.Running {
		return s.countdown.Current(), s.countdown.Remaining(), ErrTimerAlreadyRunning
	}

	snap, err := s.store.GetLast()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read snapshot: %w", err)
	}

	seed := s.config.Get().QuotaSeconds()
	switch {
	case snap != nil && snap.LastObserved != nil:
		seed = s.parse(*snap.LastObserved)
	case snap != nil && snap.ConfiguredStart != nil:
		seed = s.parse(*snap.ConfiguredStart)
	}

	run := s.countdown.Start(seed)
	s.logger.Debug("timer started", "run", run, "seed", timeutil.FormatSigned(seed))
	return run, seed, nil
}

// QuietAlarm keeps the alarm from printing its notice; the bell still rings.
func (s *TimerService) QuietAlarm() {
	alarm.Quiet(s.notifier)
}

// Tick advances the given run by one second. The notifier is called in the
// background when the countdown crosses zero.
func (s *TimerService) Tick(run timer.Run) timer.Tick {
	s.mu.Lock()
	t := s.countdown.Tick(run)
	s.mu.Unlock()

	if t.Alarm {
		s.logger.Info("countdown reached zero")
		if s.notifier != nil {
			go s.notifier.NotifyAlarm()
		}
	}
	return t
}

// Stop cancels the run and persists the value it reached.
func (s *TimerService) Stop() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	remaining, wasRunning := s.countdown.Stop()
	if !wasRunning {
		return remaining, ErrNoTimerRunning
	}
	if err := s.store.SetTimeSlap(timeutil.FormatSigned(remaining)); err != nil {
		return remaining, fmt.Errorf("failed to save countdown: %w", err)
	}
	s.logger.Debug("timer stopped", "remaining", timeutil.FormatSigned(remaining))
	return remaining, nil
}

// Flush is the exit path: it stops a running countdown and tries to persist
// it. Failures are logged. After SuppressExitFlush the next Flush stops
// without persisting.
func (s *TimerService) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	remaining, wasRunning := s.countdown.Stop()
	if s.suppressFlush {
		s.suppressFlush = false
		s.logger.Debug("exit flush suppressed")
		return
	}
	if !wasRunning {
		return
	}
	if err := s.store.SetTimeSlap(timeutil.FormatSigned(remaining)); err != nil {
		s.logger.Warn("exit flush failed", "remaining", timeutil.FormatSigned(remaining), "error", err)
	}
}

// SuppressExitFlush makes the next Flush discard the in-memory value.
func (s *TimerService) SuppressExitFlush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppressFlush = true
}

// Refresh reloads the idle display value: the last observed value when it is
// from this week, else the configured start, else the configured quota.
// It does nothing while running.
func (s *TimerService) Refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.countdown.State() == timer.Running {
		return nil
	}

	snap, err := s.store.GetLast()
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	value := s.config.Get().QuotaSeconds()
	switch {
	case weekly.ObservedThisWeek(snap, s.store.now()):
		value = s.parse(*snap.LastObserved)
	case snap != nil && snap.ConfiguredStart != nil:
		value = s.parse(*snap.ConfiguredStart)
	}
	s.countdown.Set(value)
	return nil
}

// Preview returns the value on display.
func (s *TimerService) Preview() int64 {
	return s.countdown.Remaining()
}

// IsRunning reports whether a run is active.
func (s *TimerService) IsRunning() bool {
	return s.countdown.State() == timer.Running
}

// Current returns the active run, or 0.
func (s *TimerService) Current() timer.Run {
	return s.countdown.Current()
}

func (s *TimerService) parse(value string) int64 {
	if !timeutil.WellFormed(value) {
		s.logger.Warn("malformed duration coerced", "input", value, "op", "timer seed")
	}
	seconds, _ := timeutil.ParseSigned(value)
	return seconds
}
