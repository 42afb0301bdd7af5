package service

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Matoxx01/JobCounter/internal/alarm"
	"github.com/Matoxx01/JobCounter/internal/config"
	"github.com/Matoxx01/JobCounter/internal/logging"
	"github.com/Matoxx01/JobCounter/internal/storage"
	"github.com/Matoxx01/JobCounter/internal/timeutil"
)

// Services holds all service instances used by the application
type Services struct {
	Store  *StoreService
	Timer  *TimerService
	Config *ConfigService

	logger *slog.Logger
}

// Option customizes Open.
type Option func(*options)

type options struct {
	now      func() time.Time
	logger   *slog.Logger
	notifier alarm.Notifier
	alarmOut io.Writer
}

// WithClock overrides time.Now for storage, reconciliation and the timer.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger. The default logs to stderr at the configured level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithNotifier replaces the terminal bell.
func WithNotifier(n alarm.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithAlarmOutput sets where the default bell rings.
func WithAlarmOutput(w io.Writer) Option {
	return func(o *options) { o.alarmOut = w }
}

// NewServices loads the config at configPath (the default location when
// empty) and opens the data files it points to.
func NewServices(configPath string, opts ...Option) (*Services, error) {
	if configPath == "" {
		p, err := config.GetConfigPath()
		if err != nil {
			return nil, err
		}
		configPath = p
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}

	dataDir, err := storage.GetDataDir(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	return Open(filepath.Join(dataDir, storage.DataFile), configPath, cfg, opts...)
}

// Open wires the services over explicit paths (useful for testing). The
// mirror is opened next to storagePath when cfg.Backend is "mirror"; if it
// cannot be opened the data file is used alone. A finished week is archived
// before Open returns.
func Open(storagePath, configPath string, cfg config.Config, opts ...Option) (*Services, error) {
	o := options{now: time.Now, alarmOut: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.New(os.Stderr, cfg.LogLevel)
	}
	if o.notifier == nil {
		gap, _ := cfg.Gap()
		o.notifier = alarm.NewBell(o.alarmOut, cfg.AlarmRepeat, gap)
	}

	file, err := storage.Open(storagePath, storage.WithClock(o.now), storage.WithLogger(o.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}

	var mirror *storage.MirrorStore
	if cfg.Backend == config.BackendMirror {
		m, err := storage.OpenMirror(storage.MirrorPathFor(storagePath), file,
			storage.WithClock(o.now), storage.WithLogger(o.logger))
		if err != nil {
			o.logger.Warn("mirror unavailable, using data file", "error", err)
		} else {
			mirror = m
		}
	}

	store := NewStoreService(file, mirror, o.now, o.logger)
	configService := NewConfigService(configPath, cfg)
	timerService := NewTimerService(store, configService, o.notifier, o.logger)

	s := &Services{
		Store:  store,
		Timer:  timerService,
		Config: configService,
		logger: o.logger,
	}

	if _, err := store.ProcessWeekly(); err != nil {
		o.logger.Warn("startup reconciliation failed", "error", err)
	}
	if err := timerService.Refresh(); err != nil {
		o.logger.Warn("could not load countdown", "error", err)
	}
	return s, nil
}

// SaveQuota validates a quota typed by the user, stores it as the configured
// start and remembers it in the config. It returns the normalized quota.
func (s *Services) SaveQuota(input string) (string, error) {
	seconds, err := timeutil.ParseQuota(input)
	if err != nil {
		return "", err
	}
	quota := timeutil.FormatQuota(seconds)

	if err := s.Store.storeQuota(quota); err != nil {
		return "", fmt.Errorf("failed to save quota: %w", err)
	}
	if err := s.Config.SetQuota(seconds); err != nil {
		return "", err
	}
	if err := s.Timer.Refresh(); err != nil {
		s.logger.Warn("could not refresh countdown", "error", err)
	}
	return quota, nil
}

// ResetDefaults resets the data, the quota and the countdown. A running
// countdown is stopped through a suppressed flush, so its value is dropped
// instead of overwriting the reset.
func (s *Services) ResetDefaults() error {
	s.Timer.SuppressExitFlush()
	s.Timer.Flush()

	if err := s.Store.ResetDefaults(); err != nil {
		return err
	}
	seconds, _ := timeutil.ParseQuota(storage.DefaultConfiguredStart)
	if err := s.Config.SetQuota(seconds); err != nil {
		return err
	}

	if err := s.Timer.Refresh(); err != nil {
		s.logger.Warn("could not refresh countdown", "error", err)
	}
	return nil
}

// Status gathers what the status command prints.
func (s *Services) Status() (*Status, error) {
	snap, err := s.Store.GetLast()
	if err != nil {
		return nil, err
	}
	entries, err := s.Store.GetRegister()
	if err != nil {
		return nil, err
	}
	observed, err := s.Store.ObservedThisWeek()
	if err != nil {
		return nil, err
	}

	return &Status{
		Snapshot:         snap,
		Remaining:        s.Timer.Preview(),
		Running:          s.Timer.IsRunning(),
		ObservedThisWeek: observed,
		Week:             timeutil.MondayOf(s.Store.now()),
		RegisterSize:     len(entries),
		Backend:          s.Store.Backend(),
		DataPath:         s.Store.DataPath(),
	}, nil
}

// Logger returns the logger shared by the services.
func (s *Services) Logger() *slog.Logger {
	return s.logger
}

// Close flushes a running countdown and closes the storage.
func (s *Services) Close() error {
	s.Timer.Flush()
	return s.Store.Close()
}
