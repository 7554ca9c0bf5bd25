package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"reeldiary/internal/config"
	"reeldiary/internal/diary"
	"reeldiary/internal/enrich"
	"reeldiary/internal/letterboxd"
	"reeldiary/internal/logging"
	"reeldiary/internal/services"
)

// LockFileName is created in the output directory while artifacts are written.
const LockFileName = ".reeldiary.lock"

// Manager sequences pipeline stages for a single run.
type Manager struct {
	cfg      *config.Config
	logger   *slog.Logger
	runID    string
	lockPath string
	source   enrich.Source
	progress io.Writer
}

// Option configures a Manager.
type Option func(*Manager)

// WithSource overrides the Letterboxd scraper.
func WithSource(source enrich.Source) Option {
	return func(m *Manager) {
		if source != nil {
			m.source = source
		}
	}
}

// WithProgress sends enrichment progress to w.
func WithProgress(w io.Writer) Option {
	return func(m *Manager) { m.progress = w }
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(m *Manager) {
		if id != "" {
			m.runID = id
		}
	}
}

// NewManager constructs a Manager for cfg.
func NewManager(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("workflow requires a config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	m := &Manager{
		cfg:      cfg,
		runID:    uuid.NewString(),
		lockPath: filepath.Join(cfg.Paths.OutputDir, LockFileName),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = logging.NewComponentLogger(logger, "workflow")
	return m, nil
}

// RunID returns the identifier attached to this run's logs.
func (m *Manager) RunID() string { return m.runID }

func (m *Manager) stageContext(ctx context.Context, stage string) (context.Context, *slog.Logger) {
	ctx = services.WithRunID(ctx, m.runID)
	ctx = services.WithStage(ctx, stage)
	return ctx, logging.WithContext(ctx, m.logger)
}

func (m *Manager) letterboxdSource() (enrich.Source, error) {
	if m.source != nil {
		return m.source, nil
	}
	client, err := letterboxd.New(letterboxd.Config{
		BaseURL:         m.cfg.Letterboxd.BaseURL,
		UserAgent:       m.cfg.Letterboxd.UserAgent,
		RequestInterval: time.Duration(m.cfg.Letterboxd.RequestIntervalMS) * time.Millisecond,
		Timeout:         time.Duration(m.cfg.Letterboxd.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "letterboxd client", "", err)
	}
	m.source = client
	return client, nil
}

func (m *Manager) duplicatePolicy() (diary.DuplicatePolicy, error) {
	policy, err := diary.ParseDuplicatePolicy(m.cfg.History.Duplicates)
	if err != nil {
		return diary.KeepAll, services.Wrap(services.ErrConfiguration, "workflow", "history", "", err)
	}
	return policy, nil
}

// withOutputLock holds an exclusive lock on the output directory while fn runs.
func (m *Manager) withOutputLock(fn func() error) error {
	if err := m.cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}
	lock := flock.New(m.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another reeldiary run is writing to %s", m.cfg.Paths.OutputDir)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			m.logger.Warn("failed to release output lock",
				logging.String("lock", m.lockPath),
				logging.Error(err))
		}
	}()
	return fn()
}
