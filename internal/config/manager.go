package config

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/sync/singleflight"

	"github.com/mrz1836/skillreport/internal/clock"
	"github.com/mrz1836/skillreport/internal/constants"
	"github.com/mrz1836/skillreport/internal/ctxutil"
)

// Snapshot is one successful run of the load pipeline.
type Snapshot struct {
	// Config is the merged, validated configuration. It must not be modified.
	Config *AppConfig `json:"config"`
	// Result holds the validation outcome, including warnings.
	Result *ValidationResult `json:"result"`
	// Source is the path of the project config file that was read.
	Source string `json:"source"`
	// LoadedAt is when the pipeline finished.
	LoadedAt time.Time `json:"loaded_at"`
	// RunID identifies the pipeline run in log output.
	RunID string `json:"run_id"`

	fileLayer Partial
	envLayer  Partial
}

// Manager is the single entry point to the application configuration.
//
// The first Get runs the pipeline (read project file, merge over defaults and
// environment, validate) and caches the result for the life of the process.
// Readers go through an atomic snapshot, so a concurrent Reload is observed
// as either the old or the new configuration, never a partial one.
//
// A zero Manager is not usable; create one with NewManager.
type Manager struct {
	root      string
	fileName  string
	envPrefix string
	fs        afero.Fs
	timeout   time.Duration
	validator *Validator
	logger    *zerolog.Logger
	clock     clock.Clock
	strict    *bool
	debounce  time.Duration

	// mu serializes pipeline runs. Lock-free readers use current.
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
	last    atomic.Pointer[ValidationResult]
	reloads singleflight.Group

	// reloadGen numbers Reload runs as they start.
	reloadGen atomic.Int64

	// runs counts pipeline executions.
	runs atomic.Int64
}

// Option configures a Manager.
type Option func(*Manager)

// WithRoot sets the project root directory. Without it the root comes from
// SKILLREPORT_ROOT or the working directory.
func WithRoot(dir string) Option {
	return func(m *Manager) { m.root = dir }
}

// WithFileName overrides the project config file name.
func WithFileName(name string) Option {
	return func(m *Manager) { m.fileName = name }
}

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(m *Manager) { m.envPrefix = prefix }
}

// WithFs sets the file system the project file is read from.
func WithFs(fsys afero.Fs) Option {
	return func(m *Manager) { m.fs = fsys }
}

// WithReadTimeout bounds each read of the project file.
func WithReadTimeout(d time.Duration) Option {
	return func(m *Manager) { m.timeout = d }
}

// WithValidator replaces the default rule set.
func WithValidator(v *Validator) Option {
	return func(m *Manager) { m.validator = v }
}

// WithLogger sets the logger. Without it the logger attached to the
// context passed to Get or Reload is used.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.logger = &l }
}

// WithClock sets the clock used to stamp snapshots.
func WithClock(c clock.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithStrict forces strict mode on or off regardless of the configured value.
func WithStrict(strict bool) Option {
	return func(m *Manager) { m.strict = &strict }
}

// WithWatchDebounce sets how long Watch waits for file events to settle.
func WithWatchDebounce(d time.Duration) Option {
	return func(m *Manager) { m.debounce = d }
}

// NewManager creates a Manager. No I/O happens until the first Get.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		fileName:  constants.ProjectConfigName,
		envPrefix: constants.EnvPrefix,
		clock:     clock.RealClock{},
		debounce:  constants.WatchDebounce,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.fs == nil {
		m.fs = afero.NewOsFs()
	}
	if m.validator == nil {
		m.validator = NewValidator()
	}
	return m
}

// Get returns the validated configuration, running the pipeline on first use.
//
// Concurrent cold callers run the pipeline once and receive the same pointer.
// On failure Get returns a *ParseError, *FieldError or *ConfigInvalidError and
// nothing is cached, so the next call tries again. It never falls back to
// defaults.
func (m *Manager) Get(ctx context.Context) (*AppConfig, error) {
	if s := m.current.Load(); s != nil {
		return s.Config, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s := m.current.Load(); s != nil {
		return s.Config, nil
	}

	snap, err := m.build(ctx)
	if err != nil {
		return nil, err
	}
	m.current.Store(snap)
	return snap.Config, nil
}

// Reload discards the cached configuration and runs the pipeline again.
//
// Readers keep seeing the previous configuration until the new one is
// stored. If the run fails the cache is left empty and the error returned;
// the next Get retries. Overlapping Reload calls share a run, executed with
// the context of the call that started it, but only a run that began after
// the call: a caller never receives a result read before it asked.
func (m *Manager) Reload(ctx context.Context) (*AppConfig, error) {
	asked := m.reloadGen.Load()
	for {
		if err := ctxutil.Canceled(ctx); err != nil {
			return nil, err
		}
		v, _, _ := m.reloads.Do("reload", func() (any, error) {
			m.mu.Lock()
			defer m.mu.Unlock()

			run := &reloadRun{gen: m.reloadGen.Add(1)}
			run.snap, run.err = m.build(ctx)
			if run.err != nil {
				m.current.Store(nil)
				return run, nil
			}
			m.current.Store(run.snap)
			return run, nil
		})
		run, _ := v.(*reloadRun)
		if run.gen <= asked {
			continue
		}
		if run.err != nil {
			return nil, run.err
		}
		return run.snap.Config, nil
	}
}

// reloadRun is the outcome of one Reload pipeline run. gen orders runs by
// the moment they took the pipeline lock.
type reloadRun struct {
	gen  int64
	snap *Snapshot
	err  error
}

// Project returns the configuration of project id. An empty id selects the
// configured default project. An id that is not configured yields a
// *ProjectNotFoundError; the caller decides whether to fall back.
//
// The result is a copy the caller owns; changing it does not affect the
// cached configuration.
func (m *Manager) Project(ctx context.Context, id string) (*ProjectConfig, error) {
	cfg, err := m.Get(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = cfg.DefaultProject
	}
	p, ok := cfg.Projects[id]
	if !ok {
		return nil, &ProjectNotFoundError{ID: id}
	}
	return cloneProject(&p), nil
}

// Snapshot returns the cached snapshot, or nil when nothing is loaded.
func (m *Manager) Snapshot() *Snapshot {
	return m.current.Load()
}

// LastResult returns the validation result of the most recent pipeline run,
// successful or not, or nil when the pipeline has not run validation yet.
func (m *Manager) LastResult() *ValidationResult {
	return m.last.Load()
}

// Reset drops the cached configuration. The next Get runs the pipeline.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.Store(nil)
	m.last.Store(nil)
}

// SourcePath returns the project config file path the pipeline reads.
func (m *Manager) SourcePath() (string, error) {
	root, err := ResolveRoot(m.root)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, m.fileName), nil
}

// EnvPrefix returns the environment variable prefix in use.
func (m *Manager) EnvPrefix() string {
	return m.envPrefix
}

// build runs the pipeline once: read, merge, validate. Callers hold m.mu.
func (m *Manager) build(ctx context.Context) (*Snapshot, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	m.runs.Add(1)

	runID := uuid.NewString()
	logger := m.loggerFor(ctx).With().
		Str("component", "config").
		Str("run_id", runID).
		Logger()

	path, err := m.SourcePath()
	if err != nil {
		return nil, err
	}

	fileLayer, err := NewReader(m.fs, m.timeout).Read(ctx, path)
	if err != nil {
		logger.Error().Err(err).Str("source", path).Msg("failed to read config source")
		return nil, err
	}
	envLayer := EnvLayer(m.envPrefix)
	AlignProjectIDs(envLayer, fileLayer)

	cfg, err := Merge(DefaultConfig(), fileLayer, envLayer)
	if err != nil {
		logger.Error().Err(err).Msg("failed to merge configuration")
		return nil, err
	}
	if m.strict != nil {
		cfg.Strict = *m.strict
	}

	result := m.validator.Validate(cfg)
	if cfg.Strict || cfg.UnknownFields == UnknownFieldsWarn {
		result.add(UnknownFields(fileLayer, path)...)
		result.add(UnknownFields(envLayer, "environment")...)
	}
	m.last.Store(result)

	if !result.Valid {
		logger.Error().
			Int("errors", len(result.Errors)).
			Int("warnings", len(result.Warnings)).
			Msg("configuration is invalid")
		return nil, &ConfigInvalidError{Result: result}
	}

	for _, w := range result.Warnings {
		logger.Warn().
			Str("path", w.PathString()).
			Str("code", w.Code).
			Str("rule", w.Rule).
			Msg(w.Message)
	}

	logger.Debug().
		Str("source", path).
		Str("environment", cfg.Environment).
		Int("projects", len(cfg.Projects)).
		Msg("configuration loaded")

	return &Snapshot{
		Config:    cfg,
		Result:    result,
		Source:    path,
		LoadedAt:  m.clock.Now(),
		RunID:     runID,
		fileLayer: fileLayer,
		envLayer:  envLayer,
	}, nil
}

// loggerFor returns the configured logger or the one carried by ctx.
func (m *Manager) loggerFor(ctx context.Context) *zerolog.Logger {
	if m.logger != nil {
		return m.logger
	}
	return zerolog.Ctx(ctx)
}
