package config

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/skillreport/internal/clock"
	srerrors "github.com/mrz1836/skillreport/internal/errors"
	"github.com/mrz1836/skillreport/internal/testutil"
)

const testRoot = "/srv/skills"

// newTestManager returns a manager reading from an in-memory project root.
// Every test gets its own env prefix so stray SKILLREPORT_* variables in the
// developer's shell cannot leak in.
func newTestManager(t *testing.T, fs afero.Fs, opts ...Option) *Manager {
	t.Helper()
	base := []Option{
		WithFs(fs),
		WithRoot(testRoot),
		WithEnvPrefix("SRMGR_" + uuid.NewString()[:8]),
		WithLogger(zerolog.Nop()),
	}
	return NewManager(append(base, opts...)...)
}

func writeProjectFile(t *testing.T, fs afero.Fs, content string) {
	t.Helper()
	testutil.WriteFile(t, fs, testRoot+"/skillreport.yaml", content)
}

func TestManager_MissingFileYieldsValidDefaults(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := newTestManager(t, afero.NewMemMapFs(), WithClock(clock.Fixed{T: at}))

	cfg, err := m.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	result := m.LastResult()
	require.NotNil(t, result)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Warnings)

	snap := m.Snapshot()
	require.NotNil(t, snap)
	assert.Same(t, cfg, snap.Config)
	assert.Equal(t, at, snap.LoadedAt)
	assert.Equal(t, testRoot+"/skillreport.yaml", snap.Source)
	_, err = uuid.Parse(snap.RunID)
	assert.NoError(t, err)
}

func TestManager_GetCachesTheSamePointer(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeProjectFile(t, fs, "app_name: skills\n")
	m := newTestManager(t, fs)

	first, err := m.Get(context.Background())
	require.NoError(t, err)

	// Later file changes are invisible until Reload.
	writeProjectFile(t, fs, "app_name: changed\n")

	second, err := m.Get(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, "skills", second.AppName)
	assert.Equal(t, int64(1), m.runs.Load())
}

func TestManager_ConcurrentColdGetRunsPipelineOnce(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeProjectFile(t, fs, "environment: test\n")
	m := newTestManager(t, fs)

	const callers = 32
	results := make([]*AppConfig, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cfg, err := m.Get(context.Background())
			assert.NoError(t, err)
			results[i] = cfg
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), m.runs.Load())
	for _, cfg := range results {
		assert.Same(t, results[0], cfg)
	}
}

func TestManager_InvalidConfigIsNotCached(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeProjectFile(t, fs, `
projects:
  default:
    limits:
      max_members: -1
`)
	m := newTestManager(t, fs)

	cfg, err := m.Get(context.Background())
	require.Error(t, err)
	assert.Nil(t, cfg)
	require.ErrorIs(t, err, srerrors.ErrConfigInvalid)

	var invalid *ConfigInvalidError
	require.ErrorAs(t, err, &invalid)
	require.Len(t, invalid.Result.Errors, 1)
	assert.Equal(t, []string{"projects", "default", "limits", "max_members"}, invalid.Result.Errors[0].Path)

	assert.Nil(t, m.Snapshot(), "failures leave the cache empty")
	assert.Same(t, invalid.Result, m.LastResult())

	writeProjectFile(t, fs, `
projects:
  default:
    limits:
      max_members: 40
`)

	cfg, err = m.Get(context.Background())
	require.NoError(t, err, "the next call retries")
	assert.Equal(t, 40, cfg.Projects["default"].Limits.MaxMembers)
	assert.Equal(t, int64(2), m.runs.Load())
}

func TestManager_SourceErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		sentinel error
	}{
		{name: "malformed", content: "server: [\n", sentinel: srerrors.ErrConfigParse},
		{name: "not a mapping", content: "- one\n", sentinel: srerrors.ErrConfigParse},
		{name: "wrong type", content: "database:\n  max_open_conns: many\n", sentinel: srerrors.ErrConfigField},
		{name: "object expected", content: "server: localhost\n", sentinel: srerrors.ErrConfigField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			writeProjectFile(t, fs, tt.content)
			m := newTestManager(t, fs)

			_, err := m.Get(context.Background())
			require.ErrorIs(t, err, tt.sentinel)
			assert.Nil(t, m.Snapshot())
			assert.NotErrorIs(t, err, srerrors.ErrConfigInvalid, "source errors are not validation errors")
		})
	}
}

func TestManager_EnvironmentOverridesProjectFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeProjectFile(t, fs, `
log:
  level: debug
  format: json
`)
	t.Setenv("SRMGRENV_LOG_LEVEL", "warn")

	m := newTestManager(t, fs, WithEnvPrefix("SRMGRENV"))
	cfg, err := m.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level, "environment beats the project file")
	assert.Equal(t, "json", cfg.Log.Format, "project file beats defaults")
	assert.Equal(t, 10, cfg.Log.MaxSizeMB, "defaults fill the rest")
}

func TestManager_ProjectOverrideMatchesDeclaredIDCase(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeProjectFile(t, fs, `
projects:
  HR:
    name: Human Resources
`)
	t.Setenv("SRMGRCASE_PROJECTS__HR__NAME", "People")

	m := newTestManager(t, fs, WithEnvPrefix("SRMGRCASE"))
	cfg, err := m.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "People", cfg.Projects["HR"].Name)
	assert.NotContains(t, cfg.Projects, "hr", "no second project is created")
	assert.Equal(t, SourceEnv, m.Snapshot().SourceOf([]string{"projects", "HR", "name"}))
}

func TestManager_Reload(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeProjectFile(t, fs, "app_name: before\n")
	m := newTestManager(t, fs)
	ctx := context.Background()

	before, err := m.Get(ctx)
	require.NoError(t, err)

	writeProjectFile(t, fs, "app_name: after\n")
	after, err := m.Reload(ctx)
	require.NoError(t, err)

	assert.NotSame(t, before, after)
	assert.Equal(t, "before", before.AppName, "old snapshots are never modified")
	assert.Equal(t, "after", after.AppName)

	current, err := m.Get(ctx)
	require.NoError(t, err)
	assert.Same(t, after, current)
}

func TestManager_ReloadAfterEditSeesTheEdit(t *testing.T) {
	t.Parallel()

	mem := afero.NewMemMapFs()
	writeProjectFile(t, mem, "app_name: old\n")
	gate := testutil.NewGateFs(mem)
	m := newTestManager(t, gate)
	ctx := context.Background()

	reload := func(out chan<- string) {
		cfg, err := m.Reload(ctx)
		if !assert.NoError(t, err) {
			out <- ""
			return
		}
		out <- cfg.AppName
	}

	first := make(chan string, 1)
	go reload(first)
	<-gate.Captured()

	writeProjectFile(t, mem, "app_name: new\n")
	second := make(chan string, 1)
	go reload(second)

	// Let the second call reach the run that is still holding the old file.
	time.Sleep(50 * time.Millisecond)
	gate.Release()

	assert.Equal(t, "old", <-first)
	assert.Equal(t, "new", <-second, "a reload issued after the edit reads the edit")

	cfg, err := m.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", cfg.AppName)
}

func TestManager_FailedReloadClearsCache(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	m := newTestManager(t, fs)
	ctx := context.Background()

	_, err := m.Get(ctx)
	require.NoError(t, err)

	writeProjectFile(t, fs, "environment: moon\n")
	_, err = m.Reload(ctx)
	require.ErrorIs(t, err, srerrors.ErrConfigInvalid)
	assert.Nil(t, m.Snapshot())

	_, err = m.Get(ctx)
	require.ErrorIs(t, err, srerrors.ErrConfigInvalid, "Get reruns the pipeline instead of serving the old config")
}

func TestManager_ReadersNeverSeeAPartialReload(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeProjectFile(t, fs, "app_name: v0\n")
	m := newTestManager(t, fs)
	ctx := context.Background()

	_, err := m.Get(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				cfg, err := m.Get(ctx)
				if !assert.NoError(t, err) || !assert.NotNil(t, cfg) {
					return
				}
				assert.Contains(t, []string{"v0", "v1"}, cfg.AppName)
			}
		}()
	}

	writeProjectFile(t, fs, "app_name: v1\n")
	for range 20 {
		_, err := m.Reload(ctx)
		require.NoError(t, err)
	}
	close(stop)
	wg.Wait()
}

func TestManager_Project(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeProjectFile(t, fs, `
default_project: ops
projects:
  ops:
    name: Operations
`)
	m := newTestManager(t, fs)
	ctx := context.Background()

	p, err := m.Project(ctx, "ops")
	require.NoError(t, err)
	assert.Equal(t, "Operations", p.Name)

	p, err = m.Project(ctx, "")
	require.NoError(t, err, "empty id selects the default project")
	assert.Equal(t, "Operations", p.Name)

	p.Labels["injected"] = "x"
	p.SkillCategories[0] = "mutated"
	again, err := m.Project(ctx, "ops")
	require.NoError(t, err)
	assert.NotContains(t, again.Labels, "injected", "returned projects are copies")
	assert.NotEqual(t, "mutated", again.SkillCategories[0])

	cfg, err := m.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, cfg.Projects["ops"].Labels)
	assert.Equal(t, DefaultProjectConfig().SkillCategories, cfg.Projects["ops"].SkillCategories)

	_, err = m.Project(ctx, "missing")
	require.ErrorIs(t, err, srerrors.ErrProjectNotFound)

	var notFound *ProjectNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.ID)
}

func TestManager_UnknownFieldsKnob(t *testing.T) {
	t.Parallel()

	const withTypo = "log:\n  levle: debug\n"

	tests := []struct {
		name     string
		content  string
		opts     []Option
		warnings int
	}{
		{name: "ignored by default", content: withTypo, warnings: 0},
		{name: "warn mode", content: withTypo + "unknown_fields: warn\n", warnings: 1},
		{name: "strict in file", content: withTypo + "strict: true\n", warnings: 1},
		{name: "strict option", content: withTypo, opts: []Option{WithStrict(true)}, warnings: 1},
		{name: "strict option off wins", content: withTypo + "strict: true\n", opts: []Option{WithStrict(false)}, warnings: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			writeProjectFile(t, fs, tt.content)
			m := newTestManager(t, fs, tt.opts...)

			_, err := m.Get(context.Background())
			require.NoError(t, err, "unknown fields never fail loading")

			warnings := m.LastResult().Warnings
			require.Len(t, warnings, tt.warnings)
			for _, w := range warnings {
				assert.Equal(t, CodeUnknownField, w.Code)
				assert.Equal(t, []string{"log"}, w.Path)
				assert.Contains(t, w.Message, "log.levle")
			}
		})
	}
}

func TestManager_CanceledContext(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, afero.NewMemMapFs())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Get(ctx)
	require.ErrorIs(t, err, context.Canceled)

	_, err = m.Reload(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(0), m.runs.Load())
}

func TestManager_Reset(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, afero.NewMemMapFs())
	ctx := context.Background()

	_, err := m.Get(ctx)
	require.NoError(t, err)

	m.Reset()
	assert.Nil(t, m.Snapshot())
	assert.Nil(t, m.LastResult())

	_, err = m.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), m.runs.Load())
}

func TestManager_CustomValidator(t *testing.T) {
	t.Parallel()

	v := NewValidator(NewRule("app_name_set", func(cfg *AppConfig) []Diagnostic {
		if cfg.AppName == "skillreport" {
			return []Diagnostic{errorAt(CodeInvalidValue, "rename the installation", "app_name")}
		}
		return nil
	}))
	m := newTestManager(t, afero.NewMemMapFs(), WithValidator(v))

	_, err := m.Get(context.Background())
	var invalid *ConfigInvalidError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "app_name_set", invalid.Result.Errors[0].Rule)
}

func TestLoadFromPath(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	testutil.WriteFile(t, fs, "/etc/skillreport/custom.yaml", "server:\n  address: \":9999\"\n")

	cfg, err := LoadFromPath(context.Background(), "/etc/skillreport/custom.yaml",
		WithFs(fs), WithEnvPrefix("SRLOAD_UNUSED"), WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Address)
}

func TestManager_Fixtures(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		writeProjectFile(t, fs, testutil.ValidConfig)
		m := newTestManager(t, fs)

		cfg, err := m.Get(context.Background())
		require.NoError(t, err)
		assert.Empty(t, m.LastResult().Warnings)
		assert.Equal(t, "backend", cfg.DefaultProject)
		assert.ElementsMatch(t, []string{"default", "backend", "frontend"}, mapKeys(cfg.Projects))
		assert.Equal(t, 40, cfg.Projects["backend"].Limits.MaxMembers)
		assert.Equal(t, 5*time.Second, cfg.Projects["backend"].Connection.Timeout)
		assert.Equal(t, 50, cfg.Projects["frontend"].UI.PageSize)
		assert.Equal(t, 500, cfg.Projects["frontend"].Limits.MaxMembers)
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		writeProjectFile(t, fs, testutil.InvalidConfig)
		m := newTestManager(t, fs)

		_, err := m.Get(context.Background())
		var invalid *ConfigInvalidError
		require.ErrorAs(t, err, &invalid)

		codes := make([]string, 0, len(invalid.Result.Errors))
		for _, d := range invalid.Result.Errors {
			codes = append(codes, d.Code)
		}
		assert.ElementsMatch(t, []string{CodeMustBePositive, CodeInconsistent, CodeMutuallyExclusive}, codes)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		writeProjectFile(t, fs, testutil.MalformedConfig)
		m := newTestManager(t, fs)

		_, err := m.Get(context.Background())
		require.ErrorIs(t, err, srerrors.ErrConfigParse)
		assert.Nil(t, m.LastResult(), "validation never ran")
	})

	t.Run("read failure", func(t *testing.T) {
		t.Parallel()

		m := newTestManager(t, testutil.NewFailingFs(nil))

		_, err := m.Get(context.Background())
		require.ErrorIs(t, err, testutil.ErrMockReadFailed)
		assert.Nil(t, m.Snapshot())
	})
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
