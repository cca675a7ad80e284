package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/skillreport/internal/constants"
)

func TestDefaultConfig_ReturnsFreshGraph(t *testing.T) {
	t.Parallel()

	a := DefaultConfig()
	b := DefaultConfig()

	a.Projects["default"].Labels["x"] = "y"
	a.Projects["extra"] = DefaultProjectConfig()

	assert.Empty(t, b.Projects["default"].Labels)
	assert.Len(t, b.Projects, 1)
}

func TestDefaultConfig_Values(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	assert.Equal(t, constants.AppName, cfg.AppName)
	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.Equal(t, constants.DefaultProjectID, cfg.DefaultProject)
	assert.False(t, cfg.Strict)
	assert.Equal(t, UnknownFieldsIgnore, cfg.UnknownFields)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, LogFormatConsole, cfg.Log.Format)
	assert.Equal(t, ":8080", cfg.Server.Address)
	require.Contains(t, cfg.Projects, cfg.DefaultProject)
	assert.Equal(t, DefaultProjectConfig(), cfg.Projects[cfg.DefaultProject])
}

func TestDefaultProjectConfig_Values(t *testing.T) {
	t.Parallel()

	p := DefaultProjectConfig()

	assert.Equal(t, "Default", p.Name)
	assert.True(t, p.Features.SkillMatrix)
	assert.False(t, p.Features.AnonymousFeedback)
	assert.Equal(t, LimitsConfig{
		MaxMembers: 500, MaxSkillsPerMember: 50, MaxReportsPerMonth: 20, RatingMin: 1, RatingMax: 5,
	}, p.Limits)
	assert.Equal(t, constants.DefaultConnectionTimeout, p.Connection.Timeout)
	assert.Equal(t, []string{"technical", "communication", "leadership"}, p.SkillCategories)
	assert.NotNil(t, p.Admins)
	assert.NotNil(t, p.Labels)
}

func TestAppConfig_Project(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	p, ok := cfg.Project("default")
	require.True(t, ok)
	assert.Equal(t, "Default", p.Name)

	_, ok = cfg.Project("nope")
	assert.False(t, ok)

	var nilCfg *AppConfig
	_, ok = nilCfg.Project("default")
	assert.False(t, ok)
}

func TestAppConfig_YAMLKeysMatchSchema(t *testing.T) {
	t.Parallel()

	data, err := yaml.Marshal(DefaultConfig())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))

	assert.Empty(t, UnknownFields(Partial(raw), "marshaled defaults"),
		"every marshaled key is a schema key")
}
