package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/skillreport/internal/config"
	"github.com/mrz1836/skillreport/internal/errors"
	"github.com/mrz1836/skillreport/internal/testutil"
)

func TestRunConfigValidate_ValidDefaults(t *testing.T) {
	isolateHome(t)

	var buf bytes.Buffer
	m := newMemManager(t, "")

	err := runConfigValidate(context.Background(), &buf, m, &GlobalFlags{Output: OutputText})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "/srv/skills/skillreport.yaml")
	assert.Contains(t, out, "configuration is valid (0 errors, 0 warnings)")
}

func TestRunConfigValidate_ReportsEveryError(t *testing.T) {
	isolateHome(t)

	var buf bytes.Buffer
	m := newMemManager(t, `
default_project: missing
projects:
  default:
    limits:
      max_members: -1
`)

	err := runConfigValidate(context.Background(), &buf, m, &GlobalFlags{Output: OutputText})
	require.ErrorIs(t, err, errors.ErrConfigInvalid)
	assert.Equal(t, ExitError, ExitCodeForError(err))

	out := buf.String()
	assert.Contains(t, out, "projects.default.limits.max_members")
	assert.Contains(t, out, "must_be_positive")
	assert.Contains(t, out, "default_project")
	assert.Contains(t, out, "configuration is invalid (2 errors, 0 warnings)")
}

func TestRunConfigValidate_JSONInvalid(t *testing.T) {
	isolateHome(t)

	var buf bytes.Buffer
	m := newMemManager(t, "projects:\n  default:\n    limits:\n      max_members: 0\n")

	err := runConfigValidate(context.Background(), &buf, m, &GlobalFlags{Output: OutputJSON})
	require.ErrorIs(t, err, errors.ErrJSONErrorOutput)

	var resp validateResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.False(t, resp.Valid)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, config.CodeMustBePositive, resp.Errors[0].Code)
	assert.Empty(t, resp.Warnings)
	assert.Empty(t, resp.Error)
}

func TestRunConfigValidate_JSONValid(t *testing.T) {
	isolateHome(t)

	var buf bytes.Buffer
	m := newMemManager(t, "ui_extra: 1\n", config.WithStrict(true))

	err := runConfigValidate(context.Background(), &buf, m, &GlobalFlags{Output: OutputJSON})
	require.NoError(t, err)

	var resp validateResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Errors)
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, config.CodeUnknownField, resp.Warnings[0].Code)
}

func TestRunConfigValidate_FixtureErrors(t *testing.T) {
	isolateHome(t)

	var buf bytes.Buffer
	m := newMemManager(t, testutil.InvalidConfig)

	err := runConfigValidate(context.Background(), &buf, m, &GlobalFlags{Output: OutputText})
	require.ErrorIs(t, err, errors.ErrConfigInvalid)

	out := buf.String()
	assert.Contains(t, out, "mutually_exclusive")
	assert.Contains(t, out, "inconsistent")
	assert.Contains(t, out, "configuration is invalid (3 errors, 0 warnings)")
}

func TestRunConfigValidate_SourceError(t *testing.T) {
	isolateHome(t)

	var buf bytes.Buffer
	m := newMemManager(t, testutil.MalformedConfig)

	err := runConfigValidate(context.Background(), &buf, m, &GlobalFlags{Output: OutputText})
	require.ErrorIs(t, err, errors.ErrConfigParse)

	out := buf.String()
	assert.Contains(t, out, "not valid YAML")
	assert.Contains(t, out, "skillreport.yaml")
}

func TestPrintDiagnostic(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printDiagnostic(&buf, newOutputStyles(), config.Diagnostic{
		Path:     []string{"ui", "theme"},
		Code:     config.CodeInvalidValue,
		Message:  "unknown theme",
		Rule:     "ui",
		Severity: config.SeverityWarning,
	})

	out := buf.String()
	assert.Contains(t, out, "warning")
	assert.Contains(t, out, "ui.theme")
	assert.Contains(t, out, "unknown theme")
	assert.Contains(t, out, "(invalid_value) [ui]")
}

func TestPlural(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0 errors", plural(0, "error"))
	assert.Equal(t, "1 warning", plural(1, "warning"))
	assert.Equal(t, "3 errors", plural(3, "error"))
}
