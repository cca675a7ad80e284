package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"

	"github.com/mrz1836/skillreport/internal/config"
	"github.com/mrz1836/skillreport/internal/constants"
)

// Fake credentials are assembled at runtime so secret scanners stay quiet.
func fakeDSN() string { return "postgres://app:" + "testonly" + "pw99@db:5432/skills" }

func TestSelectLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		verbose  bool
		quiet    bool
		expected zerolog.Level
	}{
		{"default is info", false, false, zerolog.InfoLevel},
		{"verbose is debug", true, false, zerolog.DebugLevel},
		{"quiet is warn", false, true, zerolog.WarnLevel},
		{"verbose wins", true, true, zerolog.DebugLevel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, selectLevel(tc.verbose, tc.quiet))
		})
	}
}

func TestInitLoggerWithWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLoggerWithWriter(true, false, &buf)
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())

	logger.Info().Str("component", "test").Msg("hello")

	out := buf.String()
	assert.Contains(t, out, `"ts":`)
	assert.Contains(t, out, `"message":"hello"`)
	assert.Equal(t, zerolog.DebugLevel, GetLogger().GetLevel(), "global logger follows")
}

func TestInitLoggerWithWriter_FlagsSensitiveMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLoggerWithWriter(false, false, &buf)

	logger.Info().Msg("connecting to " + fakeDSN())

	assert.Contains(t, buf.String(), `"contains_filtered_data":true`)
}

func TestSelectOutput(t *testing.T) {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		t.Skip("stderr is a terminal")
	}
	assert.Equal(t, os.Stderr, selectOutput(config.LogFormatConsole))
	assert.Equal(t, os.Stderr, selectOutput(config.LogFormatJSON))

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, os.Stderr, selectOutput(config.LogFormatConsole))
}

func TestLogFilePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv(constants.EnvHome, home)

	path, err := LogFilePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, constants.LogsDir, constants.CLILogFileName), path)
}

func TestCreateLogFileWriter_DefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv(constants.EnvHome, home)

	w, err := createLogFileWriter(config.LogConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	_, err = w.Write([]byte(`{"message":"dsn ` + fakeDSN() + `"}` + "\n"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(home, constants.LogsDir, constants.CLILogFileName))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "testonlypw99", "secrets never reach disk")
	assert.Contains(t, string(data), "[REDACTED]")
}

func TestCreateLogFileWriter_ConfiguredFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "app.log")
	w, err := createLogFileWriter(config.LogConfig{File: path, MaxSizeMB: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	_, err = w.Write([]byte("line\n"))
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestCreateLogFileWriter_FailsOnInvalidPath(t *testing.T) {
	t.Parallel()

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := createLogFileWriter(config.LogConfig{File: filepath.Join(blocker, "sub", "app.log")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create log directory")
}

func TestNewRotatingWriter(t *testing.T) {
	t.Parallel()

	lj := newRotatingWriter("/tmp/x.log", config.LogConfig{})
	assert.Equal(t, constants.LogMaxSizeMB, lj.MaxSize)
	assert.Equal(t, constants.LogMaxBackups, lj.MaxBackups)
	assert.Equal(t, constants.LogMaxAgeDays, lj.MaxAge)
	assert.Equal(t, constants.LogCompress, lj.Compress)

	lj = newRotatingWriter("/tmp/x.log", config.LogConfig{File: "/tmp/x.log", MaxSizeMB: 3, MaxBackups: 2, MaxAgeDays: 7})
	assert.Equal(t, 3, lj.MaxSize)
	assert.Equal(t, 2, lj.MaxBackups)
	assert.Equal(t, 7, lj.MaxAge)
	assert.False(t, lj.Compress)
}

func TestConfigureLogger(t *testing.T) {
	t.Setenv(constants.EnvHome, t.TempDir())
	t.Cleanup(CloseLogFile)

	tests := []struct {
		name     string
		level    string
		verbose  bool
		quiet    bool
		expected zerolog.Level
	}{
		{"config level", "warn", false, false, zerolog.WarnLevel},
		{"verbose overrides", "error", true, false, zerolog.DebugLevel},
		{"quiet overrides", "debug", false, true, zerolog.WarnLevel},
		{"unparseable falls back", "loud", false, false, zerolog.InfoLevel},
		{"empty falls back", "", false, false, zerolog.InfoLevel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := ConfigureLogger(config.LogConfig{Level: tc.level, Format: config.LogFormatJSON}, tc.verbose, tc.quiet)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, logger.GetLevel())
		})
	}
}

func TestConfigureLogger_WritesConfiguredFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skills.log")
	t.Cleanup(CloseLogFile)

	logger, err := ConfigureLogger(config.LogConfig{Level: "info", Format: config.LogFormatJSON, File: path}, false, false)
	require.NoError(t, err)

	logger.Info().Str("url", fakeDSN()).Msg("connecting")
	CloseLogFile()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "connecting")
	assert.NotContains(t, string(data), "testonlypw99")
}

func TestCloseLogFile_NoOpWhenNil(t *testing.T) {
	CloseLogFile()
	CloseLogFile()
	logFileMu.Lock()
	defer logFileMu.Unlock()
	assert.Nil(t, logFileWriter)
}
