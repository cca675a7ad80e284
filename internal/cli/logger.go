package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mrz1836/skillreport/internal/config"
	"github.com/mrz1836/skillreport/internal/constants"
	"github.com/mrz1836/skillreport/internal/logging"
)

// logFileWriter holds the log file writer for cleanup purposes.
// Access is protected by logFileMu.
var (
	logFileWriter io.WriteCloser //nolint:gochecknoglobals // Needed for cleanup
	logFileMu     sync.Mutex     //nolint:gochecknoglobals // Protects logFileWriter
)

// zerologConfigOnce ensures zerolog global settings are configured exactly once.
var zerologConfigOnce sync.Once //nolint:gochecknoglobals // One-time configuration

// zerologGlobalMu protects concurrent writes to the zerolog global logger.
// This is separate from globalLoggerMu to avoid deadlocks.
var zerologGlobalMu sync.Mutex //nolint:gochecknoglobals // Protects zerolog global

// configureZerologGlobals sets zerolog global options shared by every logger.
func configureZerologGlobals() {
	zerologConfigOnce.Do(func() {
		zerolog.TimestampFieldName = "ts"
		zerolog.DurationFieldUnit = time.Millisecond
	})
}

// InitLogger creates the bootstrap logger used until configuration is loaded.
//
// Log levels are set as follows:
//   - verbose=true: Debug level (most detailed)
//   - quiet=true: Warn level (errors and warnings only)
//   - default: Info level (normal operation)
//
// Output goes to stderr: a console writer on a TTY, JSON otherwise. The logger
// also writes to ~/.skillreport/logs/skillreport.log with rotation enabled. If
// the log file cannot be created the logger continues with console-only output.
func InitLogger(verbose, quiet bool) zerolog.Logger {
	configureZerologGlobals()

	writer := selectOutput(config.LogFormatConsole)
	if fileWriter, err := createLogFileWriter(config.LogConfig{}); err == nil {
		replaceLogFile(fileWriter)
		writer = zerolog.MultiLevelWriter(writer, fileWriter)
	}

	logger := newLogger(writer, selectLevel(verbose, quiet))
	setGlobalLogger(logger)
	return logger
}

// InitLoggerWithWriter creates and configures a zerolog.Logger with a custom writer.
// This is primarily intended for testing purposes.
func InitLoggerWithWriter(verbose, quiet bool, w io.Writer) zerolog.Logger {
	configureZerologGlobals()

	logger := newLogger(w, selectLevel(verbose, quiet))
	setGlobalLogger(logger)
	return logger
}

// ConfigureLogger rebuilds the CLI logger from the loaded log section.
// --verbose and --quiet still take precedence over log.level. When log.file is
// set, entries are written there with the configured rotation; otherwise the
// default log file under the skillreport home is kept.
func ConfigureLogger(cfg config.LogConfig, verbose, quiet bool) (zerolog.Logger, error) {
	configureZerologGlobals()

	level := selectLevel(verbose, quiet)
	if !verbose && !quiet {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil || parsed == zerolog.NoLevel {
			parsed = zerolog.InfoLevel
		}
		level = parsed
	}

	writer := selectOutput(cfg.Format)
	fileWriter, err := createLogFileWriter(cfg)
	if err == nil {
		replaceLogFile(fileWriter)
		writer = zerolog.MultiLevelWriter(writer, fileWriter)
	}

	logger := newLogger(writer, level)
	setGlobalLogger(logger)
	return logger, err
}

// newLogger creates a timestamped logger with the sensitive data hook.
func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).Hook(logging.NewSensitiveDataHook()).With().Timestamp().Logger()
}

// setGlobalLogger configures the global zerolog logger to match our CLI logger config.
// This ensures that any code using log.Debug(), log.Info(), etc. from the
// github.com/rs/zerolog/log package uses the same formatting as our CLI logger.
func setGlobalLogger(cliLogger zerolog.Logger) {
	zerologGlobalMu.Lock()
	defer zerologGlobalMu.Unlock()
	log.Logger = cliLogger

	globalLoggerMu.Lock()
	globalLogger = cliLogger
	globalLoggerMu.Unlock()
}

// replaceLogFile swaps the open log file, closing the previous one.
func replaceLogFile(w io.WriteCloser) {
	logFileMu.Lock()
	defer logFileMu.Unlock()
	if logFileWriter != nil {
		_ = logFileWriter.Close()
	}
	logFileWriter = w
}

// CloseLogFile closes the global log file writer if it was opened.
// This should be called during application shutdown for clean cleanup.
func CloseLogFile() {
	logFileMu.Lock()
	defer logFileMu.Unlock()
	if logFileWriter != nil {
		_ = logFileWriter.Close()
		logFileWriter = nil
	}
}

// selectLevel determines the appropriate log level based on flags.
func selectLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// selectOutput determines the stderr writer. JSON is used when the format
// asks for it, when stderr is not a terminal, or when NO_COLOR is set.
func selectOutput(format string) io.Writer {
	if format != config.LogFormatJSON && term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}
	return os.Stderr
}

// filteringWriteCloser wraps a WriteCloser with sensitive data filtering.
// It implements io.WriteCloser so it can be used as a drop-in replacement.
type filteringWriteCloser struct {
	filter *logging.FilteringWriter
	closer io.Closer
}

// Write implements io.Writer by delegating to the filtering writer.
func (fwc *filteringWriteCloser) Write(p []byte) (n int, err error) {
	return fwc.filter.Write(p)
}

// Close implements io.Closer by delegating to the underlying closer.
func (fwc *filteringWriteCloser) Close() error {
	return fwc.closer.Close()
}

// newRotatingWriter returns a lumberjack logger for path using the rotation
// values of cfg. Non-positive values fall back to the built-in defaults.
func newRotatingWriter(path string, cfg config.LogConfig) *lumberjack.Logger {
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	if cfg.File == "" {
		lj.Compress = constants.LogCompress
	}
	if lj.MaxSize <= 0 {
		lj.MaxSize = constants.LogMaxSizeMB
	}
	if lj.MaxBackups <= 0 {
		lj.MaxBackups = constants.LogMaxBackups
	}
	if lj.MaxAge <= 0 {
		lj.MaxAge = constants.LogMaxAgeDays
	}
	return lj
}

// createLogFileWriter creates the rotating log file writer, wrapped so that
// sensitive data is never written to disk. cfg.File selects the path; when it
// is empty the default file under the skillreport home is used.
func createLogFileWriter(cfg config.LogConfig) (io.WriteCloser, error) {
	path := cfg.File
	if path == "" {
		defaultPath, err := LogFilePath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	lj := newRotatingWriter(path, cfg)
	return &filteringWriteCloser{
		filter: logging.NewFilteringWriter(lj),
		closer: lj,
	}, nil
}

// LogFilePath returns the path to the default CLI log file.
func LogFilePath() (string, error) {
	home, err := config.HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, constants.LogsDir, constants.CLILogFileName), nil
}
