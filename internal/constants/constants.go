// Package constants provides centralized constant values used throughout skillreport.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Application identity.
const (
	// AppName is the name of the application and its binary.
	AppName = "skillreport"

	// EnvPrefix is the prefix for every environment variable the application reads.
	// Override variables take the form SKILLREPORT_<SECTION>_<FIELD>.
	EnvPrefix = "SKILLREPORT"

	// EnvRoot names the variable that overrides the project root directory.
	EnvRoot = "SKILLREPORT_ROOT"

	// EnvHome names the variable that overrides the skillreport home directory.
	EnvHome = "SKILLREPORT_HOME"
)

// Configuration source settings.
const (
	// DefaultSourceReadTimeout bounds a single read of the configuration file.
	// A read that hangs longer than this fails instead of blocking startup.
	DefaultSourceReadTimeout = 5 * time.Second

	// WatchDebounce coalesces bursts of file events (editors often write,
	// truncate and rename in quick succession) into a single reload.
	WatchDebounce = 150 * time.Millisecond
)

// Built-in configuration defaults shared by the config package and CLI output.
const (
	// DefaultProjectID is the key of the project every installation starts with.
	DefaultProjectID = "default"

	// DefaultEnvironment is the environment used when none is configured.
	DefaultEnvironment = "development"

	// DefaultConnectionTimeout is the timeout for a project's outbound connection.
	DefaultConnectionTimeout = 10 * time.Second

	// DefaultDBConnTimeout is the timeout for establishing a database connection.
	DefaultDBConnTimeout = 5 * time.Second

	// DefaultServerTimeout is the read and write timeout of the HTTP server.
	DefaultServerTimeout = 15 * time.Second

	// MaxPageSize is the largest UI page size accepted by validation.
	MaxPageSize = 500
)

// Log rotation defaults for the optional log file sink.
const (
	// LogMaxSizeMB is the size in megabytes a log file may reach before rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files to keep.
	LogMaxBackups = 5

	// LogMaxAgeDays is the number of days rotated log files are retained.
	LogMaxAgeDays = 30

	// LogCompress controls gzip compression of rotated log files.
	LogCompress = true
)
