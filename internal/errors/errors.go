// Package errors provides centralized error handling for skillreport.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrConfigParse indicates that a configuration source exists but is not
	// well-formed structured data. Fatal to startup.
	ErrConfigParse = errors.New("config source could not be parsed")

	// ErrConfigNotMapping indicates that a configuration source parsed, but its
	// top level is not a key/value mapping.
	ErrConfigNotMapping = errors.New("config source top level must be a mapping")

	// ErrConfigField indicates that a layer supplied a value that cannot be
	// converted to the type of the schema field it targets.
	ErrConfigField = errors.New("invalid config field value")

	// ErrConfigObjectExpected indicates that a layer supplied a scalar or list
	// where the schema declares a nested object.
	ErrConfigObjectExpected = errors.New("expected a mapping")

	// ErrConfigNotWholeNumber indicates that a layer supplied a fractional
	// number for an integer field.
	ErrConfigNotWholeNumber = errors.New("expected a whole number")

	// ErrConfigInvalid indicates that the merged configuration failed semantic validation.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrProjectNotFound indicates that a project identifier is not present in
	// the merged configuration's project map.
	ErrProjectNotFound = errors.New("project not found")

	// ErrWatchFailed indicates that the config file watcher could not be started.
	ErrWatchFailed = errors.New("config watch failed")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrUnsupportedOutputFormat indicates that an unsupported output format was specified.
	ErrUnsupportedOutputFormat = errors.New("unsupported output format")

	// ErrInvalidArgument indicates that an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrJSONErrorOutput indicates that an error has already been output as JSON.
	// This ensures a non-zero exit code while preventing duplicate error messages.
	ErrJSONErrorOutput = errors.New("error output as JSON")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
