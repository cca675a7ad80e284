package config

import (
	"fmt"
	"strings"

	"github.com/mrz1836/skillreport/internal/errors"
)

// ParseError reports a configuration source that exists but is not
// well-formed structured data. It is fatal to startup and never retried.
// errors.Is(err, errors.ErrConfigParse) matches it.
type ParseError struct {
	// Location identifies the source, usually a file path.
	Location string
	// Err is the underlying parse failure.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse config source %s: %v", e.Location, e.Err)
}

// Unwrap returns the underlying parse failure.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is matches the ErrConfigParse sentinel.
func (e *ParseError) Is(target error) bool {
	return target == errors.ErrConfigParse
}

// FieldError reports a layer value that cannot be converted to the type of
// the schema field it targets, such as "ten" for an integer limit.
type FieldError struct {
	// Path addresses the offending field.
	Path []string
	// Err describes the conversion failure.
	Err error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("config field %s: %v", formatPath(e.Path), e.Err)
}

// Unwrap returns the conversion failure.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// Is matches the ErrConfigField sentinel.
func (e *FieldError) Is(target error) bool {
	return target == errors.ErrConfigField
}

// ConfigInvalidError reports a well-formed configuration that failed
// semantic validation. It carries every diagnostic of the run.
type ConfigInvalidError struct {
	// Result is the complete validation result, including warnings.
	Result *ValidationResult
}

// Error lists every error with its path and code, one per line.
func (e *ConfigInvalidError) Error() string {
	if e.Result == nil {
		return errors.ErrConfigInvalid.Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d error(s)", errors.ErrConfigInvalid, len(e.Result.Errors))
	for _, d := range e.Result.Errors {
		b.WriteString("\n  - ")
		b.WriteString(d.String())
	}
	return b.String()
}

// Is matches the ErrConfigInvalid sentinel.
func (e *ConfigInvalidError) Is(target error) bool {
	return target == errors.ErrConfigInvalid
}

// ProjectNotFoundError reports a lookup of a project id that is not a key of
// the merged project map. It is recoverable; the caller decides on a fallback.
type ProjectNotFoundError struct {
	// ID is the requested project identifier.
	ID string
}

// Error implements the error interface.
func (e *ProjectNotFoundError) Error() string {
	return fmt.Sprintf("%s: %q", errors.ErrProjectNotFound, e.ID)
}

// Is matches the ErrProjectNotFound sentinel.
func (e *ProjectNotFoundError) Is(target error) bool {
	return target == errors.ErrProjectNotFound
}

// formatPath renders a field path in dotted form; the empty path is the root.
func formatPath(path []string) string {
	if len(path) == 0 {
		return "<root>"
	}
	return strings.Join(path, ".")
}
