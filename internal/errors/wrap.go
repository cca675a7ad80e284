package errors

import "fmt"

// Wrap adds context to errors at package boundaries.
// It returns nil if err is nil, allowing for safe inline usage:
//
//	if err := readSource(); err != nil {
//	    return errors.Wrap(err, "failed to read config source")
//	}
//
// The original error chain is preserved, so errors.Is(err, errors.ErrConfigParse)
// keeps working on the result.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf is Wrap with a formatted message:
//
//	return errors.Wrapf(err, "failed to read %s", path)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
