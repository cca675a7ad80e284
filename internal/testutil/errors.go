// Package testutil provides testing utilities for skillreport.
//
// It holds mock errors, file system doubles and configuration fixtures shared
// by test files. It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
var (
	// ErrMockReadFailed simulates an I/O failure reading a config source.
	ErrMockReadFailed = errors.New("read failed")

	// ErrMockPermission simulates a permission error opening a file.
	ErrMockPermission = errors.New("permission denied")
)
