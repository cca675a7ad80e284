package config

import (
	"context"
	"path/filepath"
)

// Load reads configuration from all sources with the fixed precedence
// (highest precedence first):
//  1. Environment variables (SKILLREPORT_* prefix)
//  2. Project config (skillreport.yaml in the project root)
//  3. Built-in defaults
//
// Each call runs the pipeline with a fresh Manager and caches nothing.
// Long-running processes should hold a Manager instead.
//
// A missing project config is not an error. A malformed one, a value of the
// wrong type, or a configuration that fails validation is.
func Load(ctx context.Context, opts ...Option) (*AppConfig, error) {
	return NewManager(opts...).Get(ctx)
}

// LoadFromPath loads configuration with the project config read from path
// instead of the project root. Environment overrides still apply.
func LoadFromPath(ctx context.Context, path string, opts ...Option) (*AppConfig, error) {
	opts = append([]Option{
		WithRoot(filepath.Dir(path)),
		WithFileName(filepath.Base(path)),
	}, opts...)
	return Load(ctx, opts...)
}
