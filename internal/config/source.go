package config

import (
	"bytes"
	"context"
	stderrors "errors"
	"io/fs"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/skillreport/internal/constants"
	"github.com/mrz1836/skillreport/internal/errors"
)

// Reader reads declarative configuration sources into Partial layers.
// It only reads: it holds no cache and touches no global state.
type Reader struct {
	fs      afero.Fs
	timeout time.Duration
}

// NewReader creates a Reader over fs. A nil fs means the OS file system and a
// non-positive timeout means constants.DefaultSourceReadTimeout.
func NewReader(fsys afero.Fs, timeout time.Duration) *Reader {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if timeout <= 0 {
		timeout = constants.DefaultSourceReadTimeout
	}
	return &Reader{fs: fsys, timeout: timeout}
}

// ReadSource reads path from fsys with the default timeout.
func ReadSource(ctx context.Context, fsys afero.Fs, path string) (Partial, error) {
	return NewReader(fsys, 0).Read(ctx, path)
}

// readResult carries the outcome of the blocking file read.
type readResult struct {
	data []byte
	err  error
}

// Read loads the source at path.
//
// A missing source is not an error: it yields an empty Partial, meaning
// "use defaults". A source that cannot be parsed yields a *ParseError.
// A read that outlives the reader's timeout or ctx fails with the context error.
func (r *Reader) Read(ctx context.Context, path string) (Partial, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	done := make(chan readResult, 1)
	go func() {
		data, err := afero.ReadFile(r.fs, path)
		done <- readResult{data: data, err: err}
	}()

	var res readResult
	select {
	case <-ctx.Done():
		return nil, errors.Wrapf(ctx.Err(), "failed to read config source %s", path)
	case res = <-done:
	}

	if res.err != nil {
		if stderrors.Is(res.err, fs.ErrNotExist) {
			return Partial{}, nil
		}
		return nil, errors.Wrapf(res.err, "failed to read config source %s", path)
	}

	return ParseSource(path, res.data)
}

// ParseSource parses YAML data into a Partial. Empty or comment-only data is
// an empty Partial. Data whose top level is not a mapping is a *ParseError.
func ParseSource(location string, data []byte) (Partial, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Partial{}, nil
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Location: location, Err: err}
	}
	if raw == nil {
		return Partial{}, nil
	}

	tree, ok := normalizeTree(raw).(map[string]any)
	if !ok {
		return nil, &ParseError{Location: location, Err: errors.ErrConfigNotMapping}
	}
	return Partial(tree), nil
}
