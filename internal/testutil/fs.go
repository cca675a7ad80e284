package testutil

import (
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// WriteFile writes content to path on fsys, failing the test on error.
func WriteFile(t testing.TB, fsys afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o600))
}

// BlockingFs is a file system whose Open does not return until Release is
// called. It simulates a source read that hangs.
type BlockingFs struct {
	afero.Fs

	release chan struct{}
	once    sync.Once
}

// NewBlockingFs wraps fsys.
func NewBlockingFs(fsys afero.Fs) *BlockingFs {
	return &BlockingFs{Fs: fsys, release: make(chan struct{})}
}

// Open blocks until Release is called, then delegates.
func (b *BlockingFs) Open(name string) (afero.File, error) {
	<-b.release
	return b.Fs.Open(name)
}

// Release unblocks every pending and future Open. Safe to call more than once.
func (b *BlockingFs) Release() {
	b.once.Do(func() { close(b.release) })
}

// GateFs is a file system whose first Open reads the file, signals
// Captured, and then holds the content it read until Release is called.
// Later Opens pass straight through. It simulates a slow read that races
// with an edit of the file.
type GateFs struct {
	afero.Fs

	captured    chan struct{}
	release     chan struct{}
	first       sync.Once
	releaseOnce sync.Once
}

// NewGateFs wraps fsys.
func NewGateFs(fsys afero.Fs) *GateFs {
	return &GateFs{
		Fs:       fsys,
		captured: make(chan struct{}),
		release:  make(chan struct{}),
	}
}

// Open implements afero.Fs.
func (g *GateFs) Open(name string) (afero.File, error) {
	gated := false
	g.first.Do(func() { gated = true })
	if !gated {
		return g.Fs.Open(name)
	}

	data, err := afero.ReadFile(g.Fs, name)
	close(g.captured)
	<-g.release
	if err != nil {
		return nil, err
	}

	held := afero.NewMemMapFs()
	if err := afero.WriteFile(held, name, data, 0o600); err != nil {
		return nil, err
	}
	return held.Open(name)
}

// Captured is closed once the first Open has read the file.
func (g *GateFs) Captured() <-chan struct{} {
	return g.captured
}

// Release lets the first Open return. Safe to call more than once.
func (g *GateFs) Release() {
	g.releaseOnce.Do(func() { close(g.release) })
}

// FailingFs is a file system whose Open always fails with Err.
type FailingFs struct {
	afero.Fs

	Err error
}

// NewFailingFs returns a FailingFs over an empty in-memory file system.
// A nil err means ErrMockReadFailed.
func NewFailingFs(err error) *FailingFs {
	if err == nil {
		err = ErrMockReadFailed
	}
	return &FailingFs{Fs: afero.NewMemMapFs(), Err: err}
}

// Open implements afero.Fs.
func (f *FailingFs) Open(string) (afero.File, error) {
	return nil, f.Err
}
