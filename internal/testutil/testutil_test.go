package testutil

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWriteFile(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	WriteFile(t, fsys, "/a/b.yaml", "x: 1\n")

	data, err := afero.ReadFile(fsys, "/a/b.yaml")
	require.NoError(t, err)
	assert.Equal(t, "x: 1\n", string(data))
}

func TestBlockingFs(t *testing.T) {
	t.Parallel()

	fsys := NewBlockingFs(afero.NewMemMapFs())
	WriteFile(t, fsys, "/f", "data")

	opened := make(chan error, 1)
	go func() {
		f, err := fsys.Open("/f")
		if err == nil {
			_ = f.Close()
		}
		opened <- err
	}()

	select {
	case <-opened:
		t.Fatal("open returned before release")
	case <-time.After(20 * time.Millisecond):
	}

	fsys.Release()
	fsys.Release()
	require.NoError(t, <-opened)
}

func TestGateFs_HoldsTheContentReadBeforeRelease(t *testing.T) {
	t.Parallel()

	mem := afero.NewMemMapFs()
	WriteFile(t, mem, "/f", "old")
	fsys := NewGateFs(mem)

	read := make(chan string, 1)
	go func() {
		data, err := afero.ReadFile(fsys, "/f")
		assert.NoError(t, err)
		read <- string(data)
	}()

	<-fsys.Captured()
	WriteFile(t, mem, "/f", "new")

	select {
	case <-read:
		t.Fatal("read returned before release")
	case <-time.After(20 * time.Millisecond):
	}

	fsys.Release()
	fsys.Release()
	assert.Equal(t, "old", <-read)

	data, err := afero.ReadFile(fsys, "/f")
	require.NoError(t, err)
	assert.Equal(t, "new", string(data), "later opens pass through")
}

func TestFailingFs(t *testing.T) {
	t.Parallel()

	_, err := afero.ReadFile(NewFailingFs(nil), "/any")
	require.ErrorIs(t, err, ErrMockReadFailed)

	_, err = NewFailingFs(ErrMockPermission).Open("/any")
	require.ErrorIs(t, err, ErrMockPermission)
	assert.False(t, errors.Is(ErrMockReadFailed, ErrMockPermission))
}

func TestFixturesParse(t *testing.T) {
	t.Parallel()

	for name, doc := range map[string]string{"valid": ValidConfig, "invalid": InvalidConfig} {
		var out map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(doc), &out), name)
		assert.Contains(t, out, "projects", name)
	}

	var out map[string]any
	assert.Error(t, yaml.Unmarshal([]byte(MalformedConfig), &out))
}
