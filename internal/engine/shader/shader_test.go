package shader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedShadersDeclareUniforms(t *testing.T) {
	for _, name := range []string{"ViewProjectionMatrix", "SceneTransfrom"} {
		assert.Contains(t, SimpleVertex, "uniform mat4 "+name)
	}
	for _, name := range []string{"CameraPosition", "LightSource"} {
		assert.Contains(t, SimpleFragment, "uniform vec3 "+name)
	}
	assert.Contains(t, SimpleVertex, "layout (location = 2) in vec3 normal")
}

func TestSourceRead(t *testing.T) {
	vert, frag, err := Source{}.Read()
	require.NoError(t, err)
	assert.Equal(t, SimpleVertex, vert)
	assert.Equal(t, SimpleFragment, frag)

	dir := t.TempDir()
	path := filepath.Join(dir, "custom.frag")
	require.NoError(t, os.WriteFile(path, []byte("custom"), 0644))

	src := Source{FragmentPath: path}
	assert.False(t, src.Embedded())
	vert, frag, err = src.Read()
	require.NoError(t, err)
	assert.Equal(t, SimpleVertex, vert)
	assert.Equal(t, "custom", frag)

	_, _, err = Source{VertexPath: filepath.Join(dir, "missing.vert")}.Read()
	assert.Error(t, err)
}

// fakeProgram builds a Program whose GL calls are recorded.
func fakeProgram(t *testing.T) (*Program, *[]string, *int) {
	t.Helper()
	var lookups []string
	next := uint32(0)
	deleted := 0
	p := &Program{
		compile: func(vert, frag string) (uint32, error) {
			next++
			return next, nil
		},
		lookup: func(program uint32, name string) int32 {
			lookups = append(lookups, name)
			if name == "missing" {
				return -1
			}
			return int32(len(lookups))
		},
		destroy: func(uint32) { deleted++ },
	}
	require.NoError(t, p.build())
	return p, &lookups, &deleted
}

func TestProgramUniformCache(t *testing.T) {
	p, lookups, _ := fakeProgram(t)

	assert.Equal(t, int32(1), p.Uniform("SceneTransfrom"))
	assert.Equal(t, int32(1), p.Uniform("SceneTransfrom"))
	assert.Equal(t, int32(-1), p.Uniform("missing"))
	assert.Equal(t, int32(-1), p.Uniform("missing"))
	assert.Equal(t, []string{"SceneTransfrom", "missing"}, *lookups)
}

func TestProgramReload(t *testing.T) {
	p, lookups, deleted := fakeProgram(t)
	assert.Equal(t, uint32(1), p.ID())
	p.Uniform("LightSource")

	reloaded, err := p.ReloadIfStale()
	require.NoError(t, err)
	assert.False(t, reloaded)

	p.MarkStale()
	reloaded, err = p.ReloadIfStale()
	require.NoError(t, err)
	assert.True(t, reloaded)
	assert.Equal(t, uint32(2), p.ID())
	assert.Equal(t, 1, *deleted)

	// the cache is reset for the new program
	p.Uniform("LightSource")
	assert.Len(t, *lookups, 2)
}

func TestProgramReloadFailureKeepsPrevious(t *testing.T) {
	p, _, deleted := fakeProgram(t)
	p.compile = func(string, string) (uint32, error) {
		return 0, errors.New("fragment shader: syntax error")
	}
	err := p.Reload()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")
	assert.Equal(t, uint32(1), p.ID())
	assert.Equal(t, 0, *deleted)
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.frag")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0644))

	changed := make(chan string, 8)
	w, err := Watch([]string{path, ""}, func(p string) { changed <- p })
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0644))
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0644))

	want, err := filepath.Abs(path)
	require.NoError(t, err)
	select {
	case got := <-changed:
		assert.Equal(t, want, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	_, err := Watch([]string{filepath.Join(t.TempDir(), "nope", "a.vert")}, func(string) {})
	assert.Error(t, err)
}
