package gen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCache(t *testing.T) {
	cache := NewBuildCache()
	content := []byte("package graph\n")

	assert.False(t, cache.UpToDate("graph.go", content))

	cache.Record("graph.go", content)
	assert.True(t, cache.UpToDate("graph.go", content))
	assert.False(t, cache.UpToDate("graph.go", []byte("package graph\n\nvar X = 1\n")))
	assert.False(t, cache.UpToDate("other.go", content))
}

func TestBuildCacheSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gqlc.cache")

	cache := NewBuildCache()
	cache.Record("graph.go", []byte("package graph\n"))
	cache.Record("client.go", []byte("package client\n"))
	require.NoError(t, cache.Save(path))

	loaded := LoadBuildCache(path)
	assert.True(t, loaded.UpToDate("graph.go", []byte("package graph\n")))
	assert.True(t, loaded.UpToDate("client.go", []byte("package client\n")))
	assert.False(t, loaded.UpToDate("graph.go", []byte("package graph\n\nvar X = 1\n")))
}

func TestBuildCacheSaveSkipsWhenClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gqlc.cache")

	cache := NewBuildCache()
	cache.Record("graph.go", []byte("package graph\n"))
	require.NoError(t, cache.Save(path))

	first, err := os.Stat(path)
	require.NoError(t, err)

	// Nothing recorded since the last save, so the file is not rewritten.
	require.NoError(t, cache.Save(path))
	second, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, first.ModTime(), second.ModTime())
}

func TestLoadBuildCacheDegradesToEmpty(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cache := LoadBuildCache(filepath.Join(t.TempDir(), "missing.cache"))
		require.NotNil(t, cache)
		assert.False(t, cache.UpToDate("graph.go", []byte("x")))
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "corrupt.cache")
		require.NoError(t, os.WriteFile(path, []byte("not msgpack at all"), 0o644))
		cache := LoadBuildCache(path)
		require.NotNil(t, cache)
		assert.False(t, cache.UpToDate("graph.go", []byte("x")))
	})
}
