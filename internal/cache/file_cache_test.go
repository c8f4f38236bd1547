package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestFileCacheRoundTrip(t *testing.T) {
	t.Setenv("ROOT_PATH", t.TempDir())
	fc := NewFileCache[payload]("test")

	key := fc.GenerateKey("scene", 42)
	require.Len(t, key, 40, "sha1 hex key")

	_, ok := fc.Get(key)
	assert.False(t, ok, "miss before Set")

	want := payload{Name: "LC08_scene", Count: 3}
	require.NoError(t, fc.Set(key, want))

	got, ok := fc.Get(key)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestFileCacheKeyDependsOnParams(t *testing.T) {
	t.Setenv("ROOT_PATH", t.TempDir())
	fc := NewFileCache[payload]("test")

	assert.NotEqual(t, fc.GenerateKey("a", 1), fc.GenerateKey("a", 2))
	assert.Equal(t, fc.GenerateKey("a", 1), fc.GenerateKey("a", 1))
}

func TestFileCacheCorruptedEntryIsMiss(t *testing.T) {
	root := t.TempDir()
	t.Setenv("ROOT_PATH", root)
	fc := NewFileCache[payload]("test")

	key := fc.GenerateKey("x")
	require.NoError(t, fc.Set(key, payload{Name: "ok"}))

	cacheFile := filepath.Join(root, "data", "test", key+".json")
	require.NoError(t, os.WriteFile(cacheFile, []byte(`{"data":{"name":"tampered"},"checksum":"bad"}`), 0644))

	_, ok := fc.Get(key)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(cacheFile, []byte("not json"), 0644))
	_, ok = fc.Get(key)
	assert.False(t, ok)
}
