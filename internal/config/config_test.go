package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	var c Config
	c.ApplyDefaults()

	assert.NotEmpty(t, c.Root)
	assert.Equal(t, DefaultPort, c.Port)
	assert.Equal(t, int64(DefaultMaxUpload), c.MaxUploadBytes)
	assert.Equal(t, int64(DefaultChunkSize), c.ChunkSizeBytes)
	assert.Equal(t, DefaultMaxConcurrent, c.MaxConcurrent)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	c := Config{Root: "/srv/share", Port: 9000, MaxConcurrent: 2}
	c.ApplyDefaults()

	assert.Equal(t, "/srv/share", c.Root)
	assert.Equal(t, 9000, c.Port)
	assert.Equal(t, 2, c.MaxConcurrent)
	assert.Equal(t, int64(DefaultMaxUpload), c.MaxUploadBytes)
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("QUICKDROP_ROOT", "")
	path := filepath.Join(t.TempDir(), "quickdrop.yml")
	require.NoError(t, os.WriteFile(path, []byte("root: /tmp/share\nport: 8080\nmax_concurrent: 3\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/share", c.Root)
	assert.Equal(t, 8080, c.Port)
	assert.Equal(t, 3, c.MaxConcurrent)
	assert.Equal(t, int64(DefaultChunkSize), c.ChunkSizeBytes)
}

func TestLoadEnvOverridesRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quickdrop.yml")
	require.NoError(t, os.WriteFile(path, []byte("root: /tmp/from-file\n"), 0o644))
	t.Setenv("QUICKDROP_ROOT", "/tmp/from-env")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env", c.Root)
}

func TestLoadConfigPathFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quickdrop.yml")
	require.NoError(t, os.WriteFile(path, []byte("port: 7777\n"), 0o644))
	t.Setenv("QUICKDROP_CONFIG", path)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7777, c.Port)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("port: [not a number\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
