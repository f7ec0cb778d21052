package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uttrekk.yaml")

	cfg := Default()
	cfg.Server.Listen = ":9000"
	cfg.Server.Metrics = false
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", loaded.Server.Listen)
	assert.False(t, loaded.Server.Metrics)
	assert.Equal(t, int64(20), loaded.Server.MaxUploadMB)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uttrekk.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  listen: \":7070\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Listen)
	assert.Equal(t, int64(20), cfg.Server.MaxUploadMB)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":8090", cfg.Server.Listen)
	assert.True(t, cfg.Server.Metrics)
	assert.True(t, cfg.Server.CORS)
}
