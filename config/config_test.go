package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "port: \"9090\"\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "knowledgebase", cfg.MongoDatabase)
	assert.Equal(t, 3600, cfg.Cache.DocumentTTLSecs)
	assert.Equal(t, 1800, cfg.Cache.SearchTTLSecs)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 500, cfg.VectorIndex.ChunkSize)
	assert.Equal(t, 50, cfg.VectorIndex.ChunkOverlap)
	assert.Equal(t, "openai", cfg.Embedding.Provider)
	assert.True(t, cfg.AutoIndex)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
document_dir: /srv/docs
remote_source:
  base_url: http://kb.internal:8080
  timeout_seconds: 5
vector_index:
  chunk_size: 200
  chunk_overlap: 20
cache:
  enabled: false
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/docs", cfg.DocumentDir)
	assert.Equal(t, "http://kb.internal:8080", cfg.RemoteSource.BaseURL)
	assert.Equal(t, 5, cfg.RemoteSource.TimeoutSeconds)
	assert.Equal(t, 200, cfg.VectorIndex.ChunkSize)
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoadConfigRejectsOverlapNotSmallerThanChunkSize(t *testing.T) {
	path := writeConfig(t, `
vector_index:
  chunk_size: 50
  chunk_overlap: 50
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("/does/not/exist.yaml")
	assert.Error(t, err)
}
