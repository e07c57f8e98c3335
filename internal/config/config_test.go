package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, 810, cfg.Chunker.ChunkSize)
	assert.Equal(t, 150, cfg.Chunker.Overlap())
	assert.Equal(t, []string{"\n\n", "\n", ".", " ", ""}, cfg.Chunker.Separators)
	assert.Equal(t, 4, cfg.Retriever.TopK)
	assert.Equal(t, "memory", cfg.VectorStore.Type)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := defaultConfig()
	cfg.Server.Addr = ":9000"
	cfg.VectorStore.Type = "sqlite"
	cfg.VectorStore.SQLite = &SQLiteConfig{Path: "test.db"}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", loaded.Server.Addr)
	assert.Equal(t, "sqlite", loaded.VectorStore.Type)
	require.NotNil(t, loaded.VectorStore.SQLite)
	assert.Equal(t, "test.db", loaded.VectorStore.SQLite.Path)
	assert.Equal(t, "gpt-4o-mini", loaded.LLM.Model)
}

func TestLoad_PartialFileGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := &AppConfig{}
	cfg.Chunker.ChunkSize = 100
	overlap := 20
	cfg.Chunker.ChunkOverlap = &overlap
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100, loaded.Chunker.ChunkSize)
	assert.Equal(t, 20, loaded.Chunker.Overlap())
	assert.Equal(t, "text-embedding-3-small", loaded.Embedder.Model)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, loaded.Server.CORSOrigins)
}

func TestLoad_ExplicitZeroOverlapKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunker:\n  chunk_overlap: 0\n"), 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Chunker.Overlap())
	assert.Equal(t, 810, loaded.Chunker.ChunkSize)
}
