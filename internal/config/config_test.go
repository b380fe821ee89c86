package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{
		"port": 8080,
		"jwt_secret": "s",
		"database": {"host": "localhost", "port": 5432, "user": "u", "password": "p", "db_name": "d"},
		"file_store": {"type": "local", "data": {"dir": "/tmp/blobs"}}
	}`))
	require.NoError(t, err)
	require.Equal(t, 72, cfg.JWTTTLHours)
	require.Equal(t, 1000, cfg.RAG.ChunkSize)
	require.Equal(t, 100, *cfg.RAG.ChunkOverlap)
	require.Equal(t, 10, cfg.RAG.SearchLimit)
	require.Equal(t, "case_chunks", cfg.RAG.ChunkTable)
	require.Equal(t, 60, cfg.AI.TimeoutSeconds)
	require.Equal(t, 2, *cfg.ChatRateLimitSeconds)
}

func TestLoadKeepsExplicitZeroes(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{
		"port": 8080,
		"jwt_secret": "s",
		"chat_rate_limit_seconds": 0,
		"database": {"host": "localhost", "port": 5432, "user": "u", "password": "p", "db_name": "d"},
		"file_store": {"type": "local", "data": {"dir": "/tmp/blobs"}},
		"rag": {"chunk_size": 500, "chunk_overlap": 0}
	}`))
	require.NoError(t, err)
	require.Equal(t, 0, *cfg.RAG.ChunkOverlap)
	require.Equal(t, 0, *cfg.ChatRateLimitSeconds)
}

func TestLoadRejectsNegativeOverlap(t *testing.T) {
	_, err := Load(writeConfig(t, `{
		"port": 8080,
		"jwt_secret": "s",
		"database": {"host": "h"},
		"file_store": {"type": "local"},
		"rag": {"chunk_size": 500, "chunk_overlap": -1}
	}`))
	require.Error(t, err)
}

func TestLoadRejectsMissingPort(t *testing.T) {
	_, err := Load(writeConfig(t, `{"jwt_secret": "s"}`))
	require.Error(t, err)
}

func TestLoadRejectsOverlapNotSmallerThanChunkSize(t *testing.T) {
	_, err := Load(writeConfig(t, `{
		"port": 8080,
		"jwt_secret": "s",
		"database": {"host": "h"},
		"file_store": {"type": "local"},
		"rag": {"chunk_size": 100, "chunk_overlap": 100}
	}`))
	require.Error(t, err)
}

func TestLoadRequiresModelWithProvider(t *testing.T) {
	_, err := Load(writeConfig(t, `{
		"port": 8080,
		"jwt_secret": "s",
		"database": {"host": "h"},
		"file_store": {"type": "local"},
		"ai": {"provider": "openai"}
	}`))
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
