package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	s, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultChunkSize, s.ChunkSize)
	assert.Equal(t, DefaultChunkOverlap, s.ChunkOverlap)
	assert.Equal(t, ProviderGemini, s.Provider)
	assert.Equal(t, GeminiModelName, s.GenerationModel)
	assert.Equal(t, GoogleEmbeddingModel, s.EmbeddingModel)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contracts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunk_size: 500\nchunk_overlap: 50\nprovider: openai\n"), 0o600))

	t.Setenv("CHUNK_OVERLAP", "100")
	t.Setenv("LLM_PROVIDER", "")

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500, s.ChunkSize)
	assert.Equal(t, 100, s.ChunkOverlap)
	assert.Equal(t, ProviderOpenAI, s.Provider)
	assert.Equal(t, OpenAIModelName, s.GenerationModel)
}

func TestLoad_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contracts.toml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir = \"/tmp/contracts\"\nanswer_cache = false\n"), 0o600))
	t.Setenv("LLM_PROVIDER", "")

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/contracts", s.DataDir)
	assert.False(t, s.AnswerCache)
}

func TestLoad_RejectsBadOverlap(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("CHUNK_SIZE", "100")
	t.Setenv("CHUNK_OVERLAP", "100")

	_, err := Load("")
	require.Error(t, err)
}

func TestLoad_RejectsUnknownFileType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contracts.ini")
	require.NoError(t, os.WriteFile(path, []byte("x=1"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}
