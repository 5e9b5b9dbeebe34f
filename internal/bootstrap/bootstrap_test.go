package bootstrap

import (
	"context"
	"testing"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/data/sqliteStore"
	"github.com/akolanti/ContractRAG/internal/data/store"
	"github.com/akolanti/ContractRAG/internal/domain/errorModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offlineSettings(t *testing.T) *config.Settings {
	s := config.Defaults()
	s.DataDir = t.TempDir()
	s.RedisAddr = "127.0.0.1:1"
	s.AnswerCache = false
	return s
}

func TestNew_DegradesWithoutExternalServices(t *testing.T) {
	app, err := New(context.Background(), offlineSettings(t))
	require.NoError(t, err)
	defer app.Close()

	assert.IsType(t, &sqliteStore.Store{}, app.Documents)
	assert.IsType(t, &store.InMemoryJobStore{}, app.Jobs)
	assert.IsType(t, &store.InMemoryHistoryStore{}, app.History)

	docs, err := app.Rag.ListDocuments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)

	_, err = app.Rag.Ask(context.Background(), "123e4567-e89b-12d3-a456-426614174000", "term?", 5)
	assert.True(t, errorModel.Is(err, errorModel.KindNotFound))
}

func TestNew_UnreachablePostgresFails(t *testing.T) {
	s := offlineSettings(t)
	s.DatabaseURL = "postgres://contracts@127.0.0.1:1/contracts?connect_timeout=1"

	_, err := New(context.Background(), s)
	assert.Error(t, err)
}

func TestNew_BadChunkSettings(t *testing.T) {
	s := offlineSettings(t)
	s.ChunkOverlap = s.ChunkSize

	_, err := New(context.Background(), s)
	assert.Error(t, err)
}
