package postgresStore

import (
	"context"
	"os"
	"testing"

	"github.com/akolanti/ContractRAG/internal/data/storetest"
	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
	"github.com/stretchr/testify/require"
)

// Runs against a real database only when TEST_DATABASE_URL points at one
// with the pgvector extension available.
func TestPostgresDocumentStore(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	storetest.RunDocumentStore(t, func(t *testing.T) commonModels.DocumentStore {
		s, err := New(context.Background(), url)
		require.NoError(t, err)
		t.Cleanup(func() {
			_, _ = s.pool.Exec(context.Background(), `TRUNCATE documents CASCADE`)
			_ = s.Close()
		})
		return s
	})
}
