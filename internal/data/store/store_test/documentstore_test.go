package store_test

import (
	"testing"

	"github.com/akolanti/ContractRAG/internal/data/store"
	"github.com/akolanti/ContractRAG/internal/data/storetest"
	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
)

func TestInMemoryDocumentStore(t *testing.T) {
	storetest.RunDocumentStore(t, func(t *testing.T) commonModels.DocumentStore {
		return store.InitInMemoryDocumentStore()
	})
}
