package store

import (
	"context"
	"sync"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
)

// InMemoryHistoryStore keeps only the most recent window of entries per
// document.
type InMemoryHistoryStore struct {
	lock    *sync.RWMutex
	history map[string][]commonModels.HistoryEntry
	window  int
}

func InitInMemoryHistoryStore() *InMemoryHistoryStore {
	return &InMemoryHistoryStore{
		lock:    new(sync.RWMutex),
		history: make(map[string][]commonModels.HistoryEntry),
		window:  config.HistoryWindow,
	}
}

func (store *InMemoryHistoryStore) Append(ctx context.Context, documentId string, entry commonModels.HistoryEntry) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	entries := append(store.history[documentId], entry)
	if len(entries) > store.window {
		entries = entries[len(entries)-store.window:]
	}
	store.history[documentId] = entries
	return nil
}

func (store *InMemoryHistoryStore) Recent(ctx context.Context, documentId string, n int) ([]commonModels.HistoryEntry, error) {
	store.lock.RLock()
	defer store.lock.RUnlock()
	entries := store.history[documentId]
	n = max(0, min(n, len(entries)))
	out := make([]commonModels.HistoryEntry, 0, n)
	for i := len(entries) - 1; i >= len(entries)-n; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}

func (store *InMemoryHistoryStore) Clear(ctx context.Context, documentId string) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	delete(store.history, documentId)
	return nil
}
