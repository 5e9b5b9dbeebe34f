package store

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/data/redisStore"
	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
)

const historyKeyPrefix = "history:"

type RedisHistoryStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

// GetRedisHistoryStore returns nil when Redis is unavailable.
func GetRedisHistoryStore(ctx context.Context, opts redisStore.Options) *RedisHistoryStore {
	s := redisStore.GetRedisStore(ctx, opts, config.RedisHistoryStore)
	if s == nil {
		return nil
	}
	return NewRedisHistoryStore(s)
}

// NewRedisHistoryStore keeps the last config.HistoryWindow entries per document.
func NewRedisHistoryStore(store *redisStore.Store) *RedisHistoryStore {
	return &RedisHistoryStore{
		store:  store,
		logger: logger_i.NewLogger("HistoryStore"),
	}
}

func (s *RedisHistoryStore) Append(ctx context.Context, documentId string, entry commonModels.HistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	err = s.store.ListPushWithTTL(ctx, historyKeyPrefix+documentId, data, config.HistoryWindow, config.RedisHistoryStoreTTL)
	if err != nil {
		s.logger.WithTrace(ctx).Error("error saving history", "documentId", documentId, "error", err)
	}
	return err
}

// Recent returns up to n entries, newest first.
func (s *RedisHistoryStore) Recent(ctx context.Context, documentId string, n int) ([]commonModels.HistoryEntry, error) {
	raw, err := s.store.ListTail(ctx, historyKeyPrefix+documentId, int64(n))
	if err != nil {
		s.logger.WithTrace(ctx).Error("Error getting history", "documentId", documentId, "error", err)
		return nil, err
	}

	entries := make([]commonModels.HistoryEntry, 0, len(raw))
	for _, item := range raw {
		var e commonModels.HistoryEntry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			s.logger.Warn("Skipping unreadable history entry", "documentId", documentId, "error", err)
			continue
		}
		entries = append(entries, e)
	}
	slices.Reverse(entries)
	return entries, nil
}

func (s *RedisHistoryStore) Clear(ctx context.Context, documentId string) error {
	return s.store.Del(ctx, historyKeyPrefix+documentId)
}
