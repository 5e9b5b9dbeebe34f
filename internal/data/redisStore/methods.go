package redisStore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

func (s *Store) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return s.client.Set(ctx, key, value, expiration).Err()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	return s.client.Get(ctx, key).Result()
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

func (s *Store) IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	count, err := s.client.Exists(ctx, key).Result()
	return count > 0, err
}

// ListPushWithTTL appends value, keeps only the newest maxLen entries and
// refreshes the key's expiry atomically. maxLen <= 0 leaves the list untrimmed.
func (s *Store) ListPushWithTTL(ctx context.Context, key string, value interface{}, maxLen int64, ttl time.Duration) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, value)
		if maxLen > 0 {
			pipe.LTrim(ctx, key, -maxLen, -1)
		}
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	return err
}

// ListTail returns at most the last n entries, oldest first.
func (s *Store) ListTail(ctx context.Context, key string, n int64) ([]string, error) {
	if n <= 0 {
		return []string{}, nil
	}
	return s.client.LRange(ctx, key, -n, -1).Result()
}
