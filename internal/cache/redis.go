package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/attendance-dashboard/internal/model"
)

// RedisStore shares the parsed table between dashboard replicas. Expiry is
// delegated to Redis through EX.
type RedisStore struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewRedisStore creates a RedisStore under key.
func NewRedisStore(rdb *redis.Client, key string, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, key: key, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context) (*model.Table, bool, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get cached dataset: %w", err)
	}

	var t model.Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached dataset: %w", err)
	}
	return &t, true, nil
}

func (s *RedisStore) Put(ctx context.Context, t *model.Table) error {
	if s.ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache dataset: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear cached dataset: %w", err)
	}
	return nil
}
