package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// DefaultHistoryKey is the Redis key holding the history snapshot.
const DefaultHistoryKey = "health-monitor:history"

// HistoryRedis stores the history snapshot under a single Redis key without TTL.
type HistoryRedis struct {
	client *redis.Client
	key    string
}

func NewHistoryRedis(client *redis.Client, key string) *HistoryRedis {
	if key == "" {
		key = DefaultHistoryKey
	}
	return &HistoryRedis{client: client, key: key}
}

// Ensure implementation of HistoryRepo interface at compile time.
var _ HistoryRepo = (*HistoryRedis)(nil)

// SaveHistory overwrites the snapshot key.
func (r *HistoryRedis) SaveHistory(ctx context.Context, snapshot []byte) error {
	if err := r.client.Set(ctx, r.key, snapshot, 0).Err(); err != nil {
		return fmt.Errorf("save history to redis: %w", err)
	}
	return nil
}

// LoadHistory reads the snapshot key; (nil, nil) if it does not exist.
func (r *HistoryRedis) LoadHistory(ctx context.Context) ([]byte, error) {
	b, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load history from redis: %w", err)
	}
	return b, nil
}
