package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStateStore keeps the snapshot as a single redis string
type RedisStateStore struct {
	client *redis.Client
	key    string
}

// NewRedisStateStore connects to redisURL and verifies the connection
func NewRedisStateStore(ctx context.Context, redisURL, key string) (*RedisStateStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewRedisStateStoreWithClient(client, key), nil
}

// NewRedisStateStoreWithClient wraps an existing client
func NewRedisStateStoreWithClient(client *redis.Client, key string) *RedisStateStore {
	return &RedisStateStore{client: client, key: key}
}

// Load retrieves the snapshot payload
func (r *RedisStateStore) Load(ctx context.Context) ([]byte, error) {
	payload, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrStateNotFound
	}
	return payload, err
}

// Save replaces the snapshot payload; the key never expires
func (r *RedisStateStore) Save(ctx context.Context, payload []byte) error {
	return r.client.Set(ctx, r.key, payload, 0).Err()
}

// Clear removes the snapshot
func (r *RedisStateStore) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}

// Close closes the client
func (r *RedisStateStore) Close() error {
	return r.client.Close()
}
