package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps transport-level failures from the Redis client.
var ErrRedisUnavailable = errors.New("storage: redis unavailable")

// RedisStorage is a Storage backed by a Redis instance, for deployments
// where the consuming client runs server-side and the session mirror must
// survive process replacement. Keys are namespaced under a prefix.
type RedisStorage struct {
	client *redis.Client
	prefix string
}

// NewRedisStorage wraps an existing client. The prefix defaults to "gs"
// when empty.
func NewRedisStorage(client *redis.Client, prefix string) (*RedisStorage, error) {
	if client == nil {
		return nil, errors.New("storage: nil redis client")
	}
	if prefix == "" {
		prefix = "gs"
	}
	return &RedisStorage{client: client, prefix: prefix}, nil
}

func (r *RedisStorage) key(key string) string {
	return r.prefix + ":" + key
}

// Get returns the stored value or ErrNotFound.
func (r *RedisStorage) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return value, nil
}

// Set writes or overwrites the value for key. No TTL: the record lives until
// the session store removes it.
func (r *RedisStorage) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Remove deletes key; absent keys are a no-op.
func (r *RedisStorage) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
