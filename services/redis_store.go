package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKV is an alternative KVStore backend. Redis MGET maps directly onto
// the mget contract, which also makes this the backend the tests run
// against (via miniredis).
type RedisKV struct {
	Client *redis.Client
}

// NewRedisKV initializes a Redis-backed store. Only addr is mandatory.
func NewRedisKV(addr, password string, db int) *RedisKV {
	opts := &redis.Options{Addr: addr}
	if password != "" {
		opts.Password = password
	}
	if db != 0 {
		opts.DB = db
	}
	return &RedisKV{Client: redis.NewClient(opts)}
}

func (kv *RedisKV) Ping(ctx context.Context) error {
	return kv.Client.Ping(ctx).Err()
}

func (kv *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := kv.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key '%s': %w", key, err)
	}
	return value, nil
}

func (kv *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := kv.Client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key '%s': %w", key, err)
	}
	return nil
}

func (kv *RedisKV) MGet(ctx context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	results, err := kv.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to mget %d keys: %w", len(keys), err)
	}

	values := make([][]byte, len(keys))
	for i, result := range results {
		if s, ok := result.(string); ok {
			values[i] = []byte(s)
		}
	}
	return values, nil
}
