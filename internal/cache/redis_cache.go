package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/redis/go-redis/v9"
)

const maxUpdateAttempts = 5

type redisCache struct {
	client *redis.Client
	cfg    *config.CacheConfig
}

// NewRedisCache returns a Cache on top of a shared client. Close does not
// close the client; its owner does. Keys are prefixed with cfg.Namespace when
// it is set so several environments can share one Redis database.
func NewRedisCache(client *redis.Client, cfg *config.CacheConfig) Cache {
	return &redisCache{client: client, cfg: cfg}
}

func (r *redisCache) key(key string) string {
	if r.cfg.Namespace == "" {
		return key
	}

	return Key(r.cfg.Namespace, key)
}

func (r *redisCache) Get(ctx context.Context, key string, value any) (bool, error) {

	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}

		return false, fmt.Errorf("failed to get key %s from redis: %w", key, err)
	}

	if err := json.Unmarshal(data, value); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache data for key %s: %w", key, err)
	}

	return true, nil
}

func (r *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
	}

	if ttl <= 0 {
		ttl = r.cfg.DefaultTTL
	}

	if err := r.client.Set(ctx, r.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s in redis: %w", key, err)
	}

	return nil
}

func (r *redisCache) Delete(ctx context.Context, key string) error {

	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s from redis: %w", key, err)
	}

	return nil
}

func (r *redisCache) Update(ctx context.Context, key string, ttl time.Duration, fn func(current []byte) ([]byte, error)) error {

	if ttl <= 0 {
		ttl = r.cfg.DefaultTTL
	}

	fullKey := r.key(key)

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, fullKey).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("failed to get key %s from redis: %w", key, err)
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		// commits only if nobody wrote the key since WATCH
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if next == nil {
				pipe.Del(ctx, fullKey)
			} else {
				pipe.Set(ctx, fullKey, next, ttl)
			}

			return nil
		})

		return err
	}

	for range maxUpdateAttempts {
		err := r.client.Watch(ctx, txf, fullKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to update key %s in redis: %w", key, err)
		}

		return nil
	}

	return fmt.Errorf("failed to update key %s: %w", key, ErrUpdateConflict)
}

func (r *redisCache) Close() error {
	return nil
}
