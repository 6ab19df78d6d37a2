// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis

import (
	stdctx "context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON-encoded values with a fixed TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache creates a [Cache] whose entries expire after ttl.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

/*
Get decodes the cached value for key into target.

Returns:
  - bool: false on a cache miss
  - error: Redis or decode failure
*/
func (cache *Cache) Get(context stdctx.Context, key string, target any) (bool, error) {
	raw, err := cache.client.Get(context, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis: failed to get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return false, fmt.Errorf("redis: failed to decode %s: %w", key, err)
	}
	return true, nil
}

// Set encodes value as JSON and stores it with the cache TTL.
func (cache *Cache) Set(context stdctx.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis: failed to encode %s: %w", key, err)
	}

	if err := cache.client.Set(context, key, raw, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis: failed to set %s: %w", key, err)
	}
	return nil
}

// Delete drops the given keys. Missing keys are not an error.
func (cache *Cache) Delete(context stdctx.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := cache.client.Del(context, keys...).Err(); err != nil {
		return fmt.Errorf("redis: failed to delete keys: %w", err)
	}
	return nil
}
