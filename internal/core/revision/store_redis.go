// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package revision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/libris/internal/platform/constants"
)

// RedisCache implements [Cache] using Redis.
//
// Entries are JSON documents keyed by revision id. An entry depends only on the
// revision and the revisions before it, so the TTL only bounds memory.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a new Redis-backed assembled-revision cache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func cacheKey(revisionID int) string {
	return fmt.Sprintf("%s%d", constants.RedisPrefixAssembledRevision, revisionID)
}

/*
Get retrieves an assembled entry.

Returns:
  - *Assembled: The cached entry
  - bool: false on a cache miss
  - error: Connectivity or decoding errors
*/
func (cache *RedisCache) Get(ctx context.Context, revisionID int) (*Assembled, bool, error) {
	payload, err := cache.client.Get(ctx, cacheKey(revisionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis_revision_get_failed: %w", err)
	}

	var assembled Assembled
	if err := json.Unmarshal(payload, &assembled); err != nil {
		return nil, false, fmt.Errorf("redis_revision_decode_failed: %w", err)
	}

	return &assembled, true, nil
}

// Set stores an assembled entry with the configured TTL.
func (cache *RedisCache) Set(ctx context.Context, revisionID int, assembled *Assembled) error {
	payload, err := json.Marshal(assembled)
	if err != nil {
		return fmt.Errorf("redis_revision_encode_failed: %w", err)
	}

	if err := cache.client.Set(ctx, cacheKey(revisionID), payload, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis_revision_set_failed: %w", err)
	}

	return nil
}
