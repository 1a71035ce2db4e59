package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const SessionKeyPrefix = "session:%s"

// DefaultSessionTTL bounds how stale a cached profile lookup can get.
const DefaultSessionTTL = 30 * time.Second

// SessionKey is the cache key for an authenticated caller's profile, keyed by
// a digest of the bearer token rather than the token itself.
func SessionKey(tokenDigest string) string {
	return fmt.Sprintf(SessionKeyPrefix, tokenDigest)
}

// GetJSON loads the key into dest. Returns false on miss, decode failure, or
// when Redis is unavailable; the caller falls through to the source of truth.
func GetJSON(ctx context.Context, key string, dest any) bool {
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		client.Del(ctx, key)
		return false
	}
	return true
}

// SetJSON stores value under key with the given TTL. Failures are swallowed;
// a cold cache is never an error.
func SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	client.Set(ctx, key, raw, ttl)
}

// CacheAside reads through the cache: on miss it calls load, stores the
// result, and returns it.
func CacheAside[T any](ctx context.Context, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	var cached T
	if GetJSON(ctx, key, &cached) {
		return cached, nil
	}
	value, err := load()
	if err != nil {
		return value, err
	}
	SetJSON(ctx, key, value, ttl)
	return value, nil
}

// Invalidate removes a key. Missing keys and Redis outages are non-events.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		if err := client.Del(ctx, key).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return
		}
	}
}
