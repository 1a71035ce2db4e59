package likecache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"glimpse/internal/observability"
)

const likedKeyPrefix = "liked_posts:%s"

// LikedKey returns the Redis key scoping a user's liked set. Scoping by user
// ID keeps two accounts on the same deployment from seeing each other's like
// state.
func LikedKey(userID string) string {
	return fmt.Sprintf(likedKeyPrefix, userID)
}

// RedisStore persists liked sets in Redis as JSON arrays.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore returns a Store backed by the given Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// GetLiked reads and parses the persisted set. An absent user, missing key,
// transport error, or unparsable value all read as the empty set.
func (s *RedisStore) GetLiked(ctx context.Context, userID string) Set {
	if userID == "" || s.client == nil {
		return Set{}
	}
	payload, err := s.client.Get(ctx, LikedKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Set{}
	}
	if err != nil {
		observability.RedisErrors.WithLabelValues("get").Inc()
		observability.GlobalLogger.Warn("like cache read failed",
			slog.String("user_id", userID), slog.String("error", err.Error()))
		return Set{}
	}
	liked, ok := decode(payload)
	if !ok {
		// Unparsable entries are recovered silently, not reported.
		return Set{}
	}
	return liked
}

// SetLiked serializes and persists the set under the user's key. An absent
// user is a no-op.
func (s *RedisStore) SetLiked(ctx context.Context, userID string, liked Set) {
	if userID == "" || s.client == nil {
		return
	}
	payload, err := encode(liked)
	if err != nil {
		return
	}
	// No TTL: like state survives for the account's lifetime, not a window.
	if err := s.client.Set(ctx, LikedKey(userID), payload, 0).Err(); err != nil {
		observability.RedisErrors.WithLabelValues("set").Inc()
		observability.GlobalLogger.Warn("like cache write failed",
			slog.String("user_id", userID), slog.String("error", err.Error()))
	}
}
