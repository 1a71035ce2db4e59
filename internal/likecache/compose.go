package likecache

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Select picks the backing store for the given driver name. "redis" and
// "local" force a backend; anything else ("auto") prefers Redis when a
// client is connected and falls back to the local database otherwise.
func Select(driver string, client *redis.Client, db *gorm.DB) Store {
	switch driver {
	case "redis":
		return NewRedisStore(client)
	case "local":
		return NewLocalStore(db)
	default:
		if client != nil {
			return NewRedisStore(client)
		}
		return NewLocalStore(db)
	}
}
