package busregistry

import (
	"context"
	"encoding/json"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Route definitions and their station lists change rarely, so they are kept
// in redis between sessions.
const staticDataExpiration = 12 * time.Hour

type Cache struct {
	Cache *cache.Cache[string]
}

func NewCache(client *redis.Client) *Cache {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(staticDataExpiration))

	return &Cache{
		Cache: cache.New[string](redisStore),
	}
}

func cached[T any](ctx context.Context, c *Cache, key string, fetch func() ([]T, error)) ([]T, error) {
	if c == nil || c.Cache == nil {
		return fetch()
	}

	if value, err := c.Cache.Get(ctx, key); err == nil {
		var items []T
		if err := json.Unmarshal([]byte(value), &items); err == nil {
			return items, nil
		}
	}

	items, err := fetch()
	if err != nil {
		return nil, err
	}

	// Empty answers are not worth remembering, the registry sometimes returns nothing transiently
	if len(items) == 0 {
		return items, nil
	}

	encoded, err := json.Marshal(items)
	if err == nil {
		err = c.Cache.Set(ctx, key, string(encoded))
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to store bus registry response in cache")
	}

	return items, nil
}
