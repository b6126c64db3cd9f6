package routing

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/cityhop/route-engine/pkg/logger"
	redisclient "github.com/cityhop/route-engine/pkg/redis"
)

// RedisCache is a RouteCache backed by Redis, letting multiple engine
// instances share resolved routes. Redis failures degrade to cache misses;
// resolution never fails because the cache is down.
type RedisCache struct {
	client redisclient.ClientInterface
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed route cache with the given TTL
func NewRedisCache(client redisclient.ClientInterface, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get fetches and decodes the cached route for key
func (c *RedisCache) Get(ctx context.Context, key string) (*Route, bool) {
	raw, err := c.client.GetString(ctx, key)
	if err != nil {
		if !redisclient.IsNotFound(err) {
			logger.WithContext(ctx).Debug("route cache read failed",
				zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var route Route
	if err := json.Unmarshal([]byte(raw), &route); err != nil {
		logger.WithContext(ctx).Warn("route cache entry corrupt",
			zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &route, true
}

// Set encodes and stores a route under key with the configured TTL
func (c *RedisCache) Set(ctx context.Context, key string, route *Route) {
	data, err := json.Marshal(route)
	if err != nil {
		logger.WithContext(ctx).Warn("route cache encode failed",
			zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.client.SetWithExpiration(ctx, key, data, c.ttl); err != nil {
		logger.WithContext(ctx).Debug("route cache write failed",
			zap.String("key", key), zap.Error(err))
	}
}
