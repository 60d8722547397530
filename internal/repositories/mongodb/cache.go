package mongodb

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheService is the slice of the Redis cache the repositories use:
// cache-aside reads plus the geo index behind the live resource map.
// Satisfied by *cache.RedisCache.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	GeoAdd(ctx context.Context, key string, location *redis.GeoLocation) error
	GeoRadius(ctx context.Context, key string, longitude, latitude float64, query *redis.GeoRadiusQuery) ([]redis.GeoLocation, error)
}

const (
	incidentCacheTTL = 5 * time.Minute
	resourceCacheTTL = 30 * time.Second
)
