package cache

import (
	"context"
	"errors"
	"fmt"
	"reroute-service/internal/domain"
	"reroute-service/internal/platform/obs"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "route:"

// RedisRouteCache stores routes as JSON under "route:<key>" with a TTL.
type RedisRouteCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{Client: client, TTL: ttl}
}

func (r *RedisRouteCache) Get(ctx context.Context, key string) (_ domain.Route, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.redis.Get")(&err)

	if r.Client == nil {
		return domain.Route{}, false, errors.New("route cache: redis client is nil")
	}

	b, err := r.Client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Route{}, false, nil
	}
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache: redis get key=%q: %w", key, err)
	}

	route, err := decodeRoute(b)
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache key=%q: %w", key, err)
	}
	return route, true, nil
}

func (r *RedisRouteCache) Put(ctx context.Context, key string, route domain.Route) (err error) {
	defer obs.Time(ctx, "route.cache.redis.Put")(&err)

	if r.Client == nil {
		return errors.New("route cache: redis client is nil")
	}
	if route.Path.IsEmpty() {
		return errors.New("insert route cache: route has no geometry")
	}

	b, err := encodeRoute(route)
	if err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}
	if err := r.Client.Set(ctx, redisKeyPrefix+key, b, r.TTL).Err(); err != nil {
		return fmt.Errorf("insert route cache: redis set key=%q: %w", key, err)
	}
	return nil
}

// OpenRedis parses a redis:// URL and verifies the connection.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("open redis: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("open redis: ping: %w", err)
	}
	return client, nil
}
