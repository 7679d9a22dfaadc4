package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"artlink/internal/observability"

	"github.com/redis/go-redis/v9"
)

// ListTTL bounds how long a cached list page lives even without writes.
const ListTTL = 5 * time.Minute

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	c := GetClient()
	if c == nil {
		return false, nil
	}
	s, err := c.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	c := GetClient()
	if c == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first, on miss it calls fetch (which should populate dest),
// then stores the result in Redis with ttl. Cache errors never fail the call.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) (hit bool, err error) {
	found, err := GetJSON(ctx, key, dest)
	if err == nil && found {
		return true, nil
	}

	if err := fetch(); err != nil {
		return false, err
	}

	_ = SetJSON(ctx, key, dest, ttl)
	return false, nil
}

func generationKey(collection string) string {
	return "artlink:gen:" + collection
}

// ListKey returns the cache key for one filtered list of a collection. The key
// embeds the collection's generation, so InvalidateCollection retires every
// cached list of that collection at once.
func ListKey(ctx context.Context, collection, suffix string) (string, error) {
	c := GetClient()
	if c == nil {
		return "", errors.New("cache: no redis client")
	}

	ctx, span := observability.TraceRedisOperation(ctx, "get_generation")
	gen, err := c.Get(ctx, generationKey(collection)).Int64()
	if errors.Is(err, redis.Nil) {
		gen, err = 0, nil
	}
	observability.EndSpan(span, err)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("artlink:list:%s:%d:%s", collection, gen, suffix), nil
}

// InvalidateCollection bumps the collection generation. It is a no-op without a client.
func InvalidateCollection(ctx context.Context, collection string) error {
	c := GetClient()
	if c == nil {
		return nil
	}
	ctx, span := observability.TraceRedisOperation(ctx, "incr_generation")
	err := c.Incr(ctx, generationKey(collection)).Err()
	observability.EndSpan(span, err)
	return err
}
