package schedcache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	schedcacheerrors "github.com/kjhansen/streamcapture/pkg/errors"
)

// RedisCache stores Plans in Redis as JSON, so a fleet of optimizer
// processes sharing one graph corpus can reuse each other's computed
// schedules instead of recomputing them independently.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the Redis instance at addr.
func NewRedisCache(addr string) *RedisCache {
	return &RedisCache{client: redis.NewClient(&redis.Options{Addr: addr})}
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, key string) (Plan, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Plan{}, false, nil
	}
	if err != nil {
		return Plan{}, false, schedcacheerrors.Wrap(schedcacheerrors.ErrCodeUnavailable, err, "redis get %q", key)
	}

	var plan Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		// A corrupt entry is treated as a miss rather than a hard
		// failure; the caller just recomputes the schedule.
		return Plan{}, false, nil
	}
	return plan, true, nil
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, key string, plan Plan, ttl time.Duration) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return schedcacheerrors.Wrap(schedcacheerrors.ErrCodeInternal, err, "marshal plan for %q", key)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return schedcacheerrors.Wrap(schedcacheerrors.ErrCodeUnavailable, err, "redis set %q", key)
	}
	return nil
}

// Delete implements Cache.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return schedcacheerrors.Wrap(schedcacheerrors.ErrCodeUnavailable, err, "redis del %q", key)
	}
	return nil
}

// Close implements Cache.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ Cache = (*RedisCache)(nil)
