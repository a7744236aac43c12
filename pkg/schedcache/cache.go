package schedcache

import (
	"context"
	"time"
)

// Cache stores and retrieves Plans by key. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get retrieves a Plan. found is false on a clean miss; err is
	// non-nil only when the backend itself failed.
	Get(ctx context.Context, key string) (plan Plan, found bool, err error)

	// Set stores a Plan with the given time-to-live. A zero ttl means no
	// expiration.
	Set(ctx context.Context, key string, plan Plan, ttl time.Duration) error

	// Delete removes a Plan, if present.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// NullCache never stores anything. It's the default when no cache
// backend is configured, and useful in tests that want real scheduling
// work to run every time.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return &NullCache{} }

func (NullCache) Get(ctx context.Context, key string) (Plan, bool, error) {
	return Plan{}, false, nil
}

func (NullCache) Set(ctx context.Context, key string, plan Plan, ttl time.Duration) error {
	return nil
}

func (NullCache) Delete(ctx context.Context, key string) error { return nil }

func (NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
