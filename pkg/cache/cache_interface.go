package cache

import (
	"context"
	"time"
)

// Cache is the read-through cache contract. Implementations must treat a
// miss as (false, nil), never as an error.
type Cache interface {
	// Get unmarshals the cached value into dest.
	// found = false means a miss and dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value with a TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern
	DeletePattern(ctx context.Context, pattern string) error

	// Ping checks the connection
	Ping(ctx context.Context) error
}
