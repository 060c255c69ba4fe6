// Package cache stores decoded query results between requests.
package cache

import (
	"context"
	"time"
)

// Cache keeps JSON-encoded values by key. Implementations must be safe for
// concurrent use.
type Cache interface {
	// Get decodes the value stored under key into dest. The bool is false on a miss.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// DeletePrefix removes every key starting with prefix
	DeletePrefix(ctx context.Context, prefix string) error
}
