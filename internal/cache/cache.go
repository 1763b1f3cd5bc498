// Package cache provides the TTL cache layer shared by content extraction and
// feed generation. A Store holds expiring entries; a Loader reads through a
// Store with per-key request coalescing.
package cache

import (
	"context"
	"time"
)

// Store is a TTL key/value store. Implementations must be safe for concurrent
// use. A lookup past an entry's expiry reports the key absent; writes always
// replace the whole entry.
type Store interface {
	// Get returns the stored value and whether the key was present and live.
	Get(ctx context.Context, key string) (any, bool, error)
	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Delete removes key if present.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the store.
	Close() error
}
