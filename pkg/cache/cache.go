// Package cache stores computed layouts between runs.
//
// A layout only depends on the graph topology and the engine settings, so
// results are keyed by a SHA-256 digest of both (see [Keyer]) and stored as
// opaque bytes. Three backends are provided:
//
//   - [FileCache] for the CLI, under the user cache directory
//   - [RedisCache] for the HTTP server, shared between instances
//   - [NullCache] when caching is disabled
//
// Cache failures are never fatal to callers: the layout engine logs them and
// recomputes.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. Expired entries
	// are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
