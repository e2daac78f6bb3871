// Package cache stores layout results between runs.
//
// Laying out a large component is the slowest step of a collation, and the
// same component is laid out again whenever an assembly is re-collated with
// different output settings. Results are keyed on a hash of the exact layout
// input, so a hit is always safe to reuse.
//
// Three implementations satisfy [Cache]: [FileCache] for local CLI runs,
// [RedisCache] for shared deployments, and [NullCache] when caching is off.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey returns the key of a layout result for the given engine
	// and layout input.
	LayoutKey(engine string, input []byte) string
}

// DefaultKeyer derives unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256(engine, sha256(input))>".
func (DefaultKeyer) LayoutKey(engine string, input []byte) string {
	return hashKey("layout", engine, Hash(input))
}
