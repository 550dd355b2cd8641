package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is not present in the cache
var ErrCacheMiss = errors.New("cache miss")

// Cache is a byte-oriented cache used for storefront read models such
// as product listings and dashboard stats. Values are JSON blobs owned
// by the caller.
type Cache interface {
	// Get returns the value for key, or ErrCacheMiss
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with a TTL. Zero TTL means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes all keys with the given prefix
	DeletePrefix(ctx context.Context, prefix string) error

	// Close releases cache resources
	Close() error
}
