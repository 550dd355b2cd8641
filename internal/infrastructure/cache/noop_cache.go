package cache

import (
	"context"
	"time"
)

// NoopCache satisfies Cache without storing anything. It backs
// deployments that turn caching off entirely.
type NoopCache struct{}

// NewNoopCache creates a new NoopCache
func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

// Get always misses
func (*NoopCache) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, ErrCacheMiss
}

// Set discards the value
func (*NoopCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

// Delete is a no-op
func (*NoopCache) Delete(ctx context.Context, key string) error {
	return nil
}

// DeletePrefix is a no-op
func (*NoopCache) DeletePrefix(ctx context.Context, prefix string) error {
	return nil
}

// Close is a no-op
func (*NoopCache) Close() error {
	return nil
}

var _ Cache = (*NoopCache)(nil)
