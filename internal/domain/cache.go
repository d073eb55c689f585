package domain

import (
	"context"
	"time"
)

// CacheError is a sentinel error type for cache lookups.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss means the key holds no value.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache is a string key/value store with per-key expiry, used to keep
// serialized quiz records close to the API.
type Cache interface {
	// Get returns ErrCacheMiss for an absent or expired key.
	Get(ctx context.Context, key string) (string, error)
	// Set overwrites key. A zero ttl keeps the value until evicted.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Ping(ctx context.Context) error
}
