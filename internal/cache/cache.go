package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache defines the interface for caching operations
type Cache interface {
	// Get retrieves a value from the cache
	// Returns the value and a boolean indicating whether the key was found
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set adds a value to the cache with the specified expiration
	// If expiration is 0, the item never expires (but may be evicted)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)

	// Delete removes a key from the cache
	Delete(ctx context.Context, key string)

	// DeleteByPrefix removes all keys with the given prefix
	DeleteByPrefix(ctx context.Context, prefix string)

	// Flush removes all items from the cache
	Flush(ctx context.Context)
}

// Predefined cache key prefixes for different entity types
const (
	PrefixUser         = "user:v1:"
	PrefixSubscription = "subscription:v1:"
	// PrefixInvoiceCount keys the per-user monthly invoice counter. The
	// counter is display-only: plan-limit decisions always re-count from the
	// database.
	PrefixInvoiceCount = "invoicecount:v1:"
)

// GenerateKey builds a cache key from a prefix and parts
func GenerateKey(prefix string, parts ...interface{}) string {
	key := prefix
	for i, part := range parts {
		if i > 0 {
			key += ":"
		}
		key += fmt.Sprintf("%v", part)
	}
	return key
}
