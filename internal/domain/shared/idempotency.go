package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers request keys that have already been claimed
type IdempotencyStore interface {
	// MarkProcessed claims key for ttl.
	// Returns true if the key was newly claimed, false if it was already taken
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key has already been claimed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release drops a claim so the key can be used again
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}
