package contract

import (
	"context"

	"docuchat-be/internal/entity"
)

// CacheRepository owns "cache:<digest>". Pure lookup/store; the only
// invalidation is the TTL.
type CacheRepository interface {
	// Get returns nil without error on a miss.
	Get(ctx context.Context, key string) (*entity.CacheEntry, error)

	Put(ctx context.Context, prompt, contextText, response string) (*entity.CacheEntry, error)

	// Key is the deterministic digest of (prompt, context).
	Key(prompt, contextText string) string
}
