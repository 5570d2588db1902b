// Package tokencache tracks the set of currently valid issued tokens.
// A token must be present here to pass the bearer guard, which makes
// revocation possible before the token's own signature expiry.
package tokencache

import (
	"context"
	"time"
)

// Cache is the process-wide set of issued token strings. Implementations
// must be safe for concurrent use. A non-positive TTL keeps the entry
// until it is explicitly deleted.
type Cache interface {
	Set(ctx context.Context, token string, ttl time.Duration) error
	Exists(ctx context.Context, token string) (bool, error)
	Delete(ctx context.Context, token string) error
}
