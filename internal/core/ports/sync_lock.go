package ports

import (
	"context"
	"time"
)

// SyncLock is a lease shared by all replicas, so only one mirror sync runs at a time.
type SyncLock interface {
	// TryLock returns ok=false when another holder has the lease. unlock is safe to call once.
	TryLock(ctx context.Context, name string, ttl time.Duration) (unlock func(context.Context), ok bool, err error)
}

// IdempotencyStore remembers which order an Idempotency-Key produced.
type IdempotencyStore interface {
	// Claim reserves key. When it was already claimed, existing holds the order id recorded for it,
	// or is empty while the first request is still running.
	Claim(ctx context.Context, key string) (claimed bool, existing string, err error)
	Complete(ctx context.Context, key, orderID string) error
	Abandon(ctx context.Context, key string) error
}
