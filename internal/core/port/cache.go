package port

import (
	"context"
	"time"

	"podops/internal/core/domain"
)

// IdempotencyCache stores transition results keyed by idempotency key so a
// replayed request returns an identical result without re-executing side
// effects. Entries expire after their TTL and are never persisted durably.
// The implementation is a deployment-time decision: in-memory for a single
// instance, Redis for a horizontally scaled one.
type IdempotencyCache interface {
	// Get returns the cached result for the key, with found=false on a miss
	// or an expired entry.
	Get(ctx context.Context, key string) (res *domain.TransitionResult, found bool, err error)

	// Set stores the result under the key for the given TTL.
	Set(ctx context.Context, key string, res *domain.TransitionResult, ttl time.Duration) error
}

// EventPublisher fans transition events out to the notification layer.
// Dispatch failures are logged by callers, never surfaced to API clients.
type EventPublisher interface {
	Publish(ctx context.Context, evt domain.Event) error
}
