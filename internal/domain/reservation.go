package domain

import (
	"context"
	"time"
)

// SlotReservation guards assigned instants against concurrent scheduling
// runs. Reserve returns false when another run already holds the instant.
// This is best-effort optimistic concurrency: the pure core stays oblivious
// to it, and a single-operator deployment works without any reservation
// backend at all.
type SlotReservation interface {
	Reserve(ctx context.Context, slot time.Time) (bool, error)
	Release(ctx context.Context, slot time.Time) error
}
