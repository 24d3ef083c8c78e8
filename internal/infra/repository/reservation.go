package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/reddwatch/postqueue/internal/domain"
)

const (
	slotReservationKeyPrefix = "schedule:slot:"

	// Reservations only need to outlive the window in which two operator
	// runs can overlap; the persisted post is the durable record.
	minReservationTTL = 1 * time.Hour
)

type slotReservation struct {
	client *redis.Client
}

func NewSlotReservation(client *redis.Client) domain.SlotReservation {
	return &slotReservation{client: client}
}

// Reserve claims an instant with SetNX. A false return means another run
// holds the instant and the caller should move to its next candidate.
func (r *slotReservation) Reserve(ctx context.Context, slot time.Time) (bool, error) {
	key := slotReservationKeyPrefix + domain.FormatSlot(slot)

	ttl := time.Until(slot) + minReservationTTL
	if ttl < minReservationTTL {
		ttl = minReservationTTL
	}

	return r.client.SetNX(ctx, key, 1, ttl).Result()
}

// Release drops a reservation whose assignment could not be persisted.
func (r *slotReservation) Release(ctx context.Context, slot time.Time) error {
	key := slotReservationKeyPrefix + domain.FormatSlot(slot)
	return r.client.Del(ctx, key).Err()
}
