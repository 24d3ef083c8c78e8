package repository

import (
	"context"
	"testing"
	"time"

	"github.com/reddwatch/postqueue/internal/testutil"
)

func TestSlotReservationReserveAndRelease(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	reservation := NewSlotReservation(client)
	slot := time.Date(2024, 1, 3, 14, 0, 0, 0, time.UTC)

	ok, err := reservation.Reserve(ctx, slot)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if !ok {
		t.Fatal("first Reserve returned false, want true")
	}

	// A second run claiming the same instant must lose.
	ok, err = reservation.Reserve(ctx, slot)
	if err != nil {
		t.Fatalf("second Reserve: %v", err)
	}
	if ok {
		t.Error("second Reserve returned true, want false")
	}

	// A different instant is independent.
	ok, err = reservation.Reserve(ctx, slot.Add(time.Hour))
	if err != nil {
		t.Fatalf("Reserve on other slot: %v", err)
	}
	if !ok {
		t.Error("Reserve on other slot returned false, want true")
	}

	if err := reservation.Release(ctx, slot); err != nil {
		t.Fatalf("Release: %v", err)
	}

	ok, err = reservation.Reserve(ctx, slot)
	if err != nil {
		t.Fatalf("Reserve after Release: %v", err)
	}
	if !ok {
		t.Error("Reserve after Release returned false, want true")
	}
}
