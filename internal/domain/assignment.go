package domain

import (
	"time"
)

// Assignment binds a post to the slot chosen for it within one run.
type Assignment struct {
	PostID string    `json:"post_id"`
	Slot   time.Time `json:"slot"`
}

// SlotString returns the canonical serialization of the assigned slot.
func (a Assignment) SlotString() string {
	return FormatSlot(a.Slot)
}
