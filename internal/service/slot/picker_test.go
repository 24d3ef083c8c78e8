package slot

import (
	"testing"
	"time"
)

func TestPicker_EmptyCandidates(t *testing.T) {
	picker := NewPicker(1)

	if _, ok := picker.Pick(nil); ok {
		t.Error("Pick() on empty candidates returned ok = true")
	}
}

func TestPicker_EarliestIsDefault(t *testing.T) {
	base := time.Date(2024, 1, 3, 14, 0, 0, 0, time.UTC)
	candidates := []time.Time{base, base.AddDate(0, 0, 7), base.AddDate(0, 0, 14)}

	picker := NewPicker(1)
	got, ok := picker.Pick(candidates)
	if !ok {
		t.Fatal("Pick() returned ok = false")
	}
	if !got.Equal(base) {
		t.Errorf("Pick() = %v, want earliest %v", got, base)
	}
}

func TestPicker_RandomTopKStaysWithinK(t *testing.T) {
	base := time.Date(2024, 1, 3, 14, 0, 0, 0, time.UTC)
	candidates := []time.Time{base, base.AddDate(0, 0, 7), base.AddDate(0, 0, 14), base.AddDate(0, 0, 21)}

	picker := NewPicker(3)
	picker.intN = func(n int) int {
		if n != 3 {
			t.Errorf("intN called with n = %d, want 3", n)
		}
		return n - 1
	}

	got, ok := picker.Pick(candidates)
	if !ok {
		t.Fatal("Pick() returned ok = false")
	}
	if !got.Equal(candidates[2]) {
		t.Errorf("Pick() = %v, want %v", got, candidates[2])
	}
}

func TestPicker_TopKClampedToCandidateCount(t *testing.T) {
	base := time.Date(2024, 1, 3, 14, 0, 0, 0, time.UTC)
	candidates := []time.Time{base, base.AddDate(0, 0, 7)}

	picker := NewPicker(10)
	picker.intN = func(n int) int {
		if n != 2 {
			t.Errorf("intN called with n = %d, want 2", n)
		}
		return 0
	}

	if _, ok := picker.Pick(candidates); !ok {
		t.Fatal("Pick() returned ok = false")
	}
}
