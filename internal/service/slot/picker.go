package slot

import (
	"math/rand/v2"
	"time"
)

// Picker selects one slot from a ranked candidate list.
//
// With topK <= 1 the pick is the earliest candidate, which is the canonical
// contract the bulk path relies on. A larger topK picks uniformly among the
// first topK candidates, reproducing the variety the original operator UI
// offered. That randomness is presentation-layer only and must never leak
// into bulk assignment.
type Picker struct {
	topK int
	intN func(n int) int
}

func NewPicker(topK int) *Picker {
	return &Picker{
		topK: topK,
		intN: rand.IntN,
	}
}

// Pick returns the chosen slot, or false when the candidate list is empty.
func (p *Picker) Pick(candidates []time.Time) (time.Time, bool) {
	if len(candidates) == 0 {
		return time.Time{}, false
	}

	if p.topK <= 1 {
		return candidates[0], true
	}

	k := p.topK
	if k > len(candidates) {
		k = len(candidates)
	}

	return candidates[p.intN(k)], true
}
