package mines

import (
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Move proposes one simultaneous reveal/mark request per slot of the batch.
//
// reveals and marks are full-batch cell masks (n*Size() booleans, same
// layout as every other plane); either may be nil for "no cells". Cells of
// inactive slots are ignored. For each active slot the request is first
// recorded (see FatalCells), then judged as a whole:
//
//   - Invalid if it reveals any hazard cell or marks any non-hazard cell.
//     The slot is deactivated and none of its cells change.
//   - Valid otherwise: the requested cells are merged (set union) into the
//     revealed and marked planes. Re-revealing or re-marking a cell is a
//     no-op, never an error.
//
// Finally won is recomputed for every slot of the batch and newly won slots
// are deactivated. The result holds one boolean per slot that was active
// when Move was called, in increasing slot order: true where the request was
// valid.
func (b *Board) Move(reveals, marks []bool) ([]bool, error) {
	cells := b.n * b.size
	if reveals != nil && len(reveals) != cells {
		return nil, errors.Errorf("reveal mask has %d cells, batch has %d", len(reveals), cells)
	}
	if marks != nil && len(marks) != cells {
		return nil, errors.Errorf("mark mask has %d cells, batch has %d", len(marks), cells)
	}

	accepted := make([]bool, 0, b.NumActive())
	for slot := 0; slot < b.n; slot++ {
		if !b.active[slot] {
			continue
		}
		lo, hi := slot*b.size, (slot+1)*b.size
		b.recordAttempt(slot, sub(reveals, lo, hi), sub(marks, lo, hi))

		valid := true
		for j := lo; j < hi; j++ {
			if reveals != nil && reveals[j] && b.hazards[j] {
				valid = false
				break
			}
			if marks != nil && marks[j] && !b.hazards[j] {
				valid = false
				break
			}
		}
		if !valid {
			b.active[slot] = false
			accepted = append(accepted, false)
			continue
		}
		for j := lo; j < hi; j++ {
			if reveals != nil && reveals[j] {
				b.revealed[j] = true
			}
			if marks != nil && marks[j] {
				b.marked[j] = true
			}
		}
		accepted = append(accepted, true)
	}
	b.refreshOutcome()
	if klog.V(2).Enabled() {
		valid := 0
		for _, ok := range accepted {
			if ok {
				valid++
			}
		}
		klog.V(2).Infof("mines: move on %d slots, %d valid, %d still active", len(accepted), valid, b.NumActive())
	}
	return accepted, nil
}

// sub slices mask to [lo, hi), or returns nil for a nil mask.
func sub(mask []bool, lo, hi int) []bool {
	if mask == nil {
		return nil
	}
	return mask[lo:hi]
}

// recordAttempt overwrites the last-attempt planes of slot with the raw
// request, before any validation. Nil stands for an all-false plane.
func (b *Board) recordAttempt(slot int, reveals, marks []bool) {
	lo := slot * b.size
	for j := 0; j < b.size; j++ {
		b.lastRevealed[lo+j] = reveals != nil && reveals[j]
		b.lastMarked[lo+j] = marks != nil && marks[j]
	}
}

// refreshOutcome recomputes won for every slot, wins forcing deactivation.
// Revealed planes only ever grow, so won never reverts.
func (b *Board) refreshOutcome() {
	for slot := 0; slot < b.n; slot++ {
		lo, hi := slot*b.size, (slot+1)*b.size
		won := true
		for j := lo; j < hi; j++ {
			if !b.revealed[j] && !b.hazards[j] {
				won = false
				break
			}
		}
		b.won[slot] = won
		if won {
			b.active[slot] = false
		}
	}
}

// RandomReveals applies a random reveal policy: every non-hazard cell of the
// batch is independently requested with probability rate, and the resulting
// mask is played through Move. Hazard cells are never requested, so no slot
// is ever lost to it. Returns the mask that was played.
func (b *Board) RandomReveals(rate float64) []bool {
	mask := make([]bool, b.n*b.size)
	for j := range mask {
		mask[j] = !b.hazards[j] && b.rng.Float64() < rate
	}
	b.mustMove(mask, nil)
	return mask
}

// RandomMarks applies a random mark policy: every hazard cell of the batch
// is independently requested with probability rate, and the resulting mask
// is played through Move. Non-hazard cells are never requested. Returns the
// mask that was played.
func (b *Board) RandomMarks(rate float64) []bool {
	mask := make([]bool, b.n*b.size)
	for j := range mask {
		mask[j] = b.hazards[j] && b.rng.Float64() < rate
	}
	b.mustMove(nil, mask)
	return mask
}

// mustMove plays masks built internally, which are correctly shaped by
// construction.
func (b *Board) mustMove(reveals, marks []bool) {
	if _, err := b.Move(reveals, marks); err != nil {
		exceptions.Panicf("mines: internal move with malformed masks: %v", err)
	}
}
