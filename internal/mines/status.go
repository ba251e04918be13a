package mines

import (
	"github.com/chewxy/math32"
)

// Status returns the solver-visible view of the batch: one code per cell,
// same layout as the planes. Revealed cells report their neighbor count
// 0..8, marked cells StatusMarked and everything else StatusHidden. Hazards
// are never disclosed: an invalid request does not change any cell, so a
// revealed cell always carries a real count.
//
// With activeOnly, only the planes of active slots are included, in
// increasing slot order; a fully completed batch yields an empty slice.
func (b *Board) Status(activeOnly bool) []int8 {
	out := make([]int8, 0, b.n*b.size)
	for slot := 0; slot < b.n; slot++ {
		if activeOnly && !b.active[slot] {
			continue
		}
		lo, hi := slot*b.size, (slot+1)*b.size
		for j := lo; j < hi; j++ {
			switch {
			case b.revealed[j]:
				out = append(out, b.numbers[j])
			case b.marked[j]:
				out = append(out, StatusMarked)
			default:
				out = append(out, StatusHidden)
			}
		}
	}
	return out
}

// ExportCells returns the full-knowledge encoding of every cell, suitable as
// training data: StatusHazard for unmarked hazards, StatusMarked for marked
// ones, the neighbor count 0..8 for revealed cells and StatusHidden for the
// hidden rest. Unlike Status it discloses hazard placement.
func (b *Board) ExportCells() []int8 {
	out := make([]int8, b.n*b.size)
	for j := range out {
		switch {
		case b.hazards[j] && b.marked[j]:
			out[j] = StatusMarked
		case b.hazards[j]:
			out[j] = StatusHazard
		case b.revealed[j]:
			out[j] = b.numbers[j]
		default:
			out[j] = StatusHidden
		}
	}
	return out
}

// Progress returns the fraction of non-hazard cells revealed, per slot. A
// slot with no non-hazard cells scores 1.0, there was nothing left to
// reveal. With finalOnly only completed (inactive) slots are included, in
// increasing slot order.
func (b *Board) Progress(finalOnly bool) []float32 {
	out := make([]float32, 0, b.n)
	for slot := 0; slot < b.n; slot++ {
		if finalOnly && b.active[slot] {
			continue
		}
		safe := b.size - b.hazardCounts[slot]
		if safe == 0 {
			out = append(out, 1)
			continue
		}
		count := 0
		for j := slot * b.size; j < (slot+1)*b.size; j++ {
			if b.revealed[j] {
				count++
			}
		}
		out = append(out, float32(count)/float32(safe))
	}
	return out
}

// WinRate returns the fraction of completed slots that were won, or NaN if
// no slot has completed yet.
func (b *Board) WinRate() float32 {
	completed, wins := 0, 0
	for slot := 0; slot < b.n; slot++ {
		if b.active[slot] {
			continue
		}
		completed++
		if b.won[slot] {
			wins++
		}
	}
	if completed == 0 {
		return math32.NaN()
	}
	return float32(wins) / float32(completed)
}

// FatalCells pinpoints what went wrong in each slot's last attempted move:
// +1 on cells whose mark request hit a non-hazard cell, -1 on cells whose
// reveal request hit a hazard, 0 everywhere else. Requests are recorded
// before validation, so after a slot is lost this shows exactly which cells
// of the final request were fatal. Same layout as the planes.
func (b *Board) FatalCells() []int8 {
	out := make([]int8, b.n*b.size)
	for j := range out {
		switch {
		case b.lastMarked[j] && !b.hazards[j]:
			out[j] = 1
		case b.lastRevealed[j] && b.hazards[j]:
			out[j] = -1
		}
	}
	return out
}
