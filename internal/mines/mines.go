// Package mines implements a batched mine-discovery ("minesweeper") simulation
// engine: n independent boards of identical dimensions advanced in lockstep.
//
// It is meant as a training and evaluation substrate for automated solvers:
// callers propose reveal/mark moves for every active board of the batch at
// once (see Board.Move), seed safe openings with the zero-region cascade
// (Board.Cascade), and read back per-cell status codes, progress scores and
// win rates. All per-cell planes are flat row-major slices of length
// n*rows*columns, indexed slot*Size() + row*columns + col.
package mines

import (
	"fmt"
	"math/rand/v2"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Cell status codes, as returned by Board.Status and Board.ExportCells.
//
// Revealed cells report their neighbor-hazard count 0..8 directly. The
// remaining code space is:
//
//   - StatusHidden (9): not revealed, not marked.
//   - StatusMarked (10): marked (flagged), not revealed.
//   - StatusHazard (-1): hazard cell; only ever emitted by ExportCells,
//     which encodes full board knowledge. Status never leaks hazards.
const (
	StatusHidden int8 = 9
	StatusMarked int8 = 10
	StatusHazard int8 = -1
)

// NumberHazard is the sentinel stored in the neighbor-count grid on hazard
// cells, outside the normal 0..8 range.
const NumberHazard int8 = -1

// Cell addresses one cell of one slot of a batch.
type Cell struct {
	Slot, Row, Col int
}

// String returns a text representation of the Cell.
func (c Cell) String() string {
	return fmt.Sprintf("(slot=%d, %d, %d)", c.Slot, c.Row, c.Col)
}

// Board simulates n independent mine-discovery boards ("slots") in lockstep.
//
// The immutable part of a slot -- hazard placement and the derived
// neighbor-count grid -- is drawn at construction and on Regenerate. The
// mutable part (revealed/marked planes, active/won flags, last-attempt
// diagnostics) is owned exclusively by Move and Cascade and cleared by Reset.
//
// A Board is not safe for concurrent use; distinct Boards are independent.
type Board struct {
	rng *rand.Rand

	rows, columns int
	size          int // rows*columns, cells per slot
	n             int // number of slots

	// hazardCounts holds the number of hazards of each slot.
	hazardCounts []int

	// Immutable between regenerations.
	hazards []bool // true where a hazard occupies the cell
	numbers []int8 // 8-neighbor hazard counts, NumberHazard on hazard cells

	// Mutable episode state, monotonically non-decreasing until Reset.
	revealed []bool
	marked   []bool
	active   []bool // per slot: still accepting moves
	won      []bool // per slot: every non-hazard cell revealed

	// Most recently attempted reveal/mark request per slot, recorded even
	// when the attempt was invalid and therefore not applied.
	lastRevealed []bool
	lastMarked   []bool
}

// UniformCounts normalizes a single hazard count into the per-slot form the
// constructors take: n copies of count.
func UniformCounts(n, count int) []int {
	counts := make([]int, n)
	for i := range counts {
		counts[i] = count
	}
	return counts
}

// New creates a batch of len(hazardCounts) boards of rows x columns cells,
// each slot i holding exactly hazardCounts[i] hazards placed uniformly at
// random without replacement. The random generator is seeded from the global
// source; use NewWithRand to inject a deterministic one.
//
// An empty hazardCounts is legal and yields an empty batch. A count below 0
// or above rows*columns is a contract violation and fails construction.
func New(rows, columns int, hazardCounts []int) (*Board, error) {
	return NewWithRand(newRand(), rows, columns, hazardCounts)
}

// NewWithRand is like New but draws hazard placements (and later cascade
// tie-breaks) from rng, which the Board takes ownership of.
func NewWithRand(rng *rand.Rand, rows, columns int, hazardCounts []int) (*Board, error) {
	if err := checkDimensions(rows, columns); err != nil {
		return nil, err
	}
	if err := checkCounts(rows*columns, hazardCounts); err != nil {
		return nil, err
	}
	b := &Board{
		rng:     rng,
		rows:    rows,
		columns: columns,
		size:    rows * columns,
	}
	b.resize(append([]int(nil), hazardCounts...))
	b.generate()
	klog.V(1).Infof("mines: new batch of %d boards %dx%d", b.n, rows, columns)
	return b, nil
}

// NewFromHazards creates a batch from explicit hazard placements: one bool
// per cell, row-major, slot after slot. The number of slots is
// len(hazards) / (rows*columns). Useful for tests and for replaying a fixed
// board; per-slot hazard counts are derived from the planes.
func NewFromHazards(rows, columns int, hazards []bool) (*Board, error) {
	if err := checkDimensions(rows, columns); err != nil {
		return nil, err
	}
	size := rows * columns
	if len(hazards)%size != 0 {
		return nil, errors.Errorf("hazard planes have %d cells, not a multiple of the %dx%d board size", len(hazards), rows, columns)
	}
	b := &Board{
		rng:     newRand(),
		rows:    rows,
		columns: columns,
		size:    size,
	}
	counts := make([]int, len(hazards)/size)
	for i := range counts {
		for _, hazard := range hazards[i*size : (i+1)*size] {
			if hazard {
				counts[i]++
			}
		}
	}
	b.resize(counts)
	copy(b.hazards, hazards)
	b.deriveNumbers()
	return b, nil
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func checkDimensions(rows, columns int) error {
	if rows < 1 || columns < 1 {
		return errors.Errorf("board dimensions must be at least 1x1, got %dx%d", rows, columns)
	}
	return nil
}

func checkCounts(size int, counts []int) error {
	for i, count := range counts {
		if count < 0 || count > size {
			return errors.Errorf("hazard count for slot %d is %d, must be in [0, %d]", i, count, size)
		}
	}
	return nil
}

// resize (re)allocates every plane and flag array for the given per-slot
// hazard counts and clears the mutable state.
func (b *Board) resize(hazardCounts []int) {
	b.hazardCounts = hazardCounts
	b.n = len(hazardCounts)
	cells := b.n * b.size
	b.hazards = make([]bool, cells)
	b.numbers = make([]int8, cells)
	b.revealed = make([]bool, cells)
	b.marked = make([]bool, cells)
	b.lastRevealed = make([]bool, cells)
	b.lastMarked = make([]bool, cells)
	b.active = make([]bool, b.n)
	b.won = make([]bool, b.n)
	for i := range b.active {
		b.active[i] = true
	}
}

// generate draws a fresh uniform hazard placement for every slot and derives
// the neighbor-count grid.
func (b *Board) generate() {
	for i := 0; i < b.n; i++ {
		plane := b.hazards[i*b.size : (i+1)*b.size]
		for j := range plane {
			plane[j] = j < b.hazardCounts[i]
		}
		b.rng.Shuffle(len(plane), func(x, y int) {
			plane[x], plane[y] = plane[y], plane[x]
		})
	}
	b.deriveNumbers()
}

// deriveNumbers recomputes the neighbor-count grid from the hazard planes.
// Out-of-board neighbors contribute 0; hazard cells get NumberHazard.
func (b *Board) deriveNumbers() {
	for i := 0; i < b.n; i++ {
		base := i * b.size
		for row := 0; row < b.rows; row++ {
			for col := 0; col < b.columns; col++ {
				idx := base + row*b.columns + col
				if b.hazards[idx] {
					b.numbers[idx] = NumberHazard
					continue
				}
				var count int8
				for dr := -1; dr <= 1; dr++ {
					for dc := -1; dc <= 1; dc++ {
						if dr == 0 && dc == 0 {
							continue
						}
						nr, nc := row+dr, col+dc
						if nr < 0 || nr >= b.rows || nc < 0 || nc >= b.columns {
							continue
						}
						if b.hazards[base+nr*b.columns+nc] {
							count++
						}
					}
				}
				b.numbers[idx] = count
			}
		}
	}
}

// Reset clears all mutable episode state -- revealed/marked planes,
// active/won flags and the last-attempt diagnostics -- keeping the current
// hazard placements. Use Regenerate to also draw fresh boards.
func (b *Board) Reset() {
	clearBools(b.revealed)
	clearBools(b.marked)
	clearBools(b.lastRevealed)
	clearBools(b.lastMarked)
	for i := range b.active {
		b.active[i] = true
		b.won[i] = false
	}
}

// Regenerate draws fresh hazard placements and resets all mutable state.
// A nil hazardCounts keeps the current per-slot counts (and batch size);
// otherwise the batch is resized to len(hazardCounts). Validation is the
// same as New.
func (b *Board) Regenerate(hazardCounts []int) error {
	if hazardCounts == nil {
		hazardCounts = b.hazardCounts
	} else {
		if err := checkCounts(b.size, hazardCounts); err != nil {
			return err
		}
		hazardCounts = append([]int(nil), hazardCounts...)
	}
	b.resize(hazardCounts)
	b.generate()
	klog.V(1).Infof("mines: regenerated batch of %d boards %dx%d", b.n, b.rows, b.columns)
	return nil
}

// Select returns a new Board restricted to the given slots, in the given
// order. Every plane is deep-copied: the returned Board and the receiver
// evolve independently from here on (it is never an aliasing view). The new
// Board owns a random generator split off the receiver's.
func (b *Board) Select(slots ...int) (*Board, error) {
	for _, slot := range slots {
		if slot < 0 || slot >= b.n {
			return nil, errors.Errorf("slot %d out of range, batch has %d slots", slot, b.n)
		}
	}
	sub := &Board{
		rng:          rand.New(rand.NewPCG(b.rng.Uint64(), b.rng.Uint64())),
		rows:         b.rows,
		columns:      b.columns,
		size:         b.size,
		n:            len(slots),
		hazardCounts: make([]int, len(slots)),
	}
	cells := len(slots) * b.size
	sub.hazards = make([]bool, cells)
	sub.numbers = make([]int8, cells)
	sub.revealed = make([]bool, cells)
	sub.marked = make([]bool, cells)
	sub.lastRevealed = make([]bool, cells)
	sub.lastMarked = make([]bool, cells)
	sub.active = make([]bool, len(slots))
	sub.won = make([]bool, len(slots))
	for to, from := range slots {
		sub.hazardCounts[to] = b.hazardCounts[from]
		sub.active[to] = b.active[from]
		sub.won[to] = b.won[from]
		dst, src := to*b.size, from*b.size
		copy(sub.hazards[dst:dst+b.size], b.hazards[src:src+b.size])
		copy(sub.numbers[dst:dst+b.size], b.numbers[src:src+b.size])
		copy(sub.revealed[dst:dst+b.size], b.revealed[src:src+b.size])
		copy(sub.marked[dst:dst+b.size], b.marked[src:src+b.size])
		copy(sub.lastRevealed[dst:dst+b.size], b.lastRevealed[src:src+b.size])
		copy(sub.lastMarked[dst:dst+b.size], b.lastMarked[src:src+b.size])
	}
	return sub, nil
}

func clearBools(s []bool) {
	for i := range s {
		s[i] = false
	}
}

// N returns the number of slots in the batch.
func (b *Board) N() int { return b.n }

// Rows returns the number of rows of every board.
func (b *Board) Rows() int { return b.rows }

// Columns returns the number of columns of every board.
func (b *Board) Columns() int { return b.columns }

// Size returns the number of cells per board (rows*columns).
func (b *Board) Size() int { return b.size }

// HazardCounts returns a copy of the per-slot hazard counts.
func (b *Board) HazardCounts() []int {
	return append([]int(nil), b.hazardCounts...)
}

// IsActive reports whether slot still accepts moves.
func (b *Board) IsActive(slot int) bool { return b.active[slot] }

// HasWon reports whether slot ended with every non-hazard cell revealed.
// A won slot is always inactive.
func (b *Board) HasWon(slot int) bool { return b.won[slot] }

// ActiveSlots returns the indices of the slots still accepting moves, in
// increasing order. This is also the order of the booleans Move returns.
func (b *Board) ActiveSlots() []int {
	var slots []int
	for i, a := range b.active {
		if a {
			slots = append(slots, i)
		}
	}
	return slots
}

// NumActive returns how many slots still accept moves.
func (b *Board) NumActive() int {
	count := 0
	for _, a := range b.active {
		if a {
			count++
		}
	}
	return count
}

// Completed returns how many slots finished their episode (won or lost).
func (b *Board) Completed() int {
	return b.n - b.NumActive()
}

// Hazard reports whether the given cell holds a hazard. Full board
// knowledge: solvers evaluated on the substrate should use Status instead.
func (b *Board) Hazard(slot, row, col int) bool {
	return b.hazards[b.index(slot, row, col)]
}

// Number returns the neighbor-hazard count of the given cell, or
// NumberHazard if the cell holds a hazard. Full board knowledge.
func (b *Board) Number(slot, row, col int) int8 {
	return b.numbers[b.index(slot, row, col)]
}

// IsRevealed reports whether the given cell has been revealed.
func (b *Board) IsRevealed(slot, row, col int) bool {
	return b.revealed[b.index(slot, row, col)]
}

// IsMarked reports whether the given cell has been marked.
func (b *Board) IsMarked(slot, row, col int) bool {
	return b.marked[b.index(slot, row, col)]
}

func (b *Board) index(slot, row, col int) int {
	return slot*b.size + row*b.columns + col
}

// checkCell validates a caller-supplied cell address.
func (b *Board) checkCell(c Cell) error {
	if c.Slot < 0 || c.Slot >= b.n {
		return errors.Errorf("cell %s: slot out of range, batch has %d slots", c, b.n)
	}
	if c.Row < 0 || c.Row >= b.rows || c.Col < 0 || c.Col >= b.columns {
		return errors.Errorf("cell %s: out of the %dx%d board", c, b.rows, b.columns)
	}
	return nil
}
