package mines_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/janpfeifer/minesGo/internal/mines"
	. "github.com/janpfeifer/minesGo/internal/mines/minestest"
)

// cornerBoard has a single hazard at (0, 0):
//
//	* 1 0
//	1 1 0
//	0 0 0
func cornerBoard(t *testing.T) *Board {
	b, err := BuildBoard(`
		*..
		...
		...`)
	require.NoError(t, err)
	return b
}

func TestMoveReveal(t *testing.T) {
	b := cornerBoard(t)
	accepted, err := b.Move(Mask(b, Cell{Row: 2, Col: 2}), nil)
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, accepted)
	assert.True(t, b.IsRevealed(0, 2, 2))
	assert.True(t, b.IsActive(0))
	assert.False(t, b.HasWon(0))

	// Re-revealing is a no-op, merged with a new cell.
	accepted, err = b.Move(Mask(b, Cell{Row: 2, Col: 2}, Cell{Row: 1, Col: 1}), nil)
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, accepted)
	assert.True(t, b.IsRevealed(0, 2, 2))
	assert.True(t, b.IsRevealed(0, 1, 1))
	assert.Equal(t, 2, countRevealed(b, 0))
}

func TestMoveMark(t *testing.T) {
	b := cornerBoard(t)
	accepted, err := b.Move(nil, Mask(b, Cell{Row: 0, Col: 0}))
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, accepted)
	assert.True(t, b.IsMarked(0, 0, 0))
	assert.True(t, b.IsActive(0))

	// Marking and revealing in the same request.
	accepted, err = b.Move(Mask(b, Cell{Row: 2, Col: 0}), Mask(b, Cell{Row: 0, Col: 0}))
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, accepted)
	assert.True(t, b.IsMarked(0, 0, 0))
	assert.True(t, b.IsRevealed(0, 2, 0))
}

func TestMoveInvalidReveal(t *testing.T) {
	b := cornerBoard(t)
	accepted, err := b.Move(Mask(b, Cell{Row: 0, Col: 0}, Cell{Row: 2, Col: 2}), nil)
	require.NoError(t, err)
	assert.Equal(t, []bool{false}, accepted)
	assert.False(t, b.IsActive(0))
	assert.False(t, b.HasWon(0))

	// Nothing was merged: not even the valid part of the request.
	assert.False(t, b.IsRevealed(0, 2, 2))
	assert.Zero(t, countRevealed(b, 0))

	// The raw request is still recorded, pinpointing the fatal reveal.
	fatal := b.FatalCells()
	assert.Equal(t, int8(-1), fatal[0])
	assert.Equal(t, int8(0), fatal[8], "valid part of the request is not fatal")

	// Inactive slots are skipped: no result entry, no state change.
	accepted, err = b.Move(Mask(b, Cell{Row: 2, Col: 2}), nil)
	require.NoError(t, err)
	assert.Empty(t, accepted)
	assert.False(t, b.IsRevealed(0, 2, 2))
}

func TestMoveInvalidMark(t *testing.T) {
	b := cornerBoard(t)
	accepted, err := b.Move(nil, Mask(b, Cell{Row: 2, Col: 2}))
	require.NoError(t, err)
	assert.Equal(t, []bool{false}, accepted)
	assert.False(t, b.IsActive(0))
	assert.False(t, b.IsMarked(0, 2, 2))
	assert.Equal(t, int8(1), b.FatalCells()[8])
}

func TestMoveRecordsLastAttemptOnly(t *testing.T) {
	b, err := BuildBoard(`
		*.*
		...
		...`)
	require.NoError(t, err)

	_, err = b.Move(nil, Mask(b, Cell{Row: 0, Col: 0}))
	require.NoError(t, err)
	_, err = b.Move(Mask(b, Cell{Row: 0, Col: 2}), nil)
	require.NoError(t, err)
	require.False(t, b.IsActive(0))

	fatal := b.FatalCells()
	assert.Equal(t, int8(-1), fatal[2], "fatal reveal of the last attempt")
	assert.Equal(t, int8(0), fatal[0], "earlier mark was overwritten by the last attempt")

	// The first, valid mark is still merged in.
	assert.True(t, b.IsMarked(0, 0, 0))
	assert.Equal(t, StatusMarked, b.Status(false)[0])
}

func TestMoveWin(t *testing.T) {
	b := cornerBoard(t)
	var cells []Cell
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			if row == 0 && col == 0 {
				continue
			}
			cells = append(cells, Cell{Row: row, Col: col})
		}
	}
	accepted, err := b.Move(Mask(b, cells...), nil)
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, accepted)
	assert.True(t, b.HasWon(0))
	assert.False(t, b.IsActive(0), "winning deactivates the slot")
	assert.Equal(t, []float32{1}, b.Progress(false))
	assert.Equal(t, float32(1), b.WinRate())

	accepted, err = b.Move(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, accepted, "won slots accept no further moves")
}

func TestMoveSingleCell(t *testing.T) {
	b, err := BuildBoard(`.`)
	require.NoError(t, err)
	accepted, err := b.Move(Mask(b, Cell{}), nil)
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, accepted)
	assert.True(t, b.HasWon(0), "one reveal clears a 1x1 board")
	assert.False(t, b.IsActive(0))
}

func TestMoveMixedBatch(t *testing.T) {
	b, err := BuildBatch(`
		*..
		...
		...`, `
		*..
		...
		...`)
	require.NoError(t, err)

	reveals := Mask(b,
		Cell{Slot: 0, Row: 2, Col: 2},
		Cell{Slot: 1, Row: 0, Col: 0}) // Fatal for slot 1 only.
	accepted, err := b.Move(reveals, nil)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, accepted)
	assert.True(t, b.IsActive(0))
	assert.False(t, b.IsActive(1))
	assert.Equal(t, []int{0}, b.ActiveSlots())
	assert.Equal(t, 1, b.Completed())

	accepted, err = b.Move(Mask(b, Cell{Slot: 0, Row: 2, Col: 0}), nil)
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, accepted, "one result per slot active at call time")
}

func TestMoveMaskShape(t *testing.T) {
	b := cornerBoard(t)
	_, err := b.Move(make([]bool, 5), nil)
	assert.Error(t, err)
	_, err = b.Move(nil, make([]bool, b.Size()+1))
	assert.Error(t, err)
	accepted, err := b.Move(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, accepted, "empty request is a valid pass")
}

func TestMoveBatchOutcomes(t *testing.T) {
	b, err := New(3, 3, []int{0, 1, 9})
	require.NoError(t, err)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			assert.Equal(t, int8(0), b.Number(0, row, col))
			assert.Equal(t, NumberHazard, b.Number(2, row, col))
		}
	}

	// An empty move completes the all-hazard slot: nothing left to reveal.
	accepted, err := b.Move(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, true}, accepted)
	assert.True(t, b.HasWon(2))
	assert.False(t, b.IsActive(2))
	assert.True(t, b.IsActive(0))
	assert.True(t, b.IsActive(1))
	assert.Equal(t, []float32{1}, b.Progress(true), "all-hazard slot scores full progress")

	// Revealing every safe cell wins the remaining slots.
	b.RandomReveals(1)
	assert.Equal(t, 0, b.NumActive())
	assert.True(t, b.HasWon(0))
	assert.True(t, b.HasWon(1))
	assert.Equal(t, float32(1), b.WinRate())
	assert.Equal(t, []float32{1, 1, 1}, b.Progress(false))
}

func TestRandomReveals(t *testing.T) {
	b, err := New(5, 5, UniformCounts(3, 6))
	require.NoError(t, err)

	mask := b.RandomReveals(0)
	assert.Equal(t, make([]bool, b.N()*b.Size()), mask)
	assert.Equal(t, 3, b.NumActive())

	mask = b.RandomReveals(1)
	for slot := 0; slot < 3; slot++ {
		assert.Truef(t, b.HasWon(slot), "full-rate reveal wins slot %d", slot)
		assert.Equal(t, 25-6, countRevealed(b, slot))
	}
	for j, requested := range mask {
		slot := j / b.Size()
		row := (j % b.Size()) / b.Columns()
		col := j % b.Columns()
		assert.Equalf(t, !b.Hazard(slot, row, col), requested, "cell %d", j)
	}
}

func TestRandomMarks(t *testing.T) {
	b, err := New(5, 5, UniformCounts(2, 6))
	require.NoError(t, err)
	b.RandomMarks(1)
	assert.Equal(t, 2, b.NumActive(), "marking hazards never completes a slot")
	for slot := 0; slot < 2; slot++ {
		marked := 0
		for row := 0; row < b.Rows(); row++ {
			for col := 0; col < b.Columns(); col++ {
				if b.IsMarked(slot, row, col) {
					require.True(t, b.Hazard(slot, row, col))
					marked++
				}
			}
		}
		assert.Equal(t, 6, marked)
	}
}

func BenchmarkMove(b *testing.B) {
	board, err := Presets["expert"].Batch(64)
	if err != nil {
		b.Fatal(err)
	}
	reveals := make([]bool, board.N()*board.Size())
	for j := range reveals {
		reveals[j] = j%7 == 0
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		board.Reset()
		_, _ = board.Move(reveals, nil)
	}
}
