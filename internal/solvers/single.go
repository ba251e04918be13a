package solvers

import (
	"math/rand/v2"

	"github.com/janpfeifer/minesGo/internal/mines"
	"github.com/janpfeifer/minesGo/internal/parameters"
)

func init() {
	RegisterModule("single", singleModule{})
}

type singleModule struct{}

// Assert singleModule implements Module.
var _ Module = singleModule{}

// NewSolver implements Module. Parameters:
//
//   - guess (bool, default true): when no deduction applies to a slot,
//     reveal one random hidden cell so the episode keeps moving. With
//     guess=false the solver passes on such slots instead.
//   - seed (uint64, default 0): base rng seed for guesses; 0 seeds from the
//     global source.
func (singleModule) NewSolver(runId uint64, runName string, params parameters.Params) (Solver, error) {
	guess, err := parameters.PopParamOr(params, "guess", true)
	if err != nil {
		return nil, err
	}
	seed, err := parameters.PopParamOr(params, "seed", uint64(0))
	if err != nil {
		return nil, err
	}
	if err := checkNoLeftovers(params); err != nil {
		return nil, err
	}
	return &Single{rng: solverRand(seed, runId), guess: guess}, nil
}

// Single applies single-point reasoning to every revealed numbered cell of
// every active slot:
//
//   - If the marked neighbors already account for the cell's number, the
//     remaining hidden neighbors are safe and get revealed.
//   - If hidden plus marked neighbors match the number exactly, every hidden
//     neighbor is a hazard and gets marked.
//
// Marked cells are always true hazards here (wrong marks never merge), so
// both deductions are sound: Single only ever loses on its guesses.
type Single struct {
	rng   *rand.Rand
	guess bool
}

// Propose implements Solver.
func (s *Single) Propose(board *mines.Board) (reveals, marks []bool) {
	status := board.Status(false)
	rows, columns, size := board.Rows(), board.Columns(), board.Size()
	reveals = make([]bool, len(status))
	marks = make([]bool, len(status))
	for _, slot := range board.ActiveSlots() {
		base := slot * size
		found := false
		for row := 0; row < rows; row++ {
			for col := 0; col < columns; col++ {
				number := status[base+row*columns+col]
				if number < 0 || number > 8 {
					continue // Hidden or marked cell, no constraint to read.
				}
				hidden, marked := 0, 0
				forEachNeighbor(rows, columns, row, col, func(idx int) {
					switch status[base+idx] {
					case mines.StatusHidden:
						hidden++
					case mines.StatusMarked:
						marked++
					}
				})
				if hidden == 0 {
					continue
				}
				switch int(number) {
				case marked:
					forEachNeighbor(rows, columns, row, col, func(idx int) {
						if status[base+idx] == mines.StatusHidden {
							reveals[base+idx] = true
							found = true
						}
					})
				case hidden + marked:
					forEachNeighbor(rows, columns, row, col, func(idx int) {
						if status[base+idx] == mines.StatusHidden {
							marks[base+idx] = true
							found = true
						}
					})
				}
			}
		}
		if !found && s.guess {
			if idx := s.randomHidden(status, base, size); idx >= 0 {
				reveals[idx] = true
			}
		}
	}
	return reveals, marks
}

// randomHidden picks a uniformly random hidden cell of the slot's plane, or
// -1 if there is none.
func (s *Single) randomHidden(status []int8, base, size int) int {
	count := 0
	pick := -1
	for j := base; j < base+size; j++ {
		if status[j] != mines.StatusHidden {
			continue
		}
		count++
		if s.rng.IntN(count) == 0 {
			pick = j
		}
	}
	return pick
}

// forEachNeighbor calls fn with the in-board plane index of each of the up
// to 8 neighbors of (row, col).
func forEachNeighbor(rows, columns, row, col int, fn func(idx int)) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			nr, nc := row+dr, col+dc
			if nr < 0 || nr >= rows || nc < 0 || nc >= columns {
				continue
			}
			fn(nr*columns + nc)
		}
	}
}
