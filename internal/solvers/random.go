package solvers

import (
	"math/rand/v2"

	"github.com/janpfeifer/minesGo/internal/mines"
	"github.com/janpfeifer/minesGo/internal/parameters"
)

func init() {
	RegisterModule("random", randomModule{})
}

type randomModule struct{}

// Assert randomModule implements Module.
var _ Module = randomModule{}

// NewSolver implements Module. Parameters:
//
//   - cells (int, default 1): hidden cells revealed per slot per move.
//   - seed (uint64, default 0): base rng seed; 0 seeds from the global
//     source. Combined with runId, so runs of one evaluation use distinct
//     but reproducible streams.
func (randomModule) NewSolver(runId uint64, runName string, params parameters.Params) (Solver, error) {
	cells, err := parameters.PopParamOr(params, "cells", 1)
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
	return &Random{rng: solverRand(seed, runId), cells: max(cells, 1)}, nil
}

// Random reveals uniformly random hidden cells: the weakest baseline, it
// never marks and ignores the numbers entirely.
type Random struct {
	rng   *rand.Rand
	cells int
}

// Propose implements Solver.
func (r *Random) Propose(board *mines.Board) (reveals, marks []bool) {
	status := board.Status(false)
	size := board.Size()
	reveals = make([]bool, len(status))
	var candidates []int
	for _, slot := range board.ActiveSlots() {
		candidates = candidates[:0]
		for j := slot * size; j < (slot+1)*size; j++ {
			if status[j] == mines.StatusHidden {
				candidates = append(candidates, j)
			}
		}
		for k := 0; k < r.cells && len(candidates) > 0; k++ {
			pick := r.rng.IntN(len(candidates))
			reveals[candidates[pick]] = true
			candidates[pick] = candidates[len(candidates)-1]
			candidates = candidates[:len(candidates)-1]
		}
	}
	return reveals, nil
}
