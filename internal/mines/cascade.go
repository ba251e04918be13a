package mines

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/janpfeifer/minesGo/internal/generics"
)

// Cascade reveals zero regions: starting from one seed cell per slot it
// reveals the seed and, wherever a revealed cell has a zero neighbor count,
// all 8 neighbors of it, layer by layer, until no newly revealed cell is a
// zero. Numbered cells are revealed when reached but do not propagate, and
// hazard cells are never revealed.
//
// With no arguments it seeds every active slot itself, picking a cell with
// the lowest neighbor count of the slot (hazards excluded), ties broken
// uniformly at random. Slots whose cells are all hazards are left untouched.
// This is the usual way to open an episode.
//
// Explicit starts address specific cells; out-of-range ones fail with an
// error before anything changes. Seeds in inactive slots and seeds on hazard
// cells are skipped. Seeding an already revealed zero cell still expands its
// region, so a reveal made through Move can be expanded afterwards.
//
// Each seed counts as that slot's last attempted move (a pure reveal of the
// seed cell), and won is recomputed for the whole batch once the expansion
// ends, exactly as in Move.
func (b *Board) Cascade(starts ...Cell) error {
	for _, c := range starts {
		if err := b.checkCell(c); err != nil {
			return errors.WithMessage(err, "cascade start")
		}
	}
	seeds := starts
	if len(seeds) == 0 {
		seeds = b.autoSeeds()
	}

	seeded := generics.MakeSet[int](len(seeds))
	frontier := make([]Cell, 0, len(seeds))
	for _, c := range seeds {
		if !b.active[c.Slot] {
			continue
		}
		idx := b.index(c.Slot, c.Row, c.Col)
		if b.hazards[idx] {
			continue
		}
		if !seeded.Has(c.Slot) {
			seeded.Insert(c.Slot)
			b.recordAttempt(c.Slot, nil, nil)
		}
		b.lastRevealed[idx] = true
		b.revealed[idx] = true
		if b.numbers[idx] == 0 {
			frontier = append(frontier, c)
		}
	}

	layers := 0
	for len(frontier) > 0 {
		layers++
		var next []Cell
		for _, c := range frontier {
			base := c.Slot * b.size
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					nr, nc := c.Row+dr, c.Col+dc
					if nr < 0 || nr >= b.rows || nc < 0 || nc >= b.columns {
						continue
					}
					idx := base + nr*b.columns + nc
					if b.revealed[idx] || b.hazards[idx] {
						continue
					}
					b.revealed[idx] = true
					if b.numbers[idx] == 0 {
						next = append(next, Cell{c.Slot, nr, nc})
					}
				}
			}
		}
		frontier = next
	}
	b.refreshOutcome()
	klog.V(2).Infof("mines: cascade from %d seeds expanded %d layers", seeded.Len(), layers)
	return nil
}

// autoSeeds picks one seed per active slot: a cell holding the minimum
// neighbor count among the slot's non-hazard cells, chosen uniformly among
// ties. Slots with no non-hazard cell yield no seed.
func (b *Board) autoSeeds() []Cell {
	var seeds []Cell
	ties := make([]int, 0, b.size)
	for slot := 0; slot < b.n; slot++ {
		if !b.active[slot] {
			continue
		}
		lo, hi := slot*b.size, (slot+1)*b.size
		var best int8 = 127
		for j := lo; j < hi; j++ {
			if !b.hazards[j] && b.numbers[j] < best {
				best = b.numbers[j]
			}
		}
		if best == 127 {
			continue
		}
		ties = ties[:0]
		for j := lo; j < hi; j++ {
			if !b.hazards[j] && b.numbers[j] == best {
				ties = append(ties, j-lo)
			}
		}
		pick := ties[b.rng.IntN(len(ties))]
		seeds = append(seeds, Cell{Slot: slot, Row: pick / b.columns, Col: pick % b.columns})
	}
	return seeds
}
