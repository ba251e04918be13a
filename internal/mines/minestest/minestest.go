// Package minestest provides helper functions to create tests using mine-discovery boards.
package minestest

import (
	"strings"

	"github.com/pkg/errors"

	. "github.com/janpfeifer/minesGo/internal/mines"
)

// BuildBoard creates a single-slot batch from a text layout: one line per
// row, '*' for hazard cells and '.' for safe ones. Blank lines and spaces
// are ignored, so layouts can be indented inside test sources.
func BuildBoard(layout string) (*Board, error) {
	return BuildBatch(layout)
}

// BuildBatch creates one slot per layout, all of which must agree on
// dimensions. See BuildBoard for the layout format.
func BuildBatch(layouts ...string) (*Board, error) {
	var rows, columns int
	var hazards []bool
	for slot, layout := range layouts {
		lines := parseLines(layout)
		if len(lines) == 0 {
			return nil, errors.Errorf("layout for slot %d is empty", slot)
		}
		if slot == 0 {
			rows, columns = len(lines), len(lines[0])
		} else if len(lines) != rows {
			return nil, errors.Errorf("layout for slot %d has %d rows, slot 0 has %d", slot, len(lines), rows)
		}
		for r, line := range lines {
			if len(line) != columns {
				return nil, errors.Errorf("layout for slot %d, row %d has %d cells, want %d", slot, r, len(line), columns)
			}
			for c, cell := range line {
				switch cell {
				case '*':
					hazards = append(hazards, true)
				case '.':
					hazards = append(hazards, false)
				default:
					return nil, errors.Errorf("layout for slot %d, row %d, col %d: unknown cell %q, want '*' or '.'", slot, r, c, cell)
				}
			}
		}
	}
	return NewFromHazards(rows, columns, hazards)
}

func parseLines(layout string) []string {
	var lines []string
	for _, line := range strings.Split(layout, "\n") {
		line = strings.Join(strings.Fields(line), "")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Mask builds a full-batch cell mask with the given cells set, shaped for
// Board.Move.
func Mask(b *Board, cells ...Cell) []bool {
	mask := make([]bool, b.N()*b.Size())
	for _, c := range cells {
		mask[c.Slot*b.Size()+c.Row*b.Columns()+c.Col] = true
	}
	return mask
}
