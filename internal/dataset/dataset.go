// Package dataset exports batches of boards as gomlx tensors, ready to feed
// models being trained to play mine discovery.
//
// All exports share the batch layout of the engine: slot-major, row-major
// within a slot.
package dataset

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gomlx/types/shapes"
	"github.com/gomlx/gomlx/types/tensors"
	"github.com/gomlx/gopjrt/dtypes"

	"github.com/janpfeifer/minesGo/internal/mines"
)

// NumStatusPlanes is the one-hot depth of StatusPlanes: neighbor counts 0..8
// plus the hidden and marked codes.
const NumStatusPlanes = 11

// Cells returns the full-knowledge encoding of every cell as an int8 tensor
// shaped [n, rows, columns]: mines.StatusHazard on unmarked hazards,
// mines.StatusMarked on marked ones, neighbor counts 0..8 on revealed cells
// and mines.StatusHidden on the rest.
func Cells(b *mines.Board) *tensors.Tensor {
	checkBatch(b)
	t := tensors.FromShape(shapes.Make(dtypes.Int8, b.N(), b.Rows(), b.Columns()))
	tensors.MutableFlatData(t, func(flat []int8) {
		copy(flat, b.ExportCells())
	})
	return t
}

// StatusPlanes returns the solver-visible status one-hot encoded as a
// float32 tensor shaped [n, rows, columns, NumStatusPlanes]: planes 0..8 for
// the neighbor counts, plane 9 for hidden, plane 10 for marked cells.
func StatusPlanes(b *mines.Board) *tensors.Tensor {
	checkBatch(b)
	status := b.Status(false)
	t := tensors.FromShape(shapes.Make(dtypes.Float32, b.N(), b.Rows(), b.Columns(), NumStatusPlanes))
	tensors.MutableFlatData(t, func(flat []float32) {
		for j, code := range status {
			flat[j*NumStatusPlanes+int(code)] = 1
		}
	})
	return t
}

// Labels returns the per-slot progress scores as a float32 tensor shaped
// [n], the usual value target.
func Labels(b *mines.Board) *tensors.Tensor {
	checkBatch(b)
	t := tensors.FromShape(shapes.Make(dtypes.Float32, b.N()))
	tensors.MutableFlatData(t, func(flat []float32) {
		copy(flat, b.Progress(false))
	})
	return t
}

// Fatal returns the fatal-move diagnostics as an int8 tensor shaped
// [n, rows, columns]: +1 where the last attempt wrongly marked, -1 where it
// wrongly revealed, 0 elsewhere. The training signal for "which cell of the
// request lost the board".
func Fatal(b *mines.Board) *tensors.Tensor {
	checkBatch(b)
	t := tensors.FromShape(shapes.Make(dtypes.Int8, b.N(), b.Rows(), b.Columns()))
	tensors.MutableFlatData(t, func(flat []int8) {
		copy(flat, b.FatalCells())
	})
	return t
}

func checkBatch(b *mines.Board) {
	if b.N() == 0 {
		exceptions.Panicf("dataset: cannot export an empty batch")
	}
}
