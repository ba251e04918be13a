package dataset_test

import (
	"testing"

	"github.com/gomlx/gomlx/types/tensors"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/janpfeifer/minesGo/internal/dataset"
	"github.com/janpfeifer/minesGo/internal/mines"
	. "github.com/janpfeifer/minesGo/internal/mines/minestest"
)

// buildBoard returns a 3x3 single-hazard board with the hazard marked and
// the opposite corner (a zero) revealed.
func buildBoard(t *testing.T) *mines.Board {
	b, err := BuildBoard(`
		*..
		...
		...`)
	require.NoError(t, err)
	_, err = b.Move(Mask(b, mines.Cell{Row: 2, Col: 2}), Mask(b, mines.Cell{Row: 0, Col: 0}))
	require.NoError(t, err)
	return b
}

func TestCells(t *testing.T) {
	b := buildBoard(t)
	cellsT := Cells(b)
	require.Equal(t, dtypes.Int8, cellsT.Shape().DType)
	require.Equal(t, []int{1, 3, 3}, cellsT.Shape().Dimensions)
	assert.Equal(t, b.ExportCells(), tensors.CopyFlatData[int8](cellsT))
	flat := tensors.CopyFlatData[int8](cellsT)
	assert.Equal(t, mines.StatusMarked, flat[0])
	assert.Equal(t, int8(0), flat[8])
	assert.Equal(t, mines.StatusHidden, flat[1])
}

func TestStatusPlanes(t *testing.T) {
	b := buildBoard(t)
	planesT := StatusPlanes(b)
	require.Equal(t, dtypes.Float32, planesT.Shape().DType)
	require.Equal(t, []int{1, 3, 3, NumStatusPlanes}, planesT.Shape().Dimensions)

	flat := tensors.CopyFlatData[float32](planesT)
	status := b.Status(false)
	for j, code := range status {
		plane := flat[j*NumStatusPlanes : (j+1)*NumStatusPlanes]
		var sum float32
		for _, v := range plane {
			sum += v
		}
		assert.Equalf(t, float32(1), sum, "cell %d one-hot", j)
		assert.Equalf(t, float32(1), plane[code], "cell %d encodes status %d", j, code)
	}
}

func TestLabels(t *testing.T) {
	b := buildBoard(t)
	labelsT := Labels(b)
	require.Equal(t, []int{1}, labelsT.Shape().Dimensions)
	assert.Equal(t, []float32{0.125}, tensors.CopyFlatData[float32](labelsT),
		"one of eight safe cells revealed")
}

func TestFatal(t *testing.T) {
	b := buildBoard(t)
	// Lose the slot by revealing the marked hazard.
	_, err := b.Move(Mask(b, mines.Cell{Row: 0, Col: 0}), nil)
	require.NoError(t, err)
	require.False(t, b.IsActive(0))

	fatalT := Fatal(b)
	require.Equal(t, []int{1, 3, 3}, fatalT.Shape().Dimensions)
	flat := tensors.CopyFlatData[int8](fatalT)
	assert.Equal(t, int8(-1), flat[0])
	for j := 1; j < len(flat); j++ {
		assert.Zero(t, flat[j])
	}
}

func TestEmptyBatch(t *testing.T) {
	b, err := mines.New(3, 3, nil)
	require.NoError(t, err)
	assert.Panics(t, func() { Cells(b) })
	assert.Panics(t, func() { Labels(b) })
}
