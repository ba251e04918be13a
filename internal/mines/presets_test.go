package mines_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/janpfeifer/minesGo/internal/mines"
)

func TestPresetByName(t *testing.T) {
	p, err := PresetByName("expert")
	require.NoError(t, err)
	assert.Equal(t, Preset{Rows: 16, Columns: 30, Hazards: 99}, p)

	_, err = PresetByName("nightmare")
	assert.ErrorContains(t, err, "nightmare")
}

func TestPresetBatch(t *testing.T) {
	b, err := Preset{Rows: 5, Columns: 4, Hazards: 3}.Batch(7)
	require.NoError(t, err)
	assert.Equal(t, 7, b.N())
	assert.Equal(t, 5, b.Rows())
	assert.Equal(t, 4, b.Columns())
	assert.Equal(t, UniformCounts(7, 3), b.HazardCounts())
}

func TestParsePresets(t *testing.T) {
	parsed, err := ParsePresets([]byte(`
tiny:
  rows: 5
  columns: 5
  hazards: 3
tall:
  rows: 30
  columns: 8
  hazards: 40
`))
	require.NoError(t, err)
	assert.Equal(t, map[string]Preset{
		"tiny": {Rows: 5, Columns: 5, Hazards: 3},
		"tall": {Rows: 30, Columns: 8, Hazards: 40},
	}, parsed)

	_, err = ParsePresets([]byte("bad:\n  rows: 0\n  columns: 5\n  hazards: 1\n"))
	assert.Error(t, err)
	_, err = ParsePresets([]byte("bad:\n  rows: 2\n  columns: 2\n  hazards: 5\n"))
	assert.Error(t, err)
	_, err = ParsePresets([]byte("not: [valid"))
	assert.Error(t, err)
}
