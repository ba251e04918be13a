package mines

import (
	"math/rand/v2"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/janpfeifer/minesGo/internal/generics"
)

// Preset bundles board dimensions with a uniform hazard count, the usual
// way batches are configured from the command line.
type Preset struct {
	Rows    int `yaml:"rows"`
	Columns int `yaml:"columns"`
	Hazards int `yaml:"hazards"`
}

// Batch creates a batch of n boards drawn from the preset.
func (p Preset) Batch(n int) (*Board, error) {
	return New(p.Rows, p.Columns, UniformCounts(n, p.Hazards))
}

// BatchWithRand is like Batch with an injected random generator.
func (p Preset) BatchWithRand(rng *rand.Rand, n int) (*Board, error) {
	return NewWithRand(rng, p.Rows, p.Columns, UniformCounts(n, p.Hazards))
}

// Presets holds the builtin difficulty levels.
var Presets = map[string]Preset{
	"beginner":     {Rows: 9, Columns: 9, Hazards: 10},
	"intermediate": {Rows: 16, Columns: 16, Hazards: 40},
	"expert":       {Rows: 16, Columns: 30, Hazards: 99},
}

// PresetByName looks up a builtin preset. The error lists the known names.
func PresetByName(name string) (Preset, error) {
	if p, ok := Presets[name]; ok {
		return p, nil
	}
	return Preset{}, errors.Errorf("unknown preset %q, known presets are %v", name, generics.SortedKeysSlice(Presets))
}

// ParsePresets parses a YAML document mapping preset names to definitions:
//
//	tiny:
//	  rows: 5
//	  columns: 5
//	  hazards: 3
//
// It returns only the presets the document defines; merge with Presets if
// the builtin levels should remain available.
func ParsePresets(data []byte) (map[string]Preset, error) {
	parsed := make(map[string]Preset)
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, errors.Wrapf(err, "failed to parse presets")
	}
	for name, p := range parsed {
		if p.Rows < 1 || p.Columns < 1 {
			return nil, errors.Errorf("preset %q: board dimensions must be at least 1x1, got %dx%d", name, p.Rows, p.Columns)
		}
		if p.Hazards < 0 || p.Hazards > p.Rows*p.Columns {
			return nil, errors.Errorf("preset %q: hazard count %d must be in [0, %d]", name, p.Hazards, p.Rows*p.Columns)
		}
	}
	return parsed, nil
}
