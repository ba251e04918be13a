package generics

import (
	"slices"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSliceMap(t *testing.T) {
	got := SliceMap([]int{1, 2, 3}, func(e int) string {
		return strconv.Itoa(2 * e)
	})
	assert.Equal(t, []string{"2", "4", "6"}, got)
}

func TestSortedKeys(t *testing.T) {
	m := map[int]string{1: "1", 5: "5", 3: "3"}
	// Since the builtin map iterator in Go is deliberately non-deterministic, we
	// run it a bunch of times to show it is stably sorted.
	want := []int{1, 3, 5}
	for _ = range 100 {
		got := slices.Collect(SortedKeys(m))
		if !slices.Equal(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	}
	assert.Equal(t, want, SortedKeysSlice(m))
}

func TestSortedKeysAndValues(t *testing.T) {
	m := map[int]string{1: "1", 5: "5", 3: "3"}
	// Since the builtin map iterator in Go is deliberately non-deterministic, we
	// run it a bunch of times to show it is stably sorted.
	wantKeys := []int{1, 3, 5}
	wantValues := []string{"1", "3", "5"}
	for _ = range 100 {
		var gotKeys []int
		var gotValues []string
		for k, v := range SortedKeysAndValues(m) {
			gotKeys = append(gotKeys, k)
			gotValues = append(gotValues, v)
		}
		if !slices.Equal(gotKeys, wantKeys) || !slices.Equal(gotValues, wantValues) {
			t.Errorf("got (%v, %v), want (%v, %v)", gotKeys, gotValues, wantKeys, wantValues)
		}
	}
}

func TestSet(t *testing.T) {
	// Sets are created empty.
	s := MakeSet[int](10)
	assert.Len(t, s, 0)

	// Check inserting and recovery.
	s.Insert(3, 7)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has(3))
	assert.True(t, s.Has(7))
	assert.False(t, s.Has(5))

	s2 := SetWith(5, 7)
	assert.Len(t, s2, 2)
	assert.True(t, s2.Has(5))
	assert.True(t, s2.Has(7))
	assert.False(t, s2.Has(3))

	delete(s, 7)
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Has(3))
	assert.False(t, s.Has(7))
}
