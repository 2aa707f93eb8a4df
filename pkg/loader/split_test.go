package loader

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStratifiedKFoldPartitionsRows(t *testing.T) {
	y := make([]int, 53)
	for i := range y {
		if i%4 == 0 {
			y[i] = 1
		}
	}

	folds, err := StratifiedKFold(y, 10)
	require.NoError(t, err)
	require.Len(t, folds, 10)

	seen := make([]int, len(y))
	for _, f := range folds {
		assert.Equal(t, len(y), len(f.Train)+len(f.Test))
		assert.True(t, sort.IntsAreSorted(f.Test))
		for _, i := range f.Test {
			seen[i]++
		}
	}
	for i, c := range seen {
		assert.Equalf(t, 1, c, "row %d should be tested exactly once", i)
	}
}

func TestStratifiedKFoldKeepsClassBalance(t *testing.T) {
	y := make([]int, 100)
	for i := 0; i < 20; i++ {
		y[i*5] = 1
	}

	folds, err := StratifiedKFold(y, 10)
	require.NoError(t, err)
	for _, f := range folds {
		pos := 0
		for _, lab := range Take(y, f.Test) {
			pos += lab
		}
		assert.Len(t, f.Test, 10)
		assert.Equal(t, 2, pos)
	}
}

func TestStratifiedKFoldIsDeterministic(t *testing.T) {
	y := []int{0, 1, 0, 0, 1, 1, 0, 1, 0, 0, 0, 1}
	a, err := StratifiedKFold(y, 3)
	require.NoError(t, err)
	b, err := StratifiedKFold(y, 3)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	// Rows of each class are dealt to folds in order.
	assert.Equal(t, []int{0, 1, 2, 3}, a[0].Test)
}

func TestStratifiedKFoldErrors(t *testing.T) {
	_, err := StratifiedKFold([]int{0, 1, 0}, 1)
	require.Error(t, err)
	_, err = StratifiedKFold([]int{0, 1, 0}, 4)
	require.Error(t, err)
}

func TestTake(t *testing.T) {
	assert.Equal(t, []int{30, 10}, Take([]int{10, 20, 30}, []int{2, 0}))
}
