package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecisionTreeSeparatesThreshold(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {10}, {11}, {12}}
	y := []int{0, 0, 0, 1, 1, 1}

	tree := NewDecisionTreeClassifier(WithRandomState(1))
	require.NoError(t, tree.Fit(X, y))

	assert.Equal(t, y, tree.Predict(X))
	assert.Equal(t, 1, tree.Depth())
	assert.Equal(t, 6.5, tree.Root.Threshold)
	assert.Equal(t, []int{0, 1}, tree.Predict([][]float64{{6}, {7}}))
}

func TestDecisionTreeMinSamplesLeaf(t *testing.T) {
	// The only pure split isolates one row, which a leaf minimum of 2 forbids.
	X := [][]float64{{1}, {2}, {3}, {4}}
	y := []int{1, 0, 0, 0}

	tree := NewDecisionTreeClassifier(WithMinSamplesLeaf(2), WithRandomState(1))
	require.NoError(t, tree.Fit(X, y))

	var leaves []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Leaf {
			leaves = append(leaves, n)
			return
		}
		walk(n.Left)
		walk(n.Right)
	}
	walk(tree.Root)
	for _, l := range leaves {
		assert.GreaterOrEqual(t, l.N, 2)
	}
}

func TestDecisionTreeMinSamplesSplit(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}}
	y := []int{0, 1, 0, 1}

	tree := NewDecisionTreeClassifier(WithMinSamplesSplit(5))
	require.NoError(t, tree.Fit(X, y))
	assert.True(t, tree.Root.Leaf)
	assert.Equal(t, []float64{0.5, 0.5}, tree.Root.Probas)
	// Tie on probability goes to the lower class.
	assert.Equal(t, []int{0}, tree.Predict([][]float64{{9}}))
}

func TestDecisionTreeFitErrors(t *testing.T) {
	tree := NewDecisionTreeClassifier()
	require.Error(t, tree.Fit(nil, nil))
	require.Error(t, tree.Fit([][]float64{{1}, {2}}, []int{1}))
	require.Error(t, tree.Fit([][]float64{{1}, {2, 3}}, []int{1, 0}))
}

func TestImpurity(t *testing.T) {
	assert.Equal(t, 0.5, giniFromCounts([]int{5, 5}))
	assert.Equal(t, 0.0, giniFromCounts([]int{0, 7}))
	assert.Equal(t, 1.0, entropyFromCounts([]int{3, 3}))
	assert.Equal(t, 0.0, entropyFromCounts(nil))
}
