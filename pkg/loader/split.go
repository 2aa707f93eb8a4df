package loader

import (
	"fmt"
	"sort"
)

// Fold is one train/test partition of row indices.
type Fold struct {
	Train []int
	Test  []int
}

// StratifiedKFold splits n = len(y) rows into k folds that keep the class
// proportions of y. Rows are not shuffled: within each class, rows are dealt
// to folds in their original order, so the split is deterministic.
func StratifiedKFold(y []int, k int) ([]Fold, error) {
	n := len(y)
	if k < 2 {
		return nil, fmt.Errorf("loader: need at least 2 folds, got %d", k)
	}
	if k > n {
		return nil, fmt.Errorf("loader: cannot make %d folds from %d rows", k, n)
	}

	classes := make([]int, 0, 2)
	seen := map[int]struct{}{}
	for _, lab := range y {
		if _, ok := seen[lab]; !ok {
			seen[lab] = struct{}{}
			classes = append(classes, lab)
		}
	}
	sort.Ints(classes)
	classOf := make(map[int]int, len(classes))
	for i, c := range classes {
		classOf[c] = i
	}

	// Deal the class-sorted labels round robin to get per-fold class quotas.
	ordered := make([]int, n)
	for i, lab := range y {
		ordered[i] = classOf[lab]
	}
	sort.Ints(ordered)
	quota := make([][]int, k)
	for f := range quota {
		quota[f] = make([]int, len(classes))
	}
	for i, c := range ordered {
		quota[i%k][c]++
	}

	// Fill each fold's quota with the class's rows in original order.
	testFold := make([]int, n)
	next := make([]int, len(classes)) // fold currently being filled, per class
	filled := make([]int, len(classes))
	for i, lab := range y {
		c := classOf[lab]
		for filled[c] == quota[next[c]][c] {
			next[c]++
			filled[c] = 0
		}
		testFold[i] = next[c]
		filled[c]++
	}

	folds := make([]Fold, k)
	for i, f := range testFold {
		for j := range folds {
			if j == f {
				folds[j].Test = append(folds[j].Test, i)
			} else {
				folds[j].Train = append(folds[j].Train, i)
			}
		}
	}
	return folds, nil
}

// Take returns the labels at the given row indices.
func Take(y []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}
