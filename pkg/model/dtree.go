package model

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"time"
)

// ---------------------------
// Types & options
// ---------------------------

// DecisionTreeClassifier is a CART-style classifier with axis-aligned threshold splits.
type DecisionTreeClassifier struct {
	// Hyperparameters / options
	MaxDepth            int     // maximum depth (root depth = 0). 0 => no limit
	MinSamplesSplit     int     // minimum samples to attempt a split
	MinSamplesLeaf      int     // minimum samples required in each leaf
	Criterion           string  // "gini" (default) or "entropy"
	MaxFeatures         int     // 0 => use all features, >0 => number of features to sample per node
	MinImpurityDecrease float64 // minimal impurity decrease to accept a split
	RandomState         int64   // seed for feature subsampling

	// Fitted state. Exported so the tree survives gob encoding.
	Root    *Node
	Classes []int // sorted class labels; Node.Probas is aligned with it
}

// Node is a node of a fitted tree. Samples with x[Feature] <= Threshold go left.
type Node struct {
	Leaf      bool
	Feature   int
	Threshold float64
	Left      *Node
	Right     *Node
	N         int
	Probas    []float64
}

// Option functional config
type Option func(*DecisionTreeClassifier)

func WithMaxDepth(d int) Option { return func(t *DecisionTreeClassifier) { t.MaxDepth = d } }
func WithMinSamplesSplit(n int) Option {
	return func(t *DecisionTreeClassifier) { t.MinSamplesSplit = n }
}
func WithMinSamplesLeaf(n int) Option {
	return func(t *DecisionTreeClassifier) { t.MinSamplesLeaf = n }
}
func WithCriterion(c string) Option { return func(t *DecisionTreeClassifier) { t.Criterion = c } }
func WithMaxFeatures(k int) Option  { return func(t *DecisionTreeClassifier) { t.MaxFeatures = k } }
func WithMinImpurityDecrease(v float64) Option {
	return func(t *DecisionTreeClassifier) { t.MinImpurityDecrease = v }
}
func WithRandomState(seed int64) Option {
	return func(t *DecisionTreeClassifier) { t.RandomState = seed }
}

// NewDecisionTreeClassifier returns a classifier with sensible defaults.
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	d := &DecisionTreeClassifier{
		MaxDepth:            0,
		MinSamplesSplit:     2,
		MinSamplesLeaf:      1,
		Criterion:           "gini",
		MaxFeatures:         0,
		MinImpurityDecrease: 0.0,
		RandomState:         time.Now().UnixNano(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// ---------------------------
// Public API
// ---------------------------

// Fit trains the tree on every row of X.
func (t *DecisionTreeClassifier) Fit(X [][]float64, y []int) error {
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	return t.fitSample(X, y, idx, sortedClasses(y))
}

// Predict returns the most probable class for each row.
func (t *DecisionTreeClassifier) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i := range X {
		out[i] = t.Classes[argmaxFloat(t.predictProbaSingle(X[i]))]
	}
	return out
}

// PredictProba returns the per-class probability vectors for rows in X.
func (t *DecisionTreeClassifier) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i := range X {
		out[i] = t.predictProbaSingle(X[i])
	}
	return out
}

// Depth returns the depth of the fitted tree (a lone root has depth 0).
func (t *DecisionTreeClassifier) Depth() int { return nodeDepth(t.Root) }

// fitSample trains on the rows listed in idx, which may repeat (bootstrap).
// classes fixes the layout of leaf probabilities so trees of a forest agree.
func (t *DecisionTreeClassifier) fitSample(X [][]float64, y []int, idx []int, classes []int) error {
	if len(X) == 0 || len(idx) == 0 {
		return errors.New("dtree: empty X")
	}
	if len(y) != len(X) {
		return errors.New("dtree: X and y length mismatch")
	}
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return errors.New("dtree: inconsistent number of features in X rows")
		}
	}
	if len(classes) == 0 {
		return errors.New("dtree: no classes in y")
	}

	t.Classes = append([]int(nil), classes...)
	yc := make([]int, len(y))
	for i, lab := range y {
		ci, ok := classIndex(lab, t.Classes)
		if !ok {
			return errors.New("dtree: label outside class set")
		}
		yc[i] = ci
	}

	rnd := rand.New(rand.NewSource(t.RandomState))
	t.Root = t.buildNode(X, yc, idx, 0, p, len(t.Classes), rnd)
	return nil
}

// ---------------------------
// Internal builders & helpers
// ---------------------------

type splitResult struct {
	gain      float64
	feature   int
	threshold float64
}

func (t *DecisionTreeClassifier) buildNode(X [][]float64, yc []int, idx []int, depth, p, nClasses int, rnd *rand.Rand) *Node {
	counts := countsFromIndices(yc, idx, nClasses)
	node := &Node{N: len(idx), Probas: countsToProbas(counts)}

	if isPure(counts) ||
		len(idx) < t.MinSamplesSplit ||
		len(idx) < 2*t.MinSamplesLeaf ||
		(t.MaxDepth > 0 && depth >= t.MaxDepth) {
		node.Leaf = true
		return node
	}

	parentImpurity := t.impurity(counts)
	best := splitResult{feature: -1}
	for _, f := range t.sampleFeatures(p, rnd) {
		r := t.findBestSplitForFeature(X, yc, idx, f, counts, parentImpurity)
		if r.feature >= 0 && r.gain > best.gain {
			best = r
		}
	}

	if best.feature == -1 || best.gain <= t.MinImpurityDecrease {
		node.Leaf = true
		return node
	}

	leftIdx := make([]int, 0, len(idx))
	rightIdx := make([]int, 0, len(idx))
	for _, i := range idx {
		if X[i][best.feature] <= best.threshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}

	node.Feature = best.feature
	node.Threshold = best.threshold
	node.Left = t.buildNode(X, yc, leftIdx, depth+1, p, nClasses, rnd)
	node.Right = t.buildNode(X, yc, rightIdx, depth+1, p, nClasses, rnd)
	return node
}

// findBestSplitForFeature sorts the node's rows by feature f and sweeps every
// boundary between distinct values, keeping running class counts on the left.
func (t *DecisionTreeClassifier) findBestSplitForFeature(X [][]float64, yc []int, idx []int, f int, total []int, parentImpurity float64) splitResult {
	result := splitResult{feature: -1}

	order := append([]int(nil), idx...)
	sort.SliceStable(order, func(a, b int) bool { return X[order[a]][f] < X[order[b]][f] })

	n := len(order)
	left := make([]int, len(total))
	right := append([]int(nil), total...)
	minLeaf := max(t.MinSamplesLeaf, 1)

	for s := 1; s < n; s++ {
		ci := yc[order[s-1]]
		left[ci]++
		right[ci]--

		lo, hi := X[order[s-1]][f], X[order[s]][f]
		if lo == hi {
			continue
		}
		if s < minLeaf || n-s < minLeaf {
			continue
		}
		weighted := (float64(s)*t.impurity(left) + float64(n-s)*t.impurity(right)) / float64(n)
		gain := parentImpurity - weighted
		if gain > result.gain {
			thr := lo + (hi-lo)/2
			if thr >= hi {
				thr = lo
			}
			result = splitResult{gain: gain, feature: f, threshold: thr}
		}
	}
	return result
}

// sampleFeatures draws MaxFeatures distinct feature indices, or all of them.
func (t *DecisionTreeClassifier) sampleFeatures(p int, rnd *rand.Rand) []int {
	feats := make([]int, p)
	for j := range feats {
		feats[j] = j
	}
	if t.MaxFeatures <= 0 || t.MaxFeatures >= p {
		return feats
	}
	for i := 0; i < t.MaxFeatures; i++ {
		j := i + rnd.Intn(p-i)
		feats[i], feats[j] = feats[j], feats[i]
	}
	return feats[:t.MaxFeatures]
}

func (t *DecisionTreeClassifier) impurity(counts []int) float64 {
	if t.Criterion == "entropy" {
		return entropyFromCounts(counts)
	}
	return giniFromCounts(counts)
}

func (t *DecisionTreeClassifier) predictProbaSingle(x []float64) []float64 {
	if t.Root == nil {
		p := make([]float64, len(t.Classes))
		for i := range p {
			p[i] = 1.0 / float64(len(p))
		}
		return p
	}
	node := t.Root
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Probas
}

func nodeDepth(n *Node) int {
	if n == nil || n.Leaf {
		return 0
	}
	return 1 + max(nodeDepth(n.Left), nodeDepth(n.Right))
}

// ---------------------------
// Utilities: impurity & misc
// ---------------------------

func countsFromIndices(yc []int, idx []int, nClasses int) []int {
	counts := make([]int, nClasses)
	for _, ii := range idx {
		counts[yc[ii]]++
	}
	return counts
}

func giniFromCounts(counts []int) float64 {
	n := 0.0
	for _, c := range counts {
		n += float64(c)
	}
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		p := float64(c) / n
		res += p * (1 - p)
	}
	return res
}

func entropyFromCounts(counts []int) float64 {
	n := 0.0
	for _, c := range counts {
		n += float64(c)
	}
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		res -= p * math.Log2(p)
	}
	return res
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func countsToProbas(counts []int) []float64 {
	n := 0
	for _, c := range counts {
		n += c
	}
	p := make([]float64, len(counts))
	if n == 0 {
		return p
	}
	for i := range counts {
		p[i] = float64(counts[i]) / float64(n)
	}
	return p
}

// argmaxFloat returns the first index holding the maximum.
func argmaxFloat(arr []float64) int {
	best := 0
	for i := 1; i < len(arr); i++ {
		if arr[i] > arr[best] {
			best = i
		}
	}
	return best
}

// classIndex returns index of label in the sorted classes slice.
func classIndex(label int, classes []int) (int, bool) {
	i := sort.SearchInts(classes, label)
	if i < len(classes) && classes[i] == label {
		return i, true
	}
	return 0, false
}

func sortedClasses(y []int) []int {
	seen := map[int]struct{}{}
	out := make([]int, 0, 2)
	for _, lab := range y {
		if _, ok := seen[lab]; !ok {
			seen[lab] = struct{}{}
			out = append(out, lab)
		}
	}
	sort.Ints(out)
	return out
}
