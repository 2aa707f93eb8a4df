package model

import (
	"errors"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// RandomForest for classification
type RandomForest struct {
	// Hyperparameters / options
	NEstimators     int
	MaxDepth        int // 0 => unlimited
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int // 0 => floor(sqrt(n_features))
	Bootstrap       bool
	RandomState     int64
	NJobs           int // trees built concurrently; 0 => GOMAXPROCS

	// Fitted state
	Trees   []*DecisionTreeClassifier
	Classes []int
}

// RandomForestOption functional config for RandomForest
type RandomForestOption func(*RandomForest)

func WithNEstimators(n int) RandomForestOption { return func(rf *RandomForest) { rf.NEstimators = n } }
func WithBootstrap(b bool) RandomForestOption  { return func(rf *RandomForest) { rf.Bootstrap = b } }
func WithForestMaxDepth(d int) RandomForestOption {
	return func(rf *RandomForest) { rf.MaxDepth = d }
}
func WithForestMinSamplesSplit(n int) RandomForestOption {
	return func(rf *RandomForest) { rf.MinSamplesSplit = n }
}
func WithForestMinSamplesLeaf(n int) RandomForestOption {
	return func(rf *RandomForest) { rf.MinSamplesLeaf = n }
}
func WithForestMaxFeatures(k int) RandomForestOption {
	return func(rf *RandomForest) { rf.MaxFeatures = k }
}
func WithForestRandomState(seed int64) RandomForestOption {
	return func(rf *RandomForest) { rf.RandomState = seed }
}
func WithNJobs(n int) RandomForestOption { return func(rf *RandomForest) { rf.NJobs = n } }

// NewRandomForest initializes the forest with sensible defaults.
func NewRandomForest(opts ...RandomForestOption) *RandomForest {
	rf := &RandomForest{
		NEstimators:     100,
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     0,
		Bootstrap:       true,
		RandomState:     42,
	}
	for _, o := range opts {
		o(rf)
	}
	return rf
}

// Fit trains the random forest.
// Each tree gets its own seed derived from RandomState, so the fitted forest
// does not depend on goroutine scheduling.
func (rf *RandomForest) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("randomforest: empty X")
	}
	n := len(X)
	if len(y) != n {
		return errors.New("randomforest: X and y length mismatch")
	}
	if rf.NEstimators <= 0 {
		return errors.New("randomforest: NEstimators must be positive")
	}

	rf.Classes = sortedClasses(y)
	maxFeatures := rf.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = max(int(math.Sqrt(float64(len(X[0])))), 1)
	}

	trees := make([]*DecisionTreeClassifier, rf.NEstimators)
	var g errgroup.Group
	g.SetLimit(rf.jobs())
	for i := 0; i < rf.NEstimators; i++ {
		i := i
		g.Go(func() error {
			seed := rf.RandomState + int64(i)
			treeRand := rand.New(rand.NewSource(seed))

			// Bootstrap sampling: an index slice, not a copy of the data.
			sampleIndices := make([]int, n)
			for j := 0; j < n; j++ {
				if rf.Bootstrap {
					sampleIndices[j] = treeRand.Intn(n)
				} else {
					sampleIndices[j] = j
				}
			}

			tree := NewDecisionTreeClassifier(
				WithMaxDepth(rf.MaxDepth),
				WithMinSamplesSplit(rf.MinSamplesSplit),
				WithMinSamplesLeaf(rf.MinSamplesLeaf),
				WithMaxFeatures(maxFeatures),
				WithRandomState(seed),
			)
			if err := tree.fitSample(X, y, sampleIndices, rf.Classes); err != nil {
				return err
			}
			trees[i] = tree
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	rf.Trees = trees
	return nil
}

// PredictProba averages the class probabilities of all trees.
func (rf *RandomForest) PredictProba(X [][]float64) [][]float64 {
	perTree := make([][][]float64, len(rf.Trees))
	var g errgroup.Group
	g.SetLimit(rf.jobs())
	for i, tree := range rf.Trees {
		i, tree := i, tree
		g.Go(func() error {
			perTree[i] = tree.PredictProba(X)
			return nil
		})
	}
	_ = g.Wait()

	out := make([][]float64, len(X))
	for r := range X {
		acc := make([]float64, len(rf.Classes))
		// Summed in tree order so results are reproducible bit for bit.
		for t := range perTree {
			floats.Add(acc, perTree[t][r])
		}
		floats.Scale(1/float64(len(perTree)), acc)
		out[r] = acc
	}
	return out
}

// Predict returns the class with the highest mean probability; ties go to the lower class.
func (rf *RandomForest) Predict(X [][]float64) []int {
	finalPred := make([]int, len(X))
	for i, p := range rf.PredictProba(X) {
		finalPred[i] = rf.Classes[floats.MaxIdx(p)]
	}
	return finalPred
}

func (rf *RandomForest) jobs() int {
	if rf.NJobs > 0 {
		return rf.NJobs
	}
	return runtime.GOMAXPROCS(0)
}
