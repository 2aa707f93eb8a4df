// Package search selects random forest hyperparameters by cross-validated grid search.
package search

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/go-gota/gota/dataframe"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"creditdefault/pkg/dataprep"
	"creditdefault/pkg/loader"
	"creditdefault/pkg/model"
	"creditdefault/pkg/pipeline"
)

// Params is one point of the grid. MaxDepth 0 means unlimited.
type Params struct {
	NEstimators     int `json:"n_estimators"`
	MaxDepth        int `json:"max_depth"`
	MinSamplesSplit int `json:"min_samples_split"`
	MinSamplesLeaf  int `json:"min_samples_leaf"`
}

// Grid lists the values tried for each hyperparameter.
type Grid struct {
	NEstimators     []int
	MaxDepth        []int
	MinSamplesSplit []int
	MinSamplesLeaf  []int
}

// DefaultGrid is 200 trees crossed with depth, split and leaf limits (18 candidates).
var DefaultGrid = Grid{
	NEstimators:     []int{200},
	MaxDepth:        []int{10, 0},
	MinSamplesSplit: []int{2, 5, 10},
	MinSamplesLeaf:  []int{1, 2, 4},
}

// Candidates expands the grid. Parameters are nested by name in alphabetical
// order (max_depth outermost, n_estimators innermost), which also fixes the
// winner when two candidates tie.
func (g Grid) Candidates() []Params {
	var out []Params
	for _, depth := range g.MaxDepth {
		for _, leaf := range g.MinSamplesLeaf {
			for _, split := range g.MinSamplesSplit {
				for _, trees := range g.NEstimators {
					out = append(out, Params{
						NEstimators:     trees,
						MaxDepth:        depth,
						MinSamplesSplit: split,
						MinSamplesLeaf:  leaf,
					})
				}
			}
		}
	}
	return out
}

// CandidateResult is the cross-validation outcome of one candidate.
type CandidateResult struct {
	Params     Params
	FoldScores []float64
	MeanScore  float64
	StdScore   float64
}

// Result is a fitted grid search. It predicts with the best candidate refit
// on the full training data.
type Result struct {
	Best       *pipeline.Pipeline
	BestParams Params
	BestScore  float64
	CVResults  []CandidateResult
}

func init() {
	gob.Register(&Result{})
}

// Predict delegates to the refit best pipeline.
func (r *Result) Predict(X dataframe.DataFrame) ([]int, error) {
	if r.Best == nil {
		return nil, errors.New("search: result holds no fitted pipeline")
	}
	return r.Best.Predict(X)
}

// Summary reports the winning parameters and their mean cross-validation score.
func (r *Result) Summary() (any, float64) { return r.BestParams, r.BestScore }

// GridSearch is a pipeline.Trainer that scores every grid candidate with
// stratified k-fold cross-validation on balanced accuracy.
type GridSearch struct {
	Grid        Grid
	Folds       int
	Seed        int64
	Workers     int // concurrent candidate/fold fits; 0 => GOMAXPROCS
	Categorical []string
	Logger      *slog.Logger
}

// New returns a search over DefaultGrid with 10 folds and seed 42.
func New(categorical []string, logger *slog.Logger) *GridSearch {
	if logger == nil {
		logger = slog.Default()
	}
	return &GridSearch{
		Grid:        DefaultGrid,
		Folds:       10,
		Seed:        42,
		Categorical: categorical,
		Logger:      logger,
	}
}

// Fit runs the full sweep, then refits the best candidate on X, y.
// It blocks until every fold of every candidate has been scored.
func (s *GridSearch) Fit(ctx context.Context, X dataframe.DataFrame, y []int) (pipeline.Predictor, error) {
	if X.Nrow() != len(y) {
		return nil, fmt.Errorf("search: %d rows but %d labels", X.Nrow(), len(y))
	}
	candidates := s.Grid.Candidates()
	if len(candidates) == 0 {
		return nil, errors.New("search: empty grid")
	}
	folds, err := loader.StratifiedKFold(y, s.Folds)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	s.Logger.Info("grid search started",
		"candidates", len(candidates),
		"folds", len(folds),
		"fits", len(candidates)*len(folds),
	)
	start := time.Now()

	scores := make([][]float64, len(candidates))
	for i := range scores {
		scores[i] = make([]float64, len(folds))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())
	for ci, params := range candidates {
		ci, params := ci, params
		for fi, fold := range folds {
			fi, fold := fi, fold
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				score, err := s.scoreFold(X, y, fold, params)
				if err != nil {
					return fmt.Errorf("search: candidate %d fold %d: %w", ci, fi, err)
				}
				scores[ci][fi] = score
				s.Logger.Debug("fold scored", "candidate", ci, "fold", fi, "balanced_accuracy", score)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{CVResults: make([]CandidateResult, len(candidates))}
	best := -1
	for ci, params := range candidates {
		mean, std := stat.PopMeanStdDev(scores[ci], nil)
		res.CVResults[ci] = CandidateResult{Params: params, FoldScores: scores[ci], MeanScore: mean, StdScore: std}
		s.Logger.Info("candidate scored",
			"n_estimators", params.NEstimators,
			"max_depth", params.MaxDepth,
			"min_samples_split", params.MinSamplesSplit,
			"min_samples_leaf", params.MinSamplesLeaf,
			"mean_balanced_accuracy", mean,
			"std", std,
		)
		if best < 0 || mean > res.CVResults[best].MeanScore {
			best = ci
		}
	}
	res.BestParams = candidates[best]
	res.BestScore = res.CVResults[best].MeanScore

	s.Logger.Info("refitting best candidate",
		"params", res.BestParams,
		"mean_balanced_accuracy", res.BestScore,
		"sweep_duration", time.Since(start),
	)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.Best = s.newPipeline(res.BestParams, 0)
	if err := res.Best.Fit(X, y); err != nil {
		return nil, fmt.Errorf("search: refit: %w", err)
	}
	return res, nil
}

func (s *GridSearch) scoreFold(X dataframe.DataFrame, y []int, fold loader.Fold, params Params) (float64, error) {
	// The search already fans out, so each forest builds its trees serially.
	p := s.newPipeline(params, 1)
	if err := p.Fit(X.Subset(fold.Train), loader.Take(y, fold.Train)); err != nil {
		return 0, err
	}
	pred, err := p.Predict(X.Subset(fold.Test))
	if err != nil {
		return 0, err
	}
	return model.BalancedAccuracy(loader.Take(y, fold.Test), pred)
}

func (s *GridSearch) newPipeline(params Params, jobs int) *pipeline.Pipeline {
	forest := model.NewRandomForest(
		model.WithNEstimators(params.NEstimators),
		model.WithForestMaxDepth(params.MaxDepth),
		model.WithForestMinSamplesSplit(params.MinSamplesSplit),
		model.WithForestMinSamplesLeaf(params.MinSamplesLeaf),
		model.WithForestRandomState(s.Seed),
		model.WithNJobs(jobs),
	)
	return pipeline.NewPipeline(dataprep.NewOneHotEncoder(s.Categorical...), forest)
}

func (s *GridSearch) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return runtime.GOMAXPROCS(0)
}
