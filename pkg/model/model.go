package model

import "encoding/gob"

// Classifier is a supervised learner over dense features with integer labels.
type Classifier interface {
	Fit(X [][]float64, y []int) error
	Predict(X [][]float64) []int
}

// ProbabilisticClassifier also exposes per-class probabilities,
// ordered like the classes seen during Fit (ascending).
type ProbabilisticClassifier interface {
	Classifier
	PredictProba(X [][]float64) [][]float64
}

func init() {
	// Concrete classifiers travel inside serialized pipelines as interface values.
	gob.Register(&RandomForest{})
	gob.Register(&DecisionTreeClassifier{})
}
