// Package evaluate turns a fitted predictor's output into metrics records.
package evaluate

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"

	"creditdefault/pkg/model"
	"creditdefault/pkg/pipeline"
)

// Split names.
const (
	Train = "train"
	Test  = "test"
)

// Record discriminators.
const (
	TypeMetrics   = "metrics"
	TypeConfusion = "cm_matrix"
)

// MetricsRecord holds the scalar scores of one split.
type MetricsRecord struct {
	Type             string  `json:"type"`
	Dataset          string  `json:"dataset"`
	Precision        float64 `json:"precision"`
	BalancedAccuracy float64 `json:"balanced_accuracy"`
	Recall           float64 `json:"recall"`
	F1Score          float64 `json:"f1_score"`
}

// ConfusionRow counts predictions for rows sharing one true label.
type ConfusionRow struct {
	Predicted0 int `json:"predicted_0"`
	Predicted1 int `json:"predicted_1"`
}

// ConfusionRecord holds the confusion matrix of one split.
type ConfusionRecord struct {
	Type    string       `json:"type"`
	Dataset string       `json:"dataset"`
	True0   ConfusionRow `json:"true_0"`
	True1   ConfusionRow `json:"true_1"`
}

// Report predicts X once and scores the predictions against y.
func Report(p pipeline.Predictor, X dataframe.DataFrame, y []int, split string) (MetricsRecord, ConfusionRecord, error) {
	pred, err := p.Predict(X)
	if err != nil {
		return MetricsRecord{}, ConfusionRecord{}, fmt.Errorf("evaluate: predict %s: %w", split, err)
	}
	cm, err := model.BinaryConfusionMatrix(y, pred)
	if err != nil {
		return MetricsRecord{}, ConfusionRecord{}, fmt.Errorf("evaluate: %s: %w", split, err)
	}
	return Metrics(cm, split), Confusion(cm, split), nil
}

// Metrics builds the scalar record for a split.
func Metrics(cm model.ConfusionMatrix, split string) MetricsRecord {
	return MetricsRecord{
		Type:             TypeMetrics,
		Dataset:          split,
		Precision:        cm.Precision(),
		BalancedAccuracy: cm.BalancedAccuracy(),
		Recall:           cm.Recall(),
		F1Score:          cm.F1(),
	}
}

// Confusion builds the confusion matrix record for a split.
func Confusion(cm model.ConfusionMatrix, split string) ConfusionRecord {
	return ConfusionRecord{
		Type:    TypeConfusion,
		Dataset: split,
		True0:   ConfusionRow{Predicted0: cm.TN(), Predicted1: cm.FP()},
		True1:   ConfusionRow{Predicted0: cm.FN(), Predicted1: cm.TP()},
	}
}
