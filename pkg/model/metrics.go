package model

import (
	"errors"
	"fmt"
)

// ErrLengthMismatch is returned when true and predicted labels differ in length.
var ErrLengthMismatch = errors.New("metrics: y_true and y_pred length mismatch")

// ConfusionMatrix holds binary outcome counts, indexed [true][predicted].
type ConfusionMatrix [2][2]int

// TN, FP, FN and TP name the cells of a binary confusion matrix.
func (cm ConfusionMatrix) TN() int { return cm[0][0] }
func (cm ConfusionMatrix) FP() int { return cm[0][1] }
func (cm ConfusionMatrix) FN() int { return cm[1][0] }
func (cm ConfusionMatrix) TP() int { return cm[1][1] }

// Total is the number of labelled rows counted.
func (cm ConfusionMatrix) Total() int { return cm.TN() + cm.FP() + cm.FN() + cm.TP() }

// BinaryConfusionMatrix counts outcomes for labels 0/1. Any non-zero label counts as 1.
func BinaryConfusionMatrix(yTrue, yPred []int) (ConfusionMatrix, error) {
	var cm ConfusionMatrix
	if len(yTrue) != len(yPred) {
		return cm, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(yTrue), len(yPred))
	}
	for i := range yTrue {
		cm[binary(yTrue[i])][binary(yPred[i])]++
	}
	return cm, nil
}

// Precision is TP/(TP+FP), 0 when nothing was predicted positive.
func (cm ConfusionMatrix) Precision() float64 { return ratio(cm.TP(), cm.TP()+cm.FP()) }

// Recall is TP/(TP+FN), 0 when there are no positive rows.
func (cm ConfusionMatrix) Recall() float64 { return ratio(cm.TP(), cm.TP()+cm.FN()) }

// Specificity is TN/(TN+FP), 0 when there are no negative rows.
func (cm ConfusionMatrix) Specificity() float64 { return ratio(cm.TN(), cm.TN()+cm.FP()) }

// F1 is the harmonic mean of precision and recall, 0 when both are 0.
func (cm ConfusionMatrix) F1() float64 {
	// 2TP/(2TP+FP+FN) equals 2PR/(P+R) without the intermediate rounding.
	return ratio(2*cm.TP(), 2*cm.TP()+cm.FP()+cm.FN())
}

// BalancedAccuracy is the mean of per-class recall over the classes present in y_true.
func (cm ConfusionMatrix) BalancedAccuracy() float64 {
	sum, present := 0.0, 0
	if cm.TN()+cm.FP() > 0 {
		sum += cm.Specificity()
		present++
	}
	if cm.TP()+cm.FN() > 0 {
		sum += cm.Recall()
		present++
	}
	if present == 0 {
		return 0
	}
	return sum / float64(present)
}

// Accuracy is the share of rows predicted correctly.
func (cm ConfusionMatrix) Accuracy() float64 { return ratio(cm.TP()+cm.TN(), cm.Total()) }

// BalancedAccuracy scores binary predictions; it is the grid search objective.
func BalancedAccuracy(yTrue, yPred []int) (float64, error) {
	cm, err := BinaryConfusionMatrix(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return cm.BalancedAccuracy(), nil
}

func binary(label int) int {
	if label != 0 {
		return 1
	}
	return 0
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
