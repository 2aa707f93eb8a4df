package pipeline

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/go-gota/gota/dataframe"

	"creditdefault/pkg/dataprep"
	"creditdefault/pkg/model"
)

// Predictor is a fitted model that labels rows of a feature table.
type Predictor interface {
	Predict(X dataframe.DataFrame) ([]int, error)
}

// Trainer fits a Predictor on a feature table and aligned labels.
type Trainer interface {
	Fit(ctx context.Context, X dataframe.DataFrame, y []int) (Predictor, error)
}

// Pipeline one-hot encodes the nominal columns and feeds the result to a classifier.
// Fields are exported so a fitted pipeline can be gob encoded.
type Pipeline struct {
	Encoder    *dataprep.OneHotEncoder
	Classifier model.Classifier
}

func init() {
	gob.Register(&Pipeline{})
}

// NewPipeline chains an encoder and a classifier.
func NewPipeline(enc *dataprep.OneHotEncoder, clf model.Classifier) *Pipeline {
	return &Pipeline{Encoder: enc, Classifier: clf}
}

// Fit learns encoder categories on X, then trains the classifier on the encoded rows.
func (p *Pipeline) Fit(X dataframe.DataFrame, y []int) error {
	if X.Nrow() != len(y) {
		return fmt.Errorf("pipeline: %d rows but %d labels", X.Nrow(), len(y))
	}
	if err := p.Encoder.Fit(X); err != nil {
		return fmt.Errorf("pipeline: fit encoder: %w", err)
	}
	rows, err := p.Encoder.Transform(X)
	if err != nil {
		return fmt.Errorf("pipeline: encode: %w", err)
	}
	if err := p.Classifier.Fit(rows, y); err != nil {
		return fmt.Errorf("pipeline: fit classifier: %w", err)
	}
	return nil
}

// Predict labels every row of X.
func (p *Pipeline) Predict(X dataframe.DataFrame) ([]int, error) {
	if p.Encoder == nil || p.Classifier == nil {
		return nil, errors.New("pipeline: not fitted")
	}
	if X.Nrow() == 0 {
		return []int{}, nil
	}
	rows, err := p.Encoder.Transform(X)
	if err != nil {
		return nil, fmt.Errorf("pipeline: encode: %w", err)
	}
	return p.Classifier.Predict(rows), nil
}
