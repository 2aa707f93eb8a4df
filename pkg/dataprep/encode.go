package dataprep

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
)

// ErrNotFitted is returned by Transform before Fit.
var ErrNotFitted = errors.New("dataprep: encoder not fitted")

// OneHotEncoder one-hot encodes a fixed set of nominal columns and passes every
// other column through unchanged. The output layout is the indicator blocks in
// Columns order followed by the passthrough columns in frame order.
// Categories unseen during Fit encode as an all-zero block.
type OneHotEncoder struct {
	Columns     []string
	Categories  [][]float64 // sorted known categories, aligned with Columns
	Passthrough []string
}

// NewOneHotEncoder returns an encoder for the given nominal columns.
func NewOneHotEncoder(columns ...string) *OneHotEncoder {
	return &OneHotEncoder{Columns: append([]string(nil), columns...)}
}

// Fit learns the categories of each nominal column.
func (e *OneHotEncoder) Fit(X dataframe.DataFrame) error {
	if err := requireColumns(X, e.Columns...); err != nil {
		return err
	}
	nominal := make(map[string]struct{}, len(e.Columns))
	e.Categories = make([][]float64, len(e.Columns))
	for j, name := range e.Columns {
		nominal[name] = struct{}{}
		e.Categories[j] = uniqueSorted(X.Col(name).Float())
	}
	e.Passthrough = e.Passthrough[:0]
	for _, name := range X.Names() {
		if _, ok := nominal[name]; !ok {
			e.Passthrough = append(e.Passthrough, name)
		}
	}
	return nil
}

// Width is the number of output features.
func (e *OneHotEncoder) Width() int {
	w := len(e.Passthrough)
	for _, cats := range e.Categories {
		w += len(cats)
	}
	return w
}

// FeatureNames returns output column names, "<col>_<category>" for indicators.
func (e *OneHotEncoder) FeatureNames() []string {
	out := make([]string, 0, e.Width())
	for j, name := range e.Columns {
		for _, c := range e.Categories[j] {
			out = append(out, fmt.Sprintf("%s_%g", name, c))
		}
	}
	return append(out, e.Passthrough...)
}

// Transform encodes X into a dense row-major matrix.
func (e *OneHotEncoder) Transform(X dataframe.DataFrame) ([][]float64, error) {
	if e.Categories == nil {
		return nil, ErrNotFitted
	}
	if err := requireColumns(X, append(append([]string(nil), e.Columns...), e.Passthrough...)...); err != nil {
		return nil, err
	}

	n := X.Nrow()
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, e.Width())
	}

	offset := 0
	for j, name := range e.Columns {
		cats := e.Categories[j]
		for i, v := range X.Col(name).Float() {
			if k, ok := categoryIndex(cats, v); ok {
				out[i][offset+k] = 1
			}
		}
		offset += len(cats)
	}
	for _, name := range e.Passthrough {
		for i, v := range X.Col(name).Float() {
			out[i][offset] = v
		}
		offset++
	}
	return out, nil
}

func uniqueSorted(vals []float64) []float64 {
	seen := map[float64]struct{}{}
	out := make([]float64, 0)
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

func categoryIndex(cats []float64, v float64) (int, bool) {
	k := sort.SearchFloat64s(cats, v)
	if k < len(cats) && cats[k] == v {
		return k, true
	}
	return 0, false
}
