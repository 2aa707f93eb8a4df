package dataprep

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"creditdefault/pkg/data"
)

// ErrSchemaMismatch is returned when the input lacks a column the cleaner needs.
var ErrSchemaMismatch = errors.New("dataprep: schema mismatch")

const (
	educationCol = "EDUCATION"
	marriageCol  = "MARRIAGE"

	// educationOthers is the code every education level >= 4 collapses into.
	educationOthers = 4
)

// Cleaned is the output of Clean for one split.
type Cleaned struct {
	Data dataframe.DataFrame // cleaned dataset including the label column
	X    dataframe.DataFrame // features only
	Y    []int               // labels aligned with X by row
}

// Clean normalizes a raw credit dataset into features and labels.
// The input frame is never modified.
func Clean(raw dataframe.DataFrame, schema data.Schema) (Cleaned, error) {
	if raw.Err != nil {
		return Cleaned{}, fmt.Errorf("dataprep: input frame: %w", raw.Err)
	}
	if err := requireColumns(raw, schema.RawLabel, schema.ID, educationCol, marriageCol); err != nil {
		return Cleaned{}, err
	}

	df := raw.Rename(schema.Label, schema.RawLabel)
	df = df.Drop(schema.ID)
	if df.Err != nil {
		return Cleaned{}, fmt.Errorf("dataprep: drop %s: %w", schema.ID, df.Err)
	}

	df = DropMissing(df)

	// 0 means "not available" for both codes.
	df = df.Filter(dataframe.F{Colname: educationCol, Comparator: series.Neq, Comparando: 0.0})
	df = df.Filter(dataframe.F{Colname: marriageCol, Comparator: series.Neq, Comparando: 0.0})
	if df.Err != nil {
		return Cleaned{}, fmt.Errorf("dataprep: filter unavailable codes: %w", df.Err)
	}

	df = df.Mutate(collapseEducation(df.Col(educationCol)))
	if df.Err != nil {
		return Cleaned{}, fmt.Errorf("dataprep: recode %s: %w", educationCol, df.Err)
	}

	labels := df.Col(schema.Label).Float()
	y := make([]int, len(labels))
	for i, v := range labels {
		y[i] = int(v)
	}
	x := df.Drop(schema.Label)
	if x.Err != nil {
		return Cleaned{}, fmt.Errorf("dataprep: split features: %w", x.Err)
	}

	return Cleaned{Data: df, X: x, Y: y}, nil
}

// DropMissing removes every row holding a missing value in any column.
func DropMissing(df dataframe.DataFrame) dataframe.DataFrame {
	n := df.Nrow()
	missing := make([]bool, n)
	for _, name := range df.Names() {
		for i, na := range df.Col(name).IsNaN() {
			if na {
				missing[i] = true
			}
		}
	}

	keep := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !missing[i] {
			keep = append(keep, i)
		}
	}
	if len(keep) == n {
		return df.Copy()
	}
	return df.Subset(keep)
}

// collapseEducation maps codes >= 4 to the "others" code and returns the
// column as a string series so it is handled as a nominal category.
func collapseEducation(s series.Series) series.Series {
	vals := s.Float()
	codes := make([]string, len(vals))
	for i, v := range vals {
		code := int(math.Round(v))
		if code >= educationOthers {
			code = educationOthers
		}
		codes[i] = strconv.Itoa(code)
	}
	return series.New(codes, series.String, s.Name)
}

func requireColumns(df dataframe.DataFrame, cols ...string) error {
	have := make(map[string]struct{}, df.Ncol())
	for _, name := range df.Names() {
		have[name] = struct{}{}
	}
	for _, c := range cols {
		if _, ok := have[c]; !ok {
			return fmt.Errorf("%w: missing column %q", ErrSchemaMismatch, c)
		}
	}
	return nil
}
