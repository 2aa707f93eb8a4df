package dataprep

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditdefault/pkg/data"
)

func TestOneHotEncoderLayout(t *testing.T) {
	train, err := data.ReadCSV(strings.NewReader("LIMIT,SEX,EDUCATION,AGE\n100,1,3,30\n200,2,1,40\n300,1,2,50\n"))
	require.NoError(t, err)

	enc := NewOneHotEncoder("SEX", "EDUCATION")
	require.NoError(t, enc.Fit(train))

	assert.Equal(t, [][]float64{{1, 2}, {1, 2, 3}}, enc.Categories)
	assert.Equal(t, []string{"LIMIT", "AGE"}, enc.Passthrough)
	assert.Equal(t, 7, enc.Width())
	assert.Equal(t, []string{"SEX_1", "SEX_2", "EDUCATION_1", "EDUCATION_2", "EDUCATION_3", "LIMIT", "AGE"}, enc.FeatureNames())

	rows, err := enc.Transform(train)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{
		{1, 0, 0, 0, 1, 100, 30},
		{0, 1, 1, 0, 0, 200, 40},
		{1, 0, 0, 1, 0, 300, 50},
	}, rows)
}

func TestOneHotEncoderIgnoresUnknownCategories(t *testing.T) {
	train, err := data.ReadCSV(strings.NewReader("SEX,AGE\n1,30\n2,40\n"))
	require.NoError(t, err)
	test, err := data.ReadCSV(strings.NewReader("SEX,AGE\n3,35\n"))
	require.NoError(t, err)

	enc := NewOneHotEncoder("SEX")
	require.NoError(t, enc.Fit(train))

	rows, err := enc.Transform(test)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 0, 35}}, rows)
}

func TestOneHotEncoderAcceptsStringCategories(t *testing.T) {
	rows := []string{"1", "4", "4"}
	raw, err := data.ReadCSV(strings.NewReader("EDUCATION,AGE\n1,20\n4,30\n4,40\n"))
	require.NoError(t, err)
	recoded := raw.Mutate(collapseEducation(raw.Col("EDUCATION")))
	require.Equal(t, rows, recoded.Col("EDUCATION").Records())

	enc := NewOneHotEncoder("EDUCATION")
	require.NoError(t, enc.Fit(recoded))
	assert.Equal(t, [][]float64{{1, 4}}, enc.Categories)
}

func TestOneHotEncoderErrors(t *testing.T) {
	df, err := data.ReadCSV(strings.NewReader("SEX,AGE\n1,30\n"))
	require.NoError(t, err)

	_, err = NewOneHotEncoder("SEX").Transform(df)
	require.ErrorIs(t, err, ErrNotFitted)

	err = NewOneHotEncoder("MARRIAGE").Fit(df)
	require.ErrorIs(t, err, ErrSchemaMismatch)
}
