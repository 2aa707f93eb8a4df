package dataprep

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditdefault/pkg/data"
	"creditdefault/pkg/testutil"
)

func TestCleanDropsUnavailableEducation(t *testing.T) {
	rows := testutil.SyntheticRows(10)
	rows[3].Education = 0
	rows[7].Education = 0

	got, err := Clean(testutil.CreditFrame(t, rows...), data.CreditSchema)
	require.NoError(t, err)

	assert.Equal(t, 8, got.Data.Nrow())
	assert.Equal(t, 8, got.X.Nrow())
	assert.Len(t, got.Y, 8)
}

func TestCleanDropsUnavailableMarriageAndMissingValues(t *testing.T) {
	rows := testutil.SyntheticRows(10)
	rows[0].Marriage = 0
	rows[5].Missing = true

	got, err := Clean(testutil.CreditFrame(t, rows...), data.CreditSchema)
	require.NoError(t, err)

	assert.Equal(t, 8, got.X.Nrow())
	for _, v := range got.X.Col("MARRIAGE").Float() {
		assert.NotZero(t, v)
	}
	for _, v := range got.X.Col("AGE").Float() {
		assert.False(t, math.IsNaN(v))
	}
}

func TestCleanCollapsesEducation(t *testing.T) {
	codes := []int{1, 2, 3, 4, 5, 6, 9}
	rows := testutil.SyntheticRows(len(codes))
	for i, c := range codes {
		rows[i].Education = c
	}

	got, err := Clean(testutil.CreditFrame(t, rows...), data.CreditSchema)
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "3", "4", "4", "4", "4"}, got.X.Col("EDUCATION").Records())
}

func TestCleanSplitsFeaturesAndLabels(t *testing.T) {
	rows := testutil.SyntheticRows(6)
	rows[2].Education = 0

	got, err := Clean(testutil.CreditFrame(t, rows...), data.CreditSchema)
	require.NoError(t, err)

	assert.Equal(t, data.FeatureNames, got.X.Names())
	assert.Contains(t, got.Data.Names(), "default")
	assert.NotContains(t, got.Data.Names(), "ID")
	assert.NotContains(t, got.Data.Names(), data.CreditSchema.RawLabel)

	// Surviving rows keep their order and labels.
	want := []int{rows[0].Default, rows[1].Default, rows[3].Default, rows[4].Default, rows[5].Default}
	assert.Equal(t, want, got.Y)
	assert.Equal(t, []float64{
		float64(rows[0].Pay0), float64(rows[1].Pay0), float64(rows[3].Pay0),
		float64(rows[4].Pay0), float64(rows[5].Pay0),
	}, got.X.Col("PAY_0").Float())
}

func TestCleanDoesNotMutateInput(t *testing.T) {
	rows := testutil.SyntheticRows(5)
	rows[1].Education = 6
	raw := testutil.CreditFrame(t, rows...)
	before := raw.Records()

	_, err := Clean(raw, data.CreditSchema)
	require.NoError(t, err)

	assert.Equal(t, before, raw.Records())
	assert.Contains(t, raw.Names(), data.CreditSchema.RawLabel)
}

func TestCleanIsDeterministic(t *testing.T) {
	rows := testutil.SyntheticRows(20)
	rows[4].Marriage = 0
	raw := testutil.CreditFrame(t, rows...)

	a, err := Clean(raw, data.CreditSchema)
	require.NoError(t, err)
	b, err := Clean(raw, data.CreditSchema)
	require.NoError(t, err)

	assert.Equal(t, a.X.Records(), b.X.Records())
	assert.Equal(t, a.Y, b.Y)
}

func TestCleanSchemaMismatch(t *testing.T) {
	raw := testutil.CreditFrame(t, testutil.SyntheticRows(3)...).Drop("ID")

	_, err := Clean(raw, data.CreditSchema)
	require.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Contains(t, err.Error(), `"ID"`)
}

func TestDropMissing(t *testing.T) {
	rows := testutil.SyntheticRows(4)
	rows[0].Missing = true
	rows[3].Missing = true

	got := DropMissing(testutil.CreditFrame(t, rows...))
	assert.Equal(t, 2, got.Nrow())
	assert.Equal(t, []float64{2, 3}, got.Col("ID").Float())
}
