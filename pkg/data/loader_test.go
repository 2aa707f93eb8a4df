package data_test

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditdefault/pkg/data"
	"creditdefault/pkg/testutil"
)

func TestReadCSVParsesEveryColumnAsFloat(t *testing.T) {
	df, err := data.ReadCSV(strings.NewReader("ID,EDUCATION,AGE\n1,2,30\n2,5,NA\n3,1,\n"))
	require.NoError(t, err)

	assert.Equal(t, 3, df.Nrow())
	assert.Equal(t, []string{"ID", "EDUCATION", "AGE"}, df.Names())
	assert.Equal(t, []float64{2, 5, 1}, df.Col("EDUCATION").Float())

	age := df.Col("AGE").Float()
	assert.Equal(t, 30.0, age[0])
	assert.True(t, math.IsNaN(age[1]), "NA should parse as missing")
	assert.True(t, math.IsNaN(age[2]), "empty cell should parse as missing")
}

func TestReadZippedCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input", "train_data.csv.zip")
	rows := testutil.SyntheticRows(12)
	testutil.WriteZippedCSV(t, path, "train_data.csv", testutil.CreditCSV(rows...))

	df, err := data.ReadZippedCSV(path)
	require.NoError(t, err)

	assert.Equal(t, 12, df.Nrow())
	assert.Equal(t, 25, df.Ncol())
	assert.Equal(t, data.CreditSchema.RawLabel, df.Names()[df.Ncol()-1])
}

func TestReadZippedCSVWithoutCSVEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.zip")
	testutil.WriteZippedCSV(t, path, "README.txt", "nothing here")

	_, err := data.ReadZippedCSV(path)
	require.ErrorIs(t, err, data.ErrNoCSV)
}

func TestReadZippedCSVMissingFile(t *testing.T) {
	_, err := data.ReadZippedCSV(filepath.Join(t.TempDir(), "absent.csv.zip"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.csv.zip")
}
