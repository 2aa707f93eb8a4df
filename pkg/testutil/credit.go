// Package testutil builds small credit datasets for tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"

	"creditdefault/pkg/data"
)

// Row is one synthetic credit record. Columns not listed are derived from ID.
type Row struct {
	ID        int
	Sex       int
	Education int
	Marriage  int
	Pay0      int
	Default   int
	Missing   bool // leave AGE empty
}

// CreditCSV renders rows with the full source header.
func CreditCSV(rows ...Row) string {
	var b strings.Builder
	header := append([]string{data.CreditSchema.ID}, data.FeatureNames...)
	header = append(header, data.CreditSchema.RawLabel)
	b.WriteString(strings.Join(header, ","))
	b.WriteByte('\n')

	for _, r := range rows {
		age := strconv.Itoa(25 + r.ID%40)
		if r.Missing {
			age = ""
		}
		cells := []string{
			strconv.Itoa(r.ID),
			strconv.Itoa(10000 * (1 + r.ID%20)), // LIMIT_BAL
			strconv.Itoa(r.Sex),
			strconv.Itoa(r.Education),
			strconv.Itoa(r.Marriage),
			age,
			strconv.Itoa(r.Pay0),
		}
		for m := 2; m <= 6; m++ { // PAY_2..PAY_6
			cells = append(cells, strconv.Itoa((r.ID+m)%3-1))
		}
		for m := 1; m <= 6; m++ { // BILL_AMT1..6
			cells = append(cells, strconv.Itoa(1000*m+r.ID))
		}
		for m := 1; m <= 6; m++ { // PAY_AMT1..6
			cells = append(cells, strconv.Itoa(100*m+r.ID%7))
		}
		cells = append(cells, strconv.Itoa(r.Default))
		b.WriteString(strings.Join(cells, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

// CreditFrame parses rows into a raw frame.
func CreditFrame(t *testing.T, rows ...Row) dataframe.DataFrame {
	t.Helper()
	df, err := data.ReadCSV(strings.NewReader(CreditCSV(rows...)))
	require.NoError(t, err)
	return df
}

// SyntheticRows returns n clean, learnable rows: default is 1 exactly when PAY_0 >= 2.
func SyntheticRows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		pay0 := i%5 - 1 // -1..3
		def := 0
		if pay0 >= 2 {
			def = 1
		}
		rows[i] = Row{
			ID:        i + 1,
			Sex:       1 + i%2,
			Education: 1 + i%4,
			Marriage:  1 + i%3,
			Pay0:      pay0,
			Default:   def,
		}
	}
	return rows
}

// WriteZippedCSV stores content as name inside a new zip archive at path.
func WriteZippedCSV(t *testing.T, path, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = fmt.Fprint(w, content)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
}
