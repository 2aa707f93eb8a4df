package data

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/klauspost/compress/zip"
)

// ErrNoCSV is returned when an archive holds no .csv entry.
var ErrNoCSV = errors.New("loader: archive contains no csv file")

// missingValues are the cell contents parsed as missing.
var missingValues = []string{"", "NA", "NaN", "nan", "<nil>"}

// ReadCSV parses a CSV stream with a header row into a DataFrame.
// Every column is parsed as float; unparseable cells become NaN so the
// cleaner can drop them along with other missing values.
func ReadCSV(r io.Reader) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(bufio.NewReader(r),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.Float),
		dataframe.NaNValues(missingValues),
	)
	if df.Err != nil {
		return df, fmt.Errorf("loader: parse csv: %w", df.Err)
	}
	return df, nil
}

// ReadZippedCSV loads the first .csv entry of a zip archive.
func ReadZippedCSV(archive string) (dataframe.DataFrame, error) {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("loader: open %s: %w", archive, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.EqualFold(path.Ext(f.Name), ".csv") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("loader: open %s in %s: %w", f.Name, archive, err)
		}
		df, err := ReadCSV(rc)
		rc.Close()
		if err != nil {
			return df, fmt.Errorf("%s: %w", archive, err)
		}
		return df, nil
	}
	return dataframe.DataFrame{}, fmt.Errorf("%s: %w", archive, ErrNoCSV)
}
