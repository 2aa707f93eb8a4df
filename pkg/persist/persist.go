// Package persist writes the trained model artifact and the metrics file.
package persist

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"creditdefault/pkg/pipeline"
)

// artifact wraps the predictor so its concrete type is recorded by gob.
type artifact struct {
	Model pipeline.Predictor
}

// SaveModel gob encodes a fitted predictor into a gzip file at path,
// replacing any existing file. Parent directories are created.
// The predictor's concrete type must be registered with gob.
func SaveModel(path string, p pipeline.Predictor) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("persist: create model dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("persist: create %s: %w", path, err)
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	if err := gob.NewEncoder(zw).Encode(&artifact{Model: p}); err != nil {
		zw.Close()
		return fmt.Errorf("persist: encode model: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("persist: flush %s: %w", path, err)
	}
	return f.Close()
}

// LoadModel reads a model written by SaveModel.
func LoadModel(path string) (pipeline.Predictor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("persist: open %s: %w", path, err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("persist: gunzip %s: %w", path, err)
	}
	defer zr.Close()

	var a artifact
	if err := gob.NewDecoder(zr).Decode(&a); err != nil {
		return nil, fmt.Errorf("persist: decode model: %w", err)
	}
	if a.Model == nil {
		return nil, fmt.Errorf("persist: %s holds no model", path)
	}
	return a.Model, nil
}

// WriteMetrics writes one JSON object per line, in argument order, replacing
// any existing file at path. Parent directories are created.
func WriteMetrics(path string, records ...any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("persist: create metrics dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("persist: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for i, r := range records {
		// Encode terminates each value with a newline.
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("persist: encode record %d: %w", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("persist: write %s: %w", path, err)
	}
	return f.Close()
}
