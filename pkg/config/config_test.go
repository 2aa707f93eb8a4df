package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "files/input/train_data.csv.zip", cfg.TrainPath)
	assert.Equal(t, "files/input/test_data.csv.zip", cfg.TestPath)
	assert.Equal(t, "files/models/model.pkl.gz", cfg.ModelPath)
	assert.Equal(t, "files/output/metrics.json", cfg.MetricsPath)
	assert.Empty(t, cfg.RegistryPath)
	assert.Equal(t, 10, cfg.Folds)
	assert.Equal(t, int64(42), cfg.Seed)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MODEL_PATH", "out/model.gz")
	t.Setenv("REGISTRY_PATH", "runs.db")
	t.Setenv("CV_FOLDS", "5")
	t.Setenv("WORKERS", "not-a-number")

	cfg := Load()
	assert.Equal(t, "out/model.gz", cfg.ModelPath)
	assert.Equal(t, "runs.db", cfg.RegistryPath)
	assert.Equal(t, 5, cfg.Folds)
	assert.Equal(t, 0, cfg.Workers, "unparseable ints fall back to the default")
	assert.Equal(t, Default().TrainPath, cfg.TrainPath)
}
