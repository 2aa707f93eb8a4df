package config

import (
	"os"
	"strconv"
)

// Config holds the paths and knobs of a training run.
type Config struct {
	TrainPath    string
	TestPath     string
	ModelPath    string
	MetricsPath  string
	RegistryPath string // empty disables the run ledger
	Folds        int
	Seed         int64
	Workers      int // 0 => GOMAXPROCS
	LogLevel     string
	LogFormat    string
}

// Default returns the fixed relative layout used when nothing is overridden.
func Default() *Config {
	return &Config{
		TrainPath:   "files/input/train_data.csv.zip",
		TestPath:    "files/input/test_data.csv.zip",
		ModelPath:   "files/models/model.pkl.gz",
		MetricsPath: "files/output/metrics.json",
		Folds:       10,
		Seed:        42,
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// Load reads configuration from environment variables with Default as fallback.
func Load() *Config {
	d := Default()
	return &Config{
		TrainPath:    getEnv("TRAIN_PATH", d.TrainPath),
		TestPath:     getEnv("TEST_PATH", d.TestPath),
		ModelPath:    getEnv("MODEL_PATH", d.ModelPath),
		MetricsPath:  getEnv("METRICS_PATH", d.MetricsPath),
		RegistryPath: getEnv("REGISTRY_PATH", d.RegistryPath),
		Folds:        getEnvInt("CV_FOLDS", d.Folds),
		Seed:         int64(getEnvInt("RANDOM_STATE", int(d.Seed))),
		Workers:      getEnvInt("WORKERS", d.Workers),
		LogLevel:     getEnv("LOG_LEVEL", d.LogLevel),
		LogFormat:    getEnv("LOG_FORMAT", d.LogFormat),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
