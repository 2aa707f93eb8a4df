package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditdefault/pkg/config"
)

func TestRootCommandFlags(t *testing.T) {
	cfg := config.Default()
	cmd := newRootCommand(cfg)

	require.NoError(t, cmd.ParseFlags([]string{
		"--train", "in/a.zip",
		"--folds", "5",
		"--seed", "7",
		"--registry", "runs.db",
		"--log-format", "json",
	}))

	assert.Equal(t, "in/a.zip", cfg.TrainPath)
	assert.Equal(t, 5, cfg.Folds)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, "runs.db", cfg.RegistryPath)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, config.Default().TestPath, cfg.TestPath)
}

func TestRootCommandRejectsArgs(t *testing.T) {
	cmd := newRootCommand(config.Default())
	cmd.SetArgs([]string{"extra"})
	assert.Error(t, cmd.Execute())
}
