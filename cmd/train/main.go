package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"creditdefault/pkg/config"
	"creditdefault/pkg/data"
	"creditdefault/pkg/observability"
	"creditdefault/pkg/registry"
	"creditdefault/pkg/run"
	"creditdefault/pkg/search"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand(config.Load()).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the credit default random forest and write its metrics",
		Long: `Cleans the train and test splits, selects random forest hyperparameters by
10-fold cross-validated grid search on balanced accuracy, saves the refit model
and writes train/test metrics and confusion matrices as JSON lines.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := observability.InitLogger(observability.LogConfig{
				Level:  cfg.LogLevel,
				Format: cfg.LogFormat,
			})
			if err := execute(cmd.Context(), cfg, logger); err != nil {
				logger.Error("run failed", "error", err)
				return err
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.TrainPath, "train", cfg.TrainPath, "zipped training CSV")
	f.StringVar(&cfg.TestPath, "test", cfg.TestPath, "zipped test CSV")
	f.StringVar(&cfg.ModelPath, "model", cfg.ModelPath, "output path of the gzip model artifact")
	f.StringVar(&cfg.MetricsPath, "metrics", cfg.MetricsPath, "output path of the JSON lines metrics file")
	f.StringVar(&cfg.RegistryPath, "registry", cfg.RegistryPath, "SQLite run ledger (disabled when empty)")
	f.IntVar(&cfg.Folds, "folds", cfg.Folds, "cross-validation folds")
	f.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random forest seed")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent fits during the search (0 = all CPUs)")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	f.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text or json")
	return cmd
}

func execute(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	trainer := search.New(data.CreditSchema.Categorical, logger)
	trainer.Folds = cfg.Folds
	trainer.Seed = cfg.Seed
	trainer.Workers = cfg.Workers

	runner := &run.Runner{Config: cfg, Trainer: trainer, Logger: logger}
	if cfg.RegistryPath != "" {
		store, err := registry.Open(cfg.RegistryPath)
		if err != nil {
			return err
		}
		defer store.Close()
		runner.Ledger = store
	}

	_, err := runner.Run(ctx)
	return err
}
