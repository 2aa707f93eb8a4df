// Package run wires loading, cleaning, training, evaluation and persistence
// into one batch job.
package run

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"creditdefault/pkg/config"
	"creditdefault/pkg/data"
	"creditdefault/pkg/dataprep"
	"creditdefault/pkg/evaluate"
	"creditdefault/pkg/persist"
	"creditdefault/pkg/pipeline"
	"creditdefault/pkg/registry"
)

// Ledger records finished runs.
type Ledger interface {
	Record(ctx context.Context, run registry.Run, records ...any) (registry.Run, error)
}

// summarizer is implemented by predictors that carry search results.
type summarizer interface {
	Summary() (params any, score float64)
}

// Runner executes a training run end to end.
type Runner struct {
	Config  *config.Config
	Trainer pipeline.Trainer
	Logger  *slog.Logger
	Ledger  Ledger // optional
}

// Outcome is what a finished run produced.
type Outcome struct {
	RunID          string
	Model          pipeline.Predictor
	TrainMetrics   evaluate.MetricsRecord
	TestMetrics    evaluate.MetricsRecord
	TrainConfusion evaluate.ConfusionRecord
	TestConfusion  evaluate.ConfusionRecord
}

// Records returns the metrics file lines in their fixed order.
func (o Outcome) Records() []any {
	return []any{o.TrainMetrics, o.TestMetrics, o.TrainConfusion, o.TestConfusion}
}

// Run loads both splits, trains on train, writes the model and the metrics file.
// Any error aborts the run; nothing is retried.
func (r *Runner) Run(ctx context.Context) (Outcome, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	out := Outcome{RunID: uuid.New().String()}
	logger = logger.With("run_id", out.RunID)
	start := time.Now()

	train, err := r.loadSplit(logger, evaluate.Train, r.Config.TrainPath)
	if err != nil {
		return out, err
	}
	test, err := r.loadSplit(logger, evaluate.Test, r.Config.TestPath)
	if err != nil {
		return out, err
	}

	logger.Info("training started", "rows", len(train.Y))
	model, err := r.Trainer.Fit(ctx, train.X, train.Y)
	if err != nil {
		return out, fmt.Errorf("run: train: %w", err)
	}
	out.Model = model

	if err := persist.SaveModel(r.Config.ModelPath, model); err != nil {
		return out, err
	}
	logger.Info("model saved", "path", r.Config.ModelPath)

	if out.TrainMetrics, out.TrainConfusion, err = evaluate.Report(model, train.X, train.Y, evaluate.Train); err != nil {
		return out, err
	}
	if out.TestMetrics, out.TestConfusion, err = evaluate.Report(model, test.X, test.Y, evaluate.Test); err != nil {
		return out, err
	}
	if err := persist.WriteMetrics(r.Config.MetricsPath, out.Records()...); err != nil {
		return out, err
	}
	logger.Info("metrics written",
		"path", r.Config.MetricsPath,
		"train_balanced_accuracy", out.TrainMetrics.BalancedAccuracy,
		"test_balanced_accuracy", out.TestMetrics.BalancedAccuracy,
	)

	if r.Ledger != nil {
		if err := r.record(ctx, out); err != nil {
			return out, err
		}
		logger.Info("run recorded")
	}

	logger.Info("run finished", "duration", time.Since(start))
	return out, nil
}

func (r *Runner) loadSplit(logger *slog.Logger, split, path string) (dataprep.Cleaned, error) {
	raw, err := data.ReadZippedCSV(path)
	if err != nil {
		return dataprep.Cleaned{}, fmt.Errorf("run: load %s: %w", split, err)
	}
	cleaned, err := dataprep.Clean(raw, data.CreditSchema)
	if err != nil {
		return dataprep.Cleaned{}, fmt.Errorf("run: clean %s: %w", split, err)
	}
	logger.Info("split cleaned",
		"split", split,
		"raw_rows", raw.Nrow(),
		"rows", cleaned.X.Nrow(),
		"features", cleaned.X.Ncol(),
	)
	return cleaned, nil
}

func (r *Runner) record(ctx context.Context, out Outcome) error {
	run := registry.Run{ID: out.RunID, ModelPath: r.Config.ModelPath}
	if s, ok := out.Model.(summarizer); ok {
		params, score := s.Summary()
		b, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("run: marshal params: %w", err)
		}
		run.Params, run.CVScore = b, score
	}
	if _, err := r.Ledger.Record(ctx, run, out.Records()...); err != nil {
		return fmt.Errorf("run: record: %w", err)
	}
	return nil
}
