package operations

import (
	"fmt"
	"log/slog"

	"custclean/internal/config"
	"custclean/internal/dataprocessing"
	"custclean/internal/exporter"
	"custclean/internal/forest"
	"custclean/internal/validation"
)

// NewImputer builds the iterative imputer described by cfg
func NewImputer(cfg config.ImputerConfig, logger *slog.Logger) *dataprocessing.IterativeImputer {
	opts := []forest.Option{
		forest.WithNEstimators(cfg.Estimators),
		forest.WithMinSamplesSplit(cfg.MinSamplesSplit),
		forest.WithMinSamplesLeaf(cfg.MinSamplesLeaf),
		forest.WithMaxFeatures(cfg.MaxFeatures),
		forest.WithWorkers(cfg.Workers),
	}
	if cfg.MaxDepth > 0 {
		opts = append(opts, forest.WithMaxDepth(cfg.MaxDepth))
	}
	return dataprocessing.NewIterativeImputer(dataprocessing.ImputerOptions{
		MaxIter:   cfg.MaxIter,
		Tol:       cfg.Tolerance,
		Seed:      cfg.Seed,
		Estimator: forest.NewFactory(opts...),
		Logger:    logger,
	})
}

// NewPipeline registers the cleaning steps in execution order. Unset
// dependencies are built from deps.Config.
func NewPipeline(deps StepDeps) (*Registry, error) {
	if deps.Config == nil {
		deps.Config = config.Default()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Validator == nil {
		deps.Validator = validation.NewFileValidator(deps.Logger)
	}
	if deps.Reporter == nil {
		deps.Reporter = dataprocessing.NewReporter(nil)
	}
	if deps.Imputer == nil {
		deps.Imputer = NewImputer(deps.Config.Imputer, deps.Logger)
	}
	if deps.Workbook == nil {
		deps.Workbook = exporter.NewWorkbookWriter(deps.Logger)
	}
	if deps.CSV == nil {
		deps.CSV = exporter.NewCSVWriter(deps.Logger)
	}

	registry := NewRegistry()
	steps := []Step{
		NewLoadStep(deps),
		NewInspectStep(deps),
		NewNormalizeStep(deps),
		NewCreditScoreStep(deps),
		NewLoanBalanceStep(deps),
		NewIncomeStep(deps),
		NewClipStep(deps),
		NewInspectResultStep(deps),
		NewWriteStep(deps),
	}
	for _, step := range steps {
		if err := registry.Register(step); err != nil {
			return nil, fmt.Errorf("failed to register step %s: %w", step.ID(), err)
		}
	}
	return registry, nil
}
