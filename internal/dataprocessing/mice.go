package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"custclean/internal/forest"
	"custclean/pkg/contracts/domain"
)

// Iterative imputation defaults
const (
	DefaultMaxIter = 10
	DefaultSeed    = 42
	DefaultTol     = 1e-3
)

// ImputerOptions configures an IterativeImputer
type ImputerOptions struct {
	MaxIter   int
	Tol       float64
	Seed      int64
	Estimator forest.Factory
	Logger    *slog.Logger
}

// IterativeImputer fills missing entries of a numeric matrix by repeatedly
// regressing each incomplete column on all the others, starting from a
// median fill.
type IterativeImputer struct {
	maxIter   int
	tol       float64
	seed      int64
	estimator forest.Factory
	logger    *slog.Logger
}

// ImputationReport describes one run of the iterative imputer
type ImputationReport struct {
	Order     []string  `json:"order"`
	Rounds    int       `json:"rounds"`
	Converged bool      `json:"converged"`
	Changes   []float64 `json:"changes"`
	Tolerance float64   `json:"tolerance"`
}

// NewIterativeImputer creates an imputer, filling unset options with the
// defaults (10 rounds, seed 42, 100-tree random forest).
func NewIterativeImputer(opts ImputerOptions) *IterativeImputer {
	if opts.MaxIter <= 0 {
		opts.MaxIter = DefaultMaxIter
	}
	if opts.Tol <= 0 {
		opts.Tol = DefaultTol
	}
	if opts.Estimator == nil {
		opts.Estimator = forest.NewFactory()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &IterativeImputer{
		maxIter:   opts.MaxIter,
		tol:       opts.Tol,
		seed:      opts.Seed,
		estimator: opts.Estimator,
		logger:    opts.Logger,
	}
}

// FitTransform returns a completed copy of m.Values. Observed entries are
// never changed.
func (im *IterativeImputer) FitTransform(ctx context.Context, m *DesignMatrix) ([][]float64, ImputationReport, error) {
	mask := m.missingMask()
	rows, cols := len(m.Values), len(m.Columns)

	xt := make([][]float64, rows)
	for i, row := range m.Values {
		xt[i] = append([]float64(nil), row...)
	}

	var allObserved []float64
	missing := make([]int, cols)
	for j := 0; j < cols; j++ {
		var observed []float64
		for i := 0; i < rows; i++ {
			if mask[i][j] {
				missing[j]++
			} else {
				observed = append(observed, xt[i][j])
			}
		}
		allObserved = append(allObserved, observed...)
		if len(observed) == 0 {
			return nil, ImputationReport{}, fmt.Errorf("column %s has no observed values", m.Columns[j])
		}
		fill := Median(observed)
		for i := 0; i < rows; i++ {
			if mask[i][j] {
				xt[i][j] = fill
			}
		}
	}

	order := make([]int, 0, cols)
	for j := 0; j < cols; j++ {
		if missing[j] > 0 {
			order = append(order, j)
		}
	}
	sort.SliceStable(order, func(a, b int) bool { return missing[order[a]] < missing[order[b]] })

	report := ImputationReport{Tolerance: im.tol * maxAbs(allObserved)}
	for _, j := range order {
		report.Order = append(report.Order, m.Columns[j])
	}
	if len(order) == 0 || cols < 2 {
		report.Converged = true
		return xt, report, nil
	}

	rng := rand.New(rand.NewSource(im.seed))
	for round := 1; round <= im.maxIter; round++ {
		prev := make([][]float64, rows)
		for i := range xt {
			prev[i] = append([]float64(nil), xt[i]...)
		}

		for _, j := range order {
			if err := ctx.Err(); err != nil {
				return nil, report, err
			}
			if err := im.imputeFeature(ctx, xt, mask, j, rng.Int63()); err != nil {
				return nil, report, fmt.Errorf("round %d, column %s: %w", round, m.Columns[j], err)
			}
		}

		change := infNormDiff(xt, prev)
		report.Rounds = round
		report.Changes = append(report.Changes, change)
		im.logger.DebugContext(ctx, "Imputation round complete",
			slog.Int("round", round),
			slog.Float64("change", change),
			slog.Float64("tolerance", report.Tolerance))

		if change < report.Tolerance {
			report.Converged = true
			break
		}
	}

	if !report.Converged {
		im.logger.WarnContext(ctx, "Iterative imputation stopped before convergence",
			slog.Int("max_iter", im.maxIter),
			slog.Float64("last_change", report.Changes[len(report.Changes)-1]),
			slog.Float64("tolerance", report.Tolerance))
	}
	return xt, report, nil
}

// imputeFeature refits column j on the rows where it was observed and
// replaces its originally missing entries with predictions.
func (im *IterativeImputer) imputeFeature(ctx context.Context, xt [][]float64, mask [][]bool, j int, seed int64) error {
	var trainX, predX [][]float64
	var trainY []float64
	var predRows []int
	for i, row := range xt {
		features := make([]float64, 0, len(row)-1)
		features = append(features, row[:j]...)
		features = append(features, row[j+1:]...)
		if mask[i][j] {
			predX = append(predX, features)
			predRows = append(predRows, i)
		} else {
			trainX = append(trainX, features)
			trainY = append(trainY, row[j])
		}
	}

	model := im.estimator(seed)
	if err := model.Fit(ctx, trainX, trainY); err != nil {
		return err
	}
	for k, v := range model.Predict(predX) {
		xt[predRows[k]][j] = v
	}
	return nil
}

// ModelFill describes the model-based imputation of one target column
type ModelFill struct {
	Column   string           `json:"column"`
	Imputed  int              `json:"imputed"`
	Features []string         `json:"features"`
	Skipped  []string         `json:"skipped,omitempty"`
	Imputer  ImputationReport `json:"imputer"`
}

// ImputeWithModel builds the design matrix from table, runs the iterative
// imputer over it and copies the completed target column back into the
// rows of table where target was missing. Observed target values are left
// untouched, and no other column of table is modified.
func ImputeWithModel(ctx context.Context, table *domain.Table, target string, excluded, categorical []string, im *IterativeImputer) (ModelFill, error) {
	col, err := table.Column(target)
	if err != nil {
		return ModelFill{}, err
	}
	res := ModelFill{Column: target}
	missingRows := col.NullRows()
	if len(missingRows) == 0 {
		res.Imputer.Converged = true
		return res, nil
	}

	m, err := BuildDesignMatrix(table, excluded, categorical)
	if err != nil {
		return res, err
	}
	res.Features = m.Columns
	res.Skipped = m.Skipped

	j := m.ColumnIndex(target)
	if j < 0 {
		return res, fmt.Errorf("column %s is not part of the design matrix", target)
	}

	completed, report, err := im.FitTransform(ctx, m)
	res.Imputer = report
	if err != nil {
		return res, err
	}

	for _, i := range missingRows {
		col.SetFloat(i, completed[i][j])
		res.Imputed++
	}
	return res, nil
}
