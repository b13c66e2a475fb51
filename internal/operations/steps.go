package operations

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"custclean/internal/config"
	"custclean/internal/dataprocessing"
	apperrors "custclean/internal/errors"
	"custclean/internal/exporter"
	"custclean/internal/infrastructure"
	"custclean/internal/validation"
	"custclean/pkg/contracts/domain"
)

// StepDeps carries the collaborators shared by the pipeline steps
type StepDeps struct {
	Config    *config.Config
	Validator *validation.FileValidator
	Reporter  *dataprocessing.Reporter
	Imputer   *dataprocessing.IterativeImputer
	Workbook  *exporter.WorkbookWriter
	CSV       *exporter.CSVWriter
	Metrics   *infrastructure.PipelineMetrics
	Logger    *slog.Logger
}

func column(table *domain.Table, name string) (*domain.Column, error) {
	col, err := table.Column(name)
	if err != nil {
		return nil, apperrors.NewValidationError("required column missing", err).With("column", name)
	}
	return col, nil
}

// LoadStep reads the input workbook into the run state
type LoadStep struct {
	stepMeta
	deps StepDeps
}

// NewLoadStep creates the workbook loading step
func NewLoadStep(deps StepDeps) *LoadStep {
	return &LoadStep{stepMeta: newStepMeta(StepIDLoad, StepNameLoad), deps: deps}
}

// Validate checks that an input path is set
func (s *LoadStep) Validate(state *State) error {
	if state.InputPath == "" {
		return apperrors.NewValidationError("input path is empty", nil)
	}
	return nil
}

// Execute validates and parses the input workbook
func (s *LoadStep) Execute(ctx context.Context, state *State) error {
	if err := s.deps.Validator.ValidateWorkbook(state.InputPath); err != nil {
		return err
	}

	wb, err := dataprocessing.ReadWorkbook(state.InputPath, state.SheetName)
	if err != nil {
		return err
	}
	state.Sheets = wb.Sheets
	state.Table = wb.Table

	s.deps.Reporter.SheetNames(wb.Sheets)
	s.deps.Reporter.Line("Dataset loaded successfully.")
	infrastructure.AddSpanEvent(ctx, "workbook.loaded",
		attribute.Int("rows", wb.Table.Rows()),
		attribute.Int("columns", len(wb.Table.Columns)))
	return nil
}

// InspectStep reports the missing-value count of every column
type InspectStep struct {
	stepMeta
	deps   StepDeps
	after  bool
	banner string
}

// NewInspectStep creates the inspection run right after loading
func NewInspectStep(deps StepDeps) *InspectStep {
	return &InspectStep{stepMeta: newStepMeta(StepIDInspect, StepNameInspect), deps: deps}
}

// NewInspectResultStep creates the inspection run after all fills
func NewInspectResultStep(deps StepDeps) *InspectStep {
	return &InspectStep{
		stepMeta: newStepMeta(StepIDInspectResult, StepNameInspectResult),
		deps:     deps,
		after:    true,
		banner:   "Imputation completed successfully!",
	}
}

// Execute prints and records the null counts
func (s *InspectStep) Execute(ctx context.Context, state *State) error {
	table, err := state.RequireTable()
	if err != nil {
		return err
	}

	counts := table.NullCounts()
	if s.after {
		state.Summary.NullsAfter = counts
	} else {
		state.Summary.NullsBefore = counts
	}

	total := 0
	for _, c := range counts {
		total += c.Nulls
	}
	if s.banner != "" {
		s.deps.Reporter.Line(s.banner)
	}
	s.deps.Reporter.NullCounts(counts)
	s.deps.Logger.InfoContext(ctx, "Missing values inspected",
		slog.String("step", s.ID()),
		slog.Int("missing", total))
	return nil
}

// NormalizeStep canonicalizes Employment_Status and optionally fills its
// gaps with the most frequent value
type NormalizeStep struct {
	stepMeta
	deps StepDeps
}

// NewNormalizeStep creates the employment normalization step
func NewNormalizeStep(deps StepDeps) *NormalizeStep {
	return &NormalizeStep{stepMeta: newStepMeta(StepIDNormalize, StepNameNormalize), deps: deps}
}

// Execute normalizes the column and prints its value counts
func (s *NormalizeStep) Execute(ctx context.Context, state *State) error {
	table, err := state.RequireTable()
	if err != nil {
		return err
	}
	col, err := column(table, domain.ColEmploymentStatus)
	if err != nil {
		return err
	}

	res := dataprocessing.NormalizeEmployment(col)
	if len(res.Unrecognized) > 0 {
		s.deps.Logger.WarnContext(ctx, "Unrecognized employment status values kept as-is",
			slog.String("column", col.Name),
			slog.Any("values", res.Unrecognized))
	}
	summary := &EmploymentSummary{NormalizeResult: res}

	if s.deps.Config.Pipeline.FillMissingEmployment {
		summary.FillValue, summary.Filled = dataprocessing.FillMode(col)
		s.deps.Metrics.RecordImputed(ctx, col.Name, StrategyMode, summary.Filled)
	}
	state.Summary.Employment = summary

	s.deps.Reporter.ValueCounts(col.Name, col.ValueCounts())
	s.deps.Logger.InfoContext(ctx, "Employment status normalized",
		slog.String("step", s.ID()),
		slog.String("column", col.Name),
		slog.Int("mapped", res.Mapped),
		slog.Int("passed_through", res.PassedThrough),
		slog.Int("imputed", summary.Filled),
		slog.String("fill_value", summary.FillValue))
	return nil
}

// CreditScoreStep fills Credit_Score with its median
type CreditScoreStep struct {
	stepMeta
	deps StepDeps
}

// NewCreditScoreStep creates the credit score median fill step
func NewCreditScoreStep(deps StepDeps) *CreditScoreStep {
	return &CreditScoreStep{stepMeta: newStepMeta(StepIDCreditScore, StepNameCreditScore), deps: deps}
}

// Execute applies the median fill
func (s *CreditScoreStep) Execute(ctx context.Context, state *State) error {
	table, err := state.RequireTable()
	if err != nil {
		return err
	}
	col, err := column(table, domain.ColCreditScore)
	if err != nil {
		return err
	}

	res, err := dataprocessing.ImputeMedian(col)
	if err != nil {
		return apperrors.NewImputationError(col.Name, err)
	}
	state.Summary.CreditScore = &res
	s.deps.Metrics.RecordImputed(ctx, col.Name, StrategyMedian, res.Imputed)

	s.deps.Logger.InfoContext(ctx, "Median imputation applied",
		slog.String("step", s.ID()),
		slog.String("column", col.Name),
		slog.Float64("median", res.Median),
		slog.Int("imputed", res.Imputed))
	return nil
}

// LoanBalanceStep fills Loan_Balance with the median of its card type
type LoanBalanceStep struct {
	stepMeta
	deps StepDeps
}

// NewLoanBalanceStep creates the grouped median fill step
func NewLoanBalanceStep(deps StepDeps) *LoanBalanceStep {
	return &LoanBalanceStep{stepMeta: newStepMeta(StepIDLoanBalance, StepNameLoanBalance), deps: deps}
}

// Execute applies the grouped median fill
func (s *LoanBalanceStep) Execute(ctx context.Context, state *State) error {
	table, err := state.RequireTable()
	if err != nil {
		return err
	}
	target, err := column(table, domain.ColLoanBalance)
	if err != nil {
		return err
	}
	key, err := column(table, domain.ColCreditCardType)
	if err != nil {
		return err
	}

	res, err := dataprocessing.ImputeGroupedMedian(target, key)
	if err != nil {
		return apperrors.NewImputationError(target.Name, err)
	}
	state.Summary.LoanBalance = &res
	s.deps.Metrics.RecordImputed(ctx, target.Name, StrategyGroupedMedian, res.Imputed)

	if len(res.FallbackRows) > 0 {
		s.deps.Logger.WarnContext(ctx, "Rows filled with the column median",
			slog.String("column", target.Name),
			slog.String("group_by", key.Name),
			slog.Int("rows", len(res.FallbackRows)))
	}
	s.deps.Logger.InfoContext(ctx, "Grouped median imputation applied",
		slog.String("step", s.ID()),
		slog.String("column", target.Name),
		slog.String("group_by", key.Name),
		slog.Int("groups", len(res.Groups)),
		slog.Int("imputed", res.Imputed))
	return nil
}

// IncomeStep fills Income with the iterative imputer
type IncomeStep struct {
	stepMeta
	deps StepDeps
}

// NewIncomeStep creates the model-based income imputation step
func NewIncomeStep(deps StepDeps) *IncomeStep {
	return &IncomeStep{stepMeta: newStepMeta(StepIDIncome, StepNameIncome), deps: deps}
}

// Validate checks that an imputer is configured
func (s *IncomeStep) Validate(state *State) error {
	if s.deps.Imputer == nil {
		return apperrors.NewValidationError("no imputer configured", nil)
	}
	return nil
}

// Execute runs the iterative imputer and applies its Income column
func (s *IncomeStep) Execute(ctx context.Context, state *State) error {
	table, err := state.RequireTable()
	if err != nil {
		return err
	}

	res, err := dataprocessing.ImputeWithModel(ctx, table, domain.ColIncome,
		domain.ImputationExcluded(), domain.ImputationCategorical, s.deps.Imputer)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		return apperrors.NewImputationError(domain.ColIncome, err)
	}
	state.Summary.Income = &res
	s.deps.Metrics.RecordImputed(ctx, domain.ColIncome, StrategyIterative, res.Imputed)
	s.deps.Metrics.RecordRounds(ctx, res.Imputer.Rounds)

	infrastructure.AddSpanEvent(ctx, "imputer.finished",
		attribute.Int("rounds", res.Imputer.Rounds),
		attribute.Bool("converged", res.Imputer.Converged))
	s.deps.Logger.InfoContext(ctx, "Iterative imputation applied",
		slog.String("step", s.ID()),
		slog.String("column", domain.ColIncome),
		slog.Int("imputed", res.Imputed),
		slog.Int("features", len(res.Features)),
		slog.Int("rounds", res.Imputer.Rounds),
		slog.Bool("converged", res.Imputer.Converged))
	return nil
}

// ClipStep caps Credit_Utilization
type ClipStep struct {
	stepMeta
	deps StepDeps
}

// NewClipStep creates the utilization clamp step
func NewClipStep(deps StepDeps) *ClipStep {
	return &ClipStep{stepMeta: newStepMeta(StepIDClip, StepNameClip), deps: deps}
}

// Execute clips values above the configured cap
func (s *ClipStep) Execute(ctx context.Context, state *State) error {
	table, err := state.RequireTable()
	if err != nil {
		return err
	}
	col, err := column(table, domain.ColCreditUtilization)
	if err != nil {
		return err
	}

	res, err := dataprocessing.ClipUpper(col, s.deps.Config.Pipeline.UtilizationCap)
	if err != nil {
		return apperrors.NewImputationError(col.Name, err)
	}
	state.Summary.Utilization = &res
	s.deps.Metrics.RecordClipped(ctx, col.Name, res.Clipped)

	s.deps.Logger.InfoContext(ctx, "Values clipped",
		slog.String("step", s.ID()),
		slog.String("column", col.Name),
		slog.Float64("upper", res.Upper),
		slog.Int("clipped", res.Clipped))
	return nil
}

// WriteStep saves the cleaned table
type WriteStep struct {
	stepMeta
	deps StepDeps
}

// NewWriteStep creates the output step
func NewWriteStep(deps StepDeps) *WriteStep {
	return &WriteStep{stepMeta: newStepMeta(StepIDWrite, StepNameWrite), deps: deps}
}

// Validate checks that an output path is set
func (s *WriteStep) Validate(state *State) error {
	if state.OutputPath == "" {
		return apperrors.NewValidationError("output path is empty", nil)
	}
	return nil
}

// Execute writes the workbook and the optional CSV mirror
func (s *WriteStep) Execute(ctx context.Context, state *State) error {
	table, err := state.RequireTable()
	if err != nil {
		return err
	}

	if err := s.deps.Validator.ValidateOutputFile(state.OutputPath); err != nil {
		return err
	}
	if err := s.deps.Workbook.Write(state.OutputPath, table); err != nil {
		return err
	}

	csvPath := s.deps.Config.Output.CSVPath
	if csvPath != "" {
		if err := s.deps.Validator.ValidateOutputFile(csvPath); err != nil {
			return err
		}
		if err := s.deps.CSV.WriteTable(csvPath, table, s.deps.Config.Output.CSVBOM); err != nil {
			return fmt.Errorf("csv mirror: %w", err)
		}
		state.Summary.CSVOutput = csvPath
	}

	s.deps.Logger.InfoContext(ctx, "Output written",
		slog.String("step", s.ID()),
		slog.String("path", state.OutputPath),
		slog.String("csv_path", csvPath),
		slog.Int("rows", table.Rows()))
	return nil
}
