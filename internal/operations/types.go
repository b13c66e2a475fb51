package operations

// Step identifiers, in pipeline order
const (
	StepIDLoad          = "load"
	StepIDInspect       = "inspect"
	StepIDNormalize     = "normalize_employment"
	StepIDCreditScore   = "impute_credit_score"
	StepIDLoanBalance   = "impute_loan_balance"
	StepIDIncome        = "impute_income"
	StepIDClip          = "clip_utilization"
	StepIDInspectResult = "inspect_result"
	StepIDWrite         = "write"
)

// Step display names
const (
	StepNameLoad          = "Load Workbook"
	StepNameInspect       = "Inspect Missing Values"
	StepNameNormalize     = "Normalize Employment Status"
	StepNameCreditScore   = "Impute Credit Score"
	StepNameLoanBalance   = "Impute Loan Balance"
	StepNameIncome        = "Impute Income"
	StepNameClip          = "Clip Credit Utilization"
	StepNameInspectResult = "Inspect Result"
	StepNameWrite         = "Write Output"
)

// Imputation strategies reported in metrics and the summary
const (
	StrategyMode          = "mode"
	StrategyMedian        = "median"
	StrategyGroupedMedian = "grouped_median"
	StrategyIterative     = "iterative"
)
