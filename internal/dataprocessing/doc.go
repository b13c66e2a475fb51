// Package dataprocessing provides the cleaning and imputation routines for the
// customer dataset. It covers the complete data path from workbook ingestion
// to a table with no missing values in the imputed columns.
//
// # Architecture
//
// The package is organized into four groups:
//
// 1. Parser: reads an .xlsx sheet into a domain.Table (ReadWorkbook, ParseRows)
// 2. Normalizer: canonicalizes categorical text (NormalizeEmployment, FillMode)
// 3. Imputers: column median, grouped median and model-based iterative
// imputation (ImputeMedian, ImputeGroupedMedian, ImputeWithModel)
// 4. Range checks: ClipUpper
//
// # Usage
//
//	wb, err := dataprocessing.ReadWorkbook("dataset.xlsx", "Sheet1")
//	if err != nil {
//	    return err
//	}
//	table := wb.Table
//
//	dataprocessing.NormalizeEmployment(table.MustColumn(domain.ColEmploymentStatus))
//	dataprocessing.ImputeMedian(table.MustColumn(domain.ColCreditScore))
//	dataprocessing.ImputeGroupedMedian(
//	    table.MustColumn(domain.ColLoanBalance),
//	    table.MustColumn(domain.ColCreditCardType))
//
//	imputer := dataprocessing.NewIterativeImputer(dataprocessing.ImputerOptions{Seed: 42})
//	dataprocessing.ImputeWithModel(ctx, table, domain.ColIncome,
//	    domain.ImputationExcluded(), domain.ImputationCategorical, imputer)
//
//	dataprocessing.ClipUpper(table.MustColumn(domain.ColCreditUtilization), 1.0)
//
// # Data Flow
//
//	Excel File → Parser → Table → Normalizer → Imputers → Clip → Exporter
//
// # Iterative imputation
//
// The design matrix drops the identifier and monthly history columns and
// one-hot encodes the categorical predictors (drop-first). Every missing
// entry starts at its column median; then, for up to MaxIter rounds, each
// incomplete column (fewest missing first) is refitted on all other
// columns with a random forest and its missing entries re-predicted. The
// loop stops early once the largest change of a round falls below
// Tol times the largest observed magnitude.
//
// # Error Handling
//
// Parsing failures are returned as errors.AppError values of type PARSING.
// Imputers return an error when asked to treat a text column as numeric.
package dataprocessing
