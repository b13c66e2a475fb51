package domain

// Customer dataset column names
const (
	ColCustomerID        = "Customer_ID"
	ColEmploymentStatus  = "Employment_Status"
	ColCreditScore       = "Credit_Score"
	ColCreditCardType    = "Credit_Card_Type"
	ColLoanBalance       = "Loan_Balance"
	ColLocation          = "Location"
	ColIncome            = "Income"
	ColCreditUtilization = "Credit_Utilization"
)

// MonthColumns are the monthly history columns, Month_1 through Month_6
var MonthColumns = []string{"Month_1", "Month_2", "Month_3", "Month_4", "Month_5", "Month_6"}

// EmploymentStatus is the canonical employment vocabulary
type EmploymentStatus string

const (
	EmploymentEmployed     EmploymentStatus = "employed"
	EmploymentSelfEmployed EmploymentStatus = "self-employed"
	EmploymentUnemployed   EmploymentStatus = "unemployed"
	EmploymentRetired      EmploymentStatus = "retired"
)

// EmploymentVocabulary lists the canonical statuses
var EmploymentVocabulary = []EmploymentStatus{
	EmploymentEmployed,
	EmploymentSelfEmployed,
	EmploymentUnemployed,
	EmploymentRetired,
}

// EmploymentVariants maps lower-cased, trimmed spellings onto the vocabulary
var EmploymentVariants = map[string]EmploymentStatus{
	"emp":           EmploymentEmployed,
	"self-employed": EmploymentSelfEmployed,
	"unemployed":    EmploymentUnemployed,
	"employed":      EmploymentEmployed,
	"retired":       EmploymentRetired,
}

// IsCanonical reports whether s belongs to the employment vocabulary
func (s EmploymentStatus) IsCanonical() bool {
	for _, v := range EmploymentVocabulary {
		if s == v {
			return true
		}
	}
	return false
}

// ImputationExcluded lists the columns kept out of the income model:
// the identifier and the monthly history.
func ImputationExcluded() []string {
	return append([]string{ColCustomerID}, MonthColumns...)
}

// ImputationCategorical lists the columns one-hot encoded as predictors
var ImputationCategorical = []string{ColEmploymentStatus, ColCreditCardType, ColLocation}
