package operations

import (
	"time"

	"custclean/internal/dataprocessing"
	"custclean/pkg/contracts"
	"custclean/pkg/contracts/domain"
)

// Summary is the machine-readable record of a run, written as JSON when a
// summary path is configured.
type Summary struct {
	RunID       string                `json:"run_id"`
	Version     contracts.VersionInfo `json:"version"`
	Input       string                `json:"input"`
	Sheet       string                `json:"sheet"`
	Output      string                `json:"output"`
	CSVOutput   string                `json:"csv_output,omitempty"`
	Status      RunStatus             `json:"status"`
	Error       string                `json:"error,omitempty"`
	StartedAt   time.Time             `json:"started_at"`
	FinishedAt  *time.Time            `json:"finished_at,omitempty"`
	Rows        int                   `json:"rows"`
	Columns     int                   `json:"columns"`
	Sheets      []string              `json:"sheets,omitempty"`
	NullsBefore []domain.NullCount    `json:"nulls_before,omitempty"`
	NullsAfter  []domain.NullCount    `json:"nulls_after,omitempty"`

	Employment  *EmploymentSummary          `json:"employment,omitempty"`
	CreditScore *dataprocessing.MedianFill  `json:"credit_score,omitempty"`
	LoanBalance *dataprocessing.GroupedFill `json:"loan_balance,omitempty"`
	Income      *dataprocessing.ModelFill   `json:"income,omitempty"`
	Utilization *dataprocessing.ClipResult  `json:"utilization,omitempty"`
	Steps       []StepSummary               `json:"steps"`
}

// EmploymentSummary reports the normalization and gap fill of
// Employment_Status.
type EmploymentSummary struct {
	dataprocessing.NormalizeResult
	FillValue string `json:"fill_value,omitempty"`
	Filled    int    `json:"filled"`
}

// StepSummary is the outcome of one step
type StepSummary struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Status     StepStatus `json:"status"`
	DurationMS int64      `json:"duration_ms"`
	Message    string     `json:"message,omitempty"`
}

func newSummary(id, input, sheet, output string) *Summary {
	return &Summary{
		RunID:     id,
		Version:   contracts.GetVersionInfo(),
		Input:     input,
		Sheet:     sheet,
		Output:    output,
		Status:    RunStatusPending,
		StartedAt: time.Now(),
	}
}

// Finalize copies run and step outcomes from state into its summary
func (s *State) Finalize() *Summary {
	s.mu.RLock()
	sum := s.Summary
	sum.Status = s.Status
	sum.StartedAt = s.StartTime
	sum.FinishedAt = s.EndTime
	if s.Error != nil {
		sum.Error = s.Error.Error()
	}
	sum.Sheets = s.Sheets
	if s.Table != nil {
		sum.Rows = s.Table.Rows()
		sum.Columns = len(s.Table.Columns)
	}
	s.mu.RUnlock()

	sum.Steps = sum.Steps[:0]
	for _, step := range s.OrderedSteps() {
		sum.Steps = append(sum.Steps, StepSummary{
			ID:         step.ID,
			Name:       step.Name,
			Status:     step.GetStatus(),
			DurationMS: step.Duration().Milliseconds(),
			Message:    step.Message,
		})
	}
	return sum
}
