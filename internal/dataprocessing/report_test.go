package dataprocessing

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"

	"custclean/pkg/contracts/domain"
)

func TestReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.SheetNames([]string{"Sheet1", "Archive"})
	r.NullCounts([]domain.NullCount{{Column: "Income", Nulls: 3}})
	r.ValueCounts(domain.ColEmploymentStatus, []domain.ValueCount{{Value: "employed", Count: 12}})
	r.Line("Clipped %d values", 2)

	out := buf.String()
	assert.Contains(t, out, "Sheet names in the Excel file:\n[Sheet1 Archive]\n")
	assert.Regexp(t, `Income\s+3`, out)
	assert.Contains(t, out, "Employment_Status\n")
	assert.Regexp(t, `employed\s+12`, out)
	assert.Contains(t, out, "Clipped 2 values\n")
}

func TestReporter_NilWriter(t *testing.T) {
	r := NewReporter(nil)
	assert.NotPanics(t, func() { r.Line("ignored") })
}

func TestReporter_Snapshot(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.SheetNames([]string{"Sheet1", "Archive"})
	r.Line("Dataset loaded successfully.")
	r.NullCounts([]domain.NullCount{
		{Column: domain.ColCustomerID, Nulls: 0},
		{Column: domain.ColIncome, Nulls: 12},
		{Column: domain.ColCreditUtilization, Nulls: 3},
	})
	r.ValueCounts(domain.ColEmploymentStatus, []domain.ValueCount{
		{Value: "employed", Count: 40},
		{Value: "retired", Count: 7},
	})
	r.Line("Imputation completed successfully!")

	snaps.MatchSnapshot(t, buf.String())
}
