package dataprocessing

import (
	"fmt"
	"io"
	"text/tabwriter"

	"custclean/pkg/contracts/domain"
)

// Reporter prints the human-readable console report of a run. The format
// is informational only.
type Reporter struct {
	w io.Writer
}

// NewReporter creates a reporter writing to w; a nil writer discards output.
func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = io.Discard
	}
	return &Reporter{w: w}
}

// SheetNames prints the sheets found in the workbook
func (r *Reporter) SheetNames(names []string) {
	fmt.Fprintln(r.w, "Sheet names in the Excel file:")
	fmt.Fprintf(r.w, "%v\n", names)
}

// Line prints a single message line
func (r *Reporter) Line(format string, args ...any) {
	fmt.Fprintf(r.w, format+"\n", args...)
}

// NullCounts prints the missing-value count of every column
func (r *Reporter) NullCounts(counts []domain.NullCount) {
	tw := tabwriter.NewWriter(r.w, 0, 0, 4, ' ', tabwriter.AlignRight)
	for _, c := range counts {
		fmt.Fprintf(tw, "%s\t%d\t\n", c.Column, c.Nulls)
	}
	tw.Flush()
}

// ValueCounts prints the frequency table of a categorical column
func (r *Reporter) ValueCounts(column string, counts []domain.ValueCount) {
	fmt.Fprintln(r.w, column)
	tw := tabwriter.NewWriter(r.w, 0, 0, 4, ' ', tabwriter.AlignRight)
	for _, c := range counts {
		fmt.Fprintf(tw, "%s\t%d\t\n", c.Value, c.Count)
	}
	tw.Flush()
}
