package dataprocessing

import (
	"sort"
	"strings"

	"custclean/pkg/contracts/domain"
)

// NormalizeResult summarizes a categorical normalization pass
type NormalizeResult struct {
	Mapped        int      `json:"mapped"`
	PassedThrough int      `json:"passed_through"`
	Nulls         int      `json:"nulls"`
	Unrecognized  []string `json:"unrecognized,omitempty"`
}

// NormalizeCategorical lower-cases and trims every non-null value of col and
// maps it through variants. Values without an entry are kept in their
// lower-cased, trimmed form. Numeric cells are treated as their text.
func NormalizeCategorical(col *domain.Column, variants map[string]string) NormalizeResult {
	var res NormalizeResult
	unknown := make(map[string]struct{})
	for i, cell := range col.Cells {
		if cell.IsNull() {
			res.Nulls++
			continue
		}
		key := strings.TrimSpace(strings.ToLower(cell.String()))
		if canonical, ok := variants[key]; ok {
			col.SetText(i, canonical)
			res.Mapped++
			continue
		}
		col.SetText(i, key)
		res.PassedThrough++
		unknown[key] = struct{}{}
	}
	for v := range unknown {
		res.Unrecognized = append(res.Unrecognized, v)
	}
	sort.Strings(res.Unrecognized)
	return res
}

// NormalizeEmployment applies the employment variant table to col
func NormalizeEmployment(col *domain.Column) NormalizeResult {
	variants := make(map[string]string, len(domain.EmploymentVariants))
	for k, v := range domain.EmploymentVariants {
		variants[k] = string(v)
	}
	return NormalizeCategorical(col, variants)
}

// FillMode replaces missing cells of col with its most frequent value
// (ties go to the value seen first). It returns the fill value and the
// number of cells filled; a column without values is left unchanged.
func FillMode(col *domain.Column) (string, int) {
	counts := col.ValueCounts()
	if len(counts) == 0 {
		return "", 0
	}
	mode := counts[0].Value
	filled := 0
	for _, i := range col.NullRows() {
		col.SetText(i, mode)
		filled++
	}
	return mode, filled
}
