package dataprocessing

import (
	"fmt"
	"math"
	"sort"

	"custclean/pkg/contracts/domain"
)

// DesignMatrix is the numeric working copy handed to the iterative imputer.
// Values is row-major; missing entries are NaN.
type DesignMatrix struct {
	Columns []string
	Values  [][]float64
	// Skipped lists source columns left out: excluded, entirely missing, or
	// text columns that are not declared categorical.
	Skipped []string
}

// ColumnIndex returns the position of name in the matrix, or -1.
func (m *DesignMatrix) ColumnIndex(name string) int {
	for j, c := range m.Columns {
		if c == name {
			return j
		}
	}
	return -1
}

// OneHot encodes col as indicator columns named "<col>_<category>", one per
// distinct category in sorted order. With dropFirst the first category is
// the reference and gets no column. Missing cells encode as all zeros.
func OneHot(col *domain.Column, dropFirst bool) (names []string, encoded [][]float64) {
	seen := make(map[string]struct{})
	for _, cell := range col.Cells {
		if !cell.IsNull() {
			seen[cell.String()] = struct{}{}
		}
	}
	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	if dropFirst && len(categories) > 0 {
		categories = categories[1:]
	}

	pos := make(map[string]int, len(categories))
	names = make([]string, len(categories))
	for k, c := range categories {
		pos[c] = k
		names[k] = col.Name + "_" + c
	}

	encoded = make([][]float64, col.Len())
	for i, cell := range col.Cells {
		row := make([]float64, len(categories))
		if !cell.IsNull() {
			if k, ok := pos[cell.String()]; ok {
				row[k] = 1
			}
		}
		encoded[i] = row
	}
	return names, encoded
}

// BuildDesignMatrix copies table without the excluded columns, keeps the
// remaining numeric columns in table order and appends drop-first one-hot
// indicators for each categorical column, in the order given.
func BuildDesignMatrix(table *domain.Table, excluded, categorical []string) (*DesignMatrix, error) {
	skip := make(map[string]bool, len(excluded)+len(categorical))
	for _, name := range excluded {
		skip[name] = true
	}
	isCategorical := make(map[string]bool, len(categorical))
	for _, name := range categorical {
		isCategorical[name] = true
	}

	rows := table.Rows()
	m := &DesignMatrix{Values: make([][]float64, rows)}
	for i := range m.Values {
		m.Values[i] = make([]float64, 0, len(table.Columns))
	}

	for _, col := range table.Columns {
		if skip[col.Name] {
			m.Skipped = append(m.Skipped, col.Name)
			continue
		}
		if isCategorical[col.Name] {
			continue
		}
		if !col.IsNumeric() || col.NullCount() == rows {
			m.Skipped = append(m.Skipped, col.Name)
			continue
		}
		values, _, err := col.Floats()
		if err != nil {
			return nil, err
		}
		m.Columns = append(m.Columns, col.Name)
		for i, v := range values {
			m.Values[i] = append(m.Values[i], v)
		}
	}

	for _, name := range categorical {
		if skip[name] {
			continue
		}
		col, err := table.Column(name)
		if err != nil {
			return nil, fmt.Errorf("categorical predictor: %w", err)
		}
		names, encoded := OneHot(col, true)
		m.Columns = append(m.Columns, names...)
		for i := range m.Values {
			m.Values[i] = append(m.Values[i], encoded[i]...)
		}
	}

	if len(m.Columns) == 0 {
		return nil, fmt.Errorf("design matrix has no usable columns")
	}
	return m, nil
}

// missingMask returns mask[i][j] == true where Values[i][j] is NaN.
func (m *DesignMatrix) missingMask() [][]bool {
	mask := make([][]bool, len(m.Values))
	for i, row := range m.Values {
		mask[i] = make([]bool, len(row))
		for j, v := range row {
			mask[i][j] = math.IsNaN(v)
		}
	}
	return mask
}
