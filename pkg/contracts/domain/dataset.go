package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CellKind identifies what a Cell holds
type CellKind int

const (
	CellNull CellKind = iota
	CellNumber
	CellText
)

// String returns the lower-case name of the kind
func (k CellKind) String() string {
	switch k {
	case CellNumber:
		return "number"
	case CellText:
		return "text"
	default:
		return "null"
	}
}

// missingMarkers are the raw cell values treated as missing on load.
var missingMarkers = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"NULL": {}, "null": {}, "None": {}, "<NA>": {}, "#N/A": {}, "#NA": {},
	"1.#IND": {}, "1.#QNAN": {}, "-1.#IND": {}, "-1.#QNAN": {},
}

// Cell is a single value of a Table
type Cell struct {
	Kind   CellKind `json:"kind"`
	Number float64  `json:"number,omitempty"`
	Text   string   `json:"text,omitempty"`
}

// NullCell returns an empty cell
func NullCell() Cell { return Cell{Kind: CellNull} }

// NumberCell returns a numeric cell; NaN becomes a null cell.
func NumberCell(v float64) Cell {
	if math.IsNaN(v) {
		return NullCell()
	}
	return Cell{Kind: CellNumber, Number: v}
}

// TextCell returns a text cell
func TextCell(s string) Cell { return Cell{Kind: CellText, Text: s} }

// ParseCell converts a raw spreadsheet value into a Cell. Missing markers
// become null, values that parse as floats become numbers and everything
// else is kept as text.
func ParseCell(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if _, missing := missingMarkers[trimmed]; missing {
		return NullCell()
	}
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(v) {
		return NumberCell(v)
	}
	return TextCell(raw)
}

// ParseTextCell converts a value stored as a string in the spreadsheet.
// Missing markers still become null; everything else stays text, even when
// it looks like a number ("000123", "1e3").
func ParseTextCell(raw string) Cell {
	if _, missing := missingMarkers[strings.TrimSpace(raw)]; missing {
		return NullCell()
	}
	return TextCell(raw)
}

// IsNull reports whether the cell holds no value
func (c Cell) IsNull() bool { return c.Kind == CellNull }

// String renders the cell the way it is displayed in reports
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellText:
		return c.Text
	default:
		return ""
	}
}

// Column is a named vector of cells
type Column struct {
	Name  string `json:"name"`
	Cells []Cell `json:"cells"`
}

// NewColumn creates a column with the given cells
func NewColumn(name string, cells []Cell) *Column {
	return &Column{Name: name, Cells: cells}
}

// Len returns the number of cells in the column
func (c *Column) Len() int { return len(c.Cells) }

// IsNull reports whether row i is missing
func (c *Column) IsNull(i int) bool { return c.Cells[i].IsNull() }

// SetFloat stores a number at row i
func (c *Column) SetFloat(i int, v float64) { c.Cells[i] = NumberCell(v) }

// SetText stores text at row i
func (c *Column) SetText(i int, s string) { c.Cells[i] = TextCell(s) }

// NullCount returns the number of missing cells
func (c *Column) NullCount() int {
	n := 0
	for _, cell := range c.Cells {
		if cell.IsNull() {
			n++
		}
	}
	return n
}

// NullRows returns the indices of missing cells in row order
func (c *Column) NullRows() []int {
	var rows []int
	for i, cell := range c.Cells {
		if cell.IsNull() {
			rows = append(rows, i)
		}
	}
	return rows
}

// Floats returns the numeric view of the column. observed[i] is false for
// missing cells, whose value is NaN. A text cell is an error.
func (c *Column) Floats() (values []float64, observed []bool, err error) {
	values = make([]float64, len(c.Cells))
	observed = make([]bool, len(c.Cells))
	for i, cell := range c.Cells {
		switch cell.Kind {
		case CellNumber:
			values[i] = cell.Number
			observed[i] = true
		case CellNull:
			values[i] = math.NaN()
		default:
			return nil, nil, fmt.Errorf("column %s row %d: non-numeric value %q", c.Name, i, cell.Text)
		}
	}
	return values, observed, nil
}

// IsNumeric reports whether every non-null cell is a number
func (c *Column) IsNumeric() bool {
	for _, cell := range c.Cells {
		if cell.Kind == CellText {
			return false
		}
	}
	return true
}

// ValueCount is one entry of a Column's frequency table
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ValueCounts returns the frequency of every non-null value, most frequent
// first. Ties keep first-seen order.
func (c *Column) ValueCounts() []ValueCount {
	index := make(map[string]int)
	var counts []ValueCount
	for _, cell := range c.Cells {
		if cell.IsNull() {
			continue
		}
		key := cell.String()
		if pos, ok := index[key]; ok {
			counts[pos].Count++
			continue
		}
		index[key] = len(counts)
		counts = append(counts, ValueCount{Value: key, Count: 1})
	}
	// stable insertion sort keeps ties in first-seen order
	for i := 1; i < len(counts); i++ {
		for j := i; j > 0 && counts[j].Count > counts[j-1].Count; j-- {
			counts[j], counts[j-1] = counts[j-1], counts[j]
		}
	}
	return counts
}

// Clone returns a deep copy of the column
func (c *Column) Clone() *Column {
	cells := make([]Cell, len(c.Cells))
	copy(cells, c.Cells)
	return &Column{Name: c.Name, Cells: cells}
}

// Table is an in-memory sheet: equally sized, ordered, named columns.
type Table struct {
	Sheet   string    `json:"sheet"`
	Columns []*Column `json:"columns"`
	index   map[string]int
}

// NewTable builds a table from columns. All columns must have the same
// length and unique names.
func NewTable(sheet string, columns ...*Column) (*Table, error) {
	t := &Table{Sheet: sheet, index: make(map[string]int)}
	for _, col := range columns {
		if err := t.AddColumn(col); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// AddColumn appends a column to the table
func (t *Table) AddColumn(col *Column) error {
	if t.index == nil {
		t.reindex()
	}
	if _, exists := t.index[col.Name]; exists {
		return fmt.Errorf("duplicate column %q", col.Name)
	}
	if len(t.Columns) > 0 && col.Len() != t.Rows() {
		return fmt.Errorf("column %q has %d rows, table has %d", col.Name, col.Len(), t.Rows())
	}
	t.index[col.Name] = len(t.Columns)
	t.Columns = append(t.Columns, col)
	return nil
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, col := range t.Columns {
		t.index[col.Name] = i
	}
}

// Rows returns the number of rows
func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// Names returns the column names in order
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// Has reports whether a column exists
func (t *Table) Has(name string) bool {
	if t.index == nil {
		t.reindex()
	}
	_, ok := t.index[name]
	return ok
}

// Column looks a column up by name
func (t *Table) Column(name string) (*Column, error) {
	if t.index == nil {
		t.reindex()
	}
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("column %q not found", name)
	}
	return t.Columns[i], nil
}

// MustColumn is like Column but panics when the column is absent
func (t *Table) MustColumn(name string) *Column {
	col, err := t.Column(name)
	if err != nil {
		panic(err)
	}
	return col
}

// NullCount pairs a column name with its number of missing cells
type NullCount struct {
	Column string `json:"column"`
	Nulls  int    `json:"nulls"`
}

// NullCounts returns the missing-value count of every column in order
func (t *Table) NullCounts() []NullCount {
	counts := make([]NullCount, len(t.Columns))
	for i, col := range t.Columns {
		counts[i] = NullCount{Column: col.Name, Nulls: col.NullCount()}
	}
	return counts
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	out := &Table{Sheet: t.Sheet, Columns: make([]*Column, len(t.Columns))}
	for i, col := range t.Columns {
		out.Columns[i] = col.Clone()
	}
	out.reindex()
	return out
}
