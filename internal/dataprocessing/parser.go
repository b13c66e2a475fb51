package dataprocessing

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "custclean/internal/errors"
	"custclean/pkg/contracts/domain"
)

// Workbook is the result of reading a spreadsheet: its sheet list and the
// requested sheet as a Table.
type Workbook struct {
	Path   string
	Sheets []string
	Table  *domain.Table
}

// ListSheets returns the sheet names of the workbook at filePath.
func ListSheets(filePath string) ([]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err).With("path", filePath)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// ReadWorkbook opens filePath and parses sheetName into a Table. The first
// row is the header; cells are read as raw values so numbers are not
// affected by display formats.
func ReadWorkbook(filePath, sheetName string) (*Workbook, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err).With("path", filePath)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheetName), err).
			With("path", filePath).
			With("sheets", sheets)
	}
	text, err := stringCells(f, sheetName, rows)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read cell types", err).With("sheet", sheetName)
	}

	table, err := parseRows(sheetName, rows, text)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to parse sheet", err).With("sheet", sheetName)
	}

	slog.Info("Workbook loaded",
		slog.String("path", filePath),
		slog.String("sheet", sheetName),
		slog.Int("rows", table.Rows()),
		slog.Int("columns", len(table.Columns)))

	return &Workbook{Path: filePath, Sheets: sheets, Table: table}, nil
}

// stringCells marks the body cells stored as strings (shared, inline or
// formula string results). Their values are kept as text.
func stringCells(f *excelize.File, sheetName string, rows [][]string) ([][]bool, error) {
	if len(rows) < 2 {
		return nil, nil
	}
	text := make([][]bool, len(rows)-1)
	for i, row := range rows[1:] {
		text[i] = make([]bool, len(row))
		for j, raw := range row {
			if raw == "" {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(sheetName, ref)
			if err != nil {
				return nil, err
			}
			switch typ {
			case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
				text[i][j] = true
			}
		}
	}
	return text, nil
}

// ParseRows builds a Table from spreadsheet rows whose first row is the
// header. Short rows are padded with nulls, blank or duplicate headers are
// renamed, trailing blank rows are dropped, and a leading unnamed 0..n-1
// column (a row index written by a previous run) is discarded. Without cell
// type information every value that parses as a float becomes a number.
func ParseRows(sheetName string, rows [][]string) (*domain.Table, error) {
	return parseRows(sheetName, rows, nil)
}

// parseRows is ParseRows with text[i][j] set for body cells that must stay
// text regardless of their content.
func parseRows(sheetName string, rows [][]string, text [][]bool) (*domain.Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheetName)
	}

	body := rows[1:]
	for len(body) > 0 && isBlankRow(body[len(body)-1]) {
		body = body[:len(body)-1]
	}

	width := len(rows[0])
	for _, row := range body {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return nil, fmt.Errorf("sheet %q has no header", sheetName)
	}

	headers := headerNames(rows[0], width)
	columns := make([]*domain.Column, width)
	for j := range columns {
		cells := make([]domain.Cell, len(body))
		for i, row := range body {
			switch {
			case j >= len(row):
				cells[i] = domain.NullCell()
			case i < len(text) && j < len(text[i]) && text[i][j]:
				cells[i] = domain.ParseTextCell(row[j])
			default:
				cells[i] = domain.ParseCell(row[j])
			}
		}
		columns[j] = domain.NewColumn(headers[j], cells)
	}

	if isWrittenIndex(rows[0], columns[0]) {
		slog.Debug("Dropping row index column from previous export", slog.String("sheet", sheetName))
		columns = columns[1:]
	}

	return domain.NewTable(sheetName, columns...)
}

// headerNames names every column, using "Unnamed: j" for blanks and a
// ".k" suffix for repeated names.
func headerNames(header []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	for j := 0; j < width; j++ {
		name := ""
		if j < len(header) {
			name = strings.TrimSpace(header[j])
		}
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(j)
		}
		if k, dup := seen[name]; dup {
			seen[name] = k + 1
			name = name + "." + strconv.Itoa(k+1)
		} else {
			seen[name] = 0
		}
		names[j] = name
	}
	return names
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// isWrittenIndex reports whether the first column is an unnamed 0..n-1
// sequence.
func isWrittenIndex(header []string, col *domain.Column) bool {
	if len(header) > 0 && strings.TrimSpace(header[0]) != "" {
		return false
	}
	if col.Len() == 0 {
		return false
	}
	for i, cell := range col.Cells {
		if cell.Kind != domain.CellNumber || cell.Number != float64(i) {
			return false
		}
	}
	return true
}
