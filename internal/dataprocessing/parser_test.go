package dataprocessing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "custclean/internal/errors"
	"custclean/pkg/contracts/domain"
)

// writeWorkbook saves rows into a new workbook under sheet and returns its path.
func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName(f.GetSheetName(0), sheet)

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "dataset.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadWorkbook(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]interface{}{
		{"Customer_ID", "Employment_Status", "Credit_Score", "Income"},
		{1001, " EMP ", 710, 52000.5},
		{1002, "Retired", nil, nil},
		{1003, nil, 640, "NaN"},
	})

	wb, err := ReadWorkbook(path, "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet1"}, wb.Sheets)

	table := wb.Table
	require.Equal(t, 3, table.Rows())
	assert.Equal(t, []string{"Customer_ID", "Employment_Status", "Credit_Score", "Income"}, table.Names())

	ids := table.MustColumn(domain.ColCustomerID)
	assert.Equal(t, 1001.0, ids.Cells[0].Number)

	status := table.MustColumn(domain.ColEmploymentStatus)
	assert.Equal(t, domain.TextCell(" EMP "), status.Cells[0])
	assert.True(t, status.IsNull(2))

	score := table.MustColumn(domain.ColCreditScore)
	assert.True(t, score.IsNull(1))
	assert.Equal(t, 640.0, score.Cells[2].Number)

	income := table.MustColumn(domain.ColIncome)
	assert.Equal(t, 52000.5, income.Cells[0].Number)
	assert.Equal(t, 2, income.NullCount())
}

func TestReadWorkbook_StringCellsStayText(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Customer_ID", "Income"}))
	require.NoError(t, f.SetCellStr("Sheet1", "A2", "000123"))
	require.NoError(t, f.SetCellInt("Sheet1", "B2", 52000))
	require.NoError(t, f.SetCellStr("Sheet1", "A3", "1e3"))
	require.NoError(t, f.SetCellStr("Sheet1", "B3", "NA"))
	require.NoError(t, f.SetCellInt("Sheet1", "A4", 1005))
	require.NoError(t, f.SetCellStr("Sheet1", "B4", "61000"))
	path := filepath.Join(t.TempDir(), "dataset.xlsx")
	require.NoError(t, f.SaveAs(path))

	wb, err := ReadWorkbook(path, "Sheet1")
	require.NoError(t, err)

	ids := wb.Table.MustColumn(domain.ColCustomerID)
	assert.Equal(t, domain.TextCell("000123"), ids.Cells[0])
	assert.Equal(t, domain.TextCell("1e3"), ids.Cells[1])
	assert.Equal(t, domain.NumberCell(1005), ids.Cells[2])

	income := wb.Table.MustColumn(domain.ColIncome)
	assert.Equal(t, domain.NumberCell(52000), income.Cells[0])
	assert.True(t, income.IsNull(1), "missing markers apply to string cells")
	assert.Equal(t, domain.TextCell("61000"), income.Cells[2])
}

func TestReadWorkbook_MissingSheet(t *testing.T) {
	path := writeWorkbook(t, "Data", [][]interface{}{{"A"}, {1}})

	_, err := ReadWorkbook(path, "Sheet1")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}

func TestReadWorkbook_NotAWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0644))

	_, err := ReadWorkbook(path, "Sheet1")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}

func TestListSheets(t *testing.T) {
	path := writeWorkbook(t, "Customers", [][]interface{}{{"A"}, {1}})

	sheets, err := ListSheets(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Customers"}, sheets)
}

func TestParseRows(t *testing.T) {
	tests := []struct {
		name      string
		rows      [][]string
		wantNames []string
		wantRows  int
		wantErr   bool
	}{
		{
			name:    "empty sheet",
			rows:    nil,
			wantErr: true,
		},
		{
			name:      "short rows padded with nulls",
			rows:      [][]string{{"A", "B", "C"}, {"1"}, {"2", "x", "3"}},
			wantNames: []string{"A", "B", "C"},
			wantRows:  2,
		},
		{
			name:      "blank and duplicate headers renamed",
			rows:      [][]string{{"A", "", "A"}, {"1", "2", "3"}},
			wantNames: []string{"A", "Unnamed: 1", "A.1"},
			wantRows:  1,
		},
		{
			name:      "trailing blank rows dropped",
			rows:      [][]string{{"A"}, {"1"}, {""}, {"  "}},
			wantNames: []string{"A"},
			wantRows:  1,
		},
		{
			name:      "previous export index dropped",
			rows:      [][]string{{"", "A"}, {"0", "5"}, {"1", "6"}},
			wantNames: []string{"A"},
			wantRows:  2,
		},
		{
			name:      "unnamed non-index column kept",
			rows:      [][]string{{"", "A"}, {"7", "5"}, {"1", "6"}},
			wantNames: []string{"Unnamed: 0", "A"},
			wantRows:  2,
		},
		{
			name:      "row wider than header",
			rows:      [][]string{{"A"}, {"1", "2"}},
			wantNames: []string{"A", "Unnamed: 1"},
			wantRows:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ParseRows("Sheet1", tt.rows)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNames, table.Names())
			assert.Equal(t, tt.wantRows, table.Rows())
		})
	}
}
