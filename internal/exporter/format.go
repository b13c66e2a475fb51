package exporter

import (
	"strconv"

	"custclean/pkg/contracts/domain"
)

// cellValue converts a cell to the value handed to the workbook writer;
// nil leaves the spreadsheet cell empty
func cellValue(c domain.Cell) interface{} {
	switch c.Kind {
	case domain.CellNumber:
		return c.Number
	case domain.CellText:
		return c.Text
	default:
		return nil
	}
}

// tableHeader is the CSV header: an unnamed index column, then every column.
func tableHeader(table *domain.Table) []string {
	return append([]string{""}, table.Names()...)
}

// rowRecord fills dst with row i of table, index first, and returns it.
func rowRecord(dst []string, table *domain.Table, i int) []string {
	dst = append(dst[:0], strconv.Itoa(i))
	for _, col := range table.Columns {
		dst = append(dst, col.Cells[i].String())
	}
	return dst
}
