package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "custclean/internal/errors"
	"custclean/pkg/contracts/domain"
)

// DefaultSheetName is the sheet the cleaned table is written to
const DefaultSheetName = "Sheet1"

// WorkbookWriter writes a table to an .xlsx workbook
type WorkbookWriter struct {
	SheetName string
	logger    *slog.Logger
}

// NewWorkbookWriter creates a writer targeting DefaultSheetName
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{SheetName: DefaultSheetName, logger: logger}
}

// Write saves table to filePath. The sheet starts with an unnamed index
// column holding 0..n-1, followed by every column in table order. Numbers
// are stored as numbers, text as text and missing values as empty cells.
// The workbook is written to a temporary file first and renamed into place.
func (w *WorkbookWriter) Write(filePath string, table *domain.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), w.SheetName); err != nil {
		return apperrors.NewStorageError("failed to name sheet", err).With("sheet", w.SheetName)
	}

	sw, err := f.NewStreamWriter(w.SheetName)
	if err != nil {
		return apperrors.NewStorageError("failed to create stream writer", err)
	}

	header := make([]interface{}, 0, len(table.Columns)+1)
	header = append(header, nil)
	for _, name := range table.Names() {
		header = append(header, name)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return apperrors.NewStorageError("failed to write header row", err)
	}

	for i := 0; i < table.Rows(); i++ {
		row := make([]interface{}, 0, len(header))
		row = append(row, i)
		for _, col := range table.Columns {
			row = append(row, cellValue(col.Cells[i]))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return apperrors.NewStorageError("failed to address row", err)
		}
		if err := sw.SetRow(cell, row); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write row %d", i), err)
		}
	}
	if err := sw.Flush(); err != nil {
		return apperrors.NewStorageError("failed to flush workbook", err)
	}

	if err := w.save(f, filePath); err != nil {
		return apperrors.NewStorageError("failed to save workbook", err).With("path", filePath)
	}

	w.logger.Info("Workbook written",
		slog.String("path", filePath),
		slog.String("sheet", w.SheetName),
		slog.Int("rows", table.Rows()),
		slog.Int("columns", len(table.Columns)))
	return nil
}

func (w *WorkbookWriter) save(f *excelize.File, filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".custclean-*.xlsx")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filePath)
}
