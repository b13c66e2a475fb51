package exporter

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "custclean/internal/errors"
	"custclean/pkg/contracts/domain"
)

// utf8BOM lets Excel detect UTF-8 when opening the CSV directly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter mirrors a cleaned table into a CSV file.
type CSVWriter struct {
	logger *slog.Logger
}

func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteTable writes table to filePath with the workbook layout: an unnamed
// index column followed by every column, nulls as empty fields. The file is
// written next to its destination and renamed into place, so an existing
// file is either fully replaced or left untouched.
func (w *CSVWriter) WriteTable(filePath string, table *domain.Table, bom bool) error {
	if err := writeCSVFile(filePath, table, bom); err != nil {
		return apperrors.NewStorageError("failed to write CSV", err).With("path", filePath)
	}
	w.logger.Info("CSV written",
		slog.String("path", filePath),
		slog.Int("rows", table.Rows()),
		slog.Bool("bom", bom))
	return nil
}

func writeCSVFile(filePath string, table *domain.Table, bom bool) (err error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	buf := bufio.NewWriter(tmp)
	if bom {
		if _, err := buf.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}
	cw := csv.NewWriter(buf)
	if err := cw.Write(tableHeader(table)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	record := make([]string, 0, len(table.Columns)+1)
	for i := 0; i < table.Rows(); i++ {
		record = rowRecord(record, table, i)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filePath)
}
