// Package exporter writes the cleaned customer table and the run summary.
//
// WorkbookWriter: streams the table into a single-sheet workbook with a
// leading unnamed row-index column, the layout a spreadsheet user gets from
// a dataframe export.
//
// CSVWriter: mirrors the same table into a CSV file, optionally prefixed
// with a UTF-8 BOM for Excel compatibility.
//
// WriteJSON: writes an indented JSON document such as the run summary.
//
// Example usage:
//
//	w := exporter.NewWorkbookWriter(logger)
//	if err := w.Write("transformed_dataset.xlsx", table); err != nil {
//		return err
//	}
package exporter
