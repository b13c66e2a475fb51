package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custclean/pkg/contracts/domain"
)

func TestCSVWriter_WriteTable(t *testing.T) {
	tests := []struct {
		name string
		bom  bool
	}{
		{name: "plain", bom: false},
		{name: "with BOM", bom: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "transformed_dataset.csv")
			require.NoError(t, NewCSVWriter(nil).WriteTable(path, cleanedTable(t), tt.bom))

			content, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.bom, bytes.HasPrefix(content, utf8BOM))

			records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, utf8BOM))).ReadAll()
			require.NoError(t, err)
			assert.Equal(t, [][]string{
				{"", "Customer_ID", "Employment_Status", "Income", "Credit_Utilization"},
				{"0", "1001", "employed", "52000.5", "1"},
				{"1", "1002", "retired", "", "0.25"},
				{"2", "1003", "", "61000", "0.8"},
			}, records)
		})
	}
}

func TestCSVWriter_ReplacesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "transformed_dataset.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("stale,content\n"), 0o644))

	require.NoError(t, NewCSVWriter(nil).WriteTable(path, cleanedTable(t), false))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "stale")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestCSVWriter_QuotesFields(t *testing.T) {
	table, err := domain.NewTable("Sheet1", domain.NewColumn("Note", []domain.Cell{
		domain.TextCell("has, comma"), domain.TextCell(`has "quotes"`),
	}))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "notes.csv")
	require.NoError(t, NewCSVWriter(nil).WriteTable(path, table, false))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ",Note\n0,\"has, comma\"\n1,\"has \"\"quotes\"\"\"\n", string(content))
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	require.NoError(t, WriteJSON(path, map[string]int{"rows": 3}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"rows\": 3\n}\n", string(content))

	err = WriteJSON(path, map[string]interface{}{"bad": make(chan int)})
	assert.Error(t, err)
}
