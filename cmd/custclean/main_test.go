package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"custclean/internal/infrastructure"
)

func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
		infrastructure.ResetLoggerForTesting()
	})
	t.Setenv("CUSTCLEAN_LOGGING_LEVEL", "error")
	t.Setenv("CUSTCLEAN_IMPUTER_ESTIMATORS", "5")
	return dir
}

func writeDataset(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]interface{}{
		{"Customer_ID", "Employment_Status", "Credit_Score", "Credit_Card_Type", "Loan_Balance", "Location", "Income", "Credit_Utilization"},
		{1, " EMP ", 700, "Gold", 100, "Urban", 50000, 0.4},
		{2, "retired", nil, "Gold", 200, "Rural", 42000, 1.25},
		{3, "Unemployed", 650, "Gold", nil, "Urban", nil, 0.8},
		{4, "employed", 720, "Silver", 300, "Rural", 61000, 0.2},
		{5, "self-employed", 680, "Silver", 500, "Urban", 58000, 0.9},
		{6, "emp", 640, "Silver", 400, "Rural", 39000, 1.5},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-in", "a.xlsx", "-sheet", "Data", "-out", "b.xlsx", "-csv", "b.csv", "-summary", "s.json", "-config", "c.yaml"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "c.yaml", opts.configPath)
	assert.Equal(t, "a.xlsx", opts.overrides.InputPath)
	assert.Equal(t, "Data", opts.overrides.Sheet)
	assert.Equal(t, "b.xlsx", opts.overrides.OutputPath)
	assert.Equal(t, "b.csv", opts.overrides.CSVPath)
	assert.Equal(t, "s.json", opts.overrides.SummaryPath)

	_, err = parseFlags([]string{"extra"}, io.Discard)
	assert.Error(t, err)

	_, err = parseFlags([]string{"-bogus"}, io.Discard)
	assert.Error(t, err)
}

func TestRun_MissingInput(t *testing.T) {
	inTempDir(t)

	var stdout bytes.Buffer
	code := run(context.Background(), nil, &stdout, io.Discard)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "Error: The file was not found at dataset.xlsx")
	assert.NoFileExists(t, "transformed_dataset.xlsx")
}

func TestRun_InvalidConfig(t *testing.T) {
	inTempDir(t)

	var stderr bytes.Buffer
	code := run(context.Background(), []string{"-in", "same.xlsx", "-out", "same.xlsx"}, io.Discard, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "invalid configuration")
}

func TestRun_Defaults(t *testing.T) {
	dir := inTempDir(t)
	writeDataset(t, filepath.Join(dir, "dataset.xlsx"))
	t.Setenv("CUSTCLEAN_TELEMETRY_METRICS_FILE", "metrics.prom")

	var stdout bytes.Buffer
	code := run(context.Background(), []string{"-summary", "summary.json", "-csv", "out.csv"}, &stdout, io.Discard)
	require.Equal(t, 0, code, stdout.String())

	assert.Contains(t, stdout.String(), "Dataset loaded successfully.")
	assert.Contains(t, stdout.String(), "Imputation completed successfully!")
	assert.FileExists(t, filepath.Join(dir, "transformed_dataset.xlsx"))
	assert.FileExists(t, filepath.Join(dir, "out.csv"))

	raw, err := os.ReadFile(filepath.Join(dir, "summary.json"))
	require.NoError(t, err)
	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &summary))
	assert.Equal(t, "completed", summary["status"])
	assert.Equal(t, 6.0, summary["rows"])
	assert.NotEmpty(t, summary["run_id"])

	metrics, err := os.ReadFile(filepath.Join(dir, "metrics.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "cells_imputed")
	assert.Contains(t, string(metrics), "step_duration_seconds")
}

func TestRun_Version(t *testing.T) {
	var stdout bytes.Buffer
	code := run(context.Background(), []string{"-version"}, &stdout, io.Discard)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "custclean v")
}
