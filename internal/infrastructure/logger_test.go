package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custclean/internal/config"
	apperrors "custclean/internal/errors"
)

// captureConsole redirects console log output to a buffer for one test.
func captureConsole(t *testing.T) *bytes.Buffer {
	t.Helper()
	ResetLoggerForTesting()
	var buf bytes.Buffer
	consoleWriter = &buf
	t.Cleanup(func() {
		consoleWriter = os.Stderr
		ResetLoggerForTesting()
	})
	return &buf
}

func lastEntry(t *testing.T, out string) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestInitializeLogger_ConsoleAndFile(t *testing.T) {
	console := captureConsole(t)
	logFile := filepath.Join(t.TempDir(), "logs", "custclean.log")

	logger, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "both", FilePath: logFile})
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("Dataset loaded", "rows", 24)
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Equal(t, console.String(), string(content), "both sinks receive the same records")

	entry := lastEntry(t, string(content))
	assert.Equal(t, "Dataset loaded", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.EqualValues(t, 24, entry["rows"])
}

func TestInitializeLogger_OnlyFirstCallApplies(t *testing.T) {
	captureConsole(t)

	first, err := InitializeLogger(config.LoggingConfig{Level: "error", Output: "console"})
	require.NoError(t, err)
	second, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "console"})
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Same(t, first, GetLogger())
}

func TestLogger_RunIDAndSpan(t *testing.T) {
	console := captureConsole(t)
	logger, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "console"})
	require.NoError(t, err)

	logger.InfoContext(WithRunID(context.Background(), "run-123"), "Pipeline started")

	entry := lastEntry(t, console.String())
	assert.Equal(t, "run-123", entry[RunIDLogKey])
	assert.NotContains(t, entry, "span_id", "no span is active")
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		level   string
		logged  []string
		dropped []string
	}{
		{level: "debug", logged: []string{"DEBUG", "INFO", "WARN", "ERROR"}},
		{level: "INFO", logged: []string{"INFO", "WARN", "ERROR"}, dropped: []string{"DEBUG"}},
		{level: "warning", logged: []string{"WARN", "ERROR"}, dropped: []string{"DEBUG", "INFO"}},
		{level: "error", logged: []string{"ERROR"}, dropped: []string{"DEBUG", "INFO", "WARN"}},
		{level: "bogus", logged: []string{"INFO"}, dropped: []string{"DEBUG"}},
		{level: "", logged: []string{"INFO"}, dropped: []string{"DEBUG"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			captureConsole(t)
			logFile := filepath.Join(t.TempDir(), "custclean.log")
			logger, err := InitializeLogger(config.LoggingConfig{Level: tt.level, Output: "file", FilePath: logFile})
			require.NoError(t, err)

			logger.Debug("m")
			logger.Info("m")
			logger.Warn("m")
			logger.Error("m")
			require.NoError(t, CloseLogFile())

			content, err := os.ReadFile(logFile)
			require.NoError(t, err)
			for _, level := range tt.logged {
				assert.Contains(t, string(content), `"level":"`+level+`"`)
			}
			for _, level := range tt.dropped {
				assert.NotContains(t, string(content), `"level":"`+level+`"`)
			}
		})
	}
}

func TestInitializeLogger_BadFilePath(t *testing.T) {
	captureConsole(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := InitializeLogger(config.LoggingConfig{Output: "file", FilePath: filepath.Join(blocker, "custclean.log")})
	assert.Error(t, err)
}

func TestEnsureRunID(t *testing.T) {
	ctx, runID := EnsureRunID(context.Background())
	assert.Len(t, runID, 36)
	assert.Equal(t, runID, RunIDFrom(ctx))

	same, again := EnsureRunID(ctx)
	assert.Equal(t, runID, again, "an existing run id is kept")
	assert.Equal(t, ctx, same)
	assert.Empty(t, RunIDFrom(context.Background()))
}

func TestLoggerScopes(t *testing.T) {
	var buf bytes.Buffer
	logger := slogJSON(&buf)

	WithStep(WithComponent(logger, "runner"), "impute_income").Info("Step completed")
	entry := lastEntry(t, buf.String())
	assert.Equal(t, "runner", entry["component"])
	assert.Equal(t, "impute_income", entry["step"])

	buf.Reset()
	WithError(logger, os.ErrNotExist).Info("Plain error")
	entry = lastEntry(t, buf.String())
	assert.Contains(t, entry["error"], "file does not exist")
	assert.NotContains(t, entry, "error_detail")

	buf.Reset()
	missing := apperrors.NewNotFoundError("file", nil).With("path", "dataset.xlsx")
	WithError(logger, missing).Error("Input missing")
	entry = lastEntry(t, buf.String())
	detail, ok := entry["error_detail"].(map[string]any)
	require.True(t, ok, "AppErrors are logged as a group")
	assert.Equal(t, "NOT_FOUND", detail["type"])
	assert.Equal(t, "dataset.xlsx", detail["path"])

	assert.Same(t, logger, WithError(logger, nil))
}
