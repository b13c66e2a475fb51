package infrastructure

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "custclean/internal/errors"
)

func slogJSON(w io.Writer) *slog.Logger {
	return slog.New(runHandler{next: slog.NewJSONHandler(w, nil)})
}

func TestOTelInitialization_Defaults(t *testing.T) {
	providers, err := InitializeOTel(nil, slogJSON(io.Discard))
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider, "tracing is off by default")
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Registry)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestOTelInitialization_UnsupportedExporter(t *testing.T) {
	_, err := InitializeOTel(&OTelConfig{ServiceName: "custclean", TraceExporter: "otlp"}, nil)
	assert.Error(t, err)
}

func TestOTelTracing_Stdout(t *testing.T) {
	var spans bytes.Buffer
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:   "custclean",
		TraceExporter: "stdout",
		TraceWriter:   &spans,
	}, slogJSON(io.Discard))
	require.NoError(t, err)
	require.NotNil(t, providers.TracerProvider)
	assert.Nil(t, providers.Registry)

	var logs bytes.Buffer
	logger := slogJSON(&logs)

	ctx, span := providers.Tracer.Start(context.Background(), "step.load")
	AddSpanEvent(ctx, "workbook.loaded")
	RecordError(ctx, apperrors.NewNotFoundError("file", nil))
	logger.InfoContext(ctx, "inside span")
	span.End()

	require.NoError(t, providers.Shutdown(context.Background()))
	assert.Contains(t, spans.String(), "step.load")
	assert.Contains(t, spans.String(), "workbook.loaded")
	assert.Contains(t, spans.String(), "NOT_FOUND")
	assert.Contains(t, logs.String(), `"span_id":"`+span.SpanContext().SpanID().String()+`"`)
}

func TestPipelineMetrics(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{ServiceName: "custclean", EnableMetrics: true}, slogJSON(io.Discard))
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := NewPipelineMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordImputed(ctx, "Credit_Score", "median", 3)
	metrics.RecordImputed(ctx, "Credit_Score", "median", 2)
	metrics.RecordClipped(ctx, "Credit_Utilization", 4)
	metrics.RecordRounds(ctx, 6)
	metrics.RecordStep(ctx, "load", 25*time.Millisecond, true)

	families, err := providers.Registry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, mf := range families {
		names = append(names, mf.GetName())
		if strings.HasPrefix(mf.GetName(), "cells_imputed") {
			require.Len(t, mf.GetMetric(), 1)
			assert.Equal(t, 5.0, mf.GetMetric()[0].GetCounter().GetValue())
		}
	}
	joined := strings.Join(names, ",")
	for _, want := range []string{"cells_imputed", "cells_clipped", "mice_rounds", "step_duration_seconds"} {
		assert.Contains(t, joined, want)
	}

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, providers.WriteMetrics(path))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `column="Credit_Utilization"`)
}

func TestPipelineMetrics_Nil(t *testing.T) {
	var metrics *PipelineMetrics
	assert.NotPanics(t, func() {
		metrics.RecordImputed(context.Background(), "Income", "iterative", 1)
		metrics.RecordStep(context.Background(), "write", time.Second, false)
	})
}

func TestWriteMetrics_Disabled(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{ServiceName: "custclean"}, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, providers.WriteMetrics(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
