package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"custclean/internal/config"
)

// logSink owns the process-wide logger and the log file behind it, if any.
type logSink struct {
	once   sync.Once
	mu     sync.Mutex
	logger *slog.Logger
	file   *os.File
}

var (
	sink = &logSink{}

	// stderr keeps stdout free for the run report.
	consoleWriter io.Writer = os.Stderr
)

// InitializeLogger builds the JSON logger described by cfg and installs it as
// the slog default. Only the first call has an effect.
func InitializeLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	var err error
	sink.once.Do(func() {
		var logger *slog.Logger
		logger, err = sink.build(cfg)
		if err != nil {
			return
		}
		sink.mu.Lock()
		sink.logger = logger
		sink.mu.Unlock()
		slog.SetDefault(logger)
	})
	return GetLogger(), err
}

// GetLogger returns the installed logger, falling back to slog.Default.
func GetLogger() *slog.Logger {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.logger == nil {
		return slog.Default()
	}
	return sink.logger
}

func (s *logSink) build(cfg config.LoggingConfig) (*slog.Logger, error) {
	level := levelFromString(cfg.Level)

	out := consoleWriter
	switch mode := strings.ToLower(cfg.Output); mode {
	case "file", "both":
		f, err := createLogFile(cfg.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		s.mu.Lock()
		s.file = f
		s.mu.Unlock()
		if mode == "file" {
			out = f
		} else {
			out = io.MultiWriter(consoleWriter, f)
		}
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	})
	return slog.New(runHandler{next: handler}), nil
}

// runHandler stamps each record with the run id and the id of the span
// active in the record's context.
type runHandler struct {
	next slog.Handler
}

func (h runHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h runHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := RunIDFrom(ctx); id != "" {
		r.AddAttrs(slog.String(RunIDLogKey, id))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(slog.String("span_id", sc.SpanID().String()))
	}
	return h.next.Handle(ctx, r)
}

func (h runHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return runHandler{next: h.next.WithAttrs(attrs)}
}

func (h runHandler) WithGroup(name string) slog.Handler {
	return runHandler{next: h.next.WithGroup(name)}
}

// levelFromString maps a configured level name to slog; unknown names mean info.
func levelFromString(name string) slog.Level {
	var level slog.Level
	if strings.EqualFold(name, "warning") {
		name = "warn"
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// CloseLogFile flushes and closes the log file opened by InitializeLogger.
func CloseLogFile() error {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.file == nil {
		return nil
	}
	err := sink.file.Close()
	sink.file = nil
	return err
}

// ResetLoggerForTesting discards the installed logger so the next
// InitializeLogger call builds a fresh one.
func ResetLoggerForTesting() {
	_ = CloseLogFile()
	sink.mu.Lock()
	sink.logger = nil
	sink.mu.Unlock()
	sink.once = sync.Once{}
}

func createLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory for %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, nil
}
