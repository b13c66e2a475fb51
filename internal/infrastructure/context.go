package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	apperrors "custclean/internal/errors"
)

type runIDKey struct{}

// RunIDLogKey is the attribute name under which the run id appears in every
// log record emitted with a run context.
const RunIDLogKey = "run_id"

// NewRunID returns a random identifier for one cleaning run.
func NewRunID() string {
	return uuid.NewString()
}

// WithRunID returns a copy of ctx carrying runID.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFrom returns the run id stored in ctx, or "" when there is none.
func RunIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// EnsureRunID returns ctx unchanged when it already carries a run id and a
// context with a fresh one otherwise. The id in effect is returned as well.
func EnsureRunID(ctx context.Context) (context.Context, string) {
	if id := RunIDFrom(ctx); id != "" {
		return ctx, id
	}
	id := NewRunID()
	return WithRunID(ctx, id), id
}

// WithComponent scopes logger to a named part of the application.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With(slog.String("component", component))
}

// WithStep scopes logger to one pipeline step.
func WithStep(logger *slog.Logger, stepID string) *slog.Logger {
	return logger.With(slog.String("step", stepID))
}

// WithError attaches err to logger. When err wraps an AppError its type and
// details are added as the error_detail group. A nil err leaves logger as is.
func WithError(logger *slog.Logger, err error) *slog.Logger {
	if err == nil {
		return logger
	}
	logger = logger.With(slog.String("error", err.Error()))
	if appErr, ok := apperrors.As(err); ok {
		logger = logger.With(slog.Any("error_detail", appErr))
	}
	return logger
}
