package operations

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"custclean/internal/infrastructure"
)

// RunnerOptions configures a Runner. Nil fields fall back to no-op
// implementations and the default logger.
type RunnerOptions struct {
	Tracer  trace.Tracer
	Metrics *infrastructure.PipelineMetrics
	Logger  *slog.Logger
}

// Runner executes the steps of a registry in order
type Runner struct {
	registry *Registry
	tracer   trace.Tracer
	metrics  *infrastructure.PipelineMetrics
	logger   *slog.Logger
}

// NewRunner creates a runner for the given registry
func NewRunner(registry *Registry, opts RunnerOptions) *Runner {
	if opts.Tracer == nil {
		opts.Tracer = noop.NewTracerProvider().Tracer("operations")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Runner{
		registry: registry,
		tracer:   opts.Tracer,
		metrics:  opts.Metrics,
		logger:   infrastructure.WithComponent(opts.Logger, "runner"),
	}
}

// Run executes every registered step against state. It stops at the first
// failing step; the steps after it are marked skipped. The returned error
// is a *StepError, or the context error when the run was cancelled.
func (r *Runner) Run(ctx context.Context, state *State) error {
	steps := r.registry.List()
	for _, step := range steps {
		state.SetStep(NewStepState(step.ID(), step.Name()))
	}

	ctx = infrastructure.WithRunID(ctx, state.ID)
	ctx, span := r.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(
			attribute.String("run.id", state.ID),
			attribute.String("input.path", state.InputPath),
			attribute.Int("steps.count", len(steps)),
		))
	defer span.End()

	state.Start()
	r.logger.InfoContext(ctx, "Pipeline started",
		slog.String("input", state.InputPath),
		slog.String("sheet", state.SheetName),
		slog.Int("steps", len(steps)))

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			r.skipRemaining(state, steps[i:], "run cancelled")
			state.Cancel(err)
			span.SetStatus(codes.Error, "cancelled")
			r.logger.WarnContext(ctx, "Pipeline cancelled",
				slog.String("before_step", step.ID()))
			return err
		}

		if err := r.executeStep(ctx, step, state); err != nil {
			r.skipRemaining(state, steps[i+1:], "previous step failed")
			stepErr := &StepError{StepID: step.ID(), Err: err}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				state.Cancel(stepErr)
			} else {
				state.Fail(stepErr)
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			infrastructure.WithError(r.logger, err).ErrorContext(ctx, "Pipeline failed",
				slog.String("step", step.ID()),
				slog.Duration("duration", state.Duration()))
			return stepErr
		}
	}

	state.Complete()
	span.SetStatus(codes.Ok, "")
	r.logger.InfoContext(ctx, "Pipeline completed",
		slog.Duration("duration", state.Duration()))
	return nil
}

func (r *Runner) executeStep(ctx context.Context, step Step, state *State) error {
	stepState, _ := state.GetStep(step.ID())

	ctx, span := r.tracer.Start(ctx, "step."+step.ID(),
		trace.WithAttributes(
			attribute.String("step.id", step.ID()),
			attribute.String("step.name", step.Name()),
		))
	defer span.End()

	logger := infrastructure.WithStep(r.logger, step.ID())
	stepState.Start()
	start := time.Now()
	logger.DebugContext(ctx, "Step started", slog.String("name", step.Name()))

	err := step.Validate(state)
	if err == nil {
		err = step.Execute(ctx, state)
	}
	duration := time.Since(start)
	r.metrics.RecordStep(ctx, step.ID(), duration, err == nil)

	if err != nil {
		stepState.Fail(err)
		infrastructure.RecordError(ctx, err)
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Step failed",
			slog.Duration("duration", duration))
		return err
	}

	stepState.Complete()
	span.SetStatus(codes.Ok, "")
	logger.InfoContext(ctx, "Step completed", slog.Duration("duration", duration))
	return nil
}

func (r *Runner) skipRemaining(state *State, steps []Step, reason string) {
	for _, step := range steps {
		if s, ok := state.GetStep(step.ID()); ok {
			s.Skip(reason)
		}
	}
}
