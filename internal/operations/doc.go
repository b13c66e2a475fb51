// Package operations runs the customer cleaning pipeline as an ordered
// sequence of steps.
//
// Core Components:
//
// Step: a single unit of work. Each step reads and updates the shared State
// and reports failure through its returned error.
//
// Registry: holds the steps in registration order, which is also the
// execution order.
//
// Runner: executes the registered steps one after another. Every step gets
// its own tracing span and a duration sample; the first failing step stops
// the run and the remaining steps are marked skipped.
//
// State: the run's table, file locations, per-step states and the Summary
// collected along the way.
//
// Example usage:
//
//	registry, err := operations.NewPipeline(deps)
//	if err != nil {
//		return err
//	}
//	runner := operations.NewRunner(registry, operations.RunnerOptions{Logger: logger})
//	state := operations.NewState(runID, cfg)
//	if err := runner.Run(ctx, state); err != nil {
//		return err
//	}
package operations
