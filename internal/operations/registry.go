package operations

import (
	"fmt"
	"sync"

	apperrors "custclean/internal/errors"
)

// Registry is the ordered set of steps a Runner executes. Steps run in the
// order they were registered and IDs are unique.
type Registry struct {
	mu    sync.RWMutex
	steps []Step
	index map[string]int
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register appends step to the pipeline.
func (r *Registry) Register(step Step) error {
	if step == nil {
		return apperrors.NewValidationError("cannot register a nil step", nil)
	}
	id := step.ID()
	if id == "" {
		return apperrors.NewValidationError("step id is empty", nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.index[id]; dup {
		return apperrors.NewValidationError(fmt.Sprintf("step %q is already registered", id), nil)
	}
	r.index[id] = len(r.steps)
	r.steps = append(r.steps, step)
	return nil
}

func (r *Registry) Get(id string) (Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("step %q", id), nil)
	}
	return r.steps[i], nil
}

func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.index[id]
	return ok
}

// List returns the steps in execution order.
func (r *Registry) List() []Step {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Step(nil), r.steps...)
}

// ListIDs returns the step IDs in execution order.
func (r *Registry) ListIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, len(r.steps))
	for i, step := range r.steps {
		ids[i] = step.ID()
	}
	return ids
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.steps)
}
