package testutil

import (
	"context"
	"sync"

	"custclean/internal/operations"
)

// MockStep is a configurable Step whose calls are recorded
type MockStep struct {
	IDValue   string
	NameValue string

	// Configurable functions
	ExecuteFunc  func(ctx context.Context, state *operations.State) error
	ValidateFunc func(state *operations.State) error

	// Call tracking
	mu            sync.Mutex
	executeCalls  int
	validateCalls int
}

// NewMockStep creates a mock step that succeeds
func NewMockStep(id string) *MockStep {
	return &MockStep{IDValue: id, NameValue: id}
}

// ID returns the step ID
func (m *MockStep) ID() string {
	return m.IDValue
}

// Name returns the step name
func (m *MockStep) Name() string {
	return m.NameValue
}

// Execute runs the mock execute function
func (m *MockStep) Execute(ctx context.Context, state *operations.State) error {
	m.mu.Lock()
	m.executeCalls++
	m.mu.Unlock()

	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, state)
	}
	return nil
}

// Validate runs the mock validate function
func (m *MockStep) Validate(state *operations.State) error {
	m.mu.Lock()
	m.validateCalls++
	m.mu.Unlock()

	if m.ValidateFunc != nil {
		return m.ValidateFunc(state)
	}
	return nil
}

// ExecuteCalls returns the number of Execute calls
func (m *MockStep) ExecuteCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.executeCalls
}

// ValidateCalls returns the number of Validate calls
func (m *MockStep) ValidateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validateCalls
}

// Recorder collects the IDs of executed steps in order
type Recorder struct {
	mu  sync.Mutex
	ids []string
}

// Step returns a mock step that appends its ID to the recorder when run
func (r *Recorder) Step(id string) *MockStep {
	step := NewMockStep(id)
	step.ExecuteFunc = func(ctx context.Context, state *operations.State) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.ids = append(r.ids, id)
		return nil
	}
	return step
}

// IDs returns the executed step IDs
func (r *Recorder) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}
