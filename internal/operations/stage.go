package operations

import (
	"context"
	"sync"
	"time"
)

// Step is one unit of the cleaning pipeline. Steps read and mutate the shared
// run State; the Runner calls Validate right before Execute.
type Step interface {
	ID() string
	Name() string
	Execute(ctx context.Context, state *State) error
	Validate(state *State) error
}

// StepStatus is the lifecycle position of a step within a run.
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepState records what happened to one step during a run. The exported
// fields are written under mu; read Status through GetStatus while the run
// is in flight.
type StepState struct {
	mu        sync.RWMutex
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Status    StepStatus `json:"status"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Message   string     `json:"message,omitempty"`
	Error     error      `json:"-"`
}

func NewStepState(id, name string) *StepState {
	return &StepState{ID: id, Name: name, Status: StepStatusPending}
}

// mark moves the step to status and stamps the start or end time.
func (s *StepState) mark(status StepStatus, message string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	switch status {
	case StepStatusActive:
		s.StartTime = &now
	case StepStatusCompleted, StepStatusFailed:
		s.EndTime = &now
	}
	s.Status = status
	s.Error = err
	if message != "" {
		s.Message = message
	}
}

func (s *StepState) Start() {
	s.mark(StepStatusActive, "", nil)
}

func (s *StepState) Complete() {
	s.mark(StepStatusCompleted, "", nil)
}

// Fail records err as the reason the step stopped.
func (s *StepState) Fail(err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	s.mark(StepStatusFailed, msg, err)
}

// Skip marks a step the run never reached.
func (s *StepState) Skip(reason string) {
	s.mark(StepStatusSkipped, reason, nil)
}

func (s *StepState) GetStatus() StepStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// Duration is the wall time spent in the step so far. Steps that never
// started report zero.
func (s *StepState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case s.StartTime == nil:
		return 0
	case s.EndTime == nil:
		return time.Since(*s.StartTime)
	default:
		return s.EndTime.Sub(*s.StartTime)
	}
}

// stepMeta carries the identity every pipeline step shares. Embedding it
// provides ID, Name and a Validate that accepts any state.
type stepMeta struct {
	id, name string
}

func newStepMeta(id, name string) stepMeta {
	return stepMeta{id: id, name: name}
}

func (m stepMeta) ID() string {
	return m.id
}

func (m stepMeta) Name() string {
	return m.name
}

func (stepMeta) Validate(*State) error {
	return nil
}
