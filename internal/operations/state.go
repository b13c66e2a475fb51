package operations

import (
	"sync"
	"time"

	"custclean/pkg/contracts/domain"
)

// RunStatus represents the overall status of a pipeline run
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// State holds everything a pipeline run reads and produces. Steps run one
// at a time and mutate Table in place.
type State struct {
	mu         sync.RWMutex
	ID         string
	Status     RunStatus
	StartTime  time.Time
	EndTime    *time.Time
	InputPath  string
	SheetName  string
	OutputPath string
	Sheets     []string
	Table      *domain.Table
	Steps      map[string]*StepState
	stepOrder  []string
	Summary    *Summary
	Error      error
}

// NewState creates the state of a run reading sheetName from inputPath
// and writing outputPath.
func NewState(id, inputPath, sheetName, outputPath string) *State {
	return &State{
		ID:         id,
		Status:     RunStatusPending,
		StartTime:  time.Now(),
		InputPath:  inputPath,
		SheetName:  sheetName,
		OutputPath: outputPath,
		Steps:      make(map[string]*StepState),
		Summary:    newSummary(id, inputPath, sheetName, outputPath),
	}
}

// SetStep adds or replaces a step state, keeping first-registration order
func (s *State) SetStep(step *StepState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.Steps[step.ID]; !exists {
		s.stepOrder = append(s.stepOrder, step.ID)
	}
	s.Steps[step.ID] = step
}

// GetStep returns the state of a step
func (s *State) GetStep(id string) (*StepState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	step, ok := s.Steps[id]
	return step, ok
}

// OrderedSteps returns the step states in registration order
func (s *State) OrderedSteps() []*StepState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	steps := make([]*StepState, 0, len(s.stepOrder))
	for _, id := range s.stepOrder {
		steps = append(steps, s.Steps[id])
	}
	return steps
}

// RequireTable returns the loaded table or an error when no step has
// loaded one yet.
func (s *State) RequireTable() (*domain.Table, error) {
	if s.Table == nil {
		return nil, errNoTable
	}
	return s.Table, nil
}

// Start marks the run as running
func (s *State) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = RunStatusRunning
	s.StartTime = time.Now()
}

// Complete marks the run as completed
func (s *State) Complete() {
	s.finish(RunStatusCompleted, nil)
}

// Fail marks the run as failed
func (s *State) Fail(err error) {
	s.finish(RunStatusFailed, err)
}

// Cancel marks the run as cancelled
func (s *State) Cancel(err error) {
	s.finish(RunStatusCancelled, err)
}

func (s *State) finish(status RunStatus, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = status
	s.Error = err
}

// Duration returns the run duration so far
func (s *State) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.EndTime != nil {
		return s.EndTime.Sub(s.StartTime)
	}
	return time.Since(s.StartTime)
}
