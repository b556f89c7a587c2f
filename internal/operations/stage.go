package operations

import (
	"context"
	"sync"
	"time"
)

// Step is one unit of a pipeline run. Steps communicate only through the
// RunState they are given.
type Step interface {
	ID() string
	Name() string

	// Validate reports whether the state holds everything Execute reads.
	Validate(run *RunState) error

	Execute(ctx context.Context, run *RunState) error
}

// StepStatus represents the current status of a Step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// Finished reports whether no further transition is expected.
func (s StepStatus) Finished() bool {
	return s == StepStatusCompleted || s == StepStatusFailed || s == StepStatusSkipped
}

// StepState is the runtime record of one step. Fields are written under the
// state's lock; read them through the accessors while a run is in flight.
type StepState struct {
	mu sync.RWMutex

	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Status    StepStatus     `json:"status"`
	StartTime time.Time      `json:"start_time,omitempty"`
	EndTime   time.Time      `json:"end_time,omitempty"`
	Message   string         `json:"message,omitempty"`
	Error     error          `json:"-"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewStepState creates a pending state
func NewStepState(id, name string) *StepState {
	return &StepState{ID: id, Name: name, Status: StepStatusPending}
}

// transition moves the state to status, stamping the start or end time.
func (s *StepState) transition(status StepStatus, err error, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if status == StepStatusActive {
		s.StartTime = now
	} else {
		s.EndTime = now
	}
	s.Status = status
	s.Error = err
	if msg != "" {
		s.Message = msg
	}
}

func (s *StepState) Start()             { s.transition(StepStatusActive, nil, "") }
func (s *StepState) Complete()          { s.transition(StepStatusCompleted, nil, "") }
func (s *StepState) Fail(err error)     { s.transition(StepStatusFailed, err, "") }
func (s *StepState) Skip(reason string) { s.transition(StepStatusSkipped, nil, reason) }

// SetMetadata records a value reported by the step, e.g. a row count.
func (s *StepState) SetMetadata(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Metadata == nil {
		s.Metadata = make(map[string]any)
	}
	s.Metadata[key] = value
}

// GetStatus returns the current status
func (s *StepState) GetStatus() StepStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Status
}

// Duration is the time between start and end, or since start while the
// step is active. A step that never started has no duration.
func (s *StepState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case s.StartTime.IsZero():
		return 0
	case s.EndTime.IsZero():
		return time.Since(s.StartTime)
	default:
		return s.EndTime.Sub(s.StartTime)
	}
}

// BaseStep supplies ID, Name and a permissive Validate to embedding steps.
type BaseStep struct {
	id   string
	name string
}

// NewBaseStep creates a new base Step
func NewBaseStep(id, name string) BaseStep {
	return BaseStep{id: id, name: name}
}

func (b *BaseStep) ID() string                   { return b.id }
func (b *BaseStep) Name() string                 { return b.name }
func (b *BaseStep) Validate(run *RunState) error { return nil }
