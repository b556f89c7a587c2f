package operations

import (
	"sync"
	"time"

	"stockprep/internal/dataprocessing"
	"stockprep/pkg/contracts/domain"
)

// RunStatus is the overall status of a pipeline run
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RunState is the state of one pipeline run. Steps hand their results to
// later steps through its data fields; each field is written by exactly
// one step.
type RunState struct {
	mu sync.RWMutex

	ID        string     `json:"id"`
	Status    RunStatus  `json:"status"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Error     error      `json:"-"`

	order []string
	steps map[string]*StepState

	// Loaded tables
	Prices     *dataprocessing.PriceTable
	Sentiments *dataprocessing.SentimentTable

	// Deduplicated tables
	Stocks         []domain.PriceRecord
	Comments       []domain.SentimentRecord
	StockDedup     dataprocessing.DedupResult
	SentimentDedup dataprocessing.DedupResult

	Joined []domain.JoinedRecord

	// Outputs lists the files written, in order.
	Outputs []string
}

// NewRunState creates a run with one pending StepState per step
func NewRunState(id string, steps []Step) *RunState {
	r := &RunState{
		ID:     id,
		Status: RunStatusPending,
		steps:  make(map[string]*StepState, len(steps)),
	}
	for _, s := range steps {
		r.order = append(r.order, s.ID())
		r.steps[s.ID()] = NewStepState(s.ID(), s.Name())
	}
	return r
}

// Start marks the run as running
func (r *RunState) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Status = RunStatusRunning
	r.StartTime = time.Now()
}

// Complete marks the run as completed
func (r *RunState) Complete() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.Status = RunStatusCompleted
	r.EndTime = &now
}

// Fail marks the run as failed
func (r *RunState) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.Status = RunStatusFailed
	r.EndTime = &now
	r.Error = err
}

// GetStep returns the state of a step, or nil
func (r *RunState) GetStep(id string) *StepState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.steps[id]
}

// Steps returns the step states in execution order
func (r *RunState) Steps() []*StepState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*StepState, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.steps[id])
	}
	return out
}

// StepsWithStatus returns the step states with the given status
func (r *RunState) StepsWithStatus(status StepStatus) []*StepState {
	var out []*StepState
	for _, s := range r.Steps() {
		if s.GetStatus() == status {
			out = append(out, s)
		}
	}
	return out
}

// Duration returns the run duration
func (r *RunState) Duration() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.StartTime.IsZero() {
		return 0
	}
	if r.EndTime != nil {
		return r.EndTime.Sub(r.StartTime)
	}
	return time.Since(r.StartTime)
}

// AddOutput records a written file
func (r *RunState) AddOutput(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Outputs = append(r.Outputs, path)
}
