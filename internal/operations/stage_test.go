package operations

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStepStateTransitions(t *testing.T) {
	tests := []struct {
		name   string
		finish func(s *StepState)
		want   StepStatus
	}{
		{"complete", func(s *StepState) { s.Complete() }, StepStatusCompleted},
		{"fail", func(s *StepState) { s.Fail(errors.New("boom")) }, StepStatusFailed},
		{"skip", func(s *StepState) { s.Skip("earlier failure") }, StepStatusSkipped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStepState("load_prices", "Load Prices")
			assert.Equal(t, StepStatusPending, s.GetStatus())
			assert.False(t, s.GetStatus().Finished())
			assert.Zero(t, s.Duration())

			s.Start()
			assert.Equal(t, StepStatusActive, s.GetStatus())
			assert.False(t, s.StartTime.IsZero())
			assert.False(t, s.GetStatus().Finished())

			tt.finish(s)
			assert.Equal(t, tt.want, s.GetStatus())
			assert.True(t, s.GetStatus().Finished())
			assert.False(t, s.EndTime.IsZero())
		})
	}
}

func TestStepStateFailKeepsError(t *testing.T) {
	s := NewStepState("join", "Join")
	cause := errors.New("boom")
	s.Start()
	s.Fail(cause)
	assert.Same(t, cause, s.Error)
}

func TestStepStateSkip(t *testing.T) {
	s := NewStepState("export", "Export")
	s.Skip("an earlier step failed")
	assert.Equal(t, "an earlier step failed", s.Message)
	assert.Zero(t, s.Duration(), "never started")
}

func TestStepStateDuration(t *testing.T) {
	s := NewStepState("dedup", "Deduplicate")
	s.StartTime = time.Now().Add(-2 * time.Second)
	s.EndTime = s.StartTime.Add(1500 * time.Millisecond)

	assert.Equal(t, 1500*time.Millisecond, s.Duration())
}

func TestStepStateMetadata(t *testing.T) {
	s := NewStepState("load_prices", "Load Prices")
	assert.Nil(t, s.Metadata)

	s.SetMetadata("rows", 10)
	assert.Equal(t, 10, s.Metadata["rows"])
}

func TestBaseStep(t *testing.T) {
	b := NewBaseStep("validate", "Validate Inputs")
	assert.Equal(t, "validate", b.ID())
	assert.Equal(t, "Validate Inputs", b.Name())
	assert.NoError(t, b.Validate(nil))
}
