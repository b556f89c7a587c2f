package operations

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressAdvance(t *testing.T) {
	p := NewProgress(4)
	assert.False(t, p.Snapshot().Complete())

	s := p.Advance("Load Prices")
	assert.Equal(t, 1, s.Done)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, "Load Prices", s.Last)
	assert.InDelta(t, 25.0, s.Percent(), 0.001)

	for i := 0; i < 3; i++ {
		s = p.Advance("step")
	}
	assert.True(t, s.Complete())
	assert.InDelta(t, 100.0, s.Percent(), 0.001)
}

func TestProgressElapsed(t *testing.T) {
	p := NewProgress(1)
	base := p.start
	p.now = func() time.Time { return base.Add(90 * time.Second) }

	assert.Equal(t, 90*time.Second, p.Snapshot().Elapsed)
}

func TestProgressZeroTotal(t *testing.T) {
	s := NewProgress(0).Snapshot()
	assert.Zero(t, s.Percent())
	assert.True(t, s.Complete())
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{250 * time.Millisecond, "250 ms"},
		{5 * time.Second, "5.0 seconds"},
		{90 * time.Second, "1.5 minutes"},
		{3 * time.Hour, "3.0 hours"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatElapsed(tt.d))
		})
	}
}
