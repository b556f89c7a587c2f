package operations

import (
	"fmt"
	"sync"
	"time"
)

// ProgressSnapshot is the progress of a run after some step finished.
type ProgressSnapshot struct {
	Done    int
	Total   int
	Last    string
	Elapsed time.Duration
}

// Percent returns Done as a share of Total, in [0, 100].
func (s ProgressSnapshot) Percent() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Done) / float64(s.Total) * 100
}

// Complete reports whether every step has finished.
func (s ProgressSnapshot) Complete() bool {
	return s.Done >= s.Total
}

// Progress counts finished steps of one run.
type Progress struct {
	mu    sync.Mutex
	total int
	done  int
	last  string
	start time.Time
	now   func() time.Time
}

// NewProgress starts tracking a run of total steps.
func NewProgress(total int) *Progress {
	return &Progress{total: total, start: time.Now(), now: time.Now}
}

// Advance records that step finished and returns the new snapshot.
func (p *Progress) Advance(step string) ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	p.last = step
	return p.snapshotLocked()
}

// Snapshot returns the current progress.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.snapshotLocked()
}

func (p *Progress) snapshotLocked() ProgressSnapshot {
	return ProgressSnapshot{Done: p.done, Total: p.total, Last: p.last, Elapsed: p.now().Sub(p.start)}
}

// FormatElapsed renders d for humans in the largest fitting unit.
func FormatElapsed(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%d ms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1f seconds", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.1f minutes", d.Minutes())
	default:
		return fmt.Sprintf("%.1f hours", d.Hours())
	}
}
