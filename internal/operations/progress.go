package operations

import (
	"fmt"
	"sync"
	"time"
)

// ProgressTracker tracks how many plot jobs of a run have been attempted
type ProgressTracker struct {
	Stage     string
	Total     int
	Current   int
	StartTime time.Time
	Message   string
	mu        sync.Mutex
}

// NewProgressTracker creates a new progress tracker
func NewProgressTracker(stage string, total int) *ProgressTracker {
	return &ProgressTracker{
		Stage:     stage,
		Total:     total,
		StartTime: time.Now(),
	}
}

// Increment increments the current progress by 1
func (p *ProgressTracker) Increment(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Current++
	p.Message = message
}

// GetProgress returns the current progress state
func (p *ProgressTracker) GetProgress() (current, total int, percentage float64, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Total > 0 {
		percentage = float64(p.Current) / float64(p.Total) * 100
	}
	return p.Current, p.Total, percentage, p.Message
}

// IsComplete returns true once every job has been attempted
func (p *ProgressTracker) IsComplete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.Current >= p.Total
}

// GetElapsedTimeString returns a formatted elapsed time string
func (p *ProgressTracker) GetElapsedTimeString() string {
	elapsed := time.Since(p.StartTime)

	if elapsed < time.Minute {
		return fmt.Sprintf("%.0f seconds", elapsed.Seconds())
	} else if elapsed < time.Hour {
		return fmt.Sprintf("%.1f minutes", elapsed.Minutes())
	}
	return fmt.Sprintf("%.1f hours", elapsed.Hours())
}
