package domain

import (
	"fmt"
	"time"
)

// TimeBlock is a concrete placed interval assigned to a schedulable
// unit, or a read-only projection of an external commitment.
type TimeBlock struct {
	ID       string
	TaskType SourceType
	TaskID   string
	TaskName string

	StartTime time.Time
	EndTime   time.Time

	Status BlockStatus

	// Recorded on completion, for comparing against the estimate.
	ActualMin *int
	Notes     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DurationMin returns the block length in whole minutes.
func (b TimeBlock) DurationMin() int {
	return int(b.EndTime.Sub(b.StartTime) / time.Minute)
}

// Overlaps reports whether two blocks share any time, treating
// [StartTime, EndTime) as half-open.
func (b TimeBlock) Overlaps(o TimeBlock) bool {
	return b.StartTime.Before(o.EndTime) && o.StartTime.Before(b.EndTime)
}

// CanTransitionTo enforces the block state machine:
// scheduled -> {completed, skipped}; external is terminal.
func (b TimeBlock) CanTransitionTo(next BlockStatus) bool {
	if b.Status != BlockScheduled {
		return false
	}
	return next == BlockCompleted || next == BlockSkipped
}

// ErrInvalidTransition is returned when a block status change violates
// the state machine.
type ErrInvalidTransition struct {
	From BlockStatus
	To   BlockStatus
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid block transition %s -> %s", e.From, e.To)
}
