package domain

import "time"

// ExternalCommitment is a fixed, immovable interval sourced from an
// external calendar. The scheduler never relocates one; it only blocks
// availability.
type ExternalCommitment struct {
	ID         string
	ExternalID string // provider event id, used as the upsert key
	Title      string

	StartTime time.Time
	EndTime   time.Time

	Category   string // meeting, focus, personal
	CalendarID string
	LastSynced time.Time
}

// DurationMin returns the commitment length in whole minutes.
func (c ExternalCommitment) DurationMin() int {
	return int(c.EndTime.Sub(c.StartTime) / time.Minute)
}
