package domain

import "time"

// SchedulableUnit is the normalized representation of any task type
// eligible for automatic placement. The task pool builds these from
// projects, assignments, and household tasks; the placement scheduler
// consumes them and never sees the source entities.
type SchedulableUnit struct {
	ID         string
	SourceType SourceType
	Name       string

	// Minutes budgeted and already spent. UsedMin is a working copy
	// during a run; the persisted accumulators live on the sources.
	TotalMin int
	UsedMin  int

	Deadline *time.Time // required for assignments
	Priority Priority

	// Optional per-period caps, in minutes.
	WeeklyCapMin *int
	DailyCapMin  *int

	PreferredTime TimeOfDay

	// PreferredDays limits placement to these weekdays. Empty means any
	// day is eligible.
	PreferredDays []time.Weekday

	IsActive bool
}

// RemainingMin returns the minutes still to be placed, never negative.
func (u SchedulableUnit) RemainingMin() int {
	r := u.TotalMin - u.UsedMin
	if r < 0 {
		return 0
	}
	return r
}

// IsWorkType reports whether the unit belongs in work-schedule windows.
// Everything else is confined to the complement (evenings/weekends)
// under the work/life separation policy.
func (u SchedulableUnit) IsWorkType() bool {
	return u.SourceType == SourceProject
}
