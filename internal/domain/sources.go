package domain

import "time"

// Project is a work project with an hour budget and optional caps.
type Project struct {
	ID          string
	Name        string
	Description string

	TotalHoursAllocated float64
	HoursUsed           float64

	WeeklyHourCap *float64
	DailyHourCap  *float64

	Priority      Priority
	PreferredTime TimeOfDay

	StartDate *time.Time
	EndDate   *time.Time // deadline or project end
	IsActive  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HoursRemaining returns the unbudgeted remainder, never negative.
func (p Project) HoursRemaining() float64 {
	r := p.TotalHoursAllocated - p.HoursUsed
	if r < 0 {
		return 0
	}
	return r
}

// HouseholdTask is a recurring chore with a cadence and a preferred
// time of day.
type HouseholdTask struct {
	ID          string
	Name        string
	Description string

	EstimatedDurationMin int

	Recurrence     Recurrence
	RecurrenceExpr string // cron expression when Recurrence is custom
	LastCompleted  *time.Time

	Priority      Priority
	PreferredTime TimeOfDay
	PreferredDays []time.Weekday

	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Course is an academic course with a fixed weekly meeting slot. Class
// meetings surface as external commitments over the semester.
type Course struct {
	ID   string
	Code string
	Name string

	DayOfWeek int // 0=Monday..6=Sunday
	Start     Clock
	End       Clock
	Location  string

	SemesterStart time.Time
	SemesterEnd   time.Time
	ExcludedDates []time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClassDates generates every meeting date in the semester, honoring
// excluded dates.
func (c Course) ClassDates() []time.Time {
	var dates []time.Time
	cur := DateOf(c.SemesterStart)
	for (int(cur.Weekday())+6)%7 != c.DayOfWeek {
		cur = cur.AddDate(0, 0, 1)
	}
	for !cur.After(DateOf(c.SemesterEnd)) {
		excluded := false
		for _, ex := range c.ExcludedDates {
			if DateOf(ex).Equal(cur) {
				excluded = true
				break
			}
		}
		if !excluded {
			dates = append(dates, cur)
		}
		cur = cur.AddDate(0, 0, 7)
	}
	return dates
}

// Assignment is a course deliverable with a hard deadline.
type Assignment struct {
	ID          string
	CourseID    string
	Name        string
	Description string

	DueDate time.Time

	EstimatedHours *float64
	HoursLogged    float64

	Priority      Priority
	PreferredTime TimeOfDay

	IsCompleted bool
	CompletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HoursRemaining returns the estimated hours still owed, or nil when
// the assignment carries no estimate.
func (a Assignment) HoursRemaining() *float64 {
	if a.EstimatedHours == nil {
		return nil
	}
	r := *a.EstimatedHours - a.HoursLogged
	if r < 0 {
		r = 0
	}
	return &r
}
