package domain

import "time"

// DaySchedule is the work window for one weekday.
type DaySchedule struct {
	IsWorkingDay bool
	Start        Clock
	End          Clock
}

// WorkSchedule holds one entry per weekday, indexed 0=Monday..6=Sunday.
type WorkSchedule [7]DaySchedule

// ForDate returns the day schedule for the given calendar date.
func (ws WorkSchedule) ForDate(day time.Time) DaySchedule {
	return ws[(int(day.Weekday())+6)%7]
}

// DefaultWorkSchedule is 08:00-16:00 Monday through Friday.
func DefaultWorkSchedule() WorkSchedule {
	var ws WorkSchedule
	for i := range ws {
		if i < 5 {
			ws[i] = DaySchedule{IsWorkingDay: true, Start: MustClock("08:00"), End: MustClock("16:00")}
		} else {
			ws[i] = DaySchedule{IsWorkingDay: false}
		}
	}
	return ws
}

// ProtectedInterval is a recurring or date-bound span that is never
// eligible for placement, regardless of task type.
type ProtectedInterval struct {
	ID     string
	Label  string
	Window Window

	// Nil means the interval recurs every day; otherwise it applies
	// only on the given date.
	Date *time.Time
}

// AppliesOn reports whether the interval blocks the given date.
func (p ProtectedInterval) AppliesOn(day time.Time) bool {
	if p.Date == nil {
		return true
	}
	return DateOf(*p.Date).Equal(DateOf(day))
}

// DefaultProtectedIntervals mirrors the baseline life-necessity blocks:
// lunch and dinner are never schedulable.
func DefaultProtectedIntervals() []ProtectedInterval {
	return []ProtectedInterval{
		{Label: "lunch", Window: Window{Start: MustClock("12:00"), End: MustClock("13:00")}},
		{Label: "dinner", Window: Window{Start: MustClock("18:00"), End: MustClock("19:00")}},
	}
}

// SchedulingConfig carries every knob a scheduling run needs. Runs are
// pure functions of (units, commitments, config, rules, horizon);
// nothing here is ambient state.
type SchedulingConfig struct {
	DayStart Clock // global day bound, default 06:00
	DayEnd   Clock // default 22:00

	PreferredBlockMin int // target chunk size
	MinBlockMin       int // smallest interval worth considering
	MinBreakMin       int // gap left after each placed block

	MaxDailyScheduledMin int // across all units, 0 = unlimited
	HorizonDays          int

	Timezone string
}

// DefaultSchedulingConfig returns the stock configuration.
func DefaultSchedulingConfig() SchedulingConfig {
	return SchedulingConfig{
		DayStart:             MustClock("06:00"),
		DayEnd:               MustClock("22:00"),
		PreferredBlockMin:    90,
		MinBlockMin:          30,
		MinBreakMin:          15,
		MaxDailyScheduledMin: 600,
		HorizonDays:          14,
		Timezone:             "UTC",
	}
}

// Location resolves the configured timezone, falling back to UTC on
// unknown names.
func (c SchedulingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
