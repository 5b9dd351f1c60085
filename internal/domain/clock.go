package domain

import (
	"fmt"
	"time"
)

// Clock is a time of day expressed as minutes since midnight. It keeps
// interval arithmetic on day windows free of date/zone concerns.
type Clock int

// ParseClock parses "HH:MM" into a Clock.
func ParseClock(s string) (Clock, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("parsing clock %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock %q out of range", s)
	}
	return Clock(h*60 + m), nil
}

// MustClock parses "HH:MM" and panics on failure. For constants in
// code and tests only.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// On anchors the clock to the given calendar day, preserving the
// day's location.
func (c Clock) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, int(c)/60, int(c)%60, 0, 0, day.Location())
}

// Window is a half-open [Start, End) span within a single day.
type Window struct {
	Start Clock
	End   Clock
}

func (w Window) IsZero() bool { return w.Start == 0 && w.End == 0 }

func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}

// WindowForTimeOfDay maps a time-of-day tag onto its clock window.
// Flexible spans the whole day.
func WindowForTimeOfDay(tod TimeOfDay) Window {
	switch tod {
	case TimeMorning:
		return Window{Start: MustClock("06:00"), End: MustClock("12:00")}
	case TimeAfternoon:
		return Window{Start: MustClock("12:00"), End: MustClock("17:00")}
	case TimeEvening:
		return Window{Start: MustClock("17:00"), End: MustClock("22:00")}
	default:
		return Window{Start: 0, End: MustClock("23:59") + 1}
	}
}

// DateOf truncates t to midnight in its own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekStart returns the Monday midnight at or before day. Weekly caps
// are aligned to this boundary.
func WeekStart(day time.Time) time.Time {
	day = DateOf(day)
	// time.Weekday: Sunday=0; shift so Monday=0.
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
