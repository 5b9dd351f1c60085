// Package availability turns a day's calendar state into the free
// intervals a scheduling run may place work into. All functions are
// pure; callers assemble the inputs from storage.
package availability

import (
	"sort"
	"time"

	"github.com/jordanhale/timeloom/internal/domain"
)

// Span is a half-open [Start, End) interval on the real timeline.
type Span struct {
	Start time.Time
	End   time.Time
}

// DurationMin returns the span length in whole minutes.
func (s Span) DurationMin() int {
	return int(s.End.Sub(s.Start) / time.Minute)
}

// Overlaps reports whether two half-open spans intersect.
func (s Span) Overlaps(o Span) bool {
	return s.Start.Before(o.End) && o.Start.Before(s.End)
}

// Slot is a free interval tagged with whether it lies inside the work
// schedule. Work-type units may only land in work slots; everything
// else may only land in personal slots.
type Slot struct {
	Span
	ForWork bool
}

// Subtract removes the busy spans from the window and returns the
// remaining free spans in chronological order. Busy spans may overlap
// each other and need not be sorted.
func Subtract(window Span, busy []Span) []Span {
	if !window.Start.Before(window.End) {
		return nil
	}

	sorted := make([]Span, 0, len(busy))
	for _, b := range busy {
		if b.Overlaps(window) {
			sorted = append(sorted, b)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	var free []Span
	cursor := window.Start
	for _, b := range sorted {
		if b.Start.After(cursor) {
			end := b.Start
			if end.After(window.End) {
				end = window.End
			}
			if cursor.Before(end) {
				free = append(free, Span{Start: cursor, End: end})
			}
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
		if !cursor.Before(window.End) {
			return free
		}
	}
	if cursor.Before(window.End) {
		free = append(free, Span{Start: cursor, End: window.End})
	}
	return free
}

// DayInputs collects everything needed to compute one day's free slots.
type DayInputs struct {
	Date      time.Time // midnight in the scheduling location
	Work      domain.DaySchedule
	Config    domain.SchedulingConfig
	Protected []domain.ProtectedInterval
	Busy      []Span // commitments and already-placed blocks
}

// DaySlots computes the free slots for one day, split into work and
// personal slots. On working days the work schedule window is work
// territory and the rest of the day window is personal; on days off the
// whole day window is personal. Protected intervals are removed from
// both. Slots shorter than MinBlockMin are dropped.
func DaySlots(in DayInputs) []Slot {
	busy := make([]Span, 0, len(in.Busy)+len(in.Protected))
	busy = append(busy, in.Busy...)
	for _, p := range in.Protected {
		if !p.AppliesOn(in.Date) {
			continue
		}
		busy = append(busy, Span{
			Start: p.Window.Start.On(in.Date),
			End:   p.Window.End.On(in.Date),
		})
	}

	dayStart := in.Config.DayStart.On(in.Date)
	dayEnd := in.Config.DayEnd.On(in.Date)

	var slots []Slot
	appendFree := func(window Span, forWork bool) {
		for _, f := range Subtract(window, busy) {
			if f.DurationMin() < in.Config.MinBlockMin {
				continue
			}
			slots = append(slots, Slot{Span: f, ForWork: forWork})
		}
	}

	if in.Work.IsWorkingDay {
		workStart := in.Work.Start.On(in.Date)
		workEnd := in.Work.End.On(in.Date)
		if workStart.Before(dayStart) {
			workStart = dayStart
		}
		if workEnd.After(dayEnd) {
			workEnd = dayEnd
		}
		appendFree(Span{Start: dayStart, End: workStart}, false)
		appendFree(Span{Start: workStart, End: workEnd}, true)
		appendFree(Span{Start: workEnd, End: dayEnd}, false)
	} else {
		appendFree(Span{Start: dayStart, End: dayEnd}, false)
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})
	return slots
}

// BusyFromCommitments converts commitments into busy spans.
func BusyFromCommitments(commitments []*domain.ExternalCommitment) []Span {
	spans := make([]Span, 0, len(commitments))
	for _, c := range commitments {
		spans = append(spans, Span{Start: c.StartTime, End: c.EndTime})
	}
	return spans
}

// BusyFromBlocks converts time blocks into busy spans.
func BusyFromBlocks(blocks []*domain.TimeBlock) []Span {
	spans := make([]Span, 0, len(blocks))
	for _, b := range blocks {
		spans = append(spans, Span{Start: b.StartTime, End: b.EndTime})
	}
	return spans
}
