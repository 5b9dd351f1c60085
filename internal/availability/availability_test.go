package availability

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanhale/timeloom/internal/domain"
)

func span(day time.Time, start, end string) Span {
	return Span{
		Start: domain.MustClock(start).On(day),
		End:   domain.MustClock(end).On(day),
	}
}

func TestSubtract_NoBusy(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	free := Subtract(span(day, "08:00", "16:00"), nil)
	require.Len(t, free, 1)
	assert.Equal(t, span(day, "08:00", "16:00"), free[0])
}

func TestSubtract_SplitsAroundBusy(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	free := Subtract(span(day, "08:00", "16:00"), []Span{
		span(day, "10:00", "10:30"),
		span(day, "12:00", "13:00"),
	})
	require.Len(t, free, 3)
	assert.Equal(t, span(day, "08:00", "10:00"), free[0])
	assert.Equal(t, span(day, "10:30", "12:00"), free[1])
	assert.Equal(t, span(day, "13:00", "16:00"), free[2])
}

func TestSubtract_OverlappingAndEdgeBusy(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	// Busy spans overlap each other and straddle the window edges.
	free := Subtract(span(day, "09:00", "17:00"), []Span{
		span(day, "08:00", "10:00"),
		span(day, "09:30", "11:00"),
		span(day, "16:30", "18:00"),
	})
	require.Len(t, free, 1)
	assert.Equal(t, span(day, "11:00", "16:30"), free[0])
}

func TestSubtract_FullyCovered(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	free := Subtract(span(day, "09:00", "12:00"), []Span{span(day, "08:00", "13:00")})
	assert.Empty(t, free)
}

func TestSubtract_EmptyWindow(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	assert.Empty(t, Subtract(span(day, "12:00", "12:00"), nil))
}

func TestDaySlots_WorkingDay(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // Monday

	slots := DaySlots(DayInputs{
		Date: day,
		Work: domain.DaySchedule{
			IsWorkingDay: true,
			Start:        domain.MustClock("08:00"),
			End:          domain.MustClock("16:00"),
		},
		Config:    domain.DefaultSchedulingConfig(),
		Protected: domain.DefaultProtectedIntervals(),
		Busy:      []Span{span(day, "10:00", "10:30")},
	})

	var work, personal []Span
	for _, s := range slots {
		if s.ForWork {
			work = append(work, s.Span)
		} else {
			personal = append(personal, s.Span)
		}
	}

	// Work window minus the meeting and the protected lunch.
	require.Len(t, work, 3)
	assert.Equal(t, span(day, "08:00", "10:00"), work[0])
	assert.Equal(t, span(day, "10:30", "12:00"), work[1])
	assert.Equal(t, span(day, "13:00", "16:00"), work[2])

	// Before work and after work, minus the protected dinner.
	require.Len(t, personal, 3)
	assert.Equal(t, span(day, "06:00", "08:00"), personal[0])
	assert.Equal(t, span(day, "16:00", "18:00"), personal[1])
	assert.Equal(t, span(day, "19:00", "22:00"), personal[2])
}

func TestDaySlots_DayOff_WholeDayPersonal(t *testing.T) {
	day := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC) // Saturday

	slots := DaySlots(DayInputs{
		Date:      day,
		Work:      domain.DaySchedule{IsWorkingDay: false},
		Config:    domain.DefaultSchedulingConfig(),
		Protected: domain.DefaultProtectedIntervals(),
	})

	require.Len(t, slots, 3)
	for _, s := range slots {
		assert.False(t, s.ForWork)
	}
	assert.Equal(t, span(day, "06:00", "12:00"), slots[0].Span)
	assert.Equal(t, span(day, "13:00", "18:00"), slots[1].Span)
	assert.Equal(t, span(day, "19:00", "22:00"), slots[2].Span)
}

func TestDaySlots_DropsSlotsBelowMinBlock(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	cfg := domain.DefaultSchedulingConfig()

	slots := DaySlots(DayInputs{
		Date: day,
		Work: domain.DaySchedule{
			IsWorkingDay: true,
			Start:        domain.MustClock("08:00"),
			End:          domain.MustClock("16:00"),
		},
		Config: cfg,
		// Leaves a 20 minute gap between the meetings, under MinBlockMin.
		Busy: []Span{
			span(day, "08:00", "11:00"),
			span(day, "11:20", "16:00"),
		},
	})

	for _, s := range slots {
		assert.GreaterOrEqual(t, s.DurationMin(), cfg.MinBlockMin)
	}
}

func TestDaySlots_DateBoundProtectedInterval(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	other := day.AddDate(0, 0, 1)
	appt := domain.ProtectedInterval{
		Label:  "dentist",
		Window: domain.Window{Start: domain.MustClock("14:00"), End: domain.MustClock("15:00")},
		Date:   &other,
	}

	slots := DaySlots(DayInputs{
		Date:      day,
		Work:      domain.DaySchedule{IsWorkingDay: false},
		Config:    domain.DefaultSchedulingConfig(),
		Protected: []domain.ProtectedInterval{appt},
	})

	// The appointment is on a different date and must not block today.
	require.Len(t, slots, 1)
	assert.Equal(t, span(day, "06:00", "22:00"), slots[0].Span)
}

func TestSubtract_FreeNeverOverlapsBusy(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	window := span(day, "06:00", "22:00")

	for trial := 0; trial < 200; trial++ {
		var busy []Span
		for i := 0; i < rng.Intn(8); i++ {
			start := 360 + rng.Intn(900)
			length := 15 + rng.Intn(180)
			busy = append(busy, Span{
				Start: domain.Clock(start).On(day),
				End:   domain.Clock(start + length).On(day),
			})
		}

		free := Subtract(window, busy)

		var prev *Span
		for i := range free {
			f := free[i]
			assert.True(t, f.Start.Before(f.End), "free span must be non-empty")
			assert.False(t, f.Start.Before(window.Start))
			assert.False(t, f.End.After(window.End))
			for _, b := range busy {
				assert.False(t, f.Overlaps(b), "free span %v overlaps busy %v", f, b)
			}
			if prev != nil {
				assert.False(t, f.Start.Before(prev.End), "free spans must be ordered and disjoint")
			}
			prev = &f
		}
	}
}
