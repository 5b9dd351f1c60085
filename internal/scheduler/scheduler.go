// Package scheduler places schedulable units into free calendar slots.
// Placement is a pure function of its input: given the same units,
// rules, calendar state, and config it always produces the same plan.
package scheduler

import (
	"sort"
	"time"

	"github.com/jordanhale/timeloom/internal/availability"
	"github.com/jordanhale/timeloom/internal/domain"
	"github.com/jordanhale/timeloom/internal/rules"
)

// Block is a placed chunk of work. Identity is assigned at commit time,
// never here, so previews of identical state are byte-identical.
type Block struct {
	TaskType domain.SourceType
	TaskID   string
	TaskName string
	Start    time.Time
	End      time.Time
}

// DurationMin returns the block length in minutes.
func (b Block) DurationMin() int {
	return int(b.End.Sub(b.Start) / time.Minute)
}

// Unmet reports demand the horizon could not absorb for a unit with a
// deadline inside the horizon. Partial placements still count; only the
// shortfall is reported.
type Unmet struct {
	UnitID     string
	Name       string
	SourceType domain.SourceType
	Deadline   time.Time
	MissingMin int
}

// Placement records minutes already spent on a unit on a given day,
// typically from completed blocks that survived regeneration. It seeds
// cap accounting so regeneration does not double-book capped units.
type Placement struct {
	UnitID  string
	Day     time.Time
	Minutes int
}

// Input is the full state a run consumes.
type Input struct {
	Units     []domain.SchedulableUnit
	Rules     []*domain.Rule
	Schedule  domain.WorkSchedule
	Config    domain.SchedulingConfig
	Protected []domain.ProtectedInterval

	// Busy spans from external commitments and blocks that survive
	// regeneration (completed, skipped, external).
	Busy []availability.Span

	// Prior placements seed daily and weekly cap usage.
	Prior []Placement

	Start time.Time // first day, midnight in the scheduling location
	Days  int
}

// Plan is the output of a run.
type Plan struct {
	Blocks   []Block
	Unmet    []Unmet
	TotalMin int
}

// CanonicalSort orders units deterministically: deadline-bearing units
// first, then by deadline, then by priority tier, then by id. The tier
// may be shifted per day by rule boosts; delta maps unit id to shift.
func CanonicalSort(units []domain.SchedulableUnit, delta map[string]int) {
	tier := func(u domain.SchedulableUnit) int {
		return u.Priority.Boost(delta[u.ID]).Tier()
	}
	sort.SliceStable(units, func(i, j int) bool {
		a, b := units[i], units[j]
		if (a.Deadline != nil) != (b.Deadline != nil) {
			return a.Deadline != nil
		}
		if a.Deadline != nil && !a.Deadline.Equal(*b.Deadline) {
			return a.Deadline.Before(*b.Deadline)
		}
		if tier(a) != tier(b) {
			return tier(a) < tier(b)
		}
		return a.ID < b.ID
	})
}

// Run executes a full placement pass over the horizon.
func Run(in Input) Plan {
	units := make([]domain.SchedulableUnit, len(in.Units))
	copy(units, in.Units)

	daily := map[string]int{}                  // unit id -> minutes today
	weekly := map[string]map[time.Time]int{}   // unit id -> week start -> minutes
	for _, p := range in.Prior {
		ws := domain.WeekStart(p.Day)
		if weekly[p.UnitID] == nil {
			weekly[p.UnitID] = map[time.Time]int{}
		}
		weekly[p.UnitID][ws] += p.Minutes
	}

	var plan Plan
	for dayIdx := 0; dayIdx < in.Days; dayIdx++ {
		day := domain.DateOf(in.Start).AddDate(0, 0, dayIdx)
		week := domain.WeekStart(day)

		for k := range daily {
			delete(daily, k)
		}
		for _, p := range in.Prior {
			if domain.DateOf(p.Day).Equal(day) {
				daily[p.UnitID] += p.Minutes
			}
		}

		slots := availability.DaySlots(availability.DayInputs{
			Date:      day,
			Work:      in.Schedule.ForDate(day),
			Config:    in.Config,
			Protected: in.Protected,
			Busy:      busyOn(in.Busy, day),
		})

		dayBudget := in.Config.MaxDailyScheduledMin
		if dayBudget <= 0 {
			dayBudget = 24 * 60
		}
		for _, m := range daily {
			dayBudget -= m
		}

		// Directives are per unit per day; evaluate once up front so
		// boosts can reorder today's queue.
		directives := map[string]rules.Directives{}
		boosts := map[string]int{}
		for _, u := range units {
			d := rules.Evaluate(in.Rules, u, day)
			directives[u.ID] = d
			boosts[u.ID] = d.PriorityDelta
		}
		CanonicalSort(units, boosts)

		for i := range units {
			u := &units[i]
			if u.RemainingMin() == 0 || dayBudget < in.Config.MinBlockMin {
				continue
			}
			if u.Deadline != nil && day.After(domain.DateOf(*u.Deadline)) {
				continue
			}
			if !placeableOn(*u, day) {
				continue
			}
			d := directives[u.ID]
			if d.Excluded {
				continue
			}

			budget := unitDayBudget(*u, d, daily[u.ID], weekUsed(weekly, u.ID, week))
			if budget > dayBudget {
				budget = dayBudget
			}

			placed := placeUnit(u, d, &slots, day, in.Config, budget, &plan)
			if placed > 0 {
				u.UsedMin += placed
				daily[u.ID] += placed
				if weekly[u.ID] == nil {
					weekly[u.ID] = map[time.Time]int{}
				}
				weekly[u.ID][week] += placed
				dayBudget -= placed
			}
		}
	}

	horizonEnd := domain.DateOf(in.Start).AddDate(0, 0, in.Days)
	for _, u := range units {
		if u.Deadline == nil || u.RemainingMin() == 0 {
			continue
		}
		if u.Deadline.Before(horizonEnd) {
			plan.Unmet = append(plan.Unmet, Unmet{
				UnitID:     u.ID,
				Name:       u.Name,
				SourceType: u.SourceType,
				Deadline:   *u.Deadline,
				MissingMin: u.RemainingMin(),
			})
		}
	}
	sort.Slice(plan.Unmet, func(i, j int) bool {
		if !plan.Unmet[i].Deadline.Equal(plan.Unmet[j].Deadline) {
			return plan.Unmet[i].Deadline.Before(plan.Unmet[j].Deadline)
		}
		return plan.Unmet[i].UnitID < plan.Unmet[j].UnitID
	})
	return plan
}

// unitDayBudget clamps today's placement for a unit to its remaining
// total and the tightest of its daily and weekly caps.
func unitDayBudget(u domain.SchedulableUnit, d rules.Directives, usedToday, usedThisWeek int) int {
	budget := u.RemainingMin()

	clamp := func(limit *int, used int) {
		if limit == nil {
			return
		}
		if rem := *limit - used; rem < budget {
			budget = rem
		}
	}
	clamp(u.DailyCapMin, usedToday)
	clamp(d.DailyLimitMin, usedToday)
	clamp(u.WeeklyCapMin, usedThisWeek)
	clamp(d.WeeklyLimitMin, usedThisWeek)

	if budget < 0 {
		return 0
	}
	return budget
}

// placeableOn honors a unit's preferred weekdays; empty means any day.
func placeableOn(u domain.SchedulableUnit, day time.Time) bool {
	if len(u.PreferredDays) == 0 {
		return true
	}
	for _, d := range u.PreferredDays {
		if day.Weekday() == d {
			return true
		}
	}
	return false
}

func weekUsed(weekly map[string]map[time.Time]int, unitID string, week time.Time) int {
	if m := weekly[unitID]; m != nil {
		return m[week]
	}
	return 0
}

// placeUnit carves chunks for one unit out of today's slots, consuming
// the shared slot list as it goes. Returns the minutes placed.
func placeUnit(u *domain.SchedulableUnit, d rules.Directives, slots *[]availability.Slot,
	day time.Time, cfg domain.SchedulingConfig, budget int, plan *Plan) int {

	placed := 0
	for budget-placed >= cfg.MinBlockMin {
		idx, candidate := findCandidate(*u, d, *slots, day, cfg)
		if idx < 0 {
			break
		}

		chunk := cfg.PreferredBlockMin
		if rem := budget - placed; chunk > rem {
			chunk = rem
		}
		if max := candidate.DurationMin(); chunk > max {
			chunk = max
		}

		start := candidate.Start
		end := start.Add(time.Duration(chunk) * time.Minute)
		plan.Blocks = append(plan.Blocks, Block{
			TaskType: u.SourceType,
			TaskID:   u.ID,
			TaskName: u.Name,
			Start:    start,
			End:      end,
		})
		plan.TotalMin += chunk
		placed += chunk

		consume(slots, idx, availability.Span{
			Start: start,
			End:   end.Add(time.Duration(cfg.MinBreakMin) * time.Minute),
		})
	}
	return placed
}

// findCandidate returns the earliest usable interval for the unit: the
// first slot of the right kind, intersected with the unit's preferred
// window and any restriction, minus blocked windows, still at least
// MinBlockMin long.
func findCandidate(u domain.SchedulableUnit, d rules.Directives, slots []availability.Slot,
	day time.Time, cfg domain.SchedulingConfig) (int, availability.Span) {

	allowed := domain.WindowForTimeOfDay(u.PreferredTime)
	window := availability.Span{Start: allowed.Start.On(day), End: allowed.End.On(day)}
	// A timestamped deadline cuts the due day off at the instant; a bare
	// date (midnight) leaves the whole due day usable.
	if u.Deadline != nil && domain.DateOf(*u.Deadline).Equal(day) && u.Deadline.After(domain.DateOf(*u.Deadline)) {
		window = intersect(window, availability.Span{Start: window.Start, End: *u.Deadline})
	}
	if d.Restrict != nil {
		r := availability.Span{Start: d.Restrict.Start.On(day), End: d.Restrict.End.On(day)}
		window = intersect(window, r)
	}

	var blocked []availability.Span
	for _, b := range d.Blocked {
		blocked = append(blocked, availability.Span{Start: b.Start.On(day), End: b.End.On(day)})
	}

	for i, s := range slots {
		if s.ForWork != u.IsWorkType() {
			continue
		}
		usable := intersect(s.Span, window)
		for _, f := range availability.Subtract(usable, blocked) {
			if f.DurationMin() >= cfg.MinBlockMin {
				return i, f
			}
		}
	}
	return -1, availability.Span{}
}

func intersect(a, b availability.Span) availability.Span {
	if b.Start.After(a.Start) {
		a.Start = b.Start
	}
	if b.End.Before(a.End) {
		a.End = b.End
	}
	if !a.Start.Before(a.End) {
		return availability.Span{Start: a.Start, End: a.Start}
	}
	return a
}

// consume removes the taken span (block plus trailing break) from the
// slot at idx, splitting it if the take is in the middle.
func consume(slots *[]availability.Slot, idx int, taken availability.Span) {
	s := (*slots)[idx]

	var out []availability.Slot
	out = append(out, (*slots)[:idx]...)
	if s.Start.Before(taken.Start) {
		out = append(out, availability.Slot{
			Span:    availability.Span{Start: s.Start, End: taken.Start},
			ForWork: s.ForWork,
		})
	}
	if taken.End.Before(s.End) {
		out = append(out, availability.Slot{
			Span:    availability.Span{Start: taken.End, End: s.End},
			ForWork: s.ForWork,
		})
	}
	out = append(out, (*slots)[idx+1:]...)
	*slots = out
}

func busyOn(busy []availability.Span, day time.Time) []availability.Span {
	daySpan := availability.Span{Start: domain.DateOf(day), End: domain.DateOf(day).AddDate(0, 0, 1)}
	var out []availability.Span
	for _, b := range busy {
		if b.Overlaps(daySpan) {
			out = append(out, b)
		}
	}
	return out
}
