// Package rules evaluates user-defined scheduling rules into placement
// directives. Rules never mutate task state; they are re-evaluated
// fresh for every unit on every day of a run.
package rules

import (
	"sort"
	"strings"
	"time"

	"github.com/jordanhale/timeloom/internal/domain"
)

// Directives is the merged outcome of evaluating all matching rules for
// one unit on one day. Rules are applied in descending priority order;
// for conflicting directives of the same kind the first applied wins.
// Blocked windows are additive across rules.
type Directives struct {
	// Excluded means no placement for this unit on this date at all.
	Excluded bool

	// Restrict confines placement to a clock window. Nil means no
	// restriction.
	Restrict *domain.Window

	// Blocked windows are carved out of whatever remains.
	Blocked []domain.Window

	// PriorityDelta shifts the unit's priority for sorting.
	PriorityDelta int

	// Per-unit placement limits in minutes. Nil means unlimited.
	DailyLimitMin  *int
	WeeklyLimitMin *int

	boostSet  bool
	dailySet  bool
	weeklySet bool
}

// Matches reports whether every condition of the rule holds for the
// unit on the given date. A rule with no conditions matches everything.
func Matches(r *domain.Rule, unit domain.SchedulableUnit, date time.Time) bool {
	for _, c := range r.Conditions {
		if !matchCondition(c, unit, date) {
			return false
		}
	}
	return true
}

func matchCondition(c domain.Condition, unit domain.SchedulableUnit, date time.Time) bool {
	switch c.Kind {
	case domain.CondTaskType:
		return unit.SourceType == c.TaskType
	case domain.CondNameContains:
		return strings.Contains(strings.ToLower(unit.Name), strings.ToLower(c.Substring))
	case domain.CondPriority:
		return unit.Priority == c.Priority
	case domain.CondDayOfWeek:
		for _, d := range c.Weekdays {
			if date.Weekday() == d {
				return true
			}
		}
		return false
	default:
		// Unknown condition kinds never match, so a rule carrying one
		// is inert rather than over-applied.
		return false
	}
}

// Evaluate runs all active rules against the unit for the given date
// and merges their actions into directives.
func Evaluate(all []*domain.Rule, unit domain.SchedulableUnit, date time.Time) Directives {
	sorted := make([]*domain.Rule, 0, len(all))
	for _, r := range all {
		if r.IsActive {
			sorted = append(sorted, r)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})

	var d Directives
	for _, r := range sorted {
		if !Matches(r, unit, date) {
			continue
		}
		for _, a := range r.Actions {
			d.apply(a, date)
		}
	}
	return d
}

func (d *Directives) apply(a domain.Action, date time.Time) {
	switch a.Kind {
	case domain.ActionRestrictWindow:
		if d.Restrict == nil {
			w := a.Window
			d.Restrict = &w
		}
	case domain.ActionBlockWindow:
		d.Blocked = append(d.Blocked, a.Window)
	case domain.ActionBoostPriority:
		if !d.boostSet {
			d.PriorityDelta = a.Delta
			d.boostSet = true
		}
	case domain.ActionExcludeDate:
		if domain.DateOf(a.Date).Equal(domain.DateOf(date)) {
			d.Excluded = true
		}
	case domain.ActionLimitDailyMin:
		if !d.dailySet {
			v := a.LimitMin
			d.DailyLimitMin = &v
			d.dailySet = true
		}
	case domain.ActionLimitWeeklyMin:
		if !d.weeklySet {
			v := a.LimitMin
			d.WeeklyLimitMin = &v
			d.weeklySet = true
		}
	}
}
