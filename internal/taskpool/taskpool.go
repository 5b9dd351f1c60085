// Package taskpool normalizes projects, assignments, and household
// tasks into schedulable units. Placement never sees the source
// entities, only the units produced here.
package taskpool

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jordanhale/timeloom/internal/domain"
)

// DefaultAssignmentMin is assumed for assignments with no hour estimate.
const DefaultAssignmentMin = 120

// Sources holds the raw task state a pool is built from.
type Sources struct {
	Projects    []*domain.Project
	Assignments []*domain.Assignment
	Household   []*domain.HouseholdTask
}

// ActiveUnits builds the schedulable units that are due as of now.
// Inactive sources, exhausted budgets, completed assignments, and
// household tasks not yet due for their cadence are all filtered out.
func ActiveUnits(s Sources, now time.Time) []domain.SchedulableUnit {
	var units []domain.SchedulableUnit

	for _, p := range s.Projects {
		if u, ok := projectUnit(p); ok {
			units = append(units, u)
		}
	}
	for _, a := range s.Assignments {
		if u, ok := assignmentUnit(a); ok {
			units = append(units, u)
		}
	}
	for _, t := range s.Household {
		if u, ok := householdUnit(t, now); ok {
			units = append(units, u)
		}
	}
	return units
}

func projectUnit(p *domain.Project) (domain.SchedulableUnit, bool) {
	if !p.IsActive || p.HoursRemaining() <= 0 {
		return domain.SchedulableUnit{}, false
	}
	u := domain.SchedulableUnit{
		ID:            p.ID,
		SourceType:    domain.SourceProject,
		Name:          p.Name,
		TotalMin:      int(p.HoursRemaining() * 60),
		Priority:      p.Priority,
		PreferredTime: p.PreferredTime,
		Deadline:      p.EndDate,
		IsActive:      true,
	}
	if p.WeeklyHourCap != nil {
		cap := int(*p.WeeklyHourCap * 60)
		u.WeeklyCapMin = &cap
	}
	if p.DailyHourCap != nil {
		cap := int(*p.DailyHourCap * 60)
		u.DailyCapMin = &cap
	}
	return u, true
}

func assignmentUnit(a *domain.Assignment) (domain.SchedulableUnit, bool) {
	if a.IsCompleted {
		return domain.SchedulableUnit{}, false
	}
	total := DefaultAssignmentMin
	if rem := a.HoursRemaining(); rem != nil {
		total = int(*rem * 60)
	}
	if total <= 0 {
		return domain.SchedulableUnit{}, false
	}
	due := a.DueDate
	return domain.SchedulableUnit{
		ID:            a.ID,
		SourceType:    domain.SourceAssignment,
		Name:          a.Name,
		TotalMin:      total,
		Priority:      a.Priority,
		PreferredTime: a.PreferredTime,
		Deadline:      &due,
		IsActive:      true,
	}, true
}

func householdUnit(t *domain.HouseholdTask, now time.Time) (domain.SchedulableUnit, bool) {
	if !t.IsActive || !DueForRecurrence(t, now) {
		return domain.SchedulableUnit{}, false
	}
	return domain.SchedulableUnit{
		ID:            t.ID,
		SourceType:    domain.SourceHousehold,
		Name:          t.Name,
		TotalMin:      t.EstimatedDurationMin,
		Priority:      t.Priority,
		PreferredTime: t.PreferredTime,
		PreferredDays: t.PreferredDays,
		IsActive:      true,
	}, true
}

// DueForRecurrence reports whether a household task's cadence makes it
// due again as of now. A task never completed is always due.
func DueForRecurrence(t *domain.HouseholdTask, now time.Time) bool {
	if t.LastCompleted == nil {
		return true
	}
	sinceDays := int(domain.DateOf(now).Sub(domain.DateOf(*t.LastCompleted)) / (24 * time.Hour))

	switch t.Recurrence {
	case domain.RecurNone:
		// One-shot: done once, never again.
		return false
	case domain.RecurDaily:
		return sinceDays >= 1
	case domain.RecurWeekly:
		return sinceDays >= 7
	case domain.RecurBiweekly:
		return sinceDays >= 14
	case domain.RecurMonthly:
		return sinceDays >= 30
	case domain.RecurCustom:
		sched, err := cron.ParseStandard(t.RecurrenceExpr)
		if err != nil {
			// Unparseable expression degrades to weekly cadence.
			return sinceDays >= 7
		}
		return !sched.Next(*t.LastCompleted).After(now)
	default:
		return sinceDays >= 7
	}
}
