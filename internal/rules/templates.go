package rules

import (
	"errors"
	"fmt"
	"time"

	"github.com/jordanhale/timeloom/internal/domain"
)

// ErrUnknownTemplate is returned for a template name not in the catalog.
var ErrUnknownTemplate = errors.New("unknown rule template")

// Template is a named, prebuilt rule users can instantiate directly
// instead of assembling conditions and actions by hand.
type Template struct {
	Key         string
	Name        string
	Description string
	Rule        domain.Rule
}

var templates = []Template{
	{
		Key:         "morning_chores",
		Name:        "Morning chores",
		Description: "Keep household chores in the early morning hours.",
		Rule: domain.Rule{
			Conditions: []domain.Condition{
				{Kind: domain.CondTaskType, TaskType: domain.SourceHousehold},
			},
			Actions: []domain.Action{
				{Kind: domain.ActionRestrictWindow, Window: domain.Window{
					Start: domain.MustClock("06:00"), End: domain.MustClock("09:00")}},
			},
			Priority: 10,
		},
	},
	{
		Key:         "household_weekends",
		Name:        "Household on weekends",
		Description: "Bump household chores up the queue on Saturday and Sunday.",
		Rule: domain.Rule{
			Conditions: []domain.Condition{
				{Kind: domain.CondTaskType, TaskType: domain.SourceHousehold},
				{Kind: domain.CondDayOfWeek, Weekdays: []time.Weekday{time.Saturday, time.Sunday}},
			},
			Actions: []domain.Action{
				{Kind: domain.ActionBoostPriority, Delta: 1},
			},
			Priority: 10,
		},
	},
	{
		Key:         "no_work_after_hours",
		Name:        "No work after hours",
		Description: "Never place project work after 18:00.",
		Rule: domain.Rule{
			Conditions: []domain.Condition{
				{Kind: domain.CondTaskType, TaskType: domain.SourceProject},
			},
			Actions: []domain.Action{
				{Kind: domain.ActionBlockWindow, Window: domain.Window{
					Start: domain.MustClock("18:00"), End: domain.MustClock("23:59") + 1}},
			},
			Priority: 20,
		},
	},
	{
		Key:         "evening_dinner_prep",
		Name:        "Evening dinner prep",
		Description: "Cooking tasks go in the late afternoon, before dinner.",
		Rule: domain.Rule{
			Conditions: []domain.Condition{
				{Kind: domain.CondNameContains, Substring: "cook"},
			},
			Actions: []domain.Action{
				{Kind: domain.ActionRestrictWindow, Window: domain.Window{
					Start: domain.MustClock("16:00"), End: domain.MustClock("18:00")}},
			},
			Priority: 10,
		},
	},
	{
		Key:         "high_priority_mornings",
		Name:        "High priority mornings",
		Description: "High priority tasks claim the morning hours.",
		Rule: domain.Rule{
			Conditions: []domain.Condition{
				{Kind: domain.CondPriority, Priority: domain.PriorityHigh},
			},
			Actions: []domain.Action{
				{Kind: domain.ActionRestrictWindow, Window: domain.Window{
					Start: domain.MustClock("06:00"), End: domain.MustClock("12:00")}},
			},
			Priority: 15,
		},
	},
}

// Templates returns the catalog in stable order.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// FromTemplate instantiates the named template. The caller assigns the
// identity and timestamps before persisting.
func FromTemplate(key string) (*domain.Rule, error) {
	for _, t := range templates {
		if t.Key == key {
			r := t.Rule
			r.Name = t.Name
			r.Description = t.Description
			r.IsActive = true
			// Deep-copy the slices so callers can edit freely.
			r.Conditions = append([]domain.Condition(nil), t.Rule.Conditions...)
			r.Actions = append([]domain.Action(nil), t.Rule.Actions...)
			return &r, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, key)
}
