package domain

import "time"

// ConditionKind enumerates the closed set of rule condition types.
type ConditionKind string

const (
	CondTaskType     ConditionKind = "task_type"
	CondNameContains ConditionKind = "name_contains"
	CondPriority     ConditionKind = "priority"
	CondDayOfWeek    ConditionKind = "day_of_week"
)

// ActionKind enumerates the closed set of rule action types. Each kind
// reads exactly one typed payload field on Action; there is no open
// value map.
type ActionKind string

const (
	ActionRestrictWindow  ActionKind = "restrict_to_time_range"
	ActionBlockWindow     ActionKind = "block_time_range"
	ActionBoostPriority   ActionKind = "boost_priority"
	ActionExcludeDate     ActionKind = "exclude_date"
	ActionLimitDailyMin   ActionKind = "limit_daily_minutes"
	ActionLimitWeeklyMin  ActionKind = "limit_weekly_minutes"
)

// Condition is one predicate in a rule. All conditions of a rule must
// match for its actions to apply.
type Condition struct {
	Kind ConditionKind

	// Payloads by kind; only the matching field is read.
	TaskType  SourceType     // CondTaskType
	Substring string         // CondNameContains, matched case-insensitively
	Priority  Priority       // CondPriority
	Weekdays  []time.Weekday // CondDayOfWeek
}

// Action is one directive a matched rule contributes to placement.
type Action struct {
	Kind ActionKind

	Window   Window    // restrict / block
	Delta    int       // boost_priority, positive = more urgent
	Date     time.Time // exclude_date (midnight, any location)
	LimitMin int       // limit_daily_minutes / limit_weekly_minutes
}

// Rule is a user-defined scheduling rule. Rules never mutate persisted
// task state; they only influence placement decisions, re-evaluated
// fresh on every run.
type Rule struct {
	ID          string
	Name        string
	Description string

	Conditions []Condition
	Actions    []Action

	// Higher priority rules are evaluated first; on conflicting
	// directives of the same kind, first-applied wins.
	Priority int
	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
