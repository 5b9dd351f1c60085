package domain

// SourceType identifies which kind of work a schedulable unit or time
// block was derived from.
type SourceType string

const (
	SourceProject    SourceType = "project"
	SourceAssignment SourceType = "assignment"
	SourceHousehold  SourceType = "household"
	SourcePersonal   SourceType = "personal"
	SourceMeeting    SourceType = "meeting"
)

type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
	PriorityFlexible Priority = "flexible"
)

// Tier returns a sort tier for the priority (lower = more urgent).
func (p Priority) Tier() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// Boost shifts a priority by delta tiers (positive = more urgent) and
// clamps to the valid range.
func (p Priority) Boost(delta int) Priority {
	tiers := []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow, PriorityFlexible}
	idx := p.Tier() - delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(tiers) {
		idx = len(tiers) - 1
	}
	return tiers[idx]
}

type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
	TimeFlexible  TimeOfDay = "flexible"
)

type BlockStatus string

const (
	BlockScheduled BlockStatus = "scheduled"
	BlockCompleted BlockStatus = "completed"
	BlockSkipped   BlockStatus = "skipped"
	BlockExternal  BlockStatus = "external"
)

type Recurrence string

const (
	RecurNone     Recurrence = "none"
	RecurDaily    Recurrence = "daily"
	RecurWeekly   Recurrence = "weekly"
	RecurBiweekly Recurrence = "biweekly"
	RecurMonthly  Recurrence = "monthly"
	RecurCustom   Recurrence = "custom" // cron expression in RecurrenceExpr
)

// ValidSourceTypes is the canonical set of accepted source type strings.
var ValidSourceTypes = map[string]bool{
	"project": true, "assignment": true, "household": true, "personal": true,
}

// ValidPriorities is the canonical set of accepted priority strings.
var ValidPriorities = map[string]bool{
	"critical": true, "high": true, "medium": true, "low": true, "flexible": true,
}
