package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/jordanhale/timeloom/internal/domain"
)

// Project options
type ProjectOption func(*domain.Project)

func WithProjectHours(allocated, used float64) ProjectOption {
	return func(p *domain.Project) {
		p.TotalHoursAllocated = allocated
		p.HoursUsed = used
	}
}

func WithProjectPriority(pr domain.Priority) ProjectOption {
	return func(p *domain.Project) {
		p.Priority = pr
	}
}

func WithProjectCaps(weekly, daily *float64) ProjectOption {
	return func(p *domain.Project) {
		p.WeeklyHourCap = weekly
		p.DailyHourCap = daily
	}
}

func WithProjectInactive() ProjectOption {
	return func(p *domain.Project) {
		p.IsActive = false
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:                  uuid.New().String(),
		Name:                name,
		TotalHoursAllocated: 20,
		HoursUsed:           0,
		Priority:            domain.PriorityMedium,
		PreferredTime:       domain.TimeFlexible,
		IsActive:            true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// HouseholdTask options
type HouseholdOption func(*domain.HouseholdTask)

func WithRecurrence(r domain.Recurrence) HouseholdOption {
	return func(t *domain.HouseholdTask) {
		t.Recurrence = r
	}
}

func WithLastCompleted(d time.Time) HouseholdOption {
	return func(t *domain.HouseholdTask) {
		t.LastCompleted = &d
	}
}

func WithPreferredDays(days ...time.Weekday) HouseholdOption {
	return func(t *domain.HouseholdTask) {
		t.PreferredDays = days
	}
}

func NewTestHouseholdTask(name string, opts ...HouseholdOption) *domain.HouseholdTask {
	now := time.Now().UTC()
	t := &domain.HouseholdTask{
		ID:                   uuid.New().String(),
		Name:                 name,
		EstimatedDurationMin: 60,
		Recurrence:           domain.RecurWeekly,
		Priority:             domain.PriorityFlexible,
		PreferredTime:        domain.TimeFlexible,
		IsActive:             true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func NewTestCourse(code string, dayOfWeek int, start, end domain.Clock) *domain.Course {
	now := time.Now().UTC()
	return &domain.Course{
		ID:            uuid.New().String(),
		Code:          code,
		Name:          code,
		DayOfWeek:     dayOfWeek,
		Start:         start,
		End:           end,
		SemesterStart: now.AddDate(0, -1, 0),
		SemesterEnd:   now.AddDate(0, 3, 0),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func NewTestAssignment(courseID, name string, due time.Time) *domain.Assignment {
	now := time.Now().UTC()
	return &domain.Assignment{
		ID:            uuid.New().String(),
		CourseID:      courseID,
		Name:          name,
		DueDate:       due,
		Priority:      domain.PriorityHigh,
		PreferredTime: domain.TimeFlexible,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func NewTestBlock(taskType domain.SourceType, taskName string, start time.Time, durMin int) *domain.TimeBlock {
	now := time.Now().UTC()
	return &domain.TimeBlock{
		ID:        uuid.New().String(),
		TaskType:  taskType,
		TaskID:    uuid.New().String(),
		TaskName:  taskName,
		StartTime: start,
		EndTime:   start.Add(time.Duration(durMin) * time.Minute),
		Status:    domain.BlockScheduled,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewTestCommitment(externalID, title string, start, end time.Time) *domain.ExternalCommitment {
	return &domain.ExternalCommitment{
		ID:         uuid.New().String(),
		ExternalID: externalID,
		Title:      title,
		StartTime:  start,
		EndTime:    end,
		Category:   "meeting",
		CalendarID: "primary",
		LastSynced: time.Now().UTC(),
	}
}

func NewTestRule(name string, priority int, conds []domain.Condition, actions []domain.Action) *domain.Rule {
	now := time.Now().UTC()
	return &domain.Rule{
		ID:         uuid.New().String(),
		Name:       name,
		Conditions: conds,
		Actions:    actions,
		Priority:   priority,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
