package service

import (
	"context"
	"time"

	"github.com/jordanhale/timeloom/internal/domain"
	"github.com/jordanhale/timeloom/internal/rules"
	"github.com/jordanhale/timeloom/internal/scheduler"
)

// GenerateOptions controls a scheduling run.
type GenerateOptions struct {
	// Start defaults to today in the configured timezone.
	Start time.Time
	// Days defaults to the configured horizon.
	Days int
	// PreviewOnly computes the plan without persisting anything.
	PreviewOnly bool
}

// GenerateResult is the outcome of a scheduling run. In preview mode
// the blocks carry no IDs; identity is assigned only at commit.
type GenerateResult struct {
	Start     time.Time
	End       time.Time
	Blocks    []*domain.TimeBlock
	Unmet     []scheduler.Unmet
	TotalMin  int
	Committed bool
}

// DaySummary aggregates one day of the stored schedule. ScheduledMin
// counts scheduled and completed blocks; skipped blocks stay listed but
// contribute no time.
type DaySummary struct {
	Date         time.Time
	Blocks       []*domain.TimeBlock
	ScheduledMin int
	ByType       map[domain.SourceType]int
}

// ScheduleSummary aggregates the stored schedule over a range, with
// minute totals by category: available comes from the work schedule,
// meetings from external commitments, scheduled from scheduled and
// completed blocks. Skipped blocks are audit history and count nowhere.
type ScheduleSummary struct {
	Start time.Time
	End   time.Time
	Days  []DaySummary

	AvailableMin int
	ScheduledMin int
	MeetingMin   int
	FreeMin      int

	ByType   map[domain.SourceType]int
	ByStatus map[domain.BlockStatus]int
}

type ScheduleService interface {
	// Generate runs placement over the horizon. Without PreviewOnly it
	// atomically replaces the scheduled blocks in range, preserving
	// completed and skipped history.
	Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error)
	Summary(ctx context.Context, start time.Time, days int) (*ScheduleSummary, error)
	// Clear removes scheduled blocks in range and returns the count.
	Clear(ctx context.Context, start time.Time, days int) (int, error)
	ListBlocks(ctx context.Context, start time.Time, days int) ([]*domain.TimeBlock, error)
	// CompleteBlock marks a block done and folds the actual minutes
	// back into the source's accumulators.
	CompleteBlock(ctx context.Context, id string, actualMin *int, notes string) (*domain.TimeBlock, error)
	SkipBlock(ctx context.Context, id string, notes string) (*domain.TimeBlock, error)
}

type RuleService interface {
	Create(ctx context.Context, r *domain.Rule) error
	GetByID(ctx context.Context, id string) (*domain.Rule, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Rule, error)
	Update(ctx context.Context, r *domain.Rule) error
	Delete(ctx context.Context, id string) error
	Templates(ctx context.Context) []rules.Template
	// CreateFromTemplate instantiates and persists a catalog template.
	CreateFromTemplate(ctx context.Context, key string) (*domain.Rule, error)
}

// SyncResult reports what a calendar pull changed.
type SyncResult struct {
	Pulled   int
	Upserted int
}

type SyncService interface {
	// Pull fetches external events in range and upserts them as
	// commitments. Returns ErrSyncNotConfigured without a client.
	Pull(ctx context.Context, start, end time.Time) (*SyncResult, error)
}

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type HouseholdService interface {
	Create(ctx context.Context, t *domain.HouseholdTask) error
	GetByID(ctx context.Context, id string) (*domain.HouseholdTask, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.HouseholdTask, error)
	Update(ctx context.Context, t *domain.HouseholdTask) error
	Delete(ctx context.Context, id string) error
}

type CourseService interface {
	Create(ctx context.Context, c *domain.Course) error
	GetByID(ctx context.Context, id string) (*domain.Course, error)
	List(ctx context.Context) ([]*domain.Course, error)
	Update(ctx context.Context, c *domain.Course) error
	Delete(ctx context.Context, id string) error
	// SyncClassMeetings materializes the course's class dates as
	// external commitments so placement routes around them.
	SyncClassMeetings(ctx context.Context, courseID string) (int, error)
}

type AssignmentService interface {
	Create(ctx context.Context, a *domain.Assignment) error
	GetByID(ctx context.Context, id string) (*domain.Assignment, error)
	ListByCourse(ctx context.Context, courseID string) ([]*domain.Assignment, error)
	Update(ctx context.Context, a *domain.Assignment) error
	Complete(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type ConfigService interface {
	GetConfig(ctx context.Context) (domain.SchedulingConfig, error)
	UpdateConfig(ctx context.Context, c domain.SchedulingConfig) error
	GetWorkSchedule(ctx context.Context) (domain.WorkSchedule, error)
	UpdateWorkSchedule(ctx context.Context, ws domain.WorkSchedule) error
	ListProtectedIntervals(ctx context.Context) ([]domain.ProtectedInterval, error)
	CreateProtectedInterval(ctx context.Context, p *domain.ProtectedInterval) error
	DeleteProtectedInterval(ctx context.Context, id string) error
}
