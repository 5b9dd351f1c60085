package repository

import (
	"context"
	"time"

	"github.com/jordanhale/timeloom/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Project, error)
	// ListSchedulable returns active projects with budget remaining.
	ListSchedulable(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type HouseholdTaskRepo interface {
	Create(ctx context.Context, t *domain.HouseholdTask) error
	GetByID(ctx context.Context, id string) (*domain.HouseholdTask, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.HouseholdTask, error)
	Update(ctx context.Context, t *domain.HouseholdTask) error
	Delete(ctx context.Context, id string) error
}

type CourseRepo interface {
	Create(ctx context.Context, c *domain.Course) error
	GetByID(ctx context.Context, id string) (*domain.Course, error)
	List(ctx context.Context) ([]*domain.Course, error)
	Update(ctx context.Context, c *domain.Course) error
	Delete(ctx context.Context, id string) error
}

type AssignmentRepo interface {
	Create(ctx context.Context, a *domain.Assignment) error
	GetByID(ctx context.Context, id string) (*domain.Assignment, error)
	ListByCourse(ctx context.Context, courseID string) ([]*domain.Assignment, error)
	// ListIncomplete returns assignments not yet completed with a due
	// date at or before the given cutoff.
	ListIncomplete(ctx context.Context, dueBefore time.Time) ([]*domain.Assignment, error)
	Update(ctx context.Context, a *domain.Assignment) error
	Delete(ctx context.Context, id string) error
}

type CommitmentRepo interface {
	// Upsert inserts or refreshes a commitment keyed by its external
	// event id. Sync is idempotent by design.
	Upsert(ctx context.Context, c *domain.ExternalCommitment) error
	ListInRange(ctx context.Context, start, end time.Time) ([]*domain.ExternalCommitment, error)
	DeleteByExternalID(ctx context.Context, externalID string) error
}

type BlockRepo interface {
	Create(ctx context.Context, b *domain.TimeBlock) error
	GetByID(ctx context.Context, id string) (*domain.TimeBlock, error)
	ListInRange(ctx context.Context, start, end time.Time) ([]*domain.TimeBlock, error)
	ListInRangeByStatus(ctx context.Context, start, end time.Time, status domain.BlockStatus) ([]*domain.TimeBlock, error)
	// ReplaceScheduledInRange deletes blocks with status 'scheduled'
	// whose start falls within [start, end] and inserts the supplied
	// set. Completed and skipped blocks are never touched; history
	// survives regeneration. Callers run it inside a transaction.
	ReplaceScheduledInRange(ctx context.Context, start, end time.Time, blocks []*domain.TimeBlock) error
	DeleteScheduledInRange(ctx context.Context, start, end time.Time) (int, error)
	Update(ctx context.Context, b *domain.TimeBlock) error
}

type RuleRepo interface {
	Create(ctx context.Context, r *domain.Rule) error
	GetByID(ctx context.Context, id string) (*domain.Rule, error)
	// List returns rules ordered by descending priority.
	List(ctx context.Context, activeOnly bool) ([]*domain.Rule, error)
	Update(ctx context.Context, r *domain.Rule) error
	Delete(ctx context.Context, id string) error
}

type ConfigRepo interface {
	GetConfig(ctx context.Context) (domain.SchedulingConfig, error)
	UpdateConfig(ctx context.Context, c domain.SchedulingConfig) error
	GetWorkSchedule(ctx context.Context) (domain.WorkSchedule, error)
	UpdateWorkSchedule(ctx context.Context, ws domain.WorkSchedule) error
	ListProtectedIntervals(ctx context.Context) ([]domain.ProtectedInterval, error)
	CreateProtectedInterval(ctx context.Context, p *domain.ProtectedInterval) error
	DeleteProtectedInterval(ctx context.Context, id string) error
}
