package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jordanhale/timeloom/internal/domain"
	"github.com/jordanhale/timeloom/internal/repository"
)

type projectService struct {
	projects repository.ProjectRepo
}

func NewProjectService(projects repository.ProjectRepo) ProjectService {
	return &projectService{projects: projects}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) error {
	if p.Name == "" {
		return fmt.Errorf("project name is required")
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Priority == "" {
		p.Priority = domain.PriorityMedium
	}
	if p.PreferredTime == "" {
		p.PreferredTime = domain.TimeFlexible
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *projectService) List(ctx context.Context, activeOnly bool) ([]*domain.Project, error) {
	return s.projects.List(ctx, activeOnly)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) error {
	p.UpdatedAt = time.Now().UTC()
	return notFound(s.projects.Update(ctx, p))
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	return notFound(s.projects.Delete(ctx, id))
}

type householdService struct {
	tasks repository.HouseholdTaskRepo
}

func NewHouseholdService(tasks repository.HouseholdTaskRepo) HouseholdService {
	return &householdService{tasks: tasks}
}

func (s *householdService) Create(ctx context.Context, t *domain.HouseholdTask) error {
	if t.Name == "" {
		return fmt.Errorf("task name is required")
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.EstimatedDurationMin <= 0 {
		t.EstimatedDurationMin = 60
	}
	if t.Recurrence == "" {
		t.Recurrence = domain.RecurWeekly
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityFlexible
	}
	if t.PreferredTime == "" {
		t.PreferredTime = domain.TimeFlexible
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	return s.tasks.Create(ctx, t)
}

func (s *householdService) GetByID(ctx context.Context, id string) (*domain.HouseholdTask, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (s *householdService) List(ctx context.Context, activeOnly bool) ([]*domain.HouseholdTask, error) {
	return s.tasks.List(ctx, activeOnly)
}

func (s *householdService) Update(ctx context.Context, t *domain.HouseholdTask) error {
	t.UpdatedAt = time.Now().UTC()
	return notFound(s.tasks.Update(ctx, t))
}

func (s *householdService) Delete(ctx context.Context, id string) error {
	return notFound(s.tasks.Delete(ctx, id))
}

type courseService struct {
	courses     repository.CourseRepo
	commitments repository.CommitmentRepo
}

func NewCourseService(courses repository.CourseRepo, commitments repository.CommitmentRepo) CourseService {
	return &courseService{courses: courses, commitments: commitments}
}

func (s *courseService) Create(ctx context.Context, c *domain.Course) error {
	if c.Code == "" {
		return fmt.Errorf("course code is required")
	}
	if c.DayOfWeek < 0 || c.DayOfWeek > 6 {
		return fmt.Errorf("day of week %d out of range", c.DayOfWeek)
	}
	if c.Start >= c.End {
		return fmt.Errorf("course meeting window is empty")
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Name == "" {
		c.Name = c.Code
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	return s.courses.Create(ctx, c)
}

func (s *courseService) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	c, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (s *courseService) List(ctx context.Context) ([]*domain.Course, error) {
	return s.courses.List(ctx)
}

func (s *courseService) Update(ctx context.Context, c *domain.Course) error {
	c.UpdatedAt = time.Now().UTC()
	return notFound(s.courses.Update(ctx, c))
}

func (s *courseService) Delete(ctx context.Context, id string) error {
	return notFound(s.courses.Delete(ctx, id))
}

func (s *courseService) SyncClassMeetings(ctx context.Context, courseID string) (int, error) {
	c, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return 0, notFound(err)
	}

	now := time.Now().UTC()
	count := 0
	for _, date := range c.ClassDates() {
		commitment := &domain.ExternalCommitment{
			ID:         uuid.New().String(),
			ExternalID: fmt.Sprintf("course:%s:%s", c.ID, date.Format("2006-01-02")),
			Title:      c.Code + " class",
			StartTime:  c.Start.On(date),
			EndTime:    c.End.On(date),
			Category:   "class",
			CalendarID: "courses",
			LastSynced: now,
		}
		if err := s.commitments.Upsert(ctx, commitment); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

type assignmentService struct {
	assignments repository.AssignmentRepo
	courses     repository.CourseRepo
}

func NewAssignmentService(assignments repository.AssignmentRepo, courses repository.CourseRepo) AssignmentService {
	return &assignmentService{assignments: assignments, courses: courses}
}

func (s *assignmentService) Create(ctx context.Context, a *domain.Assignment) error {
	if a.Name == "" {
		return fmt.Errorf("assignment name is required")
	}
	if a.DueDate.IsZero() {
		return fmt.Errorf("assignment due date is required")
	}
	if _, err := s.courses.GetByID(ctx, a.CourseID); err != nil {
		return notFound(err)
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Priority == "" {
		a.Priority = domain.PriorityHigh
	}
	if a.PreferredTime == "" {
		a.PreferredTime = domain.TimeFlexible
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	return s.assignments.Create(ctx, a)
}

func (s *assignmentService) GetByID(ctx context.Context, id string) (*domain.Assignment, error) {
	a, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (s *assignmentService) ListByCourse(ctx context.Context, courseID string) ([]*domain.Assignment, error) {
	return s.assignments.ListByCourse(ctx, courseID)
}

func (s *assignmentService) Update(ctx context.Context, a *domain.Assignment) error {
	a.UpdatedAt = time.Now().UTC()
	return notFound(s.assignments.Update(ctx, a))
}

func (s *assignmentService) Complete(ctx context.Context, id string) error {
	a, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	now := time.Now().UTC()
	a.IsCompleted = true
	a.CompletedAt = &now
	a.UpdatedAt = now
	return s.assignments.Update(ctx, a)
}

func (s *assignmentService) Delete(ctx context.Context, id string) error {
	return notFound(s.assignments.Delete(ctx, id))
}
