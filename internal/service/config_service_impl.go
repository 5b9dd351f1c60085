package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jordanhale/timeloom/internal/domain"
	"github.com/jordanhale/timeloom/internal/repository"
)

type configService struct {
	config repository.ConfigRepo
}

func NewConfigService(config repository.ConfigRepo) ConfigService {
	return &configService{config: config}
}

func (s *configService) GetConfig(ctx context.Context) (domain.SchedulingConfig, error) {
	return s.config.GetConfig(ctx)
}

func (s *configService) UpdateConfig(ctx context.Context, c domain.SchedulingConfig) error {
	if c.DayStart >= c.DayEnd {
		return fmt.Errorf("day window is empty: %s-%s", c.DayStart, c.DayEnd)
	}
	if c.MinBlockMin <= 0 || c.PreferredBlockMin < c.MinBlockMin {
		return fmt.Errorf("block sizes out of order: preferred %d, min %d",
			c.PreferredBlockMin, c.MinBlockMin)
	}
	if c.MinBreakMin < 0 {
		return fmt.Errorf("negative break length %d", c.MinBreakMin)
	}
	if c.HorizonDays <= 0 {
		return fmt.Errorf("horizon must be positive, got %d", c.HorizonDays)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("unknown timezone %q", c.Timezone)
	}
	return s.config.UpdateConfig(ctx, c)
}

func (s *configService) GetWorkSchedule(ctx context.Context) (domain.WorkSchedule, error) {
	return s.config.GetWorkSchedule(ctx)
}

func (s *configService) UpdateWorkSchedule(ctx context.Context, ws domain.WorkSchedule) error {
	for day, ds := range ws {
		if ds.IsWorkingDay && ds.Start >= ds.End {
			return fmt.Errorf("working day %d has empty window %s-%s", day, ds.Start, ds.End)
		}
	}
	return s.config.UpdateWorkSchedule(ctx, ws)
}

func (s *configService) ListProtectedIntervals(ctx context.Context) ([]domain.ProtectedInterval, error) {
	return s.config.ListProtectedIntervals(ctx)
}

func (s *configService) CreateProtectedInterval(ctx context.Context, p *domain.ProtectedInterval) error {
	if p.Label == "" {
		return fmt.Errorf("protected interval label is required")
	}
	if p.Window.Start >= p.Window.End {
		return fmt.Errorf("protected interval window is empty")
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return s.config.CreateProtectedInterval(ctx, p)
}

func (s *configService) DeleteProtectedInterval(ctx context.Context, id string) error {
	return notFound(s.config.DeleteProtectedInterval(ctx, id))
}
