package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jordanhale/timeloom/internal/domain"
	"github.com/jordanhale/timeloom/internal/repository"
	"github.com/jordanhale/timeloom/internal/rules"
)

type ruleService struct {
	rules repository.RuleRepo
}

func NewRuleService(ruleRepo repository.RuleRepo) RuleService {
	return &ruleService{rules: ruleRepo}
}

func (s *ruleService) Create(ctx context.Context, r *domain.Rule) error {
	if err := validateRule(r); err != nil {
		return err
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	return s.rules.Create(ctx, r)
}

func (s *ruleService) GetByID(ctx context.Context, id string) (*domain.Rule, error) {
	r, err := s.rules.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return r, nil
}

func (s *ruleService) List(ctx context.Context, activeOnly bool) ([]*domain.Rule, error) {
	return s.rules.List(ctx, activeOnly)
}

func (s *ruleService) Update(ctx context.Context, r *domain.Rule) error {
	if err := validateRule(r); err != nil {
		return err
	}
	r.UpdatedAt = time.Now().UTC()
	return notFound(s.rules.Update(ctx, r))
}

func (s *ruleService) Delete(ctx context.Context, id string) error {
	return notFound(s.rules.Delete(ctx, id))
}

func (s *ruleService) Templates(ctx context.Context) []rules.Template {
	return rules.Templates()
}

func (s *ruleService) CreateFromTemplate(ctx context.Context, key string) (*domain.Rule, error) {
	r, err := rules.FromTemplate(key)
	if err != nil {
		return nil, err
	}
	if err := s.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func validateRule(r *domain.Rule) error {
	if r.Name == "" {
		return fmt.Errorf("rule name is required")
	}
	for _, c := range r.Conditions {
		switch c.Kind {
		case domain.CondTaskType, domain.CondNameContains, domain.CondPriority, domain.CondDayOfWeek:
		default:
			return fmt.Errorf("unknown condition kind %q", c.Kind)
		}
	}
	for _, a := range r.Actions {
		switch a.Kind {
		case domain.ActionRestrictWindow, domain.ActionBlockWindow:
			if a.Window.Start >= a.Window.End {
				return fmt.Errorf("action %q requires a non-empty window", a.Kind)
			}
		case domain.ActionBoostPriority, domain.ActionExcludeDate,
			domain.ActionLimitDailyMin, domain.ActionLimitWeeklyMin:
		default:
			return fmt.Errorf("unknown action kind %q", a.Kind)
		}
	}
	return nil
}
