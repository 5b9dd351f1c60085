package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jordanhale/timeloom/internal/availability"
	"github.com/jordanhale/timeloom/internal/db"
	"github.com/jordanhale/timeloom/internal/domain"
	"github.com/jordanhale/timeloom/internal/repository"
	"github.com/jordanhale/timeloom/internal/scheduler"
	"github.com/jordanhale/timeloom/internal/taskpool"
)

type scheduleService struct {
	projects    repository.ProjectRepo
	assignments repository.AssignmentRepo
	household   repository.HouseholdTaskRepo
	commitments repository.CommitmentRepo
	blocks      repository.BlockRepo
	rules       repository.RuleRepo
	config      repository.ConfigRepo
	uow         db.UnitOfWork
	sync        SyncService
	log         zerolog.Logger

	// Serializes commits; concurrent generates would otherwise race on
	// the replace-in-range window.
	commitMu sync.Mutex
}

func NewScheduleService(
	projects repository.ProjectRepo,
	assignments repository.AssignmentRepo,
	household repository.HouseholdTaskRepo,
	commitments repository.CommitmentRepo,
	blocks repository.BlockRepo,
	ruleRepo repository.RuleRepo,
	config repository.ConfigRepo,
	uow db.UnitOfWork,
	sync SyncService,
	log zerolog.Logger,
) ScheduleService {
	return &scheduleService{
		projects:    projects,
		assignments: assignments,
		household:   household,
		commitments: commitments,
		blocks:      blocks,
		rules:       ruleRepo,
		config:      config,
		uow:         uow,
		sync:        sync,
		log:         log,
	}
}

func (s *scheduleService) Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	cfg, err := s.config.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	loc := cfg.Location()

	start := opts.Start
	if start.IsZero() {
		start = time.Now().In(loc)
	}
	start = domain.DateOf(start.In(loc))

	days := opts.Days
	if days <= 0 {
		days = cfg.HorizonDays
	}
	end := start.AddDate(0, 0, days)

	// Refresh external commitments before reading availability. Sync is
	// best effort: a failed or unconfigured pull leaves the stored
	// commitments in place and the run proceeds.
	if s.sync != nil {
		if _, err := s.sync.Pull(ctx, start, end); err != nil && !errors.Is(err, ErrSyncNotConfigured) {
			s.log.Warn().Err(err).Msg("calendar pull failed, scheduling against stored commitments")
		}
	}

	in, err := s.buildInput(ctx, cfg, start, days)
	if err != nil {
		return nil, err
	}

	plan := scheduler.Run(*in)
	s.log.Debug().
		Time("start", start).
		Int("days", days).
		Int("units", len(in.Units)).
		Int("blocks", len(plan.Blocks)).
		Int("unmet", len(plan.Unmet)).
		Bool("preview", opts.PreviewOnly).
		Msg("schedule generated")

	result := &GenerateResult{
		Start:    start,
		End:      end,
		Unmet:    plan.Unmet,
		TotalMin: plan.TotalMin,
	}
	for _, b := range plan.Blocks {
		result.Blocks = append(result.Blocks, &domain.TimeBlock{
			TaskType:  b.TaskType,
			TaskID:    b.TaskID,
			TaskName:  b.TaskName,
			StartTime: b.Start,
			EndTime:   b.End,
			Status:    domain.BlockScheduled,
		})
	}
	if opts.PreviewOnly {
		return result, nil
	}

	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	now := time.Now().UTC()
	for _, b := range result.Blocks {
		b.ID = uuid.New().String()
		b.CreatedAt = now
		b.UpdatedAt = now
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteBlockRepo(tx).ReplaceScheduledInRange(ctx, start, end, result.Blocks)
	})
	if err != nil {
		return nil, fmt.Errorf("committing schedule: %w", err)
	}
	result.Committed = true
	return result, nil
}

// buildInput assembles the full scheduler input from stored state.
func (s *scheduleService) buildInput(ctx context.Context, cfg domain.SchedulingConfig, start time.Time, days int) (*scheduler.Input, error) {
	end := start.AddDate(0, 0, days)

	schedule, err := s.config.GetWorkSchedule(ctx)
	if err != nil {
		return nil, err
	}
	protected, err := s.config.ListProtectedIntervals(ctx)
	if err != nil {
		return nil, err
	}
	activeRules, err := s.rules.List(ctx, true)
	if err != nil {
		return nil, err
	}

	projects, err := s.projects.ListSchedulable(ctx)
	if err != nil {
		return nil, err
	}
	assignments, err := s.assignments.ListIncomplete(ctx, end)
	if err != nil {
		return nil, err
	}
	household, err := s.household.List(ctx, true)
	if err != nil {
		return nil, err
	}
	units := taskpool.ActiveUnits(taskpool.Sources{
		Projects:    projects,
		Assignments: assignments,
		Household:   household,
	}, start)

	commitments, err := s.commitments.ListInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	existing, err := s.blocks.ListInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	busy := availability.BusyFromCommitments(commitments)
	var prior []scheduler.Placement
	for _, b := range existing {
		// Scheduled blocks are regeneration-owned and do not constrain
		// the new plan; everything else is history or external and must
		// be routed around.
		if b.Status == domain.BlockScheduled {
			continue
		}
		busy = append(busy, availability.Span{Start: b.StartTime, End: b.EndTime})
		if b.Status == domain.BlockCompleted {
			minutes := b.DurationMin()
			if b.ActualMin != nil {
				minutes = *b.ActualMin
			}
			prior = append(prior, scheduler.Placement{
				UnitID:  b.TaskID,
				Day:     b.StartTime,
				Minutes: minutes,
			})
		}
	}

	return &scheduler.Input{
		Units:     units,
		Rules:     activeRules,
		Schedule:  schedule,
		Config:    cfg,
		Protected: protected,
		Busy:      busy,
		Prior:     prior,
		Start:     start,
		Days:      days,
	}, nil
}

func (s *scheduleService) Summary(ctx context.Context, start time.Time, days int) (*ScheduleSummary, error) {
	if days <= 0 {
		cfg, err := s.config.GetConfig(ctx)
		if err != nil {
			return nil, err
		}
		days = cfg.HorizonDays
	}
	start = domain.DateOf(start)
	end := start.AddDate(0, 0, days)

	schedule, err := s.config.GetWorkSchedule(ctx)
	if err != nil {
		return nil, err
	}
	blocks, err := s.blocks.ListInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	commitments, err := s.commitments.ListInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	summary := &ScheduleSummary{
		Start:    start,
		End:      end,
		ByType:   map[domain.SourceType]int{},
		ByStatus: map[domain.BlockStatus]int{},
	}
	for _, c := range commitments {
		summary.MeetingMin += c.DurationMin()
	}

	byDay := map[time.Time][]*domain.TimeBlock{}
	for _, b := range blocks {
		day := domain.DateOf(b.StartTime)
		byDay[day] = append(byDay[day], b)
		summary.ByStatus[b.Status]++
		if !countsAsScheduled(b.Status) {
			continue
		}
		summary.ScheduledMin += b.DurationMin()
		summary.ByType[b.TaskType] += b.DurationMin()
	}
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		if ws := schedule.ForDate(day); ws.IsWorkingDay {
			summary.AvailableMin += int(ws.End - ws.Start)
		}
		ds := DaySummary{
			Date:   day,
			Blocks: byDay[day],
			ByType: map[domain.SourceType]int{},
		}
		for _, b := range ds.Blocks {
			if !countsAsScheduled(b.Status) {
				continue
			}
			ds.ScheduledMin += b.DurationMin()
			ds.ByType[b.TaskType] += b.DurationMin()
		}
		summary.Days = append(summary.Days, ds)
	}

	if free := summary.AvailableMin - summary.ScheduledMin - summary.MeetingMin; free > 0 {
		summary.FreeMin = free
	}
	return summary, nil
}

// countsAsScheduled reports whether a block's duration belongs in the
// scheduled total. Skipped blocks are retained history only; external
// blocks are projections of commitments, already counted as meetings.
func countsAsScheduled(st domain.BlockStatus) bool {
	return st == domain.BlockScheduled || st == domain.BlockCompleted
}

func (s *scheduleService) Clear(ctx context.Context, start time.Time, days int) (int, error) {
	if days <= 0 {
		return 0, fmt.Errorf("%w: %d days", ErrInvalidRange, days)
	}
	start = domain.DateOf(start)
	end := start.AddDate(0, 0, days)

	var count int
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		n, err := repository.NewSQLiteBlockRepo(tx).DeleteScheduledInRange(ctx, start, end)
		count = n
		return err
	})
	if err != nil {
		return 0, err
	}
	s.log.Info().Int("cleared", count).Time("start", start).Time("end", end).Msg("schedule cleared")
	return count, nil
}

func (s *scheduleService) ListBlocks(ctx context.Context, start time.Time, days int) ([]*domain.TimeBlock, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: %d days", ErrInvalidRange, days)
	}
	start = domain.DateOf(start)
	return s.blocks.ListInRange(ctx, start, start.AddDate(0, 0, days))
}

func (s *scheduleService) CompleteBlock(ctx context.Context, id string, actualMin *int, notes string) (*domain.TimeBlock, error) {
	var updated *domain.TimeBlock
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txBlocks := repository.NewSQLiteBlockRepo(tx)
		block, err := txBlocks.GetByID(ctx, id)
		if err != nil {
			return notFound(err)
		}
		if !block.CanTransitionTo(domain.BlockCompleted) {
			return &domain.ErrInvalidTransition{From: block.Status, To: domain.BlockCompleted}
		}

		minutes := block.DurationMin()
		if actualMin != nil {
			minutes = *actualMin
		}
		block.Status = domain.BlockCompleted
		block.ActualMin = &minutes
		if notes != "" {
			block.Notes = notes
		}
		block.UpdatedAt = time.Now().UTC()
		if err := txBlocks.Update(ctx, block); err != nil {
			return err
		}
		if err := s.foldIntoSource(ctx, tx, block, minutes); err != nil {
			return err
		}
		updated = block
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *scheduleService) SkipBlock(ctx context.Context, id string, notes string) (*domain.TimeBlock, error) {
	var updated *domain.TimeBlock
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txBlocks := repository.NewSQLiteBlockRepo(tx)
		block, err := txBlocks.GetByID(ctx, id)
		if err != nil {
			return notFound(err)
		}
		if !block.CanTransitionTo(domain.BlockSkipped) {
			return &domain.ErrInvalidTransition{From: block.Status, To: domain.BlockSkipped}
		}
		block.Status = domain.BlockSkipped
		if notes != "" {
			block.Notes = notes
		}
		block.UpdatedAt = time.Now().UTC()
		if err := txBlocks.Update(ctx, block); err != nil {
			return err
		}
		updated = block
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// foldIntoSource pushes completed minutes back onto the originating
// entity's accumulators. A deleted source is not an error; the block's
// own record is the history.
func (s *scheduleService) foldIntoSource(ctx context.Context, tx db.DBTX, block *domain.TimeBlock, minutes int) error {
	now := time.Now().UTC()
	switch block.TaskType {
	case domain.SourceProject:
		repo := repository.NewSQLiteProjectRepo(tx)
		p, err := repo.GetByID(ctx, block.TaskID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		p.HoursUsed += float64(minutes) / 60
		p.UpdatedAt = now
		return repo.Update(ctx, p)

	case domain.SourceAssignment:
		repo := repository.NewSQLiteAssignmentRepo(tx)
		a, err := repo.GetByID(ctx, block.TaskID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		a.HoursLogged += float64(minutes) / 60
		a.UpdatedAt = now
		return repo.Update(ctx, a)

	case domain.SourceHousehold:
		repo := repository.NewSQLiteHouseholdTaskRepo(tx)
		t, err := repo.GetByID(ctx, block.TaskID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		done := domain.DateOf(block.StartTime)
		t.LastCompleted = &done
		t.UpdatedAt = now
		return repo.Update(ctx, t)
	}
	return nil
}

// notFound maps sql.ErrNoRows onto the service sentinel.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
