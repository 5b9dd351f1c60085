package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jordanhale/timeloom/internal/domain"
	"github.com/jordanhale/timeloom/internal/googlecal"
	"github.com/jordanhale/timeloom/internal/repository"
)

// CalendarClient abstracts the external calendar. The googlecal package
// provides the real implementation; tests provide fakes.
type CalendarClient interface {
	Events(ctx context.Context, calendarID string, start, end time.Time) ([]googlecal.Event, error)
}

type syncService struct {
	client      CalendarClient
	calendarID  string
	commitments repository.CommitmentRepo
	log         zerolog.Logger
}

// NewSyncService builds the sync service. A nil client is allowed; Pull
// then reports ErrSyncNotConfigured and the rest of the system keeps
// working on stored commitments.
func NewSyncService(client CalendarClient, calendarID string, commitments repository.CommitmentRepo, log zerolog.Logger) SyncService {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &syncService{
		client:      client,
		calendarID:  calendarID,
		commitments: commitments,
		log:         log,
	}
}

func (s *syncService) Pull(ctx context.Context, start, end time.Time) (*SyncResult, error) {
	if s.client == nil {
		return nil, ErrSyncNotConfigured
	}

	events, err := s.client.Events(ctx, s.calendarID, start, end)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{Pulled: len(events)}
	now := time.Now().UTC()
	for _, ev := range events {
		if !ev.Start.Before(ev.End) {
			continue
		}
		c := &domain.ExternalCommitment{
			ID:         uuid.New().String(),
			ExternalID: ev.ID,
			Title:      ev.Title,
			StartTime:  ev.Start,
			EndTime:    ev.End,
			Category:   "meeting",
			CalendarID: s.calendarID,
			LastSynced: now,
		}
		if err := s.commitments.Upsert(ctx, c); err != nil {
			return nil, err
		}
		result.Upserted++
	}

	s.log.Info().
		Str("calendar", s.calendarID).
		Int("pulled", result.Pulled).
		Int("upserted", result.Upserted).
		Msg("calendar sync complete")
	return result, nil
}
