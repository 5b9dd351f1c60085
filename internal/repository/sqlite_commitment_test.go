package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanhale/timeloom/internal/testutil"
)

func TestCommitmentRepo_UpsertIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCommitmentRepo(db)
	ctx := context.Background()

	start := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	c := testutil.NewTestCommitment("gcal-evt-1", "standup", start, start.Add(30*time.Minute))
	require.NoError(t, repo.Upsert(ctx, c))

	// Same external id, shifted time: refreshes in place.
	moved := testutil.NewTestCommitment("gcal-evt-1", "standup (moved)",
		start.Add(time.Hour), start.Add(90*time.Minute))
	require.NoError(t, repo.Upsert(ctx, moved))

	list, err := repo.ListInRange(ctx, start.Add(-time.Hour), start.Add(3*time.Hour))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "standup (moved)", list[0].Title)
	assert.True(t, list[0].StartTime.Equal(start.Add(time.Hour)))
}

func TestCommitmentRepo_ListInRange_OverlapSemantics(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCommitmentRepo(db)
	ctx := context.Background()

	day := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	// Straddles the range start.
	straddle := testutil.NewTestCommitment("e1", "overnight",
		day.Add(-time.Hour), day.Add(time.Hour))
	inside := testutil.NewTestCommitment("e2", "lunch meeting",
		day.Add(12*time.Hour), day.Add(13*time.Hour))
	after := testutil.NewTestCommitment("e3", "next week",
		day.AddDate(0, 0, 9), day.AddDate(0, 0, 9).Add(time.Hour))
	require.NoError(t, repo.Upsert(ctx, straddle))
	require.NoError(t, repo.Upsert(ctx, inside))
	require.NoError(t, repo.Upsert(ctx, after))

	list, err := repo.ListInRange(ctx, day, day.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "e1", list[0].ExternalID)
	assert.Equal(t, "e2", list[1].ExternalID)
}

func TestCommitmentRepo_DeleteByExternalID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCommitmentRepo(db)
	ctx := context.Background()

	start := time.Date(2026, 3, 3, 15, 0, 0, 0, time.UTC)
	c := testutil.NewTestCommitment("gcal-evt-9", "cancelled mtg", start, start.Add(time.Hour))
	require.NoError(t, repo.Upsert(ctx, c))

	require.NoError(t, repo.DeleteByExternalID(ctx, "gcal-evt-9"))
	assert.ErrorIs(t, repo.DeleteByExternalID(ctx, "gcal-evt-9"), sql.ErrNoRows)
}
