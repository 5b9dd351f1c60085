package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanhale/timeloom/internal/domain"
	"github.com/jordanhale/timeloom/internal/testutil"
)

func TestProjectRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	weekly := 10.0
	proj := testutil.NewTestProject("Platform Migration",
		testutil.WithProjectHours(40, 12.5),
		testutil.WithProjectCaps(&weekly, nil),
		testutil.WithProjectPriority(domain.PriorityHigh))
	require.NoError(t, repo.Create(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, proj.ID, fetched.ID)
	assert.Equal(t, "Platform Migration", fetched.Name)
	assert.Equal(t, 40.0, fetched.TotalHoursAllocated)
	assert.Equal(t, 12.5, fetched.HoursUsed)
	require.NotNil(t, fetched.WeeklyHourCap)
	assert.Equal(t, 10.0, *fetched.WeeklyHourCap)
	assert.Nil(t, fetched.DailyHourCap)
	assert.Equal(t, domain.PriorityHigh, fetched.Priority)
	assert.True(t, fetched.IsActive)
}

func TestProjectRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestProjectRepo_ListSchedulable(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	withBudget := testutil.NewTestProject("HasBudget", testutil.WithProjectHours(20, 5))
	exhausted := testutil.NewTestProject("Exhausted", testutil.WithProjectHours(20, 20))
	inactive := testutil.NewTestProject("Paused",
		testutil.WithProjectHours(20, 0), testutil.WithProjectInactive())
	require.NoError(t, repo.Create(ctx, withBudget))
	require.NoError(t, repo.Create(ctx, exhausted))
	require.NoError(t, repo.Create(ctx, inactive))

	list, err := repo.ListSchedulable(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, withBudget.ID, list[0].ID)
}

func TestProjectRepo_List_ActiveOnly(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("A")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("B", testutil.WithProjectInactive())))

	active, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestProjectRepo_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("OrigName")
	require.NoError(t, repo.Create(ctx, proj))

	proj.Name = "NewName"
	proj.HoursUsed = 3
	require.NoError(t, repo.Update(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "NewName", fetched.Name)
	assert.Equal(t, 3.0, fetched.HoursUsed)
}

func TestProjectRepo_Update_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)

	ghost := testutil.NewTestProject("Ghost")
	err := repo.Update(context.Background(), ghost)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestProjectRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Doomed")
	require.NoError(t, repo.Create(ctx, proj))
	require.NoError(t, repo.Delete(ctx, proj.ID))

	_, err := repo.GetByID(ctx, proj.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	assert.ErrorIs(t, repo.Delete(ctx, proj.ID), sql.ErrNoRows)
}
