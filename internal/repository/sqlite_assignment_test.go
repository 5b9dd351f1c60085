package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanhale/timeloom/internal/domain"
	"github.com/jordanhale/timeloom/internal/testutil"
)

func TestAssignmentRepo_ListIncomplete(t *testing.T) {
	db := testutil.NewTestDB(t)
	courses := NewSQLiteCourseRepo(db)
	repo := NewSQLiteAssignmentRepo(db)
	ctx := context.Background()

	course := testutil.NewTestCourse("CS101", 0, domain.MustClock("09:00"), domain.MustClock("10:30"))
	require.NoError(t, courses.Create(ctx, course))

	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	dueSoon := testutil.NewTestAssignment(course.ID, "essay", now.AddDate(0, 0, 3))
	dueLater := testutil.NewTestAssignment(course.ID, "final project", now.AddDate(0, 2, 0))
	done := testutil.NewTestAssignment(course.ID, "quiz prep", now.AddDate(0, 0, 2))
	done.IsCompleted = true
	require.NoError(t, repo.Create(ctx, dueSoon))
	require.NoError(t, repo.Create(ctx, dueLater))
	require.NoError(t, repo.Create(ctx, done))

	list, err := repo.ListIncomplete(ctx, now.AddDate(0, 0, 14))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, dueSoon.ID, list[0].ID)
}

func TestAssignmentRepo_CourseCascadeDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	courses := NewSQLiteCourseRepo(db)
	repo := NewSQLiteAssignmentRepo(db)
	ctx := context.Background()

	course := testutil.NewTestCourse("MATH200", 2, domain.MustClock("13:00"), domain.MustClock("14:30"))
	require.NoError(t, courses.Create(ctx, course))

	a := testutil.NewTestAssignment(course.ID, "problem set", time.Now().UTC().AddDate(0, 0, 5))
	require.NoError(t, repo.Create(ctx, a))

	require.NoError(t, courses.Delete(ctx, course.ID))

	list, err := repo.ListByCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAssignmentRepo_EstimatedHoursNullable(t *testing.T) {
	db := testutil.NewTestDB(t)
	courses := NewSQLiteCourseRepo(db)
	repo := NewSQLiteAssignmentRepo(db)
	ctx := context.Background()

	course := testutil.NewTestCourse("BIO150", 4, domain.MustClock("10:00"), domain.MustClock("11:00"))
	require.NoError(t, courses.Create(ctx, course))

	a := testutil.NewTestAssignment(course.ID, "lab report", time.Now().UTC().AddDate(0, 0, 7))
	require.NoError(t, repo.Create(ctx, a))

	fetched, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.EstimatedHours)
	assert.Nil(t, fetched.HoursRemaining())

	est := 6.0
	fetched.EstimatedHours = &est
	fetched.HoursLogged = 2.5
	require.NoError(t, repo.Update(ctx, fetched))

	again, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, again.HoursRemaining())
	assert.InDelta(t, 3.5, *again.HoursRemaining(), 1e-9)
}
