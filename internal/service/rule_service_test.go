package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanhale/timeloom/internal/domain"
	"github.com/jordanhale/timeloom/internal/repository"
	"github.com/jordanhale/timeloom/internal/testutil"
)

func TestRuleService_CreateFromTemplate(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewRuleService(repository.NewSQLiteRuleRepo(database))
	ctx := context.Background()

	created, err := svc.CreateFromTemplate(ctx, "morning_chores")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	fetched, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Morning chores", fetched.Name)
	assert.True(t, fetched.IsActive)
	require.Len(t, fetched.Actions, 1)
	assert.Equal(t, domain.ActionRestrictWindow, fetched.Actions[0].Kind)
}

func TestRuleService_CreateFromTemplate_Unknown(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewRuleService(repository.NewSQLiteRuleRepo(database))

	_, err := svc.CreateFromTemplate(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestRuleService_Create_RejectsUnknownKinds(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewRuleService(repository.NewSQLiteRuleRepo(database))
	ctx := context.Background()

	bad := testutil.NewTestRule("bad", 1,
		[]domain.Condition{{Kind: "made_up"}}, nil)
	assert.Error(t, svc.Create(ctx, bad))

	empty := testutil.NewTestRule("", 1, nil, nil)
	empty.Name = ""
	assert.Error(t, svc.Create(ctx, empty))
}

func TestRuleService_Create_RejectsEmptyWindow(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewRuleService(repository.NewSQLiteRuleRepo(database))

	bad := testutil.NewTestRule("empty window", 1, nil,
		[]domain.Action{{Kind: domain.ActionRestrictWindow, Window: domain.Window{
			Start: domain.MustClock("10:00"), End: domain.MustClock("10:00")}}})
	assert.Error(t, svc.Create(context.Background(), bad))
}

func TestRuleService_GetByID_NotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewRuleService(repository.NewSQLiteRuleRepo(database))

	_, err := svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRuleService_TemplatesCatalog(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewRuleService(repository.NewSQLiteRuleRepo(database))

	catalog := svc.Templates(context.Background())
	assert.Len(t, catalog, 5)
}
