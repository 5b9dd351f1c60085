package service

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanhale/timeloom/internal/domain"
	"github.com/jordanhale/timeloom/internal/repository"
	"github.com/jordanhale/timeloom/internal/testutil"
)

var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func newScheduleService(t *testing.T, database *sql.DB) ScheduleService {
	t.Helper()
	return NewScheduleService(
		repository.NewSQLiteProjectRepo(database),
		repository.NewSQLiteAssignmentRepo(database),
		repository.NewSQLiteHouseholdTaskRepo(database),
		repository.NewSQLiteCommitmentRepo(database),
		repository.NewSQLiteBlockRepo(database),
		repository.NewSQLiteRuleRepo(database),
		repository.NewSQLiteConfigRepo(database),
		testutil.NewTestUoW(database),
		nil,
		zerolog.Nop(),
	)
}

func TestGenerate_PreviewIsPureAndRepeatable(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := newScheduleService(t, database)
	ctx := context.Background()

	proj := testutil.NewTestProject("Rewrite", testutil.WithProjectHours(10, 0))
	require.NoError(t, repository.NewSQLiteProjectRepo(database).Create(ctx, proj))

	opts := GenerateOptions{Start: monday, Days: 7, PreviewOnly: true}
	first, err := svc.Generate(ctx, opts)
	require.NoError(t, err)
	require.NotEmpty(t, first.Blocks)
	assert.False(t, first.Committed)

	for _, b := range first.Blocks {
		assert.Empty(t, b.ID, "preview blocks carry no identity")
	}

	// Nothing was persisted.
	stored, err := svc.ListBlocks(ctx, monday, 7)
	require.NoError(t, err)
	assert.Empty(t, stored)

	second, err := svc.Generate(ctx, opts)
	require.NoError(t, err)
	assert.True(t, reflect.DeepEqual(first.Blocks, second.Blocks),
		"same state must preview the same plan")
}

func TestGenerate_CommitPersistsBlocks(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := newScheduleService(t, database)
	ctx := context.Background()

	proj := testutil.NewTestProject("Rewrite", testutil.WithProjectHours(5, 0))
	require.NoError(t, repository.NewSQLiteProjectRepo(database).Create(ctx, proj))

	result, err := svc.Generate(ctx, GenerateOptions{Start: monday, Days: 7})
	require.NoError(t, err)
	assert.True(t, result.Committed)
	require.NotEmpty(t, result.Blocks)
	for _, b := range result.Blocks {
		assert.NotEmpty(t, b.ID)
	}

	stored, err := svc.ListBlocks(ctx, monday, 7)
	require.NoError(t, err)
	assert.Len(t, stored, len(result.Blocks))
}

func TestGenerate_RegenerationPreservesHistory(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := newScheduleService(t, database)
	blocks := repository.NewSQLiteBlockRepo(database)
	ctx := context.Background()

	proj := testutil.NewTestProject("Rewrite", testutil.WithProjectHours(5, 0))
	require.NoError(t, repository.NewSQLiteProjectRepo(database).Create(ctx, proj))

	first, err := svc.Generate(ctx, GenerateOptions{Start: monday, Days: 7})
	require.NoError(t, err)
	require.NotEmpty(t, first.Blocks)

	// Complete the first block, then regenerate.
	done, err := svc.CompleteBlock(ctx, first.Blocks[0].ID, nil, "")
	require.NoError(t, err)

	second, err := svc.Generate(ctx, GenerateOptions{Start: monday, Days: 7})
	require.NoError(t, err)

	stored, err := blocks.ListInRange(ctx, monday, monday.AddDate(0, 0, 7))
	require.NoError(t, err)

	var foundDone bool
	for _, b := range stored {
		if b.ID == done.ID {
			foundDone = true
			assert.Equal(t, domain.BlockCompleted, b.Status)
		}
	}
	assert.True(t, foundDone, "completed block must survive regeneration")

	// No new block may overlap the completed one.
	for _, b := range second.Blocks {
		assert.False(t, b.Overlaps(*done), "regenerated block overlaps completed history")
	}
}

func TestClear_RemovesOnlyScheduled(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := newScheduleService(t, database)
	ctx := context.Background()

	proj := testutil.NewTestProject("Rewrite", testutil.WithProjectHours(5, 0))
	require.NoError(t, repository.NewSQLiteProjectRepo(database).Create(ctx, proj))

	result, err := svc.Generate(ctx, GenerateOptions{Start: monday, Days: 7})
	require.NoError(t, err)
	require.Greater(t, len(result.Blocks), 1)

	_, err = svc.CompleteBlock(ctx, result.Blocks[0].ID, nil, "")
	require.NoError(t, err)

	cleared, err := svc.Clear(ctx, monday, 7)
	require.NoError(t, err)
	assert.Equal(t, len(result.Blocks)-1, cleared)

	stored, err := svc.ListBlocks(ctx, monday, 7)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, domain.BlockCompleted, stored[0].Status)
}

func TestClear_InvalidRange(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := newScheduleService(t, database)

	_, err := svc.Clear(context.Background(), monday, 0)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestCompleteBlock_FoldsHoursIntoProject(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := newScheduleService(t, database)
	projects := repository.NewSQLiteProjectRepo(database)
	ctx := context.Background()

	proj := testutil.NewTestProject("Rewrite", testutil.WithProjectHours(5, 0))
	require.NoError(t, projects.Create(ctx, proj))

	result, err := svc.Generate(ctx, GenerateOptions{Start: monday, Days: 7})
	require.NoError(t, err)
	require.NotEmpty(t, result.Blocks)

	actual := 60
	done, err := svc.CompleteBlock(ctx, result.Blocks[0].ID, &actual, "good session")
	require.NoError(t, err)
	assert.Equal(t, domain.BlockCompleted, done.Status)
	require.NotNil(t, done.ActualMin)
	assert.Equal(t, 60, *done.ActualMin)
	assert.Equal(t, "good session", done.Notes)

	fetched, err := projects.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, fetched.HoursUsed, 1e-9)
}

func TestCompleteBlock_SetsHouseholdLastCompleted(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := newScheduleService(t, database)
	tasks := repository.NewSQLiteHouseholdTaskRepo(database)
	blocks := repository.NewSQLiteBlockRepo(database)
	ctx := context.Background()

	chore := testutil.NewTestHouseholdTask("laundry")
	require.NoError(t, tasks.Create(ctx, chore))

	block := testutil.NewTestBlock(domain.SourceHousehold, chore.Name, monday.Add(19*time.Hour), 60)
	block.TaskID = chore.ID
	require.NoError(t, blocks.Create(ctx, block))

	_, err := svc.CompleteBlock(ctx, block.ID, nil, "")
	require.NoError(t, err)

	fetched, err := tasks.GetByID(ctx, chore.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.LastCompleted)
	assert.True(t, fetched.LastCompleted.Equal(monday))
}

func TestCompleteBlock_InvalidTransition(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := newScheduleService(t, database)
	blocks := repository.NewSQLiteBlockRepo(database)
	ctx := context.Background()

	block := testutil.NewTestBlock(domain.SourceHousehold, "dishes", monday.Add(19*time.Hour), 30)
	block.Status = domain.BlockCompleted
	require.NoError(t, blocks.Create(ctx, block))

	_, err := svc.CompleteBlock(ctx, block.ID, nil, "")
	var transErr *domain.ErrInvalidTransition
	assert.ErrorAs(t, err, &transErr)
}

func TestCompleteBlock_NotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := newScheduleService(t, database)

	_, err := svc.CompleteBlock(context.Background(), "missing", nil, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSkipBlock(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := newScheduleService(t, database)
	blocks := repository.NewSQLiteBlockRepo(database)
	ctx := context.Background()

	block := testutil.NewTestBlock(domain.SourceHousehold, "vacuum", monday.Add(19*time.Hour), 30)
	require.NoError(t, blocks.Create(ctx, block))

	skipped, err := svc.SkipBlock(ctx, block.ID, "no time today")
	require.NoError(t, err)
	assert.Equal(t, domain.BlockSkipped, skipped.Status)
	assert.Equal(t, "no time today", skipped.Notes)
	assert.Nil(t, skipped.ActualMin)
}

func TestCompleteBlock_RollsBackOnSourceUpdateFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	projects := repository.NewSQLiteProjectRepo(database)
	blocks := repository.NewSQLiteBlockRepo(database)
	ctx := context.Background()

	proj := testutil.NewTestProject("Rewrite")
	require.NoError(t, projects.Create(ctx, proj))
	block := testutil.NewTestBlock(domain.SourceProject, proj.Name, monday.Add(9*time.Hour), 60)
	block.TaskID = proj.ID
	require.NoError(t, blocks.Create(ctx, block))

	injected := errors.New("disk full")
	svc := NewScheduleService(
		projects,
		repository.NewSQLiteAssignmentRepo(database),
		repository.NewSQLiteHouseholdTaskRepo(database),
		repository.NewSQLiteCommitmentRepo(database),
		blocks,
		repository.NewSQLiteRuleRepo(database),
		repository.NewSQLiteConfigRepo(database),
		// Exec 1 is the block update, exec 2 the project update.
		&testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: injected},
		nil,
		zerolog.Nop(),
	)

	_, err := svc.CompleteBlock(ctx, block.ID, nil, "")
	require.ErrorIs(t, err, injected)

	// The block update must have been rolled back with the failure.
	fetched, err := blocks.GetByID(ctx, block.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BlockScheduled, fetched.Status)
}

func TestSummary_AggregatesByDayTypeAndStatus(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := newScheduleService(t, database)
	blocks := repository.NewSQLiteBlockRepo(database)
	ctx := context.Background()

	b1 := testutil.NewTestBlock(domain.SourceProject, "work", monday.Add(9*time.Hour), 90)
	b2 := testutil.NewTestBlock(domain.SourceHousehold, "laundry", monday.Add(19*time.Hour), 60)
	b3 := testutil.NewTestBlock(domain.SourceProject, "work", monday.AddDate(0, 0, 1).Add(9*time.Hour), 90)
	b3.Status = domain.BlockCompleted
	require.NoError(t, blocks.Create(ctx, b1))
	require.NoError(t, blocks.Create(ctx, b2))
	require.NoError(t, blocks.Create(ctx, b3))

	summary, err := svc.Summary(ctx, monday, 7)
	require.NoError(t, err)
	assert.Equal(t, 240, summary.ScheduledMin)
	assert.Equal(t, 180, summary.ByType[domain.SourceProject])
	assert.Equal(t, 60, summary.ByType[domain.SourceHousehold])
	assert.Equal(t, 2, summary.ByStatus[domain.BlockScheduled])
	assert.Equal(t, 1, summary.ByStatus[domain.BlockCompleted])

	require.Len(t, summary.Days, 7)
	assert.Equal(t, 150, summary.Days[0].ScheduledMin)
	assert.Equal(t, 90, summary.Days[1].ScheduledMin)
	assert.Equal(t, 0, summary.Days[2].ScheduledMin)
}

func TestSummary_CategorizedTotals(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := newScheduleService(t, database)
	blocks := repository.NewSQLiteBlockRepo(database)
	commitments := repository.NewSQLiteCommitmentRepo(database)
	ctx := context.Background()

	scheduled := testutil.NewTestBlock(domain.SourceProject, "work", monday.Add(9*time.Hour), 60)
	skipped := testutil.NewTestBlock(domain.SourceHousehold, "laundry", monday.Add(19*time.Hour), 60)
	skipped.Status = domain.BlockSkipped
	require.NoError(t, blocks.Create(ctx, scheduled))
	require.NoError(t, blocks.Create(ctx, skipped))

	meeting := testutil.NewTestCommitment("ev-1", "standup",
		monday.Add(10*time.Hour), monday.Add(10*time.Hour+30*time.Minute))
	require.NoError(t, commitments.Upsert(ctx, meeting))

	summary, err := svc.Summary(ctx, monday, 7)
	require.NoError(t, err)

	// Default work schedule: five 8-hour weekdays in the range.
	assert.Equal(t, 5*8*60, summary.AvailableMin)
	assert.Equal(t, 60, summary.ScheduledMin, "skipped time must not count as scheduled")
	assert.Equal(t, 30, summary.MeetingMin)
	assert.Equal(t, 5*8*60-60-30, summary.FreeMin)

	assert.Equal(t, 1, summary.ByStatus[domain.BlockSkipped])
	assert.Zero(t, summary.ByType[domain.SourceHousehold])
	assert.Equal(t, 60, summary.Days[0].ScheduledMin)
}

type recordingSync struct {
	start, end time.Time
	calls      int
	err        error
}

func (r *recordingSync) Pull(ctx context.Context, start, end time.Time) (*SyncResult, error) {
	r.calls++
	r.start, r.end = start, end
	if r.err != nil {
		return nil, r.err
	}
	return &SyncResult{}, nil
}

func TestGenerate_PullsCalendarBeforePlacement(t *testing.T) {
	database := testutil.NewTestDB(t)
	sync := &recordingSync{}
	svc := NewScheduleService(
		repository.NewSQLiteProjectRepo(database),
		repository.NewSQLiteAssignmentRepo(database),
		repository.NewSQLiteHouseholdTaskRepo(database),
		repository.NewSQLiteCommitmentRepo(database),
		repository.NewSQLiteBlockRepo(database),
		repository.NewSQLiteRuleRepo(database),
		repository.NewSQLiteConfigRepo(database),
		testutil.NewTestUoW(database),
		sync,
		zerolog.Nop(),
	)
	ctx := context.Background()

	proj := testutil.NewTestProject("Rewrite", testutil.WithProjectHours(2, 0))
	require.NoError(t, repository.NewSQLiteProjectRepo(database).Create(ctx, proj))

	_, err := svc.Generate(ctx, GenerateOptions{Start: monday, Days: 7})
	require.NoError(t, err)
	assert.Equal(t, 1, sync.calls)
	assert.True(t, sync.start.Equal(monday))
	assert.True(t, sync.end.Equal(monday.AddDate(0, 0, 7)))

	// A failing pull degrades to the stored commitments.
	sync.err = errors.New("calendar unreachable")
	result, err := svc.Generate(ctx, GenerateOptions{Start: monday, Days: 7})
	require.NoError(t, err)
	assert.True(t, result.Committed)
	assert.Equal(t, 2, sync.calls)
}
