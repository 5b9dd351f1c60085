package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanhale/timeloom/internal/repository"
	"github.com/jordanhale/timeloom/internal/service"
	"github.com/jordanhale/timeloom/internal/testutil"
)

func newTestServer(t *testing.T) (*Server, *sql.DB) {
	t.Helper()
	database := testutil.NewTestDB(t)
	schedule := service.NewScheduleService(
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
	ruleSvc := service.NewRuleService(repository.NewSQLiteRuleRepo(database))
	syncSvc := service.NewSyncService(nil, "primary", repository.NewSQLiteCommitmentRepo(database), zerolog.Nop())
	return NewServer("127.0.0.1:0", schedule, ruleSvc, syncSvc, zerolog.Nop()), database
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGenerateAndSummary(t *testing.T) {
	srv, database := newTestServer(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("Rewrite", testutil.WithProjectHours(5, 0))
	require.NoError(t, repository.NewSQLiteProjectRepo(database).Create(ctx, proj))

	rec := doJSON(t, srv.Handler(), http.MethodPost,
		"/schedule/generate?start_date=2026-03-02&end_date=2026-03-09", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var gen generateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gen))
	assert.True(t, gen.Committed)
	require.NotEmpty(t, gen.Blocks)
	for _, b := range gen.Blocks {
		assert.NotEmpty(t, b.ID)
		assert.Equal(t, "project", b.TaskType)
	}

	rec = doJSON(t, srv.Handler(), http.MethodGet,
		"/schedule/summary?start_date=2026-03-02&end_date=2026-03-09", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var sum summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Equal(t, gen.TotalMin, sum.ScheduledMin)
	assert.Equal(t, "2026-03-02", sum.Start)
	// Five default 8-hour workdays in the week.
	assert.Equal(t, 2400, sum.AvailableMin)
	assert.Equal(t, sum.AvailableMin-sum.ScheduledMin, sum.FreeMin)
}

func TestGeneratePreviewAssignsNoIDs(t *testing.T) {
	srv, database := newTestServer(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("Rewrite", testutil.WithProjectHours(5, 0))
	require.NoError(t, repository.NewSQLiteProjectRepo(database).Create(ctx, proj))

	rec := doJSON(t, srv.Handler(), http.MethodPost,
		"/schedule/generate?start_date=2026-03-02&end_date=2026-03-09&preview_only=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var gen generateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gen))
	assert.False(t, gen.Committed)
	require.NotEmpty(t, gen.Blocks)
	for _, b := range gen.Blocks {
		assert.Empty(t, b.ID)
	}

	rec = doJSON(t, srv.Handler(), http.MethodGet,
		"/calendar/blocks?start_date=2026-03-02&end_date=2026-03-09", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var blocks []blockDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &blocks))
	assert.Empty(t, blocks)
}

func TestGenerate_BadRangeParams(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodPost,
		"/schedule/generate?start_date=03-02-2026", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv.Handler(), http.MethodPost,
		"/schedule/generate?start_date=2026-03-02&end_date=2026-03-02", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompleteBlock_FlowAndConflict(t *testing.T) {
	srv, database := newTestServer(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("Rewrite", testutil.WithProjectHours(5, 0))
	require.NoError(t, repository.NewSQLiteProjectRepo(database).Create(ctx, proj))

	rec := doJSON(t, srv.Handler(), http.MethodPost,
		"/schedule/generate?start_date=2026-03-02&end_date=2026-03-09", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var gen generateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gen))
	require.NotEmpty(t, gen.Blocks)
	id := gen.Blocks[0].ID

	// actual_minutes on the query string wins over any body value.
	rec = doJSON(t, srv.Handler(), http.MethodPost,
		"/calendar/blocks/"+id+"/complete?actual_minutes=45",
		completeRequest{Notes: "done early"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var done blockDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &done))
	assert.Equal(t, "completed", done.Status)
	require.NotNil(t, done.ActualMin)
	assert.Equal(t, 45, *done.ActualMin)

	// Completing twice violates the state machine.
	rec = doJSON(t, srv.Handler(), http.MethodPost, "/calendar/blocks/"+id+"/complete", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCompleteBlock_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/calendar/blocks/nope/complete", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSkipBlock(t *testing.T) {
	srv, database := newTestServer(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("Rewrite", testutil.WithProjectHours(5, 0))
	require.NoError(t, repository.NewSQLiteProjectRepo(database).Create(ctx, proj))

	rec := doJSON(t, srv.Handler(), http.MethodPost,
		"/schedule/generate?start_date=2026-03-02&end_date=2026-03-09", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var gen generateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gen))
	require.NotEmpty(t, gen.Blocks)

	rec = doJSON(t, srv.Handler(), http.MethodPost,
		"/calendar/blocks/"+gen.Blocks[0].ID+"/skip", skipRequest{Notes: "travel"})
	require.Equal(t, http.StatusOK, rec.Code)
	var skipped blockDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &skipped))
	assert.Equal(t, "skipped", skipped.Status)
	assert.Equal(t, "travel", skipped.Notes)
}

func TestClearSchedule(t *testing.T) {
	srv, database := newTestServer(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("Rewrite", testutil.WithProjectHours(5, 0))
	require.NoError(t, repository.NewSQLiteProjectRepo(database).Create(ctx, proj))

	rec := doJSON(t, srv.Handler(), http.MethodPost,
		"/schedule/generate?start_date=2026-03-02&end_date=2026-03-09", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var gen generateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gen))

	rec = doJSON(t, srv.Handler(), http.MethodDelete,
		"/schedule/clear?start_date=2026-03-02&end_date=2026-03-09", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, len(gen.Blocks), out["cleared"])

	rec = doJSON(t, srv.Handler(), http.MethodDelete,
		"/schedule/clear?start_date=2026-03-09&end_date=2026-03-02", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRuleLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	create := ruleDTO{
		Name:     "No work after hours",
		Priority: 10,
		IsActive: true,
		Conditions: []conditionDTO{
			{Kind: "task_type", TaskType: "project"},
		},
		Actions: []actionDTO{
			{Kind: "restrict_to_time_range", Start: "08:00", End: "18:00"},
		},
	}
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/rules", create)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created ruleDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "08:00", created.Actions[0].Start)

	rec = doJSON(t, srv.Handler(), http.MethodGet, "/rules", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []ruleDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	rec = doJSON(t, srv.Handler(), http.MethodDelete, "/rules/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv.Handler(), http.MethodDelete, "/rules/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateRule_ValidationFails(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/rules", ruleDTO{
		Name:    "Bad window",
		Actions: []actionDTO{{Kind: "block_time_range", Start: "18:00", End: "08:00"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRuleTemplates(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/rules/templates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var templates []templateDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &templates))
	require.NotEmpty(t, templates)

	rec = doJSON(t, srv.Handler(), http.MethodPost,
		"/rules/from-template?template_name="+templates[0].Key, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created ruleDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)

	rec = doJSON(t, srv.Handler(), http.MethodPost,
		"/rules/from-template?template_name=no_such_template", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv.Handler(), http.MethodPost, "/rules/from-template", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSyncPull_NotConfigured(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/sync/pull", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServerShutdown(t *testing.T) {
	srv, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
