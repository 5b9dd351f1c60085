package taskpool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanhale/timeloom/internal/domain"
	"github.com/jordanhale/timeloom/internal/testutil"
)

var now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) // Monday morning

func TestActiveUnits_ProjectBudgetAndCaps(t *testing.T) {
	weekly := 10.0
	daily := 2.0
	p := testutil.NewTestProject("Platform Migration",
		testutil.WithProjectHours(40, 12),
		testutil.WithProjectCaps(&weekly, &daily))

	units := ActiveUnits(Sources{Projects: []*domain.Project{p}}, now)
	require.Len(t, units, 1)

	u := units[0]
	assert.Equal(t, domain.SourceProject, u.SourceType)
	assert.Equal(t, 28*60, u.TotalMin)
	require.NotNil(t, u.WeeklyCapMin)
	assert.Equal(t, 600, *u.WeeklyCapMin)
	require.NotNil(t, u.DailyCapMin)
	assert.Equal(t, 120, *u.DailyCapMin)
	assert.True(t, u.IsWorkType())
}

func TestActiveUnits_SkipsExhaustedAndInactiveProjects(t *testing.T) {
	exhausted := testutil.NewTestProject("Done", testutil.WithProjectHours(10, 10))
	paused := testutil.NewTestProject("Paused", testutil.WithProjectInactive())

	units := ActiveUnits(Sources{Projects: []*domain.Project{exhausted, paused}}, now)
	assert.Empty(t, units)
}

func TestActiveUnits_AssignmentDefaultsToTwoHours(t *testing.T) {
	a := testutil.NewTestAssignment("course-1", "essay", now.AddDate(0, 0, 4))

	units := ActiveUnits(Sources{Assignments: []*domain.Assignment{a}}, now)
	require.Len(t, units, 1)

	u := units[0]
	assert.Equal(t, domain.SourceAssignment, u.SourceType)
	assert.Equal(t, DefaultAssignmentMin, u.TotalMin)
	require.NotNil(t, u.Deadline)
	assert.True(t, u.Deadline.Equal(a.DueDate))
	assert.False(t, u.IsWorkType())
}

func TestActiveUnits_AssignmentUsesRemainingEstimate(t *testing.T) {
	a := testutil.NewTestAssignment("course-1", "project report", now.AddDate(0, 0, 10))
	est := 6.0
	a.EstimatedHours = &est
	a.HoursLogged = 4.5

	units := ActiveUnits(Sources{Assignments: []*domain.Assignment{a}}, now)
	require.Len(t, units, 1)
	assert.Equal(t, 90, units[0].TotalMin)
}

func TestActiveUnits_SkipsCompletedAssignments(t *testing.T) {
	a := testutil.NewTestAssignment("course-1", "quiz", now.AddDate(0, 0, 2))
	a.IsCompleted = true

	units := ActiveUnits(Sources{Assignments: []*domain.Assignment{a}}, now)
	assert.Empty(t, units)
}

func TestActiveUnits_HouseholdCarriesPreferredDays(t *testing.T) {
	task := testutil.NewTestHouseholdTask("mow lawn",
		testutil.WithPreferredDays(time.Saturday, time.Sunday))

	units := ActiveUnits(Sources{Household: []*domain.HouseholdTask{task}}, now)
	require.Len(t, units, 1)
	assert.Equal(t, []time.Weekday{time.Saturday, time.Sunday}, units[0].PreferredDays)
}

func TestDueForRecurrence_Cadences(t *testing.T) {
	tests := []struct {
		name       string
		recurrence domain.Recurrence
		daysAgo    int
		want       bool
	}{
		{"daily done yesterday", domain.RecurDaily, 1, true},
		{"daily done today", domain.RecurDaily, 0, false},
		{"weekly after six days", domain.RecurWeekly, 6, false},
		{"weekly after seven days", domain.RecurWeekly, 7, true},
		{"biweekly after thirteen days", domain.RecurBiweekly, 13, false},
		{"biweekly after fourteen days", domain.RecurBiweekly, 14, true},
		{"monthly after twenty nine days", domain.RecurMonthly, 29, false},
		{"monthly after thirty days", domain.RecurMonthly, 30, true},
		{"one-shot already done", domain.RecurNone, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := testutil.NewTestHouseholdTask("chore",
				testutil.WithRecurrence(tt.recurrence),
				testutil.WithLastCompleted(now.AddDate(0, 0, -tt.daysAgo)))
			assert.Equal(t, tt.want, DueForRecurrence(task, now))
		})
	}
}

func TestDueForRecurrence_NeverCompletedIsAlwaysDue(t *testing.T) {
	task := testutil.NewTestHouseholdTask("new chore", testutil.WithRecurrence(domain.RecurNone))
	assert.True(t, DueForRecurrence(task, now))
}

func TestDueForRecurrence_CustomCron(t *testing.T) {
	// First of every month at midnight.
	task := testutil.NewTestHouseholdTask("pay rent",
		testutil.WithRecurrence(domain.RecurCustom),
		testutil.WithLastCompleted(time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)))
	task.RecurrenceExpr = "0 0 1 * *"

	assert.True(t, DueForRecurrence(task, now), "March 1 activation has passed")

	task.LastCompleted = ptrTime(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	assert.False(t, DueForRecurrence(task, now), "next activation is April 1")
}

func TestDueForRecurrence_BadCronFallsBackToWeekly(t *testing.T) {
	task := testutil.NewTestHouseholdTask("odd chore",
		testutil.WithRecurrence(domain.RecurCustom),
		testutil.WithLastCompleted(now.AddDate(0, 0, -8)))
	task.RecurrenceExpr = "not a cron expr"

	assert.True(t, DueForRecurrence(task, now))
}

func ptrTime(t time.Time) *time.Time { return &t }
