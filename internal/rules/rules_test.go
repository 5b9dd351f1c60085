package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanhale/timeloom/internal/domain"
	"github.com/jordanhale/timeloom/internal/testutil"
)

var (
	monday   = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	saturday = time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
)

func houseUnit(name string) domain.SchedulableUnit {
	return domain.SchedulableUnit{
		ID:         "u1",
		SourceType: domain.SourceHousehold,
		Name:       name,
		TotalMin:   60,
		Priority:   domain.PriorityFlexible,
		IsActive:   true,
	}
}

func TestMatches_AllConditionsMustHold(t *testing.T) {
	rule := testutil.NewTestRule("weekend chores", 10,
		[]domain.Condition{
			{Kind: domain.CondTaskType, TaskType: domain.SourceHousehold},
			{Kind: domain.CondDayOfWeek, Weekdays: []time.Weekday{time.Saturday, time.Sunday}},
		}, nil)

	unit := houseUnit("laundry")
	assert.True(t, Matches(rule, unit, saturday))
	assert.False(t, Matches(rule, unit, monday), "weekday fails the day condition")

	work := unit
	work.SourceType = domain.SourceProject
	assert.False(t, Matches(rule, work, saturday), "wrong task type fails")
}

func TestMatches_NameContainsIsCaseInsensitive(t *testing.T) {
	rule := testutil.NewTestRule("cooking", 5,
		[]domain.Condition{{Kind: domain.CondNameContains, Substring: "Cook"}}, nil)

	assert.True(t, Matches(rule, houseUnit("cook dinner"), monday))
	assert.False(t, Matches(rule, houseUnit("laundry"), monday))
}

func TestMatches_NoConditionsMatchesEverything(t *testing.T) {
	rule := testutil.NewTestRule("catch-all", 1, nil, nil)
	assert.True(t, Matches(rule, houseUnit("anything"), monday))
}

func TestEvaluate_FirstAppliedWinsPerKind(t *testing.T) {
	strict := testutil.NewTestRule("strict", 20, nil,
		[]domain.Action{{Kind: domain.ActionRestrictWindow, Window: domain.Window{
			Start: domain.MustClock("06:00"), End: domain.MustClock("09:00")}}})
	loose := testutil.NewTestRule("loose", 5, nil,
		[]domain.Action{{Kind: domain.ActionRestrictWindow, Window: domain.Window{
			Start: domain.MustClock("10:00"), End: domain.MustClock("20:00")}}})

	d := Evaluate([]*domain.Rule{loose, strict}, houseUnit("laundry"), monday)
	require.NotNil(t, d.Restrict)
	assert.Equal(t, domain.MustClock("06:00"), d.Restrict.Start,
		"higher priority rule's restriction wins regardless of slice order")
}

func TestEvaluate_BlockedWindowsAccumulate(t *testing.T) {
	r1 := testutil.NewTestRule("no early", 10, nil,
		[]domain.Action{{Kind: domain.ActionBlockWindow, Window: domain.Window{
			Start: domain.MustClock("06:00"), End: domain.MustClock("08:00")}}})
	r2 := testutil.NewTestRule("no late", 5, nil,
		[]domain.Action{{Kind: domain.ActionBlockWindow, Window: domain.Window{
			Start: domain.MustClock("20:00"), End: domain.MustClock("22:00")}}})

	d := Evaluate([]*domain.Rule{r1, r2}, houseUnit("laundry"), monday)
	assert.Len(t, d.Blocked, 2)
}

func TestEvaluate_ExcludeDateOnlyOnThatDate(t *testing.T) {
	rule := testutil.NewTestRule("holiday", 10, nil,
		[]domain.Action{{Kind: domain.ActionExcludeDate, Date: saturday}})

	assert.True(t, Evaluate([]*domain.Rule{rule}, houseUnit("laundry"), saturday).Excluded)
	assert.False(t, Evaluate([]*domain.Rule{rule}, houseUnit("laundry"), monday).Excluded)
}

func TestEvaluate_InactiveRulesIgnored(t *testing.T) {
	rule := testutil.NewTestRule("off", 10, nil,
		[]domain.Action{{Kind: domain.ActionBoostPriority, Delta: 2}})
	rule.IsActive = false

	d := Evaluate([]*domain.Rule{rule}, houseUnit("laundry"), monday)
	assert.Equal(t, 0, d.PriorityDelta)
}

func TestEvaluate_Limits(t *testing.T) {
	rule := testutil.NewTestRule("capped", 10, nil,
		[]domain.Action{
			{Kind: domain.ActionLimitDailyMin, LimitMin: 60},
			{Kind: domain.ActionLimitWeeklyMin, LimitMin: 240},
		})

	d := Evaluate([]*domain.Rule{rule}, houseUnit("laundry"), monday)
	require.NotNil(t, d.DailyLimitMin)
	assert.Equal(t, 60, *d.DailyLimitMin)
	require.NotNil(t, d.WeeklyLimitMin)
	assert.Equal(t, 240, *d.WeeklyLimitMin)
}

func TestFromTemplate(t *testing.T) {
	r, err := FromTemplate("no_work_after_hours")
	require.NoError(t, err)
	assert.Equal(t, "No work after hours", r.Name)
	assert.True(t, r.IsActive)
	require.Len(t, r.Conditions, 1)
	assert.Equal(t, domain.SourceProject, r.Conditions[0].TaskType)
	require.Len(t, r.Actions, 1)
	assert.Equal(t, domain.ActionBlockWindow, r.Actions[0].Kind)
}

func TestFromTemplate_Unknown(t *testing.T) {
	_, err := FromTemplate("does_not_exist")
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestTemplates_CatalogIsComplete(t *testing.T) {
	keys := map[string]bool{}
	for _, tpl := range Templates() {
		keys[tpl.Key] = true
	}
	for _, want := range []string{
		"morning_chores", "household_weekends", "no_work_after_hours",
		"evening_dinner_prep", "high_priority_mornings",
	} {
		assert.True(t, keys[want], "missing template %s", want)
	}
}
