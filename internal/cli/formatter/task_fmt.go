package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/jordanhale/timeloom/internal/domain"
)

// FormatProjectList renders projects as a table with budget progress.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"ID", "NAME", "BUDGET", "USED", "REMAINING", "PRIORITY", "DUE"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		due := Dim("--")
		if p.EndDate != nil {
			due = RelativeDateStyled(*p.EndDate)
		}
		name := Bold(p.Name)
		if !p.IsActive {
			name = Dim(p.Name + " (inactive)")
		}
		rows = append(rows, []string{
			TruncID(p.ID),
			name,
			FormatHours(p.TotalHoursAllocated),
			FormatHours(p.HoursUsed),
			StyleGreen.Render(FormatHours(p.HoursRemaining())),
			PriorityPill(p.Priority),
			due,
		})
	}
	return RenderTable(headers, rows)
}

// FormatHouseholdList renders chores with cadence and last-done info.
func FormatHouseholdList(tasks []*domain.HouseholdTask) string {
	headers := []string{"ID", "NAME", "EVERY", "DURATION", "LAST DONE", "WHEN"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		last := Dim("never")
		if t.LastCompleted != nil {
			last = RelativeDate(*t.LastCompleted)
		}
		cadence := string(t.Recurrence)
		if t.Recurrence == domain.RecurCustom {
			cadence = t.RecurrenceExpr
		}
		name := Bold(t.Name)
		if !t.IsActive {
			name = Dim(t.Name + " (inactive)")
		}
		rows = append(rows, []string{
			TruncID(t.ID),
			name,
			StylePurple.Render(cadence),
			FormatMinutes(t.EstimatedDurationMin),
			last,
			StyleFg.Render(string(t.PreferredTime)),
		})
	}
	return RenderTable(headers, rows)
}

// FormatCourseList renders courses with their weekly slot.
func FormatCourseList(courses []*domain.Course) string {
	headers := []string{"ID", "CODE", "NAME", "MEETS", "SEMESTER"}
	rows := make([][]string, 0, len(courses))
	days := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	for _, c := range courses {
		meets := "--"
		if c.DayOfWeek >= 0 && c.DayOfWeek < len(days) {
			meets = fmt.Sprintf("%s %s-%s", days[c.DayOfWeek], c.Start, c.End)
		}
		rows = append(rows, []string{
			TruncID(c.ID),
			StyleBlue.Render(c.Code),
			Bold(c.Name),
			StyleFg.Render(meets),
			Dim(fmt.Sprintf("%s to %s", c.SemesterStart.Format("Jan 2"), c.SemesterEnd.Format("Jan 2"))),
		})
	}
	return RenderTable(headers, rows)
}

// FormatAssignmentList renders assignments sorted as given, flagging
// overdue ones.
func FormatAssignmentList(assignments []*domain.Assignment) string {
	headers := []string{"ID", "NAME", "DUE", "ESTIMATE", "LOGGED", "STATUS"}
	rows := make([][]string, 0, len(assignments))
	now := time.Now()
	for _, a := range assignments {
		est := Dim("--")
		if a.EstimatedHours != nil {
			est = FormatHours(*a.EstimatedHours)
		}
		status := StyleBlue.Render("○ open")
		switch {
		case a.IsCompleted:
			status = StyleGreen.Render("✔ done")
		case a.DueDate.Before(now):
			status = StyleRed.Render("▲ overdue")
		}
		rows = append(rows, []string{
			TruncID(a.ID),
			Bold(a.Name),
			RelativeDateStyled(a.DueDate),
			est,
			FormatHours(a.HoursLogged),
			status,
		})
	}
	return RenderTable(headers, rows)
}

// FormatRuleList renders scheduling rules with a compact description of
// their conditions and actions.
func FormatRuleList(rules []*domain.Rule) string {
	headers := []string{"ID", "NAME", "PRIORITY", "WHEN", "THEN", "ACTIVE"}
	rows := make([][]string, 0, len(rules))
	for _, r := range rules {
		active := StyleGreen.Render("yes")
		if !r.IsActive {
			active = Dim("no")
		}
		rows = append(rows, []string{
			TruncID(r.ID),
			Bold(r.Name),
			fmt.Sprintf("%d", r.Priority),
			Dim(describeConditions(r.Conditions)),
			StyleFg.Render(describeActions(r.Actions)),
			active,
		})
	}
	return RenderTable(headers, rows)
}

func describeConditions(conds []domain.Condition) string {
	if len(conds) == 0 {
		return "always"
	}
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		switch c.Kind {
		case domain.CondTaskType:
			parts = append(parts, "type="+string(c.TaskType))
		case domain.CondNameContains:
			parts = append(parts, fmt.Sprintf("name~%q", c.Substring))
		case domain.CondPriority:
			parts = append(parts, "priority="+string(c.Priority))
		case domain.CondDayOfWeek:
			days := make([]string, 0, len(c.Weekdays))
			for _, d := range c.Weekdays {
				days = append(days, d.String()[:3])
			}
			parts = append(parts, "day in "+strings.Join(days, "/"))
		}
	}
	return strings.Join(parts, " and ")
}

func describeActions(actions []domain.Action) string {
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		switch a.Kind {
		case domain.ActionRestrictWindow:
			parts = append(parts, "restrict to "+a.Window.String())
		case domain.ActionBlockWindow:
			parts = append(parts, "block "+a.Window.String())
		case domain.ActionBoostPriority:
			parts = append(parts, fmt.Sprintf("boost %+d", a.Delta))
		case domain.ActionExcludeDate:
			parts = append(parts, "exclude "+a.Date.Format("2006-01-02"))
		case domain.ActionLimitDailyMin:
			parts = append(parts, "daily cap "+FormatMinutes(a.LimitMin))
		case domain.ActionLimitWeeklyMin:
			parts = append(parts, "weekly cap "+FormatMinutes(a.LimitMin))
		}
	}
	return strings.Join(parts, ", ")
}
