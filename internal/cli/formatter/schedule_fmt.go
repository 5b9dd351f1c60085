package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jordanhale/timeloom/internal/domain"
	"github.com/jordanhale/timeloom/internal/scheduler"
	"github.com/jordanhale/timeloom/internal/service"
)

// FormatAgenda renders blocks grouped by day, one line per block.
func FormatAgenda(blocks []*domain.TimeBlock) string {
	if len(blocks) == 0 {
		return Dim("No blocks in range.")
	}

	var b strings.Builder
	var lastDay string
	for _, blk := range blocks {
		day := blk.StartTime.Format("Mon Jan 2")
		if day != lastDay {
			if lastDay != "" {
				b.WriteString("\n")
			}
			b.WriteString(Header(day) + "\n")
			lastDay = day
		}
		b.WriteString(fmt.Sprintf("  %s  %s  %s  %s",
			StyleFg.Render(ClockRange(blk.StartTime, blk.EndTime)),
			TypeColor(blk.TaskType).Render(string(blk.TaskType)),
			Bold(blk.TaskName),
			StatusPill(blk.Status),
		))
		if blk.ID != "" {
			b.WriteString("  " + TruncID(blk.ID))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatUnmet renders the demand the scheduler could not place before
// its deadlines.
func FormatUnmet(unmet []scheduler.Unmet) string {
	if len(unmet) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleYellow.Render("Unplaced before deadline:") + "\n")
	for _, u := range unmet {
		b.WriteString(fmt.Sprintf("  %s %s (%s short, due %s)\n",
			TypeColor(u.SourceType).Render(string(u.SourceType)),
			Bold(u.Name),
			FormatMinutes(u.MissingMin),
			RelativeDateStyled(u.Deadline),
		))
	}
	return b.String()
}

// FormatGenerateResult renders a scheduling run outcome: the agenda,
// unmet demand, and a one-line footer.
func FormatGenerateResult(res *service.GenerateResult) string {
	var b strings.Builder
	b.WriteString(FormatAgenda(res.Blocks))
	if len(res.Unmet) > 0 {
		b.WriteString("\n" + FormatUnmet(res.Unmet))
	}
	b.WriteString("\n")
	verb := "Committed"
	if !res.Committed {
		verb = "Previewed"
	}
	b.WriteString(Dim(fmt.Sprintf("%s %d blocks, %s total (%s to %s)",
		verb, len(res.Blocks), FormatMinutes(res.TotalMin),
		res.Start.Format("2006-01-02"), res.End.AddDate(0, 0, -1).Format("2006-01-02"))))
	return b.String()
}

// FormatSummary renders the per-day and per-type aggregation of the
// stored schedule as a dashboard.
func FormatSummary(sum *service.ScheduleSummary) string {
	headers := []string{"DAY", "SCHEDULED", "BY TYPE"}
	rows := make([][]string, 0, len(sum.Days))
	for _, d := range sum.Days {
		rows = append(rows, []string{
			StyleFg.Render(d.Date.Format("Mon Jan 2")),
			Bold(FormatMinutes(d.ScheduledMin)),
			typeBreakdown(d.ByType),
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable(headers, rows))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s scheduled of %s available, %s in meetings, %s free",
		Bold("Total:"),
		FormatMinutes(sum.ScheduledMin),
		FormatMinutes(sum.AvailableMin),
		FormatMinutes(sum.MeetingMin),
		FormatMinutes(sum.FreeMin)))
	if bd := typeBreakdown(sum.ByType); bd != "" {
		b.WriteString("  " + bd)
	}
	b.WriteString("\n")

	if len(sum.ByStatus) > 0 {
		parts := make([]string, 0, len(sum.ByStatus))
		for _, st := range []domain.BlockStatus{domain.BlockScheduled, domain.BlockCompleted, domain.BlockSkipped, domain.BlockExternal} {
			if n := sum.ByStatus[st]; n > 0 {
				parts = append(parts, fmt.Sprintf("%d %s", n, st))
			}
		}
		b.WriteString(Dim(strings.Join(parts, ", ")) + "\n")
	}

	return RenderBox("Schedule", b.String())
}

func typeBreakdown(byType map[domain.SourceType]int) string {
	if len(byType) == 0 {
		return ""
	}
	types := make([]domain.SourceType, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, TypeColor(t).Render(fmt.Sprintf("%s %s", string(t), FormatMinutes(byType[t]))))
	}
	return strings.Join(parts, "  ")
}
