// Package reports provides daily and weekly report generation for the
// rutina app.
package reports

import (
	"fmt"
	"strings"
)

// FormatDailyMarkdown formats a daily report as human-readable Markdown.
func FormatDailyMarkdown(report *DailyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Daily Report — %s\n\n", report.Date.Format("Monday, January 2, 2006"))

	b.WriteString("## Programs\n\n")
	if len(report.Programs) == 0 {
		b.WriteString("No programs started.\n\n")
	} else {
		for _, p := range report.Programs {
			if p.Day >= 1 {
				fmt.Fprintf(&b, "- %s **%s** — day %d/%d, %d/%d tasks, %d%% complete, streak %d\n",
					p.Icon, p.Title, p.Day, p.Duration, p.TasksDone, p.TasksTotal, p.Percent, p.Streak)
			} else {
				fmt.Fprintf(&b, "- %s **%s** — not active on this date, %d%% complete\n",
					p.Icon, p.Title, p.Percent)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("## To-dos\n\n")
	fmt.Fprintf(&b, "Completed: %d, pending: %d\n\n", report.Todos.CompletedCount, report.Todos.PendingCount)
	for _, td := range report.Todos.Completed {
		fmt.Fprintf(&b, "- [x] %s\n", td.Text)
	}
	for _, td := range report.Todos.Pending {
		fmt.Fprintf(&b, "- [ ] %s\n", td.Text)
	}
	if report.Todos.CompletedCount+report.Todos.PendingCount > 0 {
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "_Generated at %s_\n", report.GeneratedAt.Format("2006-01-02 15:04"))
	return b.String()
}

// FormatWeeklyMarkdown formats a weekly report as human-readable Markdown.
func FormatWeeklyMarkdown(report *WeeklyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Weekly Report — %s to %s\n\n",
		report.StartDate.Format("Jan 2"), report.EndDate.Format("Jan 2, 2006"))

	b.WriteString("## Programs\n\n")
	if len(report.Programs) == 0 {
		b.WriteString("No programs started.\n\n")
	} else {
		for _, p := range report.Programs {
			fmt.Fprintf(&b, "- %s **%s** — %d%% complete, streak %d\n",
				p.Icon, p.Title, p.Percent, p.Streak)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Day by day\n\n")
	b.WriteString("| Day | Date | Tasks | Status |\n")
	b.WriteString("|-----|------|-------|--------|\n")
	for _, d := range report.DailyBreakdown {
		fmt.Fprintf(&b, "| %s | %s | %d/%d | %s |\n",
			d.DayOfWeek, d.Date, d.TasksDone, d.TasksTotal, d.Status)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "_Generated at %s_\n", report.GeneratedAt.Format("2006-01-02 15:04"))
	return b.String()
}
