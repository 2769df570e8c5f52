// Package reports provides daily and weekly report generation for the
// rutina app. Reports aggregate program progress and the to-do list.
package reports

import (
	"time"

	"rutina/internal/progress"
	"rutina/internal/storage"
)

// DailyReport contains aggregated data for a single day.
type DailyReport struct {
	Date        time.Time       `json:"date"`
	Programs    []ProgramStatus `json:"programs"`
	Todos       TodoSummary     `json:"todos"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// WeeklyReport contains aggregated data for a week.
type WeeklyReport struct {
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	Programs       []ProgramStatus `json:"programs"`
	DailyBreakdown []DailySummary  `json:"daily_breakdown"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// ProgramStatus represents one started program's standing on the report
// date.
type ProgramStatus struct {
	Key        string `json:"key"`
	Title      string `json:"title"`
	Icon       string `json:"icon"`
	Day        int    `json:"day"` // 1-based relative day, 0 if out of range
	Duration   int    `json:"duration"`
	TasksDone  int    `json:"tasks_done"`
	TasksTotal int    `json:"tasks_total"`
	Percent    int    `json:"percent"`
	Streak     int    `json:"streak"`
}

// TodoSummary contains to-do list statistics for a single day.
type TodoSummary struct {
	Completed      []storage.Todo `json:"completed"`
	Pending        []storage.Todo `json:"pending"`
	CompletedCount int            `json:"completed_count"`
	PendingCount   int            `json:"pending_count"`
}

// DailySummary provides a quick overview of a single day within a week.
type DailySummary struct {
	Date           string              `json:"date"`
	DayOfWeek      string              `json:"day_of_week"`
	Status         progress.DayStatus  `json:"status"`
	TasksDone      int                 `json:"tasks_done"`
	TasksTotal     int                 `json:"tasks_total"`
}
