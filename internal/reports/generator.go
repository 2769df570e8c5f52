// Package reports provides daily and weekly report generation for the
// rutina app.
package reports

import (
	"time"

	"rutina/internal/dateutil"
	"rutina/internal/progress"
	"rutina/internal/storage"
)

// Generator creates reports from storage data.
type Generator struct {
	store  *storage.Storage
	engine *progress.Engine
}

// NewGenerator creates a new report generator.
func NewGenerator(store *storage.Storage, engine *progress.Engine) *Generator {
	return &Generator{store: store, engine: engine}
}

// GenerateDaily generates a report for a specific date.
func (g *Generator) GenerateDaily(date time.Time) (*DailyReport, error) {
	date = dateutil.StartOfDay(date)

	programs, err := g.getProgramStatuses(date)
	if err != nil {
		return nil, err
	}

	todos, err := g.getTodoSummary(dateutil.Key(date))
	if err != nil {
		return nil, err
	}

	return &DailyReport{
		Date:        date,
		Programs:    programs,
		Todos:       todos,
		GeneratedAt: time.Now(),
	}, nil
}

// GenerateWeekly generates a report for a week starting on the given date.
func (g *Generator) GenerateWeekly(startDate time.Time) (*WeeklyReport, error) {
	// Align to start of week (Sunday)
	startDate = startOfWeekSunday(startDate)
	endDate := dateutil.AddDays(startDate, 6)

	programs, err := g.getProgramStatuses(endDate)
	if err != nil {
		return nil, err
	}

	breakdown, err := g.getDailyBreakdown(startDate, 7)
	if err != nil {
		return nil, err
	}

	return &WeeklyReport{
		StartDate:      startDate,
		EndDate:        endDate,
		Programs:       programs,
		DailyBreakdown: breakdown,
		GeneratedAt:    time.Now(),
	}, nil
}

// getProgramStatuses returns the standing of every started program as of
// the given date.
func (g *Generator) getProgramStatuses(date time.Time) ([]ProgramStatus, error) {
	ps, err := g.store.LoadPrograms()
	if err != nil {
		return nil, err
	}

	dateKey := dateutil.Key(date)
	var statuses []ProgramStatus

	// Catalog order keeps the report stable across runs.
	for _, prog := range g.store.Catalog().List() {
		if _, started := ps.Programs[prog.Key]; !started {
			continue
		}

		rel := g.engine.RelativeDayIndex(ps, prog.Key, dateKey)
		done := 0
		total := 0
		if rel >= 1 {
			total = prog.TaskCount(rel)
			done = ps.Programs[prog.Key].DoneCount(dateKey, total)
		}

		statuses = append(statuses, ProgramStatus{
			Key:        prog.Key,
			Title:      prog.Title,
			Icon:       prog.Icon,
			Day:        rel,
			Duration:   prog.Duration(),
			TasksDone:  done,
			TasksTotal: total,
			Percent:    g.engine.Percent(ps, prog.Key, date),
			Streak:     g.engine.Streak(ps, prog.Key, date),
		})
	}

	return statuses, nil
}

// getTodoSummary splits the to-do list for a date into completed and
// pending. Entries without a due date count toward every day's pending
// list until done.
func (g *Generator) getTodoSummary(dateKey string) (TodoSummary, error) {
	todos, err := g.store.LoadTodos()
	if err != nil {
		return TodoSummary{}, err
	}

	var completed, pending []storage.Todo
	for _, td := range todos {
		if td.Due != "" && td.Due != dateKey {
			continue
		}
		if td.Done {
			completed = append(completed, td)
		} else {
			pending = append(pending, td)
		}
	}

	return TodoSummary{
		Completed:      completed,
		Pending:        pending,
		CompletedCount: len(completed),
		PendingCount:   len(pending),
	}, nil
}

// getDailyBreakdown returns a summary for each day in the period.
func (g *Generator) getDailyBreakdown(start time.Time, days int) ([]DailySummary, error) {
	ps, err := g.store.LoadPrograms()
	if err != nil {
		return nil, err
	}

	today := g.store.Now()
	breakdown := make([]DailySummary, 0, days)

	for i := 0; i < days; i++ {
		day := dateutil.AddDays(start, i)
		dateKey := dateutil.Key(day)

		done := 0
		total := 0
		for key, state := range ps.Programs {
			rel := g.engine.RelativeDayIndex(ps, key, dateKey)
			if rel < 1 {
				continue
			}
			prog, err := g.store.Catalog().Get(key)
			if err != nil {
				continue
			}
			n := prog.TaskCount(rel)
			total += n
			done += state.DoneCount(dateKey, n)
		}

		breakdown = append(breakdown, DailySummary{
			Date:       dateKey,
			DayOfWeek:  day.Format("Mon"),
			Status:     g.engine.DayStatus(ps, dateKey, today),
			TasksDone:  done,
			TasksTotal: total,
		})
	}

	return breakdown, nil
}

// startOfWeekSunday returns the start of the week (Sunday).
func startOfWeekSunday(t time.Time) time.Time {
	t = dateutil.StartOfDay(t)
	weekday := int(t.Weekday())
	return dateutil.AddDays(t, -weekday)
}
