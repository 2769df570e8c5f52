// Package progress implements the program progress engine: relative day
// indices, per-task toggling, percent complete, streaks, and the aggregate
// day status used for calendar coloring. Reads are pure over a loaded
// store; mutations go through the storage layer's read-modify-write cycle.
//
// Every read treats an unknown or unstarted program as neutral (index 0,
// percent 0, streak 0) so the presentation layer never needs error
// handling for programs the user hasn't begun.
package progress

import (
	"sort"
	"time"

	"rutina/internal/catalog"
	"rutina/internal/dateutil"
	"rutina/internal/storage"
)

// DayStatus classifies a calendar date across all started programs.
type DayStatus string

const (
	// DayEmpty: no applicable tasks that day, or a not-yet-actionable
	// future day with nothing done. Future days are never shown as
	// "nothing done" because they cannot be acted on yet.
	DayEmpty DayStatus = "empty"
	// DayNone: a past, applicable day with zero tasks done.
	DayNone DayStatus = "none"
	// DaySome: partially done.
	DaySome DayStatus = "some"
	// DayAll: fully done.
	DayAll DayStatus = "all"
)

// Engine computes derived progress from the catalog and the programs
// store. It is constructed once per application context and passed by
// reference; it holds no mutable state of its own.
type Engine struct {
	store   *storage.Storage
	catalog *catalog.Catalog
}

// New creates an engine bound to the given storage and catalog.
func New(store *storage.Storage, cat *catalog.Catalog) *Engine {
	return &Engine{store: store, catalog: cat}
}

// Now returns the engine's current time (the storage clock).
func (e *Engine) Now() time.Time {
	return e.store.Now()
}

// RelativeDayIndex returns the 1-based day index of date within program
// key, or 0 when the program is unknown, not started, or date falls
// outside [startDate, startDate+N-1].
func (e *Engine) RelativeDayIndex(ps *storage.ProgramsStore, key, date string) int {
	prog, err := e.catalog.Get(key)
	if err != nil {
		return 0
	}
	state := ps.Programs[key]
	if state == nil {
		return 0
	}

	rel := state.RelativeDay(date)
	if rel < 1 || rel > prog.Duration() {
		return 0
	}
	return rel
}

// TasksForDate returns the task definitions applicable to date for program
// key together with the set of completed indices. A nil task slice means
// the date is outside the program.
func (e *Engine) TasksForDate(ps *storage.ProgramsStore, key, date string) ([]catalog.Task, map[int]bool) {
	rel := e.RelativeDayIndex(ps, key, date)
	if rel < 1 {
		return nil, nil
	}

	prog, err := e.catalog.Get(key)
	if err != nil {
		return nil, nil
	}
	day, ok := prog.Day(rel)
	if !ok {
		return nil, nil
	}

	done := make(map[int]bool, len(day.Tasks))
	for _, idx := range ps.Programs[key].CompletedByDate[date] {
		if idx >= 0 && idx < len(day.Tasks) {
			done[idx] = true
		}
	}
	return day.Tasks, done
}

// ToggleTask flips completion of taskIndex for program key on date. It is
// a silent no-op when the program has not been started or the index is out
// of range for that date's relative day, preserving the store invariant
// without surfacing an error.
func (e *Engine) ToggleTask(key, date string, taskIndex int) error {
	ps, err := e.store.LoadPrograms()
	if err != nil {
		return err
	}

	rel := e.RelativeDayIndex(ps, key, date)
	if rel < 1 {
		return nil
	}
	prog, err := e.catalog.Get(key)
	if err != nil {
		return nil
	}
	if taskIndex < 0 || taskIndex >= prog.TaskCount(rel) {
		return nil
	}

	state := ps.Programs[key]
	indices := state.CompletedByDate[date]
	found := -1
	for i, idx := range indices {
		if idx == taskIndex {
			found = i
			break
		}
	}
	if found >= 0 {
		indices = append(indices[:found], indices[found+1:]...)
	} else {
		indices = append(indices, taskIndex)
		sort.Ints(indices)
	}
	state.CompletedByDate[date] = indices

	return e.store.SavePrograms(ps)
}

// MarkDayDone records the full index set for date's relative day. No-op if
// the date is outside the program.
func (e *Engine) MarkDayDone(key, date string) error {
	ps, err := e.store.LoadPrograms()
	if err != nil {
		return err
	}

	rel := e.RelativeDayIndex(ps, key, date)
	if rel < 1 {
		return nil
	}
	prog, err := e.catalog.Get(key)
	if err != nil {
		return nil
	}
	n := prog.TaskCount(rel)
	if n <= 0 {
		return nil
	}

	full := make([]int, n)
	for i := range full {
		full[i] = i
	}
	ps.Programs[key].CompletedByDate[date] = full

	return e.store.SavePrograms(ps)
}

// UnmarkDay clears date's completion set. The date key itself stays in the
// record with an empty set.
func (e *Engine) UnmarkDay(key, date string) error {
	ps, err := e.store.LoadPrograms()
	if err != nil {
		return err
	}

	state := ps.Programs[key]
	if state == nil {
		return nil
	}
	if _, exists := state.CompletedByDate[date]; !exists {
		return nil
	}
	state.CompletedByDate[date] = []int{}

	return e.store.SavePrograms(ps)
}

// dayCompleted reports whether every task of date's relative day is done.
// A day with zero defined tasks is never completed.
func (e *Engine) dayCompleted(ps *storage.ProgramsStore, key, date string) bool {
	rel := e.RelativeDayIndex(ps, key, date)
	if rel < 1 {
		return false
	}
	prog, err := e.catalog.Get(key)
	if err != nil {
		return false
	}
	n := prog.TaskCount(rel)
	if n <= 0 {
		return false
	}
	return ps.Programs[key].DoneCount(date, n) >= n
}

// Percent returns the program's completion percentage as of today:
// completed days over the whole program duration, rounded half-up. Days
// counted are the inclusive range [startDate, today], clipped to the
// program's N days. This is percent of the program, not of days elapsed.
func (e *Engine) Percent(ps *storage.ProgramsStore, key string, today time.Time) int {
	prog, err := e.catalog.Get(key)
	if err != nil {
		return 0
	}
	state := ps.Programs[key]
	if state == nil || state.StartDate == "" {
		return 0
	}
	start, err := dateutil.Parse(state.StartDate)
	if err != nil {
		return 0
	}

	n := prog.Duration()
	if n <= 0 {
		return 0
	}

	elapsed := dateutil.DiffDays(today, start) + 1
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > n {
		elapsed = n
	}

	completed := 0
	for i := 0; i < elapsed; i++ {
		date := dateutil.Key(dateutil.AddDays(start, i))
		if e.dayCompleted(ps, key, date) {
			completed++
		}
	}

	// round(100*completed/n) half-up in integer math
	return (200*completed + n) / (2 * n)
}

// Streak counts consecutive fully-completed days walking backward from
// today. It stops at the first day that is out of the program's range or
// not fully done, so an unstarted program or an incomplete today both
// yield 0.
func (e *Engine) Streak(ps *storage.ProgramsStore, key string, today time.Time) int {
	streak := 0
	for offset := 0; ; offset++ {
		date := dateutil.Key(dateutil.AddDays(today, -offset))
		if e.RelativeDayIndex(ps, key, date) < 1 {
			break
		}
		if !e.dayCompleted(ps, key, date) {
			break
		}
		streak++
	}
	return streak
}

// DayStatus aggregates date across all started programs: total applicable
// tasks versus tasks done. Future days with nothing done stay DayEmpty
// rather than DayNone because they cannot be acted on yet.
func (e *Engine) DayStatus(ps *storage.ProgramsStore, date string, today time.Time) DayStatus {
	total := 0
	done := 0

	for key, state := range ps.Programs {
		rel := e.RelativeDayIndex(ps, key, date)
		if rel < 1 {
			continue
		}
		prog, err := e.catalog.Get(key)
		if err != nil {
			continue
		}
		n := prog.TaskCount(rel)
		if n <= 0 {
			continue
		}
		total += n
		done += state.DoneCount(date, n)
	}

	if total == 0 {
		return DayEmpty
	}

	switch {
	case done == 0 && date < dateutil.Key(today):
		return DayNone
	case done == 0:
		return DayEmpty
	case done < total:
		return DaySome
	default:
		return DayAll
	}
}
