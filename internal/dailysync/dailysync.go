// Package dailysync materializes today's program tasks into the generic
// to-do list, at most once per calendar day.
package dailysync

import (
	"fmt"
	"sort"

	"rutina/internal/catalog"
	"rutina/internal/progress"
	"rutina/internal/storage"
)

// EntryID returns the deterministic to-do id for a program's entry on a
// given date. The id is the sole dedup key for the sync.
func EntryID(programKey, date string) string {
	return fmt.Sprintf("prog:%s:%s", programKey, date)
}

// Runner executes the once-per-day sync. It is triggered at application
// startup; the marker guard makes later invocations the same day free.
type Runner struct {
	store   *storage.Storage
	engine  *progress.Engine
	catalog *catalog.Catalog
}

// New creates a sync runner over the given storage and engine.
func New(store *storage.Storage, engine *progress.Engine, cat *catalog.Catalog) *Runner {
	return &Runner{store: store, engine: engine, catalog: cat}
}

// Run performs the daily sync and returns how many entries it created.
//
// If the marker already holds today's date the call returns immediately.
// Otherwise every started program whose range covers today gets one to-do
// entry, skipped when its deterministic id is already present, and the
// marker is advanced to today even when nothing was created. Programs are
// processed in key order so repeated runs append in a stable order.
func (r *Runner) Run() (int, error) {
	today := r.store.TodayKey()
	if r.store.LastSyncDate() == today {
		return 0, nil
	}

	ps, err := r.store.LoadPrograms()
	if err != nil {
		return 0, err
	}
	todos, err := r.store.LoadTodos()
	if err != nil {
		return 0, err
	}

	existing := make(map[string]bool, len(todos))
	for _, td := range todos {
		existing[td.ID] = true
	}

	keys := make([]string, 0, len(ps.Programs))
	for key := range ps.Programs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	created := 0
	for _, key := range keys {
		rel := r.engine.RelativeDayIndex(ps, key, today)
		if rel < 1 {
			continue
		}

		id := EntryID(key, today)
		if existing[id] {
			continue
		}

		todos = append(todos, storage.Todo{
			ID:        id,
			Text:      r.label(key, rel),
			CreatedAt: r.store.Now(),
			Due:       today,
		})
		created++
	}

	if created > 0 {
		if err := r.store.SaveTodos(todos); err != nil {
			return 0, err
		}
	}

	// The marker advances even when nothing was created, so a day with no
	// active programs does not retry on every startup.
	if err := r.store.SetLastSyncDate(today); err != nil {
		return created, err
	}
	return created, nil
}

// label builds the entry text from the catalog's day target, falling back
// to a generic day label when the program or target is unavailable.
func (r *Runner) label(key string, rel int) string {
	prog, err := r.catalog.Get(key)
	if err != nil {
		return fmt.Sprintf("Day %d: today's program tasks", rel)
	}

	if day, ok := prog.Day(rel); ok && day.Target != "" {
		return fmt.Sprintf("%s %s, day %d: %s", prog.Icon, prog.Title, rel, day.Target)
	}
	return fmt.Sprintf("%s %s, day %d", prog.Icon, prog.Title, rel)
}
