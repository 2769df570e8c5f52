package storage

import (
	"encoding/json"
	"fmt"
	"sort"

	"rutina/internal/catalog"
)

// DecodePrograms parses a programs.json document of any known schema
// version and migrates it to the current shape in memory. The dirty flag
// reports whether migration changed anything, so callers decide when to
// persist (batch semantics). Returns an error only when the document is
// unusable in every known shape.
func DecodePrograms(data []byte, cat *catalog.Catalog) (*ProgramsStore, bool, error) {
	var store ProgramsStore
	if err := json.Unmarshal(data, &store); err == nil {
		// A legacy v1 file is a flat program map with no version field; it
		// decodes into the versioned struct as an empty store, so fall
		// through to the flat parse in that case.
		if store.Version > 0 || store.Programs != nil {
			dirty := migrate(&store, cat)
			return &store, dirty, nil
		}
	}

	var flat map[string]*ProgramState
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, false, fmt.Errorf("unrecognized programs document: %w", err)
	}
	store = ProgramsStore{Version: 1, Programs: flat}
	dirty := migrate(&store, cat)
	return &store, dirty, nil
}

// migrate upgrades a store to the current schema version in memory:
// nil maps are initialized and legacy completed_dates lists are expanded
// to full per-task index sets using the catalog's task counts. Dates whose
// relative day has no tasks (unknown program, out of range, or an empty
// day) are dropped rather than recorded as vacuously complete.
func migrate(store *ProgramsStore, cat *catalog.Catalog) bool {
	dirty := false

	if store.Version != SchemaVersion {
		store.Version = SchemaVersion
		dirty = true
	}
	if store.Programs == nil {
		store.Programs = map[string]*ProgramState{}
		dirty = true
	}

	for key, state := range store.Programs {
		if state == nil {
			delete(store.Programs, key)
			dirty = true
			continue
		}
		if state.CompletedByDate == nil {
			state.CompletedByDate = map[string][]int{}
			dirty = true
		}
		if state.CompletedDates == nil {
			continue
		}

		prog, err := cat.Get(key)
		for _, date := range state.CompletedDates {
			if err != nil {
				continue // unknown program: the pruning pass drops it whole
			}
			if _, exists := state.CompletedByDate[date]; exists {
				continue // per-task data wins over the legacy flat list
			}
			n := prog.TaskCount(state.RelativeDay(date))
			if n <= 0 {
				continue
			}
			full := make([]int, n)
			for i := range full {
				full[i] = i
			}
			state.CompletedByDate[date] = full
		}
		state.CompletedDates = nil
		dirty = true
	}

	return dirty
}

// Normalize runs the pruning pass over a loaded store: programs missing
// from the catalog are dropped, date records from before the program
// started are dropped, and task indices are de-duplicated and clamped to
// the day's task count. Returns whether anything changed; it never writes.
func Normalize(store *ProgramsStore, cat *catalog.Catalog) bool {
	dirty := false

	for key, state := range store.Programs {
		prog, err := cat.Get(key)
		if err != nil {
			delete(store.Programs, key)
			dirty = true
			continue
		}

		for date, indices := range state.CompletedByDate {
			rel := state.RelativeDay(date)
			if rel <= 0 {
				delete(state.CompletedByDate, date)
				dirty = true
				continue
			}

			cleaned := cleanIndices(indices, prog.TaskCount(rel))
			if !equalInts(cleaned, indices) {
				state.CompletedByDate[date] = cleaned
				dirty = true
			}
		}
	}

	return dirty
}

// cleanIndices filters indices to unique integers in [0, taskCount),
// sorted ascending.
func cleanIndices(indices []int, taskCount int) []int {
	seen := make(map[int]struct{}, len(indices))
	cleaned := make([]int, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= taskCount {
			continue
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		cleaned = append(cleaned, idx)
	}
	sort.Ints(cleaned)
	return cleaned
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
