package storage

import (
	"time"

	"rutina/internal/dateutil"
)

// SchemaVersion is the current programs.json schema version. Version 1
// files (no version field, flat program map, completed_dates lists) are
// migrated on load and written back in the current shape on the next save.
const SchemaVersion = 2

// ProgramState is the persisted progress for one started program.
type ProgramState struct {
	// StartDate is the YYYY-MM-DD date of relative day 1.
	StartDate string `json:"start_date"`

	// CompletedByDate maps a YYYY-MM-DD date to the 0-based task indices
	// marked done on that date.
	CompletedByDate map[string][]int `json:"completed_by_date"`

	// CompletedDates is the legacy v1 field: dates considered fully done
	// with no per-task granularity. Accepted on read only; migration
	// expands each date to the full index set and clears this field.
	CompletedDates []string `json:"completed_dates,omitempty"`
}

// RelativeDay returns the 1-based day index of a YYYY-MM-DD date within
// this program, counted from StartDate. The result may be zero or negative
// (before the start) or beyond the program duration; callers clamp against
// the catalog. Returns 0 if either date is missing or malformed.
func (ps *ProgramState) RelativeDay(date string) int {
	if ps == nil || ps.StartDate == "" {
		return 0
	}
	start, err := dateutil.Parse(ps.StartDate)
	if err != nil {
		return 0
	}
	d, err := dateutil.Parse(date)
	if err != nil {
		return 0
	}
	return dateutil.DiffDays(d, start) + 1
}

// DoneCount returns how many distinct in-range task indices are recorded
// for date, given the day's task count.
func (ps *ProgramState) DoneCount(date string, taskCount int) int {
	if ps == nil || taskCount <= 0 {
		return 0
	}
	seen := make(map[int]struct{}, taskCount)
	for _, idx := range ps.CompletedByDate[date] {
		if idx >= 0 && idx < taskCount {
			seen[idx] = struct{}{}
		}
	}
	return len(seen)
}

// ProgramsStore holds the state of every started program, keyed by program
// key. It is read-modify-written as a whole on every mutation.
type ProgramsStore struct {
	Version  int                      `json:"version"`
	Programs map[string]*ProgramState `json:"programs"`
}

// Todo is a single entry in the generic to-do list. Program-derived
// entries carry a deterministic "prog:<key>:<date>" id, which is the
// dedup mechanism for the daily sync; user-created entries get a uuid.
type Todo struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Due       string    `json:"due,omitempty"` // YYYY-MM-DD
	Done      bool      `json:"done"`
	Permanent bool      `json:"permanent,omitempty"`
}
