// Package catalog defines the built-in registry of program definitions.
// A program is a fixed-length, multi-day plan: day i (0-based) of the
// definition corresponds to relative day i+1 of a started program. The
// catalog is compiled into the binary and never persisted.
package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get for unknown program keys. An unknown key
// here is a configuration error, not a runtime condition: persisted state
// referencing it is pruned by the storage normalization pass instead.
var ErrNotFound = errors.New("program not found")

// Task is a single checkable item within a program day.
type Task struct {
	Label  string `json:"label"`
	Detail string `json:"detail,omitempty"`
}

// Day is one day of a program: an ordered, non-empty task list plus an
// optional human-readable target used for daily to-do labels.
type Day struct {
	Target string `json:"target,omitempty"`
	Tasks  []Task `json:"tasks"`
}

// Program is an immutable program definition. Days has a fixed length (the
// program duration) and each day's task count is fixed.
type Program struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
	Days  []Day  `json:"days"`
}

// Duration returns the program length in days.
func (p *Program) Duration() int {
	return len(p.Days)
}

// Day returns the definition for a 1-based relative day index.
func (p *Program) Day(rel int) (Day, bool) {
	if rel < 1 || rel > len(p.Days) {
		return Day{}, false
	}
	return p.Days[rel-1], true
}

// TaskCount returns the number of tasks on a 1-based relative day, or 0 if
// the index is outside the program.
func (p *Program) TaskCount(rel int) int {
	day, ok := p.Day(rel)
	if !ok {
		return 0
	}
	return len(day.Tasks)
}

// Catalog is a read-only lookup of program definitions.
type Catalog struct {
	programs map[string]*Program
	order    []string
}

// New builds a catalog from the given programs, preserving order.
func New(programs ...*Program) *Catalog {
	c := &Catalog{programs: make(map[string]*Program, len(programs))}
	for _, p := range programs {
		if _, exists := c.programs[p.Key]; exists {
			continue
		}
		c.programs[p.Key] = p
		c.order = append(c.order, p.Key)
	}
	return c
}

// Default returns the catalog of built-in programs.
func Default() *Catalog {
	return New(lectura(), meditacion(), ejercicio())
}

// Get returns the program for key, or ErrNotFound.
func (c *Catalog) Get(key string) (*Program, error) {
	p, ok := c.programs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return p, nil
}

// Has reports whether key is a known program.
func (c *Catalog) Has(key string) bool {
	_, ok := c.programs[key]
	return ok
}

// List returns all programs in definition order.
func (c *Catalog) List() []*Program {
	out := make([]*Program, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.programs[key])
	}
	return out
}

// lectura is a 21-day reading plan with three tasks per day.
func lectura() *Program {
	days := make([]Day, 21)
	for i := range days {
		days[i] = Day{
			Target: fmt.Sprintf("Read pages %d to %d", i*15+1, (i+1)*15),
			Tasks: []Task{
				{Label: "Read today's pages", Detail: "At least 15 pages, no skimming"},
				{Label: "Write one takeaway", Detail: "A sentence or two in your notes"},
				{Label: "Review yesterday's takeaway"},
			},
		}
	}
	return &Program{Key: "lectura", Title: "Reading", Icon: "📖", Days: days}
}

// meditacion is a 30-day meditation plan. Sit length ramps up every three
// days, from 5 to 14 minutes.
func meditacion() *Program {
	days := make([]Day, 30)
	for i := range days {
		minutes := 5 + i/3
		days[i] = Day{
			Target: fmt.Sprintf("%d minute sit", minutes),
			Tasks: []Task{
				{Label: fmt.Sprintf("Morning sit (%d min)", minutes)},
				{Label: "Evening check-in", Detail: "One line on how the sit went"},
			},
		}
	}
	return &Program{Key: "meditacion", Title: "Meditation", Icon: "🧘", Days: days}
}

// ejercicio is a 14-day exercise starter. Every fourth day is a recovery
// day with a single task; a recovery day still has at least one task so it
// can never count as complete without action.
func ejercicio() *Program {
	days := make([]Day, 14)
	for i := range days {
		if (i+1)%4 == 0 {
			days[i] = Day{
				Target: "Recovery",
				Tasks: []Task{
					{Label: "Stretch for 10 minutes"},
				},
			}
			continue
		}
		days[i] = Day{
			Target: "Full session",
			Tasks: []Task{
				{Label: "Warm up (5 min)"},
				{Label: "Main workout (20 min)"},
				{Label: "Cool down and log it"},
			},
		}
	}
	return &Program{Key: "ejercicio", Title: "Exercise", Icon: "🏃", Days: days}
}
