// Package ui provides terminal user interface components for the rutina app.
// This file defines message types for async I/O operations using the Bubble Tea
// command pattern. All storage operations should return these messages to keep
// the event loop non-blocking.
package ui

import (
	"rutina/internal/storage"
)

// =============================================================================
// Program Messages
// =============================================================================

// programsLoadedMsg is sent when the programs store is loaded from storage.
type programsLoadedMsg struct {
	store *storage.ProgramsStore
	err   error
}

// programStartedMsg is sent when a program is started.
type programStartedMsg struct {
	key string
	err error
}

// programResetMsg is sent when a program is reset to day one.
type programResetMsg struct {
	key string
	err error
}

// taskToggledMsg is sent when a program task is toggled for a date.
type taskToggledMsg struct {
	key   string
	date  string
	index int
	err   error
}

// dayMarkedMsg is sent when a whole program day is marked done.
type dayMarkedMsg struct {
	key  string
	date string
	err  error
}

// =============================================================================
// To-do Messages
// =============================================================================

// todosLoadedMsg is sent when to-dos are loaded from storage.
type todosLoadedMsg struct {
	todos []storage.Todo
	err   error
}

// todoAddedMsg is sent when a new to-do is created.
type todoAddedMsg struct {
	todo *storage.Todo
	err  error
}

// todoToggledMsg is sent when a to-do's done flag is flipped.
type todoToggledMsg struct {
	id   string
	done bool
	err  error
}

// todoDeletedMsg is sent when a to-do is removed.
type todoDeletedMsg struct {
	id  string
	err error
}

// =============================================================================
// Sync and Watch Messages
// =============================================================================

// syncRanMsg is sent when the daily sync pass completes.
type syncRanMsg struct {
	created int
	err     error
}

// dataChangedMsg is sent by the file watcher when another process wrote to
// the data directory. Panes reload their state in response.
type dataChangedMsg struct{}
