// Package ui provides terminal user interface components for the rutina app.
// This file contains tea.Cmd factories that wrap storage and engine
// operations. These commands run I/O operations asynchronously to keep the
// Bubble Tea event loop responsive. Each command returns a corresponding
// message type defined in messages.go.
package ui

import (
	"rutina/internal/dailysync"
	"rutina/internal/progress"
	"rutina/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// Program Commands
// =============================================================================

// loadProgramsCmd returns a command that loads the programs store.
func loadProgramsCmd(store *storage.Storage) tea.Cmd {
	return func() tea.Msg {
		ps, err := store.LoadPrograms()
		return programsLoadedMsg{store: ps, err: err}
	}
}

// startProgramCmd returns a command that starts a program. Starting an
// already-started program is a no-op and never resets progress.
func startProgramCmd(store *storage.Storage, key string) tea.Cmd {
	return func() tea.Msg {
		_, err := store.StartProgram(key)
		return programStartedMsg{key: key, err: err}
	}
}

// resetProgramCmd returns a command that restarts a program from day one.
func resetProgramCmd(store *storage.Storage, key string) tea.Cmd {
	return func() tea.Msg {
		_, err := store.ResetProgram(key)
		return programResetMsg{key: key, err: err}
	}
}

// toggleTaskCmd returns a command that flips one task on one date.
func toggleTaskCmd(engine *progress.Engine, key, date string, index int) tea.Cmd {
	return func() tea.Msg {
		err := engine.ToggleTask(key, date, index)
		return taskToggledMsg{key: key, date: date, index: index, err: err}
	}
}

// markDayCmd returns a command that marks every task of a day as done.
func markDayCmd(engine *progress.Engine, key, date string) tea.Cmd {
	return func() tea.Msg {
		err := engine.MarkDayDone(key, date)
		return dayMarkedMsg{key: key, date: date, err: err}
	}
}

// =============================================================================
// To-do Commands
// =============================================================================

// loadTodosCmd returns a command that loads the to-do list.
func loadTodosCmd(store *storage.Storage) tea.Cmd {
	return func() tea.Msg {
		todos, err := store.LoadTodos()
		return todosLoadedMsg{todos: todos, err: err}
	}
}

// addTodoCmd returns a command that creates a new to-do due today.
func addTodoCmd(store *storage.Storage, text string) tea.Cmd {
	return func() tea.Msg {
		todo, err := store.AddTodo(text, "")
		return todoAddedMsg{todo: todo, err: err}
	}
}

// toggleTodoCmd returns a command that flips a to-do's done flag.
func toggleTodoCmd(store *storage.Storage, id string) tea.Cmd {
	return func() tea.Msg {
		done, err := store.ToggleTodo(id)
		return todoToggledMsg{id: id, done: done, err: err}
	}
}

// deleteTodoCmd returns a command that removes a to-do.
func deleteTodoCmd(store *storage.Storage, id string) tea.Cmd {
	return func() tea.Msg {
		err := store.DeleteTodo(id)
		return todoDeletedMsg{id: id, err: err}
	}
}

// =============================================================================
// Sync Commands
// =============================================================================

// runSyncCmd returns a command that runs the daily sync pass. The runner
// guards itself with the persisted marker, so calling this more than once a
// day is harmless.
func runSyncCmd(runner *dailysync.Runner) tea.Cmd {
	if runner == nil {
		return nil
	}
	return func() tea.Msg {
		created, err := runner.Run()
		return syncRanMsg{created: created, err: err}
	}
}
