package ui

import (
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// watchedFiles are the data files whose changes trigger a reload. Backups,
// .bak copies and atomic-write temp files are ignored.
var watchedFiles = map[string]bool{
	"programs.json":   true,
	"todos.json":      true,
	"daily_sync.json": true,
}

// StartWatcher watches the data directory and sends dataChangedMsg to the
// program when another process writes one of the data files. Events are
// debounced so a burst of writes produces a single reload. The returned
// cleanup function stops the watcher.
func StartWatcher(dataDir string, program *tea.Program) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(dataDir); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})

	go func() {
		var debounceTimer *time.Timer

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !watchedFiles[filepath.Base(event.Name)] {
					continue
				}

				// Debounce: wait 200ms after last change
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(200*time.Millisecond, func() {
					program.Send(dataChangedMsg{})
				})

			case <-watcher.Errors:
				// Ignore watcher errors silently

			case <-done:
				return
			}
		}
	}()

	cleanup := func() {
		close(done)
		watcher.Close()
	}

	return cleanup, nil
}
