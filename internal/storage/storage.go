// Package storage handles all file I/O for the rutina app: the versioned
// programs store, the generic to-do list, and the daily-sync marker. Every
// value is a JSON document in the data directory, written atomically.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rutina/internal/catalog"
	"rutina/internal/dateutil"
	"rutina/internal/fsutil"

	"github.com/google/uuid"
)

const (
	programsFile = "programs.json"
	todosFile    = "todos.json"
	markerFile   = "daily_sync.json"

	dataDirPerm  os.FileMode = 0700
	dataFilePerm os.FileMode = 0600

	maxTodoTextLen = 200
)

// Storage handles all file I/O operations.
type Storage struct {
	dataDir    string
	catalog    *catalog.Catalog
	onSave     func(filename string) // callback triggered after file saves
	now        func() time.Time      // injectable clock for deterministic tests
	normalized bool                  // guards the once-per-session pruning pass
}

// New creates a Storage instance rooted at dataDir. The catalog is needed
// to expand legacy completion records and to validate task indices.
func New(dataDir string, cat *catalog.Catalog) (*Storage, error) {
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Storage{dataDir: dataDir, catalog: cat, now: time.Now}

	if err := s.initFiles(); err != nil {
		return nil, err
	}

	return s, nil
}

// SetNowFunc overrides the clock used by time-dependent operations.
// Passing nil resets it to time.Now.
func (s *Storage) SetNowFunc(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// Now returns the current time according to the storage clock.
func (s *Storage) Now() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// TodayKey returns today's YYYY-MM-DD key according to the storage clock.
func (s *Storage) TodayKey() string {
	return dateutil.Key(s.Now())
}

// SetOnSave registers a callback to be called after each file save.
func (s *Storage) SetOnSave(fn func(filename string)) {
	s.onSave = fn
}

// GetDataDir returns the path to the data directory.
func (s *Storage) GetDataDir() string {
	return s.dataDir
}

// Catalog returns the program catalog this storage validates against.
func (s *Storage) Catalog() *catalog.Catalog {
	return s.catalog
}

// initFiles creates default JSON files if they don't exist. The sync
// marker is deliberately not created here; a missing marker reads as
// "never synced".
func (s *Storage) initFiles() error {
	if !fileExists(s.path(programsFile)) {
		if err := s.SavePrograms(&ProgramsStore{Programs: map[string]*ProgramState{}}); err != nil {
			return err
		}
	}

	if !fileExists(s.path(todosFile)) {
		if err := s.SaveTodos([]Todo{}); err != nil {
			return err
		}
	}

	return nil
}

func (s *Storage) path(filename string) string {
	return filepath.Join(s.dataDir, filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

func (s *Storage) writeJSONAtomic(filename string, v any) error {
	path := s.path(filename)
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize %s: %w", filename, err)
	}

	// Keep a best-effort backup before overwriting.
	fsutil.BestEffortBackup(path, dataFilePerm)

	if err := fsutil.WriteFileAtomic(path, data, dataFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}

	if s.onSave != nil {
		s.onSave(filename)
	}

	return nil
}

func (s *Storage) loadJSONWithRecovery(filename string, v any) error {
	path := s.path(filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s.writeJSONAtomic(filename, v)
		}
		return fmt.Errorf("read %s: %w", filename, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return s.recoverCorruptJSON(filename, v, fmt.Errorf("%s is empty", filename))
	}

	if err := json.Unmarshal(data, v); err == nil {
		return nil
	}
	return s.recoverCorruptJSON(filename, v, fmt.Errorf("parse %s: %w", filename, err))
}

// recoverCorruptJSON tries the .bak copy, then quarantines the broken file
// and resets to whatever default v already holds. The returned error is a
// notice: v is always usable afterwards.
func (s *Storage) recoverCorruptJSON(filename string, v any, cause error) error {
	path := s.path(filename)

	bakData, bakErr := os.ReadFile(path + ".bak")
	if bakErr == nil && len(bytes.TrimSpace(bakData)) > 0 {
		if err := json.Unmarshal(bakData, v); err == nil {
			corruptPath := fmt.Sprintf("%s.corrupt.%s", path, time.Now().Format("20060102-150405"))
			_ = os.Rename(path, corruptPath)
			_ = s.writeJSONAtomic(filename, v)
			return fmt.Errorf("%s (recovered from %s.bak)", cause.Error(), filename)
		}
	}

	corruptPath := fmt.Sprintf("%s.corrupt.%s", path, time.Now().Format("20060102-150405"))
	_ = os.Rename(path, corruptPath)
	_ = s.writeJSONAtomic(filename, v)
	return fmt.Errorf("%s (reset to defaults; original moved to %s)", cause.Error(), corruptPath)
}

// ============================================================================
// Programs
// ============================================================================

// LoadPrograms reads the programs store, migrating legacy shapes in memory.
// A migrated store is not persisted here; it is written in the current
// shape by the next SavePrograms. Malformed data degrades to an empty
// store, with the error carrying the recovery notice.
func (s *Storage) LoadPrograms() (*ProgramsStore, error) {
	store, _, err := s.loadPrograms()
	return store, err
}

// loadPrograms also reports whether migration changed anything, so the
// normalization pass can batch a single write.
func (s *Storage) loadPrograms() (*ProgramsStore, bool, error) {
	path := s.path(programsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fresh := &ProgramsStore{Version: SchemaVersion, Programs: map[string]*ProgramState{}}
			return fresh, false, s.writeJSONAtomic(programsFile, fresh)
		}
		return emptyPrograms(), false, fmt.Errorf("read %s: %w", programsFile, err)
	}

	store, dirty, decErr := DecodePrograms(data, s.catalog)
	if decErr == nil {
		return store, dirty, nil
	}

	// Corrupt document: try the backup, then quarantine and reset.
	bakData, bakErr := os.ReadFile(path + ".bak")
	if bakErr == nil {
		if store, dirty, err := DecodePrograms(bakData, s.catalog); err == nil {
			corruptPath := fmt.Sprintf("%s.corrupt.%s", path, time.Now().Format("20060102-150405"))
			_ = os.Rename(path, corruptPath)
			_ = s.writeJSONAtomic(programsFile, store)
			return store, dirty, fmt.Errorf("parse %s: %v (recovered from %s.bak)", programsFile, decErr, programsFile)
		}
	}

	corruptPath := fmt.Sprintf("%s.corrupt.%s", path, time.Now().Format("20060102-150405"))
	_ = os.Rename(path, corruptPath)
	fresh := emptyPrograms()
	_ = s.writeJSONAtomic(programsFile, fresh)
	return fresh, false, fmt.Errorf("parse %s: %v (reset to defaults; original moved to %s)", programsFile, decErr, corruptPath)
}

func emptyPrograms() *ProgramsStore {
	return &ProgramsStore{Version: SchemaVersion, Programs: map[string]*ProgramState{}}
}

// SavePrograms persists the whole store atomically, always in the current
// schema version.
func (s *Storage) SavePrograms(store *ProgramsStore) error {
	store.Version = SchemaVersion
	if store.Programs == nil {
		store.Programs = map[string]*ProgramState{}
	}
	return s.writeJSONAtomic(programsFile, store)
}

// StartProgram creates fresh state for key if none exists. Calling it for
// an already-started program is a no-op and never resets progress.
func (s *Storage) StartProgram(key string) (*ProgramState, error) {
	if _, err := s.catalog.Get(key); err != nil {
		return nil, err
	}

	store, err := s.LoadPrograms()
	if err != nil {
		return nil, err
	}

	if state, ok := store.Programs[key]; ok {
		return state, nil
	}

	state := &ProgramState{
		StartDate:       s.TodayKey(),
		CompletedByDate: map[string][]int{},
	}
	store.Programs[key] = state

	if err := s.SavePrograms(store); err != nil {
		return nil, err
	}
	return state, nil
}

// ResetProgram unconditionally replaces key's state with a fresh start
// dated today. Used by explicit user action only.
func (s *Storage) ResetProgram(key string) (*ProgramState, error) {
	if _, err := s.catalog.Get(key); err != nil {
		return nil, err
	}

	store, err := s.LoadPrograms()
	if err != nil {
		return nil, err
	}

	state := &ProgramState{
		StartDate:       s.TodayKey(),
		CompletedByDate: map[string][]int{},
	}
	store.Programs[key] = state

	if err := s.SavePrograms(store); err != nil {
		return nil, err
	}
	return state, nil
}

// NormalizePrograms runs the maintenance pass at most once per session:
// drops programs missing from the catalog, drops records for dates before
// the program started, prunes out-of-range and duplicate task indices, and
// persists once at the end if anything changed.
func (s *Storage) NormalizePrograms() (bool, error) {
	if s.normalized {
		return false, nil
	}
	s.normalized = true

	store, dirty, err := s.loadPrograms()
	if err != nil {
		return false, err
	}

	if Normalize(store, s.catalog) {
		dirty = true
	}

	if !dirty {
		return false, nil
	}
	return true, s.SavePrograms(store)
}

// ============================================================================
// To-dos
// ============================================================================

// LoadTodos reads the generic to-do list. The persisted form is a bare
// JSON array.
func (s *Storage) LoadTodos() ([]Todo, error) {
	todos := []Todo{}
	err := s.loadJSONWithRecovery(todosFile, &todos)
	if todos == nil {
		todos = []Todo{}
	}
	return todos, err
}

// SaveTodos writes the to-do list to disk.
func (s *Storage) SaveTodos(todos []Todo) error {
	if todos == nil {
		todos = []Todo{}
	}
	return s.writeJSONAtomic(todosFile, todos)
}

// AddTodo creates a user-entered to-do. due may be empty or a YYYY-MM-DD
// date key.
func (s *Storage) AddTodo(text, due string) (*Todo, error) {
	text = strings.TrimSpace(text)
	due = strings.TrimSpace(due)

	if text == "" {
		return nil, fmt.Errorf("todo text is required")
	}
	if len(text) > maxTodoTextLen {
		return nil, fmt.Errorf("todo text too long (max %d)", maxTodoTextLen)
	}
	if due != "" {
		if _, err := dateutil.Parse(due); err != nil {
			return nil, fmt.Errorf("invalid due date %q: expected YYYY-MM-DD", due)
		}
	}

	todos, err := s.LoadTodos()
	if err != nil {
		return nil, err
	}

	todo := Todo{
		ID:        "td_" + uuid.NewString(),
		Text:      text,
		CreatedAt: s.Now(),
		Due:       due,
	}
	todos = append(todos, todo)

	if err := s.SaveTodos(todos); err != nil {
		return nil, err
	}
	return &todo, nil
}

// ToggleTodo flips the done flag of the entry with the given id.
func (s *Storage) ToggleTodo(id string) (bool, error) {
	todos, err := s.LoadTodos()
	if err != nil {
		return false, err
	}

	for i := range todos {
		if todos[i].ID == id {
			todos[i].Done = !todos[i].Done
			if err := s.SaveTodos(todos); err != nil {
				return false, err
			}
			return todos[i].Done, nil
		}
	}

	return false, fmt.Errorf("todo not found: %s", id)
}

// DeleteTodo removes the entry with the given id.
func (s *Storage) DeleteTodo(id string) error {
	todos, err := s.LoadTodos()
	if err != nil {
		return err
	}

	for i := range todos {
		if todos[i].ID == id {
			todos = append(todos[:i], todos[i+1:]...)
			return s.SaveTodos(todos)
		}
	}

	return fmt.Errorf("todo not found: %s", id)
}

// ============================================================================
// Daily-sync marker
// ============================================================================

// LastSyncDate returns the date key of the last daily sync, or "" if the
// sync has never run or the marker is unreadable.
func (s *Storage) LastSyncDate() string {
	data, err := os.ReadFile(s.path(markerFile))
	if err != nil {
		return ""
	}

	var date string
	if err := json.Unmarshal(data, &date); err != nil {
		return ""
	}
	if _, err := dateutil.Parse(date); err != nil {
		return ""
	}
	return date
}

// SetLastSyncDate writes the daily-sync marker. The marker lives in its own
// file so resetting it can never touch program state.
func (s *Storage) SetLastSyncDate(date string) error {
	if _, err := dateutil.Parse(date); err != nil {
		return fmt.Errorf("invalid sync date %q: expected YYYY-MM-DD", date)
	}
	return s.writeJSONAtomic(markerFile, date)
}
