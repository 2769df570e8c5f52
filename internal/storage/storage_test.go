package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rutina/internal/catalog"
)

func createTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(t.TempDir(), catalog.Default())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func fixedClock(date string) func() time.Time {
	return func() time.Time {
		ts, _ := time.ParseInLocation("2006-01-02", date, time.Local)
		return ts
	}
}

func TestNewCreatesDefaultFiles(t *testing.T) {
	dir := t.TempDir()
	if _, err := New(dir, catalog.Default()); err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for _, name := range []string{"programs.json", "todos.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}

	// The sync marker must not be created up front: its absence means
	// "never synced".
	if _, err := os.Stat(filepath.Join(dir, "daily_sync.json")); !os.IsNotExist(err) {
		t.Error("daily_sync.json should not exist before the first sync")
	}
}

func TestStartProgram(t *testing.T) {
	s := createTestStorage(t)
	s.SetNowFunc(fixedClock("2024-03-10"))

	state, err := s.StartProgram("lectura")
	if err != nil {
		t.Fatalf("StartProgram() error = %v", err)
	}
	if state.StartDate != "2024-03-10" {
		t.Errorf("StartDate = %q, want 2024-03-10", state.StartDate)
	}
	if state.CompletedByDate == nil {
		t.Error("CompletedByDate should be initialized")
	}
}

func TestStartProgramIdempotent(t *testing.T) {
	s := createTestStorage(t)
	s.SetNowFunc(fixedClock("2024-03-10"))

	if _, err := s.StartProgram("lectura"); err != nil {
		t.Fatalf("StartProgram() error = %v", err)
	}

	// Record some progress, then start again under a later clock.
	store, err := s.LoadPrograms()
	if err != nil {
		t.Fatalf("LoadPrograms() error = %v", err)
	}
	store.Programs["lectura"].CompletedByDate["2024-03-10"] = []int{0, 1}
	if err := s.SavePrograms(store); err != nil {
		t.Fatalf("SavePrograms() error = %v", err)
	}

	s.SetNowFunc(fixedClock("2024-03-15"))
	state, err := s.StartProgram("lectura")
	if err != nil {
		t.Fatalf("StartProgram() second call error = %v", err)
	}
	if state.StartDate != "2024-03-10" {
		t.Errorf("StartDate = %q after re-start, want original 2024-03-10", state.StartDate)
	}
	if len(state.CompletedByDate["2024-03-10"]) != 2 {
		t.Error("re-starting a program must not discard progress")
	}
}

func TestStartProgramUnknownKey(t *testing.T) {
	s := createTestStorage(t)

	if _, err := s.StartProgram("nope"); err == nil {
		t.Fatal("StartProgram() expected error for unknown key")
	}

	store, err := s.LoadPrograms()
	if err != nil {
		t.Fatalf("LoadPrograms() error = %v", err)
	}
	if len(store.Programs) != 0 {
		t.Error("a failed start must not create state")
	}
}

func TestResetProgram(t *testing.T) {
	s := createTestStorage(t)
	s.SetNowFunc(fixedClock("2024-03-10"))

	if _, err := s.StartProgram("lectura"); err != nil {
		t.Fatalf("StartProgram() error = %v", err)
	}
	store, _ := s.LoadPrograms()
	store.Programs["lectura"].CompletedByDate["2024-03-10"] = []int{0, 1, 2}
	if err := s.SavePrograms(store); err != nil {
		t.Fatalf("SavePrograms() error = %v", err)
	}

	s.SetNowFunc(fixedClock("2024-04-01"))
	state, err := s.ResetProgram("lectura")
	if err != nil {
		t.Fatalf("ResetProgram() error = %v", err)
	}
	if state.StartDate != "2024-04-01" {
		t.Errorf("StartDate = %q after reset, want 2024-04-01", state.StartDate)
	}
	if len(state.CompletedByDate) != 0 {
		t.Error("reset must discard all completion records")
	}
}

func TestSaveProgramsForcesVersion(t *testing.T) {
	s := createTestStorage(t)

	if err := s.SavePrograms(&ProgramsStore{Version: 1}); err != nil {
		t.Fatalf("SavePrograms() error = %v", err)
	}

	store, err := s.LoadPrograms()
	if err != nil {
		t.Fatalf("LoadPrograms() error = %v", err)
	}
	if store.Version != SchemaVersion {
		t.Errorf("Version = %d, want %d", store.Version, SchemaVersion)
	}
}

func TestAddTodo(t *testing.T) {
	s := createTestStorage(t)

	todo, err := s.AddTodo("  buy milk  ", "")
	if err != nil {
		t.Fatalf("AddTodo() error = %v", err)
	}
	if todo.Text != "buy milk" {
		t.Errorf("Text = %q, want trimmed", todo.Text)
	}
	if !strings.HasPrefix(todo.ID, "td_") {
		t.Errorf("ID = %q, want td_ prefix", todo.ID)
	}
	if todo.Done {
		t.Error("new todo should not be done")
	}

	todos, err := s.LoadTodos()
	if err != nil {
		t.Fatalf("LoadTodos() error = %v", err)
	}
	if len(todos) != 1 {
		t.Fatalf("got %d todos, want 1", len(todos))
	}
}

func TestAddTodoValidation(t *testing.T) {
	s := createTestStorage(t)

	tests := []struct {
		name string
		text string
		due  string
	}{
		{"empty text", "", ""},
		{"whitespace text", "   ", ""},
		{"too long", strings.Repeat("x", maxTodoTextLen+1), ""},
		{"bad due date", "ok", "not-a-date"},
		{"due wrong format", "ok", "01/02/2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.AddTodo(tt.text, tt.due); err == nil {
				t.Error("AddTodo() expected error")
			}
		})
	}
}

func TestToggleTodo(t *testing.T) {
	s := createTestStorage(t)

	todo, err := s.AddTodo("task", "")
	if err != nil {
		t.Fatalf("AddTodo() error = %v", err)
	}

	done, err := s.ToggleTodo(todo.ID)
	if err != nil {
		t.Fatalf("ToggleTodo() error = %v", err)
	}
	if !done {
		t.Error("first toggle should mark done")
	}

	done, err = s.ToggleTodo(todo.ID)
	if err != nil {
		t.Fatalf("ToggleTodo() error = %v", err)
	}
	if done {
		t.Error("second toggle should mark undone")
	}
}

func TestToggleTodoNotFound(t *testing.T) {
	s := createTestStorage(t)

	if _, err := s.ToggleTodo("td_missing"); err == nil {
		t.Error("ToggleTodo() expected error for unknown id")
	}
}

func TestDeleteTodo(t *testing.T) {
	s := createTestStorage(t)

	a, _ := s.AddTodo("first", "")
	b, _ := s.AddTodo("second", "")

	if err := s.DeleteTodo(a.ID); err != nil {
		t.Fatalf("DeleteTodo() error = %v", err)
	}

	todos, _ := s.LoadTodos()
	if len(todos) != 1 || todos[0].ID != b.ID {
		t.Errorf("got %d todos after delete, want only %q", len(todos), b.ID)
	}

	if err := s.DeleteTodo(a.ID); err == nil {
		t.Error("DeleteTodo() expected error for already-deleted id")
	}
}

func TestSyncMarker(t *testing.T) {
	s := createTestStorage(t)

	if got := s.LastSyncDate(); got != "" {
		t.Errorf("LastSyncDate() = %q before first sync, want empty", got)
	}

	if err := s.SetLastSyncDate("2024-03-10"); err != nil {
		t.Fatalf("SetLastSyncDate() error = %v", err)
	}
	if got := s.LastSyncDate(); got != "2024-03-10" {
		t.Errorf("LastSyncDate() = %q, want 2024-03-10", got)
	}

	if err := s.SetLastSyncDate("yesterday"); err == nil {
		t.Error("SetLastSyncDate() expected error for malformed date")
	}
}

func TestSyncMarkerCorrupt(t *testing.T) {
	s := createTestStorage(t)

	if err := os.WriteFile(filepath.Join(s.GetDataDir(), "daily_sync.json"), []byte("{broken"), 0600); err != nil {
		t.Fatal(err)
	}
	if got := s.LastSyncDate(); got != "" {
		t.Errorf("LastSyncDate() = %q for corrupt marker, want empty", got)
	}
}

func TestLoadProgramsCorruptResets(t *testing.T) {
	s := createTestStorage(t)
	path := filepath.Join(s.GetDataDir(), "programs.json")

	if err := os.WriteFile(path, []byte("{not json at all"), 0600); err != nil {
		t.Fatal(err)
	}
	// Remove the backup left by initFiles so recovery has nothing to fall
	// back on.
	os.Remove(path + ".bak")

	store, err := s.LoadPrograms()
	if err == nil {
		t.Error("LoadPrograms() expected recovery notice for corrupt file")
	}
	if store == nil || store.Programs == nil {
		t.Fatal("LoadPrograms() must return a usable store even on corruption")
	}
	if len(store.Programs) != 0 {
		t.Error("recovered store should be empty")
	}

	// The broken original is quarantined, not lost.
	matches, _ := filepath.Glob(path + ".corrupt.*")
	if len(matches) == 0 {
		t.Error("corrupt programs.json should be quarantined with a .corrupt suffix")
	}
}

func TestLoadProgramsRecoverFromBackup(t *testing.T) {
	s := createTestStorage(t)
	s.SetNowFunc(fixedClock("2024-03-10"))

	if _, err := s.StartProgram("lectura"); err != nil {
		t.Fatalf("StartProgram() error = %v", err)
	}
	// Force another save so programs.json.bak holds the started state.
	store, _ := s.LoadPrograms()
	if err := s.SavePrograms(store); err != nil {
		t.Fatalf("SavePrograms() error = %v", err)
	}

	path := filepath.Join(s.GetDataDir(), "programs.json")
	if err := os.WriteFile(path, []byte("garbage"), 0600); err != nil {
		t.Fatal(err)
	}

	recovered, err := s.LoadPrograms()
	if err == nil {
		t.Error("LoadPrograms() expected recovery notice")
	}
	if _, ok := recovered.Programs["lectura"]; !ok {
		t.Error("backup recovery should restore the started program")
	}
}

func TestNormalizeProgramsOncePerSession(t *testing.T) {
	s := createTestStorage(t)
	s.SetNowFunc(fixedClock("2024-03-10"))

	// Seed state that normalization will prune: an unknown program and a
	// record dated before the start.
	store, _ := s.LoadPrograms()
	store.Programs["lectura"] = &ProgramState{
		StartDate: "2024-03-05",
		CompletedByDate: map[string][]int{
			"2024-03-01": {0},       // before start
			"2024-03-06": {0, 0, 9}, // dup and out-of-range indices
		},
	}
	store.Programs["retired"] = &ProgramState{StartDate: "2024-03-05", CompletedByDate: map[string][]int{}}
	if err := s.SavePrograms(store); err != nil {
		t.Fatalf("SavePrograms() error = %v", err)
	}

	saves := 0
	s.SetOnSave(func(string) { saves++ })

	changed, err := s.NormalizePrograms()
	if err != nil {
		t.Fatalf("NormalizePrograms() error = %v", err)
	}
	if !changed {
		t.Error("NormalizePrograms() should report changes")
	}
	if saves != 1 {
		t.Errorf("normalization wrote %d times, want a single batched write", saves)
	}

	store, _ = s.LoadPrograms()
	if _, ok := store.Programs["retired"]; ok {
		t.Error("unknown program should be pruned")
	}
	if _, ok := store.Programs["lectura"].CompletedByDate["2024-03-01"]; ok {
		t.Error("pre-start record should be pruned")
	}
	if got := store.Programs["lectura"].CompletedByDate["2024-03-06"]; len(got) != 1 || got[0] != 0 {
		t.Errorf("indices = %v after normalize, want [0]", got)
	}

	// Second call in the same session is a guarded no-op.
	changed, err = s.NormalizePrograms()
	if err != nil {
		t.Fatalf("NormalizePrograms() second call error = %v", err)
	}
	if changed || saves != 1 {
		t.Error("NormalizePrograms() must run at most once per session")
	}
}

func TestOnSaveCallback(t *testing.T) {
	s := createTestStorage(t)

	var saved []string
	s.SetOnSave(func(filename string) { saved = append(saved, filename) })

	if _, err := s.AddTodo("task", ""); err != nil {
		t.Fatalf("AddTodo() error = %v", err)
	}
	if len(saved) != 1 || saved[0] != "todos.json" {
		t.Errorf("onSave calls = %v, want [todos.json]", saved)
	}
}
