package progress

import (
	"testing"
	"time"

	"rutina/internal/catalog"
	"rutina/internal/dateutil"
	"rutina/internal/storage"
)

func createTestEngine(t *testing.T) (*Engine, *storage.Storage) {
	t.Helper()
	cat := catalog.Default()
	s, err := storage.New(t.TempDir(), cat)
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	return New(s, cat), s
}

func fixedClock(date string) func() time.Time {
	return func() time.Time {
		ts, _ := time.ParseInLocation(dateutil.Layout, date, time.Local)
		return ts
	}
}

func mustLoad(t *testing.T, s *storage.Storage) *storage.ProgramsStore {
	t.Helper()
	ps, err := s.LoadPrograms()
	if err != nil {
		t.Fatalf("LoadPrograms() error = %v", err)
	}
	return ps
}

func TestRelativeDayIndex(t *testing.T) {
	e, s := createTestEngine(t)
	s.SetNowFunc(fixedClock("2024-03-01"))
	if _, err := s.StartProgram("lectura"); err != nil {
		t.Fatal(err)
	}
	ps := mustLoad(t, s)

	tests := []struct {
		date string
		want int
	}{
		{"2024-03-01", 1},
		{"2024-03-05", 5},
		{"2024-03-21", 21}, // last day of the 21-day program
		{"2024-03-22", 0},  // past the end
		{"2024-02-29", 0},  // before the start
	}
	for _, tt := range tests {
		if got := e.RelativeDayIndex(ps, "lectura", tt.date); got != tt.want {
			t.Errorf("RelativeDayIndex(%s) = %d, want %d", tt.date, got, tt.want)
		}
	}

	if got := e.RelativeDayIndex(ps, "meditacion", "2024-03-01"); got != 0 {
		t.Errorf("unstarted program index = %d, want 0", got)
	}
	if got := e.RelativeDayIndex(ps, "nope", "2024-03-01"); got != 0 {
		t.Errorf("unknown program index = %d, want 0", got)
	}
}

func TestToggleTask(t *testing.T) {
	e, s := createTestEngine(t)
	s.SetNowFunc(fixedClock("2024-03-01"))
	if _, err := s.StartProgram("lectura"); err != nil {
		t.Fatal(err)
	}

	if err := e.ToggleTask("lectura", "2024-03-01", 1); err != nil {
		t.Fatalf("ToggleTask() error = %v", err)
	}
	ps := mustLoad(t, s)
	if got := ps.Programs["lectura"].CompletedByDate["2024-03-01"]; len(got) != 1 || got[0] != 1 {
		t.Errorf("indices = %v after toggle on, want [1]", got)
	}

	if err := e.ToggleTask("lectura", "2024-03-01", 1); err != nil {
		t.Fatalf("ToggleTask() error = %v", err)
	}
	ps = mustLoad(t, s)
	if got := ps.Programs["lectura"].CompletedByDate["2024-03-01"]; len(got) != 0 {
		t.Errorf("indices = %v after toggle off, want empty", got)
	}
}

func TestToggleTaskKeepsIndicesSorted(t *testing.T) {
	e, s := createTestEngine(t)
	s.SetNowFunc(fixedClock("2024-03-01"))
	if _, err := s.StartProgram("lectura"); err != nil {
		t.Fatal(err)
	}

	for _, idx := range []int{2, 0, 1} {
		if err := e.ToggleTask("lectura", "2024-03-01", idx); err != nil {
			t.Fatalf("ToggleTask(%d) error = %v", idx, err)
		}
	}

	ps := mustLoad(t, s)
	got := ps.Programs["lectura"].CompletedByDate["2024-03-01"]
	if len(got) != 3 || got[0] != 0 || got[1] != 1 || got[2] != 2 {
		t.Errorf("indices = %v, want [0 1 2]", got)
	}
}

func TestToggleTaskNoOps(t *testing.T) {
	e, s := createTestEngine(t)
	s.SetNowFunc(fixedClock("2024-03-01"))
	if _, err := s.StartProgram("lectura"); err != nil {
		t.Fatal(err)
	}

	saves := 0
	s.SetOnSave(func(string) { saves++ })

	// Unstarted program, out-of-range index, out-of-range date: none may
	// write or error.
	cases := []struct {
		name  string
		key   string
		date  string
		index int
	}{
		{"unstarted program", "meditacion", "2024-03-01", 0},
		{"unknown program", "nope", "2024-03-01", 0},
		{"index too high", "lectura", "2024-03-01", 3},
		{"negative index", "lectura", "2024-03-01", -1},
		{"date before start", "lectura", "2024-02-28", 0},
		{"date past end", "lectura", "2024-03-25", 0},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if err := e.ToggleTask(tt.key, tt.date, tt.index); err != nil {
				t.Errorf("ToggleTask() error = %v, want silent no-op", err)
			}
		})
	}
	if saves != 0 {
		t.Errorf("no-op toggles wrote %d times, want 0", saves)
	}
}

func TestMarkDayDoneAndUnmark(t *testing.T) {
	e, s := createTestEngine(t)
	s.SetNowFunc(fixedClock("2024-03-01"))
	if _, err := s.StartProgram("lectura"); err != nil {
		t.Fatal(err)
	}

	if err := e.MarkDayDone("lectura", "2024-03-02"); err != nil {
		t.Fatalf("MarkDayDone() error = %v", err)
	}
	ps := mustLoad(t, s)
	if got := ps.Programs["lectura"].CompletedByDate["2024-03-02"]; len(got) != 3 {
		t.Errorf("indices = %v after mark, want the full 3-task set", got)
	}

	if err := e.UnmarkDay("lectura", "2024-03-02"); err != nil {
		t.Fatalf("UnmarkDay() error = %v", err)
	}
	ps = mustLoad(t, s)
	got, exists := ps.Programs["lectura"].CompletedByDate["2024-03-02"]
	if !exists {
		t.Error("UnmarkDay() should keep the date key with an empty set")
	}
	if len(got) != 0 {
		t.Errorf("indices = %v after unmark, want empty", got)
	}

	// Marking outside the program is a no-op.
	if err := e.MarkDayDone("lectura", "2024-04-01"); err != nil {
		t.Fatalf("MarkDayDone() out of range error = %v", err)
	}
	ps = mustLoad(t, s)
	if _, ok := ps.Programs["lectura"].CompletedByDate["2024-04-01"]; ok {
		t.Error("out-of-range mark should not create a record")
	}
}

func TestPercent(t *testing.T) {
	e, s := createTestEngine(t)
	s.SetNowFunc(fixedClock("2024-03-01"))
	if _, err := s.StartProgram("lectura"); err != nil {
		t.Fatal(err)
	}

	// Five fully-completed days of twenty-one: 100*5/21 = 23.8, rounds to 24.
	for day := 1; day <= 5; day++ {
		date := dateutil.Key(time.Date(2024, 3, day, 0, 0, 0, 0, time.Local))
		if err := e.MarkDayDone("lectura", date); err != nil {
			t.Fatal(err)
		}
	}

	ps := mustLoad(t, s)
	today := fixedClock("2024-03-05")()
	if got := e.Percent(ps, "lectura", today); got != 24 {
		t.Errorf("Percent() = %d, want 24", got)
	}
}

func TestPercentPartialDayDoesNotCount(t *testing.T) {
	e, s := createTestEngine(t)
	s.SetNowFunc(fixedClock("2024-03-01"))
	if _, err := s.StartProgram("lectura"); err != nil {
		t.Fatal(err)
	}

	// Two of three tasks done on day 1: the day is not complete.
	if err := e.ToggleTask("lectura", "2024-03-01", 0); err != nil {
		t.Fatal(err)
	}
	if err := e.ToggleTask("lectura", "2024-03-01", 1); err != nil {
		t.Fatal(err)
	}

	ps := mustLoad(t, s)
	if got := e.Percent(ps, "lectura", fixedClock("2024-03-01")()); got != 0 {
		t.Errorf("Percent() = %d with a partial day, want 0", got)
	}
}

func TestPercentUnstarted(t *testing.T) {
	e, s := createTestEngine(t)
	ps := mustLoad(t, s)

	if got := e.Percent(ps, "lectura", time.Now()); got != 0 {
		t.Errorf("Percent() = %d for unstarted program, want 0", got)
	}
}

func TestPercentFullProgram(t *testing.T) {
	e, s := createTestEngine(t)
	s.SetNowFunc(fixedClock("2024-03-01"))
	if _, err := s.StartProgram("lectura"); err != nil {
		t.Fatal(err)
	}

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	for day := 0; day < 21; day++ {
		if err := e.MarkDayDone("lectura", dateutil.Key(dateutil.AddDays(start, day))); err != nil {
			t.Fatal(err)
		}
	}

	ps := mustLoad(t, s)
	// Well past the end: percent stays pinned at 100.
	if got := e.Percent(ps, "lectura", fixedClock("2024-05-01")()); got != 100 {
		t.Errorf("Percent() = %d for fully completed program, want 100", got)
	}
}

func TestStreak(t *testing.T) {
	e, s := createTestEngine(t)
	s.SetNowFunc(fixedClock("2024-03-01"))
	if _, err := s.StartProgram("lectura"); err != nil {
		t.Fatal(err)
	}

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	// Days 1-2 complete, day 3 missed, days 4-6 complete.
	for _, day := range []int{0, 1, 3, 4, 5} {
		if err := e.MarkDayDone("lectura", dateutil.Key(dateutil.AddDays(start, day))); err != nil {
			t.Fatal(err)
		}
	}
	ps := mustLoad(t, s)

	tests := []struct {
		today string
		want  int
	}{
		{"2024-03-06", 3}, // days 4,5,6 walking back
		{"2024-03-03", 0}, // today itself missed
		{"2024-03-02", 2},
		{"2024-03-07", 0}, // today not yet done breaks the streak
	}
	for _, tt := range tests {
		if got := e.Streak(ps, "lectura", fixedClock(tt.today)()); got != tt.want {
			t.Errorf("Streak(today=%s) = %d, want %d", tt.today, got, tt.want)
		}
	}
}

func TestStreakStopsAtStart(t *testing.T) {
	e, s := createTestEngine(t)
	s.SetNowFunc(fixedClock("2024-03-01"))
	if _, err := s.StartProgram("lectura"); err != nil {
		t.Fatal(err)
	}

	// Both program days so far complete: the walk must stop at day 1
	// instead of running into dates before the start.
	for _, date := range []string{"2024-03-01", "2024-03-02"} {
		if err := e.MarkDayDone("lectura", date); err != nil {
			t.Fatal(err)
		}
	}

	ps := mustLoad(t, s)
	if got := e.Streak(ps, "lectura", fixedClock("2024-03-02")()); got != 2 {
		t.Errorf("Streak() = %d, want 2", got)
	}
}

func TestDayStatus(t *testing.T) {
	e, s := createTestEngine(t)
	s.SetNowFunc(fixedClock("2024-03-01"))
	if _, err := s.StartProgram("lectura"); err != nil {
		t.Fatal(err)
	}

	// Day 1 full, day 2 partial, day 3 untouched.
	if err := e.MarkDayDone("lectura", "2024-03-01"); err != nil {
		t.Fatal(err)
	}
	if err := e.ToggleTask("lectura", "2024-03-02", 0); err != nil {
		t.Fatal(err)
	}
	ps := mustLoad(t, s)

	today := fixedClock("2024-03-10")()
	tests := []struct {
		date string
		want DayStatus
	}{
		{"2024-03-01", DayAll},
		{"2024-03-02", DaySome},
		{"2024-03-03", DayNone},  // past, applicable, nothing done
		{"2024-03-15", DayEmpty}, // future day, nothing done yet
		{"2024-02-15", DayEmpty}, // before any program
		{"2024-04-15", DayEmpty}, // after the program ends
	}
	for _, tt := range tests {
		if got := e.DayStatus(ps, tt.date, today); got != tt.want {
			t.Errorf("DayStatus(%s) = %s, want %s", tt.date, got, tt.want)
		}
	}
}

func TestDayStatusFutureWithProgress(t *testing.T) {
	e, s := createTestEngine(t)
	s.SetNowFunc(fixedClock("2024-03-01"))
	if _, err := s.StartProgram("lectura"); err != nil {
		t.Fatal(err)
	}

	// Work logged ahead of time still shows: only the zero-done case is
	// collapsed to empty for future days.
	if err := e.MarkDayDone("lectura", "2024-03-15"); err != nil {
		t.Fatal(err)
	}
	ps := mustLoad(t, s)

	if got := e.DayStatus(ps, "2024-03-15", fixedClock("2024-03-01")()); got != DayAll {
		t.Errorf("DayStatus() = %s for pre-logged future day, want %s", got, DayAll)
	}
}

func TestDayStatusAcrossPrograms(t *testing.T) {
	e, s := createTestEngine(t)
	s.SetNowFunc(fixedClock("2024-03-01"))
	if _, err := s.StartProgram("lectura"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.StartProgram("meditacion"); err != nil {
		t.Fatal(err)
	}

	// All of lectura done, none of meditacion: the day aggregates to some.
	if err := e.MarkDayDone("lectura", "2024-03-01"); err != nil {
		t.Fatal(err)
	}
	ps := mustLoad(t, s)

	if got := e.DayStatus(ps, "2024-03-01", fixedClock("2024-03-02")()); got != DaySome {
		t.Errorf("DayStatus() = %s across programs, want %s", got, DaySome)
	}
}

func TestTasksForDate(t *testing.T) {
	e, s := createTestEngine(t)
	s.SetNowFunc(fixedClock("2024-03-01"))
	if _, err := s.StartProgram("lectura"); err != nil {
		t.Fatal(err)
	}
	if err := e.ToggleTask("lectura", "2024-03-01", 1); err != nil {
		t.Fatal(err)
	}
	ps := mustLoad(t, s)

	tasks, done := e.TasksForDate(ps, "lectura", "2024-03-01")
	if len(tasks) != 3 {
		t.Fatalf("got %d tasks, want 3", len(tasks))
	}
	if !done[1] || done[0] || done[2] {
		t.Errorf("done = %v, want only index 1", done)
	}

	tasks, _ = e.TasksForDate(ps, "lectura", "2024-06-01")
	if tasks != nil {
		t.Error("TasksForDate() outside the program should return nil")
	}
}
