package reports

import (
	"strings"
	"testing"
	"time"

	"rutina/internal/catalog"
	"rutina/internal/progress"
	"rutina/internal/storage"
)

func createTestGenerator(t *testing.T) (*Generator, *storage.Storage, *progress.Engine) {
	t.Helper()
	cat := catalog.Default()
	s, err := storage.New(t.TempDir(), cat)
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	e := progress.New(s, cat)
	return NewGenerator(s, e), s, e
}

func setClock(s *storage.Storage, date string) {
	s.SetNowFunc(func() time.Time {
		ts, _ := time.ParseInLocation("2006-01-02", date, time.Local)
		return ts
	})
}

func TestGenerateDaily(t *testing.T) {
	g, s, e := createTestGenerator(t)
	setClock(s, "2024-03-01")
	if _, err := s.StartProgram("lectura"); err != nil {
		t.Fatal(err)
	}
	if err := e.ToggleTask("lectura", "2024-03-01", 0); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddTodo("water the plants", "2024-03-01"); err != nil {
		t.Fatal(err)
	}

	report, err := g.GenerateDaily(s.Now())
	if err != nil {
		t.Fatalf("GenerateDaily() error = %v", err)
	}

	if len(report.Programs) != 1 {
		t.Fatalf("got %d program statuses, want 1", len(report.Programs))
	}
	p := report.Programs[0]
	if p.Key != "lectura" || p.Day != 1 || p.Duration != 21 {
		t.Errorf("status = %+v, want lectura day 1 of 21", p)
	}
	if p.TasksDone != 1 || p.TasksTotal != 3 {
		t.Errorf("tasks = %d/%d, want 1/3", p.TasksDone, p.TasksTotal)
	}

	if report.Todos.PendingCount != 1 || report.Todos.CompletedCount != 0 {
		t.Errorf("todos = %d pending %d completed, want 1/0",
			report.Todos.PendingCount, report.Todos.CompletedCount)
	}
}

func TestGenerateDailyUnstartedProgramsExcluded(t *testing.T) {
	g, s, _ := createTestGenerator(t)
	setClock(s, "2024-03-01")
	if _, err := s.StartProgram("meditacion"); err != nil {
		t.Fatal(err)
	}

	report, err := g.GenerateDaily(s.Now())
	if err != nil {
		t.Fatalf("GenerateDaily() error = %v", err)
	}
	if len(report.Programs) != 1 || report.Programs[0].Key != "meditacion" {
		t.Errorf("programs = %+v, want only meditacion", report.Programs)
	}
}

func TestGenerateWeekly(t *testing.T) {
	g, s, e := createTestGenerator(t)
	setClock(s, "2024-03-04") // a Monday
	if _, err := s.StartProgram("lectura"); err != nil {
		t.Fatal(err)
	}
	if err := e.MarkDayDone("lectura", "2024-03-04"); err != nil {
		t.Fatal(err)
	}

	report, err := g.GenerateWeekly(s.Now())
	if err != nil {
		t.Fatalf("GenerateWeekly() error = %v", err)
	}

	if report.StartDate.Weekday() != time.Sunday {
		t.Errorf("StartDate weekday = %s, want Sunday", report.StartDate.Weekday())
	}
	if len(report.DailyBreakdown) != 7 {
		t.Fatalf("got %d breakdown days, want 7", len(report.DailyBreakdown))
	}

	var monday *DailySummary
	for i := range report.DailyBreakdown {
		if report.DailyBreakdown[i].Date == "2024-03-04" {
			monday = &report.DailyBreakdown[i]
		}
	}
	if monday == nil {
		t.Fatal("breakdown missing 2024-03-04")
	}
	if monday.TasksDone != 3 || monday.TasksTotal != 3 {
		t.Errorf("monday tasks = %d/%d, want 3/3", monday.TasksDone, monday.TasksTotal)
	}
	if monday.Status != progress.DayAll {
		t.Errorf("monday status = %s, want %s", monday.Status, progress.DayAll)
	}
}

func TestFormatDailyMarkdown(t *testing.T) {
	g, s, _ := createTestGenerator(t)
	setClock(s, "2024-03-01")
	if _, err := s.StartProgram("lectura"); err != nil {
		t.Fatal(err)
	}

	report, err := g.GenerateDaily(s.Now())
	if err != nil {
		t.Fatal(err)
	}

	md := FormatDailyMarkdown(report)
	if !strings.Contains(md, "# Daily Report") {
		t.Error("markdown missing title")
	}
	if !strings.Contains(md, "Reading") {
		t.Errorf("markdown missing program title:\n%s", md)
	}
}

func TestFormatDailyJSON(t *testing.T) {
	g, s, _ := createTestGenerator(t)
	setClock(s, "2024-03-01")

	report, err := g.GenerateDaily(s.Now())
	if err != nil {
		t.Fatal(err)
	}

	data, err := FormatDailyJSON(report)
	if err != nil {
		t.Fatalf("FormatDailyJSON() error = %v", err)
	}
	if !strings.Contains(string(data), `"generated_at"`) {
		t.Error("JSON missing generated_at field")
	}
}

func TestFormatWeeklyMarkdown(t *testing.T) {
	g, s, _ := createTestGenerator(t)
	setClock(s, "2024-03-04")

	report, err := g.GenerateWeekly(s.Now())
	if err != nil {
		t.Fatal(err)
	}

	md := FormatWeeklyMarkdown(report)
	if !strings.Contains(md, "# Weekly Report") {
		t.Error("markdown missing title")
	}
	if !strings.Contains(md, "| Mon |") {
		t.Errorf("markdown missing day table:\n%s", md)
	}
}
