package storage

import (
	"encoding/json"
	"testing"

	"rutina/internal/catalog"
)

func TestDecodeProgramsLegacyFlat(t *testing.T) {
	// Version 1: a flat program map with completed_dates lists and no
	// version field. Each fully-done date expands to the full index set for
	// that day, and the legacy field is cleared.
	legacy := []byte(`{
		"lectura": {
			"start_date": "2024-01-01",
			"completed_dates": ["2024-01-01", "2024-01-02"]
		}
	}`)

	store, dirty, err := DecodePrograms(legacy, catalog.Default())
	if err != nil {
		t.Fatalf("DecodePrograms() error = %v", err)
	}
	if !dirty {
		t.Error("migrating a legacy document should report dirty")
	}
	if store.Version != SchemaVersion {
		t.Errorf("Version = %d, want %d", store.Version, SchemaVersion)
	}

	state := store.Programs["lectura"]
	if state == nil {
		t.Fatal("lectura state missing after migration")
	}
	for _, date := range []string{"2024-01-01", "2024-01-02"} {
		got := state.CompletedByDate[date]
		if len(got) != 3 || got[0] != 0 || got[1] != 1 || got[2] != 2 {
			t.Errorf("CompletedByDate[%s] = %v, want [0 1 2]", date, got)
		}
	}
	if state.CompletedDates != nil {
		t.Error("legacy completed_dates should be cleared after migration")
	}
}

func TestDecodeProgramsCurrentIsClean(t *testing.T) {
	store := &ProgramsStore{
		Version: SchemaVersion,
		Programs: map[string]*ProgramState{
			"lectura": {
				StartDate:       "2024-01-01",
				CompletedByDate: map[string][]int{"2024-01-01": {0, 1, 2}},
			},
		},
	}
	data, err := json.Marshal(store)
	if err != nil {
		t.Fatal(err)
	}

	decoded, dirty, err := DecodePrograms(data, catalog.Default())
	if err != nil {
		t.Fatalf("DecodePrograms() error = %v", err)
	}
	if dirty {
		t.Error("a current-schema document should not report dirty")
	}
	if got := decoded.Programs["lectura"].CompletedByDate["2024-01-01"]; len(got) != 3 {
		t.Errorf("CompletedByDate = %v, want 3 indices", got)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	legacy := []byte(`{
		"meditacion": {
			"start_date": "2024-02-01",
			"completed_dates": ["2024-02-01"]
		}
	}`)

	first, dirty, err := DecodePrograms(legacy, catalog.Default())
	if err != nil {
		t.Fatalf("first decode error = %v", err)
	}
	if !dirty {
		t.Fatal("first decode should migrate")
	}

	data, err := json.Marshal(first)
	if err != nil {
		t.Fatal(err)
	}
	second, dirty, err := DecodePrograms(data, catalog.Default())
	if err != nil {
		t.Fatalf("second decode error = %v", err)
	}
	if dirty {
		t.Error("re-decoding a migrated document should be clean")
	}
	if got := second.Programs["meditacion"].CompletedByDate["2024-02-01"]; len(got) != 2 {
		t.Errorf("CompletedByDate = %v, want the 2-task index set", got)
	}
}

func TestDecodeProgramsLegacyPerTaskDataWins(t *testing.T) {
	// A transitional document may carry both shapes for the same date; the
	// per-task record is authoritative.
	legacy := []byte(`{
		"lectura": {
			"start_date": "2024-01-01",
			"completed_by_date": {"2024-01-01": [0]},
			"completed_dates": ["2024-01-01"]
		}
	}`)

	store, _, err := DecodePrograms(legacy, catalog.Default())
	if err != nil {
		t.Fatalf("DecodePrograms() error = %v", err)
	}
	if got := store.Programs["lectura"].CompletedByDate["2024-01-01"]; len(got) != 1 || got[0] != 0 {
		t.Errorf("CompletedByDate = %v, want [0] (per-task data kept)", got)
	}
}

func TestDecodeProgramsLegacyOutOfRangeDateDropped(t *testing.T) {
	// Day 22 of a 21-day program has no tasks; expanding it would record a
	// vacuously complete day.
	legacy := []byte(`{
		"lectura": {
			"start_date": "2024-01-01",
			"completed_dates": ["2024-01-22"]
		}
	}`)

	store, _, err := DecodePrograms(legacy, catalog.Default())
	if err != nil {
		t.Fatalf("DecodePrograms() error = %v", err)
	}
	if _, ok := store.Programs["lectura"].CompletedByDate["2024-01-22"]; ok {
		t.Error("out-of-range legacy date should not be expanded")
	}
}

func TestDecodeProgramsUnusable(t *testing.T) {
	for _, data := range []string{`[1,2,3]`, `"just a string"`, `{broken`} {
		if _, _, err := DecodePrograms([]byte(data), catalog.Default()); err == nil {
			t.Errorf("DecodePrograms(%q) expected error", data)
		}
	}
}

func TestNormalizePruning(t *testing.T) {
	store := &ProgramsStore{
		Version: SchemaVersion,
		Programs: map[string]*ProgramState{
			"lectura": {
				StartDate: "2024-01-05",
				CompletedByDate: map[string][]int{
					"2024-01-01": {0},          // before start
					"2024-01-05": {2, 0, 0, 5}, // dup, unsorted, out of range
					"2024-01-06": {0, 1, 2},    // already clean
				},
			},
			"ghost": {StartDate: "2024-01-01", CompletedByDate: map[string][]int{}},
		},
	}

	if !Normalize(store, catalog.Default()) {
		t.Fatal("Normalize() should report changes")
	}

	if _, ok := store.Programs["ghost"]; ok {
		t.Error("program missing from the catalog should be dropped")
	}
	state := store.Programs["lectura"]
	if _, ok := state.CompletedByDate["2024-01-01"]; ok {
		t.Error("record before start date should be dropped")
	}
	if got := state.CompletedByDate["2024-01-05"]; len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("indices = %v, want [0 2]", got)
	}

	if Normalize(store, catalog.Default()) {
		t.Error("second Normalize() on a clean store should be a no-op")
	}
}
