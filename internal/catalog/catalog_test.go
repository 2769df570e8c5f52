package catalog

import (
	"errors"
	"testing"
)

func TestGet(t *testing.T) {
	c := Default()

	p, err := c.Get("lectura")
	if err != nil {
		t.Fatalf("Get(lectura) error = %v", err)
	}
	if p.Duration() != 21 {
		t.Errorf("lectura duration = %d, want 21", p.Duration())
	}
	if p.TaskCount(1) != 3 {
		t.Errorf("lectura day 1 task count = %d, want 3", p.TaskCount(1))
	}
}

func TestGetUnknown(t *testing.T) {
	c := Default()

	_, err := c.Get("nope")
	if err == nil {
		t.Fatal("Get() expected error for unknown key")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestAllDaysHaveTasks(t *testing.T) {
	// A day with zero tasks would be vacuously "complete"; the built-in
	// catalog must never contain one.
	for _, p := range Default().List() {
		for rel := 1; rel <= p.Duration(); rel++ {
			if p.TaskCount(rel) == 0 {
				t.Errorf("program %s day %d has no tasks", p.Key, rel)
			}
		}
	}
}

func TestTaskCountOutOfRange(t *testing.T) {
	p, _ := Default().Get("lectura")

	for _, rel := range []int{0, -1, 22, 100} {
		if got := p.TaskCount(rel); got != 0 {
			t.Errorf("TaskCount(%d) = %d, want 0", rel, got)
		}
	}
}

func TestListOrder(t *testing.T) {
	list := Default().List()
	if len(list) != 3 {
		t.Fatalf("List() returned %d programs, want 3", len(list))
	}
	if list[0].Key != "lectura" {
		t.Errorf("List()[0].Key = %q, want lectura", list[0].Key)
	}
}

func TestNewSkipsDuplicateKeys(t *testing.T) {
	a := &Program{Key: "x", Days: []Day{{Tasks: []Task{{Label: "a"}}}}}
	b := &Program{Key: "x", Days: []Day{{Tasks: []Task{{Label: "b"}}}}}

	c := New(a, b)
	got, err := c.Get("x")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Days[0].Tasks[0].Label != "a" {
		t.Error("New() should keep the first program for a duplicate key")
	}
}
