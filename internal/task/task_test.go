package task

import (
	"testing"
	"time"
)

func TestParsePriority(t *testing.T) {
	cases := map[string]Priority{
		"low":     PriorityLow,
		"medium":  PriorityMedium,
		"high":    PriorityHigh,
		"":        PriorityMedium,
		"urgent":  PriorityMedium,
		"HIGHEST": PriorityMedium,
	}
	for in, want := range cases {
		if got := ParsePriority(in); got != want {
			t.Errorf("ParsePriority(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPriorityWeightOrdering(t *testing.T) {
	if !(PriorityHigh.Weight() > PriorityMedium.Weight() && PriorityMedium.Weight() > PriorityLow.Weight()) {
		t.Errorf("priority weights not strictly ordered: high=%d medium=%d low=%d",
			PriorityHigh.Weight(), PriorityMedium.Weight(), PriorityLow.Weight())
	}
}

func TestICalClass(t *testing.T) {
	if got := PriorityHigh.ICalClass(); got != 1 {
		t.Errorf("high ICalClass = %d, want 1", got)
	}
	if got := PriorityMedium.ICalClass(); got != 5 {
		t.Errorf("medium ICalClass = %d, want 5", got)
	}
	if got := PriorityLow.ICalClass(); got != 9 {
		t.Errorf("low ICalClass = %d, want 9", got)
	}
}

func TestFilterSchedulable(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.Local)
	past := now.Add(-24 * time.Hour)
	future := now.Add(48 * time.Hour)

	tasks := []Task{
		{ID: "a", Title: "plain open task"},
		{ID: "b", Title: "completed", Completed: true},
		{ID: "c", Title: "subtask", ParentID: "a2"},
		{ID: "d", Title: "overdue", DueDate: &past},
		{ID: "e", Title: "due later", DueDate: &future},
		{ID: "f", Title: "parent of g"},
		{ID: "g", Title: "child of f", ParentID: "f"},
	}

	got := FilterSchedulable(tasks, now)

	want := map[string]bool{"a": true, "e": true}
	if len(got) != len(want) {
		t.Fatalf("got %d schedulable tasks, want %d: %+v", len(got), len(want), got)
	}
	for _, tk := range got {
		if !want[tk.ID] {
			t.Errorf("task %q should not be schedulable", tk.ID)
		}
	}
}
