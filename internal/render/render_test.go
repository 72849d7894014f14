package render

import (
	"strings"
	"testing"
	"time"

	"github.com/christopherklint97/taskmate/internal/schedule"
	"github.com/christopherklint97/taskmate/internal/task"
)

func TestScheduleGroupsDaysOnce(t *testing.T) {
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	at := func(day, hour int) time.Time { return monday.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour) }

	// A high-priority task placed Tuesday, then a lower one that fit into a
	// leftover Monday slot: result order is placement order, not start order.
	res := schedule.Result{
		Feasible: true,
		Message:  "Scheduled all 3 tasks.",
		Scheduled: []task.ScheduledTask{
			{TaskID: "a", Title: "Board deck", Start: at(1, 9), End: at(1, 11), EstimatedMinutes: 120},
			{TaskID: "b", Title: "Tidy desk", Start: at(0, 10), End: at(0, 11), EstimatedMinutes: 60},
			{TaskID: "c", Title: "Review PRs", Start: at(1, 13), End: at(1, 14), EstimatedMinutes: 60},
		},
	}

	out := Schedule(res)

	for _, day := range []string{"Mon Mar 2", "Tue Mar 3"} {
		if got := strings.Count(out, day); got != 1 {
			t.Errorf("day header %q appears %d times, want 1", day, got)
		}
	}
	if strings.Index(out, "Tidy desk") > strings.Index(out, "Board deck") {
		t.Error("Monday task rendered after Tuesday task")
	}
}

func TestScheduleInfeasibleShowsMessageOnly(t *testing.T) {
	res := schedule.Result{Feasible: false, Message: "Not enough free time."}

	out := Schedule(res)
	if !strings.Contains(out, "Not enough free time.") {
		t.Errorf("message missing from output: %q", out)
	}
	if strings.Contains(out, "–") {
		t.Errorf("infeasible result rendered a time range: %q", out)
	}
}
