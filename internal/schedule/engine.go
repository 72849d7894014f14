// Package schedule is the scheduling engine: it takes open tasks and
// existing calendar commitments, computes the free work-hour slots over the
// next week, estimates a duration for each task, and greedily packs tasks
// into the free time in priority order.
//
// Packing is first-fit by slot start, not optimal bin packing. The result is
// reviewed by a person who can adjust it, and the input sizes are one user's
// weekly task list, so exact packing would buy nothing.
package schedule

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/christopherklint97/taskmate/internal/estimate"
	"github.com/christopherklint97/taskmate/internal/task"
)

type Engine struct {
	estimator *estimate.Estimator
	logger    *slog.Logger

	// now is swappable so tests can pin the scheduling window.
	now func() time.Time
}

func NewEngine(estimator *estimate.Estimator, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{estimator: estimator, logger: logger, now: time.Now}
}

// Unscheduled reports a task the engine could not place, and why.
type Unscheduled struct {
	Task   task.Task
	Reason string
}

// Result is the outcome of one scheduling run. Infeasible results carry no
// scheduled tasks; an empty input is a feasible no-op, not a failure.
type Result struct {
	Feasible         bool
	Message          string
	Scheduled        []task.ScheduledTask
	Unscheduled      []Unscheduled
	RequiredMinutes  float64
	AvailableMinutes float64
}

// Schedule runs the full pipeline: filter, coarse feasibility check,
// estimate, sort, pack. It never returns an error; every failure mode is a
// typed outcome or a best-effort fallback inside the estimator.
func (e *Engine) Schedule(ctx context.Context, tasks []task.Task, events []task.CalendarEvent, opts Options) Result {
	opts = opts.withDefaults()
	now := e.now()

	schedulable := task.FilterSchedulable(tasks, now)
	if len(schedulable) == 0 {
		return Result{
			Feasible: true,
			Message:  "No tasks need scheduling.",
		}
	}

	slots := FreeSlots(events, opts, now)

	var available float64
	for _, s := range slots {
		available += s.Minutes()
	}

	// Coarse feasibility on the local heuristic alone. When the week cannot
	// fit the work anyway, the paid estimation call is skipped entirely.
	var coarseRequired float64
	for _, t := range schedulable {
		coarseRequired += float64(estimate.Heuristic(t, opts.bounds()))
	}

	if coarseRequired > available {
		e.logger.Info("scheduling infeasible before estimation",
			"tasks", len(schedulable),
			"required_minutes", coarseRequired,
			"available_minutes", available,
		)
		return Result{
			Feasible: false,
			Message: fmt.Sprintf(
				"Not enough free time: about %.0f hours of tasks but only %.0f hours available in the next %d days.",
				math.Round(coarseRequired/60), math.Round(available/60), horizonDays,
			),
			RequiredMinutes:  coarseRequired,
			AvailableMinutes: available,
		}
	}

	estimated := e.estimator.Estimate(ctx, schedulable, opts.bounds())
	sortByPriority(estimated)

	var required float64
	for _, et := range estimated {
		required += float64(et.Minutes)
	}

	scheduled, unscheduled := pack(estimated, slots, opts.BufferMinutes)

	e.logger.Info("scheduling complete",
		"tasks", len(schedulable),
		"placed", len(scheduled),
		"unplaced", len(unscheduled),
		"required_minutes", required,
		"available_minutes", available,
	)

	msg := fmt.Sprintf("Scheduled %d of %d tasks.", len(scheduled), len(estimated))
	if len(unscheduled) == 0 {
		msg = fmt.Sprintf("Scheduled all %d tasks.", len(scheduled))
	}

	return Result{
		Feasible:         true,
		Message:          msg,
		Scheduled:        scheduled,
		Unscheduled:      unscheduled,
		RequiredMinutes:  required,
		AvailableMinutes: available,
	}
}

// sortByPriority stable-sorts tasks by priority descending, breaking ties by
// earlier due date when both tasks have one. Tasks without due dates keep
// their relative order among same-priority peers.
func sortByPriority(tasks []estimate.EstimatedTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		wi, wj := tasks[i].Priority.Weight(), tasks[j].Priority.Weight()
		if wi != wj {
			return wi > wj
		}
		if tasks[i].DueDate != nil && tasks[j].DueDate != nil {
			return tasks[i].DueDate.Before(*tasks[j].DueDate)
		}
		return false
	})
}

// pack walks tasks in order and places each into the first slot long enough
// for the task plus the buffer. Placed tasks consume the front of their
// slot; the remainder, shortened by the buffer, stays available. Tasks that
// fit nowhere are reported, not silently dropped.
func pack(tasks []estimate.EstimatedTask, slots []Slot, bufferMinutes int) ([]task.ScheduledTask, []Unscheduled) {
	buffer := time.Duration(bufferMinutes) * time.Minute

	var scheduled []task.ScheduledTask
	var unscheduled []Unscheduled

	for _, et := range tasks {
		need := float64(et.Minutes + bufferMinutes)

		placed := false
		for i, s := range slots {
			if s.Minutes() < need {
				continue
			}

			start := s.Start
			end := start.Add(time.Duration(et.Minutes) * time.Minute)

			scheduled = append(scheduled, task.ScheduledTask{
				TaskID:           et.ID,
				Title:            et.Title,
				Start:            start,
				End:              end,
				Priority:         et.Priority,
				EstimatedMinutes: et.Minutes,
				Description:      et.Description,
				Location:         et.Location,
				Tags:             et.Tags,
			})

			remainder := Slot{Start: end.Add(buffer), End: s.End}
			if remainder.End.After(remainder.Start) {
				slots[i] = remainder
			} else {
				slots = append(slots[:i], slots[i+1:]...)
			}

			placed = true
			break
		}

		if !placed {
			unscheduled = append(unscheduled, Unscheduled{
				Task:   et.Task,
				Reason: "no free slot long enough",
			})
		}
	}

	return scheduled, unscheduled
}
