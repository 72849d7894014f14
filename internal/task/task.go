package task

import "time"

// Priority is the user-facing task priority.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority normalizes a string into a Priority, defaulting to medium.
func ParsePriority(s string) Priority {
	switch Priority(s) {
	case PriorityLow, PriorityHigh:
		return Priority(s)
	default:
		return PriorityMedium
	}
}

// Weight returns the sort weight of a priority; higher schedules first.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 2
	}
}

// ICalClass maps a priority onto the iCalendar PRIORITY scale,
// where lower numbers are more urgent.
func (p Priority) ICalClass() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityLow:
		return 9
	default:
		return 5
	}
}

// Task is a stored to-do item. Subtasks carry a non-empty ParentID and are
// never scheduled directly; a task that has subtasks of its own is also not
// scheduled, since the subtasks represent the actual work.
type Task struct {
	ID        string
	Title     string
	Completed bool
	ParentID  string
	Priority  Priority
	DueDate   *time.Time
	Position  int
	CreatedAt time.Time
}

// Overdue reports whether the task's due date has already passed.
func (t Task) Overdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now)
}

// Schedulable reports whether the task is eligible for automatic placement:
// not completed, not a subtask, not a parent of subtasks, and not overdue.
// hasSubtasks is resolved by the caller against the full task set.
func (t Task) Schedulable(now time.Time, hasSubtasks bool) bool {
	if t.Completed || t.ParentID != "" || hasSubtasks {
		return false
	}
	return !t.Overdue(now)
}

// FilterSchedulable returns the tasks from ts eligible for scheduling.
func FilterSchedulable(ts []Task, now time.Time) []Task {
	parents := make(map[string]bool)
	for _, t := range ts {
		if t.ParentID != "" {
			parents[t.ParentID] = true
		}
	}

	var out []Task
	for _, t := range ts {
		if t.Schedulable(now, parents[t.ID]) {
			out = append(out, t)
		}
	}
	return out
}

// ScheduledTask is a task placed into a concrete time slot by the
// scheduling engine. It is a value: once emitted it is never mutated.
type ScheduledTask struct {
	TaskID           string
	Title            string
	Start            time.Time
	End              time.Time
	Priority         Priority
	EstimatedMinutes int
	Description      string
	Location         string
	Tags             []string
}

// CalendarEvent is an existing commitment parsed from an ICS calendar.
type CalendarEvent struct {
	ID          string
	Title       string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Description string
	Location    string
}
