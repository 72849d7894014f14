// Package render formats task lists and scheduling results for the terminal.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/christopherklint97/taskmate/internal/schedule"
	"github.com/christopherklint97/taskmate/internal/task"
)

// TaskList renders all tasks for display, subtasks indented under their
// parents.
func TaskList(tasks []task.Task) string {
	if len(tasks) == 0 {
		return dimStyle.Render("No tasks yet. Add one with 'taskmate add'.") + "\n"
	}

	children := make(map[string][]task.Task)
	var roots []task.Task
	for _, t := range tasks {
		if t.ParentID == "" {
			roots = append(roots, t)
		} else {
			children[t.ParentID] = append(children[t.ParentID], t)
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Tasks") + "\n")
	for _, t := range roots {
		b.WriteString(taskLine(t, 0))
		for _, c := range children[t.ID] {
			b.WriteString(taskLine(c, 1))
		}
	}
	return b.String()
}

func taskLine(t task.Task, indent int) string {
	mark := "[ ]"
	if t.Completed {
		mark = "[x]"
	}

	line := fmt.Sprintf("%s%s %s %s", strings.Repeat("  ", indent+1), mark, shortID(t.ID), t.Title)

	switch t.Priority {
	case task.PriorityHigh:
		line += " " + highPriorityStyle.Render("(high)")
	case task.PriorityLow:
		line += " " + lowPriorityStyle.Render("(low)")
	}

	if t.DueDate != nil {
		line += " " + dimStyle.Render("due "+t.DueDate.Format("Mon Jan 2"))
	}
	if t.Completed {
		line = dimStyle.Render(line)
	}

	return line + "\n"
}

// Schedule renders a scheduling result: the placed tasks grouped in start
// order, any unplaced tasks with their reasons, and the time accounting.
func Schedule(res schedule.Result) string {
	var b strings.Builder

	if !res.Feasible {
		b.WriteString(errorStyle.Render(res.Message) + "\n")
		return b.String()
	}

	b.WriteString(successStyle.Render(res.Message) + "\n")

	if len(res.Scheduled) > 0 {
		// Placement happens in priority order, so a later task can land
		// in an earlier slot. Sort a copy before grouping by day.
		scheduled := make([]task.ScheduledTask, len(res.Scheduled))
		copy(scheduled, res.Scheduled)
		sort.Slice(scheduled, func(i, j int) bool { return scheduled[i].Start.Before(scheduled[j].Start) })

		b.WriteString("\n")
		var lastDay string
		for _, s := range scheduled {
			d := s.Start.Format("Mon Jan 2")
			if d != lastDay {
				b.WriteString(titleStyle.Render(d) + "\n")
				lastDay = d
			}
			b.WriteString(fmt.Sprintf("  %s–%s  %s (%dmin)\n",
				s.Start.Format("15:04"), s.End.Format("15:04"), s.Title, s.EstimatedMinutes))
		}
	}

	for _, u := range res.Unscheduled {
		b.WriteString(warningStyle.Render(fmt.Sprintf("  could not place %q: %s", u.Task.Title, u.Reason)) + "\n")
	}

	if res.RequiredMinutes > 0 || res.AvailableMinutes > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("\n%s of tasks, %s free in the next 7 days\n",
			hours(res.RequiredMinutes), hours(res.AvailableMinutes))))
	}

	return b.String()
}

func hours(minutes float64) string {
	return fmt.Sprintf("%.1fh", minutes/60)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
