package estimate

import "github.com/christopherklint97/taskmate/internal/task"

// Estimate is one item of the model's expected JSON response.
type Estimate struct {
	Title       string   `json:"title"`
	Priority    string   `json:"priority"`
	DueDate     string   `json:"due_date,omitempty"`
	Minutes     int      `json:"minutes"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// EstimatedTask pairs a task with its resolved duration and the optional
// descriptive metadata the model suggested.
type EstimatedTask struct {
	task.Task

	Minutes     int
	Description string
	Location    string
	Tags        []string
}

// Bounds clamps every estimate, whatever its source, into a schedulable
// range of minutes.
type Bounds struct {
	MinMinutes int
	MaxMinutes int
}

func (b Bounds) Clamp(minutes int) int {
	if minutes < b.MinMinutes {
		return b.MinMinutes
	}
	if minutes > b.MaxMinutes {
		return b.MaxMinutes
	}
	return minutes
}
