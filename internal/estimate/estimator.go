// Package estimate produces a per-task duration in minutes for a batch of
// tasks, by asking an external model once for the whole batch and falling
// back to a local heuristic whenever the model call fails, returns garbage,
// or skips a task. Every task always ends up with a usable duration.
package estimate

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/christopherklint97/taskmate/internal/task"
)

type Estimator struct {
	provider Provider
	logger   *slog.Logger
}

func New(provider Provider, logger *slog.Logger) *Estimator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Estimator{provider: provider, logger: logger}
}

// Estimate resolves a duration for every task. It never fails: a batch-level
// problem (call error, unparseable response) falls back to the heuristic for
// all tasks, and a task the response skipped falls back individually.
// All minutes are clamped into bounds regardless of their source.
func (e *Estimator) Estimate(ctx context.Context, tasks []task.Task, b Bounds) []EstimatedTask {
	if len(tasks) == 0 {
		return nil
	}

	byTitle := e.fetchEstimates(ctx, tasks, b)

	out := make([]EstimatedTask, 0, len(tasks))
	for _, t := range tasks {
		et := EstimatedTask{Task: t}
		if est, ok := byTitle[t.Title]; ok {
			et.Minutes = b.Clamp(est.Minutes)
			et.Description = est.Description
			et.Location = est.Location
			et.Tags = est.Tags
		} else {
			et.Minutes = Heuristic(t, b)
		}
		out = append(out, et)
	}
	return out
}

// fetchEstimates runs the batched model call and returns validated estimates
// keyed by exact title. An empty map means the whole batch fell through.
func (e *Estimator) fetchEstimates(ctx context.Context, tasks []task.Task, b Bounds) map[string]Estimate {
	if e.provider == nil {
		return nil
	}

	raw, err := e.provider.Complete(ctx, buildPrompt(tasks, b))
	if err != nil {
		e.logger.Warn("estimation call failed, using heuristic for batch", "error", err)
		return nil
	}

	var estimates []Estimate
	if err := json.Unmarshal([]byte(stripFences(raw)), &estimates); err != nil {
		e.logger.Warn("estimation response is not valid JSON, using heuristic for batch",
			"error", err,
			"response", truncate(raw, 500),
		)
		return nil
	}

	byTitle := make(map[string]Estimate, len(estimates))
	for _, est := range estimates {
		// An untrusted payload: items failing validation are treated the
		// same as items that were never returned.
		if est.Title == "" || est.Minutes <= 0 {
			e.logger.Warn("dropping invalid estimate", "title", est.Title, "minutes", est.Minutes)
			continue
		}
		byTitle[est.Title] = est
	}

	e.logger.Debug("parsed estimates", "tasks", len(tasks), "matched", len(byTitle))
	return byTitle
}

// Heuristic computes the deterministic local fallback duration: a base per
// priority, scaled by a rough complexity signal from the title.
func Heuristic(t task.Task, b Bounds) int {
	var base int
	switch t.Priority {
	case task.PriorityHigh:
		base = 180
	case task.PriorityLow:
		base = 90
	default:
		base = 120
	}

	words := len(strings.Fields(t.Title))
	multiplier := 1.0
	switch {
	case len(t.Title) > 40 || words > 8:
		multiplier = 1.5
	case len(t.Title) > 20 || words > 4:
		multiplier = 1.2
	}

	return b.Clamp(int(float64(base) * multiplier))
}

// stripFences removes a markdown code fence around a JSON payload. Models
// add them even when told not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
