package estimate

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/christopherklint97/taskmate/internal/task"
)

// estimateSchema is the JSON schema of a single response item, derived from
// the Estimate struct so the prompt can never drift from the parser.
var estimateSchema = func() string {
	r := jsonschema.Reflector{DoNotReference: true}
	schema, err := json.Marshal(r.Reflect(&Estimate{}))
	if err != nil {
		panic(fmt.Sprintf("reflecting estimate schema: %v", err))
	}
	return string(schema)
}()

// buildPrompt renders the whole batch of tasks into a single estimation
// prompt. One call covers every task, which bounds API cost per run.
func buildPrompt(tasks []task.Task, b Bounds) string {
	type taskInfo struct {
		Title    string `json:"title"`
		Priority string `json:"priority"`
		DueDate  string `json:"due_date,omitempty"`
	}

	infos := make([]taskInfo, 0, len(tasks))
	for _, t := range tasks {
		info := taskInfo{Title: t.Title, Priority: string(t.Priority)}
		if t.DueDate != nil {
			info.DueDate = t.DueDate.Format(time.RFC3339)
		}
		infos = append(infos, info)
	}

	tasksJSON, _ := json.Marshal(infos)

	return fmt.Sprintf(`You are a personal productivity assistant. Estimate how long each of the following tasks will take to complete.

Tasks:
%s

Rules:
- Estimate minutes for every task, between %d and %d
- Consider the task title, priority, and due date when estimating
- Keep the "title" field exactly as given, it is used to match results back
- Optionally suggest a short description, a location, and up to 3 tags per task
- Respond with ONLY a JSON array, one object per task, each matching this schema:
%s`, string(tasksJSON), b.MinMinutes, b.MaxMinutes, estimateSchema)
}
