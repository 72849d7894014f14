package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/christopherklint97/taskmate/internal/task"
)

// InsertTask stores a new task, assigning an ID when one is not set.
// Position defaults to the end of the sibling list.
func (db *DB) InsertTask(t *task.Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Priority == "" {
		t.Priority = task.PriorityMedium
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	if t.Position == 0 {
		var max sql.NullInt64
		row := db.QueryRow("SELECT MAX(position) FROM tasks WHERE COALESCE(parent_id, '') = ?", t.ParentID)
		if err := row.Scan(&max); err != nil && err != sql.ErrNoRows {
			return fmt.Errorf("finding max position: %w", err)
		}
		t.Position = int(max.Int64) + 1
	}

	var due any
	if t.DueDate != nil {
		due = t.DueDate.UTC().Format(time.RFC3339)
	}

	_, err := db.Exec(
		`INSERT INTO tasks (id, title, completed, parent_id, priority, due_date, position, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Completed, nullStr(t.ParentID), string(t.Priority), due,
		t.Position, t.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

// GetTasks returns all tasks ordered for display: top-level tasks by
// position, each followed by its subtasks.
func (db *DB) GetTasks() ([]task.Task, error) {
	return db.queryTasks(
		`SELECT id, title, completed, parent_id, priority, due_date, position, created_at
		 FROM tasks
		 ORDER BY COALESCE(parent_id, id), position ASC, created_at ASC`,
	)
}

// GetOpenTasks returns all incomplete tasks.
func (db *DB) GetOpenTasks() ([]task.Task, error) {
	return db.queryTasks(
		`SELECT id, title, completed, parent_id, priority, due_date, position, created_at
		 FROM tasks
		 WHERE completed = 0
		 ORDER BY position ASC, created_at ASC`,
	)
}

// CompleteTask marks a task and all of its subtasks complete.
func (db *DB) CompleteTask(id string) error {
	res, err := db.Exec("UPDATE tasks SET completed = 1 WHERE id = ? OR parent_id = ?", id, id)
	if err != nil {
		return fmt.Errorf("completing task: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("no task with id %s", id)
	}
	return nil
}

// DeleteTask removes a task and all of its subtasks.
func (db *DB) DeleteTask(id string) error {
	res, err := db.Exec("DELETE FROM tasks WHERE id = ? OR parent_id = ?", id, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("no task with id %s", id)
	}
	return nil
}

// MoveTask changes a task's position among its siblings.
func (db *DB) MoveTask(id string, position int) error {
	_, err := db.Exec("UPDATE tasks SET position = ? WHERE id = ?", position, id)
	if err != nil {
		return fmt.Errorf("moving task: %w", err)
	}
	return nil
}

func (db *DB) queryTasks(query string, args ...any) ([]task.Task, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		var t task.Task
		var parentID, dueStr sql.NullString
		var priority, createdStr string

		if err := rows.Scan(
			&t.ID, &t.Title, &t.Completed, &parentID, &priority, &dueStr, &t.Position, &createdStr,
		); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}

		t.ParentID = parentID.String
		t.Priority = task.ParsePriority(priority)

		if dueStr.Valid && dueStr.String != "" {
			if d, err := time.Parse(time.RFC3339, dueStr.String); err == nil {
				due := d
				t.DueDate = &due
			}
		}
		if c, err := time.Parse(time.RFC3339, createdStr); err == nil {
			t.CreatedAt = c
		}

		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
