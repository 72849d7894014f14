package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/christopherklint97/taskmate/internal/task"
)

// ReplaceEvents swaps the stored calendar events for a freshly imported set.
// Imports are whole-calendar, so stale events from a previous import must not
// linger and double-book slots.
//
// Calendars may omit UIDs, and a modified recurring instance legitimately
// repeats one. Such events get a fresh ID here so no single collision can
// abort the import.
func (db *DB) ReplaceEvents(events []task.CalendarEvent) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM calendar_events"); err != nil {
		return fmt.Errorf("clearing calendar events: %w", err)
	}

	seen := make(map[string]bool, len(events))
	for _, e := range events {
		id := e.ID
		if id == "" || seen[id] {
			id = uuid.NewString()
		}
		seen[id] = true

		_, err := tx.Exec(
			`INSERT INTO calendar_events (id, title, start_time, end_time, all_day, description, location)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, e.Title,
			e.Start.Format(time.RFC3339),
			e.End.Format(time.RFC3339),
			e.AllDay, e.Description, e.Location,
		)
		if err != nil {
			return fmt.Errorf("inserting calendar event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing calendar events: %w", err)
	}
	return nil
}

// GetEvents returns all stored calendar events ordered by start time.
func (db *DB) GetEvents() ([]task.CalendarEvent, error) {
	rows, err := db.Query(
		`SELECT id, title, start_time, end_time, all_day, description, location
		 FROM calendar_events
		 ORDER BY start_time ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying calendar events: %w", err)
	}
	defer rows.Close()

	var events []task.CalendarEvent
	for rows.Next() {
		var e task.CalendarEvent
		var startStr, endStr string
		var desc, loc sql.NullString

		if err := rows.Scan(&e.ID, &e.Title, &startStr, &endStr, &e.AllDay, &desc, &loc); err != nil {
			return nil, fmt.Errorf("scanning calendar event: %w", err)
		}

		e.Description = desc.String
		e.Location = loc.String

		if t, err := time.Parse(time.RFC3339, startStr); err == nil {
			e.Start = t
		}
		if t, err := time.Parse(time.RFC3339, endStr); err == nil {
			e.End = t
		}

		events = append(events, e)
	}

	return events, rows.Err()
}
