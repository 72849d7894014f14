package ics

import (
	"strings"
	"testing"
	"time"
)

const sampleCalendar = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//Test//Test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:evt-1\r\n" +
	"SUMMARY:Team standup\r\n" +
	"DTSTART:20260302T090000\r\n" +
	"DTEND:20260302T093000\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParseBasicEvent(t *testing.T) {
	events := Parse(sampleCalendar)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	e := events[0]
	if e.ID != "evt-1" {
		t.Errorf("ID = %q, want evt-1", e.ID)
	}
	if e.Title != "Team standup" {
		t.Errorf("Title = %q, want Team standup", e.Title)
	}
	if e.AllDay {
		t.Error("timed event flagged as all-day")
	}

	wantStart := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	if !e.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", e.Start, wantStart)
	}
	if got := e.End.Sub(e.Start); got != 30*time.Minute {
		t.Errorf("duration = %v, want 30m", got)
	}
}

func TestParseFoldedDescription(t *testing.T) {
	data := "BEGIN:VCALENDAR\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:evt-2\r\n" +
		"SUMMARY:Planning\r\n" +
		"DESCRIPTION:This description is long \r\n" +
		" enough to be folded across \r\n" +
		"\ttwo and even three physical lines\r\n" +
		"DTSTART:20260302T100000\r\n" +
		"DTEND:20260302T110000\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	events := Parse(data)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	want := "This description is long enough to be folded across two and even three physical lines"
	if events[0].Description != want {
		t.Errorf("Description = %q, want %q", events[0].Description, want)
	}
}

func TestParseAllDayEvent(t *testing.T) {
	data := "BEGIN:VCALENDAR\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:evt-3\r\n" +
		"SUMMARY:Public holiday\r\n" +
		"DTSTART;VALUE=DATE:20260306\r\n" +
		"DTEND;VALUE=DATE:20260307\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	events := Parse(data)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	e := events[0]
	if !e.AllDay {
		t.Error("date-only event not flagged all-day")
	}
	want := time.Date(2026, 3, 6, 0, 0, 0, 0, time.Local)
	if !e.Start.Equal(want) {
		t.Errorf("Start = %v, want local midnight %v", e.Start, want)
	}
}

// UTC-suffixed values are intentionally treated as local wall-clock time;
// the Z marker is stripped, not converted. This pins that compatibility
// behavior so nobody "fixes" it silently.
func TestParseStripsUTCMarker(t *testing.T) {
	data := "BEGIN:VCALENDAR\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:evt-4\r\n" +
		"SUMMARY:Remote call\r\n" +
		"DTSTART:20260302T140000Z\r\n" +
		"DTEND:20260302T150000Z\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	events := Parse(data)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	want := time.Date(2026, 3, 2, 14, 0, 0, 0, time.Local)
	if !events[0].Start.Equal(want) {
		t.Errorf("Start = %v, want naive local %v", events[0].Start, want)
	}
}

func TestParseDropsPartialEvents(t *testing.T) {
	data := "BEGIN:VCALENDAR\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:no-summary\r\n" +
		"DTSTART:20260302T090000\r\n" +
		"DTEND:20260302T100000\r\n" +
		"END:VEVENT\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:no-end\r\n" +
		"SUMMARY:Half an event\r\n" +
		"DTSTART:20260302T110000\r\n" +
		"END:VEVENT\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:complete\r\n" +
		"SUMMARY:Whole event\r\n" +
		"DTSTART:20260302T120000\r\n" +
		"DTEND:20260302T130000\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	events := Parse(data)
	if len(events) != 1 {
		t.Fatalf("got %d events, want only the complete one: %+v", len(events), events)
	}
	if events[0].ID != "complete" {
		t.Errorf("kept event %q, want complete", events[0].ID)
	}
}

func TestParseIgnoresUnknownKeysAndGarbage(t *testing.T) {
	data := "BEGIN:VCALENDAR\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:evt-5\r\n" +
		"SUMMARY:Sturdy event\r\n" +
		"X-CUSTOM-PROP;LANG=en:whatever\r\n" +
		"not a property line at all\r\n" +
		"DTSTART:20260302T090000\r\n" +
		"DTEND:20260302T100000\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	events := Parse(data)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
}

func TestParseUnescapesText(t *testing.T) {
	data := "BEGIN:VCALENDAR\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:evt-6\r\n" +
		"SUMMARY:Lunch\\, coffee\\; dessert\r\n" +
		"DESCRIPTION:line one\\nline two\\\\done\r\n" +
		"DTSTART:20260302T120000\r\n" +
		"DTEND:20260302T130000\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	events := Parse(data)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if got, want := events[0].Title, "Lunch, coffee; dessert"; got != want {
		t.Errorf("Title = %q, want %q", got, want)
	}
	if got, want := events[0].Description, "line one\nline two\\done"; got != want {
		t.Errorf("Description = %q, want %q", got, want)
	}
}

func TestParseHandlesBareLF(t *testing.T) {
	data := strings.ReplaceAll(sampleCalendar, "\r\n", "\n")
	events := Parse(data)
	if len(events) != 1 {
		t.Fatalf("got %d events from LF-only input, want 1", len(events))
	}
}

func TestParseEmptyInput(t *testing.T) {
	if events := Parse(""); len(events) != 0 {
		t.Errorf("Parse(\"\") returned %d events, want 0", len(events))
	}
}
