// Package ics implements the iCalendar subset Taskmate exchanges with other
// calendar applications: parsing uploaded .ics files into calendar events and
// serializing scheduled tasks back out.
//
// The parser is deliberately lenient. Partial or malformed VEVENTs are
// dropped rather than failing the whole file, and unknown properties are
// ignored. Timestamps are treated as local wall-clock time: a trailing Z is
// stripped, not converted. That matches how the events were authored by the
// calendars this tool is used with, and changing it would shift every
// imported commitment.
package ics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/christopherklint97/taskmate/internal/task"
)

// Parse extracts calendar events from raw iCalendar text. Events missing a
// summary, start, or end are silently skipped; Parse never fails.
func Parse(data string) []task.CalendarEvent {
	var events []task.CalendarEvent

	var cur task.CalendarEvent
	var hasStart, hasEnd, inEvent bool

	for _, line := range unfoldLines(data) {
		switch {
		case line == "BEGIN:VEVENT":
			cur = task.CalendarEvent{}
			hasStart, hasEnd = false, false
			inEvent = true

		case line == "END:VEVENT":
			if inEvent && cur.Title != "" && hasStart && hasEnd {
				events = append(events, cur)
			}
			inEvent = false

		case inEvent:
			key, value, ok := splitProperty(line)
			if !ok {
				continue
			}
			switch key {
			case "UID":
				cur.ID = value
			case "SUMMARY":
				cur.Title = unescapeText(value)
			case "DESCRIPTION":
				cur.Description = unescapeText(value)
			case "LOCATION":
				cur.Location = unescapeText(value)
			case "DTSTART":
				if t, err := decodeDateTime(value); err == nil {
					cur.Start = t
					hasStart = true
					// Date-only values mark all-day events.
					cur.AllDay = !strings.Contains(value, "T")
				}
			case "DTEND":
				if t, err := decodeDateTime(value); err == nil {
					cur.End = t
					hasEnd = true
				}
			}
		}
	}

	return events
}

// Fetch reads an iCalendar source from a URL or a local file path and parses
// it. Modeled after calendar subscription feeds, which are plain GETs.
func Fetch(ctx context.Context, source string) ([]task.CalendarEvent, error) {
	var r io.ReadCloser

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching calendar: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("calendar fetch returned status %d", resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("opening calendar file: %w", err)
		}
		r = f
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading calendar: %w", err)
	}

	return Parse(string(data)), nil
}

// unfoldLines splits raw iCalendar text into logical lines, applying the
// RFC 5545 folding rule: a line starting with a space or tab continues the
// previous logical line.
func unfoldLines(data string) []string {
	raw := strings.Split(strings.ReplaceAll(data, "\r\n", "\n"), "\n")

	var lines []string
	for _, l := range raw {
		if l == "" {
			continue
		}
		if (l[0] == ' ' || l[0] == '\t') && len(lines) > 0 {
			lines[len(lines)-1] += l[1:]
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// splitProperty breaks a logical line into KEY and VALUE, discarding any
// property parameters: "DTSTART;TZID=Europe/Stockholm:20260302T090000"
// yields ("DTSTART", "20260302T090000").
func splitProperty(line string) (key, value string, ok bool) {
	colon := strings.Index(line, ":")
	if colon < 0 {
		return "", "", false
	}
	key = line[:colon]
	value = line[colon+1:]
	if semi := strings.Index(key, ";"); semi >= 0 {
		key = key[:semi]
	}
	return strings.ToUpper(key), value, true
}

// decodeDateTime parses iCalendar DATE and DATE-TIME values as local time.
// A UTC marker is stripped rather than converted; see the package comment.
func decodeDateTime(v string) (time.Time, error) {
	v = strings.TrimSuffix(strings.TrimSpace(v), "Z")
	if v == "" {
		return time.Time{}, fmt.Errorf("empty date value")
	}
	if strings.Contains(v, "T") {
		return time.ParseInLocation("20060102T150405", v, time.Local)
	}
	return time.ParseInLocation("20060102", v, time.Local)
}

// unescapeText reverses iCalendar TEXT escaping for backslash, comma,
// semicolon, and newline.
func unescapeText(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n', 'N':
				b.WriteByte('\n')
			default:
				b.WriteByte(s[i+1])
			}
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
