package ics

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/christopherklint97/taskmate/internal/task"
)

const (
	prodID    = "-//Taskmate//Task Scheduler//EN"
	uidDomain = "taskmate"
)

// Generator serializes scheduled tasks into iCalendar text.
type Generator struct {
	logger *slog.Logger

	// now is swappable so tests can pin the generation timestamp.
	now func() time.Time
}

func NewGenerator(logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Generator{logger: logger, now: time.Now}
}

// Filename returns the default export filename for the given date.
func Filename(now time.Time) string {
	return fmt.Sprintf("taskmate-scheduled-tasks-%s.ics", now.Format("2006-01-02"))
}

// Generate produces a VCALENDAR document with one VEVENT per scheduled task.
// An empty task list yields an empty string; callers treat that as "nothing
// to export". The output is self-validated afterwards; problems are logged
// but never fail the export, since a best-effort file still beats none.
func (g *Generator) Generate(tasks []task.ScheduledTask) string {
	if len(tasks) == 0 {
		return ""
	}

	now := g.now().UTC()
	stamp := now.Format("20060102T150405Z")

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + prodID,
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}

	for _, t := range tasks {
		lines = append(lines, "BEGIN:VEVENT")
		lines = append(lines, fmt.Sprintf("UID:%s-%d-%s@%s", t.TaskID, now.Unix(), nonce(), uidDomain))
		lines = append(lines, "DTSTAMP:"+stamp)
		lines = append(lines, "CREATED:"+stamp)
		lines = append(lines, "LAST-MODIFIED:"+stamp)
		lines = append(lines, "DTSTART:"+t.Start.UTC().Format("20060102T150405Z"))
		lines = append(lines, "DTEND:"+t.End.UTC().Format("20060102T150405Z"))
		lines = append(lines, "SUMMARY:"+escapeText(t.Title))
		lines = append(lines, "DESCRIPTION:"+escapeText(describe(t)))
		if t.Location != "" {
			lines = append(lines, "LOCATION:"+escapeText(t.Location))
		}
		lines = append(lines, fmt.Sprintf("PRIORITY:%d", t.Priority.ICalClass()))
		if len(t.Tags) > 0 {
			cats := make([]string, len(t.Tags))
			for i, tag := range t.Tags {
				cats[i] = escapeText(tag)
			}
			lines = append(lines, "CATEGORIES:"+strings.Join(cats, ","))
		}
		lines = append(lines, "END:VEVENT")
	}

	lines = append(lines, "END:VCALENDAR")
	out := strings.Join(lines, "\r\n") + "\r\n"

	for _, problem := range validate(out) {
		g.logger.Warn("generated ICS failed validation", "problem", problem)
	}

	return out
}

// describe synthesizes the event description, embedding the priority and
// estimate so they survive in calendar apps that ignore PRIORITY.
func describe(t task.ScheduledTask) string {
	meta := fmt.Sprintf("Priority: %s\nEstimated duration: %d minutes", t.Priority, t.EstimatedMinutes)
	if t.Description == "" {
		return meta
	}
	return t.Description + "\n\n" + meta
}

func nonce() string {
	return uuid.NewString()[:8]
}

// escapeText applies iCalendar TEXT escaping and drops control characters
// that would corrupt the line-oriented format.
func escapeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case ';':
			b.WriteString(`\;`)
		case ',':
			b.WriteString(`\,`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		default:
			if r < 0x20 || r == 0x7f {
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// validate runs the defensive post-generation checks: envelope markers,
// version, CRLF endings, and required per-event properties.
func validate(out string) []string {
	var problems []string

	if !strings.Contains(out, "BEGIN:VCALENDAR") || !strings.Contains(out, "END:VCALENDAR") {
		problems = append(problems, "missing VCALENDAR envelope")
	}
	if !strings.Contains(out, "VERSION:2.0") {
		problems = append(problems, "missing VERSION:2.0")
	}
	if !strings.Contains(out, "\r\n") {
		problems = append(problems, "missing CRLF line endings")
	}

	required := []string{"UID:", "DTSTART:", "DTEND:", "SUMMARY:"}
	events := strings.Split(out, "BEGIN:VEVENT")
	for i, block := range events[1:] {
		end := strings.Index(block, "END:VEVENT")
		if end < 0 {
			problems = append(problems, fmt.Sprintf("event %d missing END:VEVENT", i+1))
			continue
		}
		body := block[:end]
		for _, req := range required {
			if !strings.Contains(body, "\r\n"+req) {
				problems = append(problems, fmt.Sprintf("event %d missing %s", i+1, strings.TrimSuffix(req, ":")))
			}
		}
	}

	return problems
}
