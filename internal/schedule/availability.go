package schedule

import (
	"sort"
	"time"

	"github.com/christopherklint97/taskmate/internal/task"
)

// horizonDays is the rolling scheduling window: today plus seven days.
const horizonDays = 7

// minSlotMinutes is the smallest free block worth offering; anything shorter
// cannot hold a task plus breathing room.
const minSlotMinutes = 30

// Slot is a contiguous block of bookable free time. Slots only live for the
// duration of one scheduling run.
type Slot struct {
	Start time.Time
	End   time.Time
}

// Minutes returns the slot duration in fractional minutes.
func (s Slot) Minutes() float64 {
	return s.End.Sub(s.Start).Minutes()
}

// FreeSlots computes the free work-hour windows between now and the end of
// the horizon, subtracting every overlapping calendar event. The result is
// non-overlapping, each slot at least minSlotMinutes long, sorted ascending
// by start.
func FreeSlots(events []task.CalendarEvent, opts Options, now time.Time) []Slot {
	opts = opts.withDefaults()

	var slots []Slot
	for d := 0; d <= horizonDays; d++ {
		day := now.AddDate(0, 0, d)
		if !opts.IncludeWeekends && (day.Weekday() == time.Saturday || day.Weekday() == time.Sunday) {
			continue
		}

		start := time.Date(day.Year(), day.Month(), day.Day(), opts.WorkStartHour, 0, 0, 0, day.Location())
		end := time.Date(day.Year(), day.Month(), day.Day(), opts.WorkEndHour, 0, 0, 0, day.Location())

		// Today's window starts no earlier than now; nothing is scheduled
		// into the past.
		if start.Before(now) {
			start = now
		}
		if !end.After(start) {
			continue
		}

		slots = append(slots, Slot{Start: start, End: end})
	}

	horizon := now.AddDate(0, 0, horizonDays)
	for _, e := range events {
		if e.Start.Before(now) && e.End.Before(now) {
			continue
		}
		if e.Start.After(horizon) {
			continue
		}
		slots = subtract(slots, e)
	}

	var out []Slot
	for _, s := range slots {
		if s.Minutes() >= minSlotMinutes {
			out = append(out, s)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// subtract removes the event's interval from every slot it overlaps,
// keeping the remainders before and after the event.
func subtract(slots []Slot, e task.CalendarEvent) []Slot {
	var next []Slot
	for _, s := range slots {
		if !(e.Start.Before(s.End) && e.End.After(s.Start)) {
			next = append(next, s)
			continue
		}
		if e.Start.After(s.Start) {
			next = append(next, Slot{Start: s.Start, End: e.Start})
		}
		if e.End.Before(s.End) {
			next = append(next, Slot{Start: e.End, End: s.End})
		}
	}
	return next
}
