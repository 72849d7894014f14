package schedule

import (
	"testing"
	"time"

	"github.com/christopherklint97/taskmate/internal/task"
)

// monday is a fixed Monday morning before work hours.
var monday = time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local)

func day(base time.Time, offset int, hour, min int) time.Time {
	d := base.AddDate(0, 0, offset)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, d.Location())
}

func TestFreeSlotsSkipsWeekends(t *testing.T) {
	slots := FreeSlots(nil, DefaultOptions(), monday)

	// Mon..next Mon inclusive is 8 days; Saturday and Sunday drop out.
	if len(slots) != 6 {
		t.Fatalf("got %d slots, want 6 weekday slots", len(slots))
	}
	for _, s := range slots {
		if wd := s.Start.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Errorf("slot on weekend: %v", s.Start)
		}
	}
}

func TestFreeSlotsIncludesWeekends(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeWeekends = true

	slots := FreeSlots(nil, opts, monday)
	if len(slots) != 8 {
		t.Fatalf("got %d slots, want 8 daily slots", len(slots))
	}
}

func TestFreeSlotsRespectsWorkHours(t *testing.T) {
	slots := FreeSlots(nil, DefaultOptions(), monday)
	for _, s := range slots {
		if s.Start.Hour() < 9 || s.End.Hour() > 17 {
			t.Errorf("slot %v–%v outside 09:00–17:00", s.Start, s.End)
		}
	}
}

func TestFreeSlotsClipsToNow(t *testing.T) {
	lateMonday := day(monday, 0, 15, 30)
	slots := FreeSlots(nil, DefaultOptions(), lateMonday)

	first := slots[0]
	if first.Start.Before(lateMonday) {
		t.Errorf("first slot starts %v, before now %v", first.Start, lateMonday)
	}
	if got := first.Minutes(); got != 90 {
		t.Errorf("clipped slot is %.0f minutes, want 90", got)
	}
}

func TestFreeSlotsSplitsAroundEvent(t *testing.T) {
	events := []task.CalendarEvent{
		{ID: "lunch", Title: "Lunch", Start: day(monday, 0, 12, 0), End: day(monday, 0, 13, 0)},
	}

	slots := FreeSlots(events, DefaultOptions(), monday)

	if len(slots) != 7 {
		t.Fatalf("got %d slots, want 7 (Monday split in two)", len(slots))
	}
	if !slots[0].End.Equal(events[0].Start) {
		t.Errorf("morning slot ends %v, want event start %v", slots[0].End, events[0].Start)
	}
	if !slots[1].Start.Equal(events[0].End) {
		t.Errorf("afternoon slot starts %v, want event end %v", slots[1].Start, events[0].End)
	}
}

func TestFreeSlotsMultipleEventsSameDay(t *testing.T) {
	events := []task.CalendarEvent{
		{ID: "a", Title: "Standup", Start: day(monday, 1, 9, 0), End: day(monday, 1, 10, 0)},
		{ID: "b", Title: "Review", Start: day(monday, 1, 11, 0), End: day(monday, 1, 12, 0)},
		{ID: "c", Title: "1:1", Start: day(monday, 1, 15, 0), End: day(monday, 1, 16, 0)},
	}

	slots := FreeSlots(events, DefaultOptions(), monday)

	var tuesday []Slot
	for _, s := range slots {
		if s.Start.Day() == day(monday, 1, 0, 0).Day() {
			tuesday = append(tuesday, s)
		}
	}

	// 10–11, 12–15, 16–17.
	if len(tuesday) != 3 {
		t.Fatalf("got %d Tuesday slots, want 3: %+v", len(tuesday), tuesday)
	}
	wantMinutes := []float64{60, 180, 60}
	for i, s := range tuesday {
		if got := s.Minutes(); got != wantMinutes[i] {
			t.Errorf("Tuesday slot %d is %.0f minutes, want %.0f", i, got, wantMinutes[i])
		}
	}
}

func TestFreeSlotsDiscardsSlivers(t *testing.T) {
	// Event leaves a 15-minute tail, below the 30-minute minimum.
	events := []task.CalendarEvent{
		{ID: "long", Title: "Workshop", Start: day(monday, 0, 9, 0), End: day(monday, 0, 16, 45)},
	}

	slots := FreeSlots(events, DefaultOptions(), monday)
	for _, s := range slots {
		if s.Start.Day() == monday.Day() && s.Start.Month() == monday.Month() {
			t.Errorf("sliver slot survived: %v–%v (%.0f min)", s.Start, s.End, s.Minutes())
		}
		if s.Minutes() < minSlotMinutes {
			t.Errorf("slot below minimum duration: %.0f min", s.Minutes())
		}
	}
}

func TestFreeSlotsNonOverlappingAndSorted(t *testing.T) {
	events := []task.CalendarEvent{
		{ID: "a", Title: "A", Start: day(monday, 0, 10, 0), End: day(monday, 0, 11, 0)},
		{ID: "b", Title: "B", Start: day(monday, 2, 13, 0), End: day(monday, 2, 14, 30)},
		{ID: "c", Title: "C", Start: day(monday, 3, 9, 30), End: day(monday, 3, 12, 0)},
	}

	slots := FreeSlots(events, DefaultOptions(), monday)
	for i := 1; i < len(slots); i++ {
		if slots[i].Start.Before(slots[i-1].Start) {
			t.Errorf("slots not sorted: %v before %v", slots[i].Start, slots[i-1].Start)
		}
		if slots[i].Start.Before(slots[i-1].End) {
			t.Errorf("slots overlap: %v–%v and %v–%v",
				slots[i-1].Start, slots[i-1].End, slots[i].Start, slots[i].End)
		}
	}
}

func TestFreeSlotsAllDayEventBlocksDay(t *testing.T) {
	events := []task.CalendarEvent{
		{
			ID: "offsite", Title: "Offsite", AllDay: true,
			Start: day(monday, 1, 0, 0),
			End:   day(monday, 2, 0, 0),
		},
	}

	slots := FreeSlots(events, DefaultOptions(), monday)
	for _, s := range slots {
		if s.Start.Day() == day(monday, 1, 0, 0).Day() && s.Start.Month() == monday.Month() {
			t.Errorf("slot on fully blocked day: %v", s.Start)
		}
	}
}

func TestFreeSlotsIgnoresEventsOutsideHorizon(t *testing.T) {
	events := []task.CalendarEvent{
		{ID: "past", Title: "Past", Start: day(monday, -3, 9, 0), End: day(monday, -3, 17, 0)},
		{ID: "far", Title: "Far future", Start: day(monday, 20, 9, 0), End: day(monday, 20, 17, 0)},
	}

	slots := FreeSlots(events, DefaultOptions(), monday)
	if len(slots) != 6 {
		t.Errorf("out-of-horizon events changed slot count: got %d, want 6", len(slots))
	}
}
