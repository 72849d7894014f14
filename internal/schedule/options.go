package schedule

import "github.com/christopherklint97/taskmate/internal/estimate"

// Options configures a scheduling run. The zero value is valid; unset fields
// take the documented defaults.
type Options struct {
	WorkStartHour   int     // default 9
	WorkEndHour     int     // default 17
	MaxTaskMinutes  int     // default 240
	MinTaskMinutes  int     // default 15
	IncludeWeekends bool    // default false
	BufferMinutes   int     // default 15; negative disables the buffer
	AITemperature   float64 // default 0.3
	AIModel         string  // default gpt-4o-mini
}

func DefaultOptions() Options {
	return Options{
		WorkStartHour:  9,
		WorkEndHour:    17,
		MaxTaskMinutes: 240,
		MinTaskMinutes: 15,
		BufferMinutes:  15,
		AITemperature:  0.3,
		AIModel:        "gpt-4o-mini",
	}
}

// withDefaults fills unset fields one by one, so setting any single option
// never disturbs the others. A zero BufferMinutes cannot be told apart from
// unset and takes the default; pass a negative value to run without buffer.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.WorkStartHour == 0 {
		o.WorkStartHour = d.WorkStartHour
	}
	if o.WorkEndHour == 0 {
		o.WorkEndHour = d.WorkEndHour
	}
	if o.MaxTaskMinutes == 0 {
		o.MaxTaskMinutes = d.MaxTaskMinutes
	}
	if o.MinTaskMinutes == 0 {
		o.MinTaskMinutes = d.MinTaskMinutes
	}
	switch {
	case o.BufferMinutes == 0:
		o.BufferMinutes = d.BufferMinutes
	case o.BufferMinutes < 0:
		o.BufferMinutes = 0
	}
	if o.AITemperature == 0 {
		o.AITemperature = d.AITemperature
	}
	if o.AIModel == "" {
		o.AIModel = d.AIModel
	}
	return o
}

func (o Options) bounds() estimate.Bounds {
	return estimate.Bounds{MinMinutes: o.MinTaskMinutes, MaxMinutes: o.MaxTaskMinutes}
}
