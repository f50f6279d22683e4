package scheduling

import (
	"time"

	"termino-backend/models"
)

// Slots enumerates candidate start times between open and close at the given
// step, ascending. A candidate is included only while a step-sized appointment
// still fits before close, so 09:00-18:00 at 60 minutes yields 09:00 through
// 17:00. The sequence is deterministic for a given input.
func Slots(date time.Time, open, close string, stepMinutes int) []time.Time {
	if stepMinutes <= 0 {
		stepMinutes = 60
	}
	start, err := ClockOnDate(date, open)
	if err != nil {
		return nil
	}
	end, err := ClockOnDate(date, close)
	if err != nil {
		return nil
	}

	step := time.Duration(stepMinutes) * time.Minute
	var slots []time.Time
	for cursor := start; !cursor.Add(step).After(end); cursor = cursor.Add(step) {
		slots = append(slots, cursor)
	}
	return slots
}

// DaySlots enumerates candidates for one weekday's opening hours. Closed days
// yield nothing.
func DaySlots(date time.Time, day models.OpeningHours, stepMinutes int) []time.Time {
	if day.IsClosed {
		return nil
	}
	return Slots(date, day.OpenTime, day.CloseTime, stepMinutes)
}
