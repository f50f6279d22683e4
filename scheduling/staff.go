package scheduling

import (
	"time"

	"termino-backend/models"
)

// StaffAvailable reports whether a staff member is available at the given
// instant: the recurring shift for that weekday must be a working one and
// cover the time in its half-open window, and no exception for that date may
// block the time. Exceptions always win over the shift.
func StaffAvailable(shift *models.StaffShift, exceptions []models.ShiftException, at time.Time) bool {
	if shift == nil || !shift.IsWorking {
		return false
	}

	start, err := ClockOnDate(at, shift.StartTime)
	if err != nil {
		return false
	}
	end, err := ClockOnDate(at, shift.EndTime)
	if err != nil {
		return false
	}
	if at.Before(start) || !at.Before(end) {
		return false
	}

	date := at.Format("2006-01-02")
	for _, ex := range exceptions {
		if ex.ExceptionDate != date {
			continue
		}
		exStart, err := ClockOnDate(at, ex.StartTime)
		if err != nil {
			continue
		}
		exEnd, err := ClockOnDate(at, ex.EndTime)
		if err != nil {
			continue
		}
		if !at.Before(exStart) && at.Before(exEnd) {
			return false
		}
	}
	return true
}

// StaffCanTake reports whether a whole requested interval lies inside the
// staff member's working window with no blocking exception.
func StaffCanTake(shift *models.StaffShift, exceptions []models.ShiftException, requested Interval) bool {
	if shift == nil || !shift.IsWorking {
		return false
	}

	start, err := ClockOnDate(requested.Start, shift.StartTime)
	if err != nil {
		return false
	}
	end, err := ClockOnDate(requested.Start, shift.EndTime)
	if err != nil {
		return false
	}
	if requested.Start.Before(start) || requested.End.After(end) {
		return false
	}

	date := requested.Start.Format("2006-01-02")
	for _, ex := range exceptions {
		if ex.ExceptionDate != date {
			continue
		}
		exStart, err := ClockOnDate(requested.Start, ex.StartTime)
		if err != nil {
			continue
		}
		exEnd, err := ClockOnDate(requested.Start, ex.EndTime)
		if err != nil {
			continue
		}
		if Overlaps(requested, Interval{Start: exStart, End: exEnd}) {
			return false
		}
	}
	return true
}

// ShiftFor returns the recurring shift matching a date's weekday, or nil.
func ShiftFor(shifts []models.StaffShift, date time.Time) *models.StaffShift {
	day := int(date.Weekday())
	for i := range shifts {
		if shifts[i].DayOfWeek == day {
			return &shifts[i]
		}
	}
	return nil
}
