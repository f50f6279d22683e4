package scheduling

import (
	"testing"
	"time"

	"termino-backend/models"
)

func mondayShift() *models.StaffShift {
	return &models.StaffShift{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsWorking: true}
}

func at(t *testing.T, clock string) time.Time {
	t.Helper()
	// 2026-09-07 is a Monday.
	instant, err := ClockOnDate(time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), clock)
	if err != nil {
		t.Fatalf("ClockOnDate(%s): %v", clock, err)
	}
	return instant
}

func TestStaffAvailableWithException(t *testing.T) {
	shift := mondayShift()
	exceptions := []models.ShiftException{
		{ExceptionDate: "2026-09-07", StartTime: "13:00", EndTime: "14:00", Reason: "lunch meeting"},
	}

	if !StaffAvailable(shift, exceptions, at(t, "10:00")) {
		t.Error("expected available at 10:00")
	}
	if StaffAvailable(shift, exceptions, at(t, "13:30")) {
		t.Error("expected unavailable at 13:30 inside the exception window")
	}
	if !StaffAvailable(shift, exceptions, at(t, "16:00")) {
		t.Error("expected available again at 16:00")
	}
}

func TestStaffAvailableShiftBounds(t *testing.T) {
	shift := mondayShift()

	if StaffAvailable(shift, nil, at(t, "08:59")) {
		t.Error("expected unavailable before shift start")
	}
	if !StaffAvailable(shift, nil, at(t, "09:00")) {
		t.Error("shift start is inclusive")
	}
	if StaffAvailable(shift, nil, at(t, "17:00")) {
		t.Error("shift end is exclusive")
	}
}

func TestStaffAvailableNonWorkingShift(t *testing.T) {
	shift := &models.StaffShift{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsWorking: false}

	if StaffAvailable(shift, nil, at(t, "10:00")) {
		t.Error("non-working shift must make the staff member unavailable")
	}
	if StaffAvailable(nil, nil, at(t, "10:00")) {
		t.Error("missing shift must make the staff member unavailable")
	}
}

func TestStaffAvailableExceptionOtherDate(t *testing.T) {
	shift := mondayShift()
	exceptions := []models.ShiftException{
		{ExceptionDate: "2026-09-14", StartTime: "09:00", EndTime: "17:00", Reason: "vacation"},
	}

	if !StaffAvailable(shift, exceptions, at(t, "10:00")) {
		t.Error("an exception on a different date must not block")
	}
}

func TestStaffCanTakeInterval(t *testing.T) {
	shift := mondayShift()
	exceptions := []models.ShiftException{
		{ExceptionDate: "2026-09-07", StartTime: "13:00", EndTime: "14:00"},
	}

	free := Interval{Start: at(t, "10:00"), End: at(t, "11:00")}
	if !StaffCanTake(shift, exceptions, free) {
		t.Error("expected 10:00-11:00 to fit")
	}

	grazing := Interval{Start: at(t, "12:30"), End: at(t, "13:30")}
	if StaffCanTake(shift, exceptions, grazing) {
		t.Error("an interval crossing into the exception must be rejected")
	}

	overrun := Interval{Start: at(t, "16:30"), End: at(t, "17:30")}
	if StaffCanTake(shift, nil, overrun) {
		t.Error("an interval overrunning the shift end must be rejected")
	}
}

func TestShiftFor(t *testing.T) {
	shifts := []models.StaffShift{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsWorking: true},
		{DayOfWeek: 3, StartTime: "12:00", EndTime: "20:00", IsWorking: true},
	}

	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	if got := ShiftFor(shifts, monday); got == nil || got.DayOfWeek != 1 {
		t.Errorf("expected Monday shift, got %+v", got)
	}

	tuesday := monday.AddDate(0, 0, 1)
	if got := ShiftFor(shifts, tuesday); got != nil {
		t.Errorf("expected no Tuesday shift, got %+v", got)
	}
}
