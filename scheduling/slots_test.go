package scheduling

import (
	"testing"
	"time"

	"termino-backend/models"
)

func TestSlotsBusinessDay(t *testing.T) {
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	slots := Slots(date, "09:00", "18:00", 60)

	want := []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00", "17:00"}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(slots))
	}
	for i, s := range slots {
		if s.Format("15:04") != want[i] {
			t.Errorf("slot %d: expected %s, got %s", i, want[i], s.Format("15:04"))
		}
	}
}

func TestSlotsHalfHourStep(t *testing.T) {
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	slots := Slots(date, "09:00", "11:00", 30)

	want := []string{"09:00", "09:30", "10:00", "10:30"}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(slots))
	}
	for i, s := range slots {
		if s.Format("15:04") != want[i] {
			t.Errorf("slot %d: expected %s, got %s", i, want[i], s.Format("15:04"))
		}
	}
}

func TestSlotsDeterministic(t *testing.T) {
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	first := Slots(date, "09:00", "18:00", 60)
	second := Slots(date, "09:00", "18:00", 60)

	if len(first) != len(second) {
		t.Fatalf("two runs returned different lengths: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Errorf("slot %d differs between runs", i)
		}
	}
}

func TestSlotsInvalidHours(t *testing.T) {
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	if got := Slots(date, "bogus", "18:00", 60); got != nil {
		t.Errorf("expected nil for invalid open time, got %v", got)
	}
	if got := Slots(date, "18:00", "09:00", 60); got != nil {
		t.Errorf("expected nil when close precedes open, got %v", got)
	}
}

func TestDaySlotsClosedDay(t *testing.T) {
	date := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC) // Sunday
	day := models.OpeningHours{DayOfWeek: 0, OpenTime: "09:00", CloseTime: "18:00", IsClosed: true}

	if got := DaySlots(date, day, 60); got != nil {
		t.Errorf("closed day must yield no slots, got %v", got)
	}
}
