package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"termino-backend/models"
)

// Interval is a half-open [Start, End) span of time. Both bounds are absolute
// instants (date and time-of-day combined), so comparisons never wrap at
// midnight.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two intervals conflict. Touching endpoints do not
// conflict: a reservation ending at 19:00 leaves 19:00 free.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// NewInterval builds an interval starting at the given clock time on date and
// lasting durationMinutes.
func NewInterval(date time.Time, clock string, durationMinutes int) (Interval, error) {
	start, err := ClockOnDate(date, clock)
	if err != nil {
		return Interval{}, err
	}
	if durationMinutes <= 0 {
		return Interval{}, fmt.Errorf("invalid duration: %d minutes", durationMinutes)
	}
	return Interval{Start: start, End: start.Add(time.Duration(durationMinutes) * time.Minute)}, nil
}

// ReservationInterval derives the occupied interval of a reservation. When no
// explicit end time is stored, the end is the start plus the duration that was
// recorded on the row at booking time.
func ReservationInterval(r models.Reservation) (Interval, error) {
	date, err := ParseDate(r.Date)
	if err != nil {
		return Interval{}, err
	}
	start, err := ClockOnDate(date, r.StartTime)
	if err != nil {
		return Interval{}, err
	}
	if r.EndTime != nil && *r.EndTime != "" {
		end, err := ClockOnDate(date, *r.EndTime)
		if err != nil {
			return Interval{}, err
		}
		if !end.After(start) {
			return Interval{}, fmt.Errorf("reservation %s ends before it starts", r.ID)
		}
		return Interval{Start: start, End: end}, nil
	}
	minutes := r.DurationMinutes
	if minutes <= 0 {
		minutes = FallbackDurationMinutes
	}
	return Interval{Start: start, End: start.Add(time.Duration(minutes) * time.Minute)}, nil
}

// ParseDate accepts the two date formats the integrations send:
// "2006-01-02" and the German "02.01.2006".
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("02.01.2006", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date format: %q", s)
}

// ClockOnDate places an "HH:MM" clock time onto the given date.
func ClockOnDate(date time.Time, clock string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("invalid time format: %q", clock)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("invalid hour in %q", clock)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("invalid minute in %q", clock)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location()), nil
}
