package scheduling

import (
	"time"

	"termino-backend/models"
)

// Fallbacks applied when a tenant row carries no usable value. Every call
// site goes through these instead of keeping its own constants.
const (
	FallbackDurationMinutes    = 60
	FallbackGranularityMinutes = 60
	DefaultMaxAlternatives     = 5
)

// Config carries the per-tenant booking parameters. All call sites share one
// Config per tenant instead of keeping their own duration or granularity
// constants.
type Config struct {
	DefaultDurationMinutes int
	GranularityMinutes     int
	MaxAlternatives        int
}

// TenantConfig builds the resolver configuration from a tenant row, applying
// sane fallbacks for unset values.
func TenantConfig(t models.Tenant) Config {
	cfg := Config{
		DefaultDurationMinutes: t.DefaultDurationMinutes,
		GranularityMinutes:     t.SlotGranularityMinutes,
		MaxAlternatives:        DefaultMaxAlternatives,
	}
	if cfg.DefaultDurationMinutes <= 0 {
		cfg.DefaultDurationMinutes = FallbackDurationMinutes
	}
	if cfg.GranularityMinutes <= 0 {
		cfg.GranularityMinutes = FallbackGranularityMinutes
	}
	return cfg
}

// CollectIntervals converts reservation rows into occupied intervals.
// Cancelled reservations never block a slot; rows that cannot be parsed are
// skipped rather than silently treated as free or busy for the whole day.
func CollectIntervals(reservations []models.Reservation) []Interval {
	var intervals []Interval
	for _, r := range reservations {
		if r.Status == models.ReservationStatusCancelled {
			continue
		}
		iv, err := ReservationInterval(r)
		if err != nil {
			continue
		}
		intervals = append(intervals, iv)
	}
	return intervals
}

// IsAvailable reports whether the requested interval conflicts with none of
// the existing ones.
func IsAvailable(requested Interval, existing []Interval) bool {
	for _, e := range existing {
		if Overlaps(requested, e) {
			return false
		}
	}
	return true
}

// WithinHours reports whether the interval lies inside the day's opening
// window. Days marked closed have no window.
func WithinHours(requested Interval, date time.Time, day models.OpeningHours) bool {
	if day.IsClosed {
		return false
	}
	open, err := ClockOnDate(date, day.OpenTime)
	if err != nil {
		return false
	}
	closing, err := ClockOnDate(date, day.CloseTime)
	if err != nil {
		return false
	}
	return !requested.Start.Before(open) && !requested.End.After(closing)
}

// Alternatives proposes free start times for an appointment of the given
// duration on date, in ascending order, capped at cfg.MaxAlternatives. Each
// candidate is tested with the requested duration, not the slot step.
func Alternatives(date time.Time, day models.OpeningHours, existing []Interval, durationMinutes int, cfg Config) []string {
	if durationMinutes <= 0 {
		durationMinutes = cfg.DefaultDurationMinutes
	}
	limit := cfg.MaxAlternatives
	if limit <= 0 {
		limit = DefaultMaxAlternatives
	}

	closing, closeKnown := closingInstant(date, day)

	var alternatives []string
	for _, slot := range DaySlots(date, day, cfg.GranularityMinutes) {
		candidate := Interval{Start: slot, End: slot.Add(time.Duration(durationMinutes) * time.Minute)}
		if closeKnown && candidate.End.After(closing) {
			break
		}
		if !IsAvailable(candidate, existing) {
			continue
		}
		alternatives = append(alternatives, slot.Format("15:04"))
		if len(alternatives) >= limit {
			break
		}
	}
	return alternatives
}

// closingInstant resolves the day's close time on the given date. Candidates
// whose duration would overrun it are not proposed.
func closingInstant(date time.Time, day models.OpeningHours) (time.Time, bool) {
	closing, err := ClockOnDate(date, day.CloseTime)
	if err != nil {
		return time.Time{}, false
	}
	return closing, true
}

// FreeSlots lists every free start time of the day, uncapped, for the
// get_available_slots action.
func FreeSlots(date time.Time, day models.OpeningHours, existing []Interval, durationMinutes int, cfg Config) []string {
	if durationMinutes <= 0 {
		durationMinutes = cfg.DefaultDurationMinutes
	}
	closing, closeKnown := closingInstant(date, day)

	var free []string
	for _, slot := range DaySlots(date, day, cfg.GranularityMinutes) {
		candidate := Interval{Start: slot, End: slot.Add(time.Duration(durationMinutes) * time.Minute)}
		if closeKnown && candidate.End.After(closing) {
			break
		}
		if IsAvailable(candidate, existing) {
			free = append(free, slot.Format("15:04"))
		}
	}
	return free
}
