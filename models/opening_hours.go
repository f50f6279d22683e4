package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OpeningHours struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_opening_hours_tenant_day" json:"tenant_id"`
	DayOfWeek int       `gorm:"not null;uniqueIndex:idx_opening_hours_tenant_day" json:"day_of_week"` // 0=Sunday, 6=Saturday
	OpenTime  string    `gorm:"not null;default:'09:00'" json:"open_time"`
	CloseTime string    `gorm:"not null;default:'18:00'" json:"close_time"`
	IsClosed  bool      `gorm:"default:false" json:"is_closed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *OpeningHours) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// DefaultOpeningHours returns the fallback schedule applied for any weekday
// a tenant has no stored row for. Sunday defaults to closed.
func DefaultOpeningHours(day int) OpeningHours {
	return OpeningHours{
		DayOfWeek: day,
		OpenTime:  "09:00",
		CloseTime: "18:00",
		IsClosed:  day == 0,
	}
}

// MergeOpeningHours fills the gaps in a tenant's stored opening hours with
// defaults so callers always see seven well-formed days.
func MergeOpeningHours(stored []OpeningHours) [7]OpeningHours {
	var week [7]OpeningHours
	for day := 0; day < 7; day++ {
		week[day] = DefaultOpeningHours(day)
	}
	for _, h := range stored {
		if h.DayOfWeek >= 0 && h.DayOfWeek <= 6 {
			week[h.DayOfWeek] = h
		}
	}
	return week
}
