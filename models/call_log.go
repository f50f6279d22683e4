package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CallLog records one voice-agent interaction so the dashboard can show
// call history next to the reservations it produced.
type CallLog struct {
	ID            uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TenantID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CallerPhone   string       `json:"caller_phone"`
	Action        string       `json:"action"`  // check_availability, get_available_slots, book_appointment
	Outcome       string       `json:"outcome"` // available, unavailable, booked, conflict, error
	ReservationID *uuid.UUID   `gorm:"type:uuid;index" json:"reservation_id,omitempty"`
	Reservation   *Reservation `gorm:"foreignKey:ReservationID" json:"reservation,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

func (cl *CallLog) BeforeCreate(tx *gorm.DB) error {
	if cl.ID == uuid.Nil {
		cl.ID = uuid.New()
	}
	return nil
}
