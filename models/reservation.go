package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

type Reservation struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Tenant   Tenant    `gorm:"foreignKey:TenantID" json:"-"`

	Date      string  `gorm:"not null;index" json:"date"`       // YYYY-MM-DD
	StartTime string  `gorm:"not null" json:"start_time"`       // HH:MM
	EndTime   *string `json:"end_time,omitempty"`               // derived from duration when absent
	// DurationMinutes is recorded at creation time so the implied end of a
	// reservation without an explicit end_time never depends on whichever
	// default the querying call site happens to use.
	DurationMinutes int `gorm:"not null;default:60" json:"duration_minutes"`

	Status        ReservationStatus `gorm:"default:pending;index" json:"status"`
	StaffMemberID *uuid.UUID        `gorm:"type:uuid;index" json:"staff_member_id,omitempty"`
	StaffMember   *StaffMember      `gorm:"foreignKey:StaffMemberID" json:"staff_member,omitempty"`
	ContactID     *uuid.UUID        `gorm:"type:uuid;index" json:"contact_id,omitempty"`
	Contact       *Contact          `gorm:"foreignKey:ContactID" json:"contact,omitempty"`

	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email"`
	Notes         string `json:"notes"`
	Source        string `gorm:"default:portal" json:"source"` // portal, voice_ai, automation

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// AllowedStatusTransitions defines the valid reservation status state machine.
var AllowedStatusTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusPending:   {ReservationStatusConfirmed, ReservationStatusCancelled},
	ReservationStatusConfirmed: {ReservationStatusCompleted, ReservationStatusCancelled},
	ReservationStatusCompleted: {},
	ReservationStatusCancelled: {},
}

// IsValidStatusTransition checks if a status transition is allowed.
func IsValidStatusTransition(from, to ReservationStatus) bool {
	allowed, exists := AllowedStatusTransitions[from]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}
