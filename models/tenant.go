package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tenant struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name    string    `gorm:"not null" json:"name"`
	Slug    string    `gorm:"uniqueIndex;not null" json:"slug"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null" json:"owner_id"`
	Owner   User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Address string    `json:"address"`
	City    string    `json:"city"`
	Phone   string    `json:"phone"`
	Email   string    `json:"email"`

	// Booking configuration. Every call site (portal, check-availability,
	// voice agent) reads these instead of carrying its own constants.
	DefaultDurationMinutes int `gorm:"default:60" json:"default_duration_minutes"`
	SlotGranularityMinutes int `gorm:"default:60" json:"slot_granularity_minutes"`

	IsActive     bool           `gorm:"default:true" json:"is_active"`
	OpeningHours []OpeningHours `gorm:"foreignKey:TenantID" json:"opening_hours,omitempty"`
	Staff        []StaffMember  `gorm:"foreignKey:TenantID" json:"staff,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
