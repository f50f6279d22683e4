package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShiftException blocks a staff member for a dated window, overriding the
// recurring shift. Multiple exceptions may exist per staff member and date.
// Exceptions only remove availability; they never add hours beyond the shift.
type ShiftException struct {
	ID            uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StaffMemberID uuid.UUID   `gorm:"type:uuid;not null;index" json:"staff_member_id"`
	StaffMember   StaffMember `gorm:"foreignKey:StaffMemberID" json:"-"`
	ExceptionDate string      `gorm:"not null;index" json:"exception_date"` // YYYY-MM-DD
	StartTime     string      `gorm:"not null" json:"start_time"`
	EndTime       string      `gorm:"not null" json:"end_time"`
	Reason        string      `json:"reason"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func (s *ShiftException) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
