package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StaffShift is the recurring weekly working-hours rule for one staff member.
// At most one row exists per (staff_member_id, day_of_week); writes go through
// an upsert on that key.
type StaffShift struct {
	ID            uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StaffMemberID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_staff_shifts_member_day" json:"staff_member_id"`
	StaffMember   StaffMember `gorm:"foreignKey:StaffMemberID" json:"-"`
	DayOfWeek     int         `gorm:"not null;uniqueIndex:idx_staff_shifts_member_day" json:"day_of_week"`
	StartTime     string      `gorm:"not null;default:'09:00'" json:"start_time"`
	EndTime       string      `gorm:"not null;default:'17:00'" json:"end_time"`
	IsWorking     bool        `gorm:"default:true" json:"is_working"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func (s *StaffShift) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
