package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StaffMember struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name      string    `gorm:"not null" json:"name"`
	Color     string    `gorm:"default:'#4F46E5'" json:"color"`
	IsActive  bool      `gorm:"default:true" json:"is_active"` // soft flag, never deleted
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *StaffMember) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
