package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Commission is written exactly once per settled appointment.
type Commission struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	StaffID       uuid.UUID `gorm:"type:uuid;index;not null"`
	AppointmentID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	ServiceID     uuid.UUID `gorm:"type:uuid;index;not null"`

	ServicePrice     float64 `gorm:"type:decimal(10,2);not null"`
	MaterialCost     float64 `gorm:"type:decimal(10,2);not null"`
	CommissionAmount float64 `gorm:"type:decimal(10,2);not null"`
	CommissionRate   float64 `gorm:"type:decimal(4,2);not null"`

	gorm.Model
}

func (c *Commission) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// StaffServiceCommission overrides a staff member's default rate for one
// service. A stored rate of zero counts as unset and falls through to the
// staff default.
type StaffServiceCommission struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	StaffID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_staff_service,priority:1"`
	ServiceID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_staff_service,priority:2"`
	CommissionRate float64   `gorm:"type:decimal(4,2);not null"`
}

func (c *StaffServiceCommission) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
