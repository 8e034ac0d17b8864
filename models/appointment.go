package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AppointmentPending   = "pending"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
	AppointmentNoShow    = "no_show"
)

type Appointment struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	SalonID uuid.UUID `gorm:"type:uuid;index;not null"`

	ServiceID uuid.UUID  `gorm:"type:uuid;index;not null"`
	StaffID   *uuid.UUID `gorm:"type:uuid;index"`

	CustomerName  string `gorm:"not null"`
	CustomerPhone string `gorm:"index"`

	AppointmentDate time.Time `gorm:"type:date;index"`
	AppointmentTime string    `gorm:"type:varchar(5)"`

	Status      string `gorm:"type:varchar(20);default:'pending';index"`
	Notes       string
	CompletedAt *time.Time

	Service Service `gorm:"foreignKey:ServiceID"`

	gorm.Model
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
