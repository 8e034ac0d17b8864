package models

import (
	"time"

	"beautyflow-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RolePatron     = "PATRON"
	RoleStaff      = "STAFF"
	RoleCustomer   = "CUSTOMER"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Username string    `gorm:"uniqueIndex;not null"`
	Password string    `gorm:"not null"`
	FullName string    `gorm:"not null"`
	Email    string
	Phone    string `gorm:"index"`

	Role    string     `gorm:"type:varchar(20);not null"`
	SalonID *uuid.UUID `gorm:"type:uuid;index"`

	// Default commission fraction, used when no per-service override exists.
	CommissionRate float64 `gorm:"type:decimal(4,2);default:0"`

	// Loyalty balance for customer accounts.
	AuraPoints int `gorm:"default:0"`

	LastLogin *time.Time
	IsActive  bool `gorm:"default:true"`

	gorm.Model
}

// Initialize UUID and hash the password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}
