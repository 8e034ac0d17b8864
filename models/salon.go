package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Salon struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"not null"`
	OwnerName string
	Address   string
	City      string `gorm:"index"`
	Phone     string
	Email     string

	WorkingHours JSONB `gorm:"type:jsonb;default:'{}'"`

	IsApproved         bool   `gorm:"default:false;index"`
	IsActive           bool   `gorm:"default:true"`
	SubscriptionStatus string `gorm:"type:varchar(20);default:'trial'"`
	ApprovedAt         *time.Time

	Users        []User        `gorm:"foreignKey:SalonID"`
	Services     []Service     `gorm:"foreignKey:SalonID"`
	Appointments []Appointment `gorm:"foreignKey:SalonID"`
	StockItems   []StockItem   `gorm:"foreignKey:SalonID"`
	Transactions []Transaction `gorm:"foreignKey:SalonID"`

	gorm.Model
}

func (s *Salon) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// Custom JSONB type for working hours
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return errors.New("unsupported type for JSONB scan")
	}
}
