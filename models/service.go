package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	SalonID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Name        string    `gorm:"not null"`
	Description string
	Price       float64 `gorm:"type:decimal(10,2);not null"`
	Duration    int     // in minutes
	Category    string  `gorm:"default:'General'"`
	IsActive    bool    `gorm:"default:true"`

	// Legacy per-type usage amounts, consulted only when no recipe rows exist.
	ShampooUsage float64 `gorm:"type:decimal(10,2);default:0"`
	DyeUsage     float64 `gorm:"type:decimal(10,2);default:0"`
	OxidantUsage float64 `gorm:"type:decimal(10,2);default:0"`
	GeneralUsage float64 `gorm:"type:decimal(10,2);default:0"`

	Recipe []ServiceRecipe `gorm:"foreignKey:ServiceID"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// ServiceRecipe maps a service to one stock item and the quantity consumed
// per completed appointment.
type ServiceRecipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	ServiceID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_service_stock,priority:1"`
	StockItemID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_service_stock,priority:2"`
	Quantity    float64   `gorm:"type:decimal(10,2);not null"`
}

func (r *ServiceRecipe) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
