package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ItemTypeShampoo = "shampoo"
	ItemTypeDye     = "dye"
	ItemTypeOxidant = "oxidant"
	ItemTypeOther   = "other"

	MovementIn  = "in"
	MovementOut = "out"
)

type StockItem struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	SalonID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name     string `gorm:"not null"`
	Brand    string
	ItemType string  `gorm:"type:varchar(20);index"`
	Quantity float64 `gorm:"type:decimal(10,2);default:0"`
	Unit     string  `gorm:"type:varchar(10)"`
	UnitCost float64 `gorm:"type:decimal(10,2);default:0"`

	// Ordering key for the legacy per-type lookup at settlement time.
	LastUpdated time.Time

	gorm.Model
}

func (s *StockItem) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.LastUpdated.IsZero() {
		s.LastUpdated = time.Now()
	}
	return
}

// StockMovement is an audit row for every quantity change against a stock
// item, optionally linked to the appointment that triggered it.
type StockMovement struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key"`
	StockItemID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	AppointmentID *uuid.UUID `gorm:"type:uuid;index"`
	MovementType  string     `gorm:"type:varchar(10);not null"`
	Quantity      float64    `gorm:"type:decimal(10,2);not null"`
	Notes         string

	gorm.Model
}

func (m *StockMovement) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}

// StockCount records one physical count of one item. Discrepancy is
// physical minus system quantity at count time.
type StockCount struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	SalonID     uuid.UUID `gorm:"type:uuid;index;not null"`
	StockItemID uuid.UUID `gorm:"type:uuid;index;not null"`

	SystemQuantity   float64 `gorm:"type:decimal(10,2);not null"`
	PhysicalQuantity float64 `gorm:"type:decimal(10,2);not null"`
	Discrepancy      float64 `gorm:"type:decimal(10,2);not null"`
	Notes            string
	CountDate        time.Time

	gorm.Model
}

func (c *StockCount) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
