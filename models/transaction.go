package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Transaction is an append-only ledger row. Settlement writes income rows,
// shrinkage and staff advances write expense rows; manual entries come from
// the patron finance screen.
type Transaction struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key"`
	SalonID       uuid.UUID  `gorm:"type:uuid;index;not null"`
	AppointmentID *uuid.UUID `gorm:"type:uuid;index"`

	Type        string  `gorm:"column:transaction_type;type:varchar(10);not null"`
	Amount      float64 `gorm:"type:decimal(10,2);not null"`
	Description string

	gorm.Model
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}
