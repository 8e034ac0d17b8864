// services/stock_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"beautyflow-backend/config"
	"beautyflow-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrStockItemNotFound = errors.New("stock item not found")

const lowStockThreshold = 100

type StockService struct {
	db *gorm.DB
}

func NewStockService(db *gorm.DB) *StockService {
	return &StockService{db: db}
}

// CountResult reports the outcome of one physical count.
type CountResult struct {
	CountID     uuid.UUID `json:"countId"`
	StockItemID uuid.UUID `json:"stockItemId"`
	Discrepancy float64   `json:"discrepancy"`
}

// RecordPhysicalCount reconciles a stock item against an observed physical
// quantity: it stores the count audit row, overwrites the system quantity,
// and books negative discrepancy (shrinkage) as an expense.
func (s *StockService) RecordPhysicalCount(salonID, stockItemID uuid.UUID, physicalQuantity float64, notes string) (*CountResult, error) {
	var result CountResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var item models.StockItem
		if err := tx.Where("id = ? AND salon_id = ?", stockItemID, salonID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStockItemNotFound
			}
			return err
		}

		discrepancy := physicalQuantity - item.Quantity

		count := models.StockCount{
			SalonID:          salonID,
			StockItemID:      item.ID,
			SystemQuantity:   item.Quantity,
			PhysicalQuantity: physicalQuantity,
			Discrepancy:      discrepancy,
			Notes:            notes,
			CountDate:        time.Now(),
		}
		if err := tx.Create(&count).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.StockItem{}).
			Where("id = ?", item.ID).
			Updates(map[string]interface{}{
				"quantity":     physicalQuantity,
				"last_updated": time.Now(),
			}).Error; err != nil {
			return err
		}

		if discrepancy < 0 {
			lossQuantity := -discrepancy
			lossCost := lossQuantity * item.UnitCost
			if lossCost > 0 {
				expense := models.Transaction{
					SalonID:     salonID,
					Type:        models.TransactionExpense,
					Amount:      lossCost,
					Description: fmt.Sprintf("Inventory shrinkage: %s (%.2f %s)", item.Name, lossQuantity, item.Unit),
				}
				if err := tx.Create(&expense).Error; err != nil {
					return err
				}
			}
		}

		result = CountResult{
			CountID:     count.ID,
			StockItemID: item.ID,
			Discrepancy: discrepancy,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &result, nil
}

// BulkCountItem is one entry of a bulk physical count.
type BulkCountItem struct {
	StockItemID      uuid.UUID `json:"stockItemId" binding:"required"`
	PhysicalQuantity float64   `json:"physicalQuantity"`
	Notes            string    `json:"notes"`
}

// RecordBulkCount applies a physical count per item. Items are isolated:
// a missing stock row is skipped and one item's failure does not stop the
// rest.
func (s *StockService) RecordBulkCount(salonID uuid.UUID, items []BulkCountItem) []CountResult {
	results := make([]CountResult, 0, len(items))

	for _, item := range items {
		notes := item.Notes
		if notes == "" {
			notes = "Bulk count"
		}

		result, err := s.RecordPhysicalCount(salonID, item.StockItemID, item.PhysicalQuantity, notes)
		if err != nil {
			if !errors.Is(err, ErrStockItemNotFound) {
				config.LogError(config.GetLogger(), "services", "RecordBulkCount", "count failed", item.StockItemID, err)
			}
			continue
		}
		results = append(results, *result)
	}

	return results
}

// LowStock lists items below the reorder threshold, most depleted first.
func (s *StockService) LowStock(salonID uuid.UUID) ([]models.StockItem, error) {
	var items []models.StockItem
	err := s.db.Where("salon_id = ? AND quantity < ?", salonID, lowStockThreshold).
		Order("quantity ASC").
		Find(&items).Error
	return items, err
}
