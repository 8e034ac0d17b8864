package services

import (
	"testing"

	"beautyflow-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPhysicalCount_Shrinkage(t *testing.T) {
	db := newTestDB(t)
	salon := seedSalon(t, db)
	item := seedStockItem(t, db, salon.ID, "Color Cream", models.ItemTypeDye, 100, 5)

	svc := NewStockService(db)
	result, err := svc.RecordPhysicalCount(salon.ID, item.ID, 80, "monthly audit")
	require.NoError(t, err)

	assert.Equal(t, item.ID, result.StockItemID)
	assert.InDelta(t, -20.0, result.Discrepancy, 0.001)

	var after models.StockItem
	require.NoError(t, db.First(&after, "id = ?", item.ID).Error)
	assert.InDelta(t, 80.0, after.Quantity, 0.001)

	var count models.StockCount
	require.NoError(t, db.First(&count, "id = ?", result.CountID).Error)
	assert.InDelta(t, 100.0, count.SystemQuantity, 0.001)
	assert.InDelta(t, 80.0, count.PhysicalQuantity, 0.001)
	assert.Equal(t, "monthly audit", count.Notes)

	// 20 lost units at cost 5 book a 100 expense.
	var expense models.Transaction
	require.NoError(t, db.First(&expense, "salon_id = ? AND transaction_type = ?", salon.ID, models.TransactionExpense).Error)
	assert.InDelta(t, 100.0, expense.Amount, 0.001)
	assert.Contains(t, expense.Description, "shrinkage")
	assert.Contains(t, expense.Description, "Color Cream")
}

func TestRecordPhysicalCount_NoDiscrepancyNoExpense(t *testing.T) {
	db := newTestDB(t)
	salon := seedSalon(t, db)
	item := seedStockItem(t, db, salon.ID, "Pro Shampoo", models.ItemTypeShampoo, 50, 2)

	svc := NewStockService(db)
	result, err := svc.RecordPhysicalCount(salon.ID, item.ID, 50, "")
	require.NoError(t, err)
	assert.InDelta(t, 0.0, result.Discrepancy, 0.001)

	var expenses int64
	db.Model(&models.Transaction{}).Where("salon_id = ?", salon.ID).Count(&expenses)
	assert.EqualValues(t, 0, expenses)
}

func TestRecordPhysicalCount_OverageNoExpense(t *testing.T) {
	db := newTestDB(t)
	salon := seedSalon(t, db)
	item := seedStockItem(t, db, salon.ID, "Argan Oil", models.ItemTypeOther, 10, 8)

	svc := NewStockService(db)
	result, err := svc.RecordPhysicalCount(salon.ID, item.ID, 14, "")
	require.NoError(t, err)
	assert.InDelta(t, 4.0, result.Discrepancy, 0.001)

	var after models.StockItem
	require.NoError(t, db.First(&after, "id = ?", item.ID).Error)
	assert.InDelta(t, 14.0, after.Quantity, 0.001)

	var expenses int64
	db.Model(&models.Transaction{}).Where("salon_id = ?", salon.ID).Count(&expenses)
	assert.EqualValues(t, 0, expenses)
}

func TestRecordPhysicalCount_WrongSalon(t *testing.T) {
	db := newTestDB(t)
	salon := seedSalon(t, db)
	other := seedSalon(t, db)
	item := seedStockItem(t, db, salon.ID, "Color Cream", models.ItemTypeDye, 100, 5)

	svc := NewStockService(db)
	_, err := svc.RecordPhysicalCount(other.ID, item.ID, 80, "")
	assert.ErrorIs(t, err, ErrStockItemNotFound)

	var after models.StockItem
	require.NoError(t, db.First(&after, "id = ?", item.ID).Error)
	assert.InDelta(t, 100.0, after.Quantity, 0.001)
}

func TestRecordBulkCount_ItemsIsolated(t *testing.T) {
	db := newTestDB(t)
	salon := seedSalon(t, db)
	dye := seedStockItem(t, db, salon.ID, "Color Cream", models.ItemTypeDye, 100, 5)
	shampoo := seedStockItem(t, db, salon.ID, "Pro Shampoo", models.ItemTypeShampoo, 50, 2)

	svc := NewStockService(db)
	results := svc.RecordBulkCount(salon.ID, []BulkCountItem{
		{StockItemID: dye.ID, PhysicalQuantity: 90},
		{StockItemID: uuid.New(), PhysicalQuantity: 10}, // unknown item, skipped
		{StockItemID: shampoo.ID, PhysicalQuantity: 55, Notes: "shelf B"},
	})

	require.Len(t, results, 2)
	assert.InDelta(t, -10.0, results[0].Discrepancy, 0.001)
	assert.InDelta(t, 5.0, results[1].Discrepancy, 0.001)

	var counts []models.StockCount
	require.NoError(t, db.Where("salon_id = ?", salon.ID).Find(&counts).Error)
	require.Len(t, counts, 2)
	notesByItem := map[uuid.UUID]string{}
	for _, c := range counts {
		notesByItem[c.StockItemID] = c.Notes
	}
	assert.Equal(t, "Bulk count", notesByItem[dye.ID])
	assert.Equal(t, "shelf B", notesByItem[shampoo.ID])
}

func TestLowStock(t *testing.T) {
	db := newTestDB(t)
	salon := seedSalon(t, db)
	seedStockItem(t, db, salon.ID, "Plenty", models.ItemTypeShampoo, 500, 1)
	seedStockItem(t, db, salon.ID, "Running Low", models.ItemTypeDye, 40, 5)
	seedStockItem(t, db, salon.ID, "Almost Gone", models.ItemTypeOxidant, 5, 3)

	svc := NewStockService(db)
	items, err := svc.LowStock(salon.ID)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "Almost Gone", items[0].Name)
	assert.Equal(t, "Running Low", items[1].Name)
}
