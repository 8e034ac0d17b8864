// controllers/stock.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"beautyflow-backend/config"
	"beautyflow-backend/models"
	"beautyflow-backend/services"
	"beautyflow-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreateStockItemInput struct {
	Name     string  `json:"name" binding:"required"`
	Brand    string  `json:"brand"`
	ItemType string  `json:"itemType" binding:"required,oneof=shampoo dye oxidant other"`
	Quantity float64 `json:"quantity" binding:"min=0"`
	Unit     string  `json:"unit"`
	UnitCost float64 `json:"unitCost" binding:"min=0"`
}

type PhysicalCountInput struct {
	StockItemID      uuid.UUID `json:"stockItemId" binding:"required"`
	PhysicalQuantity float64   `json:"physicalQuantity"`
	Notes            string    `json:"notes"`
}

type BulkCountInput struct {
	Counts []services.BulkCountItem `json:"counts" binding:"required,min=1"`
}

// GetStock lists the salon's stock items.
func GetStock(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var items []models.StockItem
	if err := config.DB.Where("salon_id = ?", salonID).Order("name").Find(&items).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve stock")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stock": items})
}

// GetStockBrands lists the distinct brands present in the salon's stock.
func GetStockBrands(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var brands []string
	err := config.DB.Model(&models.StockItem{}).
		Where("salon_id = ? AND brand <> ''", salonID).
		Distinct().
		Pluck("brand", &brands).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve brands")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "brands": brands})
}

// CreateStockItem adds a stock item to the salon inventory.
func CreateStockItem(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var input CreateStockItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	item := models.StockItem{
		SalonID:  salonID,
		Name:     input.Name,
		Brand:    input.Brand,
		ItemType: input.ItemType,
		Quantity: input.Quantity,
		Unit:     input.Unit,
		UnitCost: input.UnitCost,
	}

	if err := config.DB.Create(&item).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create stock item")
		return
	}

	if input.Quantity > 0 {
		movement := models.StockMovement{
			StockItemID:  item.ID,
			MovementType: models.MovementIn,
			Quantity:     input.Quantity,
			Notes:        "Initial stock",
		}
		config.DB.Create(&movement)
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "stockId": item.ID})
}

// RecordStockCount reconciles one item against a physical count.
func RecordStockCount(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var input PhysicalCountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	stockService := services.NewStockService(config.DB)
	result, err := stockService.RecordPhysicalCount(salonID, input.StockItemID, input.PhysicalQuantity, input.Notes)
	if err != nil {
		if errors.Is(err, services.ErrStockItemNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Stock item not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record count")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "countId": result.CountID, "discrepancy": result.Discrepancy})
}

// RecordBulkStockCount applies a batch of physical counts. Items are
// processed independently; unknown stock ids are skipped.
func RecordBulkStockCount(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var input BulkCountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	stockService := services.NewStockService(config.DB)
	results := stockService.RecordBulkCount(salonID, input.Counts)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Bulk count recorded",
		"applied": len(results),
		"results": results,
	})
}

// GetShrinkageReports lists stock counts, optionally bounded by date.
func GetShrinkageReports(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	type reportRow struct {
		models.StockCount
		Name  string `json:"name"`
		Brand string `json:"brand"`
		Unit  string `json:"unit"`
	}

	query := config.DB.Table("stock_counts").
		Select("stock_counts.*, stock_items.name, stock_items.brand, stock_items.unit").
		Joins("JOIN stock_items ON stock_items.id = stock_counts.stock_item_id").
		Where("stock_counts.salon_id = ?", salonID)

	if startDate := c.Query("startDate"); startDate != "" {
		day, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid startDate, expected YYYY-MM-DD")
			return
		}
		query = query.Where("stock_counts.count_date >= ?", day)
	}
	if endDate := c.Query("endDate"); endDate != "" {
		day, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid endDate, expected YYYY-MM-DD")
			return
		}
		query = query.Where("stock_counts.count_date < ?", day.AddDate(0, 0, 1))
	}

	var reports []reportRow
	if err := query.Order("stock_counts.count_date DESC").Scan(&reports).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve reports")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reports": reports})
}

// GetLowStock lists items under the reorder threshold.
func GetLowStock(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	stockService := services.NewStockService(config.DB)
	items, err := stockService.LowStock(salonID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve low stock")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stock": items})
}
