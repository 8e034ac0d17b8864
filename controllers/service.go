// controllers/service.go
package controllers

import (
	"errors"
	"net/http"

	"beautyflow-backend/config"
	"beautyflow-backend/models"
	"beautyflow-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateServiceInput defines the expected JSON structure for creating a service
type CreateServiceInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,min=0"`
	Duration    int     `json:"duration" binding:"min=0"` // in minutes
	Category    string  `json:"category"`

	ShampooUsage float64 `json:"shampooUsage" binding:"min=0"`
	DyeUsage     float64 `json:"dyeUsage" binding:"min=0"`
	OxidantUsage float64 `json:"oxidantUsage" binding:"min=0"`
	GeneralUsage float64 `json:"generalUsage" binding:"min=0"`
}

// UpdateServiceInput defines the expected JSON structure for updating a service
type UpdateServiceInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Duration    *int     `json:"duration"`
	Category    *string  `json:"category"`
	IsActive    *bool    `json:"isActive"`

	ShampooUsage *float64 `json:"shampooUsage"`
	DyeUsage     *float64 `json:"dyeUsage"`
	OxidantUsage *float64 `json:"oxidantUsage"`
	GeneralUsage *float64 `json:"generalUsage"`
}

type RecipeItemInput struct {
	StockItemID uuid.UUID `json:"stockItemId" binding:"required"`
	Quantity    float64   `json:"quantity" binding:"required,gt=0"`
}

type UpdateRecipeInput struct {
	Items []RecipeItemInput `json:"items" binding:"required"`
}

// CreateService creates a new service for the salon
func CreateService(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	service := models.Service{
		SalonID:      salonID,
		Name:         input.Name,
		Description:  input.Description,
		Price:        input.Price,
		Duration:     input.Duration,
		Category:     input.Category,
		IsActive:     true,
		ShampooUsage: input.ShampooUsage,
		DyeUsage:     input.DyeUsage,
		OxidantUsage: input.OxidantUsage,
		GeneralUsage: input.GeneralUsage,
	}

	if err := config.DB.Create(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service")
		return
	}

	c.JSON(http.StatusCreated, service)
}

// GetServices retrieves all services for the salon
func GetServices(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var servicesList []models.Service
	if err := config.DB.Preload("Recipe").Where("salon_id = ?", salonID).Find(&servicesList).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "services": servicesList})
}

// UpdateService updates an existing service
func UpdateService(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var service models.Service
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, serviceID).First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		service.Name = *input.Name
	}
	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.Price != nil {
		service.Price = *input.Price
	}
	if input.Duration != nil {
		service.Duration = *input.Duration
	}
	if input.Category != nil {
		service.Category = *input.Category
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}
	if input.ShampooUsage != nil {
		service.ShampooUsage = *input.ShampooUsage
	}
	if input.DyeUsage != nil {
		service.DyeUsage = *input.DyeUsage
	}
	if input.OxidantUsage != nil {
		service.OxidantUsage = *input.OxidantUsage
	}
	if input.GeneralUsage != nil {
		service.GeneralUsage = *input.GeneralUsage
	}

	if err := config.DB.Save(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update service")
		return
	}

	c.JSON(http.StatusOK, service)
}

// DeleteService soft deletes a service
func DeleteService(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	result := config.DB.Model(&models.Service{}).
		Where("salon_id = ? AND id = ?", salonID, serviceID).
		Update("is_active", false)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete service")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Service deleted"})
}

// GetServiceRecipe lists the recipe rows for a service.
func GetServiceRecipe(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var service models.Service
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, serviceID).First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	type recipeRow struct {
		StockItemID uuid.UUID `json:"stockItemId"`
		Quantity    float64   `json:"quantity"`
		Name        string    `json:"name"`
		Unit        string    `json:"unit"`
		UnitCost    float64   `json:"unitCost"`
	}

	var rows []recipeRow
	err = config.DB.Table("service_recipes").
		Select("service_recipes.stock_item_id, service_recipes.quantity, stock_items.name, stock_items.unit, stock_items.unit_cost").
		Joins("JOIN stock_items ON stock_items.id = service_recipes.stock_item_id").
		Where("service_recipes.service_id = ?", serviceID).
		Scan(&rows).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve recipe")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "recipe": rows})
}

// UpdateServiceRecipe replaces the recipe rows for a service. An empty item
// list reverts the service to its legacy usage fields.
func UpdateServiceRecipe(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var input UpdateRecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var service models.Service
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, serviceID).First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		// Every referenced stock item must belong to the same salon.
		for _, item := range input.Items {
			var stockItem models.StockItem
			if err := tx.Where("id = ? AND salon_id = ?", item.StockItemID, salonID).First(&stockItem).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("service_id = ?", serviceID).Delete(&models.ServiceRecipe{}).Error; err != nil {
			return err
		}

		for _, item := range input.Items {
			recipe := models.ServiceRecipe{
				ServiceID:   serviceID,
				StockItemID: item.StockItemID,
				Quantity:    item.Quantity,
			}
			if err := tx.Create(&recipe).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Stock item not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update recipe")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Recipe updated"})
}

// DeleteServiceRecipeItem removes one stock item from a service recipe.
func DeleteServiceRecipeItem(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}
	stockItemID, err := uuid.Parse(c.Param("stockId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid stock item ID format")
		return
	}

	var service models.Service
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, serviceID).First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	result := config.DB.Where("service_id = ? AND stock_item_id = ?", serviceID, stockItemID).
		Delete(&models.ServiceRecipe{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete recipe item")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Recipe item not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
