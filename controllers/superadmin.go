// controllers/superadmin.go
package controllers

import (
	"net/http"
	"time"

	"beautyflow-backend/config"
	"beautyflow-backend/models"
	"beautyflow-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetPendingSalons lists salons waiting for platform approval.
func GetPendingSalons(c *gin.Context) {
	var salons []models.Salon
	err := config.DB.
		Where("is_approved = ?", false).
		Order("created_at ASC").
		Find(&salons).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve pending salons")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "salons": salons})
}

// GetAllSalons lists every salon on the platform.
func GetAllSalons(c *gin.Context) {
	var salons []models.Salon
	err := config.DB.Order("created_at DESC").Find(&salons).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve salons")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "salons": salons})
}

// ApproveSalon marks a salon approved and starts its subscription.
func ApproveSalon(c *gin.Context) {
	salonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid salon ID format")
		return
	}

	now := time.Now()
	result := config.DB.Model(&models.Salon{}).
		Where("id = ? AND is_approved = ?", salonID, false).
		Updates(map[string]interface{}{
			"is_approved":         true,
			"approved_at":         now,
			"subscription_status": "active",
		})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to approve salon")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Salon not found or already approved")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Salon approved"})
}

// ToggleSalonStatus flips a salon between active and suspended.
func ToggleSalonStatus(c *gin.Context) {
	salonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid salon ID format")
		return
	}

	var salon models.Salon
	if err := config.DB.First(&salon, "id = ?", salonID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Salon not found")
		return
	}

	newStatus := !salon.IsActive
	if err := config.DB.Model(&salon).Update("is_active", newStatus).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update salon status")
		return
	}

	message := "Salon suspended"
	if newStatus {
		message = "Salon reactivated"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "isActive": newStatus})
}

// GetPlatformAnalytics returns cross-tenant counts and revenue totals.
func GetPlatformAnalytics(c *gin.Context) {
	var totalSalons, approvedSalons, pendingSalons int64
	var totalUsers, totalAppointments int64
	var totalRevenue float64

	if err := config.DB.Model(&models.Salon{}).Count(&totalSalons).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute analytics")
		return
	}
	config.DB.Model(&models.Salon{}).Where("is_approved = ?", true).Count(&approvedSalons)
	pendingSalons = totalSalons - approvedSalons

	config.DB.Model(&models.User{}).Count(&totalUsers)
	config.DB.Model(&models.Appointment{}).Count(&totalAppointments)
	config.DB.Model(&models.Transaction{}).
		Where("transaction_type = ?", models.TransactionIncome).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalRevenue)

	monthStart := utils.PeriodStart("month", time.Now())
	var monthlyAppointments int64
	config.DB.Model(&models.Appointment{}).
		Where("created_at >= ?", monthStart).
		Count(&monthlyAppointments)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"analytics": gin.H{
			"totalSalons":         totalSalons,
			"approvedSalons":      approvedSalons,
			"pendingSalons":       pendingSalons,
			"totalUsers":          totalUsers,
			"totalAppointments":   totalAppointments,
			"monthlyAppointments": monthlyAppointments,
			"totalRevenue":        totalRevenue,
		},
	})
}
