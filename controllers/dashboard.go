// controllers/dashboard.go
package controllers

import (
	"net/http"
	"time"

	"beautyflow-backend/config"
	"beautyflow-backend/models"
	"beautyflow-backend/services"
	"beautyflow-backend/utils"

	"github.com/gin-gonic/gin"
)

// GetPatronDashboard returns the owner's at-a-glance numbers for today
// and the current month.
func GetPatronDashboard(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	now := time.Now()
	today := now.Format("2006-01-02")

	var pendingToday, completedToday int64
	config.DB.Model(&models.Appointment{}).
		Where("salon_id = ? AND appointment_date = ? AND status = ?", salonID, today, models.AppointmentPending).
		Count(&pendingToday)
	config.DB.Model(&models.Appointment{}).
		Where("salon_id = ? AND appointment_date = ? AND status = ?", salonID, today, models.AppointmentCompleted).
		Count(&completedToday)

	todayTotals, err := sumTransactions(salonID, utils.BeginningOfDay(now), now)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute dashboard")
		return
	}
	monthTotals, err := sumTransactions(salonID, utils.PeriodStart("month", now), now)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute dashboard")
		return
	}

	var staffCount int64
	config.DB.Model(&models.User{}).
		Where("salon_id = ? AND role = ? AND is_active = ?", salonID, models.RoleStaff, true).
		Count(&staffCount)

	lowItems, err := services.NewStockService(config.DB).LowStock(salonID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute dashboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"dashboard": gin.H{
			"today": gin.H{
				"pendingAppointments":   pendingToday,
				"completedAppointments": completedToday,
				"revenue":               todayTotals.Income,
			},
			"month": gin.H{
				"income":   monthTotals.Income,
				"expenses": monthTotals.Expenses,
				"profit":   monthTotals.Profit,
			},
			"activeStaff":   staffCount,
			"lowStockCount": len(lowItems),
			"lowStockItems": lowItems,
		},
	})
}

// GetStaffDashboard returns the staff member's schedule for today plus
// commission earned today and this month.
func GetStaffDashboard(c *gin.Context) {
	userID, ok := userFromContext(c)
	if !ok {
		return
	}

	now := time.Now()
	today := now.Format("2006-01-02")

	var appointments []models.Appointment
	err := config.DB.Preload("Service").
		Where("staff_id = ? AND appointment_date = ? AND status = ?", userID, today, models.AppointmentPending).
		Order("appointment_time").
		Find(&appointments).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	var completedToday int64
	config.DB.Model(&models.Appointment{}).
		Where("staff_id = ? AND appointment_date = ? AND status = ?", userID, today, models.AppointmentCompleted).
		Count(&completedToday)

	var earnedToday float64
	config.DB.Model(&models.Commission{}).
		Where("staff_id = ? AND created_at >= ?", userID, utils.BeginningOfDay(now)).
		Select("COALESCE(SUM(commission_amount), 0)").
		Scan(&earnedToday)

	settlement := services.NewSettlementService(config.DB)
	_, summary, err := settlement.MonthlyCommissionReport(userID, now.Format("2006-01"))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute earnings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"dashboard": gin.H{
			"todayAppointments": appointments,
			"completedToday":    completedToday,
			"earnedToday":       earnedToday,
			"month":             summary,
		},
	})
}
