// controllers/appointment.go
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
	"gorm.io/gorm"
)

// AppointmentFilter enumerates the optional list filters instead of
// string-building the query.
type AppointmentFilter struct {
	Date    string `form:"date"`
	Status  string `form:"status" binding:"omitempty,oneof=pending completed cancelled no_show"`
	StaffID string `form:"staffId" binding:"omitempty,uuid"`
}

type CreateAppointmentInput struct {
	CustomerName    string     `json:"customerName" binding:"required"`
	CustomerPhone   string     `json:"customerPhone"`
	ServiceID       uuid.UUID  `json:"serviceId" binding:"required"`
	StaffID         *uuid.UUID `json:"staffId" binding:"required"`
	AppointmentDate string     `json:"appointmentDate" binding:"required"`
	AppointmentTime string     `json:"appointmentTime" binding:"required"`
	Notes           string     `json:"notes"`
}

type CompleteAppointmentInput struct {
	Notes string `json:"notes"`
}

type CancelAppointmentInput struct {
	Reason string `json:"reason"`
}

// GetAppointments lists the salon's appointments with optional filters.
func GetAppointments(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var filter AppointmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid filter: "+err.Error())
		return
	}

	query := config.DB.Preload("Service").Where("salon_id = ?", salonID)
	if filter.Date != "" {
		day, err := time.Parse("2006-01-02", filter.Date)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
			return
		}
		query = query.Where("appointment_date >= ? AND appointment_date < ?", day, day.AddDate(0, 0, 1))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StaffID != "" {
		query = query.Where("staff_id = ?", filter.StaffID)
	}

	var appointments []models.Appointment
	if err := query.Order("appointment_date DESC, appointment_time DESC").Find(&appointments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "appointments": appointments})
}

// CreateAppointment books an appointment manually on behalf of a walk-in or
// phone customer.
func CreateAppointment(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	day, err := time.Parse("2006-01-02", input.AppointmentDate)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
		return
	}
	if !utils.ValidateTimeSlot(input.AppointmentTime) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid time format, expected HH:MM")
		return
	}

	var service models.Service
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, input.ServiceID).First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	appointment := models.Appointment{
		SalonID:         salonID,
		ServiceID:       input.ServiceID,
		StaffID:         input.StaffID,
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		AppointmentDate: day,
		AppointmentTime: input.AppointmentTime,
		Status:          models.AppointmentPending,
		Notes:           input.Notes,
	}

	if err := config.DB.Create(&appointment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create appointment")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "id": appointment.ID, "message": "Appointment created"})
}

// DeleteAppointment removes an appointment from the salon's book.
func DeleteAppointment(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	result := config.DB.Where("salon_id = ? AND id = ?", salonID, appointmentID).Delete(&models.Appointment{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete appointment")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Appointment deleted"})
}

// CompleteAppointment settles an appointment on behalf of the patron:
// status transition, loyalty award, income ledger row, stock consumption and
// staff commission all happen in one transaction.
func CompleteAppointment(c *gin.Context) {
	completeWithRole(c, models.RolePatron)
}

// CompleteOwnAppointment is the staff entry point. It runs the same
// settlement, restricted to appointments assigned to the caller, and stores
// the staff's visit notes.
func CompleteOwnAppointment(c *gin.Context) {
	completeWithRole(c, models.RoleStaff)
}

func completeWithRole(c *gin.Context, role string) {
	userID, ok := userFromContext(c)
	if !ok {
		return
	}
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var input CompleteAppointmentInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}
	}

	settlement := services.NewSettlementService(config.DB)
	summary, err := settlement.CompleteAppointment(appointmentID, services.Actor{
		UserID:  userID,
		SalonID: salonID,
		Role:    role,
	}, input.Notes)

	switch {
	case errors.Is(err, services.ErrAppointmentNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		return
	case errors.Is(err, services.ErrAlreadyCompleted):
		utils.RespondWithError(c, http.StatusBadRequest, "Appointment already completed")
		return
	case errors.Is(err, services.ErrNotPending):
		utils.RespondWithError(c, http.StatusBadRequest, "Appointment is not pending")
		return
	case err != nil:
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to complete appointment: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Appointment completed",
		"finance": summary,
	})
}

// CancelOwnAppointment lets staff mark their own appointment cancelled or
// no-show.
func CancelOwnAppointment(c *gin.Context) {
	userID, ok := userFromContext(c)
	if !ok {
		return
	}

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var input CancelAppointmentInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}
	}

	status := models.AppointmentCancelled
	if input.Reason == "no_show" {
		status = models.AppointmentNoShow
	}

	result := config.DB.Model(&models.Appointment{}).
		Where("id = ? AND staff_id = ? AND status = ?", appointmentID, userID, models.AppointmentPending).
		Updates(map[string]interface{}{"status": status, "notes": input.Reason})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel appointment")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetMyAppointments lists appointments assigned to the authenticated staff
// member.
func GetMyAppointments(c *gin.Context) {
	userID, ok := userFromContext(c)
	if !ok {
		return
	}

	var filter AppointmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid filter: "+err.Error())
		return
	}

	query := config.DB.Preload("Service").Where("staff_id = ?", userID)
	if filter.Date != "" {
		day, err := time.Parse("2006-01-02", filter.Date)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
			return
		}
		query = query.Where("appointment_date >= ? AND appointment_date < ?", day, day.AddDate(0, 0, 1))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var appointments []models.Appointment
	if err := query.Order("appointment_date ASC, appointment_time ASC").Find(&appointments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "appointments": appointments})
}
