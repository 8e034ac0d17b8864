// controllers/settings.go
package controllers

import (
	"net/http"

	"beautyflow-backend/config"
	"beautyflow-backend/models"
	"beautyflow-backend/utils"

	"github.com/gin-gonic/gin"
)

type UpdateSalonProfileInput struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Address *string `json:"address"`
	City    *string `json:"city"`
}

type WorkingDayInput struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

type UpdateWorkingHoursInput struct {
	Hours map[string]WorkingDayInput `json:"hours" binding:"required"`
}

type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

var weekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// GetSettings returns the salon profile and working hours.
func GetSettings(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var salon models.Salon
	if err := config.DB.First(&salon, "id = ?", salonID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Salon not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "salon": salon})
}

// UpdateSalonProfile updates the salon's public profile fields.
func UpdateSalonProfile(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var input UpdateSalonProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Phone != nil && *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.City != nil {
		updates["city"] = *input.City
	}
	if len(updates) == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "No fields to update")
		return
	}

	result := config.DB.Model(&models.Salon{}).Where("id = ?", salonID).Updates(updates)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Salon not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile updated"})
}

// UpdateWorkingHours replaces the weekly schedule the public slot
// calculation reads from.
func UpdateWorkingHours(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var input UpdateWorkingHoursInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	hours := models.JSONB{}
	for day, schedule := range input.Hours {
		if !weekdays[day] {
			utils.RespondWithError(c, http.StatusBadRequest, "Unknown day: "+day)
			return
		}
		if !schedule.Closed {
			if !utils.ValidateTimeSlot(schedule.Open) || !utils.ValidateTimeSlot(schedule.Close) {
				utils.RespondWithError(c, http.StatusBadRequest, "Invalid time for "+day+", expected HH:MM")
				return
			}
			if schedule.Open >= schedule.Close {
				utils.RespondWithError(c, http.StatusBadRequest, "Opening time must precede closing time for "+day)
				return
			}
		}
		hours[day] = map[string]interface{}{
			"open":   schedule.Open,
			"close":  schedule.Close,
			"closed": schedule.Closed,
		}
	}
	if len(hours) == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "No days to update")
		return
	}

	result := config.DB.Model(&models.Salon{}).Where("id = ?", salonID).Update("working_hours", hours)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update working hours")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Salon not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Working hours updated"})
}

// ChangePassword updates the caller's password after verifying the
// current one.
func ChangePassword(c *gin.Context) {
	userID, ok := userFromContext(c)
	if !ok {
		return
	}

	var input ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	if !utils.CheckPasswordHash(input.OldPassword, user.Password) {
		utils.RespondWithError(c, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	hashed, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update password")
		return
	}

	if err := config.DB.Model(&user).Update("password", hashed).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated"})
}
