// controllers/public.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"beautyflow-backend/config"
	"beautyflow-backend/models"
	"beautyflow-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookAppointmentInput struct {
	ServiceID       uuid.UUID  `json:"serviceId" binding:"required"`
	StaffID         *uuid.UUID `json:"staffId"`
	CustomerName    string     `json:"customerName" binding:"required"`
	CustomerPhone   string     `json:"customerPhone" binding:"required"`
	AppointmentDate string     `json:"appointmentDate" binding:"required"`
	AppointmentTime string     `json:"appointmentTime" binding:"required"`
	Notes           string     `json:"notes"`
}

type StaffRegisterInput struct {
	SalonID  uuid.UUID `json:"salonId" binding:"required"`
	Username string    `json:"username" binding:"required"`
	Password string    `json:"password" binding:"required,min=8"`
	FullName string    `json:"fullName" binding:"required"`
	Email    string    `json:"email" binding:"omitempty,email"`
	Phone    string    `json:"phone"`
}

// GetPublicSalons lists approved and active salons, optionally filtered
// by city.
func GetPublicSalons(c *gin.Context) {
	query := config.DB.
		Select("id", "name", "address", "city", "phone", "working_hours").
		Where("is_approved = ? AND is_active = ?", true, true)

	if city := c.Query("city"); city != "" {
		query = query.Where("LOWER(city) = ?", strings.ToLower(city))
	}

	var salons []models.Salon
	if err := query.Order("name").Find(&salons).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve salons")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "salons": salons})
}

// GetPublicSalon returns one approved salon's public profile.
func GetPublicSalon(c *gin.Context) {
	salon, ok := approvedSalon(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "salon": gin.H{
		"id":           salon.ID,
		"name":         salon.Name,
		"address":      salon.Address,
		"city":         salon.City,
		"phone":        salon.Phone,
		"workingHours": salon.WorkingHours,
	}})
}

// GetPublicSalonServices lists a salon's active services for booking.
func GetPublicSalonServices(c *gin.Context) {
	salon, ok := approvedSalon(c)
	if !ok {
		return
	}

	var services []models.Service
	err := config.DB.
		Select("id", "name", "description", "price", "duration", "category").
		Where("salon_id = ? AND is_active = ?", salon.ID, true).
		Order("category, name").
		Find(&services).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "services": services})
}

// GetPublicSalonStaff lists a salon's active staff for booking.
func GetPublicSalonStaff(c *gin.Context) {
	salon, ok := approvedSalon(c)
	if !ok {
		return
	}

	var staff []models.User
	err := config.DB.
		Select("id", "full_name").
		Where("salon_id = ? AND role = ? AND is_active = ?", salon.ID, models.RoleStaff, true).
		Order("full_name").
		Find(&staff).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve staff")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "staff": staff})
}

// GetAvailableSlots computes free 30-minute slots for a date from the
// salon's working hours minus already-booked appointments.
func GetAvailableSlots(c *gin.Context) {
	salon, ok := approvedSalon(c)
	if !ok {
		return
	}

	dateStr := c.Query("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid or missing date (expected YYYY-MM-DD)")
		return
	}

	open, close, closed := workingWindow(salon.WorkingHours, date)
	if closed {
		c.JSON(http.StatusOK, gin.H{"success": true, "slots": []string{}, "closed": true})
		return
	}

	var booked []string
	err = config.DB.Model(&models.Appointment{}).
		Where("salon_id = ? AND appointment_date = ? AND status = ?",
			salon.ID, date.Format("2006-01-02"), models.AppointmentPending).
		Pluck("appointment_time", &booked).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve bookings")
		return
	}

	taken := make(map[string]bool, len(booked))
	for _, t := range booked {
		taken[t] = true
	}

	slots := []string{}
	for t := open; t < close; t += 30 {
		slot := fmt.Sprintf("%02d:%02d", t/60, t%60)
		if !taken[slot] {
			slots = append(slots, slot)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "slots": slots})
}

// workingWindow returns the opening window for a date as minutes since
// midnight. Missing or malformed entries fall back to 09:00-20:00.
func workingWindow(hours models.JSONB, date time.Time) (open, close int, closed bool) {
	open, close = 9*60, 20*60

	dayName := strings.ToLower(date.Weekday().String())
	raw, found := hours[dayName]
	if !found {
		return open, close, false
	}
	day, ok := raw.(map[string]interface{})
	if !ok {
		return open, close, false
	}

	if c, ok := day["closed"].(bool); ok && c {
		return 0, 0, true
	}
	if o, ok := parseClock(day["open"]); ok {
		open = o
	}
	if cl, ok := parseClock(day["close"]); ok {
		close = cl
	}
	return open, close, false
}

func parseClock(v interface{}) (int, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// BookAppointment creates a pending booking on behalf of a walk-in
// customer. The slot must still be free.
func BookAppointment(c *gin.Context) {
	salon, ok := approvedSalon(c)
	if !ok {
		return
	}

	var input BookAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", input.AppointmentDate)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date format (expected YYYY-MM-DD)")
		return
	}
	if !utils.ValidateTimeSlot(input.AppointmentTime) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid time format (expected HH:MM)")
		return
	}
	if !utils.ValidatePhone(input.CustomerPhone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	var service models.Service
	err = config.DB.Where("id = ? AND salon_id = ? AND is_active = ?",
		input.ServiceID, salon.ID, true).First(&service).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}

	if input.StaffID != nil {
		var staff models.User
		err = config.DB.Where("id = ? AND salon_id = ? AND role = ? AND is_active = ?",
			*input.StaffID, salon.ID, models.RoleStaff, true).First(&staff).Error
		if err != nil {
			utils.RespondWithError(c, http.StatusNotFound, "Staff member not found")
			return
		}
	}

	appointment := models.Appointment{
		SalonID:         salon.ID,
		ServiceID:       input.ServiceID,
		StaffID:         input.StaffID,
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		AppointmentDate: date,
		AppointmentTime: input.AppointmentTime,
		Notes:           input.Notes,
		Status:          models.AppointmentPending,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var conflicts int64
		err := tx.Model(&models.Appointment{}).
			Where("salon_id = ? AND appointment_date = ? AND appointment_time = ? AND status = ?",
				salon.ID, date.Format("2006-01-02"), input.AppointmentTime, models.AppointmentPending).
			Count(&conflicts).Error
		if err != nil {
			return err
		}
		if conflicts > 0 {
			return errSlotTaken
		}
		return tx.Create(&appointment).Error
	})
	if errors.Is(err, errSlotTaken) {
		utils.RespondWithError(c, http.StatusConflict, "Time slot is no longer available")
		return
	}
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to book appointment")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":       true,
		"message":       "Appointment booked",
		"appointmentId": appointment.ID,
	})
}

var errSlotTaken = errors.New("slot taken")

// StaffRegister creates an inactive staff account that the salon's
// patron must approve before it can log in.
func StaffRegister(c *gin.Context) {
	var input StaffRegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var salon models.Salon
	err := config.DB.Where("id = ? AND is_approved = ? AND is_active = ?",
		input.SalonID, true, true).First(&salon).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Salon not found")
		return
	}

	var existing models.User
	result := config.DB.Where("username = ?", input.Username).First(&existing)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Username already taken")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	staff := models.User{
		Username: input.Username,
		Password: input.Password, // Hashed in BeforeCreate hook
		FullName: input.FullName,
		Email:    input.Email,
		Phone:    input.Phone,
		Role:     models.RoleStaff,
		SalonID:  &input.SalonID,
	}
	// is_active defaults to true at the column level, so the pending flag
	// has to be set explicitly after the insert.
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&staff).Error; err != nil {
			return err
		}
		return tx.Model(&staff).Update("is_active", false).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to register")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration submitted, awaiting salon approval",
	})
}

func approvedSalon(c *gin.Context) (models.Salon, bool) {
	salonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid salon ID format")
		return models.Salon{}, false
	}

	var salon models.Salon
	err = config.DB.Where("id = ? AND is_approved = ? AND is_active = ?", salonID, true, true).
		First(&salon).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Salon not found")
		return models.Salon{}, false
	}
	return salon, true
}
