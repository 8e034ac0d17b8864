// controllers/staff.go
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
	"gorm.io/gorm/clause"
)

type AddStaffInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
}

type UpdateStaffInput struct {
	FullName       *string  `json:"fullName"`
	Email          *string  `json:"email"`
	Phone          *string  `json:"phone"`
	CommissionRate *float64 `json:"commissionRate" binding:"omitempty,min=0,max=1"`
	IsActive       *bool    `json:"isActive"`
}

type CommissionOverrideInput struct {
	Commissions []struct {
		ServiceID uuid.UUID `json:"serviceId" binding:"required"`
		Rate      float64   `json:"rate" binding:"min=0,max=1"`
	} `json:"commissions" binding:"required,min=1"`
}

type StaffAdvanceInput struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description"`
}

// GetStaff lists the salon's active and inactive staff members.
func GetStaff(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var staff []models.User
	err := config.DB.
		Select("id", "username", "full_name", "email", "phone", "commission_rate", "is_active", "created_at").
		Where("salon_id = ? AND role = ?", salonID, models.RoleStaff).
		Order("full_name").
		Find(&staff).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve staff")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "staff": staff})
}

// AddStaff creates an active staff account in the salon.
func AddStaff(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var input AddStaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
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
		SalonID:  &salonID,
	}

	if err := config.DB.Create(&staff).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to add staff")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Staff member added", "id": staff.ID})
}

// UpdateStaff updates staff profile fields, including the default
// commission rate.
func UpdateStaff(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	staffID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid staff ID format")
		return
	}

	var input UpdateStaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if input.FullName != nil {
		updates["full_name"] = *input.FullName
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.CommissionRate != nil {
		updates["commission_rate"] = *input.CommissionRate
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "No fields to update")
		return
	}

	result := config.DB.Model(&models.User{}).
		Where("id = ? AND salon_id = ? AND role = ?", staffID, salonID, models.RoleStaff).
		Updates(updates)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update staff")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Staff member not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Staff member updated"})
}

// DeleteStaff removes a staff account from the salon.
func DeleteStaff(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	staffID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid staff ID format")
		return
	}

	result := config.DB.Where("id = ? AND salon_id = ? AND role = ?", staffID, salonID, models.RoleStaff).
		Delete(&models.User{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete staff")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Staff member not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Staff member deleted"})
}

// GetPendingStaff lists staff self-registrations waiting for approval.
func GetPendingStaff(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var pending []models.User
	err := config.DB.
		Select("id", "username", "full_name", "email", "phone", "created_at").
		Where("salon_id = ? AND role = ? AND is_active = ?", salonID, models.RoleStaff, false).
		Order("created_at DESC").
		Find(&pending).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve pending staff")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "pendingStaff": pending})
}

// ApproveStaff activates a pending staff registration.
func ApproveStaff(c *gin.Context) {
	setStaffActive(c, true, "Staff member approved")
}

// RejectStaff removes a pending staff registration.
func RejectStaff(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	staffID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid staff ID format")
		return
	}

	result := config.DB.Where("id = ? AND salon_id = ? AND role = ? AND is_active = ?",
		staffID, salonID, models.RoleStaff, false).
		Delete(&models.User{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to reject staff")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Pending staff member not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Staff registration rejected"})
}

func setStaffActive(c *gin.Context, active bool, message string) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	staffID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid staff ID format")
		return
	}

	result := config.DB.Model(&models.User{}).
		Where("id = ? AND salon_id = ? AND role = ?", staffID, salonID, models.RoleStaff).
		Update("is_active", active)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update staff")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Staff member not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

// SetCommissionOverrides upserts per-service commission rates for a staff
// member. A rate of zero stays stored but counts as unset at settlement
// time.
func SetCommissionOverrides(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	staffID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid staff ID format")
		return
	}

	var input CommissionOverrideInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var staff models.User
	if err := config.DB.Where("id = ? AND salon_id = ?", staffID, salonID).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Staff member not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		for _, comm := range input.Commissions {
			override := models.StaffServiceCommission{
				StaffID:        staffID,
				ServiceID:      comm.ServiceID,
				CommissionRate: comm.Rate,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "staff_id"}, {Name: "service_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"commission_rate"}),
			}).Create(&override).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update commission overrides")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Commission overrides updated"})
}

// AddStaffAdvance records a staff payment/advance and books it as an
// expense.
func AddStaffAdvance(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	staffID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid staff ID format")
		return
	}

	var input StaffAdvanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var staff models.User
	if err := config.DB.Where("id = ? AND salon_id = ?", staffID, salonID).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Staff member not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	expense := models.Transaction{
		SalonID:     salonID,
		Type:        models.TransactionExpense,
		Amount:      input.Amount,
		Description: "Staff advance: " + staff.FullName + " - " + input.Description,
	}
	if err := config.DB.Create(&expense).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record advance")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Advance recorded"})
}

// GetStaffEarnings returns a staff member's commission report for a month
// ("YYYY-MM", defaults to the current month).
func GetStaffEarnings(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	staffID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid staff ID format")
		return
	}

	var staff models.User
	if err := config.DB.Where("id = ? AND salon_id = ? AND role = ?", staffID, salonID, models.RoleStaff).
		First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Staff member not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	month := c.Query("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}

	settlement := services.NewSettlementService(config.DB)
	rows, summary, err := settlement.MonthlyCommissionReport(staffID, month)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Failed to build report: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "commissions": rows, "summary": summary})
}
