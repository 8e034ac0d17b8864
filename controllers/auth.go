// controllers/auth.go
package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"beautyflow-backend/config"
	"beautyflow-backend/models"
	"beautyflow-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RegisterSalonInput struct {
	SalonName    string       `json:"salonName" binding:"required"`
	OwnerName    string       `json:"ownerName" binding:"required"`
	Address      string       `json:"address"`
	City         string       `json:"city"`
	Phone        string       `json:"phone"`
	Email        string       `json:"email" binding:"omitempty,email"`
	Username     string       `json:"username" binding:"required"`
	Password     string       `json:"password" binding:"required,min=8"`
	WorkingHours models.JSONB `json:"workingHours"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterSalon creates a new tenant in unapproved state together with its
// patron account. The salon stays locked out until a super admin approves it.
func RegisterSalon(c *gin.Context) {
	var input RegisterSalonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	var existingUser models.User
	result := config.DB.Where("username = ?", input.Username).First(&existingUser)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Username already taken")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	salon := models.Salon{
		Name:         input.SalonName,
		OwnerName:    input.OwnerName,
		Address:      input.Address,
		City:         input.City,
		Phone:        input.Phone,
		Email:        input.Email,
		WorkingHours: input.WorkingHours,
	}
	if salon.WorkingHours == nil {
		salon.WorkingHours = defaultWorkingHours()
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&salon).Error; err != nil {
			return err
		}

		patron := models.User{
			Username: input.Username,
			Password: input.Password, // Hashed in BeforeCreate hook
			FullName: input.OwnerName,
			Email:    input.Email,
			Phone:    input.Phone,
			Role:     models.RolePatron,
			SalonID:  &salon.ID,
		}
		return tx.Create(&patron).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to register salon")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Salon registered. Waiting for approval.",
		"salonId": salon.ID,
	})
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	username := strings.TrimSpace(input.Username)

	var user models.User
	result := config.DB.Where("username = ? AND is_active = ?", username, true).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// Patrons of unapproved or suspended salons cannot log in.
	if user.Role == models.RolePatron && user.SalonID != nil {
		var salon models.Salon
		if err := config.DB.First(&salon, "id = ?", *user.SalonID).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		if !salon.IsApproved {
			utils.RespondWithError(c, http.StatusForbidden, "Salon not approved yet")
			return
		}
		if !salon.IsActive {
			utils.RespondWithError(c, http.StatusForbidden, "Salon is suspended")
			return
		}
	}

	salonID := ""
	if user.SalonID != nil {
		salonID = user.SalonID.String()
	}

	token, err := utils.GenerateToken(user.ID.String(), user.Role, salonID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	now := time.Now()
	config.DB.Model(&user).Update("last_login", &now)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"fullName": user.FullName,
			"role":     user.Role,
			"salonId":  user.SalonID,
		},
	})
}

func Me(c *gin.Context) {
	userID, ok := userFromContext(c)
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ? AND is_active = ?", userID, true).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"fullName": user.FullName,
			"role":     user.Role,
			"salonId":  user.SalonID,
		},
	})
}

func defaultWorkingHours() models.JSONB {
	day := func(open, close string, closed bool) map[string]interface{} {
		return map[string]interface{}{"open": open, "close": close, "closed": closed}
	}
	return models.JSONB{
		"monday":    day("09:00", "20:00", false),
		"tuesday":   day("09:00", "20:00", false),
		"wednesday": day("09:00", "20:00", false),
		"thursday":  day("09:00", "20:00", false),
		"friday":    day("09:00", "20:00", false),
		"saturday":  day("09:00", "21:00", false),
		"sunday":    day("10:00", "19:00", true),
	}
}
