package controllers

import (
	"net/http"

	"beautyflow-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// salonFromContext resolves the authenticated salon scope set by the auth
// middleware. Writes the error response itself on failure.
func salonFromContext(c *gin.Context) (uuid.UUID, bool) {
	salonID, exists := c.Get("salonId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Salon ID not found in context")
		return uuid.Nil, false
	}

	raw, ok := salonID.(string)
	if !ok {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid salon ID format")
		return uuid.Nil, false
	}

	salonUUID, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid salon ID format")
		return uuid.Nil, false
	}
	return salonUUID, true
}

func userFromContext(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}

	raw, ok := userID.(string)
	if !ok {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return uuid.Nil, false
	}

	userUUID, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return uuid.Nil, false
	}
	return userUUID, true
}
