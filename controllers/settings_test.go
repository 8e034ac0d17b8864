package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"beautyflow-backend/config"
	"beautyflow-backend/models"
	"beautyflow-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupControllerDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Salon{}, &models.User{}))

	previous := config.DB
	config.DB = db
	t.Cleanup(func() { config.DB = previous })
	return db
}

func patronRequest(t *testing.T, salon models.Salon, method string, payload interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	c.Request = httptest.NewRequest(method, "/patron/settings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("salonId", salon.ID.String())
	return c, w
}

func TestUpdateWorkingHours(t *testing.T) {
	db := setupControllerDB(t)

	salon := models.Salon{Name: "Test Salon", WorkingHours: defaultWorkingHours()}
	require.NoError(t, db.Create(&salon).Error)

	c, w := patronRequest(t, salon, http.MethodPost, gin.H{
		"hours": gin.H{
			"monday": gin.H{"open": "08:30", "close": "18:00", "closed": false},
			"sunday": gin.H{"open": "", "close": "", "closed": true},
		},
	})
	UpdateWorkingHours(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var after models.Salon
	require.NoError(t, db.First(&after, "id = ?", salon.ID).Error)
	monday, ok := after.WorkingHours["monday"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "08:30", monday["open"])
	assert.Equal(t, "18:00", monday["close"])

	// The slot window must follow the stored hours.
	aMonday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	open, close, closed := workingWindow(after.WorkingHours, aMonday)
	assert.False(t, closed)
	assert.Equal(t, 8*60+30, open)
	assert.Equal(t, 18*60, close)

	aSunday := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
	_, _, closed = workingWindow(after.WorkingHours, aSunday)
	assert.True(t, closed)
}

func TestUpdateWorkingHours_RejectsBadInput(t *testing.T) {
	db := setupControllerDB(t)

	salon := models.Salon{Name: "Test Salon", WorkingHours: defaultWorkingHours()}
	require.NoError(t, db.Create(&salon).Error)

	c, w := patronRequest(t, salon, http.MethodPost, gin.H{
		"hours": gin.H{
			"monday": gin.H{"open": "25:00", "close": "18:00", "closed": false},
		},
	})
	UpdateWorkingHours(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = patronRequest(t, salon, http.MethodPost, gin.H{
		"hours": gin.H{
			"funday": gin.H{"open": "09:00", "close": "18:00", "closed": false},
		},
	})
	UpdateWorkingHours(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var after models.Salon
	require.NoError(t, db.First(&after, "id = ?", salon.ID).Error)
	monday := after.WorkingHours["monday"].(map[string]interface{})
	assert.Equal(t, "09:00", monday["open"])
}

func TestUpdateSalonProfile(t *testing.T) {
	db := setupControllerDB(t)

	salon := models.Salon{Name: "Old Name", Phone: "+15550001111"}
	require.NoError(t, db.Create(&salon).Error)

	c, w := patronRequest(t, salon, http.MethodPatch, gin.H{
		"name":    "New Name",
		"address": "1 Main St",
	})
	UpdateSalonProfile(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var after models.Salon
	require.NoError(t, db.First(&after, "id = ?", salon.ID).Error)
	assert.Equal(t, "New Name", after.Name)
	assert.Equal(t, "1 Main St", after.Address)
	assert.Equal(t, "+15550001111", after.Phone) // untouched field survives
}

func TestChangePassword(t *testing.T) {
	db := setupControllerDB(t)

	user := models.User{
		Username: "owner",
		Password: "original-pass",
		FullName: "Owner",
		Role:     models.RolePatron,
	}
	require.NoError(t, db.Create(&user).Error)

	request := func(payload gin.H) *httptest.ResponseRecorder {
		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		c.Request = httptest.NewRequest(http.MethodPatch, "/patron/settings/password", bytes.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("userId", user.ID.String())
		ChangePassword(c)
		return w
	}

	w := request(gin.H{"oldPassword": "wrong-pass", "newPassword": "replacement-pass"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(gin.H{"oldPassword": "original-pass", "newPassword": "replacement-pass"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var after models.User
	require.NoError(t, db.First(&after, "id = ?", user.ID).Error)
	assert.True(t, utils.CheckPasswordHash("replacement-pass", after.Password))
	assert.False(t, utils.CheckPasswordHash("original-pass", after.Password))
}
