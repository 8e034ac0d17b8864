// controllers/chat.go
package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"beautyflow-backend/config"
	"beautyflow-backend/models"
	"beautyflow-backend/services"
	"beautyflow-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Assistant is wired at startup; nil when no API key is configured.
var Assistant services.AssistantService

type ChatInput struct {
	Message string                 `json:"message" binding:"required"`
	History []services.ChatMessage `json:"history"`
}

const publicPersona = `You are the friendly booking assistant for a beauty salon platform.
Help visitors find salons, understand services, and book appointments.
Keep answers short and practical. If asked about anything unrelated to
salons or bookings, politely decline.`

const patronPersona = `You are a business assistant for a salon owner.
Answer questions about their appointments, revenue, inventory and staff
using only the context provided. Be concise and numeric where possible.
If the context does not contain the answer, say so.`

const staffPersona = `You are a work assistant for a salon staff member.
Answer questions about their schedule and earnings using only the context
provided. Be brief and do not reveal other staff members' data.`

// PublicChat answers visitor questions without any tenant data.
func PublicChat(c *gin.Context) {
	handleChat(c, publicPersona, "")
}

// PatronChat answers owner questions grounded in the salon's current
// numbers.
func PatronChat(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}
	handleChat(c, patronPersona, patronContext(salonID))
}

// StaffChat answers schedule and earnings questions for the logged-in
// staff member.
func StaffChat(c *gin.Context) {
	userID, ok := userFromContext(c)
	if !ok {
		return
	}
	handleChat(c, staffPersona, staffContext(userID))
}

func handleChat(c *gin.Context, persona, salonContext string) {
	if Assistant == nil {
		utils.RespondWithError(c, http.StatusServiceUnavailable, "Assistant is not configured")
		return
	}

	var input ChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	reply, err := Assistant.Chat(c.Request.Context(), persona, salonContext, input.History, input.Message)
	if err != nil {
		config.LogError(config.GetLogger(), "chat", "handleChat", "assistant call failed", nil, err)
		utils.RespondWithError(c, http.StatusBadGateway, "Assistant is unavailable right now")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reply": reply})
}

// patronContext summarises the salon's day and month for the assistant.
func patronContext(salonID uuid.UUID) string {
	now := time.Now()
	today := now.Format("2006-01-02")

	var pendingToday, completedToday int64
	config.DB.Model(&models.Appointment{}).
		Where("salon_id = ? AND appointment_date = ? AND status = ?", salonID, today, models.AppointmentPending).
		Count(&pendingToday)
	config.DB.Model(&models.Appointment{}).
		Where("salon_id = ? AND appointment_date = ? AND status = ?", salonID, today, models.AppointmentCompleted).
		Count(&completedToday)

	totals, err := sumTransactions(salonID, utils.PeriodStart("month", now), now)
	if err != nil {
		totals = financeTotals{}
	}

	stockSvc := services.NewStockService(config.DB)
	lowItems, err := stockSvc.LowStock(salonID)
	if err != nil {
		lowItems = nil
	}
	lowNames := make([]string, 0, len(lowItems))
	for _, item := range lowItems {
		lowNames = append(lowNames, fmt.Sprintf("%s (%.0f %s)", item.Name, item.Quantity, item.Unit))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Date: %s\n", today)
	fmt.Fprintf(&b, "Appointments today: %d pending, %d completed\n", pendingToday, completedToday)
	fmt.Fprintf(&b, "This month: income %.2f, expenses %.2f, profit %.2f\n",
		totals.Income, totals.Expenses, totals.Profit)
	if len(lowNames) > 0 {
		fmt.Fprintf(&b, "Low stock: %s\n", strings.Join(lowNames, ", "))
	}
	return b.String()
}

// staffContext summarises the staff member's schedule and month-to-date
// earnings.
func staffContext(userID uuid.UUID) string {
	now := time.Now()
	today := now.Format("2006-01-02")

	var appointments []models.Appointment
	config.DB.Preload("Service").
		Where("staff_id = ? AND appointment_date = ? AND status = ?", userID, today, models.AppointmentPending).
		Order("appointment_time").
		Find(&appointments)

	settlement := services.NewSettlementService(config.DB)
	_, summary, err := settlement.MonthlyCommissionReport(userID, now.Format("2006-01"))

	var b strings.Builder
	fmt.Fprintf(&b, "Date: %s\n", today)
	fmt.Fprintf(&b, "Today's appointments (%d):\n", len(appointments))
	for _, a := range appointments {
		fmt.Fprintf(&b, "- %s %s (%s)\n", a.AppointmentTime, a.Service.Name, a.CustomerName)
	}
	if err == nil && summary != nil {
		fmt.Fprintf(&b, "Month to date: %d completed, commission earned %.2f\n",
			summary.AppointmentCount, summary.TotalCommission)
	}
	return b.String()
}
