// controllers/finance.go
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

type CreateTransactionInput struct {
	Type        string  `json:"type" binding:"required,oneof=income expense"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description" binding:"required"`
}

type financeTotals struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

type trendPoint struct {
	Date     string  `json:"date"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

// GetFinanceStats returns income/expense totals for a reporting period
// plus a 30-day daily trend and the most recent transactions.
func GetFinanceStats(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	period := c.DefaultQuery("period", "month")
	now := time.Now()
	since := utils.PeriodStart(period, now)

	totals, err := sumTransactions(salonID, since, now)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute totals")
		return
	}

	trend, err := dailyTrend(salonID, now)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute trend")
		return
	}

	var recent []models.Transaction
	err = config.DB.
		Where("salon_id = ?", salonID).
		Order("created_at DESC").
		Limit(50).
		Find(&recent).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve transactions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"period":       period,
		"totals":       totals,
		"trend":        trend,
		"transactions": recent,
	})
}

func sumTransactions(salonID uuid.UUID, since, until time.Time) (financeTotals, error) {
	type row struct {
		TransactionType string
		Total           float64
	}
	var rows []row
	err := config.DB.Model(&models.Transaction{}).
		Select("transaction_type, COALESCE(SUM(amount), 0) as total").
		Where("salon_id = ? AND created_at >= ? AND created_at <= ?", salonID, since, until).
		Group("transaction_type").
		Scan(&rows).Error
	if err != nil {
		return financeTotals{}, err
	}

	var totals financeTotals
	for _, r := range rows {
		switch r.TransactionType {
		case models.TransactionIncome:
			totals.Income = r.Total
		case models.TransactionExpense:
			totals.Expenses = r.Total
		}
	}
	totals.Profit = totals.Income - totals.Expenses
	return totals, nil
}

// dailyTrend buckets the last 30 days of transactions in Go rather than
// SQL so the grouping works the same on postgres and sqlite.
func dailyTrend(salonID uuid.UUID, now time.Time) ([]trendPoint, error) {
	start := utils.BeginningOfDay(now.AddDate(0, 0, -29))

	var txns []models.Transaction
	err := config.DB.
		Where("salon_id = ? AND created_at >= ?", salonID, start).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*trendPoint, 30)
	trend := make([]trendPoint, 0, 30)
	for d := 0; d < 30; d++ {
		day := start.AddDate(0, 0, d).Format("2006-01-02")
		trend = append(trend, trendPoint{Date: day})
		byDay[day] = &trend[len(trend)-1]
	}

	for _, t := range txns {
		point, found := byDay[t.CreatedAt.Format("2006-01-02")]
		if !found {
			continue
		}
		switch t.Type {
		case models.TransactionIncome:
			point.Income += t.Amount
		case models.TransactionExpense:
			point.Expenses += t.Amount
		}
	}

	return trend, nil
}

// CreateTransaction records a manual income or expense entry.
func CreateTransaction(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var input CreateTransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	txn := models.Transaction{
		SalonID:     salonID,
		Type:        input.Type,
		Amount:      input.Amount,
		Description: input.Description,
	}
	if err := config.DB.Create(&txn).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record transaction")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Transaction recorded", "id": txn.ID})
}

// DeleteTransaction removes a manual ledger entry. Settlement-generated
// rows keep their appointment link and cannot be deleted.
func DeleteTransaction(c *gin.Context) {
	salonID, ok := salonFromContext(c)
	if !ok {
		return
	}

	txnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid transaction ID format")
		return
	}

	result := config.DB.
		Where("id = ? AND salon_id = ? AND appointment_id IS NULL", txnID, salonID).
		Delete(&models.Transaction{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Transaction not found or not deletable")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Transaction deleted"})
}
