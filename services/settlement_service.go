// services/settlement_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"beautyflow-backend/config"
	"beautyflow-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrAlreadyCompleted    = errors.New("appointment already completed")
	ErrNotPending          = errors.New("appointment is not pending")
)

// System-wide fallback when neither a per-service override nor a staff
// default rate is set.
const DefaultCommissionRate = 0.15

const loyaltyPointsPerVisit = 10

// SettlementSummary is returned to the caller after a successful completion.
type SettlementSummary struct {
	Revenue      float64 `json:"revenue"`
	MaterialCost float64 `json:"materialCost"`
	Commission   float64 `json:"commission"`
}

// Actor identifies who is completing the appointment. Staff may only settle
// appointments assigned to them; patrons may settle any appointment in their
// salon.
type Actor struct {
	UserID  uuid.UUID
	SalonID uuid.UUID
	Role    string
}

type SettlementService struct {
	db *gorm.DB
}

func NewSettlementService(db *gorm.DB) *SettlementService {
	return &SettlementService{db: db}
}

type recipeLine struct {
	StockItemID uuid.UUID
	Quantity    float64
	UnitCost    float64
}

// CompleteAppointment marks the appointment completed and settles its
// financial and inventory consequences in one transaction: loyalty award,
// income ledger row, material consumption with stock movements, and the
// staff commission record. The status claim (pending -> completed, checked
// by affected rows) is the exclusivity gate against concurrent completion.
func (s *SettlementService) CompleteAppointment(appointmentID uuid.UUID, actor Actor, notes string) (*SettlementSummary, error) {
	var summary SettlementSummary

	err := s.db.Transaction(func(tx *gorm.DB) error {
		scope := tx.Where("id = ?", appointmentID)
		if actor.Role == models.RoleStaff {
			scope = scope.Where("staff_id = ?", actor.UserID)
		} else {
			scope = scope.Where("salon_id = ?", actor.SalonID)
		}

		var appointment models.Appointment
		if err := scope.First(&appointment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAppointmentNotFound
			}
			return err
		}

		if appointment.Status == models.AppointmentCompleted {
			return ErrAlreadyCompleted
		}
		if appointment.Status != models.AppointmentPending {
			// Cancelled or no-show appointments cannot be settled.
			return ErrNotPending
		}

		var service models.Service
		if err := tx.First(&service, "id = ?", appointment.ServiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAppointmentNotFound
			}
			return err
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":       models.AppointmentCompleted,
			"completed_at": now,
		}
		if notes != "" {
			updates["notes"] = notes
		}

		claim := tx.Model(&models.Appointment{}).
			Where("id = ? AND status = ?", appointment.ID, models.AppointmentPending).
			Updates(updates)
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			// The status changed between the read and the claim, which
			// means a concurrent caller settled it first.
			return ErrAlreadyCompleted
		}

		// Loyalty award, best-effort: any user account matching the phone
		// gets the points; no account is not an error.
		if appointment.CustomerPhone != "" {
			tx.Model(&models.User{}).
				Where("phone = ?", appointment.CustomerPhone).
				Update("aura_points", gorm.Expr("aura_points + ?", loyaltyPointsPerVisit))
		}

		income := models.Transaction{
			SalonID:       appointment.SalonID,
			AppointmentID: &appointment.ID,
			Type:          models.TransactionIncome,
			Amount:        service.Price,
			Description:   fmt.Sprintf("Service revenue - %s", appointment.CustomerName),
		}
		if err := tx.Create(&income).Error; err != nil {
			return err
		}

		lines, err := resolveRecipe(tx, &service)
		if err != nil {
			return err
		}

		var materialCost float64
		for _, line := range lines {
			materialCost += line.Quantity * line.UnitCost

			if err := tx.Model(&models.StockItem{}).
				Where("id = ?", line.StockItemID).
				Updates(map[string]interface{}{
					"quantity":     gorm.Expr("quantity - ?", line.Quantity),
					"last_updated": now,
				}).Error; err != nil {
				return err
			}

			movement := models.StockMovement{
				StockItemID:   line.StockItemID,
				AppointmentID: &appointment.ID,
				MovementType:  models.MovementOut,
				Quantity:      line.Quantity,
				Notes:         fmt.Sprintf("Auto deduction - %s", appointment.CustomerName),
			}
			if err := tx.Create(&movement).Error; err != nil {
				return err
			}
		}

		summary = SettlementSummary{
			Revenue:      service.Price,
			MaterialCost: materialCost,
		}

		if appointment.StaffID == nil {
			return nil
		}

		rate, err := ResolveCommissionRate(tx, *appointment.StaffID, appointment.ServiceID)
		if err != nil {
			return err
		}

		// Commission is paid on net of material cost, not on gross price.
		netRevenue := service.Price - materialCost
		commissionAmount := netRevenue * rate

		commission := models.Commission{
			StaffID:          *appointment.StaffID,
			AppointmentID:    appointment.ID,
			ServiceID:        appointment.ServiceID,
			ServicePrice:     service.Price,
			MaterialCost:     materialCost,
			CommissionAmount: commissionAmount,
			CommissionRate:   rate,
		}
		if err := tx.Create(&commission).Error; err != nil {
			return err
		}

		summary.Commission = commissionAmount
		return nil
	})

	if err != nil {
		if !errors.Is(err, ErrAppointmentNotFound) && !errors.Is(err, ErrAlreadyCompleted) && !errors.Is(err, ErrNotPending) {
			config.LogError(config.GetLogger(), "services", "CompleteAppointment", "settlement failed", appointmentID, err)
		}
		return nil, err
	}
	return &summary, nil
}

// resolveRecipe returns the stock consumption for one occurrence of the
// service. Recipe rows, when present, fully supersede the legacy usage
// fields.
func resolveRecipe(tx *gorm.DB, service *models.Service) ([]recipeLine, error) {
	var lines []recipeLine
	err := tx.Table("service_recipes").
		Select("service_recipes.stock_item_id, service_recipes.quantity, stock_items.unit_cost").
		Joins("JOIN stock_items ON stock_items.id = service_recipes.stock_item_id").
		Where("service_recipes.service_id = ?", service.ID).
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	if len(lines) > 0 {
		return lines, nil
	}

	legacy := []struct {
		itemType string
		amount   float64
	}{
		{models.ItemTypeShampoo, service.ShampooUsage},
		{models.ItemTypeDye, service.DyeUsage},
		{models.ItemTypeOxidant, service.OxidantUsage},
		{models.ItemTypeOther, service.GeneralUsage},
	}

	for _, l := range legacy {
		if l.amount <= 0 {
			continue
		}

		var item models.StockItem
		err := tx.Where("salon_id = ? AND item_type = ?", service.SalonID, l.itemType).
			Order("last_updated DESC, id DESC").
			First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No stock of this type: the component contributes zero cost.
			continue
		}
		if err != nil {
			return nil, err
		}

		lines = append(lines, recipeLine{
			StockItemID: item.ID,
			Quantity:    l.amount,
			UnitCost:    item.UnitCost,
		})
	}
	return lines, nil
}

// ResolveCommissionRate returns the effective rate for a (staff, service)
// pair: per-service override, then the staff default, then the system
// default. A stored override of zero counts as unset.
func ResolveCommissionRate(tx *gorm.DB, staffID, serviceID uuid.UUID) (float64, error) {
	var override models.StaffServiceCommission
	err := tx.Where("staff_id = ? AND service_id = ?", staffID, serviceID).First(&override).Error
	if err == nil && override.CommissionRate > 0 {
		return override.CommissionRate, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	var staff models.User
	err = tx.Select("commission_rate").First(&staff, "id = ?", staffID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	if staff.CommissionRate > 0 {
		return staff.CommissionRate, nil
	}

	return DefaultCommissionRate, nil
}

// CommissionReportRow is one settled appointment in a staff earnings report.
type CommissionReportRow struct {
	models.Commission
	AppointmentDate time.Time  `json:"appointmentDate"`
	CompletedAt     *time.Time `json:"completedAt"`
	CustomerName    string     `json:"customerName"`
	ServiceName     string     `json:"serviceName"`
}

// CommissionReportSummary aggregates a staff member's month.
type CommissionReportSummary struct {
	TotalCommission   float64 `json:"totalCommission"`
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalMaterialCost float64 `json:"totalMaterialCost"`
	AppointmentCount  int     `json:"appointmentCount"`
}

// MonthlyCommissionReport lists a staff member's commissions for a month
// given as "2006-01".
func (s *SettlementService) MonthlyCommissionReport(staffID uuid.UUID, month string) ([]CommissionReportRow, *CommissionReportSummary, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid month %q: %w", month, err)
	}
	end := start.AddDate(0, 1, 0)

	var rows []CommissionReportRow
	err = s.db.Table("commissions").
		Select("commissions.*, appointments.appointment_date, appointments.completed_at, appointments.customer_name, services.name AS service_name").
		Joins("JOIN appointments ON appointments.id = commissions.appointment_id").
		Joins("JOIN services ON services.id = commissions.service_id").
		Where("commissions.staff_id = ? AND appointments.completed_at >= ? AND appointments.completed_at < ?", staffID, start, end).
		Order("appointments.completed_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	summary := &CommissionReportSummary{AppointmentCount: len(rows)}
	for _, r := range rows {
		summary.TotalCommission += r.CommissionAmount
		summary.TotalRevenue += r.ServicePrice
		summary.TotalMaterialCost += r.MaterialCost
	}
	return rows, summary, nil
}
