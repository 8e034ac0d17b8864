package services

import (
	"testing"
	"time"

	"beautyflow-backend/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Salon{},
		&models.User{},
		&models.Service{},
		&models.ServiceRecipe{},
		&models.Appointment{},
		&models.StockItem{},
		&models.StockMovement{},
		&models.StockCount{},
		&models.Commission{},
		&models.StaffServiceCommission{},
		&models.Transaction{},
	)
	require.NoError(t, err)
	return db
}

func seedSalon(t *testing.T, db *gorm.DB) models.Salon {
	t.Helper()
	salon := models.Salon{Name: "Test Salon", City: "Testville"}
	require.NoError(t, db.Create(&salon).Error)
	return salon
}

func seedStaff(t *testing.T, db *gorm.DB, salonID uuid.UUID, rate float64) models.User {
	t.Helper()
	staff := models.User{
		Username:       "staff-" + uuid.NewString()[:8],
		Password:       "secret-password",
		FullName:       "Test Staff",
		Role:           models.RoleStaff,
		SalonID:        &salonID,
		CommissionRate: rate,
	}
	require.NoError(t, db.Create(&staff).Error)
	return staff
}

func seedService(t *testing.T, db *gorm.DB, salonID uuid.UUID, price float64) models.Service {
	t.Helper()
	service := models.Service{SalonID: salonID, Name: "Hair Color", Price: price, Duration: 60}
	require.NoError(t, db.Create(&service).Error)
	return service
}

func seedStockItem(t *testing.T, db *gorm.DB, salonID uuid.UUID, name, itemType string, quantity, unitCost float64) models.StockItem {
	t.Helper()
	item := models.StockItem{
		SalonID:  salonID,
		Name:     name,
		ItemType: itemType,
		Quantity: quantity,
		Unit:     "ml",
		UnitCost: unitCost,
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func seedAppointment(t *testing.T, db *gorm.DB, salonID, serviceID uuid.UUID, staffID *uuid.UUID) models.Appointment {
	t.Helper()
	appointment := models.Appointment{
		SalonID:         salonID,
		ServiceID:       serviceID,
		StaffID:         staffID,
		CustomerName:    "Jane Doe",
		CustomerPhone:   "+15550001111",
		AppointmentDate: time.Now(),
		AppointmentTime: "10:00",
		Status:          models.AppointmentPending,
	}
	require.NoError(t, db.Create(&appointment).Error)
	return appointment
}

func patronActor(salonID uuid.UUID) Actor {
	return Actor{UserID: uuid.New(), SalonID: salonID, Role: models.RolePatron}
}

func TestCompleteAppointment_RecipeSettlement(t *testing.T) {
	db := newTestDB(t)
	salon := seedSalon(t, db)
	staff := seedStaff(t, db, salon.ID, 0) // falls through to the 0.15 default
	service := seedService(t, db, salon.ID, 200)

	dye := seedStockItem(t, db, salon.ID, "Color Cream", models.ItemTypeDye, 100, 5)
	shampoo := seedStockItem(t, db, salon.ID, "Pro Shampoo", models.ItemTypeShampoo, 500, 2)
	require.NoError(t, db.Create(&models.ServiceRecipe{ServiceID: service.ID, StockItemID: dye.ID, Quantity: 10}).Error)
	require.NoError(t, db.Create(&models.ServiceRecipe{ServiceID: service.ID, StockItemID: shampoo.ID, Quantity: 20}).Error)

	appointment := seedAppointment(t, db, salon.ID, service.ID, &staff.ID)

	svc := NewSettlementService(db)
	summary, err := svc.CompleteAppointment(appointment.ID, patronActor(salon.ID), "done")
	require.NoError(t, err)

	// 10*5 + 20*2 = 90 material; commission on net: (200-90)*0.15
	assert.Equal(t, 200.0, summary.Revenue)
	assert.InDelta(t, 90.0, summary.MaterialCost, 0.001)
	assert.InDelta(t, 16.5, summary.Commission, 0.001)

	var got models.Appointment
	require.NoError(t, db.First(&got, "id = ?", appointment.ID).Error)
	assert.Equal(t, models.AppointmentCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)
	assert.Equal(t, "done", got.Notes)

	var dyeAfter, shampooAfter models.StockItem
	require.NoError(t, db.First(&dyeAfter, "id = ?", dye.ID).Error)
	require.NoError(t, db.First(&shampooAfter, "id = ?", shampoo.ID).Error)
	assert.InDelta(t, 90.0, dyeAfter.Quantity, 0.001)
	assert.InDelta(t, 480.0, shampooAfter.Quantity, 0.001)

	var movements int64
	db.Model(&models.StockMovement{}).
		Where("appointment_id = ? AND movement_type = ?", appointment.ID, models.MovementOut).
		Count(&movements)
	assert.EqualValues(t, 2, movements)

	var income models.Transaction
	require.NoError(t, db.First(&income, "appointment_id = ?", appointment.ID).Error)
	assert.Equal(t, models.TransactionIncome, income.Type)
	assert.Equal(t, 200.0, income.Amount)

	var commission models.Commission
	require.NoError(t, db.First(&commission, "appointment_id = ?", appointment.ID).Error)
	assert.Equal(t, staff.ID, commission.StaffID)
	assert.InDelta(t, 0.15, commission.CommissionRate, 0.001)
	assert.InDelta(t, 16.5, commission.CommissionAmount, 0.001)
}

func TestCompleteAppointment_DoubleCompletionRejected(t *testing.T) {
	db := newTestDB(t)
	salon := seedSalon(t, db)
	staff := seedStaff(t, db, salon.ID, 0.2)
	service := seedService(t, db, salon.ID, 100)
	appointment := seedAppointment(t, db, salon.ID, service.ID, &staff.ID)

	svc := NewSettlementService(db)
	_, err := svc.CompleteAppointment(appointment.ID, patronActor(salon.ID), "")
	require.NoError(t, err)

	_, err = svc.CompleteAppointment(appointment.ID, patronActor(salon.ID), "")
	assert.ErrorIs(t, err, ErrAlreadyCompleted)

	var incomes, commissions int64
	db.Model(&models.Transaction{}).Where("appointment_id = ?", appointment.ID).Count(&incomes)
	db.Model(&models.Commission{}).Where("appointment_id = ?", appointment.ID).Count(&commissions)
	assert.EqualValues(t, 1, incomes)
	assert.EqualValues(t, 1, commissions)
}

func TestCompleteAppointment_CancelledNotSettleable(t *testing.T) {
	db := newTestDB(t)
	salon := seedSalon(t, db)
	service := seedService(t, db, salon.ID, 100)

	appointment := seedAppointment(t, db, salon.ID, service.ID, nil)
	require.NoError(t, db.Model(&appointment).Update("status", models.AppointmentCancelled).Error)

	svc := NewSettlementService(db)
	_, err := svc.CompleteAppointment(appointment.ID, patronActor(salon.ID), "")
	assert.ErrorIs(t, err, ErrNotPending)
	assert.NotErrorIs(t, err, ErrAlreadyCompleted)

	var incomes int64
	db.Model(&models.Transaction{}).Where("appointment_id = ?", appointment.ID).Count(&incomes)
	assert.EqualValues(t, 0, incomes)
}

func TestCompleteAppointment_RecipeSupersedesLegacy(t *testing.T) {
	db := newTestDB(t)
	salon := seedSalon(t, db)
	staff := seedStaff(t, db, salon.ID, 0.1)

	service := models.Service{
		SalonID:      salon.ID,
		Name:         "Treatment",
		Price:        80,
		ShampooUsage: 50, // must be ignored once recipe rows exist
	}
	require.NoError(t, db.Create(&service).Error)

	shampoo := seedStockItem(t, db, salon.ID, "Pro Shampoo", models.ItemTypeShampoo, 300, 1)
	oil := seedStockItem(t, db, salon.ID, "Argan Oil", models.ItemTypeOther, 100, 4)
	require.NoError(t, db.Create(&models.ServiceRecipe{ServiceID: service.ID, StockItemID: oil.ID, Quantity: 5}).Error)

	appointment := seedAppointment(t, db, salon.ID, service.ID, &staff.ID)

	svc := NewSettlementService(db)
	summary, err := svc.CompleteAppointment(appointment.ID, patronActor(salon.ID), "")
	require.NoError(t, err)

	assert.InDelta(t, 20.0, summary.MaterialCost, 0.001)

	var shampooAfter models.StockItem
	require.NoError(t, db.First(&shampooAfter, "id = ?", shampoo.ID).Error)
	assert.InDelta(t, 300.0, shampooAfter.Quantity, 0.001)
}

func TestCompleteAppointment_LegacyFallback(t *testing.T) {
	db := newTestDB(t)
	salon := seedSalon(t, db)
	staff := seedStaff(t, db, salon.ID, 0.1)

	service := models.Service{
		SalonID:      salon.ID,
		Name:         "Root Touch-up",
		Price:        120,
		DyeUsage:     15,
		OxidantUsage: 20, // no oxidant in stock, contributes nothing
	}
	require.NoError(t, db.Create(&service).Error)

	// Two dye items: the most recently updated one must be picked.
	old := seedStockItem(t, db, salon.ID, "Old Dye", models.ItemTypeDye, 200, 10)
	require.NoError(t, db.Model(&models.StockItem{}).Where("id = ?", old.ID).
		Update("last_updated", time.Now().Add(-48*time.Hour)).Error)
	fresh := seedStockItem(t, db, salon.ID, "Fresh Dye", models.ItemTypeDye, 200, 3)

	appointment := seedAppointment(t, db, salon.ID, service.ID, &staff.ID)

	svc := NewSettlementService(db)
	summary, err := svc.CompleteAppointment(appointment.ID, patronActor(salon.ID), "")
	require.NoError(t, err)

	// 15 units of the fresh dye at cost 3; the missing oxidant is skipped.
	assert.InDelta(t, 45.0, summary.MaterialCost, 0.001)

	var freshAfter, oldAfter models.StockItem
	require.NoError(t, db.First(&freshAfter, "id = ?", fresh.ID).Error)
	require.NoError(t, db.First(&oldAfter, "id = ?", old.ID).Error)
	assert.InDelta(t, 185.0, freshAfter.Quantity, 0.001)
	assert.InDelta(t, 200.0, oldAfter.Quantity, 0.001)
}

func TestCompleteAppointment_StockCanGoNegative(t *testing.T) {
	db := newTestDB(t)
	salon := seedSalon(t, db)
	service := seedService(t, db, salon.ID, 50)

	dye := seedStockItem(t, db, salon.ID, "Color Cream", models.ItemTypeDye, 4, 2)
	require.NoError(t, db.Create(&models.ServiceRecipe{ServiceID: service.ID, StockItemID: dye.ID, Quantity: 10}).Error)

	appointment := seedAppointment(t, db, salon.ID, service.ID, nil)

	svc := NewSettlementService(db)
	_, err := svc.CompleteAppointment(appointment.ID, patronActor(salon.ID), "")
	require.NoError(t, err)

	var after models.StockItem
	require.NoError(t, db.First(&after, "id = ?", dye.ID).Error)
	assert.InDelta(t, -6.0, after.Quantity, 0.001)
}

func TestCompleteAppointment_NoStaffNoCommission(t *testing.T) {
	db := newTestDB(t)
	salon := seedSalon(t, db)
	service := seedService(t, db, salon.ID, 60)
	appointment := seedAppointment(t, db, salon.ID, service.ID, nil)

	svc := NewSettlementService(db)
	summary, err := svc.CompleteAppointment(appointment.ID, patronActor(salon.ID), "")
	require.NoError(t, err)

	assert.Equal(t, 0.0, summary.Commission)

	var commissions int64
	db.Model(&models.Commission{}).Where("appointment_id = ?", appointment.ID).Count(&commissions)
	assert.EqualValues(t, 0, commissions)

	var income models.Transaction
	require.NoError(t, db.First(&income, "appointment_id = ?", appointment.ID).Error)
	assert.Equal(t, 60.0, income.Amount)
}

func TestCompleteAppointment_StaffScope(t *testing.T) {
	db := newTestDB(t)
	salon := seedSalon(t, db)
	assigned := seedStaff(t, db, salon.ID, 0.1)
	other := seedStaff(t, db, salon.ID, 0.1)
	service := seedService(t, db, salon.ID, 60)
	appointment := seedAppointment(t, db, salon.ID, service.ID, &assigned.ID)

	svc := NewSettlementService(db)

	_, err := svc.CompleteAppointment(appointment.ID, Actor{
		UserID: other.ID, SalonID: salon.ID, Role: models.RoleStaff,
	}, "")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	_, err = svc.CompleteAppointment(appointment.ID, Actor{
		UserID: assigned.ID, SalonID: salon.ID, Role: models.RoleStaff,
	}, "")
	assert.NoError(t, err)
}

func TestCompleteAppointment_LoyaltyAward(t *testing.T) {
	db := newTestDB(t)
	salon := seedSalon(t, db)
	service := seedService(t, db, salon.ID, 40)

	customer := models.User{
		Username: "loyal-customer",
		Password: "secret-password",
		FullName: "Jane Doe",
		Phone:    "+15550001111",
		Role:     models.RoleCustomer,
	}
	require.NoError(t, db.Create(&customer).Error)

	appointment := seedAppointment(t, db, salon.ID, service.ID, nil)

	svc := NewSettlementService(db)
	_, err := svc.CompleteAppointment(appointment.ID, patronActor(salon.ID), "")
	require.NoError(t, err)

	var after models.User
	require.NoError(t, db.First(&after, "id = ?", customer.ID).Error)
	assert.Equal(t, 10, after.AuraPoints)
}

func TestCompleteAppointment_LoyaltyAwardMatchesAnyRole(t *testing.T) {
	db := newTestDB(t)
	salon := seedSalon(t, db)
	service := seedService(t, db, salon.ID, 40)

	// The award keys on the phone number alone, not on the account role.
	moonlighter := models.User{
		Username: "moonlighting-staff",
		Password: "secret-password",
		FullName: "Jane Doe",
		Phone:    "+15550001111",
		Role:     models.RoleStaff,
		SalonID:  &salon.ID,
	}
	require.NoError(t, db.Create(&moonlighter).Error)

	appointment := seedAppointment(t, db, salon.ID, service.ID, nil)

	svc := NewSettlementService(db)
	_, err := svc.CompleteAppointment(appointment.ID, patronActor(salon.ID), "")
	require.NoError(t, err)

	var after models.User
	require.NoError(t, db.First(&after, "id = ?", moonlighter.ID).Error)
	assert.Equal(t, 10, after.AuraPoints)
}

func TestResolveCommissionRate_Precedence(t *testing.T) {
	db := newTestDB(t)
	salon := seedSalon(t, db)
	service := seedService(t, db, salon.ID, 100)

	t.Run("override wins", func(t *testing.T) {
		staff := seedStaff(t, db, salon.ID, 0.1)
		require.NoError(t, db.Create(&models.StaffServiceCommission{
			StaffID: staff.ID, ServiceID: service.ID, CommissionRate: 0.3,
		}).Error)

		rate, err := ResolveCommissionRate(db, staff.ID, service.ID)
		require.NoError(t, err)
		assert.InDelta(t, 0.3, rate, 0.001)
	})

	t.Run("zero override falls through to staff rate", func(t *testing.T) {
		staff := seedStaff(t, db, salon.ID, 0.25)
		require.NoError(t, db.Create(&models.StaffServiceCommission{
			StaffID: staff.ID, ServiceID: service.ID, CommissionRate: 0,
		}).Error)

		rate, err := ResolveCommissionRate(db, staff.ID, service.ID)
		require.NoError(t, err)
		assert.InDelta(t, 0.25, rate, 0.001)
	})

	t.Run("no override, no staff rate, system default", func(t *testing.T) {
		staff := seedStaff(t, db, salon.ID, 0)

		rate, err := ResolveCommissionRate(db, staff.ID, service.ID)
		require.NoError(t, err)
		assert.InDelta(t, DefaultCommissionRate, rate, 0.001)
	})
}

func TestMonthlyCommissionReport(t *testing.T) {
	db := newTestDB(t)
	salon := seedSalon(t, db)
	staff := seedStaff(t, db, salon.ID, 0.2)
	service := seedService(t, db, salon.ID, 100)

	first := seedAppointment(t, db, salon.ID, service.ID, &staff.ID)
	second := seedAppointment(t, db, salon.ID, service.ID, &staff.ID)

	svc := NewSettlementService(db)
	_, err := svc.CompleteAppointment(first.ID, patronActor(salon.ID), "")
	require.NoError(t, err)
	_, err = svc.CompleteAppointment(second.ID, patronActor(salon.ID), "")
	require.NoError(t, err)

	month := time.Now().Format("2006-01")
	rows, summary, err := svc.MonthlyCommissionReport(staff.ID, month)
	require.NoError(t, err)

	assert.Len(t, rows, 2)
	assert.Equal(t, 2, summary.AppointmentCount)
	assert.InDelta(t, 200.0, summary.TotalRevenue, 0.001)
	assert.InDelta(t, 40.0, summary.TotalCommission, 0.001)

	_, _, err = svc.MonthlyCommissionReport(staff.ID, "not-a-month")
	assert.Error(t, err)
}
