// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"beautyflow-backend/models"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewReminderService(db *gorm.DB) *ReminderService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", func() {
		s.SendDailyReminders()
	})

	c.Start()
	log.Println("Reminder scheduler started")
}

// SendDailyReminders messages every customer with a pending appointment
// tomorrow, across all approved and active salons.
func (s *ReminderService) SendDailyReminders() {
	log.Println("Starting daily reminder processing...")

	var salons []models.Salon
	if err := s.db.Find(&salons, "is_approved = ? AND is_active = ?", true, true).Error; err != nil {
		log.Printf("Failed to fetch salons: %v", err)
		return
	}

	for _, salon := range salons {
		s.ProcessSalonReminders(salon.ID, salon.Name)
	}

	log.Println("Daily reminder processing completed")
}

func (s *ReminderService) ProcessSalonReminders(salonID uuid.UUID, salonName string) {
	tomorrow := time.Now().AddDate(0, 0, 1)
	dayStart := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, tomorrow.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var appointments []models.Appointment
	err := s.db.Where(
		"salon_id = ? AND status = ? AND appointment_date >= ? AND appointment_date < ? AND customer_phone <> ''",
		salonID, models.AppointmentPending, dayStart, dayEnd,
	).Find(&appointments).Error
	if err != nil {
		log.Printf("Salon %s: Failed to get tomorrow's appointments: %v", salonID, err)
		return
	}

	for _, appointment := range appointments {
		s.sendReminder(salonName, appointment)
	}
}

func (s *ReminderService) sendReminder(salonName string, appointment models.Appointment) {
	message := fmt.Sprintf(
		"Hi %s, this is a reminder of your appointment at %s tomorrow at %s. See you there!",
		appointment.CustomerName, salonName, appointment.AppointmentTime,
	)

	// WhatsApp when the phone is in E.164 format, SMS otherwise
	channel := "sms"
	to := appointment.CustomerPhone
	if strings.HasPrefix(appointment.CustomerPhone, "+") {
		to = "whatsapp:" + appointment.CustomerPhone
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)

	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	status := "sent"
	errorMsg := ""

	if err != nil {
		log.Printf("Failed to send reminder to %s: %v", appointment.CustomerPhone, err)
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		log.Printf("Reminder sent to %s, SID: %s", appointment.CustomerPhone, *resp.Sid)
	}

	reminderLog := models.ReminderLog{
		SalonID:       appointment.SalonID,
		AppointmentID: appointment.ID,
		Message:       message,
		Status:        status,
		ErrorMessage:  errorMsg,
		Channel:       channel,
		SentAt:        time.Now(),
	}

	if err := s.db.Create(&reminderLog).Error; err != nil {
		log.Printf("Failed to log reminder for appointment %s: %v", appointment.ID, err)
	}
}
