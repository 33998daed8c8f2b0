// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"practicepro-backend/models"
	"practicepro-backend/utils"

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

	// Every day at 9 AM
	c.AddFunc("0 9 * * *", s.SendDailyReminders)

	c.Start()
	log.Println("Reminder scheduler started")
}

func (s *ReminderService) SendDailyReminders() {
	log.Println("Starting daily reminder processing...")

	var users []models.User
	if err := s.db.Find(&users, "is_active = ?", true).Error; err != nil {
		log.Printf("Failed to fetch users: %v", err)
		return
	}

	for _, user := range users {
		s.ProcessUserReminders(user)
	}

	log.Println("Daily reminder processing completed")
}

func (s *ReminderService) ProcessUserReminders(user models.User) {
	if user.SessionReminders {
		if err := s.sendSessionReminders(user); err != nil {
			log.Printf("User %s: session reminders failed: %v", user.ID, err)
		}
	}
	if user.ReceiptReminders {
		if err := s.sendReceiptDigest(user); err != nil {
			log.Printf("User %s: receipt digest failed: %v", user.ID, err)
		}
	}
}

// sendSessionReminders messages every client with a session scheduled
// tomorrow, rendered from the user's upcoming_session template.
func (s *ReminderService) sendSessionReminders(user models.User) error {
	template, err := s.activeTemplate(user.ID, models.ReminderTypeUpcomingSession)
	if err != nil {
		return err
	}

	loc := time.Local
	if tz, tzErr := time.LoadLocation(user.Timezone); tzErr == nil {
		loc = tz
	}
	tomorrow := utils.BeginningOfDay(time.Now().In(loc)).AddDate(0, 0, 1)
	dayAfter := tomorrow.AddDate(0, 0, 1)

	var sessions []models.Session
	if err := s.db.
		Where("user_id = ? AND status = ? AND scheduled_at >= ? AND scheduled_at < ?",
			user.ID, models.SessionStatusScheduled, tomorrow, dayAfter).
		Order("scheduled_at").
		Find(&sessions).Error; err != nil {
		return fmt.Errorf("fetch tomorrow's sessions: %w", err)
	}
	if len(sessions) == 0 {
		return nil
	}

	clients := resolveClients(s.db, user.ID, clientIDs(sessions))

	for _, session := range sessions {
		client, ok := clients[session.ClientID]
		if !ok || client.Phone == "" {
			continue
		}

		when := session.ScheduledAt.In(loc)
		message := strings.ReplaceAll(template.Message, "[ClientName]", client.Name)
		message = strings.ReplaceAll(message, "[Date]", when.Format("02.01.2006"))
		message = strings.ReplaceAll(message, "[Time]", when.Format("15:04"))

		sessionID := session.ID
		s.deliver(user, template, client.ID, &sessionID, client.Phone, message)
	}
	return nil
}

// sendReceiptDigest notifies the practitioner (not the clients) about
// how many receipts are still owed, using the same exclusion rules as
// the financial summary.
func (s *ReminderService) sendReceiptDigest(user models.User) error {
	template, err := s.activeTemplate(user.ID, models.ReminderTypeReceipt)
	if err != nil {
		return err
	}
	if user.Phone == "" {
		return nil
	}

	var unreceipted []models.Session
	if err := s.db.
		Where("user_id = ? AND paid = true AND receipt_sent = false", user.ID).
		Find(&unreceipted).Error; err != nil {
		return fmt.Errorf("fetch unreceipted sessions: %w", err)
	}

	clients := resolveClients(s.db, user.ID, clientIDs(unreceipted))
	pending := filterReceiptSessions(unreceipted, clients)
	if len(pending) == 0 {
		return nil
	}

	message := strings.ReplaceAll(template.Message, "[Count]", fmt.Sprintf("%d", len(pending)))
	s.deliver(user, template, uuid.Nil, nil, user.Phone, message)
	return nil
}

func (s *ReminderService) activeTemplate(userID uuid.UUID, reminderType string) (*models.ReminderTemplate, error) {
	var template models.ReminderTemplate
	if err := s.db.Where("user_id = ? AND type = ? AND is_active = true", userID, reminderType).
		First(&template).Error; err != nil {
		return nil, fmt.Errorf("no active %s template: %w", reminderType, err)
	}
	return &template, nil
}

// deliver sends one message via Twilio and records the attempt.
// WhatsApp is used for E.164 numbers when the user enabled it,
// otherwise plain SMS.
func (s *ReminderService) deliver(user models.User, template *models.ReminderTemplate, clientID uuid.UUID, sessionID *uuid.UUID, phone, message string) {
	channel := "sms"
	to := phone
	if user.WhatsAppNotifications && strings.HasPrefix(phone, "+") {
		to = "whatsapp:" + phone
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
		log.Printf("Failed to send message to %s: %v", phone, err)
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		log.Printf("Message sent to %s, SID: %s", phone, *resp.Sid)
	} else {
		log.Printf("Message sent to %s, but no SID returned", phone)
	}

	reminderLog := models.ReminderLog{
		UserID:       user.ID,
		ClientID:     clientID,
		SessionID:    sessionID,
		TemplateID:   template.ID,
		Type:         template.Type,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		Channel:      channel,
		SentAt:       time.Now(),
	}

	if err := s.db.Create(&reminderLog).Error; err != nil {
		log.Printf("Failed to log reminder for user %s: %v", user.ID, err)
	}
}
