// models/reminder_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReminderLog struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	UserID       uuid.UUID  `gorm:"type:uuid;index;not null"`
	ClientID     uuid.UUID  `gorm:"type:uuid;index"`
	SessionID    *uuid.UUID `gorm:"type:uuid;index"`
	TemplateID   uuid.UUID  `gorm:"type:uuid;index"`
	Type         string     `gorm:"type:varchar(20)"` // upcoming_session, receipt
	Message      string     `gorm:"type:text"`
	Status       string     `gorm:"type:varchar(20)"` // sent, failed
	ErrorMessage string     `gorm:"type:text"`
	Channel      string     `gorm:"type:varchar(20)"` // whatsapp, sms
	SentAt       time.Time
	gorm.Model
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	r.ID = uuid.New()
	return
}
