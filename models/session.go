package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SessionStatusScheduled = "scheduled"
	SessionStatusCompleted = "completed"
	SessionStatusCancelled = "cancelled"
)

// Session is one appointment between the practitioner and a client.
// Price is stored in integer minor units. Note holds an opaque
// ciphertext blob encrypted on the client side; the backend never
// interprets it.
type Session struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID   uuid.UUID `gorm:"type:uuid;index;not null"`
	ClientID uuid.UUID `gorm:"type:uuid;index;not null"`

	SessionNumber   int       `gorm:"not null"`
	ScheduledAt     time.Time `gorm:"index;not null"`
	DurationMinutes int       `gorm:"default:50"`
	Status          string    `gorm:"type:varchar(20);default:'scheduled'"`

	Price         int64 `gorm:"not null"`
	Paid          bool  `gorm:"default:false"`
	PaymentMethod *string
	PaidAt        *time.Time
	ReceiptSent   bool `gorm:"default:false"`
	ReceiptSentAt *time.Time

	CompletedAt *time.Time
	CancelledAt *time.Time

	Note string `gorm:"type:text"`

	gorm.Model
}

func (s *Session) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
