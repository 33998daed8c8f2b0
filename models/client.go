package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment types determine whether a client is owed a receipt.
const (
	PaymentTypeSelfEmployed = "self-employed"
	PaymentTypeIP           = "ip"
	PaymentTypeCash         = "cash"
	PaymentTypePlatform     = "platform"
)

// Recurrence preferences drive the next-session proposal.
const (
	RecurrenceWeekly      = "1x/week"
	RecurrenceBiweekly    = "1x/2weeks"
	RecurrenceTwiceWeekly = "2x/week"
	RecurrenceFlexible    = "flexible"
)

type Client struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_phone,priority:1"`

	Name  string `gorm:"not null"`
	Phone string `gorm:"not null;uniqueIndex:idx_user_phone,priority:2"`
	Email string

	PaymentType string `gorm:"type:varchar(20);default:'cash'"`
	NeedReceipt bool   `gorm:"default:true"`
	Recurrence  string `gorm:"type:varchar(20);default:'flexible'"`

	Notes     string
	LastVisit *time.Time
	IsActive  bool `gorm:"default:true"`

	Sessions []Session `gorm:"foreignKey:ClientID"`

	gorm.Model
}

func (c *Client) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
