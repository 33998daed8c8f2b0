package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"practicepro-backend/utils"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Email    string    `gorm:"uniqueIndex;not null"`
	Password string    `gorm:"not null"`
	Name     string    `gorm:"not null"`
	Phone    string

	PracticeName string
	Timezone     string `gorm:"default:'Europe/Moscow'"`
	WorkingHours JSONB  `gorm:"type:jsonb;default:'{}'"`

	SessionReminders      bool `gorm:"default:true"`
	ReceiptReminders      bool `gorm:"default:true"`
	WhatsAppNotifications bool `gorm:"default:false"`
	SMSNotifications      bool `gorm:"default:true"`

	Clients  []Client  `gorm:"foreignKey:UserID"`
	Sessions []Session `gorm:"foreignKey:UserID"`

	LastLogin *time.Time
	IsActive  bool `gorm:"default:true"`

	gorm.Model
}

// Initialize UUID and hash the password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	u.ID = uuid.New()
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}

// Custom JSONB type for working hours
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &j)
}
