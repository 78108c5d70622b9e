package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SenderCustomer       = "customer"
	SenderAgent          = "agent"
	SenderRepresentative = "representative"
)

// ChatMessage is one entry in the append-only conversation ledger.
// Messages are never updated after insert; ordering is by SentAt.
type ChatMessage struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PhoneNumber string    `gorm:"index;not null" json:"phoneNumber"`
	Sender      string    `gorm:"type:varchar(20);not null" json:"sender"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	ContentType string    `gorm:"type:varchar(20);default:'text'" json:"contentType"`
	SentAt      time.Time `gorm:"index;not null" json:"sentAt"`

	gorm.Model
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
