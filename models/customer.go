package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer type discriminator used by the intent router's override rule.
const (
	CustomerTypeB2B = "B2B"
	CustomerTypeD2C = "D2C"
)

type Customer struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	// Normalized phone number (digits only) is the business key.
	PhoneNumber string `gorm:"uniqueIndex;not null" json:"phoneNumber"`

	Name        string `json:"name"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	CompanyName string `json:"companyName"`

	CustomerType string `gorm:"type:varchar(10);default:'D2C'" json:"customerType"`

	Socials        StringList `gorm:"type:jsonb" json:"socials"`
	InterestGroups StringList `gorm:"type:jsonb" json:"interestGroups"`
	Tags           StringList `gorm:"type:jsonb" json:"tags"`

	TotalSpend       float64 `gorm:"type:decimal(12,2);default:0.0" json:"totalSpend"`
	EscalationStatus bool    `gorm:"default:false" json:"escalationStatus"`
	IsActive         bool    `gorm:"default:true" json:"isActive"`

	gorm.Model
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
