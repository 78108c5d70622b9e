package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Campaign is a lucky-draw giveaway identified by a 4-letter code.
// The IsActive flag is the sole eligibility gate; start/end dates are
// informational (a scheduled audit warns about stale active campaigns).
type Campaign struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	// Business key carried inside referral invitations and links.
	Code string `gorm:"type:varchar(4);uniqueIndex;not null" json:"code"`

	Name        string     `gorm:"not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Prizes      StringList `gorm:"type:jsonb" json:"prizes"`

	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`

	IsActive  bool   `gorm:"default:true" json:"isActive"`
	CreatedBy string `gorm:"default:'representative'" json:"createdBy"`

	gorm.Model
}

func (c *Campaign) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
