package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Referral is the per-referrer ledger record. There is at most one per
// phone number, and the 6-letter code is globally unique and immutable.
type Referral struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	ReferrerPhone string `gorm:"uniqueIndex;not null" json:"referrerPhone"`
	ReferrerName  string `json:"referrerName"`
	ReferrerEmail string `json:"referrerEmail"`

	ReferralCode string `gorm:"type:varchar(6);uniqueIndex;not null" json:"referralCode"`

	ReferredUsers []ReferredUser   `gorm:"foreignKey:ReferralID" json:"referredUsers"`
	Points        []CampaignPoints `gorm:"foreignKey:ReferralID" json:"totalPoints"`

	gorm.Model
}

func (r *Referral) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

// ReferredUser is one successfully credited referral event. The composite
// unique index is the anti-double-credit guarantee: a (referral, phone,
// campaign) triple can be inserted at most once.
type ReferredUser struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ReferralID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_referral_phone_campaign,priority:1;not null" json:"referralId"`
	PhoneNumber  string    `gorm:"uniqueIndex:idx_referral_phone_campaign,priority:2;not null" json:"phoneNumber"`
	CampaignCode string    `gorm:"type:varchar(4);uniqueIndex:idx_referral_phone_campaign,priority:3;not null" json:"campaignId"`
	ReferredAt   time.Time `gorm:"not null" json:"timestamp"`

	gorm.Model
}

// CampaignPoints aggregates one referrer's points within one campaign.
// Points must always equal the count of ReferredUser rows for the same
// (referral, campaign) pair; the increment is tied to the insert.
type CampaignPoints struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ReferralID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_referral_campaign,priority:1;not null" json:"referralId"`
	CampaignCode string    `gorm:"type:varchar(4);uniqueIndex:idx_referral_campaign,priority:2;not null" json:"campaignId"`
	Points       int       `gorm:"default:0" json:"points"`

	gorm.Model
}
