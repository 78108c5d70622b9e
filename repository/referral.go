package repository

import (
	"errors"
	"time"

	"boostbot-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

func (r *ReferralRepository) GetByCode(code string) (*models.Referral, error) {
	var referral models.Referral
	err := r.db.Preload("ReferredUsers").Preload("Points").
		Where("referral_code = ?", code).
		First(&referral).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &referral, nil
}

func (r *ReferralRepository) GetByPhone(phone string) (*models.Referral, error) {
	var referral models.Referral
	err := r.db.Preload("ReferredUsers").Preload("Points").
		Where("referrer_phone = ?", phone).
		First(&referral).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &referral, nil
}

func (r *ReferralRepository) Create(referral *models.Referral) error {
	return r.db.Create(referral).Error
}

// AddReferredUser records one credited referral event. The insert is
// conditional on the (referral, phone, campaign) unique index: a
// duplicate insert is a silent no-op and the returned bool is false.
// Idempotency is therefore a storage guarantee, not a read-then-write
// check in the caller.
func (r *ReferralRepository) AddReferredUser(referralID uuid.UUID, phone, campaignCode string) (bool, error) {
	entry := models.ReferredUser{
		ID:           uuid.New(),
		ReferralID:   referralID,
		PhoneNumber:  phone,
		CampaignCode: campaignCode,
		ReferredAt:   time.Now(),
	}
	result := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "referral_id"},
			{Name: "phone_number"},
			{Name: "campaign_code"},
		},
		DoNothing: true,
	}).Create(&entry)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IncrementPoints adds one point for the campaign, creating the row on
// first credit. Callers must only invoke this when AddReferredUser
// reported an actual insert, which keeps the aggregate equal to the
// referred-user count.
func (r *ReferralRepository) IncrementPoints(referralID uuid.UUID, campaignCode string) error {
	row := models.CampaignPoints{
		ID:           uuid.New(),
		ReferralID:   referralID,
		CampaignCode: campaignCode,
		Points:       1,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "referral_id"},
			{Name: "campaign_code"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"points": gorm.Expr("campaign_points.points + 1"),
		}),
	}).Create(&row).Error
}

// EnsurePointsEntry seeds a zero-point row for a campaign if the
// referrer has none yet.
func (r *ReferralRepository) EnsurePointsEntry(referralID uuid.UUID, campaignCode string) error {
	row := models.CampaignPoints{
		ID:           uuid.New(),
		ReferralID:   referralID,
		CampaignCode: campaignCode,
		Points:       0,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "referral_id"},
			{Name: "campaign_code"},
		},
		DoNothing: true,
	}).Create(&row).Error
}

// LeaderboardEntry is one row of the per-campaign referrer ranking.
type LeaderboardEntry struct {
	ReferrerPhone string `json:"referrerPhone"`
	ReferrerName  string `json:"referrerName"`
	ReferralCode  string `json:"referralCode"`
	Points        int    `json:"points"`
}

func (r *ReferralRepository) Leaderboard(campaignCode string, limit int) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	err := r.db.Model(&models.CampaignPoints{}).
		Select("referrals.referrer_phone, referrals.referrer_name, referrals.referral_code, campaign_points.points").
		Joins("JOIN referrals ON referrals.id = campaign_points.referral_id").
		Where("campaign_points.campaign_code = ?", campaignCode).
		Order("campaign_points.points DESC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}

// PointsMismatch reports a (referrer, campaign) pair whose stored
// aggregate disagrees with the count of credited referral events.
type PointsMismatch struct {
	ReferralCode string
	CampaignCode string
	Points       int
	Credited     int
}

// PointsMismatches cross-checks the points aggregate against the
// referred-user ledger. Under the conditional-insert crediting path the
// result is always empty; a non-empty result means operator attention.
func (r *ReferralRepository) PointsMismatches() ([]PointsMismatch, error) {
	var mismatches []PointsMismatch
	err := r.db.Model(&models.CampaignPoints{}).
		Select(`referrals.referral_code,
			campaign_points.campaign_code,
			campaign_points.points,
			COUNT(referred_users.id) AS credited`).
		Joins("JOIN referrals ON referrals.id = campaign_points.referral_id").
		Joins(`LEFT JOIN referred_users
			ON referred_users.referral_id = campaign_points.referral_id
			AND referred_users.campaign_code = campaign_points.campaign_code
			AND referred_users.deleted_at IS NULL`).
		Group("referrals.referral_code, campaign_points.campaign_code, campaign_points.points").
		Having("campaign_points.points <> COUNT(referred_users.id)").
		Scan(&mismatches).Error
	return mismatches, err
}
