package repository

import (
	"errors"
	"time"

	"boostbot-backend/models"

	"gorm.io/gorm"
)

type CampaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

func (r *CampaignRepository) Create(campaign *models.Campaign) error {
	return r.db.Create(campaign).Error
}

func (r *CampaignRepository) GetByCode(code string) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.db.Where("code = ?", code).First(&campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

func (r *CampaignRepository) List() ([]models.Campaign, error) {
	var campaigns []models.Campaign
	if err := r.db.Order("created_at DESC").Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

// Active returns the campaigns currently accepting referrals. The flag
// is the sole gate; dates are not consulted here.
func (r *CampaignRepository) Active() ([]models.Campaign, error) {
	var campaigns []models.Campaign
	if err := r.db.Where("is_active = ?", true).Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (r *CampaignRepository) Update(code string, updates map[string]interface{}) error {
	result := r.db.Model(&models.Campaign{}).Where("code = ?", code).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CampaignRepository) Delete(code string) error {
	result := r.db.Where("code = ?", code).Delete(&models.Campaign{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// StaleActive lists campaigns still flagged active after their end date.
// The flag stays authoritative; these are surfaced for operators only.
func (r *CampaignRepository) StaleActive(now time.Time) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := r.db.Where("is_active = ? AND end_date < ?", true, now).Find(&campaigns).Error
	return campaigns, err
}
