package repository

import (
	"errors"

	"boostbot-backend/models"

	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) GetByPhone(phone string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.Where("phone_number = ?", phone).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepository) Create(customer *models.Customer) error {
	return r.db.Create(customer).Error
}

// pruneEmpty drops nil, empty-string and empty-list values from an
// update map, so a merge can never erase data already on record.
func pruneEmpty(updates map[string]interface{}) map[string]interface{} {
	clean := make(map[string]interface{}, len(updates))
	for k, v := range updates {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			if val == "" {
				continue
			}
		case []string:
			if len(val) == 0 {
				continue
			}
			v = models.StringList(val)
		case models.StringList:
			if len(val) == 0 {
				continue
			}
		}
		clean[k] = v
	}
	return clean
}

// Merge applies a non-destructive attribute update: empty values are
// dropped before the write. The update is field-level, not a
// full-record write-back.
func (r *CustomerRepository) Merge(phone string, updates map[string]interface{}) error {
	clean := pruneEmpty(updates)
	if len(clean) == 0 {
		return nil
	}
	return r.db.Model(&models.Customer{}).Where("phone_number = ?", phone).Updates(clean).Error
}

func (r *CustomerRepository) SetEscalation(phone string, escalated bool) error {
	return r.db.Model(&models.Customer{}).
		Where("phone_number = ?", phone).
		Update("escalation_status", escalated).Error
}

func (r *CustomerRepository) IsEscalated(phone string) (bool, error) {
	var customer models.Customer
	err := r.db.Select("escalation_status").Where("phone_number = ?", phone).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return customer.EscalationStatus, nil
}

func (r *CustomerRepository) List(limit, offset int) ([]models.Customer, error) {
	var customers []models.Customer
	query := r.db.Order("created_at DESC").Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *CustomerRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Customer{}).Count(&count).Error
	return count, err
}

func (r *CustomerRepository) Delete(phone string) error {
	result := r.db.Where("phone_number = ?", phone).Delete(&models.Customer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UniqueTags collects the distinct tags across all customers.
func (r *CustomerRepository) UniqueTags() ([]string, error) {
	var customers []models.Customer
	if err := r.db.Select("tags").Find(&customers).Error; err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var tags []string
	for _, customer := range customers {
		for _, tag := range customer.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags, nil
}
