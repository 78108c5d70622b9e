package repository

import (
	"boostbot-backend/models"

	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Append inserts one message row. The ledger is append-only: there is no
// update path, so concurrent writers for different customers never
// contend on a shared record.
func (r *ChatRepository) Append(message *models.ChatMessage) error {
	return r.db.Create(message).Error
}

// Recent returns the last limit messages for a phone number in
// chronological order (oldest first).
func (r *ChatRepository) Recent(phone string, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := r.db.Where("phone_number = ?", phone).
		Order("sent_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	// Reverse into chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *ChatRepository) CountByPhone(phone string) (int64, error) {
	var count int64
	err := r.db.Model(&models.ChatMessage{}).Where("phone_number = ?", phone).Count(&count).Error
	return count, err
}

// Phones lists the distinct phone numbers that have a conversation,
// most recently active first.
func (r *ChatRepository) Phones() ([]string, error) {
	var phones []string
	err := r.db.Model(&models.ChatMessage{}).
		Select("phone_number").
		Group("phone_number").
		Order("MAX(sent_at) DESC").
		Pluck("phone_number", &phones).Error
	return phones, err
}
