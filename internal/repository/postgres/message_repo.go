package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/whisper-api/internal/domain/entity"
)

// MessageRepo implements repository.MessageRepository on PostgreSQL.
type MessageRepo struct {
	db *gorm.DB
}

// NewMessageRepo creates a new message repository.
func NewMessageRepo(db *gorm.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Append inserts one message. A single INSERT, so concurrent sends to the same
// account cannot lose each other.
func (r *MessageRepo) Append(message *entity.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// ListByUserID returns the owner's messages newest-first. The id tiebreak
// keeps the order stable for messages created within the same instant.
func (r *MessageRepo) ListByUserID(userID uint) ([]entity.Message, error) {
	var messages []entity.Message
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// DeleteByID removes the one message matching id and owner. Scoping the WHERE
// to user_id makes another account's message look absent rather than deletable.
func (r *MessageRepo) DeleteByID(userID uint, messageID string) (bool, error) {
	result := r.db.
		Where("id = ? AND user_id = ?", messageID, userID).
		Delete(&entity.Message{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete message: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
