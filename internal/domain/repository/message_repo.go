package repository

import (
	"github.com/yourusername/whisper-api/internal/domain/entity"
)

// MessageRepository defines persistence for anonymous messages.
// Append and DeleteByID must each be a single atomic statement so concurrent
// calls against the same account cannot partially interleave.
type MessageRepository interface {
	Append(message *entity.Message) error
	// ListByUserID returns the owner's messages newest-first.
	ListByUserID(userID uint) ([]entity.Message, error)
	// DeleteByID removes at most one message, scoped to the owning user, and
	// reports whether a row was deleted.
	DeleteByID(userID uint, messageID string) (bool, error)
}
