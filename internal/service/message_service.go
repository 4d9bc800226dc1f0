package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/whisper-api/internal/domain/entity"
	"github.com/yourusername/whisper-api/internal/domain/repository"
	apperrors "github.com/yourusername/whisper-api/internal/pkg/errors"
)

// MessageService owns the anonymous message lifecycle: public intake plus
// owner-only listing, deletion and acceptance toggling.
type MessageService struct {
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
}

// NewMessageService creates the message service and validates its dependencies.
func NewMessageService(userRepo repository.UserRepository, messageRepo repository.MessageRepository) (*MessageService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for MessageService")
	}
	if messageRepo == nil {
		return nil, fmt.Errorf("MessageRepository is required for MessageService")
	}
	return &MessageService{
		userRepo:    userRepo,
		messageRepo: messageRepo,
	}, nil
}

// Send appends an anonymous message to the named account. This is the public
// path: no session, gated only by the account's live acceptance flag. The
// session's copy of the flag is never consulted here, so toggling takes effect
// immediately regardless of open sessions.
func (s *MessageService) Send(targetUsername, content string) (*entity.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message content is required", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByUsername(strings.TrimSpace(targetUsername))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no account with this username", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if !user.IsAcceptingMessages {
		return nil, fmt.Errorf("%w: this account is not accepting messages", ErrNotAccepting)
	}

	message := &entity.Message{
		UserID:  user.ID,
		Content: content,
	}
	if err := s.messageRepo.Append(message); err != nil {
		return nil, err
	}

	return message, nil
}

// List returns the session owner's messages newest-first. Zero messages is a
// success with an empty slice, not an error.
func (s *MessageService) List(userID uint) ([]entity.Message, error) {
	messages, err := s.messageRepo.ListByUserID(userID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []entity.Message{}
	}
	return messages, nil
}

// Delete removes one message owned by the session user. A missing id and a
// message owned by someone else are indistinguishable to the caller: not found.
func (s *MessageService) Delete(userID uint, messageID string) error {
	if strings.TrimSpace(messageID) == "" {
		return fmt.Errorf("%w: message id is required", apperrors.ErrValidation)
	}

	deleted, err := s.messageRepo.DeleteByID(userID, messageID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: message not found or already deleted", apperrors.ErrNotFound)
	}

	log.Printf("[MessageService] message %s deleted by user ID=%d", messageID, userID)
	return nil
}

// GetAcceptance re-reads the live account row; the session's flag copy may be
// stale by design.
func (s *MessageService) GetAcceptance(userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, fmt.Errorf("%w: account no longer exists", apperrors.ErrNotFound)
		}
		return false, fmt.Errorf("failed to load account: %w", err)
	}
	return user.IsAcceptingMessages, nil
}

// SetAcceptance updates the live acceptance flag.
func (s *MessageService) SetAcceptance(userID uint, accepting bool) error {
	updated, err := s.userRepo.SetAcceptingMessages(userID, accepting)
	if err != nil {
		return fmt.Errorf("failed to update acceptance flag: %w", err)
	}
	if !updated {
		return fmt.Errorf("%w: account no longer exists", apperrors.ErrNotFound)
	}
	return nil
}
