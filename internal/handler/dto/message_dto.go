package dto

import (
	"time"

	"github.com/yourusername/whisper-api/internal/domain/entity"
)

// MessageResponse is a single inbox message. The sender is never part of it.
type MessageResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMessageResponse converts an entity into its response shape.
func NewMessageResponse(m *entity.Message) *MessageResponse {
	return &MessageResponse{
		ID:        m.ID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

// NewMessageResponses converts a list, always returning a non-nil slice so an
// empty inbox serializes as [] rather than null.
func NewMessageResponses(messages []entity.Message) []*MessageResponse {
	out := make([]*MessageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, NewMessageResponse(&messages[i]))
	}
	return out
}
