package dto

import (
	"time"

	"github.com/yourusername/whisper-api/internal/domain/entity"
)

// UserResponse is the public shape of an account returned to clients.
type UserResponse struct {
	ID                  uint      `json:"id"`
	Username            string    `json:"username"`
	Email               string    `json:"email"`
	IsVerified          bool      `json:"is_verified"`
	IsAcceptingMessages bool      `json:"is_accepting_messages"`
	CreatedAt           time.Time `json:"created_at"`
}

// NewUserResponse converts an entity into its response shape.
func NewUserResponse(u *entity.User) *UserResponse {
	return &UserResponse{
		ID:                  u.ID,
		Username:            u.Username,
		Email:               u.Email,
		IsVerified:          u.IsVerified,
		IsAcceptingMessages: u.IsAcceptingMessages,
		CreatedAt:           u.CreatedAt,
	}
}
