package repository

import (
	"time"

	"github.com/yourusername/whisper-api/internal/domain/entity"
)

// UserRepository defines persistence for accounts.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	// GetByIdentifier matches the same single value against username OR email.
	GetByIdentifier(identifier string) (*entity.User, error)
	// GetVerifiedByUsername returns only a verified owner of the username;
	// abandoned unverified signups do not count.
	GetVerifiedByUsername(username string) (*entity.User, error)
	Update(user *entity.User) error
	// ResetVerification overwrites the password and verification code fields on
	// an existing unverified row in place (the re-signup recovery path). The
	// password is hashed inside the repository.
	ResetVerification(userID uint, newPassword, codeHash, codeSalt string, expiresAt time.Time) error
	MarkVerified(userID uint) error
	// SetAcceptingMessages flips the acceptance flag in a single statement and
	// reports whether a row was actually updated.
	SetAcceptingMessages(userID uint, accepting bool) (bool, error)
}
