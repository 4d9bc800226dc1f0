package postgres

import (
	"errors"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yourusername/whisper-api/internal/domain/entity"
	apperrors "github.com/yourusername/whisper-api/internal/pkg/errors"
)

// UserRepo implements repository.UserRepository on PostgreSQL.
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a new user repository.
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new account row.
func (r *UserRepo) Create(user *entity.User) error {
	err := r.db.Create(user).Error
	if err != nil && isUniqueViolation(err) {
		return apperrors.ErrConflict
	}
	return err
}

// GetByID returns the account with the given id.
func (r *UserRepo) GetByID(id uint) (*entity.User, error) {
	var user entity.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername returns the account owning the username.
func (r *UserRepo) GetByUsername(username string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns the account owning the email.
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByIdentifier matches the same value against username OR email. Both
// columns are compared to the one identifier; no cross-matching of two values.
func (r *UserRepo) GetByIdentifier(identifier string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("username = ? OR email = ?", identifier, identifier).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetVerifiedByUsername returns the username's owner only when verified.
func (r *UserRepo) GetVerifiedByUsername(username string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("username = ? AND is_verified = ?", username, true).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update saves the full account row.
func (r *UserRepo) Update(user *entity.User) error {
	return r.db.Save(user).Error
}

// ResetVerification reuses an existing unverified row for a repeated signup:
// new password hash, fresh code hash/salt and expiry. Hashing happens here and
// the update is a direct statement, bypassing the BeforeSave hook so the hash
// cannot be hashed twice.
func (r *UserRepo) ResetVerification(userID uint, newPassword, codeHash, codeSalt string, expiresAt time.Time) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[UserRepo.ResetVerification] failed to hash password for user ID=%d: %v", userID, err)
		return err
	}

	result := r.db.Model(&entity.User{}).
		Where("id = ? AND is_verified = ?", userID, false).
		Updates(map[string]interface{}{
			"password":               string(hashedPassword),
			"verify_code_hash":       codeHash,
			"verify_code_salt":       codeSalt,
			"verify_code_expires_at": expiresAt,
			"updated_at":             time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkVerified flips the account to verified and clears the code fields.
func (r *UserRepo) MarkVerified(userID uint) error {
	result := r.db.Model(&entity.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_verified":      true,
			"verify_code_hash": "",
			"verify_code_salt": "",
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetAcceptingMessages toggles the acceptance flag in a single UPDATE so
// concurrent toggles cannot lose writes. Returns whether a row matched.
func (r *UserRepo) SetAcceptingMessages(userID uint, accepting bool) (bool, error) {
	result := r.db.Model(&entity.User{}).
		Where("id = ?", userID).
		Update("is_accepting_messages", accepting)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// isUniqueViolation checks the Postgres unique violation (23505) for both the
// pgconn and lib/pq drivers.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}
