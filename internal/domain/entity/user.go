package entity

import (
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is an account that can receive anonymous messages once verified.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email    string `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password string `gorm:"size:100;not null" json:"-"`

	// Verification state. The 6-digit code is never stored in plain text;
	// only its salted hash lives in the row.
	IsVerified          bool      `gorm:"not null;default:false" json:"is_verified"`
	VerifyCodeHash      string    `gorm:"size:64;not null;default:''" json:"-"`
	VerifyCodeSalt      string    `gorm:"size:64;not null;default:''" json:"-"`
	VerifyCodeExpiresAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`

	IsAcceptingMessages bool `gorm:"not null;default:true" json:"is_accepting_messages"`

	Messages []Message `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for GORM.
func (User) TableName() string {
	return "users"
}

// BeforeSave hashes the password unless it is already a bcrypt hash.
// The prefix check prevents double hashing when a loaded row is saved back.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if len(u.Password) > 0 && !strings.HasPrefix(u.Password, "$2a$") &&
		!strings.HasPrefix(u.Password, "$2b$") && !strings.HasPrefix(u.Password, "$2y$") {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[User.BeforeSave] failed to hash password for email=%s: %v", u.Email, err)
			return err
		}
		u.Password = string(hashedPassword)
	}
	return nil
}

// CheckPassword reports whether the given password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// VerifyCodeExpired reports whether the current verification code is past its expiry.
func (u *User) VerifyCodeExpired(now time.Time) bool {
	return now.After(u.VerifyCodeExpiresAt)
}
