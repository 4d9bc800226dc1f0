package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/yourusername/whisper-api/internal/domain/entity"
	"github.com/yourusername/whisper-api/internal/domain/repository"
	apperrors "github.com/yourusername/whisper-api/internal/pkg/errors"
	"github.com/yourusername/whisper-api/pkg/auth"
)

const usernameTakenCacheTTL = 30 * time.Second

// AuthService owns the account lifecycle: signup with verification code issue,
// code confirmation, login and username availability.
type AuthService struct {
	userRepo        repository.UserRepository
	cacheRepo       repository.CacheRepository
	emailService    EmailService
	jwtService      *auth.JWTService
	verificationTTL time.Duration
	codePepper      string
}

// NewAuthService creates the auth service and validates its dependencies.
// cacheRepo may be nil; username availability then always hits the store.
func NewAuthService(
	userRepo repository.UserRepository,
	cacheRepo repository.CacheRepository,
	emailService EmailService,
	jwtService *auth.JWTService,
	verificationTTL time.Duration,
	codePepper string,
) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if emailService == nil {
		return nil, fmt.Errorf("EmailService is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}
	if verificationTTL <= 0 {
		verificationTTL = time.Hour
	}

	return &AuthService{
		userRepo:        userRepo,
		cacheRepo:       cacheRepo,
		emailService:    emailService,
		jwtService:      jwtService,
		verificationTTL: verificationTTL,
		codePepper:      codePepper,
	}, nil
}

// SignUpInput carries the signup payload.
type SignUpInput struct {
	Username string
	Email    string
	Password string
}

// SignUpResult reports what happened; EmailSent lets the handler soften the
// response message without failing the signup when delivery broke.
type SignUpResult struct {
	User      *entity.User
	EmailSent bool
}

// SignUp registers a new account or refreshes an abandoned unverified one.
//
// A verified owner of the username fails the call; a verified owner of the
// email fails the call; an unverified owner of the email has its row reused in
// place (new password, fresh code) so a visitor who never verified can retry
// without leaving duplicates behind. The email send failure is swallowed: the
// account mutation has already committed and must not be rolled back.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*SignUpResult, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = normalizeEmail(input.Email)

	if msgs := ValidateUsername(input.Username); len(msgs) > 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(msgs, ", "))
	}
	if len(input.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", apperrors.ErrValidation)
	}

	if _, err := s.userRepo.GetVerifiedByUsername(input.Username); err == nil {
		return nil, fmt.Errorf("%w: username is already taken", ErrUsernameTaken)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	code, err := generateVerificationCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification code: %w", err)
	}
	salt, err := generateVerificationSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification salt: %w", err)
	}
	expiresAt := time.Now().Add(s.verificationTTL)

	existing, err := s.userRepo.GetByEmail(input.Email)
	switch {
	case err == nil && existing.IsVerified:
		return nil, fmt.Errorf("%w: an account with this email already exists", ErrEmailTaken)

	case err == nil:
		// Re-signup recovery: same row, new credentials and code.
		if err := s.userRepo.ResetVerification(
			existing.ID,
			input.Password,
			hashVerificationCode(code, salt, s.codePepper),
			salt,
			expiresAt,
		); err != nil {
			return nil, fmt.Errorf("failed to refresh unverified account: %w", err)
		}
		existing.VerifyCodeExpiresAt = expiresAt
		if existing.Username != input.Username {
			log.Printf("[AuthService] re-signup for email=%s keeps existing username=%s (row ID=%d)",
				input.Email, existing.Username, existing.ID)
		}
		return &SignUpResult{
			User:      existing,
			EmailSent: s.sendCode(ctx, input.Email, existing.Username, code),
		}, nil

	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	user := &entity.User{
		Username:            input.Username,
		Email:               input.Email,
		Password:            input.Password, // hashed by the BeforeSave hook
		IsVerified:          false,
		VerifyCodeHash:      hashVerificationCode(code, salt, s.codePepper),
		VerifyCodeSalt:      salt,
		VerifyCodeExpiresAt: expiresAt,
		IsAcceptingMessages: true,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: username or email is already taken", ErrUsernameTaken)
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return &SignUpResult{
		User:      user,
		EmailSent: s.sendCode(ctx, input.Email, input.Username, code),
	}, nil
}

func (s *AuthService) sendCode(ctx context.Context, email, username, code string) bool {
	if err := s.emailService.SendVerificationEmail(ctx, email, username, code); err != nil {
		log.Printf("[AuthService] failed to send verification email to=%s: %v", email, err)
		return false
	}
	return true
}

// VerifyCode confirms the signup code for the named account. Verifying an
// already-verified account is a no-op success.
func (s *AuthService) VerifyCode(username, code string) error {
	username = strings.TrimSpace(username)
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("%w: empty verification code", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: no account with this username", apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to load account: %w", err)
	}

	if user.IsVerified {
		return nil
	}

	expectedHash := hashVerificationCode(code, user.VerifyCodeSalt, s.codePepper)
	if subtle.ConstantTimeCompare([]byte(expectedHash), []byte(user.VerifyCodeHash)) != 1 {
		return ErrCodeMismatch
	}
	if user.VerifyCodeExpired(time.Now()) {
		return ErrCodeExpired
	}

	if err := s.userRepo.MarkVerified(user.ID); err != nil {
		return fmt.Errorf("failed to mark account verified: %w", err)
	}

	log.Printf("[AuthService] account ID=%d (%s) verified", user.ID, user.Username)
	return nil
}

// LoginResult carries the signed session token plus the account it describes.
type LoginResult struct {
	User  *entity.User
	Token string
}

// Login authenticates a single identifier matched against username OR email.
// Only verified accounts may log in.
func (s *AuthService) Login(identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)

	user, err := s.userRepo.GetByIdentifier(identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no account with this username or email", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if !user.IsVerified {
		return nil, fmt.Errorf("%w: verify your email before logging in", ErrNotVerified)
	}

	if !user.CheckPassword(password) {
		log.Printf("[AuthService] bad password for account ID=%d", user.ID)
		return nil, fmt.Errorf("%w: incorrect password", apperrors.ErrUnauthorized)
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Username, user.IsVerified, user.IsAcceptingMessages)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	log.Printf("[AuthService] account ID=%d (%s) logged in", user.ID, user.Username)
	return &LoginResult{User: user, Token: token}, nil
}

// CheckUsername validates the candidate's format and reports availability.
// Only verified owners block a username; abandoned unverified signups do not
// squat names. Taken results are cached briefly to spare the store.
func (s *AuthService) CheckUsername(candidate string) (bool, error) {
	candidate = strings.TrimSpace(candidate)

	if msgs := ValidateUsername(candidate); len(msgs) > 0 {
		return false, fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(msgs, ", "))
	}

	cacheKey := "username_taken:" + candidate
	if s.cacheRepo != nil {
		if exists, err := s.cacheRepo.Exists(cacheKey); err == nil && exists {
			return false, nil
		}
	}

	_, err := s.userRepo.GetVerifiedByUsername(candidate)
	if err == nil {
		if s.cacheRepo != nil {
			if cacheErr := s.cacheRepo.Set(cacheKey, "1", usernameTakenCacheTTL); cacheErr != nil {
				log.Printf("[AuthService] failed to cache taken username: %v", cacheErr)
			}
		}
		return false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return false, fmt.Errorf("failed to check username: %w", err)
	}

	return true, nil
}

// GetUserByID returns the live account row for the given id.
func (s *AuthService) GetUserByID(userID uint) (*entity.User, error) {
	return s.userRepo.GetByID(userID)
}

func generateVerificationCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func generateVerificationSalt() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashVerificationCode(code, salt, pepper string) string {
	sum := sha256.Sum256([]byte(pepper + ":" + salt + ":" + code))
	return hex.EncodeToString(sum[:])
}

// normalizeEmail lowercases and trims the address.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
