package service

import "errors"

// Flow-specific errors used by handlers for stable status mapping.
var (
	ErrUsernameTaken = errors.New("username_taken")
	ErrEmailTaken    = errors.New("email_taken")
	ErrNotVerified   = errors.New("account_not_verified")
	ErrCodeExpired   = errors.New("verification_code_expired")
	ErrCodeMismatch  = errors.New("verification_code_mismatch")
	ErrNotAccepting  = errors.New("not_accepting_messages")
)
