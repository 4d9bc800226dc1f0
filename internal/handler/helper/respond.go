package helper

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/whisper-api/internal/pkg/errors"
	"github.com/yourusername/whisper-api/internal/service"
)

// OK writes a success envelope with optional extra payload fields.
func OK(c *gin.Context, status int, message string, extra gin.H) {
	body := gin.H{"success": true, "message": message}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

// Fail writes a failure envelope with the given status and message.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// Error maps a service error to an HTTP status and writes the failure envelope.
// Unrecognized errors are logged and reported as a generic 500 so internal
// details never leak to the client.
func Error(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUsernameTaken):
		Fail(c, http.StatusConflict, "Username is already taken")
	case errors.Is(err, service.ErrEmailTaken):
		Fail(c, http.StatusConflict, "User already exists with this email")
	case errors.Is(err, service.ErrNotVerified):
		Fail(c, http.StatusUnauthorized, "Account is not verified")
	case errors.Is(err, service.ErrCodeExpired):
		Fail(c, http.StatusBadRequest, "Verification code has expired, please sign up again to get a new code")
	case errors.Is(err, service.ErrCodeMismatch):
		Fail(c, http.StatusBadRequest, "Incorrect verification code")
	case errors.Is(err, service.ErrNotAccepting):
		Fail(c, http.StatusForbidden, "User is not accepting messages")
	case errors.Is(err, apperrors.ErrValidation):
		Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrUnauthorized):
		Fail(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, apperrors.ErrForbidden):
		Fail(c, http.StatusForbidden, "Forbidden")
	case errors.Is(err, apperrors.ErrNotFound):
		Fail(c, http.StatusNotFound, "Not found")
	case errors.Is(err, apperrors.ErrConflict):
		Fail(c, http.StatusConflict, "Conflict")
	default:
		log.Printf("[Handler] Internal error: %v", err)
		Fail(c, http.StatusInternalServerError, "Internal server error")
	}
}
