package helper

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/yourusername/whisper-api/internal/pkg/errors"
	"github.com/yourusername/whisper-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", fmt.Errorf("%w: bad input", apperrors.ErrValidation), http.StatusBadRequest},
		{"code mismatch", service.ErrCodeMismatch, http.StatusBadRequest},
		{"code expired", service.ErrCodeExpired, http.StatusBadRequest},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{"not verified", service.ErrNotVerified, http.StatusUnauthorized},
		{"not accepting", service.ErrNotAccepting, http.StatusForbidden},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden},
		{"not found", apperrors.ErrNotFound, http.StatusNotFound},
		{"username taken", service.ErrUsernameTaken, http.StatusConflict},
		{"email taken", service.ErrEmailTaken, http.StatusConflict},
		{"conflict", apperrors.ErrConflict, http.StatusConflict},
		{"wrapped not found", fmt.Errorf("%w: nothing here", apperrors.ErrNotFound), http.StatusNotFound},
		{"unknown error", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Error(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}
