package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAndParse(t *testing.T) {
	svc, err := NewJWTService("test-secret-key", 24)
	require.NoError(t, err)

	token, err := svc.GenerateToken(42, "alice", true, false)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.IsVerified)
	assert.False(t, claims.IsAcceptingMessages)
}

func TestJWTService_ParseRejectsWrongSecret(t *testing.T) {
	issuer, err := NewJWTService("secret-one", 24)
	require.NoError(t, err)
	verifier, err := NewJWTService("secret-two", 24)
	require.NoError(t, err)

	token, err := issuer.GenerateToken(1, "alice", true, true)
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestJWTService_ParseRejectsGarbage(t *testing.T) {
	svc, err := NewJWTService("test-secret-key", 24)
	require.NoError(t, err)

	_, err = svc.ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService("", 24)
	assert.Error(t, err)
}

func TestJWTService_TokenFromRequest_Cookie(t *testing.T) {
	svc, err := NewJWTService("test-secret-key", 24)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-token"})

	token, err := svc.TokenFromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "cookie-token", token)
}

func TestJWTService_TokenFromRequest_BearerFallback(t *testing.T) {
	svc, err := NewJWTService("test-secret-key", 24)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer header-token")

	token, err := svc.TokenFromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "header-token", token)
}

func TestJWTService_TokenFromRequest_Missing(t *testing.T) {
	svc, err := NewJWTService("test-secret-key", 24)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err = svc.TokenFromRequest(req)
	assert.Error(t, err)
}

func TestJWTService_SessionCookieRoundTrip(t *testing.T) {
	svc, err := NewJWTService("test-secret-key", 24)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	svc.SetSessionCookie(w, "some-token")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, "some-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	w = httptest.NewRecorder()
	svc.ClearSessionCookie(w)
	cookies = w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Less(t, cookies[0].MaxAge, 0, "clearing must expire the cookie")
}
