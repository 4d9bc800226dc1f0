package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestGinContext builds a *gin.Context with an optional JSON body.
func newTestGinContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()

	var req *http.Request
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, path, bytes.NewReader(bodyBytes))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "response body should be valid JSON: %s", w.Body.String())
	return resp
}

// Validation failures are rejected before any service is touched, so nil
// services are fine here.

func TestSignUp_ValidationErrors(t *testing.T) {
	h := &AuthHandler{}

	tests := []struct {
		name string
		body interface{}
	}{
		{"empty body", nil},
		{"missing username", map[string]string{"email": "a@b.com", "password": "secret123"}},
		{"missing email", map[string]string{"username": "alice", "password": "secret123"}},
		{"malformed email", map[string]string{"username": "alice", "email": "not-an-email", "password": "secret123"}},
		{"short password", map[string]string{"username": "alice", "email": "a@b.com", "password": "123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(http.MethodPost, "/api/auth/sign-up", tt.body)
			h.SignUp(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, false, resp["success"])
		})
	}
}

func TestVerifyCode_ValidationErrors(t *testing.T) {
	h := &AuthHandler{}

	tests := []struct {
		name string
		body interface{}
	}{
		{"empty body", nil},
		{"missing code", map[string]string{"username": "alice"}},
		{"missing username", map[string]string{"code": "123456"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(http.MethodPost, "/api/auth/verify", tt.body)
			h.VerifyCode(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestLogin_ValidationErrors(t *testing.T) {
	h := &AuthHandler{}

	tests := []struct {
		name string
		body interface{}
	}{
		{"empty body", nil},
		{"missing identifier", map[string]string{"password": "secret123"}},
		{"missing password", map[string]string{"identifier": "alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(http.MethodPost, "/api/auth/login", tt.body)
			h.Login(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCheckUsername_MissingQueryParam(t *testing.T) {
	h := &AuthHandler{}

	c, w := newTestGinContext(http.MethodGet, "/api/auth/check-username", nil)
	h.CheckUsername(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, false, resp["success"])
}

func TestSendMessage_ValidationErrors(t *testing.T) {
	h := &MessageHandler{}

	tests := []struct {
		name string
		body interface{}
	}{
		{"empty body", nil},
		{"missing username", map[string]string{"content": "hi"}},
		{"missing content", map[string]string{"username": "alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(http.MethodPost, "/api/messages/send", tt.body)
			h.Send(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, false, resp["success"])
		})
	}
}

func TestSetAcceptance_ValidationErrors(t *testing.T) {
	h := &MessageHandler{}

	tests := []struct {
		name string
		body interface{}
	}{
		{"empty body", nil},
		{"missing flag", map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(http.MethodPost, "/api/accept-messages", tt.body)
			h.SetAcceptance(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestSetAcceptance_AcceptsExplicitFalse(t *testing.T) {
	// A pointer field distinguishes "false" from "absent"; binding must not
	// reject an explicit false.
	var req AcceptMessagesRequest
	body := []byte(`{"accept_messages": false}`)
	httpReq, _ := http.NewRequest(http.MethodPost, "/api/accept-messages", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httpReq

	err := c.ShouldBindJSON(&req)

	require.NoError(t, err)
	require.NotNil(t, req.AcceptMessages)
	assert.False(t, *req.AcceptMessages)
}
