package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/whisper-api/internal/handler/dto"
	"github.com/yourusername/whisper-api/internal/handler/helper"
	"github.com/yourusername/whisper-api/internal/middleware"
	"github.com/yourusername/whisper-api/internal/service"
	"github.com/yourusername/whisper-api/pkg/auth"
)

// AuthHandler serves signup, verification, login and session endpoints.
type AuthHandler struct {
	authService *service.AuthService
	jwtService  *auth.JWTService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *service.AuthService, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtService:  jwtService,
	}
}

// SignUpRequest is the signup payload.
type SignUpRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// VerifyRequest carries the 6-digit verification code for an account.
type VerifyRequest struct {
	Username string `json:"username" binding:"required"`
	Code     string `json:"code" binding:"required"`
}

// LoginRequest authenticates by a single identifier, username or email.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// SignUp registers an account and emails a verification code.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.Fail(c, http.StatusBadRequest, "Invalid request data: "+err.Error())
		return
	}

	result, err := h.authService.SignUp(c.Request.Context(), service.SignUpInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		helper.Error(c, err)
		return
	}

	msg := "User registered successfully, please verify your email"
	if !result.EmailSent {
		msg = "User registered successfully, but the verification email could not be sent, please try again later"
	}
	helper.OK(c, http.StatusCreated, msg, gin.H{"user": dto.NewUserResponse(result.User)})
}

// VerifyCode checks the emailed code and marks the account verified.
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.Fail(c, http.StatusBadRequest, "Invalid request data: "+err.Error())
		return
	}

	if err := h.authService.VerifyCode(req.Username, req.Code); err != nil {
		helper.Error(c, err)
		return
	}
	helper.OK(c, http.StatusOK, "Account verified successfully", nil)
}

// Login authenticates a verified account and issues the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.Fail(c, http.StatusBadRequest, "Invalid request data: "+err.Error())
		return
	}

	result, err := h.authService.Login(req.Identifier, req.Password)
	if err != nil {
		helper.Error(c, err)
		return
	}

	h.jwtService.SetSessionCookie(c.Writer, result.Token)
	log.Printf("[AuthHandler] user ID=%d (%s) logged in", result.User.ID, result.User.Username)

	helper.OK(c, http.StatusOK, "Logged in successfully", gin.H{
		"user":  dto.NewUserResponse(result.User),
		"token": result.Token,
	})
}

// Logout clears the session cookie. The token itself simply expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.jwtService.ClearSessionCookie(c.Writer)
	helper.OK(c, http.StatusOK, "Logged out successfully", nil)
}

// Me returns the account behind the current session.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.OK(c, http.StatusOK, "OK", gin.H{"user": dto.NewUserResponse(user)})
}

// CheckUsername reports whether a username is free to register. Only verified
// owners make a name unavailable.
func (h *AuthHandler) CheckUsername(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		helper.Fail(c, http.StatusBadRequest, "Query parameter 'username' is required")
		return
	}

	available, err := h.authService.CheckUsername(username)
	if err != nil {
		helper.Error(c, err)
		return
	}

	if !available {
		helper.OK(c, http.StatusOK, "Username is already taken", gin.H{"available": false})
		return
	}
	helper.OK(c, http.StatusOK, "Username is available", gin.H{"available": true})
}
