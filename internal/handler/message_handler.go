package handler

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/whisper-api/internal/handler/dto"
	"github.com/yourusername/whisper-api/internal/handler/helper"
	"github.com/yourusername/whisper-api/internal/middleware"
	"github.com/yourusername/whisper-api/internal/service"
)

// MessageHandler serves the anonymous intake endpoint and the owner's inbox.
type MessageHandler struct {
	messageService *service.MessageService
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// SendMessageRequest is the anonymous intake payload.
type SendMessageRequest struct {
	Username string `json:"username" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

// AcceptMessagesRequest toggles whether the account receives new messages.
type AcceptMessagesRequest struct {
	AcceptMessages *bool `json:"accept_messages" binding:"required"`
}

// Send stores an anonymous message for the named recipient. No session is
// required and nothing about the sender is recorded.
func (h *MessageHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.Fail(c, http.StatusBadRequest, "Invalid request data: "+err.Error())
		return
	}

	msg, err := h.messageService.Send(req.Username, req.Content)
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.OK(c, http.StatusCreated, "Message sent successfully", gin.H{
		"data": dto.NewMessageResponse(msg),
	})
}

// List returns the caller's inbox, newest first. An empty inbox is a success
// with an empty list.
func (h *MessageHandler) List(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	messages, err := h.messageService.List(userID)
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.OK(c, http.StatusOK, "Messages retrieved successfully", gin.H{
		"messages": dto.NewMessageResponses(messages),
	})
}

// Delete removes one message from the caller's own inbox.
func (h *MessageHandler) Delete(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)
	messageID := c.GetString(middleware.ContextMessageID)

	if err := h.messageService.Delete(userID, messageID); err != nil {
		helper.Error(c, err)
		return
	}
	helper.OK(c, http.StatusOK, "Message deleted successfully", nil)
}

// GetAcceptance reports the live acceptance flag from the account row, not
// from the session token, so a toggle in another session is visible at once.
func (h *MessageHandler) GetAcceptance(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	accepting, err := h.messageService.GetAcceptance(userID)
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.OK(c, http.StatusOK, "Acceptance status retrieved", gin.H{
		"is_accepting_messages": accepting,
	})
}

// SetAcceptance flips the acceptance flag for the caller's account.
func (h *MessageHandler) SetAcceptance(c *gin.Context) {
	var req AcceptMessagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.Fail(c, http.StatusBadRequest, "Invalid request data: "+err.Error())
		return
	}

	userID := c.GetUint(middleware.ContextUserID)
	if err := h.messageService.SetAcceptance(userID, *req.AcceptMessages); err != nil {
		helper.Error(c, err)
		return
	}
	helper.OK(c, http.StatusOK, "Acceptance status updated", gin.H{
		"is_accepting_messages": *req.AcceptMessages,
	})
}

// Export streams the caller's inbox as an xlsx attachment.
func (h *MessageHandler) Export(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)
	username := c.GetString(middleware.ContextUsername)

	messages, err := h.messageService.List(userID)
	if err != nil {
		helper.Error(c, err)
		return
	}

	filename := fmt.Sprintf("messages_%s_%s", username, time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Messages"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[MessageHandler] failed to create stream writer: %v", err)
		helper.Fail(c, http.StatusInternalServerError, "Failed to create export file")
		return
	}

	headers := []interface{}{"#", "Received At", "Message"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[MessageHandler] failed to write export headers: %v", err)
	}

	for i := range messages {
		m := &messages[i]
		rowNum := i + 2
		cell := fmt.Sprintf("A%d", rowNum)
		row := []interface{}{i + 1, m.CreatedAt.Format(time.RFC3339), sanitizeForExcel(m.Content)}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[MessageHandler] failed to write export row %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[MessageHandler] failed to flush export: %v", err)
	}
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[MessageHandler] failed to write export to response: %v", err)
	}
}

// sanitizeForExcel guards exported cells against formula injection.
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
