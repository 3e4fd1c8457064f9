// Chat HTTP handlers.
//
// This file exposes REST endpoints for per-job conversations:
//   - GET    /chats                     (list the user's conversations)
//   - GET    /chats/unread-count        (total unread across conversations)
//   - GET    /chats/{jobId}             (one conversation with its messages)
//   - POST   /chats/{jobId}/messages    (send a message)
//   - POST   /chats/{jobId}/read        (mark incoming messages read)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses. Sending a message also notifies
// the other participant through the notification feed.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/homefix/go-homefix-backend/internal/domain"
	"github.com/homefix/go-homefix-backend/internal/services"
)

// ChatService defines conversation operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ChatService interface {
	// SendMessage appends a message, creating the conversation on first use.
	SendMessage(ctx context.Context, jobID, senderID, senderName, senderRole, text string) (*domain.ChatMessage, error)
	// GetConversation returns the job's thread with all messages.
	GetConversation(ctx context.Context, jobID string) (*domain.ChatConversation, error)
	// ListConversations returns the user's threads, most recent first.
	ListConversations(ctx context.Context, userID string) ([]domain.ChatConversation, error)
	// MarkMessagesAsRead flags messages from other senders as read.
	MarkMessagesAsRead(ctx context.Context, jobID, readerID string) error
	// UnreadCount totals unread incoming messages across all threads.
	UnreadCount(ctx context.Context, readerID string) (int64, error)
}

//
// DTOs
//

// SendMessageRequest is the JSON payload for sending a chat message.
type SendMessageRequest struct {
	SenderName string `json:"sender_name" binding:"required"`
	SenderRole string `json:"sender_role" binding:"required"`
	Text       string `json:"text" binding:"required"`
}

// UnreadCountResponse reports an unread tally.
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

//
// Handlers
//

// ListConversations returns the acting user's conversations, most recently
// active first.
func (h *Handlers) ListConversations(c *gin.Context) {
	convs, err := h.chatSvc.ListConversations(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, convs)
}

// GetConversation returns one job's thread with its messages in send order.
func (h *Handlers) GetConversation(c *gin.Context) {
	jobID := c.Param("jobId")
	if _, err := uuid.Parse(jobID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "job id must be a UUID")
		return
	}

	conv, err := h.chatSvc.GetConversation(c.Request.Context(), jobID)
	if err != nil {
		h.failChat(c, err)
		return
	}
	ok(c, http.StatusOK, conv)
}

// SendMessage appends a message to the job's thread, creating it on first
// contact, and notifies the other participant.
func (h *Handlers) SendMessage(c *gin.Context) {
	jobID := c.Param("jobId")
	if _, err := uuid.Parse(jobID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "job id must be a UUID")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	ctx := c.Request.Context()
	sender := userID(c)
	msg, err := h.chatSvc.SendMessage(ctx, jobID, sender, req.SenderName, req.SenderRole, req.Text)
	if err != nil {
		h.failChat(c, err)
		return
	}

	// Best effort: tell the other participant, when their slot is known.
	if conv, cerr := h.chatSvc.GetConversation(ctx, jobID); cerr == nil {
		recipient := conv.ClientID
		if msg.SenderRole == domain.RoleClient {
			recipient = conv.FixerID
		}
		if recipient != "" && recipient != sender {
			h.notify(c, h.notifier.NotifyNewMessage(ctx, recipient, jobID, conv.JobTitle, msg.SenderName))
		}
	}

	ok(c, http.StatusCreated, msg)
}

// MarkConversationRead flags every message from other senders as read and
// zeroes the conversation's unread counter.
func (h *Handlers) MarkConversationRead(c *gin.Context) {
	jobID := c.Param("jobId")
	if _, err := uuid.Parse(jobID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "job id must be a UUID")
		return
	}

	if err := h.chatSvc.MarkMessagesAsRead(c.Request.Context(), jobID, userID(c)); err != nil {
		h.failChat(c, err)
		return
	}
	noContent(c)
}

// ChatUnreadCount totals the acting user's unread incoming messages.
func (h *Handlers) ChatUnreadCount(c *gin.Context) {
	count, err := h.chatSvc.UnreadCount(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, UnreadCountResponse{Count: count})
}

// failChat maps chat service errors onto the HTTP error taxonomy.
func (h *Handlers) failChat(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrConversationNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "conversation not found")
	case errors.Is(err, services.ErrEmptyMessage):
		fail(c, http.StatusBadRequest, ErrCodeMessageEmpty, "message text must not be empty")
	case errors.Is(err, services.ErrMessageTooLong):
		fail(c, http.StatusBadRequest, ErrCodeMessageTooLong, "message text exceeds the maximum length")
	case errors.Is(err, services.ErrInvalidRole):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "sender role must be client or fixer")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
