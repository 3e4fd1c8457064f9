// Handler wiring.
//
// This file groups the API's endpoint handlers behind a single Handlers
// struct, bound to abstract service interfaces so transport concerns stay
// separate from business logic. Each domain's endpoints and its service
// contract live in their own file (job_handler.go, chat_handler.go, ...).
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/homefix/go-homefix-backend/internal/utils"
)

// EventNotifier fans marketplace events out to the in-app notification feed.
// Implementations apply the user's delivery preferences; handlers call these
// after successful mutations and only log failures, never surface them.
type EventNotifier interface {
	NotifyNewOffer(ctx context.Context, clientID, jobID, jobTitle, fixerName string, price float64) error
	NotifyOfferAccepted(ctx context.Context, fixerID, jobID, jobTitle string) error
	NotifyOfferDeclined(ctx context.Context, fixerID, jobID, jobTitle string) error
	NotifyNewMessage(ctx context.Context, recipientID, jobID, jobTitle, senderName string) error
	NotifyJobCompleted(ctx context.Context, fixerID, jobID, jobTitle string) error
}

// Handlers groups HTTP endpoints for jobs, chat, notifications, profile, and
// calls. It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	jobSvc     JobService
	chatSvc    ChatService
	notifSvc   NotificationService
	profileSvc ProfileService
	callSvc    CallService
	notifier   EventNotifier
}

// New constructs and returns a Handlers instance bound to the given services.
func New(jobSvc JobService, chatSvc ChatService, notifSvc NotificationService, profileSvc ProfileService, callSvc CallService, notifier EventNotifier) *Handlers {
	return &Handlers{
		jobSvc:     jobSvc,
		chatSvc:    chatSvc,
		notifSvc:   notifSvc,
		profileSvc: profileSvc,
		callSvc:    callSvc,
		notifier:   notifier,
	}
}

// userID extracts the acting user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := c.GetHeader("X-User-ID"); h != "" {
			return h
		}
	}
	return "demo-user"
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// paginationFor computes the metadata block for a page of total items.
func paginationFor(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}
