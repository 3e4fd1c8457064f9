// Notification HTTP handlers.
//
// This file exposes REST endpoints for the in-app notification feed and its
// delivery preferences:
//   - GET    /notifications               (list, paginated)
//   - GET    /notifications/unread-count  (unread tally)
//   - POST   /notifications/{id}/read     (mark one read)
//   - POST   /notifications/read-all      (mark all read, idempotent)
//   - DELETE /notifications/{id}          (remove one)
//   - DELETE /notifications               (clear the feed)
//   - GET    /notifications/settings      (delivery preferences)
//   - PUT    /notifications/settings      (partial preference update)
//   - POST   /notifications/push-token    (push registration stub)
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

// NotificationService defines feed and settings operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type NotificationService interface {
	// ListPage returns a page of the user's feed and the total count.
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.AppNotification, int64, error)
	// UnreadCount recomputes the unread tally.
	UnreadCount(ctx context.Context, userID string) (int64, error)
	// MarkAsRead flags one entry as read.
	MarkAsRead(ctx context.Context, userID, id string) error
	// MarkAllAsRead flags every unread entry; idempotent.
	MarkAllAsRead(ctx context.Context, userID string) error
	// Clear removes one entry.
	Clear(ctx context.Context, userID, id string) error
	// ClearAll removes the user's entire feed.
	ClearAll(ctx context.Context, userID string) error
	// Settings returns the delivery preferences (defaults when unset).
	Settings(ctx context.Context) (domain.NotificationSettings, error)
	// UpdateSettings merges a partial preference change.
	UpdateSettings(ctx context.Context, upd services.SettingsUpdate) (domain.NotificationSettings, error)
	// RegisterPush registers a push delivery channel.
	RegisterPush(ctx context.Context) (string, error)
}

// ListNotificationsResponse wraps a page of feed entries and pagination
// information.
type ListNotificationsResponse struct {
	Notifications []domain.AppNotification `json:"notifications"`
	Pagination    Pagination               `json:"pagination"`
}

// ListNotifications returns a page of the acting user's feed, newest first.
func (h *Handlers) ListNotifications(c *gin.Context) {
	page, pageSize := clampPagination(c)
	items, total, err := h.notifSvc.ListPage(c.Request.Context(), userID(c), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListNotificationsResponse{
		Notifications: items,
		Pagination:    paginationFor(page, pageSize, total),
	})
}

// NotificationUnreadCount returns the acting user's unread tally.
func (h *Handlers) NotificationUnreadCount(c *gin.Context) {
	count, err := h.notifSvc.UnreadCount(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, UnreadCountResponse{Count: count})
}

// MarkNotificationRead flags one feed entry as read.
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "notification id must be a UUID")
		return
	}

	if err := h.notifSvc.MarkAsRead(c.Request.Context(), userID(c), id); err != nil {
		h.failNotification(c, err)
		return
	}
	noContent(c)
}

// MarkAllNotificationsRead flags the whole feed as read. Safe to repeat.
func (h *Handlers) MarkAllNotificationsRead(c *gin.Context) {
	if err := h.notifSvc.MarkAllAsRead(c.Request.Context(), userID(c)); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// DeleteNotification removes one feed entry.
func (h *Handlers) DeleteNotification(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "notification id must be a UUID")
		return
	}

	if err := h.notifSvc.Clear(c.Request.Context(), userID(c), id); err != nil {
		h.failNotification(c, err)
		return
	}
	noContent(c)
}

// ClearNotifications removes the acting user's entire feed.
func (h *Handlers) ClearNotifications(c *gin.Context) {
	if err := h.notifSvc.ClearAll(c.Request.Context(), userID(c)); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// GetNotificationSettings returns the delivery preferences, falling back to
// the defaults (everything enabled) when never saved.
func (h *Handlers) GetNotificationSettings(c *gin.Context) {
	st, err := h.notifSvc.Settings(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, st)
}

// UpdateNotificationSettings merges a partial preference change and returns
// the full updated record.
func (h *Handlers) UpdateNotificationSettings(c *gin.Context) {
	var upd services.SettingsUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	st, err := h.notifSvc.UpdateSettings(c.Request.Context(), upd)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, st)
}

// RegisterPushToken is the push registration stub: notifications are in-app
// only, so it always reports unavailability.
func (h *Handlers) RegisterPushToken(c *gin.Context) {
	if _, err := h.notifSvc.RegisterPush(c.Request.Context()); err != nil {
		if errors.Is(err, services.ErrPushUnavailable) {
			fail(c, http.StatusServiceUnavailable, ErrCodePushUnavailable, "push delivery is not available")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// failNotification maps feed service errors onto the HTTP error taxonomy.
func (h *Handlers) failNotification(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNotificationNotFound) {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "notification not found")
		return
	}
	fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
}
