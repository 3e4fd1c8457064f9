// Package services – NotificationService
//
// This file implements NotificationService, which owns the in-app
// notification feed and the user's delivery preferences. The service
// performs no gating on Send: callers (see Notifier) are responsible for
// checking NotificationSettings before creating a record, so a disabled
// toggle suppresses creation entirely rather than just display.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/homefix/go-homefix-backend/internal/domain"
	"github.com/homefix/go-homefix-backend/internal/repo"
)

// validNotificationTypes is the closed enum accepted by Send.
var validNotificationTypes = map[string]struct{}{
	domain.NotificationNewJob:          {},
	domain.NotificationNewOffer:        {},
	domain.NotificationOfferAccepted:   {},
	domain.NotificationOfferDeclined:   {},
	domain.NotificationNewMessage:      {},
	domain.NotificationJobCompleted:    {},
	domain.NotificationJobStatusChange: {},
}

// NotificationService owns the notification feed and settings record.
type NotificationService struct {
	DB *gorm.DB
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// Send unconditionally creates a feed entry for targetUserID. It validates
// only the type enum; preference gating belongs to the caller.
func (s *NotificationService) Send(ctx context.Context, targetUserID, typ, title, body string, data map[string]any) (*domain.AppNotification, error) {
	tr := otel.Tracer("services/NotificationService")
	ctx, span := tr.Start(ctx, "Send",
		trace.WithAttributes(
			attribute.String("notification.type", typ),
			attribute.String("user.id", targetUserID),
		),
	)
	defer span.End()

	if _, ok := validNotificationTypes[typ]; !ok {
		return nil, ErrInvalidNotificationType
	}

	n := &domain.AppNotification{
		ID:        uuid.NewString(),
		UserID:    targetUserID,
		Type:      typ,
		Title:     title,
		Body:      body,
		Data:      data,
		CreatedAt: time.Now().UTC(),
		Read:      false,
	}
	if err := repo.CreateNotification(ctx, s.DB, n); err != nil {
		return nil, err
	}
	return n, nil
}

// ListPage returns a page of userID's feed, newest first, plus the total.
func (s *NotificationService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.AppNotification, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountNotifications(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.AppNotification{}, 0, nil
	}

	items, err := repo.ListNotificationsPage(ctx, s.DB, userID, offset, pageSize)
	return items, total, err
}

// UnreadCount recomputes the number of unread entries on every call.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return repo.CountUnreadNotifications(ctx, s.DB, userID)
}

// MarkAsRead flags one entry as read, or ErrNotificationNotFound.
func (s *NotificationService) MarkAsRead(ctx context.Context, userID, id string) error {
	err := repo.MarkNotificationRead(ctx, s.DB, userID, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

// MarkAllAsRead flags every unread entry. Idempotent: a second call leaves
// the feed unchanged.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	return repo.MarkAllNotificationsRead(ctx, s.DB, userID)
}

// Clear removes one entry, or ErrNotificationNotFound.
func (s *NotificationService) Clear(ctx context.Context, userID, id string) error {
	err := repo.DeleteNotification(ctx, s.DB, userID, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

// ClearAll removes the user's entire feed.
func (s *NotificationService) ClearAll(ctx context.Context, userID string) error {
	return repo.DeleteAllNotifications(ctx, s.DB, userID)
}

// Settings returns the stored preferences, falling back to the defaults
// (everything enabled) when the user never saved any.
func (s *NotificationService) Settings(ctx context.Context) (domain.NotificationSettings, error) {
	var out domain.NotificationSettings
	err := repo.GetPrefJSON(ctx, s.DB, domain.PrefNotificationSettings, &out)
	if errors.Is(err, repo.ErrNotFound) {
		return domain.DefaultNotificationSettings(), nil
	}
	if err != nil {
		return domain.NotificationSettings{}, err
	}
	return out, nil
}

// SettingsUpdate carries a partial settings change; nil fields are left
// untouched by UpdateSettings.
type SettingsUpdate struct {
	PushEnabled            *bool `json:"push_enabled,omitempty"`
	NewJobNotifications    *bool `json:"new_job_notifications,omitempty"`
	NewOfferNotifications  *bool `json:"new_offer_notifications,omitempty"`
	MessageNotifications   *bool `json:"message_notifications,omitempty"`
	JobStatusNotifications *bool `json:"job_status_notifications,omitempty"`
	SoundEnabled           *bool `json:"sound_enabled,omitempty"`
	VibrationEnabled       *bool `json:"vibration_enabled,omitempty"`
}

// UpdateSettings merges the partial update into the stored record and
// persists the result.
func (s *NotificationService) UpdateSettings(ctx context.Context, upd SettingsUpdate) (domain.NotificationSettings, error) {
	cur, err := s.Settings(ctx)
	if err != nil {
		return domain.NotificationSettings{}, err
	}

	if upd.PushEnabled != nil {
		cur.PushEnabled = *upd.PushEnabled
	}
	if upd.NewJobNotifications != nil {
		cur.NewJobNotifications = *upd.NewJobNotifications
	}
	if upd.NewOfferNotifications != nil {
		cur.NewOfferNotifications = *upd.NewOfferNotifications
	}
	if upd.MessageNotifications != nil {
		cur.MessageNotifications = *upd.MessageNotifications
	}
	if upd.JobStatusNotifications != nil {
		cur.JobStatusNotifications = *upd.JobStatusNotifications
	}
	if upd.SoundEnabled != nil {
		cur.SoundEnabled = *upd.SoundEnabled
	}
	if upd.VibrationEnabled != nil {
		cur.VibrationEnabled = *upd.VibrationEnabled
	}

	if err := repo.SetPrefJSON(ctx, s.DB, domain.PrefNotificationSettings, cur); err != nil {
		return domain.NotificationSettings{}, err
	}
	return cur, nil
}

// RegisterPush is a stub: no delivery channel exists, notifications are
// in-app only. It always reports unavailability.
func (s *NotificationService) RegisterPush(ctx context.Context) (string, error) {
	return "", ErrPushUnavailable
}
