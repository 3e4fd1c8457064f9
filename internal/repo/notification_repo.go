// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the in-app
// notification feed.
//
// The feed is append-only except for read-flag mutation and deletion. The
// unread count is always recomputed from rows, never cached.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/homefix/go-homefix-backend/internal/domain"
)

// CreateNotification inserts a new feed entry.
func CreateNotification(ctx context.Context, db *gorm.DB, n *domain.AppNotification) error {
	return db.WithContext(ctx).Create(n).Error
}

// ListNotificationsPage returns a page of userID's notifications, newest
// first (matching the original prepend ordering).
func ListNotificationsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.AppNotification, error) {
	var out []domain.AppNotification
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountNotifications returns the total number of feed entries for userID.
func CountNotifications(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.AppNotification{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// CountUnreadNotifications recomputes the unread count for userID.
func CountUnreadNotifications(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.AppNotification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&n).Error
	return n, err
}

// MarkNotificationRead flags one notification as read, scoped to its owner.
// Returns ErrNotFound when no row matched.
func MarkNotificationRead(ctx context.Context, db *gorm.DB, userID, id string) error {
	res := db.WithContext(ctx).
		Model(&domain.AppNotification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkAllNotificationsRead flags every unread entry for userID. Calling it
// again is a no-op, which keeps the operation idempotent.
func MarkAllNotificationsRead(ctx context.Context, db *gorm.DB, userID string) error {
	return db.WithContext(ctx).
		Model(&domain.AppNotification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}

// DeleteNotification removes one feed entry, scoped to its owner.
// Returns ErrNotFound when no row matched.
func DeleteNotification(ctx context.Context, db *gorm.DB, userID, id string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.AppNotification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAllNotifications clears userID's entire feed.
func DeleteAllNotifications(ctx context.Context, db *gorm.DB, userID string) error {
	return db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.AppNotification{}).Error
}
