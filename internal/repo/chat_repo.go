// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for per-job chat
// conversations and their messages.
//
// The conversation row caches last-message fields and an unread counter;
// those caches are recomputed by services.ChatService inside the same
// transaction as the message mutation, so the rows never drift from the
// message table (the aggregate unread query stays authoritative).
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/homefix/go-homefix-backend/internal/domain"
)

// CreateConversation inserts a new conversation row.
func CreateConversation(ctx context.Context, db *gorm.DB, conv *domain.ChatConversation) error {
	return db.WithContext(ctx).Create(conv).Error
}

// GetConversation fetches the conversation for jobID with messages
// preloaded in send order, or ErrNotFound when no message was ever sent.
func GetConversation(ctx context.Context, db *gorm.DB, jobID string) (*domain.ChatConversation, error) {
	var c domain.ChatConversation
	err := db.WithContext(ctx).
		Preload("Messages", func(q *gorm.DB) *gorm.DB { return q.Order("sent_at asc") }).
		First(&c, "job_id = ?", jobID).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListConversations returns every conversation the user participates in,
// most recently active first. Messages are not preloaded; list views only
// need the cached last-message fields.
func ListConversations(ctx context.Context, db *gorm.DB, userID string) ([]domain.ChatConversation, error) {
	var out []domain.ChatConversation
	err := db.WithContext(ctx).
		Where("client_id = ? OR fixer_id = ?", userID, userID).
		Order("last_message_time desc").
		Find(&out).Error
	return out, err
}

// CreateMessage inserts a new chat message row.
func CreateMessage(ctx context.Context, db *gorm.DB, msg *domain.ChatMessage) error {
	return db.WithContext(ctx).Create(msg).Error
}

// MarkMessagesRead flags every unread message in jobID's thread whose
// sender is not readerID. Returns the number of rows flipped.
func MarkMessagesRead(ctx context.Context, db *gorm.DB, jobID, readerID string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.ChatMessage{}).
		Where("job_id = ? AND sender_id <> ? AND read = ?", jobID, readerID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}

// CountUnreadInConversation counts unread messages in one thread. Used to
// recompute the conversation's cached unread counter after a mutation.
func CountUnreadInConversation(ctx context.Context, db *gorm.DB, jobID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.ChatMessage{}).
		Where("job_id = ? AND read = ?", jobID, false).
		Count(&n).Error
	return n, err
}

// CountUnreadForReader sums, across all conversations, messages not sent by
// readerID and not yet read. This aggregate is the authoritative unread
// count; the per-conversation cache is a convenience duplicate.
func CountUnreadForReader(ctx context.Context, db *gorm.DB, readerID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.ChatMessage{}).
		Where("sender_id <> ? AND read = ?", readerID, false).
		Count(&n).Error
	return n, err
}

// UpdateConversationFields applies a column map to one conversation row.
// Returns ErrNotFound when no row matched.
func UpdateConversationFields(ctx context.Context, db *gorm.DB, jobID string, fields map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.ChatConversation{}).
		Where("job_id = ?", jobID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
