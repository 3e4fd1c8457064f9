// Package services – ChatService
//
// This file implements ChatService, which owns per-job conversations.
// Sending the first message creates the conversation lazily, inferring
// which participant slot (client or fixer) the sender occupies from their
// role; the opposite slot is filled from the job record when available.
//
// The cached last-message fields and unread counter on the conversation row
// are recomputed inside the same transaction as every mutation instead of
// being blindly incremented or zeroed, so the cache cannot drift from the
// message rows. The cross-conversation aggregate (UnreadCount) remains the
// authoritative number.
package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/homefix/go-homefix-backend/internal/domain"
	"github.com/homefix/go-homefix-backend/internal/repo"
)

// ChatService coordinates message persistence and unread accounting.
type ChatService struct {
	DB *gorm.DB

	// MaxTextRunes caps message length; <= 0 falls back to 2000.
	MaxTextRunes int
}

// NewChatService constructs a ChatService with the default message cap.
func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{DB: db, MaxTextRunes: 2000}
}

// SendMessage appends a message to jobID's conversation, creating the
// conversation on first send. Returns ErrEmptyMessage, ErrMessageTooLong,
// or ErrInvalidRole on bad input.
func (s *ChatService) SendMessage(ctx context.Context, jobID, senderID, senderName, senderRole, text string) (*domain.ChatMessage, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "SendMessage",
		trace.WithAttributes(
			attribute.String("job.id", jobID),
			attribute.String("sender.id", senderID),
		),
	)
	defer span.End()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	max := s.MaxTextRunes
	if max <= 0 {
		max = 2000
	}
	if utf8.RuneCountInString(text) > max {
		return nil, ErrMessageTooLong
	}
	if senderRole != domain.RoleClient && senderRole != domain.RoleFixer {
		return nil, ErrInvalidRole
	}

	msg := &domain.ChatMessage{
		ID:         uuid.NewString(),
		JobID:      jobID,
		SenderID:   senderID,
		SenderName: senderName,
		SenderRole: senderRole,
		Text:       text,
		SentAt:     time.Now().UTC(),
		Read:       false,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conv, err := repo.GetConversation(ctx, tx, jobID)
		switch {
		case errors.Is(err, repo.ErrNotFound):
			conv, err = s.newConversation(ctx, tx, jobID, senderID, senderName, senderRole)
			if err != nil {
				return err
			}
		case err != nil:
			return err
		}

		// Backfill an empty participant slot when the other party speaks first.
		fields := map[string]any{
			"last_message":      msg.Text,
			"last_message_time": msg.SentAt,
		}
		if senderRole == domain.RoleClient && conv.ClientID == "" {
			fields["client_id"] = senderID
			fields["client_name"] = senderName
		}
		if senderRole == domain.RoleFixer && conv.FixerID == "" {
			fields["fixer_id"] = senderID
			fields["fixer_name"] = senderName
		}

		if err := repo.CreateMessage(ctx, tx, msg); err != nil {
			return err
		}
		unread, err := repo.CountUnreadInConversation(ctx, tx, jobID)
		if err != nil {
			return err
		}
		fields["unread_count"] = unread
		return repo.UpdateConversationFields(ctx, tx, jobID, fields)
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// newConversation creates the conversation record on first message,
// populating the sender's slot and pulling the counterpart plus the job
// title from the job record when it exists.
func (s *ChatService) newConversation(ctx context.Context, tx *gorm.DB, jobID, senderID, senderName, senderRole string) (*domain.ChatConversation, error) {
	conv := &domain.ChatConversation{
		ID:    uuid.NewString(),
		JobID: jobID,
	}
	if senderRole == domain.RoleClient {
		conv.ClientID = senderID
		conv.ClientName = senderName
	} else {
		conv.FixerID = senderID
		conv.FixerName = senderName
	}

	if job, err := repo.GetJob(ctx, tx, jobID); err == nil {
		conv.JobTitle = job.Title
		if conv.ClientID == "" {
			conv.ClientID = job.ClientID
			conv.ClientName = job.ClientName
		}
		if conv.FixerID == "" && job.FixerID != "" {
			conv.FixerID = job.FixerID
			conv.FixerName = job.FixerName
		}
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	if err := repo.CreateConversation(ctx, tx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// GetConversation returns jobID's thread with messages in send order, or
// ErrConversationNotFound when no message was ever sent.
func (s *ChatService) GetConversation(ctx context.Context, jobID string) (*domain.ChatConversation, error) {
	conv, err := repo.GetConversation(ctx, s.DB, jobID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrConversationNotFound
	}
	return conv, err
}

// ListConversations returns every thread userID participates in, most
// recently active first.
func (s *ChatService) ListConversations(ctx context.Context, userID string) ([]domain.ChatConversation, error) {
	return repo.ListConversations(ctx, s.DB, userID)
}

// MarkMessagesAsRead flags every message in jobID's thread not sent by
// readerID, then recomputes the cached unread counter from the rows that
// remain unread (the reader's own unread outbound messages keep it honest).
func (s *ChatService) MarkMessagesAsRead(ctx context.Context, jobID, readerID string) error {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "MarkMessagesAsRead",
		trace.WithAttributes(
			attribute.String("job.id", jobID),
			attribute.String("reader.id", readerID),
		),
	)
	defer span.End()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetConversation(ctx, tx, jobID); errors.Is(err, repo.ErrNotFound) {
			return ErrConversationNotFound
		} else if err != nil {
			return err
		}
		if _, err := repo.MarkMessagesRead(ctx, tx, jobID, readerID); err != nil {
			return err
		}
		unread, err := repo.CountUnreadInConversation(ctx, tx, jobID)
		if err != nil {
			return err
		}
		return repo.UpdateConversationFields(ctx, tx, jobID, map[string]any{
			"unread_count": unread,
		})
	})
}

// UnreadCount sums, across all conversations, messages not sent by
// readerID and not yet read. This is the authoritative count.
func (s *ChatService) UnreadCount(ctx context.Context, readerID string) (int64, error) {
	return repo.CountUnreadForReader(ctx, s.DB, readerID)
}
