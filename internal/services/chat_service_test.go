package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/homefix/go-homefix-backend/internal/domain"
)

func newChatSvc(t *testing.T) *ChatService {
	t.Helper()
	db := newServiceDB(t, &domain.Job{}, &domain.Offer{}, &domain.ChatConversation{}, &domain.ChatMessage{})
	return NewChatService(db)
}

func TestChatService_SendMessage_Validation(t *testing.T) {
	svc := newChatSvc(t)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, "job-1", "u1", "Maria", domain.RoleClient, "   ")
	require.ErrorIs(t, err, ErrEmptyMessage)

	svc.MaxTextRunes = 5
	_, err = svc.SendMessage(ctx, "job-1", "u1", "Maria", domain.RoleClient, "too long here")
	require.ErrorIs(t, err, ErrMessageTooLong)

	// The cap counts runes, not bytes.
	_, err = svc.SendMessage(ctx, "job-1", "u1", "Maria", domain.RoleClient, "αβγδε")
	require.NoError(t, err)

	svc.MaxTextRunes = 0 // falls back to 2000
	_, err = svc.SendMessage(ctx, "job-1", "u1", "Maria", domain.RoleClient, strings.Repeat("a", 2000))
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, "job-1", "u1", "Maria", domain.RoleClient, strings.Repeat("a", 2001))
	require.ErrorIs(t, err, ErrMessageTooLong)

	_, err = svc.SendMessage(ctx, "job-1", "u1", "Maria", "admin", "hello")
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestChatService_FirstMessageCreatesConversation(t *testing.T) {
	svc := newChatSvc(t)
	ctx := context.Background()

	_, err := svc.GetConversation(ctx, "job-1")
	require.ErrorIs(t, err, ErrConversationNotFound)

	msg, err := svc.SendMessage(ctx, "job-1", "u1", "Maria", domain.RoleClient, "hello there")
	require.NoError(t, err)
	require.NotEmpty(t, msg.ID)
	require.False(t, msg.Read)

	conv, err := svc.GetConversation(ctx, "job-1")
	require.NoError(t, err)
	require.Equal(t, "u1", conv.ClientID)
	require.Equal(t, "Maria", conv.ClientName)
	require.Equal(t, "hello there", conv.LastMessage)
	require.NotNil(t, conv.LastMessageTime)
	require.Equal(t, 1, conv.UnreadCount)
	require.Len(t, conv.Messages, 1)
}

func TestChatService_ConversationPullsParticipantsFromJob(t *testing.T) {
	db := newServiceDB(t, &domain.Job{}, &domain.Offer{}, &domain.ChatConversation{}, &domain.ChatMessage{})
	chatSvc := NewChatService(db)
	jobSvc := NewJobService(db)
	ctx := context.Background()

	job, err := jobSvc.Create(ctx, draftJob())
	require.NoError(t, err)
	offer, err := jobSvc.AddOffer(ctx, job.ID, OfferInput{FixerID: "fixer-1", FixerName: "Nikos", Price: 80})
	require.NoError(t, err)
	_, err = jobSvc.AcceptOffer(ctx, job.ID, offer.ID)
	require.NoError(t, err)

	// The fixer speaks first; the client slot is filled from the job record.
	_, err = chatSvc.SendMessage(ctx, job.ID, "fixer-1", "Nikos", domain.RoleFixer, "on my way")
	require.NoError(t, err)

	conv, err := chatSvc.GetConversation(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, job.Title, conv.JobTitle)
	require.Equal(t, "client-1", conv.ClientID)
	require.Equal(t, "Maria", conv.ClientName)
	require.Equal(t, "fixer-1", conv.FixerID)
}

func TestChatService_ParticipantBackfillOnLaterMessage(t *testing.T) {
	svc := newChatSvc(t)
	ctx := context.Background()

	// No job record exists, so the fixer slot starts empty.
	_, err := svc.SendMessage(ctx, "job-1", "u1", "Maria", domain.RoleClient, "anyone there?")
	require.NoError(t, err)
	conv, err := svc.GetConversation(ctx, "job-1")
	require.NoError(t, err)
	require.Empty(t, conv.FixerID)

	_, err = svc.SendMessage(ctx, "job-1", "f1", "Nikos", domain.RoleFixer, "yes, here")
	require.NoError(t, err)
	conv, err = svc.GetConversation(ctx, "job-1")
	require.NoError(t, err)
	require.Equal(t, "f1", conv.FixerID)
	require.Equal(t, "Nikos", conv.FixerName)
}

func TestChatService_UnreadAccounting(t *testing.T) {
	svc := newChatSvc(t)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, "job-1", "f1", "Nikos", domain.RoleFixer, "quote attached")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, "job-1", "f1", "Nikos", domain.RoleFixer, "any update?")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, "job-2", "f1", "Nikos", domain.RoleFixer, "other job")
	require.NoError(t, err)

	// The client has 3 unread across both threads; the fixer none.
	n, err := svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
	n, err = svc.UnreadCount(ctx, "f1")
	require.NoError(t, err)
	require.Zero(t, n)

	require.NoError(t, svc.MarkMessagesAsRead(ctx, "job-1", "u1"))
	n, err = svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	require.EqualValues(t, 1, n, "only job-1 was read")

	conv, err := svc.GetConversation(ctx, "job-1")
	require.NoError(t, err)
	require.Zero(t, conv.UnreadCount, "cached counter recomputed on read")

	// Idempotent.
	require.NoError(t, svc.MarkMessagesAsRead(ctx, "job-1", "u1"))

	require.ErrorIs(t, svc.MarkMessagesAsRead(ctx, "missing", "u1"), ErrConversationNotFound)
}

func TestChatService_ListConversations(t *testing.T) {
	svc := newChatSvc(t)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, "job-1", "u1", "Maria", domain.RoleClient, "first thread")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, "job-2", "u1", "Maria", domain.RoleClient, "second thread")
	require.NoError(t, err)

	convs, err := svc.ListConversations(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, convs, 2)

	convs, err = svc.ListConversations(ctx, "stranger")
	require.NoError(t, err)
	require.Empty(t, convs)
}
