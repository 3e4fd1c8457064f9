// Package services defines the business logic for jobs, offers, chat,
// notifications, the user profile, and the simulated call. This file
// centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Every lookup-then-mutate boundary returns an explicit not-found error;
// no mutator silently no-ops on a missing identifier. Translation into
// user-facing messages or HTTP status codes is performed at the handler
// layer.
package services

import "errors"

// Job and offer errors.
var (
	// ErrJobNotFound indicates that the requested job does not exist.
	ErrJobNotFound = errors.New("job not found")

	// ErrOfferNotFound indicates that the requested offer does not exist
	// on the given job.
	ErrOfferNotFound = errors.New("offer not found")

	// ErrJobNotOpen is returned when submitting or accepting an offer on a
	// job that is no longer pending.
	ErrJobNotOpen = errors.New("job is not open for offers")

	// ErrJobNotInProgress is returned when completing a job that has not
	// been assigned through an accepted offer.
	ErrJobNotInProgress = errors.New("job is not in progress")

	// ErrInvalidUrgency is returned when a job draft carries an urgency
	// outside low|medium|high.
	ErrInvalidUrgency = errors.New("urgency must be low, medium, or high")
)

// Chat errors.
var (
	// ErrConversationNotFound indicates that no message was ever sent for
	// the given job.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrEmptyMessage is returned when a chat message contains no text.
	ErrEmptyMessage = errors.New("message text is empty")

	// ErrMessageTooLong is returned when a chat message exceeds the
	// configured maximum length.
	ErrMessageTooLong = errors.New("message text too long")

	// ErrInvalidRole is returned when a sender role is neither client nor
	// fixer.
	ErrInvalidRole = errors.New("sender role must be client or fixer")
)

// Notification errors.
var (
	// ErrNotificationNotFound indicates that the requested notification
	// does not exist for the current user.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrInvalidNotificationType is returned for types outside the closed
	// enum.
	ErrInvalidNotificationType = errors.New("unknown notification type")

	// ErrPushUnavailable is returned by the push-registration stub;
	// notifications are in-app only.
	ErrPushUnavailable = errors.New("push notifications are not available")
)

// Profile errors.
var (
	// ErrInvalidUserType is returned when a role is neither client nor
	// fixer.
	ErrInvalidUserType = errors.New("user type must be client or fixer")

	// ErrUnsupportedLanguage is returned when a language code is not in
	// the translation catalog.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrNoDocuments is returned when a verification submission carries no
	// documents.
	ErrNoDocuments = errors.New("at least one verification document is required")
)

// Call errors.
var (
	// ErrCallInProgress is returned when initiating a call while the
	// single call slot is occupied.
	ErrCallInProgress = errors.New("a call is already in progress")

	// ErrNoActiveCall indicates that the call slot is empty.
	ErrNoActiveCall = errors.New("no active call")

	// ErrCallNotRinging is returned when answering a call that is not in
	// the ringing state.
	ErrCallNotRinging = errors.New("call is not ringing")
)
