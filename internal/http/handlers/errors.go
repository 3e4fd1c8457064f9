// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP
// responses (via the `fail()` helper in this package). These codes provide
// clients with a stable, machine-readable error taxonomy that supplements
// human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless explicitly noted.
//   - Generic codes (e.g., bad_request, not_found, conflict) mirror common HTTP
//     status semantics to aid interoperability.
//   - Domain-specific codes (e.g., job_not_open, call_in_progress) are reserved
//     for business rules that cannot be conveyed by status alone.
//   - All error responses must include both an HTTP status and one of these codes.

package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeJobNotOpen          = "job_not_open"
	ErrCodeJobNotInProgress    = "job_not_in_progress"
	ErrCodeMessageEmpty        = "message_empty"
	ErrCodeMessageTooLong      = "message_too_long"
	ErrCodeCallInProgress      = "call_in_progress"
	ErrCodeCallNotRinging      = "call_not_ringing"
	ErrCodeNoActiveCall        = "no_active_call"
	ErrCodeUnsupportedLanguage = "unsupported_language"
	ErrCodePushUnavailable     = "push_unavailable"
	ErrCodeMethodNotAllowed    = "method_not_allowed"
	ErrCodeCreateFailed        = "create_failed"
	ErrCodeListFailed          = "list_failed"
)
