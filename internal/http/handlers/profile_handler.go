// Profile HTTP handlers.
//
// This file exposes REST endpoints for the single on-device user's profile
// and app-level preferences:
//   - GET    /profile               (fetch, created lazily)
//   - PATCH  /profile               (partial update)
//   - POST   /profile/verification  (submit verification documents)
//   - GET    /profile/role          (client/fixer selector)
//   - PUT    /profile/role
//   - GET    /profile/language      (UI language)
//   - PUT    /profile/language
//   - GET    /profile/onboarding    (onboarding flag)
//   - POST   /profile/onboarding
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homefix/go-homefix-backend/internal/domain"
	"github.com/homefix/go-homefix-backend/internal/services"
)

// ProfileService defines profile and preference operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ProfileService interface {
	// Profile returns the stored profile, creating it on first access.
	Profile(ctx context.Context) (domain.UserProfile, error)
	// UpdateProfile merges a partial profile change.
	UpdateProfile(ctx context.Context, upd services.ProfileUpdate) (domain.UserProfile, error)
	// SubmitVerification attaches documents and moves verification to pending.
	SubmitVerification(ctx context.Context, docs []domain.VerificationDocument) (domain.UserProfile, error)
	// UserType returns the role selector, defaulting to client.
	UserType(ctx context.Context) (string, error)
	// SetUserType stores the role selector.
	SetUserType(ctx context.Context, userType string) error
	// Language returns the stored language code.
	Language(ctx context.Context) (string, error)
	// SetLanguage validates and stores a language code, returning the
	// normalized form.
	SetLanguage(ctx context.Context, code string) (string, error)
	// HasOnboarded reports whether onboarding completed.
	HasOnboarded(ctx context.Context) (bool, error)
	// SetOnboarded records onboarding completion.
	SetOnboarded(ctx context.Context) error
}

//
// DTOs
//

// SubmitVerificationRequest is the JSON payload for a verification
// submission.
type SubmitVerificationRequest struct {
	Documents []domain.VerificationDocument `json:"documents" binding:"required"`
}

// RoleRequest carries the client/fixer selector.
type RoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// RoleResponse reports the active role selector.
type RoleResponse struct {
	Role string `json:"role"`
}

// LanguageRequest carries a BCP 47 language code.
type LanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

// LanguageResponse reports the stored (normalized) language code.
type LanguageResponse struct {
	Language string `json:"language"`
}

// OnboardingResponse reports the onboarding flag.
type OnboardingResponse struct {
	HasOnboarded bool `json:"has_onboarded"`
}

//
// Handlers
//

// GetProfile returns the user profile, creating a fresh unverified record
// on first access.
func (h *Handlers) GetProfile(c *gin.Context) {
	p, err := h.profileSvc.Profile(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, p)
}

// UpdateProfile merges a partial update into the profile and returns the
// full updated record.
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var upd services.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	p, err := h.profileSvc.UpdateProfile(c.Request.Context(), upd)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, p)
}

// SubmitVerification attaches the submitted documents and moves the
// verification workflow to pending.
func (h *Handlers) SubmitVerification(c *gin.Context) {
	var req SubmitVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	p, err := h.profileSvc.SubmitVerification(c.Request.Context(), req.Documents)
	if err != nil {
		if errors.Is(err, services.ErrNoDocuments) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "at least one document is required")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, p)
}

// GetRole returns the active client/fixer selector.
func (h *Handlers) GetRole(c *gin.Context) {
	role, err := h.profileSvc.UserType(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, RoleResponse{Role: role})
}

// SetRole stores the client/fixer selector.
func (h *Handlers) SetRole(c *gin.Context) {
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	if err := h.profileSvc.SetUserType(c.Request.Context(), req.Role); err != nil {
		if errors.Is(err, services.ErrInvalidUserType) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "role must be client or fixer")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, RoleResponse{Role: req.Role})
}

// GetLanguage returns the stored UI language code.
func (h *Handlers) GetLanguage(c *gin.Context) {
	lang, err := h.profileSvc.Language(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, LanguageResponse{Language: lang})
}

// SetLanguage validates the code against the translation catalog and stores
// the normalized form.
func (h *Handlers) SetLanguage(c *gin.Context) {
	var req LanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	norm, err := h.profileSvc.SetLanguage(c.Request.Context(), req.Language)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedLanguage) {
			fail(c, http.StatusBadRequest, ErrCodeUnsupportedLanguage, "language is not supported")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, LanguageResponse{Language: norm})
}

// GetOnboarding reports whether onboarding was completed.
func (h *Handlers) GetOnboarding(c *gin.Context) {
	done, err := h.profileSvc.HasOnboarded(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, OnboardingResponse{HasOnboarded: done})
}

// CompleteOnboarding records onboarding completion. Safe to repeat.
func (h *Handlers) CompleteOnboarding(c *gin.Context) {
	if err := h.profileSvc.SetOnboarded(c.Request.Context()); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, OnboardingResponse{HasOnboarded: true})
}
