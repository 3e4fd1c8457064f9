// Package services – ProfileService
//
// This file implements ProfileService, which owns the singleton records of
// the prefs store: the user profile, the client/fixer role selector, the UI
// language, and the onboarding flag. The profile is mutated wholesale via
// partial-update merge, matching the original blob-per-key persistence.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homefix/go-homefix-backend/internal/domain"
	"github.com/homefix/go-homefix-backend/internal/i18n"
	"github.com/homefix/go-homefix-backend/internal/repo"
)

// ProfileService owns profile, role, language, and onboarding state.
type ProfileService struct {
	DB *gorm.DB
}

// NewProfileService constructs a ProfileService.
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

// Profile returns the stored profile. When none was ever saved it returns
// a fresh unverified record with a generated identifier, persisted so the
// identifier stays stable across calls.
func (s *ProfileService) Profile(ctx context.Context) (domain.UserProfile, error) {
	var p domain.UserProfile
	err := repo.GetPrefJSON(ctx, s.DB, domain.PrefUserProfile, &p)
	if errors.Is(err, repo.ErrNotFound) {
		p = domain.UserProfile{
			ID:                 uuid.NewString(),
			VerificationStatus: domain.VerificationUnverified,
		}
		if err := repo.SetPrefJSON(ctx, s.DB, domain.PrefUserProfile, p); err != nil {
			return domain.UserProfile{}, err
		}
		return p, nil
	}
	if err != nil {
		return domain.UserProfile{}, err
	}
	// Older blobs may predate the verification workflow.
	if p.VerificationStatus == "" {
		p.VerificationStatus = domain.VerificationUnverified
	}
	return p, nil
}

// ProfileUpdate carries a partial profile change; nil fields are left
// untouched by UpdateProfile.
type ProfileUpdate struct {
	Name            *string                `json:"name,omitempty"`
	Profession      *string                `json:"profession,omitempty"`
	Email           *string                `json:"email,omitempty"`
	Phone           *string                `json:"phone,omitempty"`
	Location        *string                `json:"location,omitempty"`
	Coordinates     *domain.LocationCoords `json:"coordinates,omitempty"`
	Avatar          *string                `json:"avatar,omitempty"`
	YearsExperience *int                   `json:"years_experience,omitempty"`
	ResponseTime    *string                `json:"response_time,omitempty"`
	About           *string                `json:"about,omitempty"`
	Skills          *[]string              `json:"skills,omitempty"`
}

// UpdateProfile merges the partial update into the stored record and
// persists the result.
func (s *ProfileService) UpdateProfile(ctx context.Context, upd ProfileUpdate) (domain.UserProfile, error) {
	p, err := s.Profile(ctx)
	if err != nil {
		return domain.UserProfile{}, err
	}

	if upd.Name != nil {
		p.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Profession != nil {
		p.Profession = strings.TrimSpace(*upd.Profession)
	}
	if upd.Email != nil {
		p.Email = strings.TrimSpace(*upd.Email)
	}
	if upd.Phone != nil {
		p.Phone = strings.TrimSpace(*upd.Phone)
	}
	if upd.Location != nil {
		p.Location = strings.TrimSpace(*upd.Location)
	}
	if upd.Coordinates != nil {
		p.Coordinates = upd.Coordinates
	}
	if upd.Avatar != nil {
		p.Avatar = *upd.Avatar
	}
	if upd.YearsExperience != nil {
		p.YearsExperience = *upd.YearsExperience
	}
	if upd.ResponseTime != nil {
		p.ResponseTime = *upd.ResponseTime
	}
	if upd.About != nil {
		p.About = *upd.About
	}
	if upd.Skills != nil {
		p.Skills = *upd.Skills
	}

	if err := repo.SetPrefJSON(ctx, s.DB, domain.PrefUserProfile, p); err != nil {
		return domain.UserProfile{}, err
	}
	return p, nil
}

// SubmitVerification attaches the documents to the profile and moves the
// verification workflow to pending. Empty submissions are rejected.
func (s *ProfileService) SubmitVerification(ctx context.Context, docs []domain.VerificationDocument) (domain.UserProfile, error) {
	if len(docs) == 0 {
		return domain.UserProfile{}, ErrNoDocuments
	}
	p, err := s.Profile(ctx)
	if err != nil {
		return domain.UserProfile{}, err
	}

	now := time.Now().UTC()
	for i := range docs {
		if docs[i].SubmittedAt.IsZero() {
			docs[i].SubmittedAt = now
		}
	}
	p.VerificationDocuments = append(p.VerificationDocuments, docs...)
	p.VerificationStatus = domain.VerificationPending
	p.VerificationSubmittedAt = &now
	p.VerificationCompletedAt = nil

	if err := repo.SetPrefJSON(ctx, s.DB, domain.PrefUserProfile, p); err != nil {
		return domain.UserProfile{}, err
	}
	return p, nil
}

// UserType returns the stored role selector, defaulting to client.
func (s *ProfileService) UserType(ctx context.Context) (string, error) {
	raw, err := repo.GetPref(ctx, s.DB, domain.PrefUserType)
	if errors.Is(err, repo.ErrNotFound) {
		return domain.RoleClient, nil
	}
	if err != nil {
		return "", err
	}
	return raw, nil
}

// SetUserType stores the role selector after validating it.
func (s *ProfileService) SetUserType(ctx context.Context, userType string) error {
	if userType != domain.RoleClient && userType != domain.RoleFixer {
		return ErrInvalidUserType
	}
	return repo.SetPref(ctx, s.DB, domain.PrefUserType, userType)
}

// Language returns the stored language code, defaulting to the catalog's
// default locale.
func (s *ProfileService) Language(ctx context.Context) (string, error) {
	raw, err := repo.GetPref(ctx, s.DB, domain.PrefLanguage)
	if errors.Is(err, repo.ErrNotFound) {
		return i18n.DefaultLanguage, nil
	}
	if err != nil {
		return "", err
	}
	return raw, nil
}

// SetLanguage validates the code against the translation catalog and
// stores the normalized form.
func (s *ProfileService) SetLanguage(ctx context.Context, code string) (string, error) {
	norm, ok := i18n.Normalize(code)
	if !ok {
		return "", ErrUnsupportedLanguage
	}
	if err := repo.SetPref(ctx, s.DB, domain.PrefLanguage, norm); err != nil {
		return "", err
	}
	return norm, nil
}

// HasOnboarded reports whether onboarding was completed.
func (s *ProfileService) HasOnboarded(ctx context.Context) (bool, error) {
	raw, err := repo.GetPref(ctx, s.DB, domain.PrefHasOnboarded)
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return raw == "true", nil
}

// SetOnboarded records onboarding completion.
func (s *ProfileService) SetOnboarded(ctx context.Context) error {
	return repo.SetPref(ctx, s.DB, domain.PrefHasOnboarded, "true")
}
