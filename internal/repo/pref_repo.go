// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the blob-per-key store for singleton
// records (user profile, notification settings, role, language, onboarding
// flag), mirroring the original key/value persistence layout.
package repo

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"github.com/homefix/go-homefix-backend/internal/domain"
)

// GetPref returns the raw JSON blob stored under key, or ErrNotFound.
func GetPref(ctx context.Context, db *gorm.DB, key string) (string, error) {
	var p domain.Pref
	if err := db.WithContext(ctx).First(&p, "key = ?", key).Error; err != nil {
		return "", err
	}
	return p.Value, nil
}

// SetPref upserts the blob stored under key.
func SetPref(ctx context.Context, db *gorm.DB, key, value string) error {
	p := domain.Pref{Key: key, Value: value}
	return db.WithContext(ctx).Save(&p).Error
}

// DeletePref removes the blob stored under key. Missing keys are not an
// error; removal is idempotent.
func DeletePref(ctx context.Context, db *gorm.DB, key string) error {
	return db.WithContext(ctx).Delete(&domain.Pref{}, "key = ?", key).Error
}

// GetPrefJSON unmarshals the blob stored under key into out.
// Returns ErrNotFound when the key is absent.
func GetPrefJSON(ctx context.Context, db *gorm.DB, key string, out any) error {
	raw, err := GetPref(ctx, db, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), out)
}

// SetPrefJSON marshals v and upserts it under key.
func SetPrefJSON(ctx context.Context, db *gorm.DB, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return SetPref(ctx, db, key, string(raw))
}

// PrefExists reports whether key holds a value.
func PrefExists(ctx context.Context, db *gorm.DB, key string) (bool, error) {
	_, err := GetPref(ctx, db, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
