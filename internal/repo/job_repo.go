// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Job
// aggregate and its offers.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a job or offer is not found, functions return
//     gorm.ErrRecordNotFound (also exported here as ErrNotFound).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// This repository is wrapped by services.JobService, which enforces the
// offer-lifecycle rules (single accepted offer, monotonic job status).
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/homefix/go-homefix-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// JobFilter narrows ListJobsPage results. Zero values mean "no filter".
type JobFilter struct {
	Status   string
	Category string
	Urgency  string
	ClientID string
	FixerID  string
}

// apply composes the filter onto a query.
func (f JobFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Urgency != "" {
		q = q.Where("urgency = ?", f.Urgency)
	}
	if f.ClientID != "" {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.FixerID != "" {
		q = q.Where("fixer_id = ?", f.FixerID)
	}
	return q
}

// CreateJob inserts a new job row. The caller is expected to have populated
// identifier, status, and timestamps (the service owns those rules).
func CreateJob(ctx context.Context, db *gorm.DB, job *domain.Job) error {
	return db.WithContext(ctx).Create(job).Error
}

// GetJob fetches a job by ID with its offers preloaded (oldest first).
// Returns ErrNotFound when the job does not exist.
func GetJob(ctx context.Context, db *gorm.DB, id string) (*domain.Job, error) {
	var j domain.Job
	err := db.WithContext(ctx).
		Preload("Offers", func(q *gorm.DB) *gorm.DB { return q.Order("submitted_at asc") }).
		First(&j, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// CountJobs returns the number of jobs matching the filter.
func CountJobs(ctx context.Context, db *gorm.DB, f JobFilter) (int64, error) {
	var total int64
	err := f.apply(db.WithContext(ctx).Model(&domain.Job{})).Count(&total).Error
	return total, err
}

// ListJobsPage returns a page of jobs matching the filter, newest first,
// with offers preloaded. Use CountJobs to obtain the total for pagination
// metadata.
func ListJobsPage(ctx context.Context, db *gorm.DB, f JobFilter, offset, limit int) ([]domain.Job, error) {
	var out []domain.Job
	err := f.apply(db.WithContext(ctx)).
		Preload("Offers", func(q *gorm.DB) *gorm.DB { return q.Order("submitted_at asc") }).
		Order("posted_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CreateOffer inserts a new offer row for a job.
func CreateOffer(ctx context.Context, db *gorm.DB, offer *domain.Offer) error {
	return db.WithContext(ctx).Create(offer).Error
}

// GetOffer fetches a single offer by job and offer ID, or ErrNotFound.
func GetOffer(ctx context.Context, db *gorm.DB, jobID, offerID string) (*domain.Offer, error) {
	var o domain.Offer
	err := db.WithContext(ctx).
		First(&o, "id = ? AND job_id = ?", offerID, jobID).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateOfferStatus sets the status of one offer. Returns ErrNotFound when
// no row matched.
func UpdateOfferStatus(ctx context.Context, db *gorm.DB, jobID, offerID, status string) error {
	res := db.WithContext(ctx).
		Model(&domain.Offer{}).
		Where("id = ? AND job_id = ?", offerID, jobID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeclineSiblingOffers force-declines every offer of jobID except keepID.
// Called inside the accept-offer transaction.
func DeclineSiblingOffers(ctx context.Context, db *gorm.DB, jobID, keepID string) error {
	return db.WithContext(ctx).
		Model(&domain.Offer{}).
		Where("job_id = ? AND id <> ?", jobID, keepID).
		Update("status", domain.OfferStatusDeclined).Error
}

// UpdateJobFields applies a column map to one job row. Returns ErrNotFound
// when no row matched.
func UpdateJobFields(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.Job{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// JobsStats returns the job count and most recent update timestamp for the
// filter, used by handlers to build weak ETags for list responses.
func JobsStats(ctx context.Context, db *gorm.DB, f JobFilter) (int64, *time.Time, error) {
	var total int64
	if err := f.apply(db.WithContext(ctx).Model(&domain.Job{})).Count(&total).Error; err != nil {
		return 0, nil, err
	}
	var row struct{ Max *time.Time }
	err := f.apply(db.WithContext(ctx).Model(&domain.Job{})).
		Select("MAX(updated_at) AS max").
		Scan(&row).Error
	if err != nil {
		return 0, nil, err
	}
	return total, row.Max, nil
}
