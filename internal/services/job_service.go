// Package services – JobService
//
// This file implements JobService, the application-level component that owns
// the job aggregate and the offer lifecycle. It validates drafts, enforces
// the monotonic status progression (pending → in-progress → completed), and
// guarantees the acceptance invariant: exactly one offer per job can be
// accepted, and every sibling offer is force-declined inside the same
// transaction.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// include job/offer identifiers where applicable.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/homefix/go-homefix-backend/internal/domain"
	"github.com/homefix/go-homefix-backend/internal/repo"
)

// JobService coordinates job creation, offer negotiation, and completion.
// All mutations run inside DB transactions, so concurrent callers cannot
// lose updates the way whole-collection read-modify-write would.
type JobService struct {
	DB *gorm.DB
}

// NewJobService constructs a JobService bound to the given DB handle.
func NewJobService(db *gorm.DB) *JobService {
	return &JobService{DB: db}
}

// CreateJobInput is the draft for a new job. The service assigns identity,
// status, and timestamps.
type CreateJobInput struct {
	Title       string
	Description string
	Category    string
	Location    string
	Coordinates *domain.LocationCoords
	Urgency     string
	Images      []string

	ClientID       string
	ClientName     string
	ClientVerified bool
	ClientPhone    string
}

// OfferInput is the draft for a new offer against a job.
type OfferInput struct {
	FixerID       string
	FixerName     string
	FixerRating   float64
	FixerVerified bool
	FixerPhone    string
	Price         float64
	Message       string
}

// Create inserts a new job: UUID identifier, status pending, posted-at now
// (UTC), empty offer list. Urgency defaults to medium when blank and is
// otherwise validated against the closed set.
func (s *JobService) Create(ctx context.Context, in CreateJobInput) (*domain.Job, error) {
	tr := otel.Tracer("services/JobService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("job.category", in.Category)),
	)
	defer span.End()

	urgency := strings.ToLower(strings.TrimSpace(in.Urgency))
	switch urgency {
	case "":
		urgency = domain.UrgencyMedium
	case domain.UrgencyLow, domain.UrgencyMedium, domain.UrgencyHigh:
	default:
		return nil, ErrInvalidUrgency
	}

	job := &domain.Job{
		ID:             uuid.NewString(),
		Title:          strings.TrimSpace(in.Title),
		Description:    strings.TrimSpace(in.Description),
		Category:       strings.TrimSpace(in.Category),
		Location:       strings.TrimSpace(in.Location),
		Coordinates:    in.Coordinates,
		Urgency:        urgency,
		Status:         domain.JobStatusPending,
		Images:         in.Images,
		PostedAt:       time.Now().UTC(),
		ClientID:       in.ClientID,
		ClientName:     in.ClientName,
		ClientVerified: in.ClientVerified,
		ClientPhone:    in.ClientPhone,
		Offers:         []domain.Offer{},
	}
	if err := repo.CreateJob(ctx, s.DB, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Get returns a job with its offers, or ErrJobNotFound.
func (s *JobService) Get(ctx context.Context, jobID string) (*domain.Job, error) {
	job, err := repo.GetJob(ctx, s.DB, jobID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrJobNotFound
	}
	return job, err
}

// ListPage returns a page of jobs matching the filter plus the total count.
// Defaults are applied for invalid page/pageSize.
func (s *JobService) ListPage(ctx context.Context, f repo.JobFilter, page, pageSize int) ([]domain.Job, int64, error) {
	tr := otel.Tracer("services/JobService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountJobs(ctx, s.DB, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Job{}, 0, nil
	}

	items, err := repo.ListJobsPage(ctx, s.DB, f, offset, pageSize)
	return items, total, err
}

// AddOffer appends a pending offer to a job. Missing jobs are an explicit
// ErrJobNotFound, never a silent no-op; offers against jobs that already
// left the pending state are rejected with ErrJobNotOpen. A fixer whose
// earlier offer was declined may submit a fresh one.
func (s *JobService) AddOffer(ctx context.Context, jobID string, in OfferInput) (*domain.Offer, error) {
	tr := otel.Tracer("services/JobService")
	ctx, span := tr.Start(ctx, "AddOffer",
		trace.WithAttributes(
			attribute.String("job.id", jobID),
			attribute.String("fixer.id", in.FixerID),
		),
	)
	defer span.End()

	var offer *domain.Offer
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		job, err := repo.GetJob(ctx, tx, jobID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrJobNotFound
		}
		if err != nil {
			return err
		}
		if job.Status != domain.JobStatusPending {
			return ErrJobNotOpen
		}

		offer = &domain.Offer{
			ID:            uuid.NewString(),
			JobID:         jobID,
			FixerID:       in.FixerID,
			FixerName:     in.FixerName,
			FixerRating:   in.FixerRating,
			FixerVerified: in.FixerVerified,
			FixerPhone:    in.FixerPhone,
			Price:         in.Price,
			Message:       strings.TrimSpace(in.Message),
			SubmittedAt:   time.Now().UTC(),
			Status:        domain.OfferStatusPending,
		}
		return repo.CreateOffer(ctx, tx, offer)
	})
	if err != nil {
		return nil, err
	}
	return offer, nil
}

// AcceptOffer transitions the job to in-progress, copies the accepted
// offer's fixer identity and price onto the job, marks the offer accepted,
// and force-declines every sibling — all in one transaction. Only pending
// jobs can accept an offer.
func (s *JobService) AcceptOffer(ctx context.Context, jobID, offerID string) (*domain.Job, error) {
	tr := otel.Tracer("services/JobService")
	ctx, span := tr.Start(ctx, "AcceptOffer",
		trace.WithAttributes(
			attribute.String("job.id", jobID),
			attribute.String("offer.id", offerID),
		),
	)
	defer span.End()

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		job, err := repo.GetJob(ctx, tx, jobID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrJobNotFound
		}
		if err != nil {
			return err
		}
		if job.Status != domain.JobStatusPending {
			return ErrJobNotOpen
		}

		offer, err := repo.GetOffer(ctx, tx, jobID, offerID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrOfferNotFound
		}
		if err != nil {
			return err
		}

		if err := repo.UpdateOfferStatus(ctx, tx, jobID, offerID, domain.OfferStatusAccepted); err != nil {
			return err
		}
		if err := repo.DeclineSiblingOffers(ctx, tx, jobID, offerID); err != nil {
			return err
		}
		return repo.UpdateJobFields(ctx, tx, jobID, map[string]any{
			"status":         domain.JobStatusInProgress,
			"price":          offer.Price,
			"fixer_id":       offer.FixerID,
			"fixer_name":     offer.FixerName,
			"fixer_verified": offer.FixerVerified,
			"fixer_phone":    offer.FixerPhone,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, jobID)
}

// DeclineOffer marks a single offer declined. Job status and sibling
// offers are untouched.
func (s *JobService) DeclineOffer(ctx context.Context, jobID, offerID string) error {
	tr := otel.Tracer("services/JobService")
	ctx, span := tr.Start(ctx, "DeclineOffer",
		trace.WithAttributes(
			attribute.String("job.id", jobID),
			attribute.String("offer.id", offerID),
		),
	)
	defer span.End()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetJob(ctx, tx, jobID); errors.Is(err, repo.ErrNotFound) {
			return ErrJobNotFound
		} else if err != nil {
			return err
		}
		err := repo.UpdateOfferStatus(ctx, tx, jobID, offerID, domain.OfferStatusDeclined)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrOfferNotFound
		}
		return err
	})
}

// Complete transitions an in-progress job to completed. Completing a job
// that was never assigned is rejected with ErrJobNotInProgress, and a
// completed job can never leave that state.
func (s *JobService) Complete(ctx context.Context, jobID string) (*domain.Job, error) {
	tr := otel.Tracer("services/JobService")
	ctx, span := tr.Start(ctx, "Complete",
		trace.WithAttributes(attribute.String("job.id", jobID)),
	)
	defer span.End()

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		job, err := repo.GetJob(ctx, tx, jobID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrJobNotFound
		}
		if err != nil {
			return err
		}
		if job.Status != domain.JobStatusInProgress {
			return ErrJobNotInProgress
		}
		return repo.UpdateJobFields(ctx, tx, jobID, map[string]any{
			"status": domain.JobStatusCompleted,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, jobID)
}
