// Job HTTP handlers.
//
// This file exposes REST endpoints for the job board and the offer
// lifecycle:
//   - POST   /jobs                              (post a job)
//   - GET    /jobs                              (list, filtered + paginated, ETag support)
//   - GET    /jobs/{id}                         (fetch one)
//   - POST   /jobs/{id}/offers                  (submit a quote)
//   - POST   /jobs/{id}/offers/{offerId}/accept (accept a quote)
//   - POST   /jobs/{id}/offers/{offerId}/decline(decline a quote)
//   - POST   /jobs/{id}/complete                (mark completed)
//
// Handlers are transport-thin: they validate input, call application services,
// translate results into HTTP responses, and fan successful mutations out to
// the notification feed.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homefix/go-homefix-backend/internal/domain"
	"github.com/homefix/go-homefix-backend/internal/geo"
	"github.com/homefix/go-homefix-backend/internal/http/middleware"
	"github.com/homefix/go-homefix-backend/internal/repo"
	"github.com/homefix/go-homefix-backend/internal/services"
)

// JobService defines job-board operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type JobService interface {
	// Create posts a new job for a client.
	Create(ctx context.Context, in services.CreateJobInput) (*domain.Job, error)
	// Get returns one job with its offers, or services.ErrJobNotFound.
	Get(ctx context.Context, jobID string) (*domain.Job, error)
	// ListPage returns a filtered page of jobs and the total count.
	ListPage(ctx context.Context, f repo.JobFilter, page, pageSize int) ([]domain.Job, int64, error)
	// AddOffer submits a quote against a pending job.
	AddOffer(ctx context.Context, jobID string, in services.OfferInput) (*domain.Offer, error)
	// AcceptOffer accepts one quote and force-declines its siblings.
	AcceptOffer(ctx context.Context, jobID, offerID string) (*domain.Job, error)
	// DeclineOffer declines one quote with no other side effects.
	DeclineOffer(ctx context.Context, jobID, offerID string) error
	// Complete moves an in-progress job to completed.
	Complete(ctx context.Context, jobID string) (*domain.Job, error)
}

//
// DTOs
//

// CreateJobRequest is the JSON payload for posting a job.
type CreateJobRequest struct {
	Title       string                 `json:"title" binding:"required,min=1,max=255"`
	Description string                 `json:"description" binding:"required"`
	Category    string                 `json:"category" binding:"required,min=1,max=64"`
	Location    string                 `json:"location"`
	Coordinates *domain.LocationCoords `json:"coordinates,omitempty"`
	Urgency     string                 `json:"urgency"`
	Images      []string               `json:"images,omitempty"`

	ClientName     string `json:"client_name" binding:"required"`
	ClientVerified bool   `json:"client_verified"`
	ClientPhone    string `json:"client_phone"`
}

// SubmitOfferRequest is the JSON payload for quoting a job.
type SubmitOfferRequest struct {
	FixerName     string  `json:"fixer_name" binding:"required"`
	FixerRating   float64 `json:"fixer_rating"`
	FixerVerified bool    `json:"fixer_verified"`
	FixerPhone    string  `json:"fixer_phone"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	Message       string  `json:"message"`
}

// JobWithDistance decorates a job with the great-circle distance from the
// viewer's coordinates, when both sides have coordinates.
type JobWithDistance struct {
	domain.Job
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// ListJobsResponse wraps a page of jobs and pagination information.
type ListJobsResponse struct {
	Jobs       []JobWithDistance `json:"jobs"`
	Pagination Pagination        `json:"pagination"`
}

//
// Handlers
//

// CreateJob posts a new job for the acting client and returns the resource.
func (h *Handlers) CreateJob(c *gin.Context) {
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	job, err := h.jobSvc.Create(c.Request.Context(), services.CreateJobInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Location:       req.Location,
		Coordinates:    req.Coordinates,
		Urgency:        req.Urgency,
		Images:         req.Images,
		ClientID:       userID(c),
		ClientName:     req.ClientName,
		ClientVerified: req.ClientVerified,
		ClientPhone:    req.ClientPhone,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidUrgency) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "urgency must be low, medium or high")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, job)
}

// ListJobs returns a filtered page of jobs, newest first. Supports weak ETag
// via If-None-Match and may return 304. When the caller supplies lat/lon
// query params, jobs with coordinates are annotated with distance_km.
func (h *Handlers) ListJobs(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	filter := repo.JobFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Urgency:  c.Query("urgency"),
		ClientID: c.Query("client_id"),
		FixerID:  c.Query("fixer_id"),
	}

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, isConcrete := h.jobSvc.(*services.JobService); isConcrete {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.JobsStats(ctx, db, filter)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"jobs:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.jobSvc.ListPage(ctx, filter, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	viewer, hasViewer := viewerCoords(c)
	out := make([]JobWithDistance, 0, len(items))
	for _, j := range items {
		jd := JobWithDistance{Job: j}
		if hasViewer && j.Coordinates != nil {
			d := geo.DistanceKm(viewer.Latitude, viewer.Longitude, j.Coordinates.Latitude, j.Coordinates.Longitude)
			jd.DistanceKm = &d
		}
		out = append(out, jd)
	}

	ok(c, http.StatusOK, ListJobsResponse{
		Jobs:       out,
		Pagination: paginationFor(page, pageSize, total),
	})
}

// GetJob returns one job with its offers.
func (h *Handlers) GetJob(c *gin.Context) {
	jobID := c.Param("id")
	if _, err := uuid.Parse(jobID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "job id must be a UUID")
		return
	}

	job, err := h.jobSvc.Get(c.Request.Context(), jobID)
	if err != nil {
		h.failJob(c, err)
		return
	}
	ok(c, http.StatusOK, job)
}

// SubmitOffer quotes a pending job on behalf of the acting fixer and
// notifies the client.
func (h *Handlers) SubmitOffer(c *gin.Context) {
	jobID := c.Param("id")
	if _, err := uuid.Parse(jobID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "job id must be a UUID")
		return
	}

	var req SubmitOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	ctx := c.Request.Context()
	offer, err := h.jobSvc.AddOffer(ctx, jobID, services.OfferInput{
		FixerID:       userID(c),
		FixerName:     req.FixerName,
		FixerRating:   req.FixerRating,
		FixerVerified: req.FixerVerified,
		FixerPhone:    req.FixerPhone,
		Price:         req.Price,
		Message:       req.Message,
	})
	if err != nil {
		h.failJob(c, err)
		return
	}

	if job, jerr := h.jobSvc.Get(ctx, jobID); jerr == nil {
		h.notify(c, h.notifier.NotifyNewOffer(ctx, job.ClientID, job.ID, job.Title, offer.FixerName, offer.Price))
	}

	ok(c, http.StatusCreated, offer)
}

// AcceptOffer accepts one quote: the job moves to in-progress, the fixer
// snapshot and price are copied onto it, sibling quotes are declined, and
// the winning fixer is notified.
func (h *Handlers) AcceptOffer(c *gin.Context) {
	jobID, offerID := c.Param("id"), c.Param("offerId")
	if _, err := uuid.Parse(jobID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "job id must be a UUID")
		return
	}
	if _, err := uuid.Parse(offerID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "offer id must be a UUID")
		return
	}

	ctx := c.Request.Context()
	job, err := h.jobSvc.AcceptOffer(ctx, jobID, offerID)
	if err != nil {
		h.failJob(c, err)
		return
	}

	h.notify(c, h.notifier.NotifyOfferAccepted(ctx, job.FixerID, job.ID, job.Title))
	ok(c, http.StatusOK, job)
}

// DeclineOffer declines one quote and notifies its fixer. The job and its
// other offers are untouched.
func (h *Handlers) DeclineOffer(c *gin.Context) {
	jobID, offerID := c.Param("id"), c.Param("offerId")
	if _, err := uuid.Parse(jobID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "job id must be a UUID")
		return
	}
	if _, err := uuid.Parse(offerID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "offer id must be a UUID")
		return
	}

	ctx := c.Request.Context()

	// Snapshot the offer before declining so the fixer can still be notified.
	var fixerID string
	if job, jerr := h.jobSvc.Get(ctx, jobID); jerr == nil {
		for _, o := range job.Offers {
			if o.ID == offerID {
				fixerID = o.FixerID
				break
			}
		}
	}

	if err := h.jobSvc.DeclineOffer(ctx, jobID, offerID); err != nil {
		h.failJob(c, err)
		return
	}

	if fixerID != "" {
		if job, jerr := h.jobSvc.Get(ctx, jobID); jerr == nil {
			h.notify(c, h.notifier.NotifyOfferDeclined(ctx, fixerID, job.ID, job.Title))
		}
	}
	noContent(c)
}

// CompleteJob marks an in-progress job as completed and notifies the
// assigned fixer.
func (h *Handlers) CompleteJob(c *gin.Context) {
	jobID := c.Param("id")
	if _, err := uuid.Parse(jobID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "job id must be a UUID")
		return
	}

	ctx := c.Request.Context()
	job, err := h.jobSvc.Complete(ctx, jobID)
	if err != nil {
		h.failJob(c, err)
		return
	}

	if job.FixerID != "" {
		h.notify(c, h.notifier.NotifyJobCompleted(ctx, job.FixerID, job.ID, job.Title))
	}
	ok(c, http.StatusOK, job)
}

//
// Helpers
//

// failJob maps job-board service errors onto the HTTP error taxonomy.
func (h *Handlers) failJob(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrJobNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "job not found")
	case errors.Is(err, services.ErrOfferNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "offer not found")
	case errors.Is(err, services.ErrJobNotOpen):
		fail(c, http.StatusConflict, ErrCodeJobNotOpen, "job is no longer accepting offers")
	case errors.Is(err, services.ErrJobNotInProgress):
		fail(c, http.StatusConflict, ErrCodeJobNotInProgress, "job is not in progress")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// notify logs notification fan-out failures without surfacing them: the
// triggering mutation already succeeded.
func (h *Handlers) notify(c *gin.Context, err error) {
	if err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("notification fan-out failed")
	}
}

// viewerCoords parses optional lat/lon query params.
func viewerCoords(c *gin.Context) (domain.LocationCoords, bool) {
	latS, lonS := c.Query("lat"), c.Query("lon")
	if latS == "" || lonS == "" {
		return domain.LocationCoords{}, false
	}
	lat, err1 := strconv.ParseFloat(latS, 64)
	lon, err2 := strconv.ParseFloat(lonS, 64)
	if err1 != nil || err2 != nil {
		return domain.LocationCoords{}, false
	}
	return domain.LocationCoords{Latitude: lat, Longitude: lon}, true
}
