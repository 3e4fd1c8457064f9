package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/homefix/go-homefix-backend/internal/domain"
)

func newJobRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("job_repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func seedJob(t *testing.T, db *gorm.DB, status, category string, postedAt time.Time) *domain.Job {
	t.Helper()
	job := &domain.Job{
		ID:          uuid.NewString(),
		Title:       "Fix leaky faucet",
		Description: "Kitchen tap drips",
		Category:    category,
		Urgency:     domain.UrgencyMedium,
		Status:      status,
		PostedAt:    postedAt,
		ClientID:    "client-1",
		ClientName:  "Maria",
	}
	if err := CreateJob(context.Background(), db, job); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	return job
}

func TestGetJob_NotFound(t *testing.T) {
	db := newJobRepoDB(t, &domain.Job{}, &domain.Offer{})
	_, err := GetJob(context.Background(), db, uuid.NewString())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateJob_And_GetJob_PreloadsOffersInOrder(t *testing.T) {
	db := newJobRepoDB(t, &domain.Job{}, &domain.Offer{})
	ctx := context.Background()
	job := seedJob(t, db, domain.JobStatusPending, "plumbing", time.Now().UTC())

	early := &domain.Offer{
		ID: uuid.NewString(), JobID: job.ID, FixerID: "f1", FixerName: "Nikos",
		Price: 80, SubmittedAt: time.Now().UTC().Add(-time.Hour), Status: domain.OfferStatusPending,
	}
	late := &domain.Offer{
		ID: uuid.NewString(), JobID: job.ID, FixerID: "f2", FixerName: "Ana",
		Price: 95, SubmittedAt: time.Now().UTC(), Status: domain.OfferStatusPending,
	}
	// Insert out of order; GetJob must return them by submission time.
	if err := CreateOffer(ctx, db, late); err != nil {
		t.Fatalf("CreateOffer late: %v", err)
	}
	if err := CreateOffer(ctx, db, early); err != nil {
		t.Fatalf("CreateOffer early: %v", err)
	}

	got, err := GetJob(ctx, db, job.ID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if len(got.Offers) != 2 {
		t.Fatalf("expected 2 offers, got %d", len(got.Offers))
	}
	if got.Offers[0].ID != early.ID || got.Offers[1].ID != late.ID {
		t.Fatalf("offers not ordered by submitted_at: %s, %s", got.Offers[0].ID, got.Offers[1].ID)
	}
}

func TestListJobsPage_FilterAndOrder(t *testing.T) {
	db := newJobRepoDB(t, &domain.Job{}, &domain.Offer{})
	ctx := context.Background()

	old := seedJob(t, db, domain.JobStatusPending, "plumbing", time.Now().UTC().Add(-2*time.Hour))
	newer := seedJob(t, db, domain.JobStatusPending, "plumbing", time.Now().UTC())
	seedJob(t, db, domain.JobStatusCompleted, "electrical", time.Now().UTC().Add(-time.Hour))

	// Status filter
	f := JobFilter{Status: domain.JobStatusPending}
	n, err := CountJobs(ctx, db, f)
	if err != nil || n != 2 {
		t.Fatalf("CountJobs(pending) = %d, %v", n, err)
	}

	// Newest first
	page, err := ListJobsPage(ctx, db, f, 0, 10)
	if err != nil {
		t.Fatalf("ListJobsPage: %v", err)
	}
	if len(page) != 2 || page[0].ID != newer.ID || page[1].ID != old.ID {
		t.Fatalf("unexpected page order: %+v", page)
	}

	// Category filter
	n, err = CountJobs(ctx, db, JobFilter{Category: "electrical"})
	if err != nil || n != 1 {
		t.Fatalf("CountJobs(electrical) = %d, %v", n, err)
	}

	// Offset past the end
	page, err = ListJobsPage(ctx, db, f, 10, 10)
	if err != nil || len(page) != 0 {
		t.Fatalf("expected empty page, got %d, %v", len(page), err)
	}
}

func TestUpdateOfferStatus_NotFound(t *testing.T) {
	db := newJobRepoDB(t, &domain.Job{}, &domain.Offer{})
	err := UpdateOfferStatus(context.Background(), db, uuid.NewString(), uuid.NewString(), domain.OfferStatusAccepted)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeclineSiblingOffers_KeepsOne(t *testing.T) {
	db := newJobRepoDB(t, &domain.Job{}, &domain.Offer{})
	ctx := context.Background()
	job := seedJob(t, db, domain.JobStatusPending, "plumbing", time.Now().UTC())

	var ids []string
	for i := 0; i < 3; i++ {
		o := &domain.Offer{
			ID: uuid.NewString(), JobID: job.ID, FixerID: fmt.Sprintf("f%d", i),
			FixerName: "Fixer", Price: 50, SubmittedAt: time.Now().UTC(), Status: domain.OfferStatusPending,
		}
		if err := CreateOffer(ctx, db, o); err != nil {
			t.Fatalf("CreateOffer: %v", err)
		}
		ids = append(ids, o.ID)
	}

	keep := ids[1]
	if err := UpdateOfferStatus(ctx, db, job.ID, keep, domain.OfferStatusAccepted); err != nil {
		t.Fatalf("UpdateOfferStatus: %v", err)
	}
	if err := DeclineSiblingOffers(ctx, db, job.ID, keep); err != nil {
		t.Fatalf("DeclineSiblingOffers: %v", err)
	}

	got, err := GetJob(ctx, db, job.ID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	for _, o := range got.Offers {
		want := domain.OfferStatusDeclined
		if o.ID == keep {
			want = domain.OfferStatusAccepted
		}
		if o.Status != want {
			t.Fatalf("offer %s status = %q, want %q", o.ID, o.Status, want)
		}
	}
}

func TestUpdateJobFields_And_JobsStats(t *testing.T) {
	db := newJobRepoDB(t, &domain.Job{}, &domain.Offer{})
	ctx := context.Background()
	job := seedJob(t, db, domain.JobStatusPending, "plumbing", time.Now().UTC())

	if err := UpdateJobFields(ctx, db, job.ID, map[string]any{
		"status":     domain.JobStatusInProgress,
		"fixer_id":   "f1",
		"fixer_name": "Nikos",
		"price":      80.0,
	}); err != nil {
		t.Fatalf("UpdateJobFields: %v", err)
	}

	got, err := GetJob(ctx, db, job.ID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.Status != domain.JobStatusInProgress || got.FixerID != "f1" || got.Price == nil || *got.Price != 80 {
		t.Fatalf("fields not applied: %+v", got)
	}

	count, maxTS, err := JobsStats(ctx, db, JobFilter{})
	if err != nil {
		t.Fatalf("JobsStats: %v", err)
	}
	if count != 1 || maxTS == nil {
		t.Fatalf("JobsStats = count %d maxTS %v", count, maxTS)
	}
}
