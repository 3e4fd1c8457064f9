package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/homefix/go-homefix-backend/internal/domain"
	"github.com/homefix/go-homefix-backend/internal/repo"
)

func newServiceDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("services_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

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

func newJobSvc(t *testing.T) *JobService {
	t.Helper()
	return NewJobService(newServiceDB(t, &domain.Job{}, &domain.Offer{}))
}

func draftJob() CreateJobInput {
	return CreateJobInput{
		Title:       "Fix leaky faucet",
		Description: "Kitchen tap drips constantly",
		Category:    "plumbing",
		Location:    "Athens",
		ClientID:    "client-1",
		ClientName:  "Maria",
	}
}

func TestJobService_Create_DefaultsAndValidation(t *testing.T) {
	svc := newJobSvc(t)
	ctx := context.Background()

	job, err := svc.Create(ctx, draftJob())
	require.NoError(t, err)
	require.NotEmpty(t, job.ID)
	require.Equal(t, domain.JobStatusPending, job.Status)
	require.Equal(t, domain.UrgencyMedium, job.Urgency, "blank urgency defaults to medium")
	require.False(t, job.PostedAt.IsZero())
	require.Empty(t, job.Offers)

	in := draftJob()
	in.Urgency = "URGENT"
	_, err = svc.Create(ctx, in)
	require.ErrorIs(t, err, ErrInvalidUrgency)

	in.Urgency = " High "
	job, err = svc.Create(ctx, in)
	require.NoError(t, err)
	require.Equal(t, domain.UrgencyHigh, job.Urgency, "urgency is case- and space-insensitive")
}

func TestJobService_Get_NotFound(t *testing.T) {
	svc := newJobSvc(t)
	_, err := svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrJobNotFound)
}

func TestJobService_AddOffer_MissingAndClosedJobs(t *testing.T) {
	svc := newJobSvc(t)
	ctx := context.Background()

	_, err := svc.AddOffer(ctx, "missing", OfferInput{FixerID: "f1", FixerName: "Nikos", Price: 80})
	require.ErrorIs(t, err, ErrJobNotFound)

	job, err := svc.Create(ctx, draftJob())
	require.NoError(t, err)

	offer, err := svc.AddOffer(ctx, job.ID, OfferInput{FixerID: "f1", FixerName: "Nikos", Price: 80})
	require.NoError(t, err)
	require.Equal(t, domain.OfferStatusPending, offer.Status)

	// Once accepted, the job leaves the pending state and stops taking offers.
	_, err = svc.AcceptOffer(ctx, job.ID, offer.ID)
	require.NoError(t, err)
	_, err = svc.AddOffer(ctx, job.ID, OfferInput{FixerID: "f2", FixerName: "Ana", Price: 70})
	require.ErrorIs(t, err, ErrJobNotOpen)
}

func TestJobService_AcceptOffer_ExclusivityAndSnapshot(t *testing.T) {
	svc := newJobSvc(t)
	ctx := context.Background()

	job, err := svc.Create(ctx, draftJob())
	require.NoError(t, err)

	o1, err := svc.AddOffer(ctx, job.ID, OfferInput{FixerID: "f1", FixerName: "Nikos", FixerVerified: true, Price: 80})
	require.NoError(t, err)
	o2, err := svc.AddOffer(ctx, job.ID, OfferInput{FixerID: "f2", FixerName: "Ana", Price: 95})
	require.NoError(t, err)

	got, err := svc.AcceptOffer(ctx, job.ID, o1.ID)
	require.NoError(t, err)
	require.Equal(t, domain.JobStatusInProgress, got.Status)
	require.Equal(t, "f1", got.FixerID)
	require.Equal(t, "Nikos", got.FixerName)
	require.True(t, got.FixerVerified)
	require.NotNil(t, got.Price)
	require.Equal(t, 80.0, *got.Price)

	// Sibling was force-declined in the same transaction.
	for _, o := range got.Offers {
		switch o.ID {
		case o1.ID:
			require.Equal(t, domain.OfferStatusAccepted, o.Status)
		case o2.ID:
			require.Equal(t, domain.OfferStatusDeclined, o.Status)
		}
	}

	// A second acceptance is rejected: the job already left pending.
	_, err = svc.AcceptOffer(ctx, job.ID, o2.ID)
	require.ErrorIs(t, err, ErrJobNotOpen)
}

func TestJobService_AcceptOffer_UnknownOffer(t *testing.T) {
	svc := newJobSvc(t)
	ctx := context.Background()

	job, err := svc.Create(ctx, draftJob())
	require.NoError(t, err)

	_, err = svc.AcceptOffer(ctx, job.ID, "missing")
	require.ErrorIs(t, err, ErrOfferNotFound)

	// Failed acceptance leaves the job untouched.
	got, err := svc.Get(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, domain.JobStatusPending, got.Status)
}

func TestJobService_DeclineOffer_LeavesJobAndSiblings(t *testing.T) {
	svc := newJobSvc(t)
	ctx := context.Background()

	job, err := svc.Create(ctx, draftJob())
	require.NoError(t, err)
	o1, err := svc.AddOffer(ctx, job.ID, OfferInput{FixerID: "f1", FixerName: "Nikos", Price: 80})
	require.NoError(t, err)
	o2, err := svc.AddOffer(ctx, job.ID, OfferInput{FixerID: "f2", FixerName: "Ana", Price: 95})
	require.NoError(t, err)

	require.NoError(t, svc.DeclineOffer(ctx, job.ID, o1.ID))
	require.ErrorIs(t, svc.DeclineOffer(ctx, job.ID, "missing"), ErrOfferNotFound)
	require.ErrorIs(t, svc.DeclineOffer(ctx, "missing", o1.ID), ErrJobNotFound)

	got, err := svc.Get(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, domain.JobStatusPending, got.Status, "declining never moves the job")
	for _, o := range got.Offers {
		if o.ID == o2.ID {
			require.Equal(t, domain.OfferStatusPending, o.Status)
		}
	}

	// The declined fixer may come back with a fresh offer.
	_, err = svc.AddOffer(ctx, job.ID, OfferInput{FixerID: "f1", FixerName: "Nikos", Price: 75})
	require.NoError(t, err)
}

func TestJobService_Complete_RequiresInProgress(t *testing.T) {
	svc := newJobSvc(t)
	ctx := context.Background()

	job, err := svc.Create(ctx, draftJob())
	require.NoError(t, err)

	_, err = svc.Complete(ctx, job.ID)
	require.ErrorIs(t, err, ErrJobNotInProgress, "pending job cannot complete")

	offer, err := svc.AddOffer(ctx, job.ID, OfferInput{FixerID: "f1", FixerName: "Nikos", Price: 80})
	require.NoError(t, err)
	_, err = svc.AcceptOffer(ctx, job.ID, offer.ID)
	require.NoError(t, err)

	got, err := svc.Complete(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, domain.JobStatusCompleted, got.Status)

	// Completed is terminal.
	_, err = svc.Complete(ctx, job.ID)
	require.ErrorIs(t, err, ErrJobNotInProgress)
	_, err = svc.Complete(ctx, "missing")
	require.ErrorIs(t, err, ErrJobNotFound)
}

func TestJobService_ListPage_FilterAndPagination(t *testing.T) {
	svc := newJobSvc(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		in := draftJob()
		in.Title = fmt.Sprintf("Job %d", i)
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	items, total, err := svc.ListPage(ctx, repo.JobFilter{Status: domain.JobStatusPending}, 1, 2)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, items, 2)

	// Invalid paging falls back to defaults instead of erroring.
	items, total, err = svc.ListPage(ctx, repo.JobFilter{}, 0, -5)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, items, 3)

	items, total, err = svc.ListPage(ctx, repo.JobFilter{Status: domain.JobStatusCompleted}, 1, 10)
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, items)
}

func TestJobService_FaucetLifecycle(t *testing.T) {
	// Full walk: post, two quotes, accept one, complete.
	svc := newJobSvc(t)
	ctx := context.Background()

	job, err := svc.Create(ctx, draftJob())
	require.NoError(t, err)

	_, err = svc.AddOffer(ctx, job.ID, OfferInput{FixerID: "f2", FixerName: "Ana", Price: 95})
	require.NoError(t, err)
	winner, err := svc.AddOffer(ctx, job.ID, OfferInput{FixerID: "f1", FixerName: "Nikos", Price: 80})
	require.NoError(t, err)

	_, err = svc.AcceptOffer(ctx, job.ID, winner.ID)
	require.NoError(t, err)
	done, err := svc.Complete(ctx, job.ID)
	require.NoError(t, err)

	require.Equal(t, domain.JobStatusCompleted, done.Status)
	require.Equal(t, "f1", done.FixerID)
	require.NotNil(t, done.Price)
	require.Equal(t, 80.0, *done.Price)
}
