package jobs

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"journal/internal/apperr"
	"journal/internal/logger"
	"journal/internal/report"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

type fakeGenerator struct {
	err   error
	calls int
}

func (f *fakeGenerator) Generate(context.Context, time.Time) (report.Report, error) {
	f.calls++
	if f.err != nil {
		return report.Report{}, f.err
	}
	return report.Report{ID: uint64(f.calls)}, nil
}

func openTestRepo(t *testing.T) *Repo {
	t.Helper()
	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        filepath.Join(t.TempDir(), "jobs_test.db"),
	}, &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&Job{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return &Repo{DB: db}
}

func claimDue(t *testing.T, repo *Repo) *Job {
	t.Helper()
	ctx := context.Background()
	if err := repo.Enqueue(ctx, TypeWeeklyReport, time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	job, err := repo.Claim(ctx, "w1")
	if err != nil || job == nil {
		t.Fatalf("Claim: job=%v err=%v", job, err)
	}
	if job.Status != StatusRunning || *job.LockedBy != "w1" {
		t.Fatalf("claimed=%+v", job)
	}
	return job
}

func loadJobs(t *testing.T, repo *Repo) []Job {
	t.Helper()
	var rows []Job
	if err := repo.DB.Order("id asc").Find(&rows).Error; err != nil {
		t.Fatalf("load jobs: %v", err)
	}
	return rows
}

func newWorker(repo *Repo, gen ReportGenerator, now time.Time) *Worker {
	return &Worker{
		ID:       "w1",
		Repo:     repo,
		Reports:  gen,
		Interval: 7 * 24 * time.Hour,
		Now:      func() time.Time { return now },
		Log:      logger.Discard(),
	}
}

func TestClaimSkipsFutureJobs(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	if err := repo.Enqueue(context.Background(), TypeWeeklyReport, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	job, err := repo.Claim(context.Background(), "w1")
	if err != nil || job != nil {
		t.Fatalf("job=%v err=%v", job, err)
	}
}

func TestEnsureScheduledOnce(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()
	created, err := repo.EnsureScheduled(ctx, TypeWeeklyReport, time.Now())
	if err != nil || !created {
		t.Fatalf("first: created=%v err=%v", created, err)
	}
	created, err = repo.EnsureScheduled(ctx, TypeWeeklyReport, time.Now())
	if err != nil || created {
		t.Fatalf("second: created=%v err=%v", created, err)
	}
	if n := len(loadJobs(t, repo)); n != 1 {
		t.Fatalf("jobs=%d", n)
	}
}

func TestWeeklyReportSuccessSchedulesNext(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	job := claimDue(t, repo)
	now := time.Date(2026, time.October, 15, 9, 0, 0, 0, time.UTC)
	gen := &fakeGenerator{}

	newWorker(repo, gen, now).handle(context.Background(), job)

	rows := loadJobs(t, repo)
	if gen.calls != 1 || len(rows) != 2 {
		t.Fatalf("calls=%d rows=%d", gen.calls, len(rows))
	}
	if rows[0].Status != StatusDone {
		t.Fatalf("first status=%s", rows[0].Status)
	}
	if rows[1].Status != StatusPending || !rows[1].RunAt.Equal(now.Add(7*24*time.Hour)) {
		t.Fatalf("next=%+v", rows[1])
	}
}

func TestWeeklyReportEmptyWindowIsDone(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	job := claimDue(t, repo)
	newWorker(repo, &fakeGenerator{err: apperr.ErrInsufficientData}, time.Now()).handle(context.Background(), job)

	rows := loadJobs(t, repo)
	if len(rows) != 2 || rows[0].Status != StatusDone || rows[0].LastError != nil {
		t.Fatalf("rows=%+v", rows)
	}
}

func TestWeeklyReportFailureRetries(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	job := claimDue(t, repo)
	now := time.Date(2026, time.October, 15, 9, 0, 0, 0, time.UTC)
	newWorker(repo, &fakeGenerator{err: apperr.Unavailable(errors.New("upstream 503"))}, now).handle(context.Background(), job)

	rows := loadJobs(t, repo)
	if len(rows) != 1 {
		t.Fatalf("rows=%d", len(rows))
	}
	got := rows[0]
	if got.Status != StatusPending || got.Attempts != 1 || got.LockedBy != nil || got.LastError == nil {
		t.Fatalf("job=%+v", got)
	}
	if !got.RunAt.Equal(now.Add(2 * time.Second)) {
		t.Fatalf("RunAt=%v", got.RunAt)
	}
}

func TestWeeklyReportGivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	job := claimDue(t, repo)
	job.Attempts = job.MaxAttempts - 1
	now := time.Date(2026, time.October, 15, 9, 0, 0, 0, time.UTC)
	newWorker(repo, &fakeGenerator{err: errors.New("boom")}, now).handle(context.Background(), job)

	rows := loadJobs(t, repo)
	if len(rows) != 2 {
		t.Fatalf("rows=%d", len(rows))
	}
	if rows[0].Status != StatusFailed || rows[0].LastError == nil {
		t.Fatalf("failed job=%+v", rows[0])
	}
	// the next week is still scheduled
	next := rows[1]
	if next.Type != TypeWeeklyReport || next.Status != StatusPending || next.Attempts != 0 {
		t.Fatalf("next=%+v", next)
	}
	if !next.RunAt.Equal(now.Add(7 * 24 * time.Hour)) {
		t.Fatalf("next RunAt=%v", next.RunAt)
	}
}

func TestBackoffCapped(t *testing.T) {
	t.Parallel()

	if got := backoff(3); got != 8*time.Second {
		t.Fatalf("backoff(3)=%v", got)
	}
	if got := backoff(12); got != 600*time.Second {
		t.Fatalf("backoff(12)=%v", got)
	}
}
