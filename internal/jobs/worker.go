package jobs

import (
	"context"
	"errors"
	"math"
	"time"

	"journal/internal/apperr"
	"journal/internal/report"

	"github.com/sirupsen/logrus"
)

const pollInterval = 800 * time.Millisecond

type ReportGenerator interface {
	Generate(ctx context.Context, now time.Time) (report.Report, error)
}

// Worker runs due WEEKLY_REPORT jobs and schedules the next one after each
// completed run.
type Worker struct {
	ID       string
	Repo     *Repo
	Reports  ReportGenerator
	Interval time.Duration
	Now      func() time.Time
	Log      logrus.FieldLogger
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	w.Log.WithField("worker", w.ID).Info("job worker started")
	for {
		select {
		case <-ctx.Done():
			w.Log.WithField("worker", w.ID).Info("job worker stopped")
			return
		case <-ticker.C:
			job, err := w.Repo.Claim(ctx, w.ID)
			if err != nil {
				w.Log.WithError(err).Warn("job claim failed")
				continue
			}
			if job == nil {
				continue
			}
			w.handle(ctx, job)
		}
	}
}

func (w *Worker) handle(ctx context.Context, job *Job) {
	log := w.Log.WithFields(logrus.Fields{"job_id": job.ID, "type": job.Type})

	switch job.Type {
	case TypeWeeklyReport:
		w.handleWeeklyReport(ctx, log, job)
	default:
		if err := w.Repo.MarkFailed(ctx, job.ID, "unknown job type"); err != nil {
			log.WithError(err).Error("mark failed")
		}
	}
}

func (w *Worker) handleWeeklyReport(ctx context.Context, log logrus.FieldLogger, job *Job) {
	now := w.Now()
	r, err := w.Reports.Generate(ctx, now)
	switch {
	case err == nil:
		log.WithField("report_id", r.ID).Info("scheduled report generated")
	case errors.Is(err, apperr.ErrInsufficientData):
		log.Info("no logs in window, skipping report")
	default:
		log.WithError(err).Warn("scheduled report failed")
		if !w.retry(ctx, log, job, err.Error()) {
			return
		}
		// out of attempts: this week is lost but the chain continues
		w.scheduleNext(ctx, log, now)
		return
	}

	if err := w.Repo.MarkDone(ctx, job.ID); err != nil {
		log.WithError(err).Error("mark done")
		return
	}
	w.scheduleNext(ctx, log, now)
}

func (w *Worker) scheduleNext(ctx context.Context, log logrus.FieldLogger, now time.Time) {
	if err := w.Repo.Enqueue(ctx, TypeWeeklyReport, now.Add(w.Interval)); err != nil {
		log.WithError(err).Error("enqueue next weekly report")
	}
}

// retry reschedules job with backoff. It reports true when the job has used
// all its attempts and was marked failed instead.
func (w *Worker) retry(ctx context.Context, log logrus.FieldLogger, job *Job, errMsg string) bool {
	attempts := job.Attempts + 1
	if attempts >= job.MaxAttempts {
		if err := w.Repo.MarkFailed(ctx, job.ID, errMsg); err != nil {
			log.WithError(err).Error("mark failed")
		}
		return true
	}

	if err := w.Repo.RetryLater(ctx, job.ID, attempts, w.Now().Add(backoff(attempts)), errMsg); err != nil {
		log.WithError(err).Error("retry later")
	}
	return false
}

// backoff is 2^attempts seconds, capped at ten minutes.
func backoff(attempts int) time.Duration {
	sec := math.Min(math.Pow(2, float64(attempts)), 600)
	return time.Duration(sec) * time.Second
}
