package jobs

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

const (
	defaultMaxAttempts = 8
	staleLock          = 5 * time.Minute
)

type Repo struct {
	DB *gorm.DB
}

func (r *Repo) Enqueue(ctx context.Context, typ string, runAt time.Time) error {
	j := Job{
		Type:        typ,
		RunAt:       runAt.UTC(),
		Status:      StatusPending,
		MaxAttempts: defaultMaxAttempts,
	}
	return r.DB.WithContext(ctx).Create(&j).Error
}

// EnsureScheduled enqueues a job of typ at runAt unless one is already
// pending or running.
func (r *Repo) EnsureScheduled(ctx context.Context, typ string, runAt time.Time) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&Job{}).
		Where("type = ? AND status IN ?", typ, []string{StatusPending, StatusRunning}).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	return true, r.Enqueue(ctx, typ, runAt)
}

// Claim one due job atomically. Postgres uses FOR UPDATE SKIP LOCKED; other
// dialects fall back to a conditional update.
func (r *Repo) Claim(ctx context.Context, workerID string) (*Job, error) {
	if r.DB.Dialector.Name() != "postgres" {
		return r.claimPortable(ctx, workerID)
	}

	var job Job
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// requeue stuck RUNNING jobs
		if err := tx.Exec(`
update jobs
set status='PENDING', locked_by=null, locked_at=null, updated_at=now()
where status='RUNNING' and locked_at is not null and locked_at < now() - interval '5 minutes'
`).Error; err != nil {
			return err
		}

		// FOR UPDATE SKIP LOCKED ensures no double-claim
		q := tx.Raw(`
with cte as (
  select id
  from jobs
  where status='PENDING' and run_at <= now()
  order by run_at asc
  for update skip locked
  limit 1
)
update jobs
set status='RUNNING', locked_by=?, locked_at=now(), updated_at=now()
where id in (select id from cte)
returning *;
`, workerID)

		return q.Scan(&job).Error
	})
	if err != nil {
		return nil, err
	}
	if job.ID == 0 {
		return nil, nil
	}
	return &job, nil
}

func (r *Repo) claimPortable(ctx context.Context, workerID string) (*Job, error) {
	now := time.Now().UTC()
	db := r.DB.WithContext(ctx)

	if err := db.Model(&Job{}).
		Where("status = ? AND locked_at < ?", StatusRunning, now.Add(-staleLock)).
		Updates(map[string]any{"status": StatusPending, "locked_by": nil, "locked_at": nil, "updated_at": now}).Error; err != nil {
		return nil, err
	}

	var job Job
	err := db.Where("status = ? AND run_at <= ?", StatusPending, now).Order("run_at asc").First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	res := db.Model(&Job{}).
		Where("id = ? AND status = ?", job.ID, StatusPending).
		Updates(map[string]any{"status": StatusRunning, "locked_by": workerID, "locked_at": now, "updated_at": now})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// another worker won
		return nil, nil
	}
	job.Status = StatusRunning
	job.LockedBy = &workerID
	job.LockedAt = &now
	return &job, nil
}

func (r *Repo) MarkDone(ctx context.Context, id uint64) error {
	return r.update(ctx, id, map[string]any{"status": StatusDone})
}

func (r *Repo) MarkFailed(ctx context.Context, id uint64, errMsg string) error {
	return r.update(ctx, id, map[string]any{"status": StatusFailed, "last_error": errMsg})
}

func (r *Repo) RetryLater(ctx context.Context, id uint64, attempts int, runAt time.Time, errMsg string) error {
	return r.update(ctx, id, map[string]any{
		"status":     StatusPending,
		"attempts":   attempts,
		"run_at":     runAt.UTC(),
		"locked_by":  nil,
		"locked_at":  nil,
		"last_error": errMsg,
	})
}

func (r *Repo) update(ctx context.Context, id uint64, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	return r.DB.WithContext(ctx).Model(&Job{}).Where("id = ?", id).Updates(fields).Error
}
