package impulse

import (
	"context"
	"strings"
	"time"

	"journal/internal/apperr"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Store struct {
	DB *gorm.DB
}

func (s *Store) Insert(ctx context.Context, in NewLog) (Log, error) {
	in.Feeling = strings.TrimSpace(in.Feeling)
	if err := in.Validate(); err != nil {
		return Log{}, err
	}
	l := Log{
		Datetime: WallClock(in.Datetime),
		Feeling:  in.Feeling,
		Acted:    in.Acted,
	}
	if err := s.DB.WithContext(ctx).Create(&l).Error; err != nil {
		return Log{}, apperr.Storage("insert log", err)
	}
	return l, nil
}

// ListAll returns every log, newest first.
func (s *Store) ListAll(ctx context.Context) ([]Log, error) {
	var rows []Log
	if err := s.DB.WithContext(ctx).Order("datetime desc, id desc").Find(&rows).Error; err != nil {
		return nil, apperr.Storage("list logs", err)
	}
	return rows, nil
}

// ListInWindow returns logs with start <= datetime <= end in chronological order.
func (s *Store) ListInWindow(ctx context.Context, start, end time.Time) ([]Log, error) {
	var rows []Log
	err := s.DB.WithContext(ctx).
		Where("datetime >= ? AND datetime <= ?", WallClock(start), WallClock(end)).
		Order("datetime asc, id asc").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Storage("list logs in window", err)
	}
	return rows, nil
}

// ListRecent returns at most limit logs with since <= datetime <= until, newest first.
func (s *Store) ListRecent(ctx context.Context, since, until time.Time, limit int) ([]Log, error) {
	var rows []Log
	err := s.DB.WithContext(ctx).
		Where("datetime >= ? AND datetime <= ?", WallClock(since), WallClock(until)).
		Order("datetime desc, id desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Storage("list recent logs", err)
	}
	return rows, nil
}

func (s *Store) DeleteByID(ctx context.Context, id uint64) error {
	res := s.DB.WithContext(ctx).Delete(&Log{}, id)
	if res.Error != nil {
		return apperr.Storage("delete log", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeleteAll removes every log and restarts the id sequence.
func (s *Store) DeleteAll(ctx context.Context) error {
	table := Log{}.TableName()
	db := s.DB.WithContext(ctx)

	var err error
	switch db.Dialector.Name() {
	case "postgres":
		err = db.Exec("TRUNCATE TABLE " + pq.QuoteIdentifier(table) + " RESTART IDENTITY").Error
	case "sqlite":
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
			return tx.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table).Error
		})
	default:
		err = db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Log{}).Error
	}
	if err != nil {
		return apperr.Storage("delete all logs", err)
	}
	return nil
}
