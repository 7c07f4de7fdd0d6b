package report

import (
	"context"
	"errors"

	"journal/internal/apperr"

	"gorm.io/gorm"
)

type Store struct {
	DB *gorm.DB
}

func (s *Store) Insert(ctx context.Context, r *Report) error {
	if err := s.DB.WithContext(ctx).Create(r).Error; err != nil {
		return apperr.Storage("insert report", err)
	}
	return nil
}

// ListAll returns every report, newest first.
func (s *Store) ListAll(ctx context.Context) ([]Report, error) {
	var rows []Report
	if err := s.DB.WithContext(ctx).Order("created_at desc, id desc").Find(&rows).Error; err != nil {
		return nil, apperr.Storage("list reports", err)
	}
	return rows, nil
}

func (s *Store) GetByID(ctx context.Context, id uint64) (Report, error) {
	var r Report
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Report{}, apperr.ErrNotFound
	}
	if err != nil {
		return Report{}, apperr.Storage("get report", err)
	}
	return r, nil
}
