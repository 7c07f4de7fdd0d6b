package impulse

import (
	"strings"
	"time"

	"journal/internal/apperr"
)

type Acted string

const (
	ActedYes Acted = "yes"
	ActedNo  Acted = "no"
)

func ParseActed(s string) (Acted, error) {
	switch Acted(strings.ToLower(strings.TrimSpace(s))) {
	case ActedYes:
		return ActedYes, nil
	case ActedNo:
		return ActedNo, nil
	default:
		return "", apperr.Invalid("acted", "must be yes or no")
	}
}

// Log is one recorded urge. Rows are never updated, only deleted.
// Datetime holds the wall clock the user supplied (see WallClock).
type Log struct {
	ID        uint64    `gorm:"primaryKey"`
	Datetime  time.Time `gorm:"type:timestamp;index;not null"`
	Feeling   string    `gorm:"type:text;not null"`
	Acted     Acted     `gorm:"type:varchar(3);not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (Log) TableName() string { return "impulse_logs" }

type NewLog struct {
	Datetime time.Time
	Feeling  string
	Acted    Acted
}

func (in NewLog) Validate() error {
	if strings.TrimSpace(in.Feeling) == "" {
		return apperr.Invalid("feeling", "required")
	}
	if in.Acted != ActedYes && in.Acted != ActedNo {
		return apperr.Invalid("acted", "must be yes or no")
	}
	if in.Datetime.IsZero() {
		return apperr.Invalid("datetime", "required")
	}
	return nil
}
