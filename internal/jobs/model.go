package jobs

import "time"

const (
	TypeWeeklyReport = "WEEKLY_REPORT"

	StatusPending = "PENDING"
	StatusRunning = "RUNNING"
	StatusDone    = "DONE"
	StatusFailed  = "FAILED"
)

type Job struct {
	ID uint64 `gorm:"primaryKey"`

	Type string `gorm:"type:text;not null"` // WEEKLY_REPORT

	RunAt  time.Time `gorm:"index;not null"`
	Status string    `gorm:"type:text;index;not null"` // PENDING/RUNNING/DONE/FAILED

	Attempts    int `gorm:"not null"`
	MaxAttempts int `gorm:"not null"`

	LockedBy *string `gorm:"type:text"`
	LockedAt *time.Time

	LastError *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
