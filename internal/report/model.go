package report

import (
	"time"

	"journal/internal/stats"

	"gorm.io/datatypes"
)

// Report is a generated weekly narrative. Rows are never updated.
type Report struct {
	ID        uint64                            `gorm:"primaryKey" json:"id"`
	WeekStart time.Time                         `gorm:"type:timestamp;not null" json:"week_start"`
	WeekEnd   time.Time                         `gorm:"type:timestamp;not null" json:"week_end"`
	Content   string                            `gorm:"type:text;not null" json:"content"`
	Stats     datatypes.JSONType[stats.Summary] `json:"stats"`
	CreatedAt time.Time                         `gorm:"index;not null" json:"created_at"`
}

func (Report) TableName() string { return "weekly_reports" }
