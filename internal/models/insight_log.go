package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// InsightLog is one answered question, kept for the analyst's diary. The
// table is service-owned (see migrations/), not part of the rebuilt mart.
type InsightLog struct {
	ID          uuid.UUID      `gorm:"type:text;primaryKey" json:"id"`
	Question    string         `gorm:"not null" json:"question"`
	Mode        string         `gorm:"not null" json:"mode"`
	InsightText string         `json:"insight_text"`
	Params      datatypes.JSON `json:"params"`
	ChartSpec   datatypes.JSON `json:"chart_spec,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (InsightLog) TableName() string {
	return "insight_log"
}
