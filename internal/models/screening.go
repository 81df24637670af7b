package models

import (
	"encoding/json"
	"time"
)

// ScreeningBaseline is the stored snapshot of a completed cognitive
// screening: the score, its severity band, and the per-section breakdown.
type ScreeningBaseline struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint
	ChildID   uint
	Score     int
	MaxScore  int
	Severity  string
	Breakdown json.RawMessage `gorm:"type:jsonb"`
	CreatedAt time.Time
}
