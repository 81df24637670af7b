package models

import "time"

// MoodEntry is one mood-check answer. Score maps the mood to a 1-5 scale
// so the dashboard can chart it against game performance.
type MoodEntry struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint
	ChildID   uint
	Mood      string
	Score     int
	Note      string
	CreatedAt time.Time
}
