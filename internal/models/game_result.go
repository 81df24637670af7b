package models

import (
	"encoding/json"
	"time"
)

// GameResultRecord is the persisted form of one completed game session.
type GameResultRecord struct {
	ID              uint `gorm:"primaryKey"`
	UserID          uint
	ChildID         uint
	GameID          string
	DurationSeconds float64
	CorrectAnswers  int
	WrongAnswers    int
	TotalQuestions  int
	Accuracy        float64
	MemoryPower     float64
	CognitiveScore  float64
	PointsEarned    int
	MaxStreak       int
	SwitchCostMs    *float64
	RawData         json.RawMessage `gorm:"type:jsonb"`
	CreatedAt       time.Time
}

// AttentionEvent is one granular stimulus or response row from a Focus
// Detective session, kept alongside the summary for later analysis.
type AttentionEvent struct {
	ID             uint `gorm:"primaryKey"`
	ResultID       uint
	EventType      string // 'stimulus' or 'response'
	StimulusID     string
	Shape          *string
	Color          *string
	IsTarget       *bool
	UserClicked    *bool
	ReactionTimeMs *float64
	OccurredAt     time.Time
}
