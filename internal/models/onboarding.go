package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// OnboardingState tracks a parent's progress through the setup wizard.
// Steps are fixed and linear; CompletedSteps gates forward navigation.
type OnboardingState struct {
	ID             uint `gorm:"primaryKey"`
	UserID         uint
	User           User `gorm:"foreignKey:UserID"`
	CurrentStep    int
	CompletedSteps pq.StringArray `gorm:"type:text[]"`
	IsComplete     bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OnboardingAnswer is one wizard answer, keyed by step and question.
type OnboardingAnswer struct {
	gorm.Model
	StateID     uint
	State       OnboardingState `gorm:"foreignKey:StateID"`
	QuestionID  string
	AnswerValue string
}
