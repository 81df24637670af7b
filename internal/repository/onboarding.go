package repository

import (
	"context"
	"errors"

	"synapse-go/internal/database"
	"synapse-go/internal/models"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GetOrCreateOnboardingState returns the user's wizard state, creating a
// fresh one on first visit.
func GetOrCreateOnboardingState(ctx context.Context, userID uint) (*models.OnboardingState, error) {
	var state models.OnboardingState
	err := database.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		First(&state).Error
	if err == nil {
		return &state, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	state = models.OnboardingState{
		UserID:         userID,
		CurrentStep:    0,
		CompletedSteps: pq.StringArray{},
	}
	err = database.DB.WithContext(ctx).Create(&state).Error
	return &state, err
}

// AdvanceOnboarding marks a step completed and moves the cursor. Steps
// already in CompletedSteps are not duplicated.
func AdvanceOnboarding(ctx context.Context, state *models.OnboardingState, stepID string, nextStep int) error {
	done := false
	for _, s := range state.CompletedSteps {
		if s == stepID {
			done = true
			break
		}
	}
	if !done {
		state.CompletedSteps = append(state.CompletedSteps, stepID)
	}
	state.CurrentStep = nextStep
	return database.DB.WithContext(ctx).Save(state).Error
}

// SetOnboardingStep moves the wizard cursor without touching the
// completed-steps set.
func SetOnboardingStep(ctx context.Context, state *models.OnboardingState, step int) error {
	state.CurrentStep = step
	return database.DB.WithContext(ctx).Save(state).Error
}

// CompleteOnboarding finishes the wizard.
func CompleteOnboarding(ctx context.Context, state *models.OnboardingState) error {
	state.IsComplete = true
	return database.DB.WithContext(ctx).Save(state).Error
}

// SaveOnboardingAnswer upserts one wizard answer by question id.
func SaveOnboardingAnswer(ctx context.Context, stateID uint, questionID, answerValue string) error {
	var answer models.OnboardingAnswer
	err := database.DB.WithContext(ctx).
		Where("state_id = ? AND question_id = ?", stateID, questionID).
		First(&answer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.DB.WithContext(ctx).Create(&models.OnboardingAnswer{
			StateID:     stateID,
			QuestionID:  questionID,
			AnswerValue: answerValue,
		}).Error
	}
	if err != nil {
		return err
	}
	answer.AnswerValue = answerValue
	return database.DB.WithContext(ctx).Save(&answer).Error
}

// GetOnboardingAnswers returns the saved answers keyed by question id.
func GetOnboardingAnswers(ctx context.Context, stateID uint) (map[string]string, error) {
	var answers []models.OnboardingAnswer
	err := database.DB.WithContext(ctx).
		Where("state_id = ?", stateID).
		Find(&answers).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(answers))
	for _, a := range answers {
		out[a.QuestionID] = a.AnswerValue
	}
	return out, nil
}
