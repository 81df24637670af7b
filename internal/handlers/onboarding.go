package handlers

import (
	"net/http"

	"synapse-go/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// onboardingSteps is the fixed wizard order.
var onboardingSteps = []string{
	"welcome",
	"parent_details",
	"child_profile",
	"concerns",
	"preferences",
}

type OnboardingHandler struct {
	log *zap.Logger
}

func NewOnboardingHandler(log *zap.Logger) *OnboardingHandler {
	return &OnboardingHandler{log: log}
}

// State returns the wizard position and saved answers, creating the state
// row on first visit.
func (h *OnboardingHandler) State(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	state, err := repository.GetOrCreateOnboardingState(c, userID)
	if err != nil {
		h.log.Error("Failed to load onboarding state", zap.Error(err), zap.Uint("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load onboarding"})
		return
	}
	answers, err := repository.GetOnboardingAnswers(c, state.ID)
	if err != nil {
		h.log.Error("Failed to load onboarding answers", zap.Error(err), zap.Uint("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load onboarding"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"steps":          onboardingSteps,
		"currentStep":    state.CurrentStep,
		"completedSteps": state.CompletedSteps,
		"isComplete":     state.IsComplete,
		"answers":        answers,
	})
}

type onboardingAnswerRequest struct {
	QuestionID string `json:"questionId" binding:"required"`
	Value      string `json:"value" binding:"required"`
}

// Answer upserts one wizard answer.
func (h *OnboardingHandler) Answer(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var req onboardingAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "questionId and value are required"})
		return
	}

	state, err := repository.GetOrCreateOnboardingState(c, userID)
	if err != nil {
		h.log.Error("Failed to load onboarding state", zap.Error(err), zap.Uint("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save answer"})
		return
	}
	if err := repository.SaveOnboardingAnswer(c, state.ID, req.QuestionID, req.Value); err != nil {
		h.log.Error("Failed to save onboarding answer", zap.Error(err), zap.Uint("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save answer"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

type onboardingAdvanceRequest struct {
	StepID string `json:"stepId" binding:"required"`
}

// Advance marks the current step done and moves the wizard forward.
// Finishing the last step completes onboarding.
func (h *OnboardingHandler) Advance(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var req onboardingAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stepId is required"})
		return
	}

	stepIndex := -1
	for i, s := range onboardingSteps {
		if s == req.StepID {
			stepIndex = i
			break
		}
	}
	if stepIndex == -1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown step"})
		return
	}

	state, err := repository.GetOrCreateOnboardingState(c, userID)
	if err != nil {
		h.log.Error("Failed to load onboarding state", zap.Error(err), zap.Uint("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to advance"})
		return
	}
	if state.IsComplete {
		c.JSON(http.StatusConflict, gin.H{"error": "onboarding already complete"})
		return
	}
	// Forward navigation only goes one step at a time.
	if stepIndex != state.CurrentStep {
		c.JSON(http.StatusConflict, gin.H{"error": "step out of order"})
		return
	}

	nextStep := stepIndex + 1
	if err := repository.AdvanceOnboarding(c, state, req.StepID, nextStep); err != nil {
		h.log.Error("Failed to advance onboarding", zap.Error(err), zap.Uint("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to advance"})
		return
	}

	if nextStep >= len(onboardingSteps) {
		if err := repository.CompleteOnboarding(c, state); err != nil {
			h.log.Error("Failed to complete onboarding", zap.Error(err), zap.Uint("user_id", userID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to advance"})
			return
		}
		h.log.Info("Onboarding completed", zap.Uint("user_id", userID))
	}

	c.JSON(http.StatusOK, gin.H{
		"currentStep":    state.CurrentStep,
		"completedSteps": state.CompletedSteps,
		"isComplete":     state.IsComplete,
	})
}

// Back steps the wizard cursor one step back. Completed steps stay
// completed; answers already given are kept.
func (h *OnboardingHandler) Back(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	state, err := repository.GetOrCreateOnboardingState(c, userID)
	if err != nil {
		h.log.Error("Failed to load onboarding state", zap.Error(err), zap.Uint("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to go back"})
		return
	}
	if state.IsComplete {
		c.JSON(http.StatusConflict, gin.H{"error": "onboarding already complete"})
		return
	}
	if state.CurrentStep == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "already at first step"})
		return
	}

	if err := repository.SetOnboardingStep(c, state, state.CurrentStep-1); err != nil {
		h.log.Error("Failed to step onboarding back", zap.Error(err), zap.Uint("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to go back"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"currentStep":    state.CurrentStep,
		"completedSteps": state.CompletedSteps,
		"isComplete":     state.IsComplete,
	})
}
