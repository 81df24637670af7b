package handlers

import (
	"net/http"

	"synapse-go/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MoodHandler struct {
	log *zap.Logger
}

func NewMoodHandler(log *zap.Logger) *MoodHandler {
	return &MoodHandler{log: log}
}

type moodRequest struct {
	ChildID uint   `json:"childId" binding:"required"`
	Mood    string `json:"mood" binding:"required"`
	Note    string `json:"note"`
}

// Record saves one mood check.
func (h *MoodHandler) Record(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var req moodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "childId and mood are required"})
		return
	}
	if _, err := repository.GetChildProfile(c, userID, req.ChildID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "child profile not found"})
		return
	}

	entry, err := repository.SaveMoodEntry(c, userID, req.ChildID, req.Mood, req.Note)
	if err != nil {
		h.log.Error("Failed to save mood entry", zap.Error(err), zap.Uint("child_id", req.ChildID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save mood"})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// Recent lists the latest mood entries for a child.
func (h *MoodHandler) Recent(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	childID, ok := queryChildID(c)
	if !ok {
		return
	}
	if _, err := repository.GetChildProfile(c, userID, childID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "child profile not found"})
		return
	}

	entries, err := repository.GetRecentMoods(c, childID, 30)
	if err != nil {
		h.log.Error("Failed to list mood entries", zap.Error(err), zap.Uint("child_id", childID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load moods"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
