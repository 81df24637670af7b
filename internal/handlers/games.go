package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"synapse-go/internal/games"
	"synapse-go/internal/reporting"
	"synapse-go/internal/repository"
	"synapse-go/internal/rewards"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// totalGameModules is the number of distinct game modules counted toward
// the all-modules badge.
const totalGameModules = 4

type GamesHandler struct {
	log      *zap.Logger
	manager  *games.Manager
	reporter *reporting.Client
}

func NewGamesHandler(log *zap.Logger, manager *games.Manager, reporter *reporting.Client) *GamesHandler {
	return &GamesHandler{log: log, manager: manager, reporter: reporter}
}

type startGameRequest struct {
	ChildID uint `json:"childId" binding:"required"`
}

// Start opens a new session of the kind named in the route.
func (h *GamesHandler) Start(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var req startGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "childId is required"})
		return
	}
	if _, err := repository.GetChildProfile(c, userID, req.ChildID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "child profile not found"})
		return
	}

	kind := games.Kind(c.Param("kind"))
	var s *games.Session
	switch kind {
	case games.KindSequence:
		s = h.manager.StartSequence(userID, req.ChildID)
	case games.KindPairs:
		s = h.manager.StartPairs(userID, req.ChildID)
	case games.KindStory:
		s = h.manager.StartStory(userID, req.ChildID)
	case games.KindAttention:
		s = h.manager.StartAttention(userID, req.ChildID)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown game"})
		return
	}

	h.log.Info("Game session started",
		zap.String("session_id", s.ID),
		zap.String("kind", string(kind)),
		zap.Uint("child_id", req.ChildID),
	)
	h.renderSnapshot(c, s.ID, http.StatusCreated)
}

// State returns the current snapshot of a live session.
func (h *GamesHandler) State(c *gin.Context) {
	if !h.authorizeSession(c) {
		return
	}
	h.renderSnapshot(c, c.Param("id"), http.StatusOK)
}

func (h *GamesHandler) renderSnapshot(c *gin.Context, id string, status int) {
	s, err := h.manager.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	var view any
	switch s.Kind {
	case games.KindSequence:
		view, err = h.manager.SequenceSnapshot(id)
	case games.KindPairs:
		view, err = h.manager.PairsSnapshot(id)
	case games.KindStory:
		view, err = h.manager.StorySnapshot(id)
	case games.KindAttention:
		view, err = h.manager.AttentionSnapshot(id)
	}
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(status, gin.H{"kind": s.Kind, "view": view})
}

// authorizeSession checks the session exists and belongs to the caller.
func (h *GamesHandler) authorizeSession(c *gin.Context) bool {
	userID := c.MustGet("userID").(uint)
	s, err := h.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return false
	}
	if s.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your session"})
		return false
	}
	return true
}

type tapRequest struct {
	Color *int `json:"color" binding:"required"`
}

func (h *GamesHandler) Tap(c *gin.Context) {
	if !h.authorizeSession(c) {
		return
	}
	var req tapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "color is required"})
		return
	}

	outcome, err := h.manager.TapSequence(c.Param("id"), *req.Color)
	if err != nil {
		h.renderGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcome": outcome})
}

type flipRequest struct {
	CardID *int `json:"cardId" binding:"required"`
}

func (h *GamesHandler) Flip(c *gin.Context) {
	if !h.authorizeSession(c) {
		return
	}
	var req flipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cardId is required"})
		return
	}

	outcome, err := h.manager.FlipPairs(c.Param("id"), *req.CardID)
	if err != nil {
		h.renderGameError(c, err)
		return
	}
	view, _ := h.manager.PairsSnapshot(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"outcome": outcome, "view": view})
}

type pickRequest struct {
	PanelID *int `json:"panelId" binding:"required"`
}

func (h *GamesHandler) Pick(c *gin.Context) {
	if !h.authorizeSession(c) {
		return
	}
	var req pickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "panelId is required"})
		return
	}

	complete, err := h.manager.PickStory(c.Param("id"), *req.PanelID)
	if err != nil {
		h.renderGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"complete": complete})
}

type stimulusRequest struct {
	ID    string `json:"id" binding:"required"`
	Shape string `json:"shape" binding:"required"`
	Color string `json:"color" binding:"required"`
	Size  int    `json:"size"`
}

// Present registers a stimulus the client has just drawn on screen.
func (h *GamesHandler) Present(c *gin.Context) {
	if !h.authorizeSession(c) {
		return
	}
	var req stimulusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id, shape and color are required"})
		return
	}

	err := h.manager.PresentAttention(c.Param("id"), games.Stimulus{
		ID:    req.ID,
		Shape: req.Shape,
		Color: req.Color,
		Size:  req.Size,
	})
	if err != nil {
		h.renderGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "presented"})
}

type stimulusRefRequest struct {
	StimulusID string `json:"stimulusId" binding:"required"`
}

func (h *GamesHandler) Click(c *gin.Context) {
	if !h.authorizeSession(c) {
		return
	}
	var req stimulusRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stimulusId is required"})
		return
	}

	outcome, err := h.manager.ClickAttention(c.Param("id"), req.StimulusID)
	if err != nil {
		h.renderGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (h *GamesHandler) Expire(c *gin.Context) {
	if !h.authorizeSession(c) {
		return
	}
	var req stimulusRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stimulusId is required"})
		return
	}

	if err := h.manager.ExpireAttention(c.Param("id"), req.StimulusID); err != nil {
		h.renderGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "expired"})
}

// Abandon tears down a session the player walked away from. Nothing is
// scored or persisted.
func (h *GamesHandler) Abandon(c *gin.Context) {
	if !h.authorizeSession(c) {
		return
	}
	if err := h.manager.Abandon(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "abandoned"})
}

// Finish freezes an ended session, persists its result, awards points and
// badges, and pushes the score to the analytics backend in the background.
func (h *GamesHandler) Finish(c *gin.Context) {
	if !h.authorizeSession(c) {
		return
	}

	f, err := h.manager.Finalize(c.Param("id"))
	if err != nil {
		if errors.Is(err, games.ErrSessionNotEnded) {
			c.JSON(http.StatusConflict, gin.H{"error": "game still in progress"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	if f.Kind == games.KindAttention {
		_, err = repository.SaveAttentionResultTx(c, f.UserID, f.ChildID, f.Result, *f.Report, f.Stimuli, f.Responses, f.PointsEarned)
	} else {
		_, err = repository.SaveGameResult(c, f.UserID, f.ChildID, f.Result, f.PointsEarned)
	}
	if err != nil {
		h.log.Error("Failed to save game result",
			zap.Error(err),
			zap.String("session_id", f.SessionID),
			zap.String("kind", string(f.Kind)),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save result"})
		return
	}

	if err := repository.AddPoints(c, f.UserID, f.ChildID, f.Result.GameID, f.PointsEarned); err != nil {
		h.log.Error("Failed to record points", zap.Error(err), zap.Uint("child_id", f.ChildID))
	}
	if err := repository.MarkModuleComplete(c, f.UserID, f.ChildID, f.Result.GameID); err != nil {
		h.log.Error("Failed to mark module complete", zap.Error(err), zap.Uint("child_id", f.ChildID))
	}

	newBadges := h.evaluateBadges(c, f.UserID, f.ChildID)

	go h.reportScore(f)

	resp := gin.H{
		"result":    f.Result,
		"points":    f.PointsEarned,
		"newBadges": newBadges,
	}
	if f.Report != nil {
		resp["report"] = f.Report
	}
	if f.Kind == games.KindStory {
		resp["celebration"] = f.Celebration
	}
	c.JSON(http.StatusOK, resp)
}

// evaluateBadges recomputes the badge stats from storage and awards
// anything newly earned, including the badge bonus points. Badge failures
// never fail the game save; they are logged and skipped.
func (h *GamesHandler) evaluateBadges(c *gin.Context, userID, childID uint) []string {
	stats, err := h.collectStats(c, childID)
	if err != nil {
		h.log.Error("Failed to collect badge stats", zap.Error(err), zap.Uint("child_id", childID))
		return nil
	}

	earned := rewards.CheckBadges(stats)
	awarded, err := repository.AwardBadges(c, userID, childID, earned)
	if err != nil {
		h.log.Error("Failed to award badges", zap.Error(err), zap.Uint("child_id", childID))
		return awarded
	}
	for _, key := range awarded {
		def := rewards.Badges[key]
		if err := repository.AddPoints(c, userID, childID, "badge", def.Points); err != nil {
			h.log.Error("Failed to record badge bonus points", zap.Error(err), zap.String("badge", key))
		}
	}
	return awarded
}

func (h *GamesHandler) collectStats(c *gin.Context, childID uint) (rewards.Stats, error) {
	var stats rewards.Stats

	completed, err := repository.CountCompletedGames(c, childID)
	if err != nil {
		return stats, err
	}
	stats.GamesCompleted = int(completed)

	modules, err := repository.CompletedModules(c, childID)
	if err != nil {
		return stats, err
	}
	stats.ModulesCompleted = len(modules)
	stats.TotalModules = totalGameModules

	if stats.TotalPoints, err = repository.TotalPoints(c, childID); err != nil {
		return stats, err
	}

	perfectPairs, err := repository.CountPerfectGames(c, childID, string(games.KindPairs))
	if err != nil {
		return stats, err
	}
	stats.PerfectPairs = int(perfectPairs)

	perfectStories, err := repository.CountPerfectGames(c, childID, string(games.KindStory))
	if err != nil {
		return stats, err
	}
	stats.PerfectStories = int(perfectStories)

	if stats.BestSequenceLevel, err = repository.BestSequenceLevel(c, childID); err != nil {
		return stats, err
	}
	if stats.BestSwitchCostMs, err = repository.BestSwitchCost(c, childID); err != nil {
		return stats, err
	}
	if stats.BestStreak, err = repository.BestStreak(c, childID); err != nil {
		return stats, err
	}

	baseline, err := repository.GetLatestBaseline(c, childID)
	if err != nil {
		return stats, err
	}
	stats.BaselineRecorded = baseline != nil

	return stats, nil
}

// reportScore runs off the request path; a slow or down backend must not
// hold up the completion screen.
func (h *GamesHandler) reportScore(f *games.FinalizedGame) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	outcome := h.reporter.SendGameScore(ctx, f.UserID, reporting.GameScorePayload{
		UserID:         fmt.Sprintf("%d", f.UserID),
		GameID:         f.Result.GameID,
		Score:          float64(f.PointsEarned),
		Accuracy:       f.Result.Accuracy,
		MemoryPower:    f.Result.MemoryPower,
		CognitiveScore: f.Result.CognitiveScore,
		DurationSecs:   f.Result.DurationSeconds,
		Timestamp:      f.Result.Timestamp.Format(time.RFC3339),
	})
	h.log.Info("Game score reported",
		zap.String("kind", string(f.Kind)),
		zap.String("outcome", outcome.String()),
	)
}

func (h *GamesHandler) renderGameError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, games.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, games.ErrNotAcceptingInput),
		errors.Is(err, games.ErrSessionEnded),
		errors.Is(err, games.ErrPanelAlreadyPicked),
		errors.Is(err, games.ErrStimulusNotLive):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, games.ErrUnknownCard), errors.Is(err, games.ErrUnknownPanel):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error("Unexpected game error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
