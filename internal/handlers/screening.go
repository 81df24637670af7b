package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"synapse-go/internal/repository"
	"synapse-go/internal/rewards"
	"synapse-go/internal/screening"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScreeningHandler drives the cognitive check-up. One flow is live per
// (user, child) pair; starting again replaces any half-finished attempt.
type ScreeningHandler struct {
	log       *zap.Logger
	def       *screening.Definition
	countdown int

	mu    sync.Mutex
	flows map[string]*screening.Flow
}

func NewScreeningHandler(log *zap.Logger, def *screening.Definition, countdownSeconds int) *ScreeningHandler {
	return &ScreeningHandler{
		log:       log,
		def:       def,
		countdown: countdownSeconds,
		flows:     make(map[string]*screening.Flow),
	}
}

func flowKey(userID, childID uint) string {
	return fmt.Sprintf("%d:%d", userID, childID)
}

func (h *ScreeningHandler) getFlow(userID, childID uint) *screening.Flow {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.flows[flowKey(userID, childID)]
}

type screeningChildRequest struct {
	ChildID uint `json:"childId" binding:"required"`
}

// Start opens a fresh flow at the orientation section.
func (h *ScreeningHandler) Start(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var req screeningChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "childId is required"})
		return
	}
	if _, err := repository.GetChildProfile(c, userID, req.ChildID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "child profile not found"})
		return
	}

	flow := screening.NewFlow(h.def, h.countdown)
	h.mu.Lock()
	h.flows[flowKey(userID, req.ChildID)] = flow
	h.mu.Unlock()

	h.log.Info("Screening started", zap.Uint("child_id", req.ChildID))
	c.JSON(http.StatusCreated, h.sectionView(flow))
}

// State returns the current section for a live flow.
func (h *ScreeningHandler) State(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	childID, ok := queryChildID(c)
	if !ok {
		return
	}

	flow := h.getFlow(userID, childID)
	if flow == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no screening in progress"})
		return
	}
	c.JSON(http.StatusOK, h.sectionView(flow))
}

type screeningAnswerRequest struct {
	ChildID uint   `json:"childId" binding:"required"`
	Kind    string `json:"kind" binding:"required"`

	QuestionID string   `json:"questionId"`
	Value      string   `json:"value"`
	Words      []string `json:"words"`
	Values     []string `json:"values"`
	Data       string   `json:"data"`
	Matches    *int     `json:"matches"`
}

// Answer records one answer into the live flow. The kind field picks the
// answer slot; unmatched fields are ignored.
func (h *ScreeningHandler) Answer(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var req screeningAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "childId and kind are required"})
		return
	}

	flow := h.getFlow(userID, req.ChildID)
	if flow == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no screening in progress"})
		return
	}

	switch req.Kind {
	case "orientation":
		flow.SetOrientation(req.QuestionID, req.Value)
	case "recall":
		flow.SetRecall(req.Words)
	case "serial7":
		flow.SetSerial7(req.Values)
	case "language":
		flow.SetLanguage(req.QuestionID, req.Value)
	case "clock":
		flow.SetClockDrawing(req.Data)
	case "pattern":
		if req.Matches == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "matches is required"})
			return
		}
		flow.SetPatternMatches(*req.Matches)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown answer kind"})
		return
	}

	c.JSON(http.StatusOK, h.sectionView(flow))
}

// Tick counts the registration timer down one second.
func (h *ScreeningHandler) Tick(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var req screeningChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "childId is required"})
		return
	}

	flow := h.getFlow(userID, req.ChildID)
	if flow == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no screening in progress"})
		return
	}

	remaining := flow.RegistrationTick()
	c.JSON(http.StatusOK, gin.H{
		"countdown":    remaining,
		"wordsVisible": flow.WordsVisible(),
	})
}

// Next advances the flow. Leaving the final section scores the screening,
// stores the baseline and tears the flow down.
func (h *ScreeningHandler) Next(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var req screeningChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "childId is required"})
		return
	}

	flow := h.getFlow(userID, req.ChildID)
	if flow == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no screening in progress"})
		return
	}

	if err := flow.Next(); err != nil {
		switch {
		case errors.Is(err, screening.ErrSectionIncomplete):
			c.JSON(http.StatusConflict, gin.H{"error": "answer the current section first"})
		case errors.Is(err, screening.ErrFlowComplete):
			c.JSON(http.StatusConflict, gin.H{"error": "screening already complete"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	if !flow.Done() {
		c.JSON(http.StatusOK, h.sectionView(flow))
		return
	}
	h.complete(c, userID, req.ChildID, flow)
}

// Prev steps back one section, keeping answers.
func (h *ScreeningHandler) Prev(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var req screeningChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "childId is required"})
		return
	}

	flow := h.getFlow(userID, req.ChildID)
	if flow == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no screening in progress"})
		return
	}

	if err := flow.Prev(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.sectionView(flow))
}

func (h *ScreeningHandler) complete(c *gin.Context, userID, childID uint, flow *screening.Flow) {
	total, breakdown := flow.Score()
	severity := screening.SeverityFromScore(total)

	baseline, err := repository.SaveBaseline(c, userID, childID, breakdown, string(severity))
	if err != nil {
		h.log.Error("Failed to save screening baseline", zap.Error(err), zap.Uint("child_id", childID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save screening"})
		return
	}

	h.mu.Lock()
	delete(h.flows, flowKey(userID, childID))
	h.mu.Unlock()

	// The check-up badge and its bonus points ride on the same save.
	awarded, err := repository.AwardBadges(c, userID, childID, []string{"baseline_done"})
	if err != nil {
		h.log.Error("Failed to award screening badge", zap.Error(err), zap.Uint("child_id", childID))
	}
	for _, key := range awarded {
		def := rewards.Badges[key]
		if err := repository.AddPoints(c, userID, childID, "badge", def.Points); err != nil {
			h.log.Error("Failed to record badge bonus points", zap.Error(err), zap.String("badge", key))
		}
	}

	h.log.Info("Screening completed",
		zap.Uint("child_id", childID),
		zap.Int("score", total),
		zap.String("severity", string(severity)),
	)
	c.JSON(http.StatusOK, gin.H{
		"score":     total,
		"maxScore":  screening.MaxScore,
		"severity":  severity,
		"breakdown": breakdown,
		"savedAt":   baseline.CreatedAt,
		"newBadges": awarded,
	})
}

// sectionView shapes the current section for the client. Registration words
// are included only while the countdown still shows them.
func (h *ScreeningHandler) sectionView(flow *screening.Flow) gin.H {
	section := flow.Section()
	view := gin.H{
		"sectionId":  section.ID,
		"title":      section.Title,
		"index":      flow.Index(),
		"total":      len(h.def.Sections),
		"canAdvance": flow.CanAdvance(),
	}

	// Expected answers never leave the server.
	if len(section.Questions) > 0 {
		questions := make([]gin.H, len(section.Questions))
		for i, q := range section.Questions {
			questions[i] = gin.H{"id": q.ID, "prompt": q.Prompt, "options": q.Options}
		}
		view["questions"] = questions
	}

	switch section.ID {
	case screening.SectionRegistration:
		view["countdown"] = flow.Countdown()
		view["wordsVisible"] = flow.WordsVisible()
		if flow.WordsVisible() {
			view["words"] = section.Words
		}
	case screening.SectionAttention:
		view["steps"] = len(section.Serial7)
	case screening.SectionRecall:
		view["expectedCount"] = len(section.Words)
	}
	return view
}

func queryChildID(c *gin.Context) (uint, bool) {
	var query struct {
		ChildID uint `form:"childId" binding:"required"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "childId query parameter is required"})
		return 0, false
	}
	return query.ChildID, true
}
