package handlers

import (
	"net/http"

	"synapse-go/internal/repository"
	"synapse-go/internal/rewards"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RewardsHandler struct {
	log *zap.Logger
}

func NewRewardsHandler(log *zap.Logger) *RewardsHandler {
	return &RewardsHandler{log: log}
}

// Show returns the rewards screen data: point total, earned badges and the
// full badge catalog so locked badges can be rendered greyed out.
func (h *RewardsHandler) Show(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	childID, ok := queryChildID(c)
	if !ok {
		return
	}
	if _, err := repository.GetChildProfile(c, userID, childID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "child profile not found"})
		return
	}

	totalPoints, err := repository.TotalPoints(c, childID)
	if err != nil {
		h.log.Error("Failed to sum points", zap.Error(err), zap.Uint("child_id", childID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load rewards"})
		return
	}
	earnedKeys, err := repository.EarnedBadges(c, childID)
	if err != nil {
		h.log.Error("Failed to list badges", zap.Error(err), zap.Uint("child_id", childID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load rewards"})
		return
	}

	earned := make(map[string]bool, len(earnedKeys))
	for _, k := range earnedKeys {
		earned[k] = true
	}

	catalog := make([]gin.H, 0, len(rewards.Badges))
	for key, def := range rewards.Badges {
		catalog = append(catalog, gin.H{
			"key":         key,
			"name":        def.Name,
			"description": def.Description,
			"points":      def.Points,
			"earned":      earned[key],
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"totalPoints": totalPoints,
		"badges":      catalog,
	})
}
