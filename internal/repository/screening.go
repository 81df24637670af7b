package repository

import (
	"context"
	"encoding/json"

	"synapse-go/internal/database"
	"synapse-go/internal/models"
	"synapse-go/internal/screening"
)

// SaveBaseline stores a completed screening snapshot with its breakdown.
func SaveBaseline(ctx context.Context, userID, childID uint, b screening.Breakdown, severity string) (*models.ScreeningBaseline, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	baseline := &models.ScreeningBaseline{
		UserID:    userID,
		ChildID:   childID,
		Score:     b.Total(),
		MaxScore:  screening.MaxScore,
		Severity:  severity,
		Breakdown: raw,
		CreatedAt: touchTime(),
	}
	err = database.DB.WithContext(ctx).Create(baseline).Error
	return baseline, err
}

// GetLatestBaseline returns a child's most recent screening, or nil when
// none has been taken yet.
func GetLatestBaseline(ctx context.Context, childID uint) (*models.ScreeningBaseline, error) {
	var baselines []models.ScreeningBaseline
	err := database.DB.WithContext(ctx).
		Where("child_id = ?", childID).
		Order("created_at DESC").
		Limit(1).
		Find(&baselines).Error
	if err != nil || len(baselines) == 0 {
		return nil, err
	}
	return &baselines[0], nil
}
