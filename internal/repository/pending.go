package repository

import (
	"context"
	"encoding/json"

	"synapse-go/internal/database"
	"synapse-go/internal/models"
)

// SavePendingReport parks an undeliverable backend payload for later
// inspection. Delivery is not retried automatically.
func SavePendingReport(ctx context.Context, userID uint, kind string, payload json.RawMessage) error {
	return database.DB.WithContext(ctx).Create(&models.PendingReport{
		UserID:    userID,
		Kind:      kind,
		Payload:   payload,
		CreatedAt: touchTime(),
	}).Error
}

// ListPendingReports lists a user's parked payloads, oldest first.
func ListPendingReports(ctx context.Context, userID uint) ([]models.PendingReport, error) {
	var reports []models.PendingReport
	err := database.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&reports).Error
	return reports, err
}
