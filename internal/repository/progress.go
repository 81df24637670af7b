package repository

import (
	"context"
	"errors"

	"synapse-go/internal/database"
	"synapse-go/internal/models"

	"gorm.io/gorm"
)

// MarkModuleComplete records a module as done for a child. Idempotent: a
// second completion of the same module is not duplicated.
func MarkModuleComplete(ctx context.Context, userID, childID uint, moduleID string) error {
	var existing models.ModuleProgress
	err := database.DB.WithContext(ctx).
		Where("child_id = ? AND module_id = ?", childID, moduleID).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return database.DB.WithContext(ctx).Create(&models.ModuleProgress{
		UserID:      userID,
		ChildID:     childID,
		ModuleID:    moduleID,
		CompletedAt: touchTime(),
	}).Error
}

// CompletedModules lists the module ids a child has finished.
func CompletedModules(ctx context.Context, childID uint) ([]string, error) {
	var ids []string
	err := database.DB.WithContext(ctx).
		Model(&models.ModuleProgress{}).
		Where("child_id = ?", childID).
		Order("completed_at").
		Pluck("module_id", &ids).Error
	return ids, err
}

// AddPoints appends one award to the points ledger.
func AddPoints(ctx context.Context, userID, childID uint, gameID string, points int) error {
	if points <= 0 {
		return nil
	}
	return database.DB.WithContext(ctx).Create(&models.PointsEntry{
		UserID:    userID,
		ChildID:   childID,
		GameID:    gameID,
		Points:    points,
		CreatedAt: touchTime(),
	}).Error
}

// TotalPoints sums the ledger for a child.
func TotalPoints(ctx context.Context, childID uint) (int, error) {
	var total int
	err := database.DB.WithContext(ctx).
		Model(&models.PointsEntry{}).
		Select("COALESCE(SUM(points), 0)").
		Where("child_id = ?", childID).
		Scan(&total).Error
	return total, err
}

// EarnedBadges lists the badge keys already awarded to a child.
func EarnedBadges(ctx context.Context, childID uint) ([]string, error) {
	var keys []string
	err := database.DB.WithContext(ctx).
		Model(&models.BadgeAward{}).
		Where("child_id = ?", childID).
		Order("awarded_at").
		Pluck("badge_key", &keys).Error
	return keys, err
}

// AwardBadges stores newly earned badges, skipping any already held.
func AwardBadges(ctx context.Context, userID, childID uint, keys []string) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	held, err := EarnedBadges(ctx, childID)
	if err != nil {
		return nil, err
	}
	heldSet := make(map[string]bool, len(held))
	for _, k := range held {
		heldSet[k] = true
	}

	var awarded []string
	for _, k := range keys {
		if heldSet[k] {
			continue
		}
		err := database.DB.WithContext(ctx).Create(&models.BadgeAward{
			UserID:    userID,
			ChildID:   childID,
			BadgeKey:  k,
			AwardedAt: touchTime(),
		}).Error
		if err != nil {
			return awarded, err
		}
		awarded = append(awarded, k)
	}
	return awarded, nil
}
