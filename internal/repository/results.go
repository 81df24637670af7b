package repository

import (
	"context"
	"encoding/json"
	"time"

	"synapse-go/internal/database"
	"synapse-go/internal/games"
	"synapse-go/internal/models"
	"synapse-go/internal/scoring"

	"gorm.io/gorm"
)

// SaveGameResult persists a finished session summary.
func SaveGameResult(ctx context.Context, userID, childID uint, r scoring.GameResult, pointsEarned int) (*models.GameResultRecord, error) {
	record := buildRecord(userID, childID, r, pointsEarned)
	err := database.DB.WithContext(ctx).Create(record).Error
	return record, err
}

// SaveAttentionResultTx saves a Focus Detective summary and all granular
// stimulus/response events in a single transaction.
func SaveAttentionResultTx(ctx context.Context, userID, childID uint, r scoring.GameResult, rep games.AttentionReport, stimuli []games.Stimulus, responses []games.Response, pointsEarned int) (*models.GameResultRecord, error) {
	record := buildRecord(userID, childID, r, pointsEarned)
	record.MaxStreak = rep.MaxStreak
	record.SwitchCostMs = rep.SwitchCostMs
	if raw, err := json.Marshal(rep); err == nil {
		record.RawData = raw
	}

	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		events := make([]models.AttentionEvent, 0, len(stimuli)+len(responses))
		for _, s := range stimuli {
			shape, color := s.Shape, s.Color
			events = append(events, models.AttentionEvent{
				ResultID:   record.ID,
				EventType:  "stimulus",
				StimulusID: s.ID,
				Shape:      &shape,
				Color:      &color,
				OccurredAt: s.ShownAt,
			})
		}
		for _, resp := range responses {
			isTarget, clicked := resp.IsTarget, resp.UserClicked
			events = append(events, models.AttentionEvent{
				ResultID:       record.ID,
				EventType:      "response",
				StimulusID:     resp.StimulusID,
				IsTarget:       &isTarget,
				UserClicked:    &clicked,
				ReactionTimeMs: resp.ReactionTimeMs,
				OccurredAt:     resp.Timestamp,
			})
		}
		if len(events) == 0 {
			return nil
		}
		return tx.Create(&events).Error
	})
	return record, err
}

func buildRecord(userID, childID uint, r scoring.GameResult, pointsEarned int) *models.GameResultRecord {
	return &models.GameResultRecord{
		UserID:          userID,
		ChildID:         childID,
		GameID:          r.GameID,
		DurationSeconds: r.DurationSeconds,
		CorrectAnswers:  r.CorrectAnswers,
		WrongAnswers:    r.WrongAnswers,
		TotalQuestions:  r.TotalQuestions,
		Accuracy:        r.Accuracy,
		MemoryPower:     r.MemoryPower,
		CognitiveScore:  r.CognitiveScore,
		PointsEarned:    pointsEarned,
		CreatedAt:       r.Timestamp,
	}
}

// GetRecentResults lists a child's latest results, newest first.
func GetRecentResults(ctx context.Context, childID uint, limit int) ([]models.GameResultRecord, error) {
	var results []models.GameResultRecord
	err := database.DB.WithContext(ctx).
		Where("child_id = ?", childID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error
	return results, err
}

// BestSequenceLevel derives the highest Sequence Recall level a child has
// reached. Cleared rounds equal correct answers, so level = correct + 1.
func BestSequenceLevel(ctx context.Context, childID uint) (int, error) {
	var best int
	err := database.DB.WithContext(ctx).
		Model(&models.GameResultRecord{}).
		Select("COALESCE(MAX(correct_answers), 0) + 1").
		Where("child_id = ? AND game_id = ?", childID, games.KindSequence).
		Scan(&best).Error
	return best, err
}

// CountPerfectGames counts sessions of a game finished with zero wrong answers.
func CountPerfectGames(ctx context.Context, childID uint, gameID string) (int64, error) {
	var count int64
	err := database.DB.WithContext(ctx).
		Model(&models.GameResultRecord{}).
		Where("child_id = ? AND game_id = ? AND wrong_answers = 0 AND total_questions > 0", childID, gameID).
		Count(&count).Error
	return count, err
}

// CountCompletedGames counts every finished session for a child.
func CountCompletedGames(ctx context.Context, childID uint) (int64, error) {
	var count int64
	err := database.DB.WithContext(ctx).
		Model(&models.GameResultRecord{}).
		Where("child_id = ?", childID).
		Count(&count).Error
	return count, err
}

// BestSwitchCost returns the fastest recorded rule-switch adaptation in ms,
// or 0 when none has been recorded.
func BestSwitchCost(ctx context.Context, childID uint) (float64, error) {
	var best *float64
	err := database.DB.WithContext(ctx).
		Model(&models.GameResultRecord{}).
		Select("MIN(switch_cost_ms)").
		Where("child_id = ? AND switch_cost_ms IS NOT NULL", childID).
		Scan(&best).Error
	if err != nil || best == nil {
		return 0, err
	}
	return *best, nil
}

// BestStreak returns the longest Focus Detective streak on record.
func BestStreak(ctx context.Context, childID uint) (int, error) {
	var best int
	err := database.DB.WithContext(ctx).
		Model(&models.GameResultRecord{}).
		Select("COALESCE(MAX(max_streak), 0)").
		Where("child_id = ?", childID).
		Scan(&best).Error
	return best, err
}

// touchTime keeps a single time source for repository writes that do not
// come from an engine result.
func touchTime() time.Time { return time.Now().UTC() }
