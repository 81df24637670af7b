package repository

import (
	"context"
	"fmt"
	"time"

	"synapse-go/internal/database"
)

type TimelineDataPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

type CorrelationDataPoint struct {
	MetricValue float64 `json:"metricValue"`
	MoodScore   float64 `json:"moodScore"`
}

// getMetricsCTE flattens game summaries and mood entries into one
// (child_id, created_at, metric_key, metric_value) stream for charting.
func getMetricsCTE() string {
	return `
	WITH all_metrics AS (
		SELECT child_id, game_id, created_at, 'accuracy' AS metric_key, accuracy AS metric_value FROM game_result_records UNION ALL
		SELECT child_id, game_id, created_at, 'memory_power' AS metric_key, memory_power AS metric_value FROM game_result_records UNION ALL
		SELECT child_id, game_id, created_at, 'cognitive_score' AS metric_key, cognitive_score AS metric_value FROM game_result_records UNION ALL
		SELECT child_id, game_id, created_at, 'duration' AS metric_key, duration_seconds AS metric_value FROM game_result_records UNION ALL
		SELECT child_id, game_id, created_at, 'points' AS metric_key, points_earned::float AS metric_value FROM game_result_records UNION ALL
		SELECT child_id, game_id, created_at, 'switch_cost' AS metric_key, switch_cost_ms AS metric_value FROM game_result_records WHERE switch_cost_ms IS NOT NULL UNION ALL
		SELECT child_id, 'mood' AS game_id, created_at, 'mood_score' AS metric_key, score::float AS metric_value FROM mood_entries
	)
	`
}

// GetTimelineData returns one metric of one game over time for a child.
func GetTimelineData(ctx context.Context, childID uint, gameID, metricKey string) ([]TimelineDataPoint, error) {
	var data []TimelineDataPoint
	query := fmt.Sprintf(`
		%s
		SELECT created_at AS date, metric_value AS value
		FROM all_metrics
		WHERE child_id = ? AND game_id = ? AND metric_key = ?
		ORDER BY created_at;
	`, getMetricsCTE())

	err := database.DB.WithContext(ctx).Raw(query, childID, gameID, metricKey).Scan(&data).Error
	return data, err
}

// GetMoodCorrelationData pairs each game metric sample with the closest
// mood entry from the same day, for scatter plotting.
func GetMoodCorrelationData(ctx context.Context, childID uint, gameID, metricKey string) ([]CorrelationDataPoint, error) {
	var data []CorrelationDataPoint
	query := fmt.Sprintf(`
		%s
		SELECT
			task.metric_value AS metric_value,
			mood.metric_value AS mood_score
		FROM
			(SELECT child_id, created_at, metric_value FROM all_metrics WHERE game_id = ? AND metric_key = ?) AS task
		JOIN
			(SELECT child_id, created_at, metric_value FROM all_metrics WHERE metric_key = 'mood_score') AS mood
			ON task.child_id = mood.child_id AND task.created_at::date = mood.created_at::date
		WHERE task.child_id = ?;
	`, getMetricsCTE())

	err := database.DB.WithContext(ctx).Raw(query, gameID, metricKey, childID).Scan(&data).Error
	return data, err
}
