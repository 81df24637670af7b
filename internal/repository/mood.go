package repository

import (
	"context"
	"time"

	"synapse-go/internal/database"
	"synapse-go/internal/models"
)

// moodScores maps each mood choice to the 1-5 scale used for charting.
var moodScores = map[string]int{
	"very_sad":   1,
	"sad":        2,
	"okay":       3,
	"happy":      4,
	"very_happy": 5,
}

// SaveMoodEntry records one mood check. An unknown mood string is stored
// with a neutral score so the timeline never gets a zero hole.
func SaveMoodEntry(ctx context.Context, userID, childID uint, mood, note string) (*models.MoodEntry, error) {
	score, ok := moodScores[mood]
	if !ok {
		score = 3
	}
	entry := &models.MoodEntry{
		UserID:    userID,
		ChildID:   childID,
		Mood:      mood,
		Score:     score,
		Note:      note,
		CreatedAt: touchTime(),
	}
	err := database.DB.WithContext(ctx).Create(entry).Error
	return entry, err
}

// GetUsersForMoodReminder lists accounts whose reminder time matches the
// given UTC "HH:MM".
func GetUsersForMoodReminder(currentTime string) ([]models.User, error) {
	var users []models.User
	err := database.DB.
		Where("reminder_time = ?", currentTime).
		Find(&users).Error
	return users, err
}

// HasMoodEntryToday reports whether any of the user's children logged a
// mood since UTC midnight.
func HasMoodEntryToday(userID uint) (bool, error) {
	var count int64
	midnight := touchTime().Truncate(24 * time.Hour)
	err := database.DB.
		Model(&models.MoodEntry{}).
		Where("user_id = ? AND created_at >= ?", userID, midnight).
		Count(&count).Error
	return count > 0, err
}

// GetRecentMoods lists a child's latest mood entries, newest first.
func GetRecentMoods(ctx context.Context, childID uint, limit int) ([]models.MoodEntry, error) {
	var entries []models.MoodEntry
	err := database.DB.WithContext(ctx).
		Where("child_id = ?", childID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
