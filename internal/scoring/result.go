package scoring

import "time"

// GameResult is the summary a finished game session hands back to its caller.
// Build one with BuildResult and treat it as immutable afterwards.
type GameResult struct {
	GameID          string    `json:"gameId"`
	Timestamp       time.Time `json:"timestamp"`
	DurationSeconds float64   `json:"duration"`
	CorrectAnswers  int       `json:"correctAnswers"`
	WrongAnswers    int       `json:"wrongAnswers"`
	TotalQuestions  int       `json:"totalQuestions"`
	Accuracy        float64   `json:"accuracy"`
	MemoryPower     float64   `json:"memoryPower"`
	CognitiveScore  float64   `json:"cognitiveScore"`
}

// BuildResult assembles a GameResult from raw tallies. The caller supplies
// accuracy explicitly because each game defines it differently (sequence
// recall divides by correct+1, matching pairs by moves, and so on).
func BuildResult(gameID string, completedAt time.Time, durationSeconds float64, correct, wrong, total int, accuracy, complexityBonus, consistency float64) GameResult {
	memory := MemoryPower(accuracy, SpeedBonus(durationSeconds), complexityBonus)
	return GameResult{
		GameID:          gameID,
		Timestamp:       completedAt,
		DurationSeconds: durationSeconds,
		CorrectAnswers:  correct,
		WrongAnswers:    wrong,
		TotalQuestions:  total,
		Accuracy:        accuracy,
		MemoryPower:     memory,
		CognitiveScore:  CognitiveScore(memory, accuracy, consistency),
	}
}
