package scoring

import "math"

// The mini-games historically each carried their own copy of the memory-power
// and composite formulas. They live here once so result magnitudes stay
// identical across games.

// fillerSubScores are the fixed cognitive sub-scores blended into the
// composite. They are not derived from measured performance; they exist so
// the composite lands in a plausible range and must stay as-is for result
// parity with existing stored scores.
var fillerSubScores = [11]float64{85, 90, 88, 92, 87, 89, 86, 91, 88, 90, 87}

// Accuracy returns correct/total as a 0-100 percentage. Zero total yields 0.
func Accuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

// SpeedBonus rewards finishing under a minute: two points per second saved.
func SpeedBonus(durationSeconds float64) float64 {
	return math.Max(0, (60-durationSeconds)*2)
}

// MemoryPower combines accuracy with speed and complexity bonuses, capped at 100.
func MemoryPower(accuracy, speedBonus, complexityBonus float64) float64 {
	return math.Min(100, accuracy+speedBonus+complexityBonus)
}

// CognitiveScore is the arithmetic mean of a 14-term vector: the three
// measured terms plus the eleven filler sub-scores.
func CognitiveScore(memoryPower, accuracy, consistency float64) float64 {
	sum := memoryPower + accuracy + consistency
	for _, s := range fillerSubScores {
		sum += s
	}
	return sum / float64(3+len(fillerSubScores))
}

// Clamp100 bounds a ratio-derived score to [0, 100].
func Clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
