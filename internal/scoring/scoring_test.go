package scoring

import (
	"math"
	"testing"
	"time"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		correct, total int
		want           float64
	}{
		{0, 0, 0},
		{5, 0, 0},
		{0, 10, 0},
		{5, 10, 50},
		{6, 6, 100},
		{1, 3, 100.0 / 3},
	}

	for _, tt := range tests {
		got := Accuracy(tt.correct, tt.total)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Accuracy(%d, %d) = %f, want %f", tt.correct, tt.total, got, tt.want)
		}
	}
}

func TestSpeedBonus(t *testing.T) {
	tests := []struct {
		duration float64
		want     float64
	}{
		{0, 120},
		{30, 60},
		{60, 0},
		{90, 0}, // never negative
	}

	for _, tt := range tests {
		if got := SpeedBonus(tt.duration); got != tt.want {
			t.Errorf("SpeedBonus(%f) = %f, want %f", tt.duration, got, tt.want)
		}
	}
}

func TestMemoryPowerCapped(t *testing.T) {
	if got := MemoryPower(90, 60, 40); got != 100 {
		t.Errorf("MemoryPower should cap at 100, got %f", got)
	}
	if got := MemoryPower(50, 10, 20); got != 80 {
		t.Errorf("MemoryPower(50,10,20) = %f, want 80", got)
	}
}

func TestCognitiveScoreKnownVector(t *testing.T) {
	// Sum of the eleven filler terms is 973.
	got := CognitiveScore(100, 100, 90)
	want := (100 + 100 + 90 + 973.0) / 14
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("CognitiveScore(100,100,90) = %f, want %f", got, want)
	}
}

func TestCognitiveScoreDeterministic(t *testing.T) {
	a := CognitiveScore(73.5, 66.7, 85)
	b := CognitiveScore(73.5, 66.7, 85)
	if a != b {
		t.Errorf("CognitiveScore not deterministic: %f vs %f", a, b)
	}
}

func TestBuildResult(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := BuildResult("sequence_recall", now, 45, 4, 1, 5, 80, 30, 90)

	if r.GameID != "sequence_recall" || !r.Timestamp.Equal(now) {
		t.Fatalf("identity fields wrong: %+v", r)
	}
	if r.MemoryPower > 100 {
		t.Errorf("memory power exceeds 100: %f", r.MemoryPower)
	}
	// accuracy 80 + speed bonus 30 + complexity 30 = 140, capped
	if r.MemoryPower != 100 {
		t.Errorf("MemoryPower = %f, want 100", r.MemoryPower)
	}
	if r.WrongAnswers != 1 || r.CorrectAnswers != 4 || r.TotalQuestions != 5 {
		t.Errorf("tallies wrong: %+v", r)
	}
}

func TestClamp100(t *testing.T) {
	if Clamp100(-5) != 0 || Clamp100(105) != 100 || Clamp100(42) != 42 {
		t.Error("Clamp100 bounds wrong")
	}
}
