package games

import (
	"errors"
	"math/rand"
	"time"

	"synapse-go/internal/scoring"
)

// Sequence Recall: watch a color sequence light up, then tap it back.

type SequenceState string

const (
	SeqWaiting SequenceState = "waiting"
	SeqShowing SequenceState = "showing"
	SeqInput   SequenceState = "input"
	SeqEnded   SequenceState = "ended"
)

const (
	sequenceColors     = 4
	sequenceMaxLen     = 6
	sequenceBasePoints = 50
	scorePerLevel      = 10
)

// TapOutcome tells the caller what a tap did to the session.
type TapOutcome string

const (
	TapAccepted TapOutcome = "accepted" // tap recorded, round still open
	TapLevelUp  TapOutcome = "level_up" // round cleared, next sequence showing
	TapEnded    TapOutcome = "ended"    // mismatch, session over
)

var (
	ErrNotAcceptingInput = errors.New("session is not accepting input")
	ErrSessionEnded      = errors.New("session has ended")
)

// SequenceEngine runs one Sequence Recall session.
type SequenceEngine struct {
	now   Clock
	rng   *rand.Rand
	state SequenceState

	level    int
	score    int
	sequence []int
	guess    []int

	startedAt    time.Time
	consistency  float64
	pointsEarned int
	result       *scoring.GameResult
}

// NewSequenceEngine starts a session at level 1 and immediately begins
// showing the first sequence.
func NewSequenceEngine(now Clock, seed int64, consistency float64) *SequenceEngine {
	e := &SequenceEngine{
		now:         now,
		rng:         rand.New(rand.NewSource(seed)),
		level:       1,
		consistency: consistency,
		startedAt:   now(),
	}
	e.nextRound()
	return e
}

// nextRound regenerates the sequence for the current level. The waiting state
// exists only as the instant between rounds; we fall straight through to
// showing, matching the original flow.
func (e *SequenceEngine) nextRound() {
	e.state = SeqWaiting
	length := 3 + e.level
	if length > sequenceMaxLen {
		length = sequenceMaxLen
	}
	seq := make([]int, length)
	for i := range seq {
		seq[i] = e.rng.Intn(sequenceColors)
	}
	e.sequence = seq
	e.guess = e.guess[:0]
	e.state = SeqShowing
}

// State returns the current engine state.
func (e *SequenceEngine) State() SequenceState { return e.state }

// Level returns the current level.
func (e *SequenceEngine) Level() int { return e.level }

// Score returns the running score (+10 per cleared round).
func (e *SequenceEngine) Score() int { return e.score }

// Sequence exposes the current sequence so the frontend can animate it.
func (e *SequenceEngine) Sequence() []int {
	out := make([]int, len(e.sequence))
	copy(out, e.sequence)
	return out
}

// ShowingDuration is how long the reveal phase lasts for the current sequence.
func (e *SequenceEngine) ShowingDuration(revealInterval time.Duration) time.Duration {
	return time.Duration(len(e.sequence)) * revealInterval
}

// FinishShowing moves the session from the (non-interruptible) reveal phase
// into input. Called by the session timer.
func (e *SequenceEngine) FinishShowing() {
	if e.state == SeqShowing {
		e.state = SeqInput
	}
}

// Tap records one color tap. Once the guess is full it is compared
// element-wise against the sequence: a full match advances the level, any
// mismatch ends the session.
func (e *SequenceEngine) Tap(color int) (TapOutcome, error) {
	switch e.state {
	case SeqEnded:
		return "", ErrSessionEnded
	case SeqInput:
	default:
		return "", ErrNotAcceptingInput
	}

	e.guess = append(e.guess, color)
	if len(e.guess) < len(e.sequence) {
		return TapAccepted, nil
	}

	for i := range e.sequence {
		if e.guess[i] != e.sequence[i] {
			e.end()
			return TapEnded, nil
		}
	}

	e.score += scorePerLevel
	e.level++
	e.nextRound()
	return TapLevelUp, nil
}

// end closes the session and freezes the result.
func (e *SequenceEngine) end() {
	e.state = SeqEnded

	correct := e.level - 1 // rounds cleared before the miss
	duration := e.now().Sub(e.startedAt).Seconds()
	accuracy := float64(correct) / float64(correct+1) * 100

	levelBonus := e.level * 10
	speedBonus := int(scoring.SpeedBonus(duration))
	accuracyBonus := int(accuracy / 2)
	e.pointsEarned = sequenceBasePoints + levelBonus + speedBonus + accuracyBonus

	r := scoring.BuildResult(
		"sequence_recall",
		e.now(),
		duration,
		correct,
		1, // the round that ended the session
		correct+1,
		accuracy,
		float64(e.level*10),
		e.consistency,
	)
	e.result = &r
}

// PointsEarned is the cumulative-points award for the session; zero until ended.
func (e *SequenceEngine) PointsEarned() int { return e.pointsEarned }

// Result returns the frozen result, or nil while the session is live.
func (e *SequenceEngine) Result() *scoring.GameResult { return e.result }
