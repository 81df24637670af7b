package games

import (
	"errors"
	"math/rand"
	"time"

	"synapse-go/internal/scoring"
)

// Matching Pairs: 12 face-down cards, six symbol pairs, flip two at a time.

type PairsState string

const (
	PairsIdle      PairsState = "idle"      // no card pending
	PairsFlipping  PairsState = "flipping"  // one card face up
	PairsResolving PairsState = "resolving" // two mismatched cards awaiting flip-back
	PairsComplete  PairsState = "complete"
)

var pairSymbols = []string{"star", "moon", "sun", "cloud", "leaf", "wave"}

const totalPairs = 6

// Card is one tile on the board, mutated in place as the game runs.
type Card struct {
	ID        int    `json:"id"`
	Value     string `json:"value"`
	IsFlipped bool   `json:"isFlipped"`
	IsMatched bool   `json:"isMatched"`
}

// FlipOutcome tells the caller how a flip resolved.
type FlipOutcome string

const (
	FlipFirst    FlipOutcome = "first"    // first card of a pair turned up
	FlipMatched  FlipOutcome = "matched"  // second card matched
	FlipMismatch FlipOutcome = "mismatch" // second card mismatched; flip-back pending
	FlipIgnored  FlipOutcome = "ignored"  // click while a mismatch is resolving, or dead card
	FlipComplete FlipOutcome = "complete" // match that finished the board
)

var ErrUnknownCard = errors.New("unknown card id")

// PairsEngine runs one Matching Pairs session.
type PairsEngine struct {
	now   Clock
	state PairsState

	cards     []Card
	firstPick int // index into cards, valid only in PairsFlipping
	pending   [2]int

	moves   int
	matches int

	startedAt   time.Time
	consistency float64
	result      *scoring.GameResult
}

// NewPairsEngine deals a shuffled 12-card board.
func NewPairsEngine(now Clock, seed int64, consistency float64) *PairsEngine {
	values := make([]string, 0, totalPairs*2)
	for _, s := range pairSymbols {
		values = append(values, s, s)
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })

	cards := make([]Card, len(values))
	for i, v := range values {
		cards[i] = Card{ID: i, Value: v}
	}

	return &PairsEngine{
		now:         now,
		state:       PairsIdle,
		cards:       cards,
		consistency: consistency,
		startedAt:   now(),
	}
}

// State returns the current engine state.
func (e *PairsEngine) State() PairsState { return e.state }

// Moves returns the number of completed pair attempts.
func (e *PairsEngine) Moves() int { return e.moves }

// Matches returns the number of matched pairs.
func (e *PairsEngine) Matches() int { return e.matches }

// Cards returns a copy of the board for rendering.
func (e *PairsEngine) Cards() []Card {
	out := make([]Card, len(e.cards))
	copy(out, e.cards)
	return out
}

// Flip turns a card face up. At most two unmatched cards may be face up; a
// third click while a mismatch is resolving is ignored rather than queued.
func (e *PairsEngine) Flip(cardID int) (FlipOutcome, error) {
	if e.state == PairsComplete {
		return "", ErrSessionEnded
	}
	if cardID < 0 || cardID >= len(e.cards) {
		return "", ErrUnknownCard
	}
	if e.state == PairsResolving {
		return FlipIgnored, nil
	}

	card := &e.cards[cardID]
	if card.IsMatched || card.IsFlipped {
		return FlipIgnored, nil
	}

	card.IsFlipped = true

	if e.state == PairsIdle {
		e.firstPick = cardID
		e.state = PairsFlipping
		return FlipFirst, nil
	}

	// Second card of the attempt.
	e.moves++
	first := &e.cards[e.firstPick]

	if first.Value == card.Value {
		first.IsMatched = true
		card.IsMatched = true
		e.matches++
		if e.matches == totalPairs {
			e.complete()
			return FlipComplete, nil
		}
		e.state = PairsIdle
		return FlipMatched, nil
	}

	e.pending = [2]int{e.firstPick, cardID}
	e.state = PairsResolving
	return FlipMismatch, nil
}

// ResolveMismatch flips the pending pair back down. Called by the session
// timer roughly a second after a mismatch.
func (e *PairsEngine) ResolveMismatch() {
	if e.state != PairsResolving {
		return
	}
	e.cards[e.pending[0]].IsFlipped = false
	e.cards[e.pending[1]].IsFlipped = false
	e.state = PairsIdle
}

func (e *PairsEngine) complete() {
	e.state = PairsComplete

	duration := e.now().Sub(e.startedAt).Seconds()
	accuracy := scoring.Accuracy(e.matches, e.moves)

	r := scoring.BuildResult(
		"matching_pairs",
		e.now(),
		duration,
		e.matches,
		e.moves-e.matches,
		e.moves,
		accuracy,
		float64(e.matches*5),
		e.consistency,
	)
	e.result = &r
}

// Result returns the frozen result, or nil while the board is live.
func (e *PairsEngine) Result() *scoring.GameResult { return e.result }
