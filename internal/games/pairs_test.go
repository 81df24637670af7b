package games

import (
	"testing"
	"time"
)

// findPair returns the indices of the first two cards sharing a value.
func findPair(cards []Card) (int, int) {
	byValue := make(map[string]int)
	for i, c := range cards {
		if j, ok := byValue[c.Value]; ok {
			return j, i
		}
		byValue[c.Value] = i
	}
	return -1, -1
}

// findMismatch returns two unmatched, face-down cards with different values.
func findMismatch(cards []Card) (int, int) {
	for i, a := range cards {
		if a.IsMatched || a.IsFlipped {
			continue
		}
		for j := i + 1; j < len(cards); j++ {
			b := cards[j]
			if !b.IsMatched && !b.IsFlipped && b.Value != a.Value {
				return i, j
			}
		}
	}
	return -1, -1
}

func TestPairsBoardShape(t *testing.T) {
	clock := newFakeClock()
	e := NewPairsEngine(clock.Now, 1, 90)

	cards := e.Cards()
	if len(cards) != 12 {
		t.Fatalf("board has %d cards, want 12", len(cards))
	}
	counts := make(map[string]int)
	for _, c := range cards {
		counts[c.Value]++
	}
	if len(counts) != 6 {
		t.Fatalf("board has %d symbols, want 6", len(counts))
	}
	for v, n := range counts {
		if n != 2 {
			t.Errorf("symbol %q appears %d times, want 2", v, n)
		}
	}
}

func TestPairsOptimalPlay(t *testing.T) {
	clock := newFakeClock()
	e := NewPairsEngine(clock.Now, 2, 90)

	for e.State() != PairsComplete {
		a, b := findPair(unmatched(e.Cards()))
		if a == -1 {
			t.Fatal("no pair left on an incomplete board")
		}
		cards := unmatched(e.Cards())
		if _, err := e.Flip(cards[a].ID); err != nil {
			t.Fatal(err)
		}
		outcome, err := e.Flip(cards[b].ID)
		if err != nil {
			t.Fatal(err)
		}
		if outcome != FlipMatched && outcome != FlipComplete {
			t.Fatalf("optimal flip outcome = %s", outcome)
		}
	}

	r := e.Result()
	if r == nil {
		t.Fatal("nil result after completion")
	}
	if r.Accuracy != 100 || r.WrongAnswers != 0 {
		t.Errorf("optimal play: accuracy = %f wrong = %d, want 100 / 0", r.Accuracy, r.WrongAnswers)
	}
	if r.CorrectAnswers != 6 || r.TotalQuestions != 6 {
		t.Errorf("optimal play tallies: %d/%d, want 6/6", r.CorrectAnswers, r.TotalQuestions)
	}
}

// unmatched filters the board down to cards still in play.
func unmatched(cards []Card) []Card {
	var out []Card
	for _, c := range cards {
		if !c.IsMatched {
			out = append(out, c)
		}
	}
	return out
}

func TestPairsMismatchAndIgnoredThirdClick(t *testing.T) {
	clock := newFakeClock()
	e := NewPairsEngine(clock.Now, 3, 90)

	a, b := findMismatch(e.Cards())
	if a == -1 {
		t.Fatal("no mismatch available on a fresh board")
	}
	cards := e.Cards()
	if outcome, _ := e.Flip(cards[a].ID); outcome != FlipFirst {
		t.Fatalf("first flip outcome = %s", outcome)
	}
	outcome, err := e.Flip(cards[b].ID)
	if err != nil {
		t.Fatal(err)
	}
	if outcome != FlipMismatch {
		t.Fatalf("second flip outcome = %s, want mismatch", outcome)
	}

	// Third click while the mismatch is pending is ignored.
	for _, c := range e.Cards() {
		if c.ID != cards[a].ID && c.ID != cards[b].ID {
			if outcome, _ := e.Flip(c.ID); outcome != FlipIgnored {
				t.Fatalf("click during resolve = %s, want ignored", outcome)
			}
			break
		}
	}

	// Invariant: never more than two flipped-and-unmatched cards.
	flipped := 0
	for _, c := range e.Cards() {
		if c.IsFlipped && !c.IsMatched {
			flipped++
		}
	}
	if flipped != 2 {
		t.Fatalf("%d cards flipped-and-unmatched, want 2", flipped)
	}

	e.ResolveMismatch()
	for _, c := range e.Cards() {
		if c.IsFlipped && !c.IsMatched {
			t.Fatal("card still face up after mismatch resolve")
		}
	}
	if e.Moves() != 1 || e.Matches() != 0 {
		t.Errorf("moves/matches = %d/%d, want 1/0", e.Moves(), e.Matches())
	}
}

func TestPairsWrongAnswersInvariant(t *testing.T) {
	clock := newFakeClock()
	e := NewPairsEngine(clock.Now, 4, 90)

	// One deliberate mismatch, then finish optimally.
	a, b := findMismatch(e.Cards())
	cards := e.Cards()
	e.Flip(cards[a].ID)
	e.Flip(cards[b].ID)
	e.ResolveMismatch()

	clock.Advance(20 * time.Second)
	for e.State() != PairsComplete {
		remaining := unmatched(e.Cards())
		i, j := findPair(remaining)
		e.Flip(remaining[i].ID)
		e.Flip(remaining[j].ID)
	}

	r := e.Result()
	if r.WrongAnswers != r.TotalQuestions-r.CorrectAnswers {
		t.Errorf("wrong = %d, want moves-matches = %d", r.WrongAnswers, r.TotalQuestions-r.CorrectAnswers)
	}
	if r.CorrectAnswers != 6 {
		t.Errorf("matches = %d, want 6", r.CorrectAnswers)
	}
	if r.TotalQuestions != 7 {
		t.Errorf("moves = %d, want 7", r.TotalQuestions)
	}
}
