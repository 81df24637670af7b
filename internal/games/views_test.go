package games

import (
	"testing"
)

// findUnmatchedPair returns the indices of two still-playable cards that
// share a value.
func findUnmatchedPair(cards []Card) (int, int) {
	byValue := make(map[string]int)
	for i, c := range cards {
		if c.IsMatched {
			continue
		}
		if j, ok := byValue[c.Value]; ok {
			return j, i
		}
		byValue[c.Value] = i
	}
	return -1, -1
}

func TestFinalizeRejectsLiveSession(t *testing.T) {
	m := testManager()
	defer m.Close()

	s := m.StartPairs(1, 1)
	if _, err := m.Finalize(s.ID); err != ErrSessionNotEnded {
		t.Fatalf("Finalize on live session: err = %v, want ErrSessionNotEnded", err)
	}
	// The refusal must not tear the session down.
	if _, err := m.Get(s.ID); err != nil {
		t.Errorf("session gone after refused finalize: %v", err)
	}
}

func TestFinalizeCompletedPairsSession(t *testing.T) {
	m := testManager()
	defer m.Close()

	s := m.StartPairs(7, 3)
	for s.Pairs.Matches() < totalPairs {
		a, b := findUnmatchedPair(s.Pairs.Cards())
		cards := s.Pairs.Cards()
		if _, err := m.FlipPairs(s.ID, cards[a].ID); err != nil {
			t.Fatal(err)
		}
		if _, err := m.FlipPairs(s.ID, cards[b].ID); err != nil {
			t.Fatal(err)
		}
	}

	f, err := m.Finalize(s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if f.UserID != 7 || f.ChildID != 3 {
		t.Errorf("attribution = user %d child %d, want 7/3", f.UserID, f.ChildID)
	}
	if f.Kind != KindPairs {
		t.Errorf("kind = %s, want %s", f.Kind, KindPairs)
	}
	if f.Result.Accuracy != 100 {
		t.Errorf("accuracy = %v, want 100 for optimal play", f.Result.Accuracy)
	}
	if f.PointsEarned != int(f.Result.MemoryPower) {
		t.Errorf("points = %d, want int(memoryPower) = %d", f.PointsEarned, int(f.Result.MemoryPower))
	}

	// Finalize removes the session from the registry.
	if _, err := m.Get(s.ID); err != ErrSessionNotFound {
		t.Errorf("finalized session still registered: %v", err)
	}
	if _, err := m.Finalize(s.ID); err != ErrSessionNotFound {
		t.Errorf("second finalize: err = %v, want ErrSessionNotFound", err)
	}
}

func TestPairsSnapshotHidesFaceDownCards(t *testing.T) {
	m := testManager()
	defer m.Close()

	s := m.StartPairs(1, 1)
	cards := s.Pairs.Cards()
	if _, err := m.FlipPairs(s.ID, cards[0].ID); err != nil {
		t.Fatal(err)
	}

	view, err := m.PairsSnapshot(s.ID)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range view.Cards {
		if c.ID == cards[0].ID {
			if c.Value == "" {
				t.Error("flipped card should expose its value")
			}
			continue
		}
		if !c.IsMatched && c.Value != "" {
			t.Errorf("face-down card %d leaks value %q", c.ID, c.Value)
		}
	}
}

func TestSequenceSnapshotHidesSequenceDuringInput(t *testing.T) {
	m := testManager()
	defer m.Close()

	s := m.StartSequence(1, 1)

	view, err := m.SequenceSnapshot(s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if view.State == SeqShowing && len(view.Sequence) == 0 {
		t.Error("sequence should be visible while showing")
	}

	s.mu.Lock()
	s.Sequence.FinishShowing()
	s.mu.Unlock()

	view, err = m.SequenceSnapshot(s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if view.State != SeqInput {
		t.Fatalf("state = %s, want input", view.State)
	}
	if len(view.Sequence) != 0 {
		t.Error("sequence leaked into the input-phase snapshot")
	}
}

func TestStorySnapshotAndFinalize(t *testing.T) {
	m := testManager()
	defer m.Close()

	s := m.StartStory(2, 5)
	view, err := m.StorySnapshot(s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Panels) != len(defaultStoryPanels) {
		t.Fatalf("panels = %d, want %d", len(view.Panels), len(defaultStoryPanels))
	}

	// Pick in canonical order for a perfect run.
	byOrder := make(map[int]int, len(view.Panels))
	for _, p := range view.Panels {
		byOrder[p.CorrectOrder] = p.ID
	}
	for order := 1; order <= len(view.Panels); order++ {
		if _, err := m.PickStory(s.ID, byOrder[order]); err != nil {
			t.Fatal(err)
		}
	}

	f, err := m.Finalize(s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !f.Celebration {
		t.Error("perfect ordering should set the celebration flag")
	}
	if f.Result.Accuracy != 100 {
		t.Errorf("accuracy = %v, want 100", f.Result.Accuracy)
	}
}
