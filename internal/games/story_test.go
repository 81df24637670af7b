package games

import (
	"sort"
	"testing"
)

func TestStoryPerfectOrder(t *testing.T) {
	clock := newFakeClock()
	e := NewStoryEngine(clock.Now, 1, 90)

	panels := e.Panels()
	sort.Slice(panels, func(i, j int) bool { return panels[i].CorrectOrder < panels[j].CorrectOrder })

	for i, p := range panels {
		done, err := e.Pick(p.ID)
		if err != nil {
			t.Fatal(err)
		}
		if (i == len(panels)-1) != done {
			t.Fatalf("pick %d: done = %v", i, done)
		}
	}

	r := e.Result()
	if r == nil {
		t.Fatal("nil result")
	}
	if r.Accuracy != 100 {
		t.Errorf("accuracy = %f, want 100", r.Accuracy)
	}
	if !e.Celebration() {
		t.Error("perfect order should set the celebration flag")
	}
}

func TestStoryPartialOrderScoresPartially(t *testing.T) {
	clock := newFakeClock()
	e := NewStoryEngine(clock.Now, 2, 90)

	panels := e.Panels()
	sort.Slice(panels, func(i, j int) bool { return panels[i].CorrectOrder < panels[j].CorrectOrder })

	// Swap the first two picks; the rest in order.
	order := []StoryPanel{panels[1], panels[0]}
	order = append(order, panels[2:]...)
	for _, p := range order {
		if _, err := e.Pick(p.ID); err != nil {
			t.Fatal(err)
		}
	}

	r := e.Result()
	total := len(panels)
	wantCorrect := total - 2
	if r.CorrectAnswers != wantCorrect {
		t.Errorf("correct = %d, want %d", r.CorrectAnswers, wantCorrect)
	}
	wantAcc := float64(wantCorrect) / float64(total) * 100
	if r.Accuracy != wantAcc {
		t.Errorf("accuracy = %f, want %f", r.Accuracy, wantAcc)
	}
	if r.Accuracy < 0 || r.Accuracy > 100 {
		t.Errorf("accuracy out of range: %f", r.Accuracy)
	}
	if e.Celebration() {
		t.Error("imperfect order should not celebrate")
	}
}

func TestStoryRejectsDoublePickAndUnknownPanel(t *testing.T) {
	clock := newFakeClock()
	e := NewStoryEngine(clock.Now, 3, 90)

	first := e.Panels()[0]
	if _, err := e.Pick(first.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Pick(first.ID); err != ErrPanelAlreadyPicked {
		t.Errorf("double pick: err = %v, want ErrPanelAlreadyPicked", err)
	}
	if _, err := e.Pick(999); err != ErrUnknownPanel {
		t.Errorf("unknown panel: err = %v, want ErrUnknownPanel", err)
	}
	if len(e.Guesses()) != 1 {
		t.Errorf("guesses = %d, want 1 (rejected picks must not append)", len(e.Guesses()))
	}
}
