package games

import (
	"errors"
	"math/rand"
	"time"

	"synapse-go/internal/scoring"
)

// Story Builder: put shuffled picture panels back into narrative order.

type StoryState string

const (
	StoryIdle       StoryState = "idle"
	StoryCollecting StoryState = "collecting"
	StoryComplete   StoryState = "complete"
)

// StoryPanel is one picture in the story. CorrectOrder is 1-based and never
// changes; the user's guess order is kept separately.
type StoryPanel struct {
	ID           int    `json:"id"`
	Image        string `json:"image"`
	CorrectOrder int    `json:"correctOrder"`
	Title        string `json:"title"`
}

var defaultStoryPanels = []StoryPanel{
	{ID: 1, Image: "wake_up.png", CorrectOrder: 1, Title: "Waking up"},
	{ID: 2, Image: "breakfast.png", CorrectOrder: 2, Title: "Eating breakfast"},
	{ID: 3, Image: "backpack.png", CorrectOrder: 3, Title: "Packing the bag"},
	{ID: 4, Image: "bus.png", CorrectOrder: 4, Title: "Riding the bus"},
	{ID: 5, Image: "school.png", CorrectOrder: 5, Title: "Arriving at school"},
}

var ErrPanelAlreadyPicked = errors.New("panel already picked")
var ErrUnknownPanel = errors.New("unknown panel id")

// StoryEngine runs one Story Builder session.
type StoryEngine struct {
	now   Clock
	state StoryState

	panels  []StoryPanel // shuffled once at session start
	guesses []int        // append-only panel ids in pick order

	startedAt   time.Time
	consistency float64
	celebration bool
	result      *scoring.GameResult
}

// NewStoryEngine shuffles the panel set and opens the session for picks.
func NewStoryEngine(now Clock, seed int64, consistency float64) *StoryEngine {
	panels := make([]StoryPanel, len(defaultStoryPanels))
	copy(panels, defaultStoryPanels)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(panels), func(i, j int) { panels[i], panels[j] = panels[j], panels[i] })

	return &StoryEngine{
		now:         now,
		state:       StoryCollecting,
		panels:      panels,
		consistency: consistency,
		startedAt:   now(),
	}
}

// State returns the current engine state.
func (e *StoryEngine) State() StoryState { return e.state }

// Panels returns the shuffled panel set for rendering.
func (e *StoryEngine) Panels() []StoryPanel {
	out := make([]StoryPanel, len(e.panels))
	copy(out, e.panels)
	return out
}

// Guesses returns the picks made so far.
func (e *StoryEngine) Guesses() []int {
	out := make([]int, len(e.guesses))
	copy(out, e.guesses)
	return out
}

// Celebration reports whether the finished session was a perfect ordering.
// It flavors the completion screen; it is not a separate code path.
func (e *StoryEngine) Celebration() bool { return e.celebration }

// Pick appends a panel to the guess order. Each panel can be picked once.
// Validation against the canonical order happens only when every panel has
// been placed.
func (e *StoryEngine) Pick(panelID int) (bool, error) {
	if e.state == StoryComplete {
		return false, ErrSessionEnded
	}

	found := false
	for _, p := range e.panels {
		if p.ID == panelID {
			found = true
			break
		}
	}
	if !found {
		return false, ErrUnknownPanel
	}
	for _, g := range e.guesses {
		if g == panelID {
			return false, ErrPanelAlreadyPicked
		}
	}

	e.guesses = append(e.guesses, panelID)
	if len(e.guesses) < len(e.panels) {
		return false, nil
	}

	e.complete()
	return true, nil
}

func (e *StoryEngine) complete() {
	e.state = StoryComplete

	byID := make(map[int]StoryPanel, len(e.panels))
	for _, p := range e.panels {
		byID[p.ID] = p
	}

	correct := 0
	for i, id := range e.guesses {
		if byID[id].CorrectOrder == i+1 {
			correct++
		}
	}
	total := len(e.panels)
	e.celebration = correct == total

	duration := e.now().Sub(e.startedAt).Seconds()
	accuracy := scoring.Accuracy(correct, total)

	r := scoring.BuildResult(
		"story_builder",
		e.now(),
		duration,
		correct,
		total-correct,
		total,
		accuracy,
		float64(total*5),
		e.consistency,
	)
	e.result = &r
}

// Result returns the frozen result, or nil while picks are still open.
func (e *StoryEngine) Result() *scoring.GameResult { return e.result }
