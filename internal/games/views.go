package games

import (
	"errors"

	"synapse-go/internal/scoring"
)

// Read-model snapshots handed to the HTTP layer. All engine access stays
// behind the session lock, so handlers never see a torn board.

var ErrSessionNotEnded = errors.New("session not ended")

// SequenceView is the renderable state of a Sequence Recall session.
type SequenceView struct {
	SessionID string        `json:"sessionId"`
	State     SequenceState `json:"state"`
	Level     int           `json:"level"`
	Score     int           `json:"score"`
	Sequence  []int         `json:"sequence,omitempty"`
}

// SequenceSnapshot captures a session for rendering. The sequence itself is
// included only while it is being revealed; during input the client has to
// rely on memory, same as the player.
func (m *Manager) SequenceSnapshot(id string) (SequenceView, error) {
	s, err := m.Get(id)
	if err != nil {
		return SequenceView{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.Sequence == nil {
		return SequenceView{}, ErrSessionNotFound
	}

	v := SequenceView{
		SessionID: s.ID,
		State:     s.Sequence.State(),
		Level:     s.Sequence.Level(),
		Score:     s.Sequence.Score(),
	}
	if v.State == SeqShowing {
		v.Sequence = s.Sequence.Sequence()
	}
	return v, nil
}

// PairsView is the renderable state of a Matching Pairs board. Face-down
// card values are blanked so the client cannot peek.
type PairsView struct {
	SessionID string     `json:"sessionId"`
	State     PairsState `json:"state"`
	Cards     []Card     `json:"cards"`
	Moves     int        `json:"moves"`
	Matches   int        `json:"matches"`
}

func (m *Manager) PairsSnapshot(id string) (PairsView, error) {
	s, err := m.Get(id)
	if err != nil {
		return PairsView{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.Pairs == nil {
		return PairsView{}, ErrSessionNotFound
	}

	cards := s.Pairs.Cards()
	for i := range cards {
		if !cards[i].IsFlipped && !cards[i].IsMatched {
			cards[i].Value = ""
		}
	}
	return PairsView{
		SessionID: s.ID,
		State:     s.Pairs.State(),
		Cards:     cards,
		Moves:     s.Pairs.Moves(),
		Matches:   s.Pairs.Matches(),
	}, nil
}

// StoryView is the renderable state of a Story Builder session.
type StoryView struct {
	SessionID   string       `json:"sessionId"`
	State       StoryState   `json:"state"`
	Panels      []StoryPanel `json:"panels"`
	Guesses     []int        `json:"guesses"`
	Celebration bool         `json:"celebration"`
}

func (m *Manager) StorySnapshot(id string) (StoryView, error) {
	s, err := m.Get(id)
	if err != nil {
		return StoryView{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.Story == nil {
		return StoryView{}, ErrSessionNotFound
	}
	return StoryView{
		SessionID:   s.ID,
		State:       s.Story.State(),
		Panels:      s.Story.Panels(),
		Guesses:     s.Story.Guesses(),
		Celebration: s.Story.Celebration(),
	}, nil
}

// AttentionView is the renderable state of a Focus Detective session.
type AttentionView struct {
	SessionID string         `json:"sessionId"`
	State     AttentionState `json:"state"`
	Score     int            `json:"score"`
	Rule      Rule           `json:"rule"`
}

func (m *Manager) AttentionSnapshot(id string) (AttentionView, error) {
	s, err := m.Get(id)
	if err != nil {
		return AttentionView{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.Attention == nil {
		return AttentionView{}, ErrSessionNotFound
	}
	return AttentionView{
		SessionID: s.ID,
		State:     s.Attention.State(),
		Score:     s.Attention.Score(),
		Rule:      s.Attention.ActiveRule(m.now()),
	}, nil
}

// FinalizedGame is everything the persistence layer needs from a finished
// session. The session is torn down as part of finalization.
type FinalizedGame struct {
	SessionID string
	UserID    uint
	ChildID   uint
	Kind      Kind

	Result       scoring.GameResult
	PointsEarned int

	// Focus Detective only
	Report    *AttentionReport
	Stimuli   []Stimulus
	Responses []Response

	// Story Builder only
	Celebration bool
}

// Finalize extracts the frozen result from an ended session and removes the
// session from the registry. Calling it on a still-live session fails
// without touching the session.
func (m *Manager) Finalize(id string) (*FinalizedGame, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	f := &FinalizedGame{
		SessionID: s.ID,
		UserID:    s.UserID,
		ChildID:   s.ChildID,
		Kind:      s.Kind,
	}

	var result *scoring.GameResult
	switch s.Kind {
	case KindSequence:
		result = s.Sequence.Result()
		if result != nil {
			f.PointsEarned = s.Sequence.PointsEarned()
		}
	case KindPairs:
		result = s.Pairs.Result()
		if result != nil {
			f.PointsEarned = int(result.MemoryPower)
		}
	case KindStory:
		result = s.Story.Result()
		if result != nil {
			f.PointsEarned = int(result.MemoryPower)
			f.Celebration = s.Story.Celebration()
		}
	case KindAttention:
		result = s.Attention.Result()
		if result != nil {
			rep := s.Attention.Report()
			f.Report = &rep
			f.Stimuli = s.Attention.Stimuli()
			f.Responses = s.Attention.Responses()
			if f.PointsEarned = rep.Score; f.PointsEarned < 0 {
				f.PointsEarned = 0
			}
		}
	}

	if result == nil {
		s.mu.Unlock()
		return nil, ErrSessionNotEnded
	}
	f.Result = *result

	s.closed = true
	s.timer.Stop()
	s.mu.Unlock()

	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return f, nil
}
