package games

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager is the in-memory registry of live game sessions. Sessions are
// ephemeral: they live for one play-through and are swept if abandoned.

type Kind string

const (
	KindSequence  Kind = "sequence_recall"
	KindPairs     Kind = "matching_pairs"
	KindStory     Kind = "story_builder"
	KindAttention Kind = "focus_detective"
)

var ErrSessionNotFound = errors.New("session not found")

// Session wraps one live engine with its timer handle. All engine access
// goes through the session lock; timer callbacks re-check closed under the
// lock so a stale fire after teardown is a no-op.
type Session struct {
	ID      string
	UserID  uint
	ChildID uint
	Kind    Kind

	mu        sync.Mutex
	closed    bool
	lastTouch time.Time
	timer     Timer

	Sequence  *SequenceEngine
	Pairs     *PairsEngine
	Story     *StoryEngine
	Attention *AttentionEngine
}

// Config tunes the engines a Manager hands out.
type Config struct {
	RevealInterval    time.Duration
	FlipBackDelay     time.Duration
	AttentionDuration time.Duration
	SwitchOffset      time.Duration
	TargetColor       string
	TargetShape       string
	Consistency       float64
	SessionTTL        time.Duration
}

// Manager owns all live sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	cfg  Config
	log  *zap.Logger
	now  Clock
	stop chan struct{}
	once sync.Once
}

// NewManager creates a Manager and starts its expiry sweep.
func NewManager(cfg Config, log *zap.Logger, now Clock) *Manager {
	if now == nil {
		now = time.Now
	}
	m := &Manager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		log:      log,
		now:      now,
		stop:     make(chan struct{}),
	}
	go m.sweep()
	return m
}

// sweep drops sessions idle past the TTL, stopping their timers.
func (m *Manager) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
		}

		cutoff := m.now().Add(-m.cfg.SessionTTL)
		m.mu.Lock()
		for id, s := range m.sessions {
			s.mu.Lock()
			stale := s.lastTouch.Before(cutoff)
			if stale {
				s.closed = true
				s.timer.Stop()
				delete(m.sessions, id)
			}
			s.mu.Unlock()
			if stale {
				m.log.Debug("Swept stale game session", zap.String("session_id", id))
			}
		}
		m.mu.Unlock()
	}
}

// Close stops the sweeper and tears down every live session.
func (m *Manager) Close() {
	m.once.Do(func() { close(m.stop) })
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		s.mu.Lock()
		s.closed = true
		s.timer.Stop()
		s.mu.Unlock()
		delete(m.sessions, id)
	}
}

func (m *Manager) register(s *Session) {
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
}

// Get looks up a live session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Abandon tears down a session the player navigated away from. The timer is
// stopped first so nothing fires into discarded state.
func (m *Manager) Abandon(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	s.mu.Lock()
	s.closed = true
	s.timer.Stop()
	s.mu.Unlock()
	m.log.Info("Game session abandoned", zap.String("session_id", id), zap.String("kind", string(s.Kind)))
	return nil
}

func (m *Manager) newSession(userID, childID uint, kind Kind) *Session {
	return &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ChildID:   childID,
		Kind:      kind,
		lastTouch: m.now(),
	}
}

// --- Sequence Recall ---

// StartSequence opens a Sequence Recall session. The reveal timer is armed
// immediately; input opens when it fires.
func (m *Manager) StartSequence(userID, childID uint) *Session {
	s := m.newSession(userID, childID, KindSequence)
	s.Sequence = NewSequenceEngine(m.now, m.now().UnixNano(), m.cfg.Consistency)
	m.register(s)
	m.armReveal(s)
	return s
}

func (m *Manager) armReveal(s *Session) {
	d := s.Sequence.ShowingDuration(m.cfg.RevealInterval)
	s.timer.Schedule(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		s.Sequence.FinishShowing()
	})
}

// TapSequence forwards a tap; on level-up it re-arms the reveal timer for
// the next sequence.
func (m *Manager) TapSequence(id string, color int) (TapOutcome, error) {
	s, err := m.Get(id)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.Sequence == nil {
		return "", ErrSessionNotFound
	}
	s.lastTouch = m.now()

	outcome, err := s.Sequence.Tap(color)
	if err != nil {
		return "", err
	}
	switch outcome {
	case TapLevelUp:
		m.armReveal(s)
	case TapEnded:
		s.timer.Stop()
	}
	return outcome, nil
}

// --- Matching Pairs ---

// StartPairs opens a Matching Pairs session.
func (m *Manager) StartPairs(userID, childID uint) *Session {
	s := m.newSession(userID, childID, KindPairs)
	s.Pairs = NewPairsEngine(m.now, m.now().UnixNano(), m.cfg.Consistency)
	m.register(s)
	return s
}

// FlipPairs forwards a flip; a mismatch arms the flip-back timer.
func (m *Manager) FlipPairs(id string, cardID int) (FlipOutcome, error) {
	s, err := m.Get(id)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.Pairs == nil {
		return "", ErrSessionNotFound
	}
	s.lastTouch = m.now()

	outcome, err := s.Pairs.Flip(cardID)
	if err != nil {
		return "", err
	}
	switch outcome {
	case FlipMismatch:
		s.timer.Schedule(m.cfg.FlipBackDelay, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.closed {
				return
			}
			s.Pairs.ResolveMismatch()
		})
	case FlipComplete:
		s.timer.Stop()
	}
	return outcome, nil
}

// --- Story Builder ---

// StartStory opens a Story Builder session.
func (m *Manager) StartStory(userID, childID uint) *Session {
	s := m.newSession(userID, childID, KindStory)
	s.Story = NewStoryEngine(m.now, m.now().UnixNano(), m.cfg.Consistency)
	m.register(s)
	return s
}

// PickStory forwards a panel pick.
func (m *Manager) PickStory(id string, panelID int) (bool, error) {
	s, err := m.Get(id)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.Story == nil {
		return false, ErrSessionNotFound
	}
	s.lastTouch = m.now()
	return s.Story.Pick(panelID)
}

// --- Focus Detective ---

// StartAttention opens a timed attention session. The timer fires once at
// the rule-switch offset, then re-arms for session end.
func (m *Manager) StartAttention(userID, childID uint) *Session {
	s := m.newSession(userID, childID, KindAttention)
	start := m.now()
	s.Attention = NewAttentionEngine(AttentionConfig{
		Duration:     m.cfg.AttentionDuration,
		SwitchOffset: m.cfg.SwitchOffset,
		TargetColor:  m.cfg.TargetColor,
		TargetShape:  m.cfg.TargetShape,
		Consistency:  m.cfg.Consistency,
	}, start)
	m.register(s)

	s.timer.Schedule(m.cfg.SwitchOffset, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		s.Attention.Tick(m.now())
		remaining := m.cfg.AttentionDuration - m.cfg.SwitchOffset
		s.timer.Schedule(remaining, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.closed {
				return
			}
			s.Attention.Finish(m.now())
		})
	})
	return s
}

// PresentAttention registers a stimulus appearing on screen.
func (m *Manager) PresentAttention(id string, stim Stimulus) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.Attention == nil {
		return ErrSessionNotFound
	}
	s.lastTouch = m.now()
	return s.Attention.Present(m.now(), stim)
}

// ClickAttention forwards a stimulus click.
func (m *Manager) ClickAttention(id string, stimulusID string) (ClickOutcome, error) {
	s, err := m.Get(id)
	if err != nil {
		return ClickOutcome{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.Attention == nil {
		return ClickOutcome{}, ErrSessionNotFound
	}
	s.lastTouch = m.now()
	return s.Attention.Click(m.now(), stimulusID)
}

// ExpireAttention marks a stimulus as having left the screen unanswered.
func (m *Manager) ExpireAttention(id string, stimulusID string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.Attention == nil {
		return ErrSessionNotFound
	}
	s.lastTouch = m.now()
	s.Attention.Expire(m.now(), stimulusID)
	return nil
}
