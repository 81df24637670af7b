package games

import (
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestTimerStopPreventsCallback(t *testing.T) {
	var fired atomic.Int32
	var timer Timer

	timer.Schedule(10*time.Millisecond, func() { fired.Add(1) })
	timer.Stop()

	time.Sleep(50 * time.Millisecond)
	if fired.Load() != 0 {
		t.Error("callback fired after Stop")
	}
	if !timer.Stopped() {
		t.Error("timer should report stopped")
	}
}

func TestTimerScheduleReplacesPending(t *testing.T) {
	var first, second atomic.Int32
	var timer Timer

	timer.Schedule(30*time.Millisecond, func() { first.Add(1) })
	timer.Schedule(10*time.Millisecond, func() { second.Add(1) })

	time.Sleep(80 * time.Millisecond)
	if first.Load() != 0 {
		t.Error("replaced callback still fired")
	}
	if second.Load() != 1 {
		t.Error("replacement callback did not fire")
	}
	timer.Stop()
}

func TestTimerScheduleAfterStopIsNoop(t *testing.T) {
	var fired atomic.Int32
	var timer Timer

	timer.Stop()
	timer.Schedule(5*time.Millisecond, func() { fired.Add(1) })

	time.Sleep(30 * time.Millisecond)
	if fired.Load() != 0 {
		t.Error("callback fired on a stopped handle")
	}
}

func testManager() *Manager {
	return NewManager(Config{
		RevealInterval:    5 * time.Millisecond,
		FlipBackDelay:     10 * time.Millisecond,
		AttentionDuration: 60 * time.Second,
		SwitchOffset:      30 * time.Second,
		TargetColor:       "red",
		TargetShape:       "circle",
		Consistency:       90,
		SessionTTL:        time.Hour,
	}, zap.NewNop(), nil)
}

func TestManagerAbandonStopsSession(t *testing.T) {
	m := testManager()
	defer m.Close()

	s := m.StartSequence(1, 1)
	if err := m.Abandon(s.ID); err != nil {
		t.Fatal(err)
	}

	// The reveal timer must not transition the abandoned session.
	time.Sleep(50 * time.Millisecond)
	if s.Sequence.State() == SeqInput {
		t.Error("abandoned session transitioned after teardown")
	}
	if _, err := m.Get(s.ID); err != ErrSessionNotFound {
		t.Errorf("abandoned session still registered: %v", err)
	}
	if _, err := m.TapSequence(s.ID, 0); err != ErrSessionNotFound {
		t.Errorf("tap on abandoned session: err = %v, want ErrSessionNotFound", err)
	}
}

func TestManagerSequenceRevealTimerOpensInput(t *testing.T) {
	m := testManager()
	defer m.Close()

	s := m.StartSequence(1, 1)

	deadline := time.After(time.Second)
	for {
		s.mu.Lock()
		state := s.Sequence.State()
		s.mu.Unlock()
		if state == SeqInput {
			break
		}
		select {
		case <-deadline:
			t.Fatal("reveal timer never opened input")
		case <-time.After(2 * time.Millisecond):
		}
	}
}

func TestManagerPairsFlipBack(t *testing.T) {
	m := testManager()
	defer m.Close()

	s := m.StartPairs(1, 1)
	a, b := findMismatch(s.Pairs.Cards())
	cards := s.Pairs.Cards()
	if _, err := m.FlipPairs(s.ID, cards[a].ID); err != nil {
		t.Fatal(err)
	}
	outcome, err := m.FlipPairs(s.ID, cards[b].ID)
	if err != nil {
		t.Fatal(err)
	}
	if outcome != FlipMismatch {
		t.Fatalf("outcome = %s, want mismatch", outcome)
	}

	deadline := time.After(time.Second)
	for {
		s.mu.Lock()
		state := s.Pairs.State()
		s.mu.Unlock()
		if state == PairsIdle {
			break
		}
		select {
		case <-deadline:
			t.Fatal("mismatch never flipped back")
		case <-time.After(2 * time.Millisecond):
		}
	}
}
