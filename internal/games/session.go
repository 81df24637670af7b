package games

import (
	"sync"
	"time"
)

// Clock supplies the current time. Engines never call time.Now directly so
// tests can drive transitions deterministically.
type Clock func() time.Time

// Timer is the single cancellation handle a live session owns. Stop wins any
// race with the underlying timer: a callback that fires after Stop is dropped
// instead of mutating discarded session state.
type Timer struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// Schedule arms the timer, replacing any pending callback. Only one callback
// can be in flight per session at a time.
func (t *Timer) Schedule(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	if t.stopped {
		return
	}
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		if t.stopped {
			t.mu.Unlock()
			return
		}
		t.mu.Unlock()
		fn()
	})
}

// Stop cancels any pending callback and refuses future ones.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Stopped reports whether the handle has been torn down.
func (t *Timer) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}
