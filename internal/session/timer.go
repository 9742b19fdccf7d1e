package session

import (
	"sync"
	"time"
)

// Timer is a cancellable single-expiry countdown. Arm starts (or
// restarts) it; the callback fires exactly once unless Cancel or a
// re-Arm happens first. A re-Arm is equivalent to cancel-then-arm.
type Timer struct {
	mu  sync.Mutex
	gen uint64
	t   *time.Timer
}

// Arm schedules fn to run after d, cancelling any pending expiry.
func (t *Timer) Arm(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.t != nil {
		t.t.Stop()
	}
	t.gen++
	gen := t.gen

	t.t = time.AfterFunc(d, func() {
		t.mu.Lock()
		live := gen == t.gen
		t.mu.Unlock()
		if live {
			fn()
		}
	})
}

// Cancel suppresses a pending expiry. A callback that already started
// running is not interrupted; callers guard against that with their own
// resolution check.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	if t.t != nil {
		t.t.Stop()
		t.t = nil
	}
}
