package clock

import (
	"sync"
	"time"
)

// Manual is a deterministic Clock and Scheduler for tests.
// Time only moves when Advance is called, and armed frames only run
// when Fire is called, so every interleaving of ticks and user
// operations can be reproduced exactly.
type Manual struct {
	// mu protects now and pending.
	mu sync.Mutex
	// now is the current manual clock reading.
	now time.Time
	// pending holds armed frames in arming order.
	pending []*manualFrame
}

// NewManual creates a manual clock starting at the provided instant.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current manual reading.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.now
}

// Advance moves the clock forward by d. Negative values are ignored so
// the clock stays monotonic.
func (m *Manual) Advance(d time.Duration) {
	if d < 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.now = m.now.Add(d)
}

// ScheduleFrame arms fn without running it; use Fire to run it later.
func (m *Manual) ScheduleFrame(fn func(now time.Time)) Frame {
	frame := &manualFrame{
		owner: m,
		fn:    fn,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending = append(m.pending, frame)

	return frame
}

// Fire runs the oldest armed frame at the current reading and reports
// whether a frame was pending. The callback runs outside the lock, so
// it may re-arm a new frame.
func (m *Manual) Fire() bool {
	m.mu.Lock()

	if len(m.pending) == 0 {
		m.mu.Unlock()
		return false
	}

	frame := m.pending[0]
	m.pending = m.pending[1:]
	now := m.now

	m.mu.Unlock()

	frame.fn(now)

	return true
}

// PendingFrames returns the number of armed frames.
func (m *Manual) PendingFrames() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.pending)
}

// manualFrame is a frame armed on a Manual scheduler.
type manualFrame struct {
	// owner is the scheduler holding this frame.
	owner *Manual
	// fn is the armed callback.
	fn func(now time.Time)
}

// Stop removes the frame from the pending list, returning true if it
// was still pending.
func (f *manualFrame) Stop() bool {
	f.owner.mu.Lock()
	defer f.owner.mu.Unlock()

	for i, pending := range f.owner.pending {
		if pending == f {
			f.owner.pending = append(f.owner.pending[:i], f.owner.pending[i+1:]...)
			return true
		}
	}

	return false
}
