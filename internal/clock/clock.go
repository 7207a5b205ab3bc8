package clock

import "time"

// Clock supplies readings of a high-resolution, never-decreasing time source.
type Clock interface {
	// Now returns the current clock reading.
	Now() time.Time
}

// Frame is a handle to a pending frame callback.
type Frame interface {
	// Stop attempts to prevent the frame from firing, returning true if
	// it succeeds and false if the callback already fired or was stopped.
	Stop() bool
}

// Scheduler arms one-shot callbacks at roughly display-refresh cadence.
// The timer engine re-arms a new frame from inside each callback.
type Scheduler interface {
	// ScheduleFrame arms fn to run once after the scheduler's interval,
	// passing the clock reading taken when the frame fires.
	ScheduleFrame(fn func(now time.Time)) Frame
}

// System reads the runtime wall clock. Go's time.Time carries a
// monotonic component, so differences between readings are immune to
// wall-clock adjustments.
type System struct{}

// Now returns the current time.
func (System) Now() time.Time {
	return time.Now()
}

// DefaultFrameInterval approximates a 60 Hz display refresh.
const DefaultFrameInterval = 16 * time.Millisecond

// FrameScheduler schedules one-shot callbacks on runtime timers at a
// fixed interval.
type FrameScheduler struct {
	// interval is the delay between arming a frame and it firing.
	interval time.Duration
	// clock supplies the reading passed to each callback.
	clock Clock
}

// NewFrameScheduler creates a scheduler firing every interval.
// Non-positive intervals fall back to DefaultFrameInterval.
func NewFrameScheduler(interval time.Duration) *FrameScheduler {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}

	return &FrameScheduler{
		interval: interval,
		clock:    System{},
	}
}

// ScheduleFrame arms fn on a one-shot runtime timer.
func (s *FrameScheduler) ScheduleFrame(fn func(now time.Time)) Frame {
	return &runtimeFrame{
		timer: time.AfterFunc(s.interval, func() {
			fn(s.clock.Now())
		}),
	}
}

// runtimeFrame wraps a *time.Timer as a cancelable Frame.
type runtimeFrame struct {
	timer *time.Timer
}

// Stop cancels the underlying timer.
func (f *runtimeFrame) Stop() bool {
	return f.timer.Stop()
}
