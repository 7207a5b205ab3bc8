package engine

import (
	"sync"
	"time"

	"github.com/oshokin/speech-timer/internal/clock"
	"github.com/oshokin/speech-timer/internal/domain/timer"
)

// Listener receives engine notifications. Callbacks run after the
// mutation completes and outside the engine lock, so a listener may
// re-enter the public API. Snapshots are value copies.
type Listener interface {
	// OnTick fires after every recompute with the fresh snapshot.
	OnTick(snapshot timer.Snapshot)
	// OnStatusChange fires on every state machine transition.
	OnStatusChange(previous, current timer.Status)
	// OnFinish fires once when the timer reaches zero remaining.
	OnFinish(snapshot timer.Snapshot)
}

// DefaultDriftSampleInterval is how often the drift diagnostic is
// recomputed at most.
const DefaultDriftSampleInterval = time.Second

// Option customizes an Engine.
type Option func(*Engine)

// WithListener registers the notification sink.
func WithListener(l Listener) Option {
	return func(e *Engine) {
		e.listener = l
	}
}

// WithDriftSampleInterval overrides the drift sampling interval.
func WithDriftSampleInterval(interval time.Duration) Option {
	return func(e *Engine) {
		if interval > 0 {
			e.driftSampleInterval = interval
		}
	}
}

// Engine owns a single timer's state and the frame callback driving it.
type Engine struct {
	// mu guards every field below. The single-writer invariant of the
	// timer lives here: observers only ever get value copies.
	mu sync.Mutex
	// clk supplies monotonic readings for user-operation timestamps.
	clk clock.Clock
	// frames arms the per-frame recompute callback.
	frames clock.Scheduler
	// listener is the notification sink; may be nil.
	listener Listener
	// driftSampleInterval bounds how often drift is recomputed.
	driftSampleInterval time.Duration
	// snap is the current timer state, mutated in place.
	snap timer.Snapshot
	// pending is the outstanding frame, nil when none is armed.
	pending clock.Frame
	// generation invalidates stale frame callbacks: a callback whose
	// token no longer matches arrived after a cancel and must not
	// mutate state.
	generation uint64
	// lastDriftSample is the reading of the previous drift sample.
	lastDriftSample time.Time
	// destroyed marks the engine unusable.
	destroyed bool
}

// New creates an idle engine with the provided total duration.
// Negative durations are treated as zero.
func New(clk clock.Clock, frames clock.Scheduler, duration time.Duration, opts ...Option) *Engine {
	if duration < 0 {
		duration = 0
	}

	e := &Engine{
		clk:                 clk,
		frames:              frames,
		driftSampleInterval: DefaultDriftSampleInterval,
		snap: timer.Snapshot{
			Status:     timer.StatusIdle,
			Duration:   duration,
			Remaining:  duration,
			LastUpdate: clk.Now(),
		},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Start begins a run segment from idle or paused. Running and finished
// timers are left untouched.
func (e *Engine) Start() {
	e.mu.Lock()

	if e.destroyed ||
		e.snap.Status == timer.StatusRunning ||
		e.snap.Status == timer.StatusFinished {
		e.mu.Unlock()
		return
	}

	previous := e.snap.Status
	now := e.clk.Now()

	e.snap.Status = timer.StatusRunning
	e.snap.StartedAt = now
	e.snap.LastUpdate = now
	e.armFrameLocked()

	listener := e.listener

	e.mu.Unlock()

	if listener != nil {
		listener.OnStatusChange(previous, timer.StatusRunning)
	}
}

// Pause completes the current run segment. A no-op unless running.
func (e *Engine) Pause() {
	e.mu.Lock()

	if e.destroyed || e.snap.Status != timer.StatusRunning {
		e.mu.Unlock()
		return
	}

	now := e.clk.Now()

	segment := now.Sub(e.snap.StartedAt)
	if segment < 0 {
		segment = 0
	}

	e.snap.PauseAccumulated += segment
	e.snap.Elapsed = min(e.snap.Duration, e.snap.PauseAccumulated)
	e.snap.Remaining = e.snap.Duration - e.snap.Elapsed
	e.snap.StartedAt = time.Time{}
	e.snap.LastUpdate = now
	e.snap.Status = timer.StatusPaused
	e.cancelFrameLocked()

	listener := e.listener

	e.mu.Unlock()

	if listener != nil {
		listener.OnStatusChange(timer.StatusRunning, timer.StatusPaused)
	}
}

// Resume continues a paused timer. A no-op unless paused.
func (e *Engine) Resume() {
	e.mu.Lock()
	paused := !e.destroyed && e.snap.Status == timer.StatusPaused
	e.mu.Unlock()

	if paused {
		e.Start()
	}
}

// Reset returns the timer to idle from any state, preserving the
// configured duration and canceling any pending frame.
func (e *Engine) Reset() {
	e.mu.Lock()

	if e.destroyed {
		e.mu.Unlock()
		return
	}

	previous := e.snap.Status
	now := e.clk.Now()

	e.cancelFrameLocked()
	e.snap = timer.Snapshot{
		Status:     timer.StatusIdle,
		Duration:   e.snap.Duration,
		Remaining:  e.snap.Duration,
		LastUpdate: now,
	}
	e.lastDriftSample = time.Time{}

	listener := e.listener

	e.mu.Unlock()

	if listener != nil && previous != timer.StatusIdle {
		listener.OnStatusChange(previous, timer.StatusIdle)
	}
}

// SetDuration changes the total duration, rescaling the remaining time
// proportionally so the fraction completed stays stable across a
// mid-flight edit. Setting the current duration again is a complete
// no-op: no timestamp is touched and no recompute runs. Negative
// durations are treated as zero.
func (e *Engine) SetDuration(duration time.Duration) {
	if duration < 0 {
		duration = 0
	}

	e.mu.Lock()

	if e.destroyed || duration == e.snap.Duration {
		e.mu.Unlock()
		return
	}

	now := e.clk.Now()
	old := e.snap.Duration

	// Bring remaining up to date with the current clock reading before
	// taking the ratio, so a mid-segment edit rescales the live value
	// rather than the one from the last frame.
	if e.snap.Status == timer.StatusRunning {
		e.recomputeLocked(now)
	}

	var ratio float64
	if old > 0 {
		ratio = float64(e.snap.Remaining) / float64(old)
	}

	remaining := time.Duration(float64(duration) * ratio)
	if remaining < 0 {
		remaining = 0
	}

	if remaining > duration {
		remaining = duration
	}

	e.snap.Duration = duration
	e.snap.Remaining = remaining
	e.snap.Elapsed = duration - remaining
	e.snap.LastUpdate = now

	// Rebase the run segment bookkeeping on the rescaled elapsed value
	// so the next recompute continues from here.
	if e.snap.Status == timer.StatusRunning {
		e.snap.PauseAccumulated = e.snap.Elapsed
		e.snap.StartedAt = now
	} else {
		e.snap.PauseAccumulated = e.snap.Elapsed
	}

	finished := e.snap.Status == timer.StatusRunning && e.snap.Remaining == 0
	if finished {
		e.snap.Status = timer.StatusFinished
		e.snap.StartedAt = time.Time{}
		e.cancelFrameLocked()
	}

	snapshot := e.snap
	listener := e.listener

	e.mu.Unlock()

	if listener == nil {
		return
	}

	listener.OnTick(snapshot)

	if finished {
		listener.OnStatusChange(timer.StatusRunning, timer.StatusFinished)
		listener.OnFinish(snapshot)
	}
}

// Snapshot returns a defensive copy of the current state.
func (e *Engine) Snapshot() timer.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.snap
}

// Destroy cancels any pending frame and makes the engine unusable.
func (e *Engine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.destroyed {
		return
	}

	e.cancelFrameLocked()
	e.destroyed = true
}

// onFrame is the per-frame recompute invoked by the scheduler.
func (e *Engine) onFrame(generation uint64, now time.Time) {
	e.mu.Lock()

	// A stale callback lost the race against Pause/Reset/Destroy; the
	// generation token keeps it from mutating state after the logical
	// stop.
	if e.destroyed || generation != e.generation || e.snap.Status != timer.StatusRunning {
		e.mu.Unlock()
		return
	}

	e.pending = nil

	e.recomputeLocked(now)
	e.sampleDriftLocked(now)

	finished := e.snap.Remaining <= 0
	if finished {
		segment := now.Sub(e.snap.StartedAt)
		if segment > 0 {
			e.snap.PauseAccumulated += segment
		}

		e.snap.Elapsed = e.snap.Duration
		e.snap.Remaining = 0
		e.snap.Status = timer.StatusFinished
		e.snap.StartedAt = time.Time{}
		e.cancelFrameLocked()
	} else {
		e.armFrameLocked()
	}

	snapshot := e.snap
	listener := e.listener

	e.mu.Unlock()

	if listener == nil {
		return
	}

	listener.OnTick(snapshot)

	if finished {
		listener.OnStatusChange(timer.StatusRunning, timer.StatusFinished)
		listener.OnFinish(snapshot)
	}
}

// recomputeLocked refreshes Elapsed/Remaining from the clock reading.
// Caller must hold e.mu and the timer must be running.
func (e *Engine) recomputeLocked(now time.Time) {
	segment := now.Sub(e.snap.StartedAt)
	if segment < 0 {
		segment = 0
	}

	elapsed := min(e.snap.Duration, e.snap.PauseAccumulated+segment)

	// Elapsed never decreases while running.
	if elapsed < e.snap.Elapsed {
		elapsed = e.snap.Elapsed
	}

	e.snap.Elapsed = elapsed
	e.snap.Remaining = e.snap.Duration - elapsed
	e.snap.LastUpdate = now
}

// sampleDriftLocked records the drift diagnostic at most once per
// sampling interval. It never corrects the timer.
func (e *Engine) sampleDriftLocked(now time.Time) {
	if !e.lastDriftSample.IsZero() && now.Sub(e.lastDriftSample) < e.driftSampleInterval {
		return
	}

	theoretical := e.snap.PauseAccumulated + now.Sub(e.snap.StartedAt)

	drift := theoretical - e.snap.Elapsed
	if drift < 0 {
		drift = -drift
	}

	e.snap.PrecisionDrift = drift
	e.lastDriftSample = now
}

// armFrameLocked schedules the next frame under a fresh generation
// token. Caller must hold e.mu.
func (e *Engine) armFrameLocked() {
	e.generation++
	generation := e.generation

	e.pending = e.frames.ScheduleFrame(func(now time.Time) {
		e.onFrame(generation, now)
	})
}

// cancelFrameLocked stops any outstanding frame and bumps the
// generation so an already-fired callback is ignored. Caller must
// hold e.mu.
func (e *Engine) cancelFrameLocked() {
	if e.pending != nil {
		e.pending.Stop()
		e.pending = nil
	}

	e.generation++
}
