package bells

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oshokin/speech-timer/internal/audio"
	"github.com/oshokin/speech-timer/internal/clock"
	"github.com/oshokin/speech-timer/internal/domain/timer"
)

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithBellHandler registers the callback notified for every fired bell.
func WithBellHandler(fn func(event timer.BellEvent)) Option {
	return func(s *Scheduler) {
		s.onBell = fn
	}
}

// WithErrorHandler registers the callback receiving contained playback
// errors. A failed bell sound must never stop the timer, so errors are
// reported here instead of being returned.
func WithErrorHandler(fn func(err error)) Option {
	return func(s *Scheduler) {
		s.onError = fn
	}
}

// Scheduler fires bells when the remaining time crosses configured
// thresholds between two consecutive observations.
type Scheduler struct {
	// mu guards the cursor.
	mu sync.Mutex
	// clk timestamps fired events.
	clk clock.Clock
	// output plays the bell sound; may be nil.
	output audio.Output
	// onBell receives fired events; may be nil.
	onBell func(event timer.BellEvent)
	// onError receives contained playback errors; may be nil.
	onError func(err error)
	// baselined is false until the first observation after a reset.
	baselined bool
	// lastRemaining is the previously observed remaining value.
	lastRemaining time.Duration
}

// New creates a scheduler playing through the provided output.
func New(clk clock.Clock, output audio.Output, opts ...Option) *Scheduler {
	s := &Scheduler{
		clk:    clk,
		output: output,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CheckBells observes the current remaining time against the previous
// observation and fires every eligible checkpoint whose threshold was
// crossed, in source order. It returns the kinds that fired; the caller
// clears each returned checkpoint's Armed flag.
//
// The very first observation after a reset only records a baseline and
// never fires: a timer started already below a threshold must not ring
// immediately.
func (s *Scheduler) CheckBells(ctx context.Context, remaining time.Duration, checkpoints []timer.Checkpoint) []timer.BellKind {
	s.mu.Lock()

	if !s.baselined {
		s.baselined = true
		s.lastRemaining = remaining
		s.mu.Unlock()

		return nil
	}

	previous := s.lastRemaining
	// The cursor moves regardless of whether anything fires.
	s.lastRemaining = remaining

	s.mu.Unlock()

	var fired []timer.BellKind

	for _, checkpoint := range checkpoints {
		if !checkpoint.Enabled || !checkpoint.Armed || checkpoint.Threshold <= 0 {
			continue
		}

		// A true decreasing crossing: strictly above before, at or
		// below now. Sustained low samples cannot re-trigger because
		// the previous sample is no longer above the threshold.
		if previous > checkpoint.Threshold && remaining <= checkpoint.Threshold {
			s.trigger(ctx, checkpoint, remaining)
			fired = append(fired, checkpoint.Kind)
		}
	}

	return fired
}

// Reset clears the cursor back to "no baseline". Call it whenever the
// timer returns to idle.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.baselined = false
	s.lastRemaining = 0
}

// trigger plays the sound and notifies the bell handler for one fired
// checkpoint. Playback failures are contained here.
func (s *Scheduler) trigger(ctx context.Context, checkpoint timer.Checkpoint, remaining time.Duration) {
	if s.output != nil && s.output.Ready() {
		if err := s.output.Play(ctx); err != nil && s.onError != nil {
			s.onError(fmt.Errorf("play %s bell: %w", checkpoint.Kind, err))
		}
	}

	if s.onBell != nil {
		s.onBell(timer.BellEvent{
			Kind:      checkpoint.Kind,
			Remaining: remaining,
			Threshold: checkpoint.Threshold,
			Timestamp: s.clk.Now(),
		})
	}
}
