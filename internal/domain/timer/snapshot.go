package timer

import "time"

// Status is the phase of the timer state machine.
type Status int

const (
	// StatusIdle means the timer has not started since construction or
	// the last reset.
	StatusIdle Status = iota
	// StatusRunning means a run segment is in progress.
	StatusRunning
	// StatusPaused means at least one run segment completed and the
	// timer is stopped mid-flight.
	StatusPaused
	// StatusFinished means elapsed reached the configured duration.
	// Terminal until reset.
	StatusFinished
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Snapshot is the timer's temporal state handed out on every query.
// The engine mutates its own copy in place; observers always receive
// value copies, so a Snapshot in caller hands never changes.
type Snapshot struct {
	// Status is the current state machine phase.
	Status Status
	// Duration is the configured total duration.
	Duration time.Duration
	// Elapsed is the time counted so far, within [0, Duration].
	Elapsed time.Duration
	// Remaining is derived as Duration - Elapsed and never negative.
	Remaining time.Duration
	// StartedAt is the clock reading at which the current run segment
	// began. Zero unless the timer is running.
	StartedAt time.Time
	// PauseAccumulated is the sum of all completed run segments.
	// Monotonically non-decreasing except on reset.
	PauseAccumulated time.Duration
	// LastUpdate is the clock reading of the last recompute.
	LastUpdate time.Time
	// PrecisionDrift is the absolute difference between a theoretical
	// elapsed estimate and the recorded Elapsed, sampled periodically.
	// Diagnostic only; it never affects correctness.
	PrecisionDrift time.Duration
}

// Clone returns a copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}

	cloned := *s

	return &cloned
}
