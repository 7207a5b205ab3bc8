package timer

import "time"

// BellKind identifies one of the three ordered bells.
type BellKind int

const (
	// BellFirst is the earliest warning bell.
	BellFirst BellKind = iota
	// BellSecond is the middle warning bell.
	BellSecond
	// BellThird is the final warning bell.
	BellThird
)

// String returns the lowercase bell name.
func (k BellKind) String() string {
	switch k {
	case BellFirst:
		return "first"
	case BellSecond:
		return "second"
	case BellThird:
		return "third"
	default:
		return "unknown"
	}
}

// Checkpoint is the caller-owned configuration and armed state for one
// bell. The scheduler never stores checkpoints; the caller passes them
// fresh on every check and clears Armed based on the returned kinds.
type Checkpoint struct {
	// Kind identifies which bell this checkpoint configures.
	Kind BellKind
	// Threshold is the remaining-time trigger point. Zero or negative
	// thresholds never fire.
	Threshold time.Duration
	// Enabled gates the checkpoint entirely.
	Enabled bool
	// Armed is true while the checkpoint has not fired since the last
	// reset and is therefore eligible to trigger.
	Armed bool
}

// BellEvent describes one fired bell.
type BellEvent struct {
	// Kind identifies the bell that fired.
	Kind BellKind
	// Remaining is the remaining time observed at the firing sample.
	Remaining time.Duration
	// Threshold is the configured trigger point that was crossed.
	Threshold time.Duration
	// Timestamp is the clock reading when the bell fired.
	Timestamp time.Time
}

// Clone returns a copy of the event.
func (e *BellEvent) Clone() *BellEvent {
	if e == nil {
		return nil
	}

	cloned := *e

	return &cloned
}
