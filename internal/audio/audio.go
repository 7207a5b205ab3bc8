package audio

import "context"

// Output is the playback capability consumed by the bell scheduler.
// Implementations must be safe for concurrent use.
type Output interface {
	// Play emits one bell sound. Errors are reported to the caller and
	// must never be treated as fatal by timing code.
	Play(ctx context.Context) error
	// SetVolume adjusts the playback level. Implementations clamp the
	// value to [0, 1].
	SetVolume(level float64)
	// Ready reports whether the output can currently produce sound.
	Ready() bool
}

// clampVolume bounds a volume level to [0, 1].
func clampVolume(level float64) float64 {
	switch {
	case level < 0:
		return 0
	case level > 1:
		return 1
	default:
		return level
	}
}
