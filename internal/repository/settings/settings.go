package settings

import (
	"time"

	"github.com/oshokin/speech-timer/internal/domain/timer"
)

const (
	// CurrentVersion is the settings schema version. Blobs with any
	// other version are discarded wholesale.
	CurrentVersion = 1

	// StorageKey is the fixed key the settings blob is stored under.
	StorageKey = "speech-timer.settings"

	// DefaultFilename is the on-disk realization of StorageKey.
	DefaultFilename = "speech-timer-settings.json"

	// maxDuration bounds plausible speech durations.
	maxDuration = 24 * time.Hour
)

// Default values for every field; sanitize falls back to these
// per field.
const (
	defaultDuration            = 10 * time.Minute
	defaultFirstBellThreshold  = 5 * time.Minute
	defaultSecondBellThreshold = 2 * time.Minute
	defaultThirdBellThreshold  = 30 * time.Second
	defaultVolume              = 1.0
)

// BellSetting is the persisted configuration for one bell.
type BellSetting struct {
	// ThresholdMs is the remaining-time trigger point in milliseconds.
	ThresholdMs int64 `json:"thresholdMs"`
	// Enabled gates the bell.
	Enabled bool `json:"enabled"`
}

// Settings is the persisted timer configuration.
type Settings struct {
	// Version is the schema version of the blob.
	Version int `json:"version"`
	// DurationMs is the total speech duration in milliseconds.
	DurationMs int64 `json:"durationMs"`
	// FirstBell is the earliest warning bell.
	FirstBell BellSetting `json:"firstBell"`
	// SecondBell is the middle warning bell.
	SecondBell BellSetting `json:"secondBell"`
	// ThirdBell is the final warning bell.
	ThirdBell BellSetting `json:"thirdBell"`
	// Volume is the playback level in [0, 1].
	Volume float64 `json:"volume"`
}

// Default returns settings populated entirely with defaults.
func Default() *Settings {
	return &Settings{
		Version:    CurrentVersion,
		DurationMs: defaultDuration.Milliseconds(),
		FirstBell: BellSetting{
			ThresholdMs: defaultFirstBellThreshold.Milliseconds(),
			Enabled:     true,
		},
		SecondBell: BellSetting{
			ThresholdMs: defaultSecondBellThreshold.Milliseconds(),
			Enabled:     true,
		},
		ThirdBell: BellSetting{
			ThresholdMs: defaultThirdBellThreshold.Milliseconds(),
			Enabled:     true,
		},
		Volume: defaultVolume,
	}
}

// Clone returns a copy of the settings.
func (s *Settings) Clone() *Settings {
	if s == nil {
		return nil
	}

	cloned := *s

	return &cloned
}

// Duration returns the speech duration.
func (s *Settings) Duration() time.Duration {
	return time.Duration(s.DurationMs) * time.Millisecond
}

// Checkpoints materializes the three bell checkpoints, all armed, in
// first/second/third order for the scheduler.
func (s *Settings) Checkpoints() []timer.Checkpoint {
	bell := func(kind timer.BellKind, setting BellSetting) timer.Checkpoint {
		return timer.Checkpoint{
			Kind:      kind,
			Threshold: time.Duration(setting.ThresholdMs) * time.Millisecond,
			Enabled:   setting.Enabled,
			Armed:     true,
		}
	}

	return []timer.Checkpoint{
		bell(timer.BellFirst, s.FirstBell),
		bell(timer.BellSecond, s.SecondBell),
		bell(timer.BellThird, s.ThirdBell),
	}
}

// sanitize validates every field independently, replacing invalid
// values with defaults. A version mismatch discards everything.
func sanitize(s *Settings) *Settings {
	defaults := Default()

	if s == nil || s.Version != CurrentVersion {
		return defaults
	}

	result := s.Clone()

	if result.DurationMs <= 0 || result.DurationMs > maxDuration.Milliseconds() {
		result.DurationMs = defaults.DurationMs
	}

	result.FirstBell = sanitizeBell(result.FirstBell, defaults.FirstBell)
	result.SecondBell = sanitizeBell(result.SecondBell, defaults.SecondBell)
	result.ThirdBell = sanitizeBell(result.ThirdBell, defaults.ThirdBell)

	if result.Volume < 0 || result.Volume > 1 {
		result.Volume = defaults.Volume
	}

	return result
}

// sanitizeBell validates a single bell setting. Negative or implausibly
// large thresholds fall back; a zero threshold is a valid "never fires"
// configuration and is preserved.
func sanitizeBell(setting, fallback BellSetting) BellSetting {
	if setting.ThresholdMs < 0 || setting.ThresholdMs > maxDuration.Milliseconds() {
		return fallback
	}

	return setting
}
