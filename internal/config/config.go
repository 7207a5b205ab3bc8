package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// BellConfig holds the configuration for a single bell.
type BellConfig struct {
	// Threshold is the remaining-time trigger point. Zero disables
	// triggering even when Enabled is true.
	Threshold time.Duration `yaml:"threshold"`
	// Enabled gates the bell entirely.
	Enabled bool `yaml:"enabled"`
}

// Config holds settings shared by the speech-timer binaries.
type Config struct {
	// Duration is the total speech duration to count down from.
	Duration time.Duration `yaml:"duration"`
	// FirstBell is the earliest remaining-time warning.
	FirstBell BellConfig `yaml:"first_bell"`
	// SecondBell is the middle remaining-time warning.
	SecondBell BellConfig `yaml:"second_bell"`
	// ThirdBell is the final remaining-time warning.
	ThirdBell BellConfig `yaml:"third_bell"`
	// FrameInterval is the cadence of timer recomputes.
	FrameInterval time.Duration `yaml:"frame_interval"`
	// DriftSampleInterval bounds how often the drift diagnostic is
	// recomputed.
	DriftSampleInterval time.Duration `yaml:"drift_sample_interval"`
	// SoundFile is the path of the bell sound; empty selects the
	// terminal bell.
	SoundFile string `yaml:"sound_file"`
	// Volume is the playback level in [0, 1].
	Volume float64 `yaml:"volume"`
	// SettingsFile is the path of the persisted JSON timer settings.
	SettingsFile string `yaml:"settings_file"`
	// MetricsAddress is the optional Prometheus listen address; empty
	// disables the endpoint.
	MetricsAddress string `yaml:"metrics_addr"`
	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "speech-timer.yaml"

	// DefaultDuration is the default speech duration.
	DefaultDuration = 10 * time.Minute

	// DefaultFirstBellThreshold warns with five minutes remaining.
	DefaultFirstBellThreshold = 5 * time.Minute

	// DefaultSecondBellThreshold warns with two minutes remaining.
	DefaultSecondBellThreshold = 2 * time.Minute

	// DefaultThirdBellThreshold warns with thirty seconds remaining.
	DefaultThirdBellThreshold = 30 * time.Second

	// DefaultVolume is the default playback level.
	DefaultVolume = 1.0

	// DefaultFilePermissions is the default file permission for
	// configuration and settings files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errNegativeDuration is returned when the speech duration is negative.
	errNegativeDuration = errors.New("duration must not be negative")
	// errVolumeOutOfRange is returned when the volume is outside [0, 1].
	errVolumeOutOfRange = errors.New("volume must be within [0, 1]")
)

// Default returns a configuration populated entirely with defaults.
func Default() *Config {
	cfg := new(Config)
	// Validation cannot fail on an empty config; it only fills defaults.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates
// essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided configuration and fills absent fields
// with defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.Duration < 0 {
		return errNegativeDuration
	}

	if cfg.Volume < 0 || cfg.Volume > 1 {
		return errVolumeOutOfRange
	}

	if cfg.Duration == 0 {
		cfg.Duration = DefaultDuration
	}

	if cfg.Volume == 0 {
		cfg.Volume = DefaultVolume
	}

	// FrameInterval and DriftSampleInterval stay as provided; the clock
	// scheduler and the engine apply their own defaults on non-positive
	// values.

	applyBellDefaults(cfg)

	return nil
}

// applyBellDefaults fills unset bell thresholds. A bell with a zero
// threshold and Enabled false is considered unset; an explicitly
// disabled bell with a threshold keeps its configuration.
func applyBellDefaults(cfg *Config) {
	if cfg.FirstBell == (BellConfig{}) {
		cfg.FirstBell = BellConfig{Threshold: DefaultFirstBellThreshold, Enabled: true}
	}

	if cfg.SecondBell == (BellConfig{}) {
		cfg.SecondBell = BellConfig{Threshold: DefaultSecondBellThreshold, Enabled: true}
	}

	if cfg.ThirdBell == (BellConfig{}) {
		cfg.ThirdBell = BellConfig{Threshold: DefaultThirdBellThreshold, Enabled: true}
	}
}
