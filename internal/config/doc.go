// Package config loads, validates, and saves the application's YAML
// configuration: the speech duration, bell thresholds, frame cadence,
// sound output, and observability settings. Validation fills missing
// fields with defaults so a partial file still yields a usable config.
package config
