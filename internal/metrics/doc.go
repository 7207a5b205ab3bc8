// Package metrics collects Prometheus metrics for the timer runtime:
// tick and bell counters, playback failures, and gauges for remaining
// time and precision drift. Serve exposes them on an HTTP /metrics
// endpoint for scraping.
package metrics
