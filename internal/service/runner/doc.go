// Package runner composes the timer runtime: it loads configuration and
// persisted settings, wires the clock, engine, broker, bell scheduler,
// audio output, and metrics together, and drives one countdown from
// start to finish or interruption.
package runner
