// Package bells detects remaining-time threshold crossings and turns
// them into bell notifications.
//
// The scheduler keeps a single cursor (the previously observed
// remaining value); thresholds, enabled flags, and armed flags stay
// caller-owned and arrive fresh on every check. That keeps the
// scheduler a pure transition detector over externally owned state.
package bells
