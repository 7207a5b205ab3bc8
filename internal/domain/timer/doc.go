// Package timer contains core domain types for the speech timer.
//
// It defines Snapshot (the timer's temporal state at a point in time),
// Status (the state machine phase), Checkpoint (caller-owned bell
// configuration), and BellEvent (a fired bell notification) with Clone
// helpers to avoid leaking internal references.
package timer
