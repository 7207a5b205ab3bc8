// Package engine implements the precision countdown state machine.
//
// An Engine owns exactly one timer's temporal state and advances it on
// frame callbacks armed through a clock.Scheduler. All public methods
// are synchronous, constant-time mutations guarded by one mutex, so
// user-interaction handlers may interleave freely with frame callbacks
// and always observe a fully consistent snapshot. Illegal transitions
// (pausing an idle timer, starting a running one) are silent no-ops:
// they are normal UI double-invocations, not programmer mistakes.
package engine
