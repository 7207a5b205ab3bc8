// Package clock abstracts the two time primitives the timer core
// depends on: a monotonic Clock and a cancelable frame Scheduler.
//
// System and FrameScheduler are the production implementations backed
// by runtime timers. Manual implements both interfaces deterministically
// for tests: time only moves via Advance, and armed frames only run via
// Fire.
package clock
