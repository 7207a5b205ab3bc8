// Package broker fans one engine's notifications out to multiple
// observers.
//
// A Broker implements engine.Listener and is registered on exactly one
// explicitly constructed engine; UI observers subscribe to the broker
// and receive snapshot copies. Subscribers cannot mutate engine state
// through the broker, preserving the single-writer invariant.
package broker
