// Package settings persists user-facing timer settings as a versioned
// JSON blob under a fixed storage key.
//
// Load validates every field independently and falls back to the
// default for any invalid one, so malformed values never reach the
// timer core. A version mismatch discards the whole blob.
package settings
