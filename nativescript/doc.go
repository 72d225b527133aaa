// Package nativescript registers user-defined Go classes with the engine.
//
// A class is described by a ClassConfig: engine-visible name, base class,
// constructor and a user-data policy that governs how concurrent engine
// callbacks may touch the Go value. Registration is only valid inside the
// nativescript init callback; the builders forward records to the engine in
// the order they are issued.
//
// The five user-data policies trade access discipline against overhead:
// Default (read-write lock, fallible under write contention), Mutex
// (blocking exclusive lock), LocalCell (origin-goroutine only), Aether
// (stateless, every access sees a fresh zero value) and Arc (immutable
// shared). Every policy round-trips through an opaque raw id for the
// engine handoff.
package nativescript
