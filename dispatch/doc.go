// Package dispatch adapts user Go methods to the engine's callback shape.
//
// The engine sees exactly one method shape: (owner, user data, argument
// slice) to variant. Everything richer is layered on top here: the Varargs
// reader binds arguments one by one with per-argument error context,
// FromVarargs fills a tagged struct in one step, and the typed adapters run
// the user function under the instance's user-data policy with the chosen
// borrow discipline. Panics inside user code never cross the shim; they
// are logged with their site and a nil variant is returned.
package dispatch
