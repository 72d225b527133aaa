// Package gdasync exposes cooperative async methods as engine-visible
// function-state objects.
//
// The package owns no event loop: an externally installed Spawner runs the
// async body, and a per-frame pump (driven by the engine's frame callback)
// moves completions back onto the engine thread. A running body suspends
// through its Context: UntilResume blocks until script code calls resume
// on the function-state object, Signal blocks until a watched signal
// fires. Function-state and signal-bridge classes are ordinary native
// classes; Register must run inside the nativescript init callback.
package gdasync
