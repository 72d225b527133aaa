// Package sys holds the process-global binding to the host engine's ABI
// table and the Go side of the library entrypoints.
//
// The embedding layer (a cgo shim, not part of this module) receives the
// engine's init options struct, wraps the C function table in an API
// implementation, and calls GDNativeInit. From then on the table is
// write-once and read-only; Get panics with a clear message when called
// before binding. Tests bind the in-process implementation from the
// enginetest package instead.
//
// The nativescript entrypoints are exposed as plain Go functions the shim
// forwards to: NativescriptInit runs the user's registration callback,
// NativescriptFrame drives per-frame hooks (the async executor installs one
// here), and GDNativeTerminate unwinds everything in reverse order.
package sys
