// Package enginetest provides an in-process implementation of the sys.API
// table, standing in for the engine in the test suite.
//
// The fake engine keeps objects in a handle table, walks a small built-in
// class hierarchy for is-a checks, maintains real reference counts, and
// routes script method calls through the records registered during
// nativescript init. Tests install it with:
//
//	eng := enginetest.Install(t)
//
// which binds the table through sys.GDNativeInit and unbinds on cleanup.
// It implements just enough engine behaviour for the bridge's contracts to
// be exercised end to end; it is not an engine.
package enginetest
