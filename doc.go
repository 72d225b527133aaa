// Package gdnative is the root of a GDNative binding generator and runtime
// bridge. It connects a host game engine's C ABI to idiomatic Go: a code
// generator turns the engine's class manifest and documentation tree into a
// compilable binding package, and a runtime library attaches user-defined
// native classes to engine objects.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	gdnative/            Root package with the opaque handle and tag types
//	├── sys/             Write-once ABI table binding and library entrypoints
//	├── core/            Engine value types (Variant, strings, containers,
//	│                    pool arrays) and the variant conversion bridge
//	├── object/          Typestate object references (Ref, TRef), memory
//	│                    policies, upcasts and downcasts
//	├── api/             Class manifest model and XML documentation index
//	├── codegen/         Binding emitter with trampoline deduplication
//	├── nativescript/    Native class registry, user-data policies, builders
//	├── dispatch/        Runtime adapters from engine callbacks to Go methods
//	├── gdasync/         Function-state objects bridging Go futures to the
//	│                    engine's yield/resume protocol
//	├── enginetest/      In-process fake engine used by the test suite
//	└── errors/          Structured error types
//
// # Control Flow
//
// At process load the host engine invokes gdnative_init; the cgo shim (not
// part of this module) forwards it to sys.GDNativeInit, which binds the ABI
// table. The engine then invokes nativescript_init, and the user's
// registration callback publishes native classes through
// nativescript.InitHandle. Every engine-to-Go call afterwards lands in the
// dispatch package, which recovers the typed instance, runs the user method
// behind a panic guard, and converts the result back to a variant.
//
// # Handles
//
// Engine-owned values are referred to by opaque handles. Handle 0 is always
// invalid. The concrete mapping from handles to C pointers belongs to the
// embedding layer; the enginetest package provides an in-process mapping for
// tests.
package gdnative
