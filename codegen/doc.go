// Package codegen emits the Go binding sources from a loaded api.Model.
//
// Emission is deterministic: classes are processed in name order, enum
// values and constants are sorted by (value, name), and the shared
// trampolines accumulated across all classes are written in symbol order.
// Running the emitter twice over the same inputs yields byte-identical
// output.
//
// Per class the emitter produces one file containing the class struct
// (embedding its base), class metadata, enums, constants, upcast helpers,
// an optional singleton accessor and constructor, a lazily resolved
// method-bind table and one wrapper per engine method. Wrappers call
// shared trampolines ("icalls") deduplicated by erased signature, so two
// methods with the same shape share one marshalling function.
package codegen
