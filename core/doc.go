// Package core provides the engine value types the bridge traffics in:
// Variant, GodotString, NodePath, Dictionary, VariantArray, the typed pool
// arrays and the geometric value types, plus the conversion bridge between
// Go values and variants.
//
// Containers are reference types: NewRef shares the underlying storage, and
// there is deliberately no implicit deep copy. Pool arrays hand out read and
// write accesses with explicit Release; a write access works on a detached
// copy and commits on release, so readers taken earlier keep the data they
// saw (copy-on-write).
//
// The conversion bridge has three interfaces: ToVariant, OwnedToVariant and
// FromVariant. Types that do not implement them can still cross the boundary
// through ToVariantValue/FromVariantValue, which apply the structural
// mapping: struct to dictionary keyed by field name, slice to variant array,
// nil-like to nil. Conversion failures are structured values (see
// VariantError and friends) and compose through FieldError/ElementError for
// nested data.
package core
