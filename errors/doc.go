// Package errors provides structured error types for the binding runtime
// and the generator.
//
// Errors are categorized by Phase (where in the pipeline the error occurred)
// and Kind (error category). The Error type includes rich context: field
// path, Go/engine type names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
//		Path("args", "velocity").
//		GoType("string").
//		EngineType("Vector2").
//		Detail("cannot convert string to vector").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.DuplicateClass(errors.PhaseRegister, "MyClass")
//	err := errors.NotBound("core API table")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
