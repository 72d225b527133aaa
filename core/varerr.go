package core

import (
	"fmt"
	"strings"
)

// Conversion errors form a closed sum. They are values, never fatal, and
// compose structurally for nested failures via FieldError and ElementError.

// InvalidNilError reports a nil variant where a value was required.
type InvalidNilError struct{}

func (InvalidNilError) Error() string { return "variant is nil" }

// InvalidTypeError reports a variant of the wrong tag.
type InvalidTypeError struct {
	Expected VariantType
	Got      VariantType
}

func (e InvalidTypeError) Error() string {
	return fmt.Sprintf("invalid variant type: expected %s, got %s", e.Expected, e.Got)
}

func typeError(expected, got VariantType) error {
	if got == TypeNil {
		return InvalidNilError{}
	}
	return InvalidTypeError{Expected: expected, Got: got}
}

// InvalidLengthError reports an array payload of the wrong arity.
type InvalidLengthError struct {
	Expected int
	Got      int
}

func (e InvalidLengthError) Error() string {
	return fmt.Sprintf("invalid length: expected %d, got %d", e.Expected, e.Got)
}

// InvalidEnumReprError reports an enum representation that failed to decode.
type InvalidEnumReprError struct {
	Expected string
	Err      error
}

func (e InvalidEnumReprError) Error() string {
	return fmt.Sprintf("invalid %s enum representation: %v", e.Expected, e.Err)
}

func (e InvalidEnumReprError) Unwrap() error { return e.Err }

// InvalidEnumVariantError reports a payload that failed to decode for a
// known enum variant.
type InvalidEnumVariantError struct {
	Variant string
	Err     error
}

func (e InvalidEnumVariantError) Error() string {
	return fmt.Sprintf("invalid payload for enum variant %q: %v", e.Variant, e.Err)
}

func (e InvalidEnumVariantError) Unwrap() error { return e.Err }

// UnknownEnumVariantError reports a tag naming no declared variant.
type UnknownEnumVariantError struct {
	Variant  string
	Expected []string
}

func (e UnknownEnumVariantError) Error() string {
	return fmt.Sprintf("unknown enum variant %q, expected one of: %s",
		e.Variant, strings.Join(e.Expected, ", "))
}

// CannotCastError reports an object that is not an instance of the
// requested class.
type CannotCastError struct {
	Class string
}

func (e CannotCastError) Error() string {
	return fmt.Sprintf("object cannot be cast to %s", e.Class)
}

// CustomError carries a free-form conversion failure message.
type CustomError struct {
	Message string
}

func (e CustomError) Error() string { return e.Message }

// FieldError wraps a conversion failure inside a named field.
type FieldError struct {
	Field string
	Err   error
}

func (e FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, e.Err)
}

func (e FieldError) Unwrap() error { return e.Err }

// ElementError wraps a conversion failure inside a positional element.
type ElementError struct {
	Index int
	Err   error
}

func (e ElementError) Error() string {
	return fmt.Sprintf("element %d: %v", e.Index, e.Err)
}

func (e ElementError) Unwrap() error { return e.Err }
