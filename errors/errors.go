package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseBind     Phase = "bind"     // ABI table binding
	PhaseParse    Phase = "parse"    // api.json / doc XML parsing
	PhaseEmit     Phase = "emit"     // code generation
	PhaseConvert  Phase = "convert"  // variant conversion
	PhaseDispatch Phase = "dispatch" // engine -> user method calls
	PhaseRegister Phase = "register" // native class registration
	PhaseAsync    Phase = "async"    // function-state / yield machinery
)

// Kind categorizes the error
type Kind string

const (
	KindTypeMismatch Kind = "type_mismatch"
	KindInvalidData  Kind = "invalid_data"
	KindInvalidInput Kind = "invalid_input"
	KindNotBound     Kind = "not_bound"
	KindNotFound     Kind = "not_found"
	KindDuplicate    Kind = "duplicate"
	KindFrozen       Kind = "frozen"
	KindContended    Kind = "contended"
	KindWrongThread  Kind = "wrong_thread"
	KindMissingArg   Kind = "missing_argument"
	KindExcessArgs   Kind = "excess_arguments"
	KindPanic        Kind = "panic"
	KindNoSpawner    Kind = "no_spawner"
	KindUnsupported  Kind = "unsupported"
	KindAbiMismatch  Kind = "abi_mismatch"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Value      any
	Cause      error
	Phase      Phase
	Kind       Kind
	GoType     string
	EngineType string
	Detail     string
	Path       []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.EngineType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.EngineType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", engine type ")
			b.WriteString(e.EngineType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("engine type ")
			b.WriteString(e.EngineType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.EngineType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// EngineType sets the engine-side type name
func (b *Builder) EngineType(t string) *Builder {
	b.err.EngineType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, engineType string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindTypeMismatch,
		Path:       path,
		GoType:     goType,
		EngineType: engineType,
	}
}

// NotBound reports use of the ABI table before gdnative_init bound it.
func NotBound(what string) *Error {
	return &Error{
		Phase:  PhaseBind,
		Kind:   KindNotBound,
		Detail: fmt.Sprintf("%s accessed before binding", what),
	}
}

// AbiMismatch reports an init options struct the bridge cannot consume.
func AbiMismatch(detail string) *Error {
	return &Error{
		Phase:  PhaseBind,
		Kind:   KindAbiMismatch,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// DuplicateClass reports a second registration under an already-taken class name.
func DuplicateClass(phase Phase, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicate,
		Detail: fmt.Sprintf("class %q already registered", name),
		Value:  name,
	}
}

// DuplicateMethod reports a second method registration under the same name.
func DuplicateMethod(class, method string) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindDuplicate,
		Path:   []string{class, method},
		Detail: fmt.Sprintf("method %q already registered on %q", method, class),
	}
}

// Frozen reports a registration attempted after the init callback returned.
func Frozen(what string) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindFrozen,
		Detail: fmt.Sprintf("%s after init callback completed", what),
	}
}

// Contended reports a fallible lock acquisition that lost the race.
func Contended(class string) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindContended,
		Detail: fmt.Sprintf("user data of %q is locked by another dispatch", class),
	}
}

// WrongThread reports thread-affine user data touched off its origin goroutine.
func WrongThread(class string) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindWrongThread,
		Detail: fmt.Sprintf("user data of %q accessed outside its origin goroutine", class),
	}
}

// MissingArgument reports a required call argument that was not supplied.
func MissingArgument(idx int, name string) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindMissingArg,
		Path:   []string{name},
		Detail: fmt.Sprintf("missing argument #%d (%s)", idx, name),
		Value:  idx,
	}
}

// ExcessArguments reports trailing call arguments past the declared arity.
func ExcessArguments(got, want int) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindExcessArgs,
		Detail: fmt.Sprintf("got %d arguments, expected %d", got, want),
		Value:  got,
	}
}

// Panicked wraps a recovered panic from a user method.
func Panicked(site string, recovered any) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindPanic,
		Detail: fmt.Sprintf("panic at %s: %v", site, recovered),
		Value:  recovered,
	}
}

// NoSpawner reports an async call on a thread without an installed executor.
func NoSpawner() *Error {
	return &Error{
		Phase:  PhaseAsync,
		Kind:   KindNoSpawner,
		Detail: "no local task spawner installed on this thread",
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
