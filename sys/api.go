package sys

import (
	gdnative "github.com/gdnative-go/gdnative"
	"github.com/gdnative-go/gdnative/core"
)

// API is the Go view of the engine's function table. The embedding layer
// implements it over the C ABI; enginetest implements it in-process.
//
// All methods are safe to call from any engine thread once bound.
type API interface {
	// Object lifecycle.

	// ObjectConstruct instantiates a built-in engine class and returns
	// its handle, or 0 if the class is unknown or not instantiable.
	ObjectConstruct(class string) gdnative.Handle
	// ObjectDestroy frees a manually managed object.
	ObjectDestroy(h gdnative.Handle)
	// ObjectClassName returns the dynamic class of an object.
	ObjectClassName(h gdnative.Handle) string
	// ObjectIsClass reports whether the object is an instance of class,
	// directly or through inheritance.
	ObjectIsClass(h gdnative.Handle, class string) bool
	// ObjectIsValid is a best-effort liveness probe used by debug checks
	// only. It must never be relied on for safety.
	ObjectIsValid(h gdnative.Handle) bool

	// Reference counting, valid only for classes deriving Reference.

	// ReferenceInit claims the initial reference of a fresh object.
	ReferenceInit(h gdnative.Handle) bool
	// ReferenceIncrement adds a reference.
	ReferenceIncrement(h gdnative.Handle) bool
	// ReferenceDecrement drops a reference and reports whether the caller
	// now owns the last one and must destroy the object.
	ReferenceDecrement(h gdnative.Handle) bool

	// Class metadata.

	// ClassIsRefCounted reports whether class derives Reference.
	ClassIsRefCounted(class string) bool
	// SingletonGet resolves a named engine singleton.
	SingletonGet(name string) gdnative.Handle

	// Method binds.

	// MethodBindGet resolves a built-in method, returning 0 when unknown.
	MethodBindGet(class, method string) gdnative.MethodBind
	// MethodBindCall invokes a resolved method on an object.
	MethodBindCall(bind gdnative.MethodBind, obj gdnative.Handle, args []core.Variant) (core.Variant, error)
	// ObjectCall invokes a method by name, covering script methods the
	// bind table cannot see.
	ObjectCall(obj gdnative.Handle, method string, args []core.Variant) (core.Variant, error)

	// Signals.

	// ObjectEmitSignal emits a declared signal from obj.
	ObjectEmitSignal(obj gdnative.Handle, signal string, args []core.Variant) error
	// ObjectConnect connects a signal to a method on target.
	ObjectConnect(src gdnative.Handle, signal string, target gdnative.Handle, method string, binds []core.Variant, oneshot bool) error
	// ObjectDisconnect removes a connection made by ObjectConnect.
	ObjectDisconnect(src gdnative.Handle, signal string, target gdnative.Handle, method string)

	// Native script registration. Only valid during the nativescript init
	// callback; later calls fail.

	RegisterClass(rec ClassRecord) error
	RegisterMethod(rec MethodRecord) error
	RegisterProperty(rec PropertyRecord) error
	RegisterSignal(rec SignalRecord) error
	// SetClassTypeTag associates a process-unique tag with a registered
	// class for fast dynamic downcasts.
	SetClassTypeTag(class string, tag gdnative.TypeTag)
	// ObjectTypeTag returns the tag of the script attached to obj, or 0.
	ObjectTypeTag(h gdnative.Handle) gdnative.TypeTag
	// NativeScriptInstance creates an owner object of the registered
	// class's base type with the script attached; the create thunk runs
	// before this returns.
	NativeScriptInstance(class string) gdnative.Handle

	// Diagnostics, routed to the engine console.

	ReportError(desc, fn, file string, line int)
	ReportWarning(desc, fn, file string, line int)
	Print(msg string)
}

// ClassRecord describes one native class registration.
type ClassRecord struct {
	Name string
	Base string
	Tool bool
	// Create runs once per instance; the returned user data rides along
	// with the owner object.
	Create func(owner gdnative.Handle) gdnative.UserData
	// Destroy runs exactly once per successful Create. A zero user data
	// indicates a failed constructor and must be tolerated.
	Destroy func(owner gdnative.Handle, ud gdnative.UserData)
}

// MethodRecord describes one method registration.
type MethodRecord struct {
	Class   string
	Name    string
	RPCMode gdnative.RPCMode
	Func    func(owner gdnative.Handle, ud gdnative.UserData, args []core.Variant) core.Variant
}

// PropertyRecord describes one property registration.
type PropertyRecord struct {
	Class        string
	Name         string
	Type         core.VariantType
	DefaultValue core.Variant
	Hint         int32
	HintString   string
	Usage        int64
	RsetMode     gdnative.RPCMode
	Setter       func(owner gdnative.Handle, ud gdnative.UserData, value core.Variant)
	Getter       func(owner gdnative.Handle, ud gdnative.UserData) core.Variant
}

// SignalParam describes one declared signal parameter. Types are
// informational; the engine does not enforce them.
type SignalParam struct {
	Name         string
	Type         core.VariantType
	DefaultValue core.Variant
}

// SignalRecord describes one signal registration.
type SignalRecord struct {
	Class  string
	Name   string
	Params []SignalParam
}
