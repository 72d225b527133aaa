package object

import (
	"fmt"

	"github.com/gdnative-go/gdnative/sys"
)

// Ref is an owning reference suitable for long-term storage. T is the
// wrapper type, Own the ownership tag. The zero Ref is null.
type Ref[T GodotObject, Own Ownership] struct {
	obj T
}

// TRef is a temporary reference known to be safe to call methods on for
// the duration of the enclosing scope. It is never stored.
type TRef[T GodotObject, Own Ownership] struct {
	obj T
}

// NewUnique claims the initial reference of a freshly constructed object.
// For reference counted classes this claims the first count; for manually
// managed classes it records sole ownership.
func NewUnique[T GodotObject](obj T) Ref[T, Unique] {
	if obj.RefCountedClass() && obj.Raw().Valid() {
		sys.Get().ReferenceInit(obj.Raw())
	}
	return Ref[T, Unique]{obj: obj}
}

// FromEngine wraps an object handed over by the engine. Reference counted
// objects gain a count so the reference stays valid for its lifetime.
func FromEngine[T GodotObject](obj T) Ref[T, Shared] {
	if obj.RefCountedClass() && obj.Raw().Valid() {
		sys.Get().ReferenceIncrement(obj.Raw())
	}
	return Ref[T, Shared]{obj: obj}
}

// IsNull reports whether the reference holds no object.
func (r Ref[T, Own]) IsNull() bool { return !r.obj.Raw().Valid() }

// Object returns the wrapped handle type. On Shared references the result
// must not be used to call engine methods; upgrade first.
func (r Ref[T, Own]) Object() T { return r.obj }

// Drop releases the reference. Reference counted objects decrement and
// free on last; manually managed references merely decay.
func (r Ref[T, Own]) Drop() {
	h := r.obj.Raw()
	if !h.Valid() {
		return
	}
	policyFor(r.obj).drop(h)
}

// Free explicitly destroys a manually managed object. Calling it on a
// reference counted class is a bug and panics under debug checks.
func (r Ref[T, Own]) Free() {
	h := r.obj.Raw()
	if !h.Valid() {
		return
	}
	if r.obj.RefCountedClass() {
		if sys.DebugChecks {
			panic(fmt.Sprintf("Free called on reference counted class %s", r.obj.ClassName()))
		}
		return
	}
	sys.Get().ObjectDestroy(h)
}

// AssumeSafe upgrades a Shared reference to a temporary reference. The
// caller attests that the engine's safety rules hold for the duration of
// use: the object is alive and not being destroyed concurrently. For
// manually managed objects this is exactly the place undefined behaviour
// hides if the attestation is wrong.
func AssumeSafe[T GodotObject](r Ref[T, Shared]) TRef[T, Shared] {
	debugCheckAlive(r.obj)
	return TRef[T, Shared]{obj: r.obj}
}

// AssumeSafeLocal upgrades a ThreadLocal reference the same way.
func AssumeSafeLocal[T GodotObject](r Ref[T, ThreadLocal]) TRef[T, ThreadLocal] {
	debugCheckAlive(r.obj)
	return TRef[T, ThreadLocal]{obj: r.obj}
}

// AssumeUnique reinterprets a Shared reference as Unique. The caller
// attests no other live reference to the object exists anywhere.
func AssumeUnique[T GodotObject](r Ref[T, Shared]) Ref[T, Unique] {
	debugCheckAlive(r.obj)
	return Ref[T, Unique]{obj: r.obj}
}

// AssumeThreadLocal pins a Shared reference to the current goroutine.
func AssumeThreadLocal[T GodotObject](r Ref[T, Shared]) Ref[T, ThreadLocal] {
	return Ref[T, ThreadLocal]{obj: r.obj}
}

// IntoShared demotes a Unique reference. Always allowed.
func IntoShared[T GodotObject](r Ref[T, Unique]) Ref[T, Shared] {
	return Ref[T, Shared]{obj: r.obj}
}

// UniqueTRef gives checked temporary access to a Unique reference. No
// attestation needed: uniqueness implies safety.
func UniqueTRef[T GodotObject](r Ref[T, Unique]) TRef[T, Unique] {
	return TRef[T, Unique]{obj: r.obj}
}

// Object returns the wrapper for method calls.
func (t TRef[T, Own]) Object() T { return t.obj }

func debugCheckAlive[T GodotObject](obj T) {
	if !sys.DebugChecks {
		return
	}
	h := obj.Raw()
	if h.Valid() && !sys.Get().ObjectIsValid(h) {
		panic(fmt.Sprintf("AssumeSafe on dead %s handle %d", obj.ClassName(), h))
	}
}
