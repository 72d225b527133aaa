package object

import (
	gdnative "github.com/gdnative-go/gdnative"
	"github.com/gdnative-go/gdnative/sys"
)

// GodotObject is implemented by every generated class wrapper and by
// AnyObject. Implementations are thin handles; copying one copies the
// handle, never the object.
type GodotObject interface {
	// Raw returns the engine handle.
	Raw() gdnative.Handle
	// ClassName returns the static class name of the wrapper type.
	ClassName() string
	// RefCountedClass reports the class's memory policy.
	RefCountedClass() bool
}

// AnyObject is an untyped object wrapper used where no generated class
// type is in scope (dispatch shims, tests).
type AnyObject struct {
	ptr   gdnative.Handle
	class string
}

// NewAny wraps a raw handle. The class name is looked up from the engine.
func NewAny(ptr gdnative.Handle) AnyObject {
	class := ""
	if ptr.Valid() {
		class = sys.Get().ObjectClassName(ptr)
	}
	return AnyObject{ptr: ptr, class: class}
}

func (o AnyObject) Raw() gdnative.Handle { return o.ptr }

func (o AnyObject) ClassName() string { return o.class }

func (o AnyObject) RefCountedClass() bool {
	if o.class == "" {
		return false
	}
	return sys.Get().ClassIsRefCounted(o.class)
}

// IsA reports whether the object's dynamic class is, or derives from,
// the named class.
func IsA(obj GodotObject, class string) bool {
	h := obj.Raw()
	if !h.Valid() {
		return false
	}
	return sys.Get().ObjectIsClass(h, class)
}

// Ownership tags. The three marker types form a closed set; the Ownership
// constraint seals it.

type Unique struct{}

type Shared struct{}

type ThreadLocal struct{}

// Ownership is the closed set of ownership tags.
type Ownership interface {
	Unique | Shared | ThreadLocal
}
