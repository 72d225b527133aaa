package object

import (
	gdnative "github.com/gdnative-go/gdnative"
	"github.com/gdnative-go/gdnative/sys"
)

// CastRaw performs the engine's is-a check and returns the handle when the
// object is an instance of targetClass. Generated bindings wrap this in
// typed per-class cast functions; upcasts along declared inheritance edges
// never consult it.
func CastRaw(h gdnative.Handle, targetClass string) (gdnative.Handle, bool) {
	if !h.Valid() {
		return 0, false
	}
	if !sys.Get().ObjectIsClass(h, targetClass) {
		return 0, false
	}
	return h, true
}

// CastAny downcasts an untyped object, returning a wrapper for the target
// class when the dynamic type matches.
func CastAny(obj GodotObject, targetClass string) (AnyObject, bool) {
	h, ok := CastRaw(obj.Raw(), targetClass)
	if !ok {
		return AnyObject{}, false
	}
	return NewAny(h), true
}

// TypeTagOf returns the native script type tag attached to the object, or
// zero when the object carries no script.
func TypeTagOf(h gdnative.Handle) gdnative.TypeTag {
	if !h.Valid() {
		return 0
	}
	return sys.Get().ObjectTypeTag(h)
}
