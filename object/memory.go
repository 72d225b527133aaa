package object

import (
	gdnative "github.com/gdnative-go/gdnative"
	"github.com/gdnative-go/gdnative/sys"
)

// The memory policy pair is sealed: exactly two implementations exist and
// the interface is unexported.

type memoryPolicy interface {
	drop(h gdnative.Handle)
}

// refCounted decrements on drop and destroys when the last count falls.
type refCounted struct{}

func (refCounted) drop(h gdnative.Handle) {
	if sys.Get().ReferenceDecrement(h) {
		sys.Get().ObjectDestroy(h)
	}
}

// manuallyManaged only decays; destruction is an explicit Free.
type manuallyManaged struct{}

func (manuallyManaged) drop(gdnative.Handle) {}

func policyFor(obj GodotObject) memoryPolicy {
	if obj.RefCountedClass() {
		return refCounted{}
	}
	return manuallyManaged{}
}
