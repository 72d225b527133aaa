package dispatch

import (
	"runtime/debug"

	"go.uber.org/zap"

	gdnative "github.com/gdnative-go/gdnative"
	"github.com/gdnative-go/gdnative/core"
	"github.com/gdnative-go/gdnative/nativescript"
	"github.com/gdnative-go/gdnative/sys"
)

func logger() *zap.Logger {
	return sys.Logger().Named("dispatch")
}

// Method is the full-control method capability: it receives the instance
// and the raw argument iterator. Variadic methods implement this directly.
type Method[C any] interface {
	Call(inst nativescript.Instance[C], args *Varargs) core.Variant
}

// MethodFunc adapts a plain function to Method.
type MethodFunc[C any] func(inst nativescript.Instance[C], args *Varargs) core.Variant

func (f MethodFunc[C]) Call(inst nativescript.Instance[C], args *Varargs) core.Variant {
	return f(inst, args)
}

// StaticArgsMethod is the fixed-arity capability: arguments arrive as a
// struct already bound through FromVarargs.
type StaticArgsMethod[C any, A any] func(inst nativescript.Instance[C], args A) core.Variant

// StaticArgs wraps a fixed-arity method in the thin adapter, so the engine
// only ever sees the Method shape. Binding failures are logged and yield a
// nil variant.
func StaticArgs[C any, A any](site string, fn StaticArgsMethod[C, A]) Method[C] {
	return MethodFunc[C](func(inst nativescript.Instance[C], va *Varargs) core.Variant {
		var args A
		if err := FromVarargs(va, &args); err != nil {
			logger().Error("argument binding failed",
				zap.String("site", site),
				zap.Error(err))
			return core.NilVariant()
		}
		return fn(inst, args)
	})
}

// Receiver selects the borrow discipline a bound method runs under.
type Receiver int

const (
	// Shared maps the user data for reading.
	Shared Receiver = iota
	// Exclusive maps the user data for writing.
	Exclusive
	// Owned passes the user data by value; only stateless and immutable
	// policies support it.
	Owned
)

// Bind runs fn against the instance under the given receiver discipline.
// Mapping failures (contention, wrong goroutine) are logged and yield a
// nil variant.
func Bind[C any](site string, recv Receiver, fn func(c *C, args *Varargs) core.Variant) Method[C] {
	return MethodFunc[C](func(inst nativescript.Instance[C], va *Varargs) core.Variant {
		out := core.NilVariant()
		access := inst.Data.Map
		if recv == Exclusive {
			access = inst.Data.MapMut
		}
		if err := access(func(c *C) { out = fn(c, va) }); err != nil {
			logger().Error("user data mapping failed",
				zap.String("site", site),
				zap.Error(err))
			return core.NilVariant()
		}
		return out
	})
}

// BindOwned runs fn with a by-value copy of the instance. The policy must
// support owned access.
func BindOwned[C any](site string, fn func(c C, args *Varargs) core.Variant) Method[C] {
	return MethodFunc[C](func(inst nativescript.Instance[C], va *Varargs) core.Variant {
		owned, ok := inst.Data.(nativescript.OwnedUserData[C])
		if !ok {
			logger().Error("user-data policy does not support owned access",
				zap.String("site", site))
			return core.NilVariant()
		}
		out := core.NilVariant()
		if err := owned.MapOwned(func(c C) { out = fn(c, va) }); err != nil {
			logger().Error("user data mapping failed",
				zap.String("site", site),
				zap.Error(err))
			return core.NilVariant()
		}
		return out
	})
}

// Wrap produces the engine-facing callback for a method. The shim recovers
// the instance from the raw ids, runs the method, and keeps panics from
// crossing the engine boundary: they are logged with their site and a nil
// variant is returned.
func Wrap[C any](site string, m Method[C]) nativescript.RawMethod {
	return func(owner gdnative.Handle, ud gdnative.UserData, args []core.Variant) (out core.Variant) {
		defer func() {
			if r := recover(); r != nil {
				logger().Error("user method panicked",
					zap.String("site", site),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()))
				out = core.NilVariant()
			}
		}()

		inst, ok := nativescript.InstanceFromRaw[C](owner, ud)
		if !ok {
			logger().Error("user data unrecoverable",
				zap.String("site", site),
				zap.Uint64("ud", uint64(ud)))
			return core.NilVariant()
		}
		return m.Call(inst, NewVarargs(args))
	}
}
