package dispatch

import (
	"runtime/debug"

	"go.uber.org/zap"

	gdnative "github.com/gdnative-go/gdnative"
	"github.com/gdnative-go/gdnative/core"
	"github.com/gdnative-go/gdnative/nativescript"
)

// Setter adapts a typed user setter to the engine accessor shape. The
// value is converted before the user-data mapping; conversion failures,
// mapping failures and panics are logged and the write is dropped.
func Setter[C any, T any](site string, recv Receiver, set func(c *C, value T)) nativescript.RawSetter {
	return func(owner gdnative.Handle, ud gdnative.UserData, value core.Variant) {
		defer func() {
			if r := recover(); r != nil {
				logger().Error("property setter panicked",
					zap.String("site", site),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()))
			}
		}()

		data, ok := nativescript.FromRaw[C](ud)
		if !ok {
			logger().Error("user data unrecoverable", zap.String("site", site))
			return
		}
		var v T
		if err := core.FromVariantValue(value, &v); err != nil {
			logger().Error("property value conversion failed",
				zap.String("site", site),
				zap.Error(err))
			return
		}

		access := data.MapMut
		if recv == Shared {
			access = data.Map
		}
		if err := access(func(c *C) { set(c, v) }); err != nil {
			logger().Error("user data mapping failed",
				zap.String("site", site),
				zap.Error(err))
		}
	}
}

// Getter adapts a typed user getter to the engine accessor shape. Failures
// are logged and a nil variant is returned.
func Getter[C any, T any](site string, recv Receiver, get func(c *C) T) nativescript.RawGetter {
	return func(owner gdnative.Handle, ud gdnative.UserData) (out core.Variant) {
		out = core.NilVariant()
		defer func() {
			if r := recover(); r != nil {
				logger().Error("property getter panicked",
					zap.String("site", site),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()))
				out = core.NilVariant()
			}
		}()

		data, ok := nativescript.FromRaw[C](ud)
		if !ok {
			logger().Error("user data unrecoverable", zap.String("site", site))
			return out
		}

		access := data.Map
		if recv == Exclusive {
			access = data.MapMut
		}
		var value T
		if err := access(func(c *C) { value = get(c) }); err != nil {
			logger().Error("user data mapping failed",
				zap.String("site", site),
				zap.Error(err))
			return out
		}

		v, err := core.ToVariantValue(value)
		if err != nil {
			logger().Error("property value conversion failed",
				zap.String("site", site),
				zap.Error(err))
			return out
		}
		return v
	}
}
