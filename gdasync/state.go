package gdasync

import (
	"runtime/debug"
	"sync"

	"go.uber.org/zap"

	gdnative "github.com/gdnative-go/gdnative"
	"github.com/gdnative-go/gdnative/core"
	"github.com/gdnative-go/gdnative/dispatch"
	"github.com/gdnative-go/gdnative/errors"
	"github.com/gdnative-go/gdnative/nativescript"
	"github.com/gdnative-go/gdnative/object"
	"github.com/gdnative-go/gdnative/sys"
)

// FunctionStateClass is the engine-visible class name of suspended async
// methods. Script code holds a reference to an instance of this class,
// listens for its signals and calls resume on it.
const FunctionStateClass = "GoFunctionState"

func logger() *zap.Logger { return sys.Logger().Named("gdasync") }

// fnState is the module-side state of one suspended call. Keyed by the
// owner handle of its engine object; the engine-side user data carries
// nothing.
type fnState struct {
	mu        sync.Mutex
	resume    chan core.Variant
	suspended bool
	done      bool
}

var states = struct {
	mu sync.Mutex
	m  map[gdnative.Handle]*fnState
}{m: make(map[gdnative.Handle]*fnState)}

func stateOf(owner gdnative.Handle) *fnState {
	states.mu.Lock()
	defer states.mu.Unlock()
	return states.m[owner]
}

// stateData is the (empty) user data of the async support classes.
type stateData struct{}

// Register installs the function-state and signal-bridge classes and hooks
// the frame pump into the engine loop. Call it inside the nativescript
// init callback, before any async method can run.
func Register(h *nativescript.InitHandle) error {
	err := nativescript.RegisterClass(h, nativescript.ClassConfig[stateData]{
		Name: FunctionStateClass,
		Base: "Reference",
		Wrap: nativescript.WrapAether[stateData],
		New: func(owner object.AnyObject) *stateData {
			states.mu.Lock()
			states.m[owner.Raw()] = &fnState{}
			states.mu.Unlock()
			return &stateData{}
		},
		Register: func(b *nativescript.ClassBuilder[stateData]) {
			b.Method("resume", resumeShim).Done()
			b.Signal("resumable").Done()
			b.Signal("completed").WithParamUntyped("value").Done()
		},
	})
	if err != nil {
		return err
	}
	if err := registerBridgeClass(h); err != nil {
		return err
	}
	sys.OnFrame(drain)
	sys.OnTerminate(shutdown)
	return nil
}

// resumeShim feeds the resume argument to the newest pending yield. Older
// yields of the same call are abandoned and never resolve.
func resumeShim(owner gdnative.Handle, _ gdnative.UserData, args []core.Variant) core.Variant {
	st := stateOf(owner)
	if st == nil {
		logger().Error("resume on unknown function state",
			zap.Uint64("owner", uint64(owner)))
		return core.NilVariant()
	}

	arg := core.NilVariant()
	if len(args) > 0 {
		arg = args[0]
	}

	st.mu.Lock()
	ch := st.resume
	st.resume = nil
	st.mu.Unlock()

	if ch == nil {
		logger().Warn("resume with no pending yield",
			zap.Uint64("owner", uint64(owner)))
		return core.NilVariant()
	}
	select {
	case ch <- arg:
	default:
	}
	return core.NilVariant()
}

// Context is the yield surface handed to an async method body. It is
// bound to one function-state object for the lifetime of the call.
type Context struct {
	owner gdnative.Handle
}

// FunctionState returns the handle of the engine object representing this
// call.
func (c *Context) FunctionState() gdnative.Handle { return c.owner }

// UntilResume suspends until script code calls resume on the function
// state; the channel yields the resume argument. Calling it again before
// the previous yield resolved abandons that yield: only the newest one is
// ever woken. The first suspension announces itself with a resumable
// signal, emitted from the engine thread on the next frame.
func (c *Context) UntilResume() <-chan core.Variant {
	ch := make(chan core.Variant, 1)
	st := stateOf(c.owner)
	if st == nil {
		logger().Error("yield after completion", zap.Uint64("owner", uint64(c.owner)))
		close(ch)
		return ch
	}

	st.mu.Lock()
	st.resume = ch
	first := !st.suspended
	st.suspended = true
	st.mu.Unlock()

	if first {
		owner := c.owner
		post(func() {
			if err := sys.Get().ObjectEmitSignal(owner, "resumable", nil); err != nil {
				logger().Error("resumable emission failed", zap.Error(err))
			}
		})
	}
	return ch
}

// Signal suspends until the named signal fires on src; the channel yields
// the signal arguments. Delivery goes through a pooled bridge object
// connected oneshot to the source.
func (c *Context) Signal(src gdnative.Handle, name string) <-chan []core.Variant {
	return awaitSignal(src, name)
}

// Run starts an async method body on the goroutine-local spawner and
// returns the function-state object variant. With no spawner installed
// the call fails soft: an error is logged and a nil variant returned.
func Run(fn func(ctx *Context) core.Variant) core.Variant {
	sp := localSpawner()
	if sp == nil {
		logger().Error("async call rejected", zap.Error(errors.NoSpawner()))
		return core.NilVariant()
	}

	owner := sys.Get().NativeScriptInstance(FunctionStateClass)
	if !owner.Valid() || stateOf(owner) == nil {
		logger().Error("function state construction failed; async classes not registered?")
		return core.NilVariant()
	}

	ctx := &Context{owner: owner}
	sp.Spawn(func() {
		defer func() {
			if r := recover(); r != nil {
				logger().Error("async body panicked",
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()))
				post(func() { complete(owner, core.NilVariant()) })
			}
		}()
		out := fn(ctx)
		post(func() { complete(owner, out) })
	})
	return core.ObjectVariant(owner)
}

// AsyncMethod adapts an async body to the dispatch method shape: invoking
// the method spawns the body and immediately returns its function state.
func AsyncMethod[C any](site string, fn func(inst nativescript.Instance[C], ctx *Context, args []core.Variant) core.Variant) dispatch.Method[C] {
	return dispatch.MethodFunc[C](func(inst nativescript.Instance[C], va *dispatch.Varargs) core.Variant {
		logger().Debug("spawning async method", zap.String("site", site))
		args := va.Rest()
		return Run(func(ctx *Context) core.Variant {
			return fn(inst, ctx, args)
		})
	})
}

func complete(owner gdnative.Handle, value core.Variant) {
	st := stateOf(owner)
	if st == nil {
		return
	}
	st.mu.Lock()
	if st.done {
		st.mu.Unlock()
		return
	}
	st.done = true
	st.resume = nil
	st.mu.Unlock()

	if err := sys.Get().ObjectEmitSignal(owner, "completed", []core.Variant{value}); err != nil {
		logger().Error("completed emission failed", zap.Error(err))
	}
	states.mu.Lock()
	delete(states.m, owner)
	states.mu.Unlock()
}

// shutdown drops every in-flight call when the library terminates. Pending
// yields are closed so spawned goroutines can unwind.
func shutdown() {
	states.mu.Lock()
	m := states.m
	states.m = make(map[gdnative.Handle]*fnState)
	states.mu.Unlock()
	for _, st := range m {
		st.mu.Lock()
		if st.resume != nil {
			close(st.resume)
			st.resume = nil
		}
		st.done = true
		st.mu.Unlock()
	}

	drainBridges()

	pump.mu.Lock()
	pump.fns = nil
	pump.mu.Unlock()
}
