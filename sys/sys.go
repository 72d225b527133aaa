package sys

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/gdnative-go/gdnative/errors"
)

// DebugChecks enables the best-effort liveness and binding assertions.
// It defaults to on; release embeddings may clear it at init.
var DebugChecks = true

var (
	mu      sync.Mutex
	table   atomic.Pointer[apiBox]
	inInit  atomic.Bool
	didInit atomic.Bool
)

type apiBox struct {
	api API
}

// InitOptions carries everything the gdnative_init entrypoint needs.
type InitOptions struct {
	// API is the bound function table.
	API API
	// OnLibraryInit runs after binding, still inside gdnative_init.
	OnLibraryInit func()
	// OnLibraryTerminate runs inside gdnative_terminate before unbinding.
	OnLibraryTerminate func()
}

// GDNativeInit binds the ABI table. Called by the embedding shim when the
// engine loads the library. Binding twice is an init error: it is reported
// through the engine's error callback and the second bind is ignored, so
// the entrypoint itself never panics.
func GDNativeInit(opts InitOptions) {
	mu.Lock()
	defer mu.Unlock()

	if opts.API == nil {
		// Nothing to report through; the zap logger is the only sink.
		Logger().Error("gdnative_init received a nil API table")
		return
	}
	if table.Load() != nil {
		opts.API.ReportError("ABI table already bound", "GDNativeInit", "sys/sys.go", 0)
		return
	}

	table.Store(&apiBox{api: opts.API})
	onTerminate = opts.OnLibraryTerminate
	if opts.OnLibraryInit != nil {
		guard("gdnative_init", opts.OnLibraryInit)
	}
}

var onTerminate func()

// GDNativeTerminate unwinds library state and unbinds the table.
func GDNativeTerminate() {
	mu.Lock()
	defer mu.Unlock()

	if table.Load() == nil {
		return
	}
	if onTerminate != nil {
		guard("gdnative_terminate", onTerminate)
		onTerminate = nil
	}
	runTerminateHooks()
	table.Store(nil)
	didInit.Store(false)
}

// Bound reports whether the ABI table is currently bound.
func Bound() bool { return table.Load() != nil }

// Get returns the bound ABI table. Calling before GDNativeInit is a
// programmer error; it panics with a clear message so the mistake is
// caught in development rather than corrupting engine state.
func Get() API {
	box := table.Load()
	if box == nil {
		panic(errors.NotBound("engine ABI table"))
	}
	return box.api
}

// Registration gate: classes register only inside the nativescript init
// callback.

// NativescriptInit runs the user's class-registration callback. The
// callback receives no arguments here; registration handles are built by
// the nativescript package, which checks RegistrationOpen.
func NativescriptInit(register func()) {
	if didInit.Load() {
		reportInitError("nativescript_init invoked twice")
		return
	}
	inInit.Store(true)
	defer inInit.Store(false)
	guard("nativescript_init", register)
	didInit.Store(true)
}

// RegistrationOpen reports whether the library is inside the init callback.
func RegistrationOpen() bool { return inInit.Load() }

// NativescriptTerminate drops per-handle state.
func NativescriptTerminate() {
	runTerminateHooks()
}

var (
	frameMu        sync.Mutex
	frameHooks     []func()
	terminateHooks []func()
	threadEnter    []func()
	threadExit     []func()
	singletonHooks []func()
)

// OnSingleton registers a hook for the gdnative_singleton entrypoint, which
// the engine calls once at startup for libraries marked singleton.
func OnSingleton(fn func()) {
	frameMu.Lock()
	defer frameMu.Unlock()
	singletonHooks = append(singletonHooks, fn)
}

// GDNativeSingleton is the singleton-library startup entrypoint.
func GDNativeSingleton() {
	frameMu.Lock()
	hooks := make([]func(), len(singletonHooks))
	copy(hooks, singletonHooks)
	frameMu.Unlock()
	for _, fn := range hooks {
		guard("gdnative_singleton", fn)
	}
}

// OnFrame registers a hook run on every nativescript_frame tick. The async
// executor uses this to drive pending futures.
func OnFrame(fn func()) {
	frameMu.Lock()
	defer frameMu.Unlock()
	frameHooks = append(frameHooks, fn)
}

// OnTerminate registers a hook run during termination, in reverse
// registration order.
func OnTerminate(fn func()) {
	frameMu.Lock()
	defer frameMu.Unlock()
	terminateHooks = append(terminateHooks, fn)
}

// OnThreadEnter registers a hook for nativescript_thread_enter.
func OnThreadEnter(fn func()) {
	frameMu.Lock()
	defer frameMu.Unlock()
	threadEnter = append(threadEnter, fn)
}

// OnThreadExit registers a hook for nativescript_thread_exit.
func OnThreadExit(fn func()) {
	frameMu.Lock()
	defer frameMu.Unlock()
	threadExit = append(threadExit, fn)
}

// NativescriptFrame is the per-frame tick entrypoint.
func NativescriptFrame() {
	frameMu.Lock()
	hooks := make([]func(), len(frameHooks))
	copy(hooks, frameHooks)
	frameMu.Unlock()
	for _, fn := range hooks {
		guard("nativescript_frame", fn)
	}
}

// NativescriptThreadEnter runs registered thread-local setup hooks.
func NativescriptThreadEnter() {
	frameMu.Lock()
	hooks := make([]func(), len(threadEnter))
	copy(hooks, threadEnter)
	frameMu.Unlock()
	for _, fn := range hooks {
		guard("nativescript_thread_enter", fn)
	}
}

// NativescriptThreadExit runs registered thread-local teardown hooks.
func NativescriptThreadExit() {
	frameMu.Lock()
	hooks := make([]func(), len(threadExit))
	copy(hooks, threadExit)
	frameMu.Unlock()
	for _, fn := range hooks {
		guard("nativescript_thread_exit", fn)
	}
}

func runTerminateHooks() {
	frameMu.Lock()
	hooks := make([]func(), len(terminateHooks))
	copy(hooks, terminateHooks)
	terminateHooks = nil
	frameHooks = nil
	threadEnter = nil
	threadExit = nil
	singletonHooks = nil
	frameMu.Unlock()
	for i := len(hooks) - 1; i >= 0; i-- {
		guard("terminate_hook", hooks[i])
	}
}

// guard keeps panics from crossing the host ABI. The panic is logged and
// swallowed; entrypoints return normally.
func guard(site string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			Logger().Error("panic crossed into entrypoint",
				zap.String("site", site),
				zap.Any("panic", r))
			if box := table.Load(); box != nil {
				box.api.ReportError("Go panic (see log)", site, "sys/sys.go", 0)
			}
		}
	}()
	fn()
}

func reportInitError(msg string) {
	Logger().Error(msg)
	if box := table.Load(); box != nil {
		box.api.ReportError(msg, "sys", "sys/sys.go", 0)
	}
}
