package gdasync_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	gdnative "github.com/gdnative-go/gdnative"
	"github.com/gdnative-go/gdnative/core"
	"github.com/gdnative-go/gdnative/dispatch"
	"github.com/gdnative-go/gdnative/enginetest"
	"github.com/gdnative-go/gdnative/gdasync"
	"github.com/gdnative-go/gdnative/nativescript"
	"github.com/gdnative-go/gdnative/object"
	"github.com/gdnative-go/gdnative/sys"
)

func install(t *testing.T) *enginetest.Engine {
	t.Helper()
	eng := enginetest.Install(t)
	sys.NativescriptInit(func() {
		h := nativescript.NewInitHandle()
		if err := gdasync.Register(h); err != nil {
			t.Fatalf("register async classes: %v", err)
		}
	})
	gdasync.SetLocalSpawner(gdasync.GoroutineSpawner{})
	t.Cleanup(func() { gdasync.SetLocalSpawner(nil) })
	return eng
}

// capture collects stubbed signal deliveries for assertions.
type capture struct {
	mu   sync.Mutex
	hits [][]core.Variant
}

func (c *capture) stub() enginetest.MethodStub {
	return func(_ gdnative.Handle, args []core.Variant) (core.Variant, error) {
		c.mu.Lock()
		c.hits = append(c.hits, args)
		c.mu.Unlock()
		return core.NilVariant(), nil
	}
}

func (c *capture) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.hits)
}

func (c *capture) last() []core.Variant {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.hits) == 0 {
		return nil
	}
	return c.hits[len(c.hits)-1]
}

// pumpUntil drives frame ticks until the condition holds. Completions move
// through the frame pump, so the test has to tick like the engine would.
func pumpUntil(t *testing.T, what string, done func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		sys.NativescriptFrame()
		if done() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func watchState(t *testing.T, eng *enginetest.Engine, state gdnative.Handle) (resumable, completed *capture) {
	t.Helper()
	resumable, completed = &capture{}, &capture{}
	eng.StubMethod("Node", "on_resumable", resumable.stub())
	eng.StubMethod("Node", "on_completed", completed.stub())
	probe := eng.ObjectConstruct("Node")
	if err := sys.Get().ObjectConnect(state, "resumable", probe, "on_resumable", nil, true); err != nil {
		t.Fatalf("connect resumable: %v", err)
	}
	if err := sys.Get().ObjectConnect(state, "completed", probe, "on_completed", nil, true); err != nil {
		t.Fatalf("connect completed: %v", err)
	}
	return resumable, completed
}

func TestResumeDoublesValue(t *testing.T) {
	eng := install(t)

	out := gdasync.Run(func(ctx *gdasync.Context) core.Variant {
		v := <-ctx.UntilResume()
		n, _ := v.AsInt()
		return core.IntVariant(n * 2)
	})
	state, ok := out.AsObject()
	if !ok {
		t.Fatalf("Run returned %v, want a function state object", out)
	}

	resumable, completed := watchState(t, eng, state)
	pumpUntil(t, "resumable", func() bool { return resumable.count() > 0 })

	if _, err := sys.Get().ObjectCall(state, "resume", []core.Variant{core.IntVariant(21)}); err != nil {
		t.Fatalf("resume: %v", err)
	}
	pumpUntil(t, "completed", func() bool { return completed.count() > 0 })

	args := completed.last()
	if len(args) != 1 {
		t.Fatalf("completed carried %d arguments, want 1", len(args))
	}
	if n, _ := args[0].AsInt(); n != 42 {
		t.Errorf("completed value = %d, want 42", n)
	}

	// The call is finished; a late resume is tolerated and ignored.
	if out, err := sys.Get().ObjectCall(state, "resume", nil); err != nil || !out.IsNil() {
		t.Errorf("late resume = (%v, %v), want nil variant", out, err)
	}
}

func TestRunWithoutSpawner(t *testing.T) {
	install(t)
	gdasync.SetLocalSpawner(nil)

	out := gdasync.Run(func(ctx *gdasync.Context) core.Variant {
		t.Error("body must not run without a spawner")
		return core.NilVariant()
	})
	if !out.IsNil() {
		t.Errorf("Run without spawner = %v, want nil variant", out)
	}
}

func TestNewestYieldWins(t *testing.T) {
	eng := install(t)

	ready := make(chan struct{})
	var staleFired atomic.Bool
	out := gdasync.Run(func(ctx *gdasync.Context) core.Variant {
		stale := ctx.UntilResume()
		fresh := ctx.UntilResume()
		close(ready)
		v := <-fresh
		select {
		case <-stale:
			staleFired.Store(true)
		default:
		}
		n, _ := v.AsInt()
		return core.IntVariant(n)
	})
	state, ok := out.AsObject()
	if !ok {
		t.Fatalf("Run returned %v", out)
	}
	_, completed := watchState(t, eng, state)

	<-ready
	if _, err := sys.Get().ObjectCall(state, "resume", []core.Variant{core.IntVariant(7)}); err != nil {
		t.Fatalf("resume: %v", err)
	}
	pumpUntil(t, "completed", func() bool { return completed.count() > 0 })

	if staleFired.Load() {
		t.Error("an abandoned yield must never resolve")
	}
	if n, _ := completed.last()[0].AsInt(); n != 7 {
		t.Errorf("completed value = %d, want 7", n)
	}
}

func TestSignalBridgeDelivery(t *testing.T) {
	eng := install(t)
	emitter := eng.ObjectConstruct("Node2D")

	ready := make(chan struct{})
	out := gdasync.Run(func(ctx *gdasync.Context) core.Variant {
		ch := ctx.Signal(emitter, "area_entered")
		close(ready)
		args := <-ch
		if len(args) == 0 {
			return core.NilVariant()
		}
		return args[0]
	})
	state, ok := out.AsObject()
	if !ok {
		t.Fatalf("Run returned %v", out)
	}
	_, completed := watchState(t, eng, state)

	<-ready
	if err := sys.Get().ObjectEmitSignal(emitter, "area_entered", []core.Variant{core.StringVariant("rock")}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	pumpUntil(t, "completed", func() bool { return completed.count() > 0 })

	if s, _ := completed.last()[0].AsString(); s != "rock" {
		t.Errorf("completed value = %q, want rock", s)
	}
}

func TestBridgePoolReuse(t *testing.T) {
	eng := install(t)
	emitter := eng.ObjectConstruct("Node2D")

	readyPing := make(chan struct{})
	readyPong := make(chan struct{})
	out := gdasync.Run(func(ctx *gdasync.Context) core.Variant {
		ping := ctx.Signal(emitter, "ping")
		close(readyPing)
		a := <-ping
		pong := ctx.Signal(emitter, "pong")
		close(readyPong)
		b := <-pong
		x, _ := a[0].AsInt()
		y, _ := b[0].AsInt()
		return core.IntVariant(x + y)
	})
	state, ok := out.AsObject()
	if !ok {
		t.Fatalf("Run returned %v", out)
	}
	_, completed := watchState(t, eng, state)

	<-readyPing
	liveBefore := eng.LiveObjects()
	if err := sys.Get().ObjectEmitSignal(emitter, "ping", []core.Variant{core.IntVariant(1)}); err != nil {
		t.Fatalf("emit ping: %v", err)
	}
	<-readyPong
	if live := eng.LiveObjects(); live != liveBefore {
		t.Errorf("second wait built a new bridge; live objects %d -> %d", liveBefore, live)
	}
	if err := sys.Get().ObjectEmitSignal(emitter, "pong", []core.Variant{core.IntVariant(2)}); err != nil {
		t.Fatalf("emit pong: %v", err)
	}
	pumpUntil(t, "completed", func() bool { return completed.count() > 0 })

	if n, _ := completed.last()[0].AsInt(); n != 3 {
		t.Errorf("completed value = %d, want 3", n)
	}
}

func TestStaleSignalDeliveryDropped(t *testing.T) {
	eng := install(t)
	emitter := eng.ObjectConstruct("Node2D")

	readyPing := make(chan struct{})
	readyPong := make(chan struct{})
	out := gdasync.Run(func(ctx *gdasync.Context) core.Variant {
		ping := ctx.Signal(emitter, "ping")
		close(readyPing)
		<-ping
		pong := ctx.Signal(emitter, "pong")
		close(readyPong)
		args := <-pong
		return args[0]
	})
	state, ok := out.AsObject()
	if !ok {
		t.Fatalf("Run returned %v", out)
	}
	_, completed := watchState(t, eng, state)

	<-readyPing
	targets := eng.TargetsOf(emitter, "ping")
	if len(targets) != 1 {
		t.Fatalf("ping wait made %d connections, want 1", len(targets))
	}
	bridgeOwner := targets[0]
	if err := sys.Get().ObjectEmitSignal(emitter, "ping", []core.Variant{core.IntVariant(1)}); err != nil {
		t.Fatalf("emit ping: %v", err)
	}
	<-readyPong

	// A late redelivery from the finished ping wait carries a slot that no
	// longer matches the bridge's current wait; it must not resolve the
	// pong yield.
	if _, err := sys.Get().ObjectCall(bridgeOwner, "_signal_arrived", []core.Variant{
		core.StringVariant("stale"), core.IntVariant(0),
	}); err != nil {
		t.Fatalf("stale delivery call: %v", err)
	}

	if err := sys.Get().ObjectEmitSignal(emitter, "pong", []core.Variant{core.StringVariant("real")}); err != nil {
		t.Fatalf("emit pong: %v", err)
	}
	pumpUntil(t, "completed", func() bool { return completed.count() > 0 })

	if s, _ := completed.last()[0].AsString(); s != "real" {
		t.Errorf("completed value = %q, want real", s)
	}
}

type doubler struct{}

func TestAsyncMethodDispatch(t *testing.T) {
	eng := enginetest.Install(t)
	sys.NativescriptInit(func() {
		h := nativescript.NewInitHandle()
		if err := gdasync.Register(h); err != nil {
			t.Fatalf("register async classes: %v", err)
		}
		err := nativescript.RegisterClass(h, nativescript.ClassConfig[doubler]{
			Name: "AsyncDoubler",
			New:  func(_ object.AnyObject) *doubler { return &doubler{} },
			Register: func(b *nativescript.ClassBuilder[doubler]) {
				m := gdasync.AsyncMethod("AsyncDoubler.double",
					func(_ nativescript.Instance[doubler], ctx *gdasync.Context, _ []core.Variant) core.Variant {
						v := <-ctx.UntilResume()
						n, _ := v.AsInt()
						return core.IntVariant(n * 2)
					})
				b.Method("double", dispatch.Wrap("AsyncDoubler.double", m)).Done()
			},
		})
		if err != nil {
			t.Fatalf("register class: %v", err)
		}
	})
	gdasync.SetLocalSpawner(gdasync.GoroutineSpawner{})
	t.Cleanup(func() { gdasync.SetLocalSpawner(nil) })

	obj := sys.Get().NativeScriptInstance("AsyncDoubler")
	if !obj.Valid() {
		t.Fatal("instance construction failed")
	}
	out, err := sys.Get().ObjectCall(obj, "double", nil)
	if err != nil {
		t.Fatalf("call double: %v", err)
	}
	state, ok := out.AsObject()
	if !ok {
		t.Fatalf("double returned %v, want a function state", out)
	}

	resumable, completed := watchState(t, eng, state)
	pumpUntil(t, "resumable", func() bool { return resumable.count() > 0 })
	if _, err := sys.Get().ObjectCall(state, "resume", []core.Variant{core.IntVariant(21)}); err != nil {
		t.Fatalf("resume: %v", err)
	}
	pumpUntil(t, "completed", func() bool { return completed.count() > 0 })

	if n, _ := completed.last()[0].AsInt(); n != 42 {
		t.Errorf("completed value = %d, want 42", n)
	}
}
