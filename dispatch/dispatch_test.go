package dispatch_test

import (
	stderrors "errors"
	"testing"

	"github.com/gdnative-go/gdnative/core"
	"github.com/gdnative-go/gdnative/dispatch"
	gderrors "github.com/gdnative-go/gdnative/errors"
	"github.com/gdnative-go/gdnative/nativescript"
)

type health struct {
	points int64
}

func instance(t *testing.T, c *health) nativescript.Instance[health] {
	t.Helper()
	return nativescript.Instance[health]{Data: nativescript.WrapDefault(c)}
}

func kindOf(t *testing.T, err error) gderrors.Kind {
	t.Helper()
	var e *gderrors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("not a structured error: %v", err)
	}
	return e.Kind
}

func TestVarargsReader(t *testing.T) {
	va := dispatch.NewVarargs([]core.Variant{
		core.IntVariant(7),
		core.StringVariant("hello"),
	})

	n, err := dispatch.Get[int64](va.Read().WithName("count"))
	if err != nil {
		t.Fatalf("Get count: %v", err)
	}
	if n != 7 {
		t.Errorf("count = %d, want 7", n)
	}

	s, err := dispatch.Get[string](va.Read().WithName("label").WithTypeName("string"))
	if err != nil {
		t.Fatalf("Get label: %v", err)
	}
	if s != "hello" {
		t.Errorf("label = %q, want hello", s)
	}

	// Past the end: optional yields the zero value, required errors.
	extra, present, err := dispatch.GetOptional[int64](va.Read().WithName("extra"))
	if err != nil || present || extra != 0 {
		t.Errorf("GetOptional past end = (%d, %v, %v)", extra, present, err)
	}
	if _, err := dispatch.Get[int64](va.Read().WithName("extra")); err == nil {
		t.Error("required read past end should fail")
	} else if kindOf(t, err) != gderrors.KindMissingArg {
		t.Errorf("kind = %v, want missing_argument", kindOf(t, err))
	}

	if err := va.Done(); err != nil {
		t.Errorf("Done: %v", err)
	}
}

func TestVarargsRejectsExcess(t *testing.T) {
	va := dispatch.NewVarargs([]core.Variant{
		core.IntVariant(1),
		core.IntVariant(2),
	})
	if _, err := dispatch.Get[int64](va.Read()); err != nil {
		t.Fatalf("Get: %v", err)
	}
	err := va.Done()
	if err == nil {
		t.Fatal("Done should reject trailing arguments")
	}
	if kindOf(t, err) != gderrors.KindExcessArgs {
		t.Errorf("kind = %v, want excess_arguments", kindOf(t, err))
	}
}

func TestVarargsConversionError(t *testing.T) {
	va := dispatch.NewVarargs([]core.Variant{core.StringVariant("nope")})
	_, err := dispatch.Get[int64](va.Read().WithName("count").WithTypeName("int64"))
	if err == nil {
		t.Fatal("string to int64 should fail")
	}
	var e *gderrors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("not a structured error: %v", err)
	}
	if e.Kind != gderrors.KindTypeMismatch {
		t.Errorf("kind = %v", e.Kind)
	}
	if len(e.Path) != 1 || e.Path[0] != "count" {
		t.Errorf("path = %v, want [count]", e.Path)
	}
	if e.Cause == nil {
		t.Error("conversion error should carry its cause")
	}
}

type damageArgs struct {
	Amount int64
	Source string `variant:"source,opt"`
	Cached bool   `variant:",skip"`
}

func TestStaticArgsArity(t *testing.T) {
	m := dispatch.StaticArgs("health.damage", func(inst nativescript.Instance[health], args damageArgs) core.Variant {
		var left int64
		_ = inst.Data.MapMut(func(c *health) {
			c.points -= args.Amount
			left = c.points
		})
		return core.IntVariant(left)
	})

	c := &health{points: 100}
	inst := instance(t, c)

	// Exact arity.
	out := m.Call(inst, dispatch.NewVarargs([]core.Variant{core.IntVariant(30)}))
	if left, _ := out.AsInt(); left != 70 {
		t.Errorf("points = %d, want 70", left)
	}

	// Optional argument supplied.
	out = m.Call(inst, dispatch.NewVarargs([]core.Variant{
		core.IntVariant(20), core.StringVariant("lava"),
	}))
	if left, _ := out.AsInt(); left != 50 {
		t.Errorf("points = %d, want 50", left)
	}

	// One argument too many: rejected, state untouched.
	out = m.Call(inst, dispatch.NewVarargs([]core.Variant{
		core.IntVariant(1), core.StringVariant("x"), core.BoolVariant(true),
	}))
	if !out.IsNil() {
		t.Error("excess arguments should yield a nil variant")
	}

	// One argument short: rejected, state untouched.
	out = m.Call(inst, dispatch.NewVarargs(nil))
	if !out.IsNil() {
		t.Error("missing argument should yield a nil variant")
	}

	if c.points != 50 {
		t.Errorf("failed calls must not touch state; points = %d", c.points)
	}
}

func TestWrapContainsPanic(t *testing.T) {
	raw := dispatch.Wrap("health.explode", dispatch.MethodFunc[health](
		func(inst nativescript.Instance[health], va *dispatch.Varargs) core.Variant {
			panic("boom")
		}))

	ud := nativescript.WrapDefault(&health{}).IntoRaw()
	out := raw(0, ud, nil)
	if !out.IsNil() {
		t.Error("panicking method should yield a nil variant")
	}

	// The shim itself must not have unwound; a second call still works.
	out = raw(0, ud, nil)
	if !out.IsNil() {
		t.Error("shim should stay usable after a panic")
	}
}

func TestWrapUnknownUserData(t *testing.T) {
	raw := dispatch.Wrap("health.ghost", dispatch.MethodFunc[health](
		func(inst nativescript.Instance[health], va *dispatch.Varargs) core.Variant {
			return core.IntVariant(1)
		}))
	if out := raw(0, 999999, nil); !out.IsNil() {
		t.Error("unrecoverable user data should yield a nil variant")
	}
}

func TestBindReceivers(t *testing.T) {
	c := &health{points: 5}
	inst := instance(t, c)

	read := dispatch.Bind("health.points", dispatch.Shared, func(c *health, va *dispatch.Varargs) core.Variant {
		return core.IntVariant(c.points)
	})
	if got, _ := read.Call(inst, dispatch.NewVarargs(nil)).AsInt(); got != 5 {
		t.Errorf("shared read = %d, want 5", got)
	}

	write := dispatch.Bind("health.heal", dispatch.Exclusive, func(c *health, va *dispatch.Varargs) core.Variant {
		c.points++
		return core.IntVariant(c.points)
	})
	if got, _ := write.Call(inst, dispatch.NewVarargs(nil)).AsInt(); got != 6 {
		t.Errorf("exclusive write = %d, want 6", got)
	}

	// Owned access against a policy that does not support it fails soft.
	owned := dispatch.BindOwned("health.snapshot", func(c health, va *dispatch.Varargs) core.Variant {
		return core.IntVariant(c.points)
	})
	if out := owned.Call(inst, dispatch.NewVarargs(nil)); !out.IsNil() {
		t.Error("owned access on DefaultUserData should fail soft")
	}

	// Against Aether it succeeds with a fresh value.
	aether := nativescript.Instance[health]{Data: nativescript.WrapAether(&health{})}
	if got, _ := owned.Call(aether, dispatch.NewVarargs(nil)).AsInt(); got != 0 {
		t.Errorf("owned read = %d, want 0", got)
	}
}

func TestPropertyAdapters(t *testing.T) {
	c := &health{points: 10}
	ud := nativescript.WrapDefault(c).IntoRaw()

	set := dispatch.Setter("health.points", dispatch.Exclusive, func(c *health, v int64) {
		c.points = v
	})
	get := dispatch.Getter("health.points", dispatch.Shared, func(c *health) int64 {
		return c.points
	})

	set(0, ud, core.IntVariant(33))
	if got, _ := get(0, ud).AsInt(); got != 33 {
		t.Errorf("property = %d, want 33", got)
	}

	// A bad value is dropped, not applied.
	set(0, ud, core.StringVariant("bad"))
	if got, _ := get(0, ud).AsInt(); got != 33 {
		t.Errorf("bad write should be dropped; property = %d", got)
	}
}
