package nativescript

import (
	"sync"

	"go.uber.org/zap"

	gdnative "github.com/gdnative-go/gdnative"
	"github.com/gdnative-go/gdnative/core"
	"github.com/gdnative-go/gdnative/errors"
	"github.com/gdnative-go/gdnative/sys"
)

// RawMethod is the engine-facing shape of a dispatched method. The dispatch
// package provides adapters that produce these from typed user functions.
type RawMethod = func(owner gdnative.Handle, ud gdnative.UserData, args []core.Variant) core.Variant

// RawSetter and RawGetter are the engine-facing property accessor shapes.
type (
	RawSetter = func(owner gdnative.Handle, ud gdnative.UserData, value core.Variant)
	RawGetter = func(owner gdnative.Handle, ud gdnative.UserData) core.Variant
)

// ClassBuilder accumulates registrations for one class. Records are
// forwarded to the engine in the order Done is called; nothing is
// reordered. The first failure sticks and is returned by RegisterClass.
type ClassBuilder[C any] struct {
	class string
	log   *zap.Logger
	err   error
}

// Err returns the first registration failure, if any.
func (b *ClassBuilder[C]) Err() error { return b.err }

func (b *ClassBuilder[C]) fail(err error) {
	if b.err == nil {
		b.err = err
	}
	b.log.Error("registration failed", zap.Error(err))
}

// Method starts a method registration.
func (b *ClassBuilder[C]) Method(name string, fn RawMethod) *MethodBuilder[C] {
	return &MethodBuilder[C]{
		b:   b,
		rec: sys.MethodRecord{Class: b.class, Name: name, Func: fn},
	}
}

// MethodBuilder configures one method before registration.
type MethodBuilder[C any] struct {
	b   *ClassBuilder[C]
	rec sys.MethodRecord
}

// WithRPCMode sets the replication disposition.
func (m *MethodBuilder[C]) WithRPCMode(mode gdnative.RPCMode) *MethodBuilder[C] {
	m.rec.RPCMode = mode
	return m
}

// Done forwards the method record to the engine.
func (m *MethodBuilder[C]) Done() error {
	if !sys.RegistrationOpen() {
		err := errors.Frozen("method registration")
		m.b.fail(err)
		return err
	}
	if err := sys.Get().RegisterMethod(m.rec); err != nil {
		m.b.fail(err)
		return err
	}
	m.b.log.Debug("method registered", zap.String("method", m.rec.Name))
	return nil
}

// Property starts a property registration.
func (b *ClassBuilder[C]) Property(name string) *PropertyBuilder[C] {
	return &PropertyBuilder[C]{
		b:   b,
		rec: sys.PropertyRecord{Class: b.class, Name: name},
	}
}

// PropertyBuilder configures one property before registration.
type PropertyBuilder[C any] struct {
	b   *ClassBuilder[C]
	rec sys.PropertyRecord
}

// WithDefault sets the default value; the property type follows it unless
// overridden.
func (p *PropertyBuilder[C]) WithDefault(v core.Variant) *PropertyBuilder[C] {
	p.rec.DefaultValue = v
	if p.rec.Type == core.TypeNil {
		p.rec.Type = v.Type()
	}
	return p
}

// WithType pins the declared property type.
func (p *PropertyBuilder[C]) WithType(t core.VariantType) *PropertyBuilder[C] {
	p.rec.Type = t
	return p
}

// WithHint attaches an editor hint.
func (p *PropertyBuilder[C]) WithHint(h PropertyHint) *PropertyBuilder[C] {
	p.rec.Hint = h.Kind
	p.rec.HintString = h.String
	return p
}

// WithUsage sets the property usage flags.
func (p *PropertyBuilder[C]) WithUsage(usage int64) *PropertyBuilder[C] {
	p.rec.Usage = usage
	return p
}

// WithRsetMode sets the remote-set disposition.
func (p *PropertyBuilder[C]) WithRsetMode(mode gdnative.RPCMode) *PropertyBuilder[C] {
	p.rec.RsetMode = mode
	return p
}

// WithSetter attaches the write accessor.
func (p *PropertyBuilder[C]) WithSetter(fn RawSetter) *PropertyBuilder[C] {
	p.rec.Setter = fn
	return p
}

// WithGetter attaches the read accessor.
func (p *PropertyBuilder[C]) WithGetter(fn RawGetter) *PropertyBuilder[C] {
	p.rec.Getter = fn
	return p
}

// Done forwards the property record to the engine.
func (p *PropertyBuilder[C]) Done() error {
	if !sys.RegistrationOpen() {
		err := errors.Frozen("property registration")
		p.b.fail(err)
		return err
	}
	if err := sys.Get().RegisterProperty(p.rec); err != nil {
		p.b.fail(err)
		return err
	}
	p.b.log.Debug("property registered", zap.String("property", p.rec.Name))
	return nil
}

// Signal starts a signal registration.
func (b *ClassBuilder[C]) Signal(name string) *SignalBuilder[C] {
	return &SignalBuilder[C]{
		b:   b,
		rec: sys.SignalRecord{Class: b.class, Name: name},
	}
}

// SignalBuilder configures one signal before registration. Parameter types
// are informational; the engine does not enforce them.
type SignalBuilder[C any] struct {
	b   *ClassBuilder[C]
	rec sys.SignalRecord
}

// WithParam declares a typed parameter.
func (s *SignalBuilder[C]) WithParam(name string, t core.VariantType) *SignalBuilder[C] {
	s.rec.Params = append(s.rec.Params, sys.SignalParam{Name: name, Type: t})
	return s
}

// WithParamDefault declares a parameter with a default value and no
// declared type; the type is filled from the default at Done.
func (s *SignalBuilder[C]) WithParamDefault(name string, def core.Variant) *SignalBuilder[C] {
	s.rec.Params = append(s.rec.Params, sys.SignalParam{Name: name, Type: core.TypeNil, DefaultValue: def})
	return s
}

// WithParamUntyped declares a parameter with no type information.
func (s *SignalBuilder[C]) WithParamUntyped(name string) *SignalBuilder[C] {
	s.rec.Params = append(s.rec.Params, sys.SignalParam{Name: name, Type: core.TypeNil})
	return s
}

// Done forwards the signal record to the engine. Parameters declared nil
// but carrying a default take the default's type.
func (s *SignalBuilder[C]) Done() error {
	if !sys.RegistrationOpen() {
		err := errors.Frozen("signal registration")
		s.b.fail(err)
		return err
	}
	for i := range s.rec.Params {
		p := &s.rec.Params[i]
		if p.Type == core.TypeNil && !p.DefaultValue.IsNil() {
			p.Type = p.DefaultValue.Type()
		}
	}
	if err := sys.Get().RegisterSignal(s.rec); err != nil {
		s.b.fail(err)
		return err
	}
	s.b.log.Debug("signal registered", zap.String("signal", s.rec.Name))
	return nil
}

// Applied (class, mixin) pairs; a mixin re-applied to the same class is a
// no-op.
var mixins = struct {
	mu   sync.Mutex
	done map[mixinKey]bool
}{done: make(map[mixinKey]bool)}

type mixinKey struct{ class, mixin string }

// Mixin applies a named, reusable registration group. Idempotent per
// (class, mixin) pair.
func (b *ClassBuilder[C]) Mixin(name string, apply func(b *ClassBuilder[C])) {
	key := mixinKey{b.class, name}
	mixins.mu.Lock()
	seen := mixins.done[key]
	mixins.done[key] = true
	mixins.mu.Unlock()

	if seen {
		b.log.Debug("mixin already applied", zap.String("mixin", name))
		return
	}
	apply(b)
}
