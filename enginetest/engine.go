package enginetest

import (
	"fmt"
	"sync"

	gdnative "github.com/gdnative-go/gdnative"
	"github.com/gdnative-go/gdnative/core"
	"github.com/gdnative-go/gdnative/errors"
	"github.com/gdnative-go/gdnative/sys"
)

type classInfo struct {
	base         string
	refCounted   bool
	instantiable bool
	singleton    bool
}

type connection struct {
	target  gdnative.Handle
	method  string
	binds   []core.Variant
	oneshot bool
}

type engineObject struct {
	class    string
	refCount int
	alive    bool

	// Attached native script, if any.
	scriptClass string
	userData    gdnative.UserData
	hasScript   bool

	connections map[string][]connection
}

// MethodStub is an installable built-in method behaviour.
type MethodStub func(obj gdnative.Handle, args []core.Variant) (core.Variant, error)

// Engine is the in-process fake engine. It implements sys.API.
type Engine struct {
	mu sync.Mutex

	classes    map[string]classInfo
	objects    map[gdnative.Handle]*engineObject
	nextHandle gdnative.Handle

	binds     map[gdnative.MethodBind]bindKey
	bindIDs   map[bindKey]gdnative.MethodBind
	nextBind  gdnative.MethodBind
	stubs     map[bindKey]MethodStub
	singleton map[string]gdnative.Handle

	scriptClasses map[string]sys.ClassRecord
	scriptMethods map[string]map[string]sys.MethodRecord
	scriptProps   map[string][]sys.PropertyRecord
	scriptSignals map[string][]sys.SignalRecord
	typeTags      map[string]gdnative.TypeTag

	// Errors and prints reported through the ABI, for assertions.
	Errors []string
	Prints []string
}

type bindKey struct {
	class  string
	method string
}

// New creates a fake engine with the built-in class skeleton loaded.
func New() *Engine {
	e := &Engine{
		classes:       make(map[string]classInfo),
		objects:       make(map[gdnative.Handle]*engineObject),
		nextHandle:    1,
		binds:         make(map[gdnative.MethodBind]bindKey),
		bindIDs:       make(map[bindKey]gdnative.MethodBind),
		nextBind:      1,
		stubs:         make(map[bindKey]MethodStub),
		singleton:     make(map[string]gdnative.Handle),
		scriptClasses: make(map[string]sys.ClassRecord),
		scriptMethods: make(map[string]map[string]sys.MethodRecord),
		scriptProps:   make(map[string][]sys.PropertyRecord),
		scriptSignals: make(map[string][]sys.SignalRecord),
		typeTags:      make(map[string]gdnative.TypeTag),
	}

	e.AddClass("Object", "", false, true)
	e.AddClass("Reference", "Object", true, true)
	e.AddClass("Resource", "Reference", true, true)
	e.AddClass("FuncRef", "Reference", true, true)
	e.AddClass("Node", "Object", false, true)
	e.AddClass("Node2D", "Node", false, true)
	e.AddClass("Spatial", "Node", false, true)
	e.AddClass("Engine", "Object", false, false)
	return e
}

// AddClass extends the built-in hierarchy.
func (e *Engine) AddClass(name, base string, refCounted, instantiable bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.classes[name] = classInfo{base: base, refCounted: refCounted, instantiable: instantiable}
}

// StubMethod installs a built-in method behaviour reachable through the
// method bind table.
func (e *Engine) StubMethod(class, method string, fn MethodStub) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stubs[bindKey{class, method}] = fn
}

// LiveObjects returns the number of objects not yet destroyed.
func (e *Engine) LiveObjects() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, o := range e.objects {
		if o.alive {
			n++
		}
	}
	return n
}

// RefCount returns the current reference count of an object.
func (e *Engine) RefCount(h gdnative.Handle) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if o, ok := e.objects[h]; ok {
		return o.refCount
	}
	return 0
}

func (e *Engine) newObjectLocked(class string) gdnative.Handle {
	h := e.nextHandle
	e.nextHandle++
	e.objects[h] = &engineObject{
		class:       class,
		alive:       true,
		connections: make(map[string][]connection),
	}
	return h
}

// sys.API implementation

func (e *Engine) ObjectConstruct(class string) gdnative.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	info, ok := e.classes[class]
	if !ok || !info.instantiable {
		return 0
	}
	return e.newObjectLocked(class)
}

func (e *Engine) ObjectDestroy(h gdnative.Handle) {
	e.mu.Lock()
	obj, ok := e.objects[h]
	if !ok || !obj.alive {
		e.mu.Unlock()
		return
	}
	obj.alive = false
	rec, hasRec := e.scriptClasses[obj.scriptClass]
	hasScript := obj.hasScript
	ud := obj.userData
	e.mu.Unlock()

	if hasScript && hasRec && rec.Destroy != nil {
		rec.Destroy(h, ud)
	}
}

func (e *Engine) ObjectClassName(h gdnative.Handle) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if o, ok := e.objects[h]; ok {
		return o.class
	}
	return ""
}

func (e *Engine) ObjectIsClass(h gdnative.Handle, class string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	o, ok := e.objects[h]
	if !ok || !o.alive {
		return false
	}
	for c := o.class; c != ""; c = e.classes[c].base {
		if c == class {
			return true
		}
	}
	return false
}

func (e *Engine) ObjectIsValid(h gdnative.Handle) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	o, ok := e.objects[h]
	return ok && o.alive
}

func (e *Engine) ReferenceInit(h gdnative.Handle) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	o, ok := e.objects[h]
	if !ok || !o.alive {
		return false
	}
	o.refCount = 1
	return true
}

func (e *Engine) ReferenceIncrement(h gdnative.Handle) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	o, ok := e.objects[h]
	if !ok || !o.alive {
		return false
	}
	o.refCount++
	return true
}

func (e *Engine) ReferenceDecrement(h gdnative.Handle) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	o, ok := e.objects[h]
	if !ok || !o.alive {
		return false
	}
	o.refCount--
	return o.refCount <= 0
}

func (e *Engine) ClassIsRefCounted(class string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for c := class; c != ""; c = e.classes[c].base {
		if c == "Reference" {
			return true
		}
	}
	return false
}

func (e *Engine) SingletonGet(name string) gdnative.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	if h, ok := e.singleton[name]; ok {
		return h
	}
	if _, ok := e.classes[name]; !ok {
		return 0
	}
	h := e.newObjectLocked(name)
	e.singleton[name] = h
	return h
}

func (e *Engine) MethodBindGet(class, method string) gdnative.MethodBind {
	e.mu.Lock()
	defer e.mu.Unlock()
	key := bindKey{class, method}
	if id, ok := e.bindIDs[key]; ok {
		return id
	}
	if _, ok := e.stubs[key]; !ok {
		return 0
	}
	id := e.nextBind
	e.nextBind++
	e.bindIDs[key] = id
	e.binds[id] = key
	return id
}

func (e *Engine) MethodBindCall(bind gdnative.MethodBind, obj gdnative.Handle, args []core.Variant) (core.Variant, error) {
	e.mu.Lock()
	key, ok := e.binds[bind]
	var stub MethodStub
	if ok {
		stub = e.stubs[key]
	}
	e.mu.Unlock()
	if stub == nil {
		return core.Variant{}, errors.NotFound(errors.PhaseDispatch, "method bind", fmt.Sprint(bind))
	}
	return stub(obj, args)
}

func (e *Engine) ObjectCall(obj gdnative.Handle, method string, args []core.Variant) (core.Variant, error) {
	e.mu.Lock()
	o, ok := e.objects[obj]
	if !ok || !o.alive {
		e.mu.Unlock()
		return core.Variant{}, errors.NotFound(errors.PhaseDispatch, "object", fmt.Sprint(obj))
	}
	if o.hasScript {
		if rec, ok := e.scriptMethods[o.scriptClass][method]; ok {
			ud := o.userData
			e.mu.Unlock()
			return rec.Func(obj, ud, args), nil
		}
	}
	stub := e.stubs[bindKey{o.class, method}]
	e.mu.Unlock()
	if stub != nil {
		return stub(obj, args)
	}
	return core.Variant{}, errors.NotFound(errors.PhaseDispatch, "method", method)
}

func (e *Engine) ObjectEmitSignal(obj gdnative.Handle, signal string, args []core.Variant) error {
	e.mu.Lock()
	o, ok := e.objects[obj]
	if !ok || !o.alive {
		e.mu.Unlock()
		return errors.NotFound(errors.PhaseDispatch, "object", fmt.Sprint(obj))
	}
	conns := append([]connection(nil), o.connections[signal]...)
	var keep []connection
	for _, c := range conns {
		if !c.oneshot {
			keep = append(keep, c)
		}
	}
	o.connections[signal] = keep
	e.mu.Unlock()

	for _, c := range conns {
		callArgs := append(append([]core.Variant(nil), args...), c.binds...)
		if _, err := e.ObjectCall(c.target, c.method, callArgs); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) ObjectConnect(src gdnative.Handle, signal string, target gdnative.Handle, method string, binds []core.Variant, oneshot bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	o, ok := e.objects[src]
	if !ok || !o.alive {
		return errors.NotFound(errors.PhaseDispatch, "object", fmt.Sprint(src))
	}
	o.connections[signal] = append(o.connections[signal], connection{
		target: target, method: method, binds: binds, oneshot: oneshot,
	})
	return nil
}

func (e *Engine) ObjectDisconnect(src gdnative.Handle, signal string, target gdnative.Handle, method string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	o, ok := e.objects[src]
	if !ok {
		return
	}
	var keep []connection
	for _, c := range o.connections[signal] {
		if c.target != target || c.method != method {
			keep = append(keep, c)
		}
	}
	o.connections[signal] = keep
}

func (e *Engine) RegisterClass(rec sys.ClassRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, dup := e.scriptClasses[rec.Name]; dup {
		return errors.DuplicateClass(errors.PhaseRegister, rec.Name)
	}
	if _, ok := e.classes[rec.Base]; !ok {
		return errors.NotFound(errors.PhaseRegister, "base class", rec.Base)
	}
	e.scriptClasses[rec.Name] = rec
	e.scriptMethods[rec.Name] = make(map[string]sys.MethodRecord)
	return nil
}

func (e *Engine) RegisterMethod(rec sys.MethodRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	methods, ok := e.scriptMethods[rec.Class]
	if !ok {
		return errors.NotFound(errors.PhaseRegister, "class", rec.Class)
	}
	if _, dup := methods[rec.Name]; dup {
		return errors.DuplicateMethod(rec.Class, rec.Name)
	}
	methods[rec.Name] = rec
	return nil
}

func (e *Engine) RegisterProperty(rec sys.PropertyRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.scriptClasses[rec.Class]; !ok {
		return errors.NotFound(errors.PhaseRegister, "class", rec.Class)
	}
	e.scriptProps[rec.Class] = append(e.scriptProps[rec.Class], rec)
	return nil
}

func (e *Engine) RegisterSignal(rec sys.SignalRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.scriptClasses[rec.Class]; !ok {
		return errors.NotFound(errors.PhaseRegister, "class", rec.Class)
	}
	e.scriptSignals[rec.Class] = append(e.scriptSignals[rec.Class], rec)
	return nil
}

func (e *Engine) SetClassTypeTag(class string, tag gdnative.TypeTag) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.typeTags[class] = tag
}

func (e *Engine) ObjectTypeTag(h gdnative.Handle) gdnative.TypeTag {
	e.mu.Lock()
	defer e.mu.Unlock()
	o, ok := e.objects[h]
	if !ok || !o.hasScript {
		return 0
	}
	return e.typeTags[o.scriptClass]
}

func (e *Engine) NativeScriptInstance(class string) gdnative.Handle {
	e.mu.Lock()
	rec, ok := e.scriptClasses[class]
	if !ok {
		e.mu.Unlock()
		return 0
	}
	base := e.classes[rec.Base]
	if !base.instantiable {
		e.mu.Unlock()
		return 0
	}
	h := e.newObjectLocked(rec.Base)
	o := e.objects[h]
	o.scriptClass = class
	o.hasScript = true
	e.mu.Unlock()

	var ud gdnative.UserData
	if rec.Create != nil {
		ud = rec.Create(h)
	}
	e.mu.Lock()
	o.userData = ud
	e.mu.Unlock()
	return h
}

// TargetsOf returns the current connection targets of (src, signal).
func (e *Engine) TargetsOf(src gdnative.Handle, signal string) []gdnative.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	o, ok := e.objects[src]
	if !ok {
		return nil
	}
	var out []gdnative.Handle
	for _, c := range o.connections[signal] {
		out = append(out, c.target)
	}
	return out
}

// UserDataOf returns the script user data attached to an object, or 0.
func (e *Engine) UserDataOf(h gdnative.Handle) gdnative.UserData {
	e.mu.Lock()
	defer e.mu.Unlock()
	if o, ok := e.objects[h]; ok {
		return o.userData
	}
	return 0
}

// PropertiesOf returns the property records registered for a script class.
func (e *Engine) PropertiesOf(class string) []sys.PropertyRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]sys.PropertyRecord(nil), e.scriptProps[class]...)
}

// SignalsOf returns the signal records registered for a script class.
func (e *Engine) SignalsOf(class string) []sys.SignalRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]sys.SignalRecord(nil), e.scriptSignals[class]...)
}

func (e *Engine) ReportError(desc, fn, file string, line int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Errors = append(e.Errors, fmt.Sprintf("%s:%d %s: %s", file, line, fn, desc))
}

func (e *Engine) ReportWarning(desc, fn, file string, line int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Prints = append(e.Prints, fmt.Sprintf("warning %s:%d %s: %s", file, line, fn, desc))
}

func (e *Engine) Print(msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Prints = append(e.Prints, msg)
}
