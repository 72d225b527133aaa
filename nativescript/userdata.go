package nativescript

import (
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"sync"

	gdnative "github.com/gdnative-go/gdnative"
	"github.com/gdnative-go/gdnative/errors"
)

// typeName names the wrapped Go type in policy errors.
func typeName[C any]() string {
	return reflect.TypeOf((*C)(nil)).Elem().String()
}

// UserData is the sealed access-policy contract wrapped around one user
// instance. Map grants shared access, MapMut exclusive access; whether a
// call blocks, fails or is refused outright is policy-defined.
type UserData[C any] interface {
	Map(fn func(c *C)) error
	MapMut(fn func(c *C)) error
	// IntoRaw publishes the wrapper for the engine handoff and returns its
	// opaque id. Idempotent.
	IntoRaw() gdnative.UserData

	sealedUserData()
}

// OwnedUserData is the optional by-value access extension implemented by
// the stateless and immutable policies.
type OwnedUserData[C any] interface {
	UserData[C]
	MapOwned(fn func(c C)) error
}

// Wrapper constructs the policy wrapper around a fresh instance.
type Wrapper[C any] func(val *C) UserData[C]

// The raw table maps opaque ids to live wrappers across the engine
// boundary, in place of pointer round-trips.
var rawTable = struct {
	mu      sync.Mutex
	next    uint64
	entries map[gdnative.UserData]any
}{next: 1, entries: make(map[gdnative.UserData]any)}

func storeRaw(wrap any) gdnative.UserData {
	rawTable.mu.Lock()
	defer rawTable.mu.Unlock()
	id := gdnative.UserData(rawTable.next)
	rawTable.next++
	rawTable.entries[id] = wrap
	return id
}

// FromRaw recovers the policy wrapper from its opaque id. The id stays
// valid; ownership is released only by the destructor.
func FromRaw[C any](raw gdnative.UserData) (UserData[C], bool) {
	rawTable.mu.Lock()
	wrap, ok := rawTable.entries[raw]
	rawTable.mu.Unlock()
	if !ok {
		return nil, false
	}
	ud, ok := wrap.(UserData[C])
	return ud, ok
}

// releaseRaw drops the table entry, returning false if it was never stored
// or already released.
func releaseRaw(raw gdnative.UserData) bool {
	rawTable.mu.Lock()
	defer rawTable.mu.Unlock()
	if _, ok := rawTable.entries[raw]; !ok {
		return false
	}
	delete(rawTable.entries, raw)
	return true
}

// rawCell makes IntoRaw idempotent per wrapper.
type rawCell struct {
	once sync.Once
	id   gdnative.UserData
}

func (r *rawCell) intoRaw(self any) gdnative.UserData {
	r.once.Do(func() { r.id = storeRaw(self) })
	return r.id
}

// goid returns the current goroutine id. Debug/affinity use only.
func goid() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := strings.Fields(string(buf[:n]))
	if len(fields) < 2 {
		return 0
	}
	id, _ := strconv.ParseInt(fields[1], 10, 64)
	return id
}

// DefaultUserData guards the instance with a read-write lock. Accesses
// never block: a contended acquisition fails with a contention error so an
// engine callback cannot deadlock against a long-held lock.
type DefaultUserData[C any] struct {
	mu  sync.RWMutex
	val *C
	raw rawCell
}

// WrapDefault is the Wrapper for DefaultUserData.
func WrapDefault[C any](val *C) UserData[C] {
	return &DefaultUserData[C]{val: val}
}

func (d *DefaultUserData[C]) Map(fn func(c *C)) error {
	if !d.mu.TryRLock() {
		return errors.Contended(typeName[C]())
	}
	defer d.mu.RUnlock()
	fn(d.val)
	return nil
}

func (d *DefaultUserData[C]) MapMut(fn func(c *C)) error {
	if !d.mu.TryLock() {
		return errors.Contended(typeName[C]())
	}
	defer d.mu.Unlock()
	fn(d.val)
	return nil
}

func (d *DefaultUserData[C]) IntoRaw() gdnative.UserData { return d.raw.intoRaw(d) }
func (d *DefaultUserData[C]) sealedUserData()            {}

// MutexData guards the instance with a blocking exclusive lock; shared and
// exclusive access are the same operation.
type MutexData[C any] struct {
	mu  sync.Mutex
	val *C
	raw rawCell
}

// WrapMutex is the Wrapper for MutexData.
func WrapMutex[C any](val *C) UserData[C] {
	return &MutexData[C]{val: val}
}

func (m *MutexData[C]) Map(fn func(c *C)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.val)
	return nil
}

func (m *MutexData[C]) MapMut(fn func(c *C)) error { return m.Map(fn) }

func (m *MutexData[C]) IntoRaw() gdnative.UserData { return m.raw.intoRaw(m) }
func (m *MutexData[C]) sealedUserData()            {}

// LocalCellData pins the instance to the goroutine that created it. Access
// from any other goroutine fails; re-entrant access while a borrow is
// outstanding fails as contention.
type LocalCellData[C any] struct {
	origin   int64
	val      *C
	borrowed bool
	raw      rawCell
}

// WrapLocalCell is the Wrapper for LocalCellData. The calling goroutine
// becomes the cell's origin.
func WrapLocalCell[C any](val *C) UserData[C] {
	return &LocalCellData[C]{origin: goid(), val: val}
}

func (l *LocalCellData[C]) borrow(fn func(c *C)) error {
	if goid() != l.origin {
		return errors.WrongThread(typeName[C]())
	}
	if l.borrowed {
		return errors.Contended(typeName[C]())
	}
	l.borrowed = true
	defer func() { l.borrowed = false }()
	fn(l.val)
	return nil
}

func (l *LocalCellData[C]) Map(fn func(c *C)) error    { return l.borrow(fn) }
func (l *LocalCellData[C]) MapMut(fn func(c *C)) error { return l.borrow(fn) }

func (l *LocalCellData[C]) IntoRaw() gdnative.UserData { return l.raw.intoRaw(l) }
func (l *LocalCellData[C]) sealedUserData()            {}

// Aether stores nothing: every access sees a fresh zero value and writes
// evaporate. For purely stateless classes.
type Aether[C any] struct {
	raw rawCell
}

// WrapAether is the Wrapper for Aether; the constructed value is discarded.
func WrapAether[C any](*C) UserData[C] {
	return &Aether[C]{}
}

func (a *Aether[C]) Map(fn func(c *C)) error {
	fn(new(C))
	return nil
}

func (a *Aether[C]) MapMut(fn func(c *C)) error { return a.Map(fn) }

func (a *Aether[C]) MapOwned(fn func(c C)) error {
	var c C
	fn(c)
	return nil
}

func (a *Aether[C]) IntoRaw() gdnative.UserData { return a.raw.intoRaw(a) }
func (a *Aether[C]) sealedUserData()            {}

// ArcData shares the instance immutably; mutation is refused.
type ArcData[C any] struct {
	val *C
	raw rawCell
}

// WrapArc is the Wrapper for ArcData.
func WrapArc[C any](val *C) UserData[C] {
	return &ArcData[C]{val: val}
}

func (a *ArcData[C]) Map(fn func(c *C)) error {
	fn(a.val)
	return nil
}

func (a *ArcData[C]) MapMut(fn func(c *C)) error {
	return errors.Unsupported(errors.PhaseDispatch, "mutation through ArcData")
}

func (a *ArcData[C]) MapOwned(fn func(c C)) error {
	fn(*a.val)
	return nil
}

func (a *ArcData[C]) IntoRaw() gdnative.UserData { return a.raw.intoRaw(a) }
func (a *ArcData[C]) sealedUserData()            {}
