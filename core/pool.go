package core

import "sync"

// poolData is the shared backing store of a pool array. Write accesses work
// on a detached copy and publish it on release, so read accesses taken
// earlier keep the snapshot they started with.
type poolData[T any] struct {
	mu  sync.Mutex
	buf []T
}

// PoolArray is a typed, reference-counted engine array with copy-on-write
// access semantics.
type PoolArray[T any] struct {
	p *poolData[T]
}

func newPoolArray[T any](elems []T) PoolArray[T] {
	buf := make([]T, len(elems))
	copy(buf, elems)
	return PoolArray[T]{p: &poolData[T]{buf: buf}}
}

// NewRef returns a pool array sharing the same storage.
func (a PoolArray[T]) NewRef() PoolArray[T] { return a }

func (a PoolArray[T]) Len() int {
	a.p.mu.Lock()
	defer a.p.mu.Unlock()
	return len(a.p.buf)
}

func (a PoolArray[T]) Append(v T) {
	a.p.mu.Lock()
	defer a.p.mu.Unlock()
	a.p.buf = append(a.p.buf, v)
}

// Read takes a read access over the current contents. The access stays
// valid over later writes; Release ends it.
func (a PoolArray[T]) Read() *PoolReadAccess[T] {
	a.p.mu.Lock()
	defer a.p.mu.Unlock()
	return &PoolReadAccess[T]{buf: a.p.buf}
}

// Write takes a write access over a detached copy of the contents. The copy
// is published back to the array on Release.
func (a PoolArray[T]) Write() *PoolWriteAccess[T] {
	a.p.mu.Lock()
	defer a.p.mu.Unlock()
	buf := make([]T, len(a.p.buf))
	copy(buf, a.p.buf)
	return &PoolWriteAccess[T]{owner: a.p, buf: buf}
}

// PoolReadAccess is an immutable view over a pool array snapshot.
type PoolReadAccess[T any] struct {
	buf      []T
	released bool
}

// Slice returns the aligned view of the snapshot. The slice must not be
// used after Release.
func (r *PoolReadAccess[T]) Slice() []T {
	if r.released {
		return nil
	}
	return r.buf
}

func (r *PoolReadAccess[T]) Release() {
	r.buf = nil
	r.released = true
}

// PoolWriteAccess is a mutable view over a detached pool array copy.
type PoolWriteAccess[T any] struct {
	owner    *poolData[T]
	buf      []T
	released bool
}

// Slice returns the mutable detached copy. Mutations become visible to the
// array only after Release.
func (w *PoolWriteAccess[T]) Slice() []T {
	if w.released {
		return nil
	}
	return w.buf
}

// Release publishes the mutated copy back to the array.
func (w *PoolWriteAccess[T]) Release() {
	if w.released {
		return
	}
	w.owner.mu.Lock()
	w.owner.buf = w.buf
	w.owner.mu.Unlock()
	w.buf = nil
	w.released = true
}

// Typed pool array aliases matching the engine's pool types.

type PoolByteArray = PoolArray[byte]
type PoolIntArray = PoolArray[int32]
type PoolRealArray = PoolArray[float32]
type PoolStringArray = PoolArray[string]
type PoolVector2Array = PoolArray[Vector2]
type PoolVector3Array = PoolArray[Vector3]
type PoolColorArray = PoolArray[Color]

func NewPoolByteArray(elems ...byte) PoolByteArray          { return newPoolArray(elems) }
func NewPoolIntArray(elems ...int32) PoolIntArray           { return newPoolArray(elems) }
func NewPoolRealArray(elems ...float32) PoolRealArray       { return newPoolArray(elems) }
func NewPoolStringArray(elems ...string) PoolStringArray    { return newPoolArray(elems) }
func NewPoolVector2Array(elems ...Vector2) PoolVector2Array { return newPoolArray(elems) }
func NewPoolVector3Array(elems ...Vector3) PoolVector3Array { return newPoolArray(elems) }
func NewPoolColorArray(elems ...Color) PoolColorArray       { return newPoolArray(elems) }
