package core

import "sync"

type arrayData struct {
	mu  sync.RWMutex
	buf []Variant
}

// VariantArray is the engine's heterogeneous array, shared by reference.
type VariantArray struct {
	a *arrayData
}

func NewVariantArray() VariantArray {
	return VariantArray{a: &arrayData{}}
}

// NewRef returns an array sharing the same storage.
func (a VariantArray) NewRef() VariantArray { return a }

func (a VariantArray) PushBack(v Variant) {
	a.a.mu.Lock()
	defer a.a.mu.Unlock()
	a.a.buf = append(a.a.buf, v)
}

// Get returns the element at idx. Out-of-range reads return nil, matching
// the engine's tolerant indexing.
func (a VariantArray) Get(idx int) Variant {
	a.a.mu.RLock()
	defer a.a.mu.RUnlock()
	if idx < 0 || idx >= len(a.a.buf) {
		return Variant{}
	}
	return a.a.buf[idx]
}

func (a VariantArray) Set(idx int, v Variant) bool {
	a.a.mu.Lock()
	defer a.a.mu.Unlock()
	if idx < 0 || idx >= len(a.a.buf) {
		return false
	}
	a.a.buf[idx] = v
	return true
}

func (a VariantArray) Len() int {
	a.a.mu.RLock()
	defer a.a.mu.RUnlock()
	return len(a.a.buf)
}

// Slice returns a copy of the contents as a Go slice.
func (a VariantArray) Slice() []Variant {
	a.a.mu.RLock()
	defer a.a.mu.RUnlock()
	out := make([]Variant, len(a.a.buf))
	copy(out, a.a.buf)
	return out
}

func (a VariantArray) ToVariant() Variant { return ArrayVariant(a) }

func (a *VariantArray) FromVariant(v Variant) error {
	arr, ok := v.AsArray()
	if !ok {
		return typeError(TypeArray, v.Type())
	}
	*a = arr
	return nil
}
