package core

import "sync"

type dictEntry struct {
	key   Variant
	value Variant
}

type dictData struct {
	mu      sync.RWMutex
	entries map[variantKey]int
	order   []dictEntry
}

// Dictionary is the engine's insertion-ordered hash map, shared by
// reference. NewRef shares storage; there is no implicit deep copy.
type Dictionary struct {
	d *dictData
}

func NewDictionary() Dictionary {
	return Dictionary{d: &dictData{entries: make(map[variantKey]int)}}
}

// NewRef returns a dictionary sharing the same storage.
func (d Dictionary) NewRef() Dictionary { return d }

func (d Dictionary) Set(key, value Variant) {
	d.d.mu.Lock()
	defer d.d.mu.Unlock()
	k := key.hashKey()
	if idx, ok := d.d.entries[k]; ok {
		d.d.order[idx].value = value
		return
	}
	d.d.entries[k] = len(d.d.order)
	d.d.order = append(d.d.order, dictEntry{key: key, value: value})
}

func (d Dictionary) Get(key Variant) (Variant, bool) {
	d.d.mu.RLock()
	defer d.d.mu.RUnlock()
	idx, ok := d.d.entries[key.hashKey()]
	if !ok {
		return Variant{}, false
	}
	return d.d.order[idx].value, true
}

func (d Dictionary) Contains(key Variant) bool {
	d.d.mu.RLock()
	defer d.d.mu.RUnlock()
	_, ok := d.d.entries[key.hashKey()]
	return ok
}

// ContainsAll reports whether every element of keys is present.
func (d Dictionary) ContainsAll(keys VariantArray) bool {
	for i := 0; i < keys.Len(); i++ {
		if !d.Contains(keys.Get(i)) {
			return false
		}
	}
	return true
}

func (d Dictionary) Erase(key Variant) bool {
	d.d.mu.Lock()
	defer d.d.mu.Unlock()
	k := key.hashKey()
	idx, ok := d.d.entries[k]
	if !ok {
		return false
	}
	delete(d.d.entries, k)
	d.d.order = append(d.d.order[:idx], d.d.order[idx+1:]...)
	for i := idx; i < len(d.d.order); i++ {
		d.d.entries[d.d.order[i].key.hashKey()] = i
	}
	return true
}

func (d Dictionary) Len() int {
	d.d.mu.RLock()
	defer d.d.mu.RUnlock()
	return len(d.d.order)
}

// Keys returns the keys in insertion order.
func (d Dictionary) Keys() VariantArray {
	d.d.mu.RLock()
	defer d.d.mu.RUnlock()
	keys := NewVariantArray()
	for _, e := range d.d.order {
		keys.PushBack(e.key)
	}
	return keys
}

func (d Dictionary) ToVariant() Variant { return DictionaryVariant(d) }

func (d *Dictionary) FromVariant(v Variant) error {
	dict, ok := v.AsDictionary()
	if !ok {
		return typeError(TypeDictionary, v.Type())
	}
	*d = dict
	return nil
}
