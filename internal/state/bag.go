package state

import "sync"

// Bag is a small per-owner registry keyed by the same type scheme as the
// main Registry. Buffers carry one so extensions can attach state (a
// language-server record, a debounce tracker) without the buffer knowing
// about those types. Storage allocates lazily on first insert.
type Bag struct {
	mu   sync.RWMutex
	vals map[Key]any
}

// NewBag returns an empty bag.
func NewBag() *Bag {
	return &Bag{}
}

// BagSet stores v in the bag.
func BagSet[T any](b *Bag, v *T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.vals == nil {
		b.vals = make(map[Key]any)
	}
	b.vals[KeyOf[T]()] = v
}

// BagGet returns the bag's value for T, if present.
func BagGet[T any](b *Bag) (*T, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.vals[KeyOf[T]()]
	if !ok {
		return nil, false
	}
	return v.(*T), true
}

// BagGetOrInsert returns the bag's value for T, creating it with mk on
// first access.
func BagGetOrInsert[T any](b *Bag, mk func() *T) *T {
	if v, ok := BagGet[T](b); ok {
		return v
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.vals == nil {
		b.vals = make(map[Key]any)
	}
	k := KeyOf[T]()
	if v, ok := b.vals[k]; ok {
		return v.(*T)
	}
	v := mk()
	b.vals[k] = v
	return v
}

// BagRemove drops the bag's value for T.
func BagRemove[T any](b *Bag) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.vals, KeyOf[T]())
}

// Len returns the number of stored values.
func (b *Bag) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.vals)
}
