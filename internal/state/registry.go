package state

import (
	"fmt"
	"reflect"
	"sync"
)

// Key identifies a stored type. Lookup is always by type, never by name.
type Key = reflect.Type

// KeyOf returns the key for T.
func KeyOf[T any]() Key {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// cell wraps one stored value behind a reader/writer guard.
type cell struct {
	mu  sync.RWMutex
	val any
}

// Registry is the shared resource container. One value per type; access is
// guarded per entry, so readers of distinct types never contend.
type Registry struct {
	mu     sync.RWMutex
	cells  map[Key]*cell
	guards map[Key]*sync.RWMutex
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		cells:  make(map[Key]*cell),
		guards: make(map[Key]*sync.RWMutex),
	}
}

// Set stores v as the registry's value for T, replacing any previous one.
func Set[T any](r *Registry, v *T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := KeyOf[T]()
	if c, ok := r.cells[k]; ok {
		c.mu.Lock()
		c.val = v
		c.mu.Unlock()
		return
	}
	r.cells[k] = &cell{val: v}
}

// Remove drops the registry's value for T.
func Remove[T any](r *Registry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cells, KeyOf[T]())
}

// Has reports whether a value for T is registered.
func Has[T any](r *Registry) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.cells[KeyOf[T]()]
	return ok
}

func (r *Registry) lookup(k Key) (*cell, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.cells[k]
	return c, ok
}

// mustLookup returns the cell for k or panics; a missing required entry is
// a programming error, not a runtime condition.
func (r *Registry) mustLookup(k Key) *cell {
	c, ok := r.lookup(k)
	if !ok {
		panic(fmt.Sprintf("state: required resource %s not registered", k))
	}
	return c
}

// Lock acquires exclusive access to T. The returned release function must
// be called exactly once. Missing entries panic.
func Lock[T any](r *Registry) (*T, func()) {
	c := r.mustLookup(KeyOf[T]())
	c.mu.Lock()
	return c.val.(*T), c.mu.Unlock
}

// RLock acquires shared access to T. The returned release function must be
// called exactly once. Missing entries panic.
func RLock[T any](r *Registry) (*T, func()) {
	c := r.mustLookup(KeyOf[T]())
	c.mu.RLock()
	return c.val.(*T), c.mu.RUnlock
}

// Peek returns the value for T without acquiring its guard. Intended for
// wiring code and parameter binding, where the scheduler already holds the
// guards a system declared.
func Peek[T any](r *Registry) (*T, bool) {
	c, ok := r.lookup(KeyOf[T]())
	if !ok {
		return nil, false
	}
	return c.val.(*T), true
}

// MustPeek is Peek for required entries.
func MustPeek[T any](r *Registry) *T {
	return r.mustLookup(KeyOf[T]()).val.(*T)
}

// guardFor returns the lock used to arbitrate a descriptor key. Keys backed
// by a cell use the cell's own guard; synthetic keys (render chunks, event
// queues) get a dedicated lock allocated on first use.
func (r *Registry) guardFor(k Key) *sync.RWMutex {
	r.mu.RLock()
	if c, ok := r.cells[k]; ok {
		r.mu.RUnlock()
		return &c.mu
	}
	if g, ok := r.guards[k]; ok {
		r.mu.RUnlock()
		return g
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.cells[k]; ok {
		return &c.mu
	}
	if g, ok := r.guards[k]; ok {
		return g
	}
	g := &sync.RWMutex{}
	r.guards[k] = g
	return g
}
