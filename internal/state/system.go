package state

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
)

// Registration errors.
var (
	ErrNotAFunction  = errors.New("state: system must be a function")
	ErrBadReturn     = errors.New("state: system must not return values")
	ErrBadParam      = errors.New("state: unsupported system parameter")
	ErrSelfConflict  = errors.New("state: system declares conflicting borrows")
	ErrNilSystemFunc = errors.New("state: nil system function")
)

var ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()
var paramType = reflect.TypeOf((*Param)(nil)).Elem()

// System is a registered callable plus the descriptor list derived from
// its signature.
type System struct {
	name     string
	fn       reflect.Value
	protos   []Param
	wantsCtx bool
	descs    []Desc
}

// NewSystem inspects fn and builds a System. fn must be a function with no
// return values whose parameters are an optional leading context.Context
// followed by Param implementations. A signature that declares two borrows
// of the same key where either writes is rejected.
func NewSystem(name string, fn any) (*System, error) {
	if fn == nil {
		return nil, ErrNilSystemFunc
	}
	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %s", ErrNotAFunction, t)
	}
	if t.NumOut() != 0 {
		return nil, fmt.Errorf("%w: %s", ErrBadReturn, t)
	}

	s := &System{name: name, fn: v}
	for i := range t.NumIn() {
		pt := t.In(i)
		if i == 0 && pt == ctxType {
			s.wantsCtx = true
			continue
		}
		if !pt.Implements(paramType) {
			return nil, fmt.Errorf("%w: %s parameter %d (%s)", ErrBadParam, name, i, pt)
		}
		proto := reflect.Zero(pt).Interface().(Param)
		s.protos = append(s.protos, proto)
		s.descs = append(s.descs, proto.ParamDesc())
	}

	for i, a := range s.descs {
		for _, b := range s.descs[i+1:] {
			if a.Key == b.Key && (a.Write || b.Write) {
				return nil, fmt.Errorf("%w: %s borrows %s twice", ErrSelfConflict, name, a.Key)
			}
		}
	}
	return s, nil
}

// Name returns the system's registration name.
func (s *System) Name() string {
	return s.name
}

// Descs returns the declared borrows.
func (s *System) Descs() []Desc {
	return s.descs
}

// ConflictsWith reports whether two systems touch a common key with at
// least one write.
func (s *System) ConflictsWith(other *System) bool {
	for _, a := range s.descs {
		for _, b := range other.descs {
			if a.Key == b.Key && (a.Write || b.Write) {
				return true
			}
		}
	}
	return false
}

// lockSet is the deduplicated, ordered set of guards a system needs.
type lockSet struct {
	keys  []Key
	write map[Key]bool
}

func (s *System) locks() lockSet {
	ls := lockSet{write: make(map[Key]bool, len(s.descs))}
	for _, d := range s.descs {
		if _, seen := ls.write[d.Key]; !seen {
			ls.keys = append(ls.keys, d.Key)
		}
		ls.write[d.Key] = ls.write[d.Key] || d.Write
	}
	// Acquire in a global order so concurrent systems cannot deadlock.
	sort.Slice(ls.keys, func(i, j int) bool {
		return ls.keys[i].String() < ls.keys[j].String()
	})
	return ls
}

// Run binds the system's parameters against the registry and invokes it.
// Guards for every declared key are held for the duration of the call.
func (s *System) Run(ctx context.Context, r *Registry) {
	ls := s.locks()
	for _, k := range ls.keys {
		g := r.guardFor(k)
		if ls.write[k] {
			g.Lock()
		} else {
			g.RLock()
		}
	}
	defer func() {
		for i := len(ls.keys) - 1; i >= 0; i-- {
			g := r.guardFor(ls.keys[i])
			if ls.write[ls.keys[i]] {
				g.Unlock()
			} else {
				g.RUnlock()
			}
		}
	}()

	args := make([]reflect.Value, 0, len(s.protos)+1)
	if s.wantsCtx {
		args = append(args, reflect.ValueOf(ctx))
	}
	for _, proto := range s.protos {
		args = append(args, reflect.ValueOf(proto.Bind(r)))
	}
	s.fn.Call(args)
}
