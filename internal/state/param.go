package state

// Desc describes one declared borrow of a system parameter: which key it
// touches and whether it writes.
type Desc struct {
	Key   Key
	Write bool
}

// Param is implemented by every injectable parameter kind. The zero value
// of a parameter type must be able to report its descriptor; Bind returns
// a populated copy for one system invocation.
type Param interface {
	ParamDesc() Desc
	Bind(r *Registry) Param
}

// Shared borrows T immutably from the registry.
type Shared[T any] struct {
	v *T
}

// ParamDesc implements Param.
func (Shared[T]) ParamDesc() Desc {
	return Desc{Key: KeyOf[T]()}
}

// Bind implements Param.
func (Shared[T]) Bind(r *Registry) Param {
	return Shared[T]{v: MustPeek[T](r)}
}

// Get returns the borrowed value.
func (p Shared[T]) Get() *T {
	return p.v
}

// Exclusive borrows T mutably from the registry.
type Exclusive[T any] struct {
	v *T
}

// ParamDesc implements Param.
func (Exclusive[T]) ParamDesc() Desc {
	return Desc{Key: KeyOf[T](), Write: true}
}

// Bind implements Param.
func (Exclusive[T]) Bind(r *Registry) Param {
	return Exclusive[T]{v: MustPeek[T](r)}
}

// Get returns the borrowed value.
func (p Exclusive[T]) Get() *T {
	return p.v
}
