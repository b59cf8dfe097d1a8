package state

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

type counter struct{ n int }
type label struct{ s string }

func TestSetAndLock(t *testing.T) {
	r := NewRegistry()
	Set(r, &counter{n: 1})

	v, release := Lock[counter](r)
	v.n = 7
	release()

	got, release := RLock[counter](r)
	defer release()
	if got.n != 7 {
		t.Errorf("n = %d, want 7", got.n)
	}
}

func TestMissingRequiredPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Lock of an unregistered type should panic")
		}
	}()
	r := NewRegistry()
	Lock[counter](r)
}

func TestPeekOptional(t *testing.T) {
	r := NewRegistry()
	if _, ok := Peek[counter](r); ok {
		t.Error("Peek on empty registry should report absent")
	}
	Set(r, &counter{n: 3})
	v, ok := Peek[counter](r)
	if !ok || v.n != 3 {
		t.Errorf("Peek = %v, %v", v, ok)
	}
}

func TestSystemSelfConflictRejected(t *testing.T) {
	bad := func(a Exclusive[counter], b Shared[counter]) {}
	if _, err := NewSystem("bad", bad); !errors.Is(err, ErrSelfConflict) {
		t.Errorf("err = %v, want ErrSelfConflict", err)
	}

	alsoBad := func(a Exclusive[counter], b Exclusive[counter]) {}
	if _, err := NewSystem("also-bad", alsoBad); !errors.Is(err, ErrSelfConflict) {
		t.Errorf("err = %v, want ErrSelfConflict", err)
	}

	ok := func(a Shared[counter], b Shared[counter], c Exclusive[label]) {}
	if _, err := NewSystem("ok", ok); err != nil {
		t.Errorf("two shared borrows should be fine: %v", err)
	}
}

func TestSystemBadSignatures(t *testing.T) {
	if _, err := NewSystem("notfunc", 42); !errors.Is(err, ErrNotAFunction) {
		t.Errorf("err = %v, want ErrNotAFunction", err)
	}
	if _, err := NewSystem("returns", func() error { return nil }); !errors.Is(err, ErrBadReturn) {
		t.Errorf("err = %v, want ErrBadReturn", err)
	}
	if _, err := NewSystem("plain", func(x int) {}); !errors.Is(err, ErrBadParam) {
		t.Errorf("err = %v, want ErrBadParam", err)
	}
}

func TestRunHookInjection(t *testing.T) {
	r := NewRegistry()
	Set(r, &counter{})
	Set(r, &label{s: "hello"})

	sc := NewScheduler()
	sc.MustOnHook(HookUpdate, "bump", func(c Exclusive[counter], l Shared[label]) {
		if l.Get().s != "hello" {
			t.Errorf("label = %q", l.Get().s)
		}
		c.Get().n++
	})

	sc.RunHook(context.Background(), HookUpdate, r)
	sc.RunHook(context.Background(), HookUpdate, r)

	v, release := RLock[counter](r)
	defer release()
	if v.n != 2 {
		t.Errorf("n = %d, want 2", v.n)
	}
}

func TestConflictingSystemsSerialize(t *testing.T) {
	r := NewRegistry()
	Set(r, &counter{})

	var order []string
	sc := NewScheduler()
	sc.MustOnHook(HookUpdate, "first", func(c Exclusive[counter]) {
		order = append(order, "first")
	})
	sc.MustOnHook(HookUpdate, "second", func(c Exclusive[counter]) {
		order = append(order, "second")
	})

	for range 10 {
		order = order[:0]
		sc.RunHook(context.Background(), HookUpdate, r)
		if len(order) != 2 || order[0] != "first" || order[1] != "second" {
			t.Fatalf("order = %v", order)
		}
	}
}

func TestNonConflictingSystemsAllRun(t *testing.T) {
	r := NewRegistry()
	Set(r, &counter{})
	Set(r, &label{})

	var ran atomic.Int32
	sc := NewScheduler()
	sc.MustOnHook(HookUpdate, "a", func(c Shared[counter]) { ran.Add(1) })
	sc.MustOnHook(HookUpdate, "b", func(l Shared[label]) { ran.Add(1) })
	sc.MustOnHook(HookUpdate, "c", func(ctx context.Context, c Shared[counter], l Shared[label]) {
		if ctx == nil {
			t.Error("ctx not injected")
		}
		ran.Add(1)
	})

	sc.RunHook(context.Background(), HookUpdate, r)
	if ran.Load() != 3 {
		t.Errorf("ran = %d, want 3", ran.Load())
	}
}

func TestBag(t *testing.T) {
	b := NewBag()
	if _, ok := BagGet[counter](b); ok {
		t.Error("empty bag should miss")
	}
	v := BagGetOrInsert(b, func() *counter { return &counter{n: 5} })
	if v.n != 5 {
		t.Errorf("n = %d, want 5", v.n)
	}
	v2 := BagGetOrInsert(b, func() *counter { return &counter{n: 99} })
	if v2 != v {
		t.Error("second GetOrInsert should return the existing value")
	}
	BagSet(b, &label{s: "x"})
	if b.Len() != 2 {
		t.Errorf("Len = %d, want 2", b.Len())
	}
	BagRemove[counter](b)
	if _, ok := BagGet[counter](b); ok {
		t.Error("removed entry still present")
	}
}
