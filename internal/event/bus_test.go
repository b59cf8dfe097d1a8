package event

import (
	"context"
	"testing"

	"github.com/dshills/keel/internal/state"
)

type saved struct{ path string }
type other struct{ n int }

type sink struct {
	some  []string
	none  int
	calls int
}

func newWorld(t *testing.T) (*Bus, *state.Registry) {
	t.Helper()
	b := NewBus()
	r := state.NewRegistry()
	state.Set(r, b)
	state.Set(r, &sink{})
	return b, r
}

func frame(b *Bus, r *state.Registry) {
	b.BeginFrame()
	b.Dispatch(context.Background(), r)
}

func TestOneFrameDeferredDelivery(t *testing.T) {
	b, r := newWorld(t)
	err := Subscribe[saved](b).System("observe", func(out state.Exclusive[sink], ev Data[saved]) {
		s := out.Get()
		s.calls++
		if v := ev.Get(); v != nil {
			s.some = append(s.some, v.path)
		} else {
			s.none++
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	// Publish during frame N, before frame N+1 begins.
	Publish(b, saved{path: "/x"})
	// Frame N+1: the value arrives exactly once.
	frame(b, r)
	// Frames N+2 and N+3: the subscriber runs with nothing bound.
	frame(b, r)
	frame(b, r)

	s, release := state.RLock[sink](r)
	defer release()
	if len(s.some) != 1 || s.some[0] != "/x" {
		t.Errorf("some = %v, want [/x]", s.some)
	}
	if s.none != 2 {
		t.Errorf("none = %d, want 2", s.none)
	}
	if s.calls != 3 {
		t.Errorf("calls = %d, want 3", s.calls)
	}
}

func TestEachValueToEachSubscriberInOrder(t *testing.T) {
	b, r := newWorld(t)
	var order []string
	mk := func(tag string) func(ev Data[saved]) {
		return func(ev Data[saved]) {
			if v := ev.Get(); v != nil {
				order = append(order, tag+":"+v.path)
			}
		}
	}
	if err := Subscribe[saved](b).System("a", mk("a")); err != nil {
		t.Fatal(err)
	}
	if err := Subscribe[saved](b).System("b", mk("b")); err != nil {
		t.Fatal(err)
	}

	Publish(b, saved{path: "1"})
	Publish(b, saved{path: "2"})
	frame(b, r)
	frame(b, r)

	want := []string{"a:1", "b:1", "a:2", "b:2"}
	if len(order) != len(want) {
		t.Fatalf("order = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestQueuesAreIndependent(t *testing.T) {
	b, r := newWorld(t)
	var got []int
	if err := Subscribe[other](b).System("nums", func(ev Data[other]) {
		if v := ev.Get(); v != nil {
			got = append(got, v.n)
		}
	}); err != nil {
		t.Fatal(err)
	}

	Publish(b, saved{path: "ignored"})
	Publish(b, other{n: 7})
	frame(b, r)
	frame(b, r)

	if len(got) != 1 || got[0] != 7 {
		t.Errorf("got = %v, want [7]", got)
	}
	// The saved queue drained even with no subscriber.
	if n := Pending[saved](b); n != 0 {
		t.Errorf("saved pending = %d, want 0", n)
	}
}

func TestPublishWithNoSubscriberIsConsumed(t *testing.T) {
	b, r := newWorld(t)
	Publish(b, saved{path: "/nobody"})
	if n := Pending[saved](b); n != 1 {
		t.Fatalf("pending = %d, want 1", n)
	}
	frame(b, r)
	frame(b, r)
	if n := Pending[saved](b); n != 0 {
		t.Errorf("pending = %d, want 0", n)
	}
}
