// Package event provides the typed publish/subscribe bus.
//
// Every event type has its own FIFO queue and its own subscriber list.
// Delivery is deferred by exactly one frame for determinism: values
// published during frame N are sequenced at the start of frame N+1 and
// dispatched during its update hook. A drained value is consumed by the
// bus whether or not anyone subscribed.
package event

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/keel/internal/state"
)

// Metadata accompanies every published value.
type Metadata struct {
	ID        string
	Timestamp time.Time
}

type envelope struct {
	value any
	meta  Metadata
}

// queue is the per-type state: staged values wait for the next frame,
// current values are being delivered this frame.
type queue struct {
	staged  []envelope
	current []envelope
	subs    []*state.System

	// delivering is the value visible to Data bindings while the
	// dispatcher runs this queue's subscribers; nil between values.
	delivering any
}

// Bus is the event bus. Store exactly one in the registry.
type Bus struct {
	mu     sync.Mutex
	order  []state.Key
	queues map[state.Key]*queue
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{queues: make(map[state.Key]*queue)}
}

func (b *Bus) queueFor(k state.Key) *queue {
	q, ok := b.queues[k]
	if !ok {
		q = &queue{}
		b.queues[k] = q
		b.order = append(b.order, k)
	}
	return q
}

// Publish appends a value to its type's staged queue. It becomes visible
// to subscribers during the next frame's update hook.
func Publish[T any](b *Bus, v T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := b.queueFor(state.KeyOf[T]())
	q.staged = append(q.staged, envelope{
		value: v,
		meta:  Metadata{ID: uuid.NewString(), Timestamp: time.Now()},
	})
}

// Subscription registers systems for one event type.
type Subscription[T any] struct {
	bus *Bus
}

// Subscribe starts a subscription builder for T.
func Subscribe[T any](b *Bus) Subscription[T] {
	return Subscription[T]{bus: b}
}

// System registers fn as a subscriber system. Subscribers run during every
// update dispatch in registration order: once per delivered value with the
// value bound, or once with nothing bound when the queue is empty.
func (s Subscription[T]) System(name string, fn any) error {
	sys, err := state.NewSystem(name, fn)
	if err != nil {
		return err
	}
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	q := s.bus.queueFor(state.KeyOf[T]())
	q.subs = append(q.subs, sys)
	return nil
}

// BeginFrame promotes staged values to the current delivery set. Call once
// at the top of each frame, before the update hook.
func (b *Bus) BeginFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, k := range b.order {
		q := b.queues[k]
		q.current = q.staged
		q.staged = nil
	}
}

// Dispatch delivers the current values: for each event type, each value is
// handed to every subscriber in registration order, then the queue is
// emptied. Subscribers with an empty queue run once with no value so they
// can observe the absence.
func (b *Bus) Dispatch(ctx context.Context, r *state.Registry) {
	b.mu.Lock()
	keys := make([]state.Key, len(b.order))
	copy(keys, b.order)
	b.mu.Unlock()

	for _, k := range keys {
		b.mu.Lock()
		q := b.queues[k]
		values := q.current
		q.current = nil
		subs := make([]*state.System, len(q.subs))
		copy(subs, q.subs)
		b.mu.Unlock()

		if len(subs) == 0 {
			continue
		}
		if len(values) == 0 {
			for _, sys := range subs {
				sys.Run(ctx, r)
			}
			continue
		}
		for _, env := range values {
			b.mu.Lock()
			q.delivering = env.value
			b.mu.Unlock()
			for _, sys := range subs {
				sys.Run(ctx, r)
			}
		}
		b.mu.Lock()
		q.delivering = nil
		b.mu.Unlock()
	}
}

// Pending reports how many values of type T are staged or awaiting
// delivery. Intended for tests and diagnostics.
func Pending[T any](b *Bus) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	q, ok := b.queues[state.KeyOf[T]()]
	if !ok {
		return 0
	}
	return len(q.staged) + len(q.current)
}

// Data is the subscriber-side parameter carrying the delivered value.
// Get returns nil when no value of the type is available this invocation.
type Data[T any] struct {
	v *T
}

// dataKey gives each event type a distinct descriptor key so subscribers
// of unrelated events never serialize against each other.
type dataKey[T any] struct{}

// ParamDesc implements state.Param.
func (Data[T]) ParamDesc() state.Desc {
	return state.Desc{Key: reflect.TypeOf(dataKey[T]{}), Write: true}
}

// Bind implements state.Param.
func (Data[T]) Bind(r *state.Registry) state.Param {
	b, ok := state.Peek[Bus](r)
	if !ok {
		return Data[T]{}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	q, ok := b.queues[state.KeyOf[T]()]
	if !ok || q.delivering == nil {
		return Data[T]{}
	}
	v, ok := q.delivering.(T)
	if !ok {
		return Data[T]{}
	}
	return Data[T]{v: &v}
}

// Get returns the delivered value, or nil when none is available.
func (d Data[T]) Get() *T {
	return d.v
}
