// Package command implements the command pipeline: token parsing with
// mode-prefix rewriting, the frame-drained queue, repeat-count execution,
// and the built-in command set.
package command

import (
	"context"
	"sync"

	"github.com/dshills/keel/internal/input"
	"github.com/dshills/keel/internal/state"
)

// Command is a single editor operation. Apply runs the body against the
// shared state and reports whether the command is repeatable: a true
// return lets the pending repeat count re-run it.
type Command interface {
	Apply(ctx context.Context, reg *state.Registry) bool
}

// RepeatNeutral marks commands that accumulate the repeat buffer itself
// and therefore must not consume it.
type RepeatNeutral interface {
	RepeatNeutral()
}

// Queue is the registry-held command queue. Commands enqueued during a
// frame are applied between the update and render hooks of that frame.
type Queue struct {
	mu    sync.Mutex
	items []Command
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends a command.
func (q *Queue) Push(cmd Command) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, cmd)
}

// Drain returns and clears the queued commands.
func (q *Queue) Drain() []Command {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of queued commands.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Execute applies one command with repeat-count semantics: the pending
// count is taken and cleared, the command runs once, and a repeatable
// outcome re-runs it count-1 more times. Repeat-neutral commands bypass
// the count entirely.
func Execute(ctx context.Context, reg *state.Registry, cmd Command) bool {
	if _, neutral := cmd.(RepeatNeutral); neutral {
		return cmd.Apply(ctx, reg)
	}

	n := 1
	if state.Has[input.State](reg) {
		st, release := state.Lock[input.State](reg)
		if taken := st.TakeRepeat(); taken > 1 {
			n = taken
		}
		release()
	}

	ok := cmd.Apply(ctx, reg)
	if !ok {
		return false
	}
	for i := 1; i < n; i++ {
		if !cmd.Apply(ctx, reg) {
			return false
		}
	}
	return true
}
