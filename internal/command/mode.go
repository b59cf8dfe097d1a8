package command

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/dshills/keel/internal/engine/buffer"
	"github.com/dshills/keel/internal/mode"
	"github.com/dshills/keel/internal/state"
)

// ChangeModeCommand resets the mode stack to normal plus the given mode.
// Entering insert mode opens a change group on the current buffer and
// leaving it commits, so one insert session is one undo unit. Never
// repeatable.
type ChangeModeCommand struct {
	Mode rune
}

// Apply implements Command.
func (c ChangeModeCommand) Apply(_ context.Context, reg *state.Registry) bool {
	ms, release := state.Lock[mode.Stack](reg)
	old := ms.Current()
	ms.Set(c.Mode)
	release()

	if old == c.Mode {
		return false
	}
	if c.Mode == 'i' {
		withCurBuffer(reg, func(b *buffer.TextBuffer) bool {
			b.StartChangeGroup()
			return true
		})
	}
	if old == 'i' {
		withCurBuffer(reg, func(b *buffer.TextBuffer) bool {
			b.CommitChangeGroup()
			return true
		})
	}
	return false
}

// PushModeCommand pushes a mode onto the stack.
type PushModeCommand struct {
	Mode rune
}

// Apply implements Command.
func (c PushModeCommand) Apply(_ context.Context, reg *state.Registry) bool {
	ms, release := state.Lock[mode.Stack](reg)
	defer release()
	ms.Push(c.Mode)
	return false
}

// PopModeCommand pops the top mode. Normal mode never pops.
type PopModeCommand struct{}

// Apply implements Command.
func (PopModeCommand) Apply(_ context.Context, reg *state.Registry) bool {
	ms, release := state.Lock[mode.Stack](reg)
	defer release()
	ms.Pop()
	return false
}

func parseModeRune(tokens []string) (rune, error) {
	if len(tokens) != 2 || utf8.RuneCountInString(tokens[1]) != 1 {
		return 0, fmt.Errorf("%w: expected a single mode character", ErrBadArguments)
	}
	r, _ := utf8.DecodeRuneInString(tokens[1])
	return r, nil
}
