package command

import (
	"context"
	"fmt"

	"github.com/dshills/keel/internal/engine/buffer"
	"github.com/dshills/keel/internal/state"
)

// CreateCursorCommand duplicates the primary cursor.
type CreateCursorCommand struct{}

// Apply implements Command.
func (CreateCursorCommand) Apply(_ context.Context, reg *state.Registry) bool {
	return withCurBuffer(reg, func(b *buffer.TextBuffer) bool {
		b.CreateCursor()
		return true
	})
}

// ChangeCursorCommand advances the primary index by a signed offset.
type ChangeCursorCommand struct {
	Offset int
}

// Apply implements Command.
func (c ChangeCursorCommand) Apply(_ context.Context, reg *state.Registry) bool {
	return withCurBuffer(reg, func(b *buffer.TextBuffer) bool {
		b.ChangeCursor(c.Offset)
		return true
	})
}

func parseChangeCursor(tokens []string) (Command, error) {
	n, err := parseIntArg(tokens, 1)
	if err != nil {
		return nil, err
	}
	return ChangeCursorCommand{Offset: n}, nil
}

// DropCursorCommand removes the primary cursor when others remain.
type DropCursorCommand struct{}

// Apply implements Command.
func (DropCursorCommand) Apply(_ context.Context, reg *state.Registry) bool {
	return withCurBuffer(reg, func(b *buffer.TextBuffer) bool {
		b.DropPrimaryCursor()
		return true
	})
}

// DropOtherCursorsCommand reduces the cursor set to the primary.
type DropOtherCursorsCommand struct{}

// Apply implements Command.
func (DropOtherCursorsCommand) Apply(_ context.Context, reg *state.Registry) bool {
	return withCurBuffer(reg, func(b *buffer.TextBuffer) bool {
		b.DropOtherCursors()
		return true
	})
}

// ApplyAllCommand broadcasts a sub-command once per cursor: the primary
// index walks the set, the sub-command is parsed and applied for each
// position, and the original primary is restored afterwards. A failed
// sub-application halts the broadcast.
type ApplyAllCommand struct {
	Sub []string
}

// Apply implements Command.
func (c ApplyAllCommand) Apply(ctx context.Context, reg *state.Registry) bool {
	bufs, release := state.RLock[buffer.Buffers](reg)
	b := bufs.Cur()
	release()

	b.Lock()
	orig := b.Cursors().PrimaryIndex()
	count := b.Cursors().Len()
	b.Unlock()

	res := true
	for i := range count {
		b.Lock()
		b.Cursors().SetPrimaryIndex(i)
		b.Unlock()

		cmd, err := ParseFromState(reg, append([]string(nil), c.Sub...))
		if err != nil {
			logFrom(reg).Warn("apply_all_cursor: %v", err)
			res = false
			break
		}
		if !cmd.Apply(ctx, reg) {
			res = false
			break
		}
	}

	b.Lock()
	b.Cursors().SetPrimaryIndex(orig)
	b.Unlock()
	return res
}

func parseApplyAll(tokens []string) (Command, error) {
	if len(tokens) < 2 {
		return nil, fmt.Errorf("%w: expected a sub-command", ErrBadArguments)
	}
	return ApplyAllCommand{Sub: tokens[1:]}, nil
}
