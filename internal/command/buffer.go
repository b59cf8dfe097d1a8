package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dshills/keel/internal/engine/buffer"
	"github.com/dshills/keel/internal/event"
	"github.com/dshills/keel/internal/logging"
	"github.com/dshills/keel/internal/state"
)

// withCurBuffer runs f with the current buffer exclusively locked.
func withCurBuffer(reg *state.Registry, f func(b *buffer.TextBuffer) bool) bool {
	bufs, release := state.RLock[buffer.Buffers](reg)
	b := bufs.Cur()
	release()

	b.Lock()
	defer b.Unlock()
	return f(b)
}

// MoveCursorCommand moves every cursor by a row/column delta.
type MoveCursorCommand struct {
	DRow int
	DCol int
}

// Apply implements Command.
func (c MoveCursorCommand) Apply(_ context.Context, reg *state.Registry) bool {
	return withCurBuffer(reg, func(b *buffer.TextBuffer) bool {
		return b.MoveCursor(c.DRow, c.DCol)
	})
}

func parseMoveCursor(tokens []string) (Command, error) {
	if len(tokens) != 3 {
		return nil, fmt.Errorf("%w: expected <drow> <dcol>", ErrBadArguments)
	}
	drow, err := strconv.Atoi(tokens[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArguments, err)
	}
	dcol, err := strconv.Atoi(tokens[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArguments, err)
	}
	return MoveCursorCommand{DRow: drow, DCol: dcol}, nil
}

// MoveCommand is the directional wrapper dispatched by mode prefixes:
// "move left" etc.
type MoveCommand struct {
	Direction string
}

// Apply implements Command.
func (c MoveCommand) Apply(ctx context.Context, reg *state.Registry) bool {
	var drow, dcol int
	switch c.Direction {
	case "left":
		dcol = -1
	case "right":
		dcol = 1
	case "up":
		drow = -1
	case "down":
		drow = 1
	default:
		return false
	}
	return MoveCursorCommand{DRow: drow, DCol: dcol}.Apply(ctx, reg)
}

func parseMove(tokens []string) (Command, error) {
	if len(tokens) != 2 {
		return nil, fmt.Errorf("%w: expected a direction", ErrBadArguments)
	}
	switch tokens[1] {
	case "left", "right", "up", "down":
		return MoveCommand{Direction: tokens[1]}, nil
	default:
		return nil, fmt.Errorf("%w: direction %q", ErrBadArguments, tokens[1])
	}
}

// InsertCharCommand inserts one character at the primary cursor's caret.
type InsertCharCommand struct {
	Char rune
}

// Apply implements Command.
func (c InsertCharCommand) Apply(_ context.Context, reg *state.Registry) bool {
	return withCurBuffer(reg, func(b *buffer.TextBuffer) bool {
		p := b.PrimaryPoint()
		return b.Insert(p.Row, p.Col, string(c.Char))
	})
}

func parseInsertChar(tokens []string) (Command, error) {
	if len(tokens) != 2 || utf8.RuneCountInString(tokens[1]) != 1 {
		return nil, fmt.Errorf("%w: expected a single character", ErrBadArguments)
	}
	r, _ := utf8.DecodeRuneInString(tokens[1])
	return InsertCharCommand{Char: r}, nil
}

// AppendCommand inserts a text blob at the primary cursor, optionally
// extending the selection over it.
type AppendCommand struct {
	Text   string
	Extend bool
}

// Apply implements Command.
func (c AppendCommand) Apply(_ context.Context, reg *state.Registry) bool {
	if c.Text == "" {
		return false
	}
	return withCurBuffer(reg, func(b *buffer.TextBuffer) bool {
		p := b.PrimaryPoint()
		start := b.Cursors().Primary().Caret()
		if !b.Insert(p.Row, p.Col, c.Text) {
			return false
		}
		if c.Extend {
			cur := b.Cursors().Primary()
			cur.SetRange(start, b.Rope().Snap(start+len(c.Text)-1))
			cur.AtStart = false
		}
		return true
	})
}

// DeleteCharsCommand deletes characters at a column offset from the
// primary cursor.
type DeleteCharsCommand struct {
	Count  int
	Offset int
}

// Apply implements Command.
func (c DeleteCharsCommand) Apply(_ context.Context, reg *state.Registry) bool {
	return withCurBuffer(reg, func(b *buffer.TextBuffer) bool {
		p := b.PrimaryPoint()
		col := p.Col + c.Offset
		if col < 0 {
			col = 0
		}
		return b.Delete(p.Row, col, c.Count)
	})
}

func parseDeleteChars(tokens []string) (Command, error) {
	if len(tokens) < 2 || len(tokens) > 3 {
		return nil, fmt.Errorf("%w: expected <count> [offset]", ErrBadArguments)
	}
	count, err := strconv.Atoi(tokens[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArguments, err)
	}
	offset := 0
	if len(tokens) == 3 {
		if offset, err = strconv.Atoi(tokens[2]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadArguments, err)
		}
	}
	return DeleteCharsCommand{Count: count, Offset: offset}, nil
}

// InsertNewlineCommand inserts a line break at a column offset from the
// primary cursor.
type InsertNewlineCommand struct {
	Offset int
}

// Apply implements Command.
func (c InsertNewlineCommand) Apply(_ context.Context, reg *state.Registry) bool {
	return withCurBuffer(reg, func(b *buffer.TextBuffer) bool {
		p := b.PrimaryPoint()
		col := p.Col + c.Offset
		if col < 0 {
			col = 0
		}
		return b.InsertNewline(p.Row, col)
	})
}

// JoinLineCommand joins the row at an offset from the primary cursor onto
// the line above it.
type JoinLineCommand struct {
	Offset int
}

// Apply implements Command.
func (c JoinLineCommand) Apply(_ context.Context, reg *state.Registry) bool {
	return withCurBuffer(reg, func(b *buffer.TextBuffer) bool {
		p := b.PrimaryPoint()
		return b.JoinLine(p.Row + c.Offset)
	})
}

func parseIntArg(tokens []string, def int) (int, error) {
	if len(tokens) == 1 {
		return def, nil
	}
	if len(tokens) != 2 {
		return 0, fmt.Errorf("%w: too many arguments", ErrBadArguments)
	}
	n, err := strconv.Atoi(tokens[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadArguments, err)
	}
	return n, nil
}

// StartChangeCommand opens an undo group on the current buffer.
type StartChangeCommand struct{}

// Apply implements Command.
func (StartChangeCommand) Apply(_ context.Context, reg *state.Registry) bool {
	return withCurBuffer(reg, func(b *buffer.TextBuffer) bool {
		b.StartChangeGroup()
		return true
	})
}

// CommitChangeCommand commits the open undo group on the current buffer.
type CommitChangeCommand struct{}

// Apply implements Command.
func (CommitChangeCommand) Apply(_ context.Context, reg *state.Registry) bool {
	return withCurBuffer(reg, func(b *buffer.TextBuffer) bool {
		b.CommitChangeGroup()
		return true
	})
}

// CommitCommand wraps a nested command line in a change group.
type CommitCommand struct {
	After []string
}

// Apply implements Command.
func (c CommitCommand) Apply(ctx context.Context, reg *state.Registry) bool {
	withCurBuffer(reg, func(b *buffer.TextBuffer) bool {
		b.StartChangeGroup()
		return true
	})
	res := true
	if len(c.After) > 0 {
		res = CallCommand(ctx, reg, c.After)
	}
	withCurBuffer(reg, func(b *buffer.TextBuffer) bool {
		b.CommitChangeGroup()
		return true
	})
	return res
}

func parseCommit(tokens []string) (Command, error) {
	return CommitCommand{After: tokens[1:]}, nil
}

// UndoCommand reverses the most recent change group.
type UndoCommand struct{}

// Apply implements Command.
func (UndoCommand) Apply(_ context.Context, reg *state.Registry) bool {
	return withCurBuffer(reg, func(b *buffer.TextBuffer) bool {
		b.Undo()
		return true
	})
}

// RedoCommand re-applies the next change group.
type RedoCommand struct{}

// Apply implements Command.
func (RedoCommand) Apply(_ context.Context, reg *state.Registry) bool {
	return withCurBuffer(reg, func(b *buffer.TextBuffer) bool {
		b.Redo()
		return true
	})
}

// OpenCommand opens a file into a new buffer.
type OpenCommand struct {
	Path string
}

// Apply implements Command.
func (c OpenCommand) Apply(_ context.Context, reg *state.Registry) bool {
	b, err := buffer.FromFile(c.Path)
	if err != nil {
		logFrom(reg).Error("open %s: %v", c.Path, err)
		return false
	}
	bufs, release := state.Lock[buffer.Buffers](reg)
	defer release()
	bufs.Add(b)
	return false
}

// SaveCommand writes the current buffer and publishes a save event.
type SaveCommand struct {
	Path string
}

// Apply implements Command.
func (c SaveCommand) Apply(_ context.Context, reg *state.Registry) bool {
	var path string
	ok := withCurBuffer(reg, func(b *buffer.TextBuffer) bool {
		if err := b.Save(c.Path); err != nil {
			logFrom(reg).Error("save: %v", err)
			return false
		}
		path = b.Path()
		return true
	})
	if !ok {
		return false
	}
	if bus, found := state.Peek[event.Bus](reg); found {
		event.Publish(bus, buffer.SaveEvent{Path: path})
	}
	return false
}

// CloseBufferCommand removes the current buffer and publishes a close
// event carrying its captured state.
type CloseBufferCommand struct{}

// Apply implements Command.
func (CloseBufferCommand) Apply(_ context.Context, reg *state.Registry) bool {
	bufs, release := state.Lock[buffer.Buffers](reg)
	closed := bufs.CloseCurrent()
	release()

	if bus, found := state.Peek[event.Bus](reg); found {
		event.Publish(bus, buffer.CloseEvent{Buffer: closed.Snapshot()})
	}
	return false
}

// SelectBufferCommand moves the current-buffer index by a signed offset.
type SelectBufferCommand struct {
	Offset int
}

// Apply implements Command.
func (c SelectBufferCommand) Apply(_ context.Context, reg *state.Registry) bool {
	bufs, release := state.Lock[buffer.Buffers](reg)
	defer release()
	bufs.Select(c.Offset)
	return false
}

func logFrom(reg *state.Registry) *logging.Logger {
	if l, ok := state.Peek[logging.Logger](reg); ok {
		return l
	}
	return logging.Discard()
}

func restOrEmpty(tokens []string) string {
	if len(tokens) < 2 {
		return ""
	}
	return strings.Join(tokens[1:], " ")
}
