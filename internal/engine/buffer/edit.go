package buffer

import (
	"github.com/dshills/keel/internal/engine/cursor"
	"github.com/dshills/keel/internal/engine/rope"
)

// editOp is the normalized form of every edit action: replace the byte
// range [At, At+len(Removed)) with Inserted. Storing both sides makes the
// inverse trivial.
type editOp struct {
	At       int
	Removed  string
	Inserted string
}

func (op editOp) invert() editOp {
	return editOp{At: op.At, Removed: op.Inserted, Inserted: op.Removed}
}

// changeGroup is one undo unit: the ops applied plus cursor snapshots
// from group open and commit.
type changeGroup struct {
	ops    []editOp
	before *cursor.Set
	after  *cursor.Set
}

// applyOp mutates the rope and cursors and records the pending change.
func (b *TextBuffer) applyOp(op editOp) {
	oldEnd := op.At + len(op.Removed)
	if len(op.Removed) > 0 {
		b.text = b.text.Delete(op.At, oldEnd)
		b.cursors.AdjustDelete(op.At, oldEnd)
	}
	if len(op.Inserted) > 0 {
		b.text = b.text.Insert(op.At, op.Inserted)
		b.cursors.AdjustInsert(op.At, len(op.Inserted))
	}
	b.pending = append(b.pending, ByteChange{
		Start:  op.At,
		OldEnd: oldEnd,
		NewEnd: op.At + len(op.Inserted),
	})
	b.version++
}

// do records and applies one action. Actions outside an open group form
// implicit single-action groups.
func (b *TextBuffer) do(op editOp) bool {
	implicit := b.open == nil
	if implicit {
		b.StartChangeGroup()
	}
	b.applyOp(op)
	b.open.ops = append(b.open.ops, op)
	if implicit {
		b.CommitChangeGroup()
	}
	return true
}

// StartChangeGroup opens an undo group. Starting while a group is already
// open is an idempotent no-op; groups never nest.
func (b *TextBuffer) StartChangeGroup() {
	if b.open != nil {
		return
	}
	b.open = &changeGroup{before: b.cursors.Clone()}
}

// CommitChangeGroup closes the open group and pushes it as one undo unit.
// Committing while idle is a no-op; an empty group is discarded.
func (b *TextBuffer) CommitChangeGroup() {
	g := b.open
	if g == nil {
		return
	}
	b.open = nil
	if len(g.ops) == 0 {
		return
	}
	g.after = b.cursors.Clone()
	b.undo = append(b.undo, g)
	b.redo = nil
}

// Undo reverses the most recent committed group and restores the cursor
// set captured at its start.
func (b *TextBuffer) Undo() bool {
	if len(b.undo) == 0 {
		return false
	}
	g := b.undo[len(b.undo)-1]
	b.undo = b.undo[:len(b.undo)-1]

	for i := len(g.ops) - 1; i >= 0; i-- {
		b.applyOp(g.ops[i].invert())
	}
	b.cursors.Restore(g.before)
	b.cursors.Clamp(b.text.Len())
	b.redo = append(b.redo, g)
	return true
}

// Redo re-applies the next group forward and restores the cursor set
// captured at its commit.
func (b *TextBuffer) Redo() bool {
	if len(b.redo) == 0 {
		return false
	}
	g := b.redo[len(b.redo)-1]
	b.redo = b.redo[:len(b.redo)-1]

	for _, op := range g.ops {
		b.applyOp(op)
	}
	b.cursors.Restore(g.after)
	b.cursors.Clamp(b.text.Len())
	b.undo = append(b.undo, g)
	return true
}

// CanUndo reports whether an undo unit is available.
func (b *TextBuffer) CanUndo() bool { return len(b.undo) > 0 }

// CanRedo reports whether a redo unit is available.
func (b *TextBuffer) CanRedo() bool { return len(b.redo) > 0 }

// Insert places text at a row/column position. Out-of-range positions
// saturate to the nearest valid position.
func (b *TextBuffer) Insert(row, col int, text string) bool {
	if text == "" {
		return false
	}
	at := b.text.PointToByte(rope.Point{Row: row, Col: col})
	return b.do(editOp{At: at, Inserted: text})
}

// Delete removes up to n characters starting at a row/column position.
// n is clamped to the characters remaining after the position.
func (b *TextBuffer) Delete(row, col, n int) bool {
	if n <= 0 {
		return false
	}
	start := b.text.PointToByte(rope.Point{Row: row, Col: col})
	startChar := b.text.ByteToChar(start)
	if remaining := b.text.LenChars() - startChar; n > remaining {
		n = remaining
	}
	if n <= 0 {
		return false
	}
	end := b.text.CharToByte(startChar + n)
	return b.do(editOp{At: start, Removed: b.text.Slice(start, end)})
}

// InsertNewline inserts a line break at a row/column position.
func (b *TextBuffer) InsertNewline(row, col int) bool {
	at := b.text.PointToByte(rope.Point{Row: row, Col: col})
	return b.do(editOp{At: at, Inserted: "\n"})
}

// JoinLine joins the given row onto the previous one: the terminator and
// the row's leading whitespace are replaced by a single space. The
// stripped prefix is retained by the edit record so undo restores it
// exactly.
func (b *TextBuffer) JoinLine(row int) bool {
	if row < 1 || row >= b.text.LineCount() {
		return false
	}
	lineStart := b.text.LineStart(row)
	if lineStart == 0 {
		return false
	}
	termAt := lineStart - 1

	ws := 0
	line := b.text.Line(row)
	for ws < len(line) && (line[ws] == ' ' || line[ws] == '\t') {
		ws++
	}
	removed := b.text.Slice(termAt, lineStart+ws)
	return b.do(editOp{At: termAt, Removed: removed, Inserted: " "})
}

// MoveCursor moves every cursor by a row/column delta. Rows and columns
// saturate at buffer edges; vertical motion consults the per-cursor
// desired-column hint so that crossing a short line and returning
// restores the original column.
func (b *TextBuffer) MoveCursor(drow, dcol int) bool {
	lastRow := b.text.LineCount() - 1
	b.cursors.ForEach(func(_ int, c *cursor.Cursor) {
		p := b.text.ByteToPoint(c.Caret())

		row := p.Row + drow
		if row < 0 {
			row = 0
		}
		if row > lastRow {
			row = lastRow
		}

		var want int
		if dcol != 0 || c.Desired < 0 {
			want = p.Col + dcol
			if want < 0 {
				want = 0
			}
			c.Desired = want
		} else {
			want = c.Desired
		}
		if n := b.text.LineCharLen(row); want > n {
			want = n
		}

		c.MoveTo(b.text.PointToByte(rope.Point{Row: row, Col: want}))
		c.AtStart = false
	})
	return true
}

// CreateCursor duplicates the primary cursor; the duplicate becomes
// primary.
func (b *TextBuffer) CreateCursor() { b.cursors.Create() }

// DropPrimaryCursor removes the primary cursor when others remain.
func (b *TextBuffer) DropPrimaryCursor() bool { return b.cursors.DropPrimary() }

// DropOtherCursors reduces the set to the primary cursor.
func (b *TextBuffer) DropOtherCursors() { b.cursors.DropOthers() }

// ChangeCursor advances the primary index by a signed offset, modulo the
// cursor count.
func (b *TextBuffer) ChangeCursor(offset int) { b.cursors.Rotate(offset) }
