package buffer

import (
	"testing"
)

func TestInsertAndDelete(t *testing.T) {
	b := Scratch()
	if !b.Insert(0, 0, "hello") {
		t.Fatal("insert rejected")
	}
	if got := b.Rope().String(); got != "hello" {
		t.Fatalf("rope = %q", got)
	}
	if !b.Delete(0, 1, 3) {
		t.Fatal("delete rejected")
	}
	if got := b.Rope().String(); got != "ho" {
		t.Errorf("rope = %q, want %q", got, "ho")
	}
}

func TestInsertSaturates(t *testing.T) {
	b := FromString("ab")
	if !b.Insert(99, 99, "!") {
		t.Fatal("insert rejected")
	}
	if got := b.Rope().String(); got != "ab!" {
		t.Errorf("rope = %q, want %q", got, "ab!")
	}
}

func TestDeleteClamps(t *testing.T) {
	b := FromString("abc")
	if !b.Delete(0, 1, 100) {
		t.Fatal("delete rejected")
	}
	if got := b.Rope().String(); got != "a" {
		t.Errorf("rope = %q, want %q", got, "a")
	}
	// Nothing left after the position: rejected, nothing recorded.
	b.DrainByteChanges()
	if b.Delete(0, 1, 1) {
		t.Error("delete past end should be rejected")
	}
	if n := b.PendingByteChanges(); n != 0 {
		t.Errorf("pending = %d, want 0", n)
	}
}

func TestEmptyInsertRejected(t *testing.T) {
	b := Scratch()
	if b.Insert(0, 0, "") {
		t.Error("empty insert should be rejected")
	}
	if b.CanUndo() {
		t.Error("rejected op must not create an undo unit")
	}
}

func TestCursorAdvancesOnInsertAtCaret(t *testing.T) {
	b := Scratch()
	b.Insert(0, 0, "x")
	if got := b.Cursors().Primary().Caret(); got != 1 {
		t.Errorf("caret = %d, want 1", got)
	}
}

func TestImplicitGroupUndo(t *testing.T) {
	b := FromString("abc")
	b.Delete(0, 0, 1)
	b.Delete(0, 0, 1)
	if got := b.Rope().String(); got != "c" {
		t.Fatalf("rope = %q", got)
	}
	// Each action outside a group is its own undo unit.
	if !b.Undo() {
		t.Fatal("undo failed")
	}
	if got := b.Rope().String(); got != "bc" {
		t.Errorf("after one undo rope = %q, want %q", got, "bc")
	}
}

func TestChangeGroupUndo(t *testing.T) {
	b := Scratch()
	b.StartChangeGroup()
	b.Insert(0, 0, "a")
	b.Insert(0, 1, "b")
	b.Insert(0, 2, "c")
	b.CommitChangeGroup()

	if got := b.Rope().String(); got != "abc" {
		t.Fatalf("rope = %q", got)
	}
	if !b.Undo() {
		t.Fatal("undo failed")
	}
	if got := b.Rope().String(); got != "" {
		t.Errorf("rope after undo = %q, want empty", got)
	}
	c := b.Cursors().Primary()
	if c.Lo != 0 || c.Hi != 0 || c.AtStart {
		t.Errorf("cursor after undo = %+v", c)
	}
}

func TestNestedStartCollapses(t *testing.T) {
	b := Scratch()
	b.StartChangeGroup()
	b.Insert(0, 0, "a")
	b.StartChangeGroup() // idempotent no-op
	b.Insert(0, 1, "b")
	b.CommitChangeGroup()
	b.CommitChangeGroup() // commit while idle is a no-op

	if !b.Undo() {
		t.Fatal("undo failed")
	}
	if got := b.Rope().String(); got != "" {
		t.Errorf("rope = %q, want empty (single flattened group)", got)
	}
	if b.CanUndo() {
		t.Error("only one undo unit expected")
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	b := FromString("base")
	b.Insert(0, 4, "!")
	wantRope := b.Rope().String()
	wantCursors := b.Cursors().Clone()

	if !b.Undo() || !b.Redo() {
		t.Fatal("undo/redo failed")
	}
	if got := b.Rope().String(); got != wantRope {
		t.Errorf("rope = %q, want %q", got, wantRope)
	}
	if !b.Cursors().Equals(wantCursors) {
		t.Error("cursor set not restored by redo")
	}
}

func TestJoinLine(t *testing.T) {
	b := FromString("a\n  b")
	if !b.JoinLine(1) {
		t.Fatal("join rejected")
	}
	if got := b.Rope().String(); got != "a b" {
		t.Errorf("rope = %q, want %q", got, "a b")
	}
	if !b.Undo() {
		t.Fatal("undo failed")
	}
	if got := b.Rope().String(); got != "a\n  b" {
		t.Errorf("rope after undo = %q, want %q", got, "a\n  b")
	}
}

func TestJoinLineRejectsEdges(t *testing.T) {
	b := FromString("a\nb")
	if b.JoinLine(0) {
		t.Error("joining row 0 should be rejected")
	}
	if b.JoinLine(5) {
		t.Error("joining past the end should be rejected")
	}
}

func TestMoveCursorSaturates(t *testing.T) {
	b := FromString("abc\nde")
	b.MoveCursor(0, 2) // col 2 on row 0
	b.MoveCursor(1, 0) // row 1 has only 2 chars: saturate to col 2
	p := b.PrimaryPoint()
	if p.Row != 1 || p.Col != 2 {
		t.Fatalf("point = %+v", p)
	}
	b.MoveCursor(5, 0)
	if p := b.PrimaryPoint(); p.Row != 1 {
		t.Errorf("row = %d, want saturated 1", p.Row)
	}
}

func TestDesiredColumnPreserved(t *testing.T) {
	b := FromString("abcdef\nx\nabcdef")
	b.MoveCursor(0, 5) // col 5
	b.MoveCursor(1, 0) // short line: col clamps to 1
	if p := b.PrimaryPoint(); p.Col != 1 {
		t.Fatalf("col on short line = %d, want 1", p.Col)
	}
	b.MoveCursor(1, 0) // back on a long line: desired column restores
	if p := b.PrimaryPoint(); p.Col != 5 {
		t.Errorf("col restored = %d, want 5", p.Col)
	}
}

func TestDrainByteChanges(t *testing.T) {
	b := Scratch()
	b.Insert(0, 0, "ab")
	b.Delete(0, 0, 1)

	changes := b.DrainByteChanges()
	if len(changes) != 2 {
		t.Fatalf("len = %d, want 2", len(changes))
	}
	if changes[0] != (ByteChange{Start: 0, OldEnd: 0, NewEnd: 2}) {
		t.Errorf("insert change = %+v", changes[0])
	}
	if changes[1] != (ByteChange{Start: 0, OldEnd: 1, NewEnd: 0}) {
		t.Errorf("delete change = %+v", changes[1])
	}
	if got := b.DrainByteChanges(); len(got) != 0 {
		t.Errorf("second drain = %v, want empty", got)
	}
}

func TestMulticursorEdit(t *testing.T) {
	b := FromString("aa\nbb")
	b.Cursors().Primary().MoveTo(0)
	b.CreateCursor()
	b.Cursors().Primary().MoveTo(3)

	// Apply an insert at each cursor, rotating primary like the
	// broadcast command does.
	n := b.Cursors().Len()
	orig := b.Cursors().PrimaryIndex()
	for i := range n {
		b.Cursors().SetPrimaryIndex(i)
		p := b.PrimaryPoint()
		b.Insert(p.Row, p.Col, "x")
	}
	b.Cursors().SetPrimaryIndex(orig)

	if got := b.Rope().String(); got != "xaa\nxbb" {
		t.Fatalf("rope = %q, want %q", got, "xaa\nxbb")
	}
	for i := range n {
		p := b.Rope().ByteToPoint(b.Cursors().At(i).Caret())
		if p.Col != 1 {
			t.Errorf("cursor %d col = %d, want 1", i, p.Col)
		}
	}
}

func TestFlagsAndStates(t *testing.T) {
	b := Scratch()
	if b.HasFlag("lsp_opened") {
		t.Error("fresh buffer should have no flags")
	}
	b.SetFlag("lsp_opened")
	if !b.HasFlag("lsp_opened") {
		t.Error("flag not set")
	}
	b.ClearFlag("lsp_opened")
	if b.HasFlag("lsp_opened") {
		t.Error("flag not cleared")
	}
	if b.States() == nil {
		t.Error("state bag missing")
	}
}

func TestBuffersSet(t *testing.T) {
	bs := NewBuffers()
	if bs.Len() != 1 || bs.Cur() == nil {
		t.Fatal("fresh set must hold a scratch buffer")
	}
	extra := FromString("two")
	bs.Add(extra)
	if bs.Cur() != extra {
		t.Error("Add should select the new buffer")
	}
	bs.Select(1)
	bs.Select(-1)
	if bs.Cur() != extra {
		t.Error("Select wrap failed")
	}
	closed := bs.CloseCurrent()
	if closed != extra || bs.Len() != 1 {
		t.Error("CloseCurrent mismatch")
	}
	bs.CloseCurrent()
	if bs.Len() != 1 {
		t.Error("set must stay non-empty")
	}
}
