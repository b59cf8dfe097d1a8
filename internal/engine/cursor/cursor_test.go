package cursor

import "testing"

func TestCaret(t *testing.T) {
	c := Cursor{Lo: 2, Hi: 5}
	if c.Caret() != 5 {
		t.Errorf("Caret() = %d, want 5", c.Caret())
	}
	c.AtStart = true
	if c.Caret() != 2 {
		t.Errorf("Caret() with AtStart = %d, want 2", c.Caret())
	}
}

func TestCollapse(t *testing.T) {
	c := Cursor{Lo: 2, Hi: 5}
	c.Collapse()
	if c.Lo != 5 || c.Hi != 5 {
		t.Errorf("collapse to end gave [%d,%d]", c.Lo, c.Hi)
	}
	c = Cursor{Lo: 2, Hi: 5, AtStart: true}
	c.Collapse()
	if c.Lo != 2 || c.Hi != 2 {
		t.Errorf("collapse to start gave [%d,%d]", c.Lo, c.Hi)
	}
}

func TestAdjustInsert(t *testing.T) {
	c := Cursor{Lo: 3, Hi: 6}
	c.AdjustInsert(3, 2)
	if c.Lo != 5 || c.Hi != 8 {
		t.Errorf("insert at lo gave [%d,%d]", c.Lo, c.Hi)
	}
	c = Cursor{Lo: 3, Hi: 6}
	c.AdjustInsert(7, 2)
	if c.Lo != 3 || c.Hi != 6 {
		t.Errorf("insert after gave [%d,%d]", c.Lo, c.Hi)
	}
}

func TestAdjustDelete(t *testing.T) {
	c := Cursor{Lo: 5, Hi: 9}
	c.AdjustDelete(0, 3)
	if c.Lo != 2 || c.Hi != 6 {
		t.Errorf("delete before gave [%d,%d]", c.Lo, c.Hi)
	}
	c = Cursor{Lo: 5, Hi: 9}
	c.AdjustDelete(4, 7)
	if c.Lo != 4 || c.Hi != 6 {
		t.Errorf("delete overlapping gave [%d,%d]", c.Lo, c.Hi)
	}
}

func TestSetInvariants(t *testing.T) {
	s := NewSet()
	if s.Len() != 1 || s.PrimaryIndex() != 0 {
		t.Fatalf("fresh set: len=%d primary=%d", s.Len(), s.PrimaryIndex())
	}
	if s.DropPrimary() {
		t.Error("dropping the last cursor should fail")
	}
	if s.Len() != 1 {
		t.Error("set must stay non-empty")
	}
}

func TestCreateAndDrop(t *testing.T) {
	s := NewSet()
	s.Primary().MoveTo(4)
	s.Create()
	if s.Len() != 2 || s.PrimaryIndex() != 1 {
		t.Fatalf("after Create: len=%d primary=%d", s.Len(), s.PrimaryIndex())
	}
	if s.Primary().Caret() != 4 {
		t.Errorf("created cursor caret = %d, want 4", s.Primary().Caret())
	}
	if !s.DropPrimary() {
		t.Fatal("DropPrimary should succeed with two cursors")
	}
	if s.Len() != 1 || s.PrimaryIndex() != 0 {
		t.Errorf("after drop: len=%d primary=%d", s.Len(), s.PrimaryIndex())
	}
}

func TestDropReanchorsByClamping(t *testing.T) {
	s := NewSet()
	s.Create()
	s.Create() // three cursors, primary = 2
	if !s.DropPrimary() {
		t.Fatal("drop failed")
	}
	if s.PrimaryIndex() != 1 {
		t.Errorf("primary = %d, want clamped 1", s.PrimaryIndex())
	}
}

func TestRotate(t *testing.T) {
	s := NewSet()
	s.Create()
	s.Create() // primary = 2 of 3
	s.Rotate(1)
	if s.PrimaryIndex() != 0 {
		t.Errorf("Rotate(1) = %d, want 0", s.PrimaryIndex())
	}
	s.Rotate(-1)
	if s.PrimaryIndex() != 2 {
		t.Errorf("Rotate(-1) = %d, want 2", s.PrimaryIndex())
	}
	s.Rotate(-4)
	if s.PrimaryIndex() != 1 {
		t.Errorf("Rotate(-4) = %d, want 1", s.PrimaryIndex())
	}
}

func TestDropOthers(t *testing.T) {
	s := NewSet()
	s.Primary().MoveTo(9)
	s.Create()
	s.Create()
	s.DropOthers()
	if s.Len() != 1 || s.PrimaryIndex() != 0 {
		t.Errorf("after DropOthers: len=%d primary=%d", s.Len(), s.PrimaryIndex())
	}
	if s.Primary().Caret() != 9 {
		t.Errorf("kept cursor caret = %d, want 9", s.Primary().Caret())
	}
}

func TestCloneRestore(t *testing.T) {
	s := NewSet()
	s.Primary().MoveTo(3)
	s.Create()
	snap := s.Clone()
	s.Primary().MoveTo(99)
	s.DropOthers()
	s.Restore(snap)
	if !s.Equals(snap) {
		t.Error("Restore did not recover the snapshot")
	}
	if s.Len() != 2 || s.Primary().Caret() != 3 {
		t.Errorf("restored set wrong: len=%d caret=%d", s.Len(), s.Primary().Caret())
	}
}
