package rope

import (
	"io"
	"strings"
)

// Point is a line/column position. Row and Col are 0-indexed; Col counts
// characters, not bytes.
type Point struct {
	Row int
	Col int
}

// Rope is an immutable chunked text store. The zero value is an empty rope.
type Rope struct {
	root *node
}

// New returns an empty rope.
func New() Rope {
	return Rope{}
}

// FromString builds a rope from a string.
func FromString(s string) Rope {
	if len(s) == 0 {
		return Rope{}
	}
	return Rope{root: buildUp(leavesOf(splitText(s)))}
}

// FromReader builds a rope by consuming r until EOF.
func FromReader(r io.Reader) (Rope, error) {
	var sb strings.Builder
	if _, err := io.Copy(&sb, r); err != nil {
		return Rope{}, err
	}
	return FromString(sb.String()), nil
}

// Len returns the total byte length.
func (r Rope) Len() int {
	if r.root == nil {
		return 0
	}
	return r.root.sum.bytes
}

// LenChars returns the total character count.
func (r Rope) LenChars() int {
	if r.root == nil {
		return 0
	}
	return r.root.sum.chars
}

// LineCount returns the number of lines (terminators + 1).
func (r Rope) LineCount() int {
	if r.root == nil {
		return 1
	}
	return r.root.sum.breaks + 1
}

// IsEmpty reports whether the rope holds no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// String materializes the full text. Use sparingly for large ropes.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(r.Len())
	r.root.appendTo(func(s string) { sb.WriteString(s) })
	return sb.String()
}

// Slice returns the text in the byte range [start, end), snapped to rune
// boundaries and clamped to the rope.
func (r Rope) Slice(start, end int) string {
	if r.root == nil {
		return ""
	}
	start = r.Snap(start)
	end = r.Snap(end)
	if start >= end {
		return ""
	}
	var sb strings.Builder
	sb.Grow(end - start)
	r.root.sliceTo(start, end, func(s string) { sb.WriteString(s) })
	return sb.String()
}

// Snap clamps a byte offset to [0, Len] and rounds it down to the nearest
// rune boundary.
func (r Rope) Snap(off int) int {
	if r.root == nil || off <= 0 {
		return 0
	}
	if off >= r.Len() {
		return r.Len()
	}
	return snapDown(r.root, off)
}

// Insert returns a rope with text inserted at the given byte offset. The
// offset is snapped and clamped; the original rope is unchanged.
func (r Rope) Insert(off int, text string) Rope {
	if len(text) == 0 {
		return r
	}
	if r.root == nil {
		return FromString(text)
	}
	off = r.Snap(off)
	return Rope{root: buildUp(insertRec(r.root, off, text))}
}

// Delete returns a rope with the byte range [start, end) removed. Bounds
// are snapped and clamped; the original rope is unchanged.
func (r Rope) Delete(start, end int) Rope {
	if r.root == nil {
		return r
	}
	start = r.Snap(start)
	end = r.Snap(end)
	if start >= end {
		return r
	}
	return Rope{root: deleteRec(r.root, start, end)}
}

// ByteToChar converts a byte offset to a character index.
func (r Rope) ByteToChar(off int) int {
	if r.root == nil {
		return 0
	}
	return r.root.sumTo(r.Snap(off)).chars
}

// CharToByte converts a character index to a byte offset.
func (r Rope) CharToByte(ci int) int {
	if r.root == nil {
		return 0
	}
	return charToByteRec(r.root, ci)
}

// LineStart returns the byte offset of the first byte of the given row.
// Rows past the end saturate to Len.
func (r Rope) LineStart(row int) int {
	if r.root == nil || row <= 0 {
		return 0
	}
	if row >= r.LineCount() {
		return r.Len()
	}
	return breakPos(r.root, row)
}

// LineEnd returns the byte offset one past the last content byte of the
// row, excluding its terminator.
func (r Rope) LineEnd(row int) int {
	if r.root == nil {
		return 0
	}
	last := r.LineCount() - 1
	if row >= last {
		return r.Len()
	}
	if row < 0 {
		row = 0
	}
	return r.LineStart(row+1) - 1
}

// Line returns the text of a row without its terminator.
func (r Rope) Line(row int) string {
	return r.Slice(r.LineStart(row), r.LineEnd(row))
}

// LineCharLen returns the number of characters on a row, excluding the
// terminator.
func (r Rope) LineCharLen(row int) int {
	return r.ByteToChar(r.LineEnd(row)) - r.ByteToChar(r.LineStart(row))
}

// ByteToPoint converts a byte offset to a row/column position.
func (r Rope) ByteToPoint(off int) Point {
	if r.root == nil {
		return Point{}
	}
	off = r.Snap(off)
	row := r.root.sumTo(off).breaks
	ls := r.LineStart(row)
	return Point{Row: row, Col: r.ByteToChar(off) - r.ByteToChar(ls)}
}

// PointToByte converts a row/column position to a byte offset. Rows and
// columns saturate: a row past the end maps to the last row, a column past
// the line's character count maps to the line end.
func (r Rope) PointToByte(p Point) int {
	if r.root == nil {
		return 0
	}
	row := p.Row
	if row < 0 {
		row = 0
	}
	if last := r.LineCount() - 1; row > last {
		row = last
	}
	col := p.Col
	if col < 0 {
		col = 0
	}
	if n := r.LineCharLen(row); col > n {
		col = n
	}
	start := r.LineStart(row)
	return r.CharToByte(r.ByteToChar(start) + col)
}

// Equals reports whether two ropes contain the same text.
func (r Rope) Equals(other Rope) bool {
	if r.Len() != other.Len() || r.LenChars() != other.LenChars() {
		return false
	}
	return r.String() == other.String()
}
