// Package render implements the chunk compositor: z-layered cell-grid
// tiles that systems draw into, flattened onto a framebuffer at the end
// of every frame with at-most-one cursor selected across all chunks.
package render

import "github.com/rivo/uniseg"

// Color is an RGB color. The zero value means "terminal default".
type Color struct {
	R, G, B uint8
	Valid   bool
}

// RGB returns a concrete color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, Valid: true}
}

// Style is the visual attribute set of a cell.
type Style struct {
	FG        Color
	BG        Color
	Bold      bool
	Italic    bool
	Underline bool
	Reverse   bool
}

// Cell is one character cell. A zero Rune is the NUL sentinel: the cell
// is transparent and skipped during composition.
type Cell struct {
	Rune  rune
	Style Style
}

// CursorShape selects the terminal cursor appearance.
type CursorShape int

// Cursor shapes.
const (
	CursorBlock CursorShape = iota
	CursorUnderline
	CursorBar
	CursorHidden
)

// Point is a zero-based cell coordinate, origin top-left.
type Point struct {
	X, Y int
}

// Add offsets a point by another.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// RuneWidth returns the display width of a rune: 0 for control
// characters, 2 for wide characters, 1 otherwise.
func RuneWidth(r rune) int {
	if r < 32 || r == 0x7F {
		return 0
	}
	return uniseg.StringWidth(string(r))
}

// Framebuffer is the consumed terminal contract: a cell grid with a
// cursor. Coordinates are zero-based with the origin at the top-left.
type Framebuffer interface {
	Size() (w, h int)
	SetCell(x, y int, c Cell)
	SetCursor(x, y int, shape CursorShape)
	HideCursor()
}
