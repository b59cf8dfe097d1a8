package render

// CursorReq is a chunk's claim on the terminal cursor. The compositor
// picks at most one winner per frame.
type CursorReq struct {
	Priority int
	Pos      Point
	Shape    CursorShape
}

// DeferredDraw is a callback invoked during composition, after every
// chunk cell has been copied, so it observes the final composited
// framebuffer. Used for overlays such as selection highlighting.
type DeferredDraw func(fb Framebuffer, pos Point)

type deferredItem struct {
	pos Point
	fn  DeferredDraw
}

// Chunk is one drawable tile: a cell grid initialized to the transparent
// NUL sentinel, an optional cursor claim, and deferred draw items.
type Chunk struct {
	size     Point
	cells    []Cell
	cursor   *CursorReq
	deferred []deferredItem
}

// NewChunk allocates a cleared chunk of the given size.
func NewChunk(w, h int) *Chunk {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Chunk{size: Point{X: w, Y: h}, cells: make([]Cell, w*h)}
}

// Size returns the chunk's dimensions.
func (c *Chunk) Size() Point {
	return c.size
}

// Clear resets every cell to the transparent sentinel and drops the
// cursor claim and deferred items.
func (c *Chunk) Clear() {
	for i := range c.cells {
		c.cells[i] = Cell{}
	}
	c.cursor = nil
	c.deferred = c.deferred[:0]
}

// Set writes one cell. Out-of-bounds writes are ignored.
func (c *Chunk) Set(x, y int, cell Cell) {
	if x < 0 || y < 0 || x >= c.size.X || y >= c.size.Y {
		return
	}
	c.cells[y*c.size.X+x] = cell
}

// Get reads one cell; out-of-bounds reads return the sentinel.
func (c *Chunk) Get(x, y int) Cell {
	if x < 0 || y < 0 || x >= c.size.X || y >= c.size.Y {
		return Cell{}
	}
	return c.cells[y*c.size.X+x]
}

// Fill sets every cell to the given value.
func (c *Chunk) Fill(cell Cell) {
	for i := range c.cells {
		c.cells[i] = cell
	}
}

// DrawString writes s starting at (x, y), advancing by display width,
// and returns the next x. Wide characters occupy two cells; the second
// stays transparent so underlying layers show through only if the first
// is never drawn.
func (c *Chunk) DrawString(x, y int, s string, style Style) int {
	for _, r := range s {
		w := RuneWidth(r)
		if w == 0 {
			continue
		}
		c.Set(x, y, Cell{Rune: r, Style: style})
		x += w
	}
	return x
}

// SetCursor claims the cursor for this chunk. A chunk holds at most one
// claim; later calls replace earlier ones.
func (c *Chunk) SetCursor(priority int, pos Point, shape CursorShape) {
	c.cursor = &CursorReq{Priority: priority, Pos: pos, Shape: shape}
}

// RemoveCursor withdraws the cursor claim.
func (c *Chunk) RemoveCursor() {
	c.cursor = nil
}

// Cursor returns the current claim, or nil.
func (c *Chunk) Cursor() *CursorReq {
	return c.cursor
}

// Defer registers a deferred draw callback at a chunk-relative position.
func (c *Chunk) Defer(pos Point, fn DeferredDraw) {
	c.deferred = append(c.deferred, deferredItem{pos: pos, fn: fn})
}
