package backend

import (
	"strings"
	"sync"
	"time"

	"github.com/dshills/keel/internal/render"
)

// Mem is an in-memory backend for tests and headless runs. Events are
// injected with Feed.
type Mem struct {
	mu     sync.Mutex
	w, h   int
	cells  map[render.Point]render.Cell
	cursor *render.Point
	shape  render.CursorShape
	events chan Event
}

// NewMem returns a memory backend of the given size.
func NewMem(w, h int) *Mem {
	return &Mem{
		w:      w,
		h:      h,
		cells:  make(map[render.Point]render.Cell),
		events: make(chan Event, 64),
	}
}

// Init implements Backend.
func (m *Mem) Init() error { return nil }

// Fini implements Backend.
func (m *Mem) Fini() {}

// Clear erases all cells.
func (m *Mem) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cells = make(map[render.Point]render.Cell)
}

// Show implements Backend.
func (m *Mem) Show() {}

// Size implements the framebuffer contract.
func (m *Mem) Size() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.w, m.h
}

// SetCell implements the framebuffer contract.
func (m *Mem) SetCell(x, y int, c render.Cell) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cells[render.Point{X: x, Y: y}] = c
}

// SetCursor implements the framebuffer contract.
func (m *Mem) SetCursor(x, y int, shape render.CursorShape) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursor = &render.Point{X: x, Y: y}
	m.shape = shape
}

// HideCursor implements the framebuffer contract.
func (m *Mem) HideCursor() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursor = nil
}

// Poll implements Backend.
func (m *Mem) Poll(timeout time.Duration) Event {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case ev := <-m.events:
		return ev
	case <-timer.C:
		return Event{Kind: EventNone}
	}
}

// Feed injects an event for the next Poll.
func (m *Mem) Feed(ev Event) {
	m.events <- ev
}

// Cursor returns the current cursor position, or nil when hidden.
func (m *Mem) Cursor() *render.Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor
}

// CellAt returns the cell written at a position.
func (m *Mem) CellAt(x, y int) render.Cell {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cells[render.Point{X: x, Y: y}]
}

// Row renders one row as a string, with sentinels as spaces. Test
// helper.
func (m *Mem) Row(y int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sb strings.Builder
	for x := 0; x < m.w; x++ {
		c := m.cells[render.Point{X: x, Y: y}]
		if c.Rune == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteRune(c.Rune)
		}
	}
	return strings.TrimRight(sb.String(), " ")
}
