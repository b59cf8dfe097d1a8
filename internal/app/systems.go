package app

import (
	"fmt"
	"strings"

	"github.com/dshills/keel/internal/command"
	"github.com/dshills/keel/internal/engine/buffer"
	"github.com/dshills/keel/internal/highlight"
	"github.com/dshills/keel/internal/input"
	"github.com/dshills/keel/internal/mode"
	"github.com/dshills/keel/internal/render"
	"github.com/dshills/keel/internal/state"
	"github.com/dshills/keel/internal/theme"
)

// Chunk marker types. Each names one render region; systems borrow them
// through render.In.
type (
	// BufferChunk is the main text area.
	BufferChunk struct{}
	// StatuslineChunk is the mode/path/pending line.
	StatuslineChunk struct{}
	// CommandlineChunk is the palette input line.
	CommandlineChunk struct{}
)

// layoutChunks (re)registers the standard chunks for a terminal size.
func layoutChunks(cs *render.Chunks, w, h int) {
	if h < 3 {
		h = 3
	}
	render.Register[BufferChunk](cs, 0, render.Point{}, w, h-2)
	render.Register[StatuslineChunk](cs, 1, render.Point{Y: h - 2}, w, 1)
	render.Register[CommandlineChunk](cs, 1, render.Point{Y: h - 1}, w, 1)
}

// viewState is the per-buffer scroll kept in the buffer's state bag.
type viewState struct {
	scroll int
}

// renderBufferSystem draws the current buffer into the buffer chunk,
// claims the cursor, and defers the selection overlay.
func renderBufferSystem(
	chunk render.In[BufferChunk],
	bufs state.Shared[buffer.Buffers],
	modes state.Shared[mode.Stack],
	th state.Shared[theme.Theme],
	hl state.Shared[highlight.Host],
) {
	ch := chunk.Get()
	if ch == nil {
		return
	}
	b := bufs.Get().Cur()
	t := th.Get()
	size := ch.Size()
	if size.Y == 0 || size.X == 0 {
		return
	}

	r := b.Rope()
	caret := r.ByteToPoint(b.Cursors().Primary().Caret())

	view := state.BagGetOrInsert(b.States(), func() *viewState { return &viewState{} })
	if caret.Row < view.scroll {
		view.scroll = caret.Row
	}
	if caret.Row >= view.scroll+size.Y {
		view.scroll = caret.Row - size.Y + 1
	}
	scroll := view.scroll

	base := t.Text()
	lineCount := r.LineCount()
	for y := 0; y < size.Y; y++ {
		row := scroll + y
		if row >= lineCount {
			break
		}
		line := r.Line(row)
		styled := base
		if spans := highlight.StylesFor(hl.Get(), b.Path(), r.LineStart(row), r.LineEnd(row)); len(spans) > 0 {
			// The whole row takes the style of the first span returned
			// for it; later style changes within the row are not applied.
			styled = spans[0].Style
		}
		ch.DrawString(0, y, line, styled)
	}

	ch.SetCursor(0, render.Point{X: caret.Col, Y: caret.Row - scroll}, theme.CursorShapeFor(modes.Get().Current()))

	// Selection overlay: deferred so it paints over the composited text.
	primary := *b.Cursors().Primary()
	if primary.Lo != primary.Hi {
		lo := r.ByteToPoint(primary.Lo)
		hi := r.ByteToPoint(primary.Hi)
		sel := t.SelectionStyle()
		ch.Defer(render.Point{}, func(fb render.Framebuffer, origin render.Point) {
			for row := lo.Row; row <= hi.Row; row++ {
				if row < scroll || row >= scroll+size.Y {
					continue
				}
				startCol := 0
				if row == lo.Row {
					startCol = lo.Col
				}
				endCol := r.LineCharLen(row)
				if row == hi.Row && hi.Col < endCol {
					endCol = hi.Col
				}
				text := r.Line(row)
				cols := []rune(text)
				for col := startCol; col <= endCol && col < len(cols); col++ {
					fb.SetCell(origin.X+col, origin.Y+row-scroll,
						render.Cell{Rune: cols[col], Style: sel})
				}
			}
		})
	}
}

// renderStatuslineSystem draws mode, path, pending keys and the repeat
// buffer.
func renderStatuslineSystem(
	chunk render.In[StatuslineChunk],
	bufs state.Shared[buffer.Buffers],
	modes state.Shared[mode.Stack],
	in state.Shared[input.State],
	th state.Shared[theme.Theme],
) {
	ch := chunk.Get()
	if ch == nil {
		return
	}
	t := th.Get()
	b := bufs.Get().Cur()

	path := b.Path()
	if path == "" {
		path = "[scratch]"
	}

	left := fmt.Sprintf(" %c  %s", modes.Get().Current(), path)
	right := strings.TrimSpace(in.Get().Pending + " " + in.Get().RepeatString())

	style := t.Status()
	ch.Fill(render.Cell{Rune: ' ', Style: style})
	ch.DrawString(0, 0, left, style)
	if right != "" {
		x := ch.Size().X - len(right) - 1
		if x > 0 {
			ch.DrawString(x, 0, right, style)
		}
	}
}

// renderCommandlineSystem draws the palette input while command-line
// mode is active, claiming the cursor at a higher priority than the
// buffer's.
func renderCommandlineSystem(
	chunk render.In[CommandlineChunk],
	palette state.Shared[command.PaletteState],
	modes state.Shared[mode.Stack],
	th state.Shared[theme.Theme],
) {
	ch := chunk.Get()
	if ch == nil {
		return
	}
	if modes.Get().Current() != 'c' {
		return
	}
	t := th.Get()
	text := ";" + palette.Get().Input
	next := ch.DrawString(0, 0, text, t.Text())
	ch.SetCursor(10, render.Point{X: next, Y: 0}, render.CursorBar)
}
