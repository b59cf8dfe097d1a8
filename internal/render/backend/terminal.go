package backend

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keel/internal/input/key"
	"github.com/dshills/keel/internal/render"
)

// Terminal implements Backend over a tcell screen.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
	events chan tcell.Event
}

// NewTerminal allocates a terminal backend. Init must be called before
// use.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen, events: make(chan tcell.Event, 16)}, nil
}

// Init initializes the screen and starts the event pump.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.screen.Init(); err != nil {
		return err
	}
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				close(t.events)
				return
			}
			t.events <- ev
		}
	}()
	return nil
}

// Fini restores the terminal.
func (t *Terminal) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Fini()
}

// Size returns the terminal dimensions.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen.Size()
}

// Clear erases the screen buffer.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Clear()
}

// Show flushes pending updates to the terminal.
func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Show()
}

// SetCell writes one styled cell.
func (t *Terminal) SetCell(x, y int, c render.Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.SetContent(x, y, c.Rune, nil, toTcellStyle(c.Style))
}

// SetCursor places and shapes the cursor.
func (t *Terminal) SetCursor(x, y int, shape render.CursorShape) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch shape {
	case render.CursorBlock:
		t.screen.SetCursorStyle(tcell.CursorStyleSteadyBlock)
	case render.CursorUnderline:
		t.screen.SetCursorStyle(tcell.CursorStyleSteadyUnderline)
	case render.CursorBar:
		t.screen.SetCursorStyle(tcell.CursorStyleSteadyBar)
	case render.CursorHidden:
		t.screen.HideCursor()
		return
	}
	t.screen.ShowCursor(x, y)
}

// HideCursor hides the cursor.
func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.HideCursor()
}

// Poll waits up to timeout for the next input event.
func (t *Terminal) Poll(timeout time.Duration) Event {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case ev, ok := <-t.events:
			if !ok {
				return Event{Kind: EventNone}
			}
			switch e := ev.(type) {
			case *tcell.EventKey:
				return Event{Kind: EventKey, Stroke: key.FromTcell(e)}
			case *tcell.EventResize:
				w, h := e.Size()
				return Event{Kind: EventResize, Width: w, Height: h}
			default:
				// Mouse, paste and focus events are collaborator
				// concerns; keep waiting.
				continue
			}
		case <-timer.C:
			return Event{Kind: EventNone}
		}
	}
}

func toTcellColor(c render.Color) tcell.Color {
	if !c.Valid {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func toTcellStyle(s render.Style) tcell.Style {
	st := tcell.StyleDefault.
		Foreground(toTcellColor(s.FG)).
		Background(toTcellColor(s.BG))
	if s.Bold {
		st = st.Bold(true)
	}
	if s.Italic {
		st = st.Italic(true)
	}
	if s.Underline {
		st = st.Underline(true)
	}
	if s.Reverse {
		st = st.Reverse(true)
	}
	return st
}
