// Package backend abstracts the terminal behind the framebuffer and
// input-stream contracts the core consumes. The Terminal implementation
// drives a real terminal through tcell; Mem backs tests.
package backend

import (
	"time"

	"github.com/dshills/keel/internal/input/key"
	"github.com/dshills/keel/internal/render"
)

// EventKind classifies a polled input event.
type EventKind int

// Event kinds.
const (
	EventNone EventKind = iota
	EventKey
	EventResize
)

// Event is one polled input event.
type Event struct {
	Kind   EventKind
	Stroke key.Stroke
	Width  int
	Height int
}

// Backend is the terminal the editor runs against: the framebuffer
// contract plus lifecycle and a pollable input stream.
type Backend interface {
	render.Framebuffer

	Init() error
	Fini()
	Clear()
	Show()

	// Poll waits up to timeout for the next event. EventNone reports a
	// timeout.
	Poll(timeout time.Duration) Event
}
