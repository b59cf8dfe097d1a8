// Package langserver produces the file lifecycle notifications an
// external language-server integration consumes. The core never speaks
// the protocol; it derives open/change/save/close calls from buffer
// state, the per-buffer debounce tracker, and bus events.
package langserver

import (
	"time"

	"github.com/dshills/keel/internal/engine/buffer"
	"github.com/dshills/keel/internal/event"
	"github.com/dshills/keel/internal/state"
)

// OpenedFlag marks buffers whose open notification has been sent.
const OpenedFlag = "lsp_opened"

// Notifier is the produced contract.
type Notifier interface {
	OnFileOpen(path, lang string)
	OnFileChange(path string, version int, fullText string)
	OnFileSave(path string)
	OnFileClose(path string)
}

// Host is the registry entry holding the attached notifier. Nil disables
// the whole pipeline.
type Host struct {
	Notifier Notifier

	// DebounceMin is how long a buffer must stay idle before a change
	// notification goes out.
	DebounceMin time.Duration
}

// debounce is the per-buffer tracker kept in the buffer's state bag.
type debounce struct {
	sentVersion int
	observed    int
	lastEdit    time.Time
}

// OpenSystem sends the open notification once per file-backed buffer,
// marking it with OpenedFlag. Registered under the update hook.
func OpenSystem(host state.Shared[Host], bufs state.Exclusive[buffer.Buffers]) {
	n := host.Get().Notifier
	if n == nil {
		return
	}
	bufs.Get().ForEach(func(b *buffer.TextBuffer) {
		if b.Path() == "" || b.HasFlag(OpenedFlag) {
			return
		}
		n.OnFileOpen(b.Path(), b.Ext())
		b.SetFlag(OpenedFlag)
	})
}

// ChangeSystem watches buffer versions and sends a full-text change
// notification once a buffer has been idle past the debounce window.
// Registered under the update hook.
func ChangeSystem(host state.Shared[Host], bufs state.Exclusive[buffer.Buffers]) {
	h := host.Get()
	if h.Notifier == nil {
		return
	}
	minIdle := h.DebounceMin
	now := time.Now()

	bufs.Get().ForEach(func(b *buffer.TextBuffer) {
		if !b.HasFlag(OpenedFlag) {
			return
		}
		d := state.BagGetOrInsert(b.States(), func() *debounce {
			v := b.Version()
			return &debounce{sentVersion: v, observed: v}
		})
		if b.Version() != d.observed {
			d.observed = b.Version()
			d.lastEdit = now
		}
		if b.Version() == d.sentVersion || now.Sub(d.lastEdit) < minIdle {
			return
		}
		d.sentVersion = b.Version()
		h.Notifier.OnFileChange(b.Path(), b.Version(), b.Rope().String())
	})
}

// Subscribe wires the save and close notifications to bus events.
func Subscribe(bus *event.Bus) error {
	err := event.Subscribe[buffer.SaveEvent](bus).System("langserver-save",
		func(host state.Shared[Host], ev event.Data[buffer.SaveEvent]) {
			n := host.Get().Notifier
			v := ev.Get()
			if n == nil || v == nil {
				return
			}
			n.OnFileSave(v.Path)
		})
	if err != nil {
		return err
	}
	return event.Subscribe[buffer.CloseEvent](bus).System("langserver-close",
		func(host state.Shared[Host], ev event.Data[buffer.CloseEvent]) {
			n := host.Get().Notifier
			v := ev.Get()
			if n == nil || v == nil || v.Buffer == nil {
				return
			}
			if v.Buffer.Path() != "" && v.Buffer.HasFlag(OpenedFlag) {
				n.OnFileClose(v.Buffer.Path())
			}
		})
}
