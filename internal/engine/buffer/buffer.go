package buffer

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dshills/keel/internal/engine/cursor"
	"github.com/dshills/keel/internal/engine/rope"
	"github.com/dshills/keel/internal/state"
)

// ByteChange records one edit as a byte-range delta: the text at
// [Start, OldEnd) was replaced by text ending at NewEnd. Incremental
// consumers (syntax parser, language-server notifier) drain these each
// frame.
type ByteChange struct {
	Start  int
	OldEnd int
	NewEnd int
}

// TextBuffer owns one piece of text being edited.
type TextBuffer struct {
	mu sync.RWMutex

	text    rope.Rope
	cursors *cursor.Set

	path string
	ext  string

	flags  map[string]struct{}
	states *state.Bag

	pending []ByteChange
	version int

	undo []*changeGroup
	redo []*changeGroup
	open *changeGroup
}

// Scratch returns an empty buffer with no backing file.
func Scratch() *TextBuffer {
	return &TextBuffer{
		text:    rope.New(),
		cursors: cursor.NewSet(),
		flags:   make(map[string]struct{}),
		states:  state.NewBag(),
	}
}

// FromString returns a buffer preloaded with text. Used by tests and by
// paste-into-new-buffer flows.
func FromString(text string) *TextBuffer {
	b := Scratch()
	b.text = rope.FromString(text)
	return b
}

// FromFile reads path into a new buffer. The extension tag is derived from
// the file name.
func FromFile(path string) (*TextBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rope.FromReader(f)
	if err != nil {
		return nil, err
	}
	b := Scratch()
	b.text = r
	b.path = path
	b.ext = strings.TrimPrefix(filepath.Ext(path), ".")
	return b, nil
}

// Lock takes the buffer's exclusive lock. Commands that enter the buffer
// layer hold it for the duration of their body.
func (b *TextBuffer) Lock() { b.mu.Lock() }

// Unlock releases the exclusive lock.
func (b *TextBuffer) Unlock() { b.mu.Unlock() }

// RLock takes the buffer's shared lock.
func (b *TextBuffer) RLock() { b.mu.RLock() }

// RUnlock releases the shared lock.
func (b *TextBuffer) RUnlock() { b.mu.RUnlock() }

// Rope returns the current text. The rope is immutable, so the returned
// value stays valid after further edits.
func (b *TextBuffer) Rope() rope.Rope { return b.text }

// Cursors returns the buffer's cursor set.
func (b *TextBuffer) Cursors() *cursor.Set { return b.cursors }

// Path returns the backing file path; empty for scratch buffers.
func (b *TextBuffer) Path() string { return b.path }

// Ext returns the file-extension tag; empty for scratch buffers.
func (b *TextBuffer) Ext() string { return b.ext }

// Version returns a counter incremented on every applied edit.
func (b *TextBuffer) Version() int { return b.version }

// States returns the buffer's typed state bag.
func (b *TextBuffer) States() *state.Bag { return b.states }

// SetFlag sets an opaque marker on the buffer.
func (b *TextBuffer) SetFlag(name string) { b.flags[name] = struct{}{} }

// HasFlag reports whether a marker is set.
func (b *TextBuffer) HasFlag(name string) bool {
	_, ok := b.flags[name]
	return ok
}

// ClearFlag removes a marker.
func (b *TextBuffer) ClearFlag(name string) { delete(b.flags, name) }

// Save writes the buffer to path, or to its existing path when path is
// empty. On success the buffer adopts the path.
func (b *TextBuffer) Save(path string) error {
	if path == "" {
		path = b.path
	}
	if path == "" {
		return os.ErrInvalid
	}
	if err := os.WriteFile(path, []byte(b.text.String()), 0o644); err != nil {
		return err
	}
	b.path = path
	b.ext = strings.TrimPrefix(filepath.Ext(path), ".")
	return nil
}

// DrainByteChanges returns and clears the pending change list. Draining is
// destructive: a second call with no intervening edits returns nil.
func (b *TextBuffer) DrainByteChanges() []ByteChange {
	out := b.pending
	b.pending = nil
	return out
}

// PendingByteChanges reports how many changes are waiting without
// draining them.
func (b *TextBuffer) PendingByteChanges() int { return len(b.pending) }

// Snapshot returns a captured copy of the buffer for late observers (the
// close event). The rope is shared structurally; cursors are cloned.
func (b *TextBuffer) Snapshot() *TextBuffer {
	flags := make(map[string]struct{}, len(b.flags))
	for f := range b.flags {
		flags[f] = struct{}{}
	}
	return &TextBuffer{
		text:    b.text,
		cursors: b.cursors.Clone(),
		path:    b.path,
		ext:     b.ext,
		flags:   flags,
		states:  b.states,
		version: b.version,
	}
}

// PrimaryPoint returns the row/column of the primary caret.
func (b *TextBuffer) PrimaryPoint() rope.Point {
	return b.text.ByteToPoint(b.cursors.Primary().Caret())
}

// SliceSelection returns the text covered by the primary cursor's
// inclusive selection.
func (b *TextBuffer) SliceSelection() string {
	c := b.cursors.Primary()
	lo := b.text.Snap(c.Lo)
	hi := b.text.Snap(c.Hi)
	if hi < b.text.Len() {
		// The range is inclusive; extend past the rune under Hi.
		hi = b.text.CharToByte(b.text.ByteToChar(hi) + 1)
	}
	return b.text.Slice(lo, hi)
}
