// Package highlight defines the contract the core consumes from an
// external incremental parser, and the system that feeds it. The core
// never parses syntax itself: it notifies the parser of byte-range edits
// and queries styled ranges for the viewport.
package highlight

import (
	"github.com/dshills/keel/internal/engine/buffer"
	"github.com/dshills/keel/internal/render"
	"github.com/dshills/keel/internal/state"
)

// StyleSpan marks a style change taking effect at a byte offset.
type StyleSpan struct {
	Byte  int
	Style render.Style
}

// Parser is the external incremental parser.
type Parser interface {
	NotifyEdit(path string, change buffer.ByteChange)
	QueryStyles(path string, start, end int) []StyleSpan
}

// Host is the registry entry holding the attached parser. A nil Parser
// disables highlighting; the feed system then leaves pending changes for
// other consumers.
type Host struct {
	Parser Parser
}

// FeedSystem drains the current buffer's byte changes into the parser.
// Registered under the update hook.
func FeedSystem(host state.Shared[Host], bufs state.Exclusive[buffer.Buffers]) {
	p := host.Get().Parser
	if p == nil {
		return
	}
	b := bufs.Get().Cur()
	path := b.Path()
	for _, ch := range b.DrainByteChanges() {
		p.NotifyEdit(path, ch)
	}
}

// StylesFor queries the parser for a byte range, returning nil when no
// parser is attached.
func StylesFor(host *Host, path string, start, end int) []StyleSpan {
	if host == nil || host.Parser == nil {
		return nil
	}
	return host.Parser.QueryStyles(path, start, end)
}
