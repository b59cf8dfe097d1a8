// Package buffer implements the text buffer: a rope plus a cursor set,
// edit actions, undo/redo change groups, a pending byte-change list for
// incremental consumers, an opaque flag set, and a typed per-buffer state
// bag for extension data.
//
// Every mutating operation reports whether it applied. A false return
// means the operation was rejected after saturation and nothing changed;
// no operation panics on user input.
package buffer
