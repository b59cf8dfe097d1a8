// Package rope implements the text store backing every buffer.
//
// A Rope is an immutable chunked tree over UTF-8 text. Edits return new
// Rope values and share structure with the original, which makes snapshots
// (undo, close events) cheap. All public offsets are byte offsets; offsets
// that land inside a multi-byte rune are snapped down to the nearest rune
// boundary before use.
//
// Line policy: a line feed or a carriage return each terminate a line, so
// "a\r\nb" contains three lines. The policy is fixed and shared by every
// consumer of the rope's line arithmetic.
package rope
