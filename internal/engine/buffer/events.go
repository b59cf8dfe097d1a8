package buffer

// SaveEvent fires after a buffer is written to disk.
type SaveEvent struct {
	// Path the file was saved to.
	Path string
}

// CloseEvent fires when a buffer is removed from the set. It carries the
// closing buffer's captured state so late observers can still read it.
type CloseEvent struct {
	Buffer *TextBuffer
}
