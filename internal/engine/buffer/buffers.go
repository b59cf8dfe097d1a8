package buffer

// Buffers is the registry-held set of open buffers. The set is never
// empty; closing the last buffer replaces it with a scratch buffer.
type Buffers struct {
	list []*TextBuffer
	cur  int
}

// NewBuffers returns a set holding one scratch buffer.
func NewBuffers() *Buffers {
	return &Buffers{list: []*TextBuffer{Scratch()}}
}

// BuffersOf returns a set holding the given buffers; the last one is
// current. An empty call is equivalent to NewBuffers.
func BuffersOf(bufs ...*TextBuffer) *Buffers {
	if len(bufs) == 0 {
		return NewBuffers()
	}
	return &Buffers{list: bufs, cur: len(bufs) - 1}
}

// Cur returns the current buffer.
func (bs *Buffers) Cur() *TextBuffer {
	return bs.list[bs.cur]
}

// Len returns the number of open buffers.
func (bs *Buffers) Len() int {
	return len(bs.list)
}

// At returns the buffer at index i.
func (bs *Buffers) At(i int) *TextBuffer {
	return bs.list[i]
}

// Add appends a buffer and makes it current.
func (bs *Buffers) Add(b *TextBuffer) {
	bs.list = append(bs.list, b)
	bs.cur = len(bs.list) - 1
}

// Select moves the current index by a signed offset, wrapping around.
func (bs *Buffers) Select(offset int) {
	n := len(bs.list)
	bs.cur = ((bs.cur+offset)%n + n) % n
}

// CloseCurrent removes the current buffer and returns it. The set stays
// non-empty, and the current index clamps to the remaining buffers.
func (bs *Buffers) CloseCurrent() *TextBuffer {
	closed := bs.list[bs.cur]
	bs.list = append(bs.list[:bs.cur], bs.list[bs.cur+1:]...)
	if len(bs.list) == 0 {
		bs.list = []*TextBuffer{Scratch()}
	}
	if bs.cur >= len(bs.list) {
		bs.cur = len(bs.list) - 1
	}
	return closed
}

// ForEach calls f with each open buffer in order.
func (bs *Buffers) ForEach(f func(b *TextBuffer)) {
	for _, b := range bs.list {
		f(b)
	}
}
