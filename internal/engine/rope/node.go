package rope

import "unicode/utf8"

// Chunk size constants control the granularity of leaf storage.
const (
	// maxChunkBytes is the maximum payload of a leaf before it splits.
	maxChunkBytes = 256

	// targetChunkBytes is the preferred leaf payload when rebuilding.
	targetChunkBytes = 192

	// maxChildren is the branching factor of internal nodes.
	maxChildren = 8
)

// summary holds aggregated metrics for a text span. Summaries are additive,
// so an internal node's summary is the sum of its children's.
type summary struct {
	bytes  int
	chars  int
	breaks int
}

func (s summary) add(o summary) summary {
	return summary{
		bytes:  s.bytes + o.bytes,
		chars:  s.chars + o.chars,
		breaks: s.breaks + o.breaks,
	}
}

// isBreak reports whether b terminates a line.
func isBreak(b byte) bool {
	return b == '\n' || b == '\r'
}

// scan computes the summary of a string.
func scan(s string) summary {
	var sum summary
	sum.bytes = len(s)
	for i := 0; i < len(s); {
		b := s[i]
		if b < utf8.RuneSelf {
			if isBreak(b) {
				sum.breaks++
			}
			sum.chars++
			i++
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		sum.chars++
		i += size
	}
	return sum
}

// node is a tree node. A node with nil kids is a leaf holding text;
// otherwise it is internal and text is empty.
type node struct {
	sum  summary
	text string
	kids []*node
}

func newLeaf(s string) *node {
	return &node{sum: scan(s), text: s}
}

func newInternal(kids []*node) *node {
	n := &node{kids: kids}
	for _, k := range kids {
		n.sum = n.sum.add(k.sum)
	}
	return n
}

func (n *node) isLeaf() bool {
	return n.kids == nil
}

// splitText breaks a string into rune-aligned pieces no larger than
// maxChunkBytes, aiming for targetChunkBytes each.
func splitText(s string) []string {
	if len(s) <= maxChunkBytes {
		return []string{s}
	}
	var out []string
	for len(s) > maxChunkBytes {
		cut := targetChunkBytes
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		if cut == 0 {
			// Degenerate: a rune longer than the target cannot exist,
			// but guard against malformed input by forcing progress.
			cut = targetChunkBytes
		}
		out = append(out, s[:cut])
		s = s[cut:]
	}
	if len(s) > 0 {
		out = append(out, s)
	}
	return out
}

// leavesOf wraps text pieces in leaf nodes.
func leavesOf(pieces []string) []*node {
	leaves := make([]*node, len(pieces))
	for i, p := range pieces {
		leaves[i] = newLeaf(p)
	}
	return leaves
}

// buildUp groups nodes into internal parents until a single root remains.
func buildUp(nodes []*node) *node {
	if len(nodes) == 0 {
		return nil
	}
	for len(nodes) > 1 {
		parents := make([]*node, 0, (len(nodes)+maxChildren-1)/maxChildren)
		for i := 0; i < len(nodes); i += maxChildren {
			end := min(i+maxChildren, len(nodes))
			kids := make([]*node, end-i)
			copy(kids, nodes[i:end])
			parents = append(parents, newInternal(kids))
		}
		nodes = parents
	}
	return nodes[0]
}

// insertRec inserts text at a byte offset inside n and returns the
// replacement nodes. The offset must lie within [0, n.sum.bytes].
func insertRec(n *node, off int, text string) []*node {
	if n.isLeaf() {
		joined := n.text[:off] + text + n.text[off:]
		return leavesOf(splitText(joined))
	}

	kids := make([]*node, 0, len(n.kids)+1)
	inserted := false
	for i, k := range n.kids {
		if !inserted && (off <= k.sum.bytes || i == len(n.kids)-1) {
			kids = append(kids, insertRec(k, off, text)...)
			inserted = true
			continue
		}
		if !inserted {
			off -= k.sum.bytes
		}
		kids = append(kids, k)
	}

	if len(kids) <= maxChildren {
		return []*node{newInternal(kids)}
	}
	groups := (len(kids) + maxChildren - 1) / maxChildren
	per := (len(kids) + groups - 1) / groups
	out := make([]*node, 0, groups)
	for i := 0; i < len(kids); i += per {
		end := min(i+per, len(kids))
		sub := make([]*node, end-i)
		copy(sub, kids[i:end])
		out = append(out, newInternal(sub))
	}
	return out
}

// deleteRec removes the byte range [start, end) from n. It returns nil when
// the node becomes empty. Returned subtrees may vary in depth; every query
// walks by summary so mixed depths are harmless.
func deleteRec(n *node, start, end int) *node {
	if start <= 0 && end >= n.sum.bytes {
		return nil
	}
	if n.isLeaf() {
		s := max(start, 0)
		e := min(end, len(n.text))
		return newLeaf(n.text[:s] + n.text[e:])
	}

	kids := make([]*node, 0, len(n.kids))
	off := 0
	for _, k := range n.kids {
		ks, ke := start-off, end-off
		off += k.sum.bytes
		if ke <= 0 || ks >= k.sum.bytes {
			kids = append(kids, k)
			continue
		}
		if repl := deleteRec(k, ks, ke); repl != nil {
			kids = append(kids, repl)
		}
	}
	switch len(kids) {
	case 0:
		return nil
	case 1:
		return kids[0]
	default:
		return newInternal(kids)
	}
}

// appendTo writes the node's text to the builder-like sink.
func (n *node) appendTo(sink func(string)) {
	if n.isLeaf() {
		sink(n.text)
		return
	}
	for _, k := range n.kids {
		k.appendTo(sink)
	}
}

// sliceTo writes the byte range [start, end) of n to sink.
func (n *node) sliceTo(start, end int, sink func(string)) {
	if end <= 0 || start >= n.sum.bytes {
		return
	}
	if n.isLeaf() {
		s := max(start, 0)
		e := min(end, len(n.text))
		if s < e {
			sink(n.text[s:e])
		}
		return
	}
	off := 0
	for _, k := range n.kids {
		k.sliceTo(start-off, end-off, sink)
		off += k.sum.bytes
	}
}

// sumTo returns the summary of the prefix [0, off) of n.
func (n *node) sumTo(off int) summary {
	if off <= 0 {
		return summary{}
	}
	if off >= n.sum.bytes {
		return n.sum
	}
	if n.isLeaf() {
		return scan(n.text[:off])
	}
	var sum summary
	for _, k := range n.kids {
		if off >= k.sum.bytes {
			sum = sum.add(k.sum)
			off -= k.sum.bytes
			continue
		}
		return sum.add(k.sumTo(off))
	}
	return sum
}

// charToByteRec converts a char index within n to a byte offset.
func charToByteRec(n *node, ci int) int {
	if ci <= 0 {
		return 0
	}
	if ci >= n.sum.chars {
		return n.sum.bytes
	}
	if n.isLeaf() {
		off := 0
		for range ci {
			_, size := utf8.DecodeRuneInString(n.text[off:])
			off += size
		}
		return off
	}
	off := 0
	for _, k := range n.kids {
		if ci >= k.sum.chars {
			ci -= k.sum.chars
			off += k.sum.bytes
			continue
		}
		return off + charToByteRec(k, ci)
	}
	return off
}

// breakPos returns the byte offset just past the k-th line break (1-based).
func breakPos(n *node, k int) int {
	if n.isLeaf() {
		seen := 0
		for i := 0; i < len(n.text); i++ {
			if isBreak(n.text[i]) {
				seen++
				if seen == k {
					return i + 1
				}
			}
		}
		return len(n.text)
	}
	off := 0
	for _, kid := range n.kids {
		if k > kid.sum.breaks {
			k -= kid.sum.breaks
			off += kid.sum.bytes
			continue
		}
		return off + breakPos(kid, k)
	}
	return off
}

// snapDown moves off down to the nearest rune boundary within n.
func snapDown(n *node, off int) int {
	if off <= 0 {
		return 0
	}
	if off >= n.sum.bytes {
		return n.sum.bytes
	}
	if n.isLeaf() {
		for off > 0 && !utf8.RuneStart(n.text[off]) {
			off--
		}
		return off
	}
	base := 0
	for _, k := range n.kids {
		if off >= k.sum.bytes {
			off -= k.sum.bytes
			base += k.sum.bytes
			continue
		}
		return base + snapDown(k, off)
	}
	return base
}
