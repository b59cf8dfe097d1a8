package cursor

// Set is a non-empty ordered collection of cursors with a primary index.
// Operations that drop cursors re-anchor the primary by clamping, never by
// wrapping.
type Set struct {
	cursors []Cursor
	primary int
}

// NewSet returns a set holding a single default cursor.
func NewSet() *Set {
	return &Set{cursors: []Cursor{New()}}
}

// Len returns the number of cursors. Always at least one.
func (s *Set) Len() int {
	return len(s.cursors)
}

// PrimaryIndex returns the current primary index.
func (s *Set) PrimaryIndex() int {
	return s.primary
}

// SetPrimaryIndex sets the primary index, clamping it into range.
func (s *Set) SetPrimaryIndex(i int) {
	if i < 0 {
		i = 0
	}
	if i >= len(s.cursors) {
		i = len(s.cursors) - 1
	}
	s.primary = i
}

// Primary returns a pointer to the primary cursor.
func (s *Set) Primary() *Cursor {
	return &s.cursors[s.primary]
}

// At returns a pointer to the cursor at index i.
func (s *Set) At(i int) *Cursor {
	return &s.cursors[i]
}

// All returns the cursors as a copied slice.
func (s *Set) All() []Cursor {
	out := make([]Cursor, len(s.cursors))
	copy(out, s.cursors)
	return out
}

// Create duplicates the primary cursor, appends it, and makes the new
// cursor primary.
func (s *Set) Create() {
	s.cursors = append(s.cursors, s.cursors[s.primary])
	s.primary = len(s.cursors) - 1
}

// DropPrimary removes the primary cursor when more than one cursor exists.
// The primary index re-anchors to min(old, len-1).
func (s *Set) DropPrimary() bool {
	if len(s.cursors) <= 1 {
		return false
	}
	s.cursors = append(s.cursors[:s.primary], s.cursors[s.primary+1:]...)
	if s.primary >= len(s.cursors) {
		s.primary = len(s.cursors) - 1
	}
	return true
}

// DropOthers reduces the set to just the primary cursor.
func (s *Set) DropOthers() {
	s.cursors = []Cursor{s.cursors[s.primary]}
	s.primary = 0
}

// Rotate advances the primary index by a signed offset, modulo the cursor
// count.
func (s *Set) Rotate(offset int) {
	n := len(s.cursors)
	s.primary = ((s.primary+offset)%n + n) % n
}

// ForEach calls f with each cursor pointer in order.
func (s *Set) ForEach(f func(i int, c *Cursor)) {
	for i := range s.cursors {
		f(i, &s.cursors[i])
	}
}

// AdjustInsert shifts every cursor for an insertion.
func (s *Set) AdjustInsert(at, n int) {
	for i := range s.cursors {
		s.cursors[i].AdjustInsert(at, n)
	}
}

// AdjustDelete shifts every cursor for a deletion.
func (s *Set) AdjustDelete(start, end int) {
	for i := range s.cursors {
		s.cursors[i].AdjustDelete(start, end)
	}
}

// Clamp bounds every cursor to [0, maxOff].
func (s *Set) Clamp(maxOff int) {
	for i := range s.cursors {
		s.cursors[i].Clamp(maxOff)
	}
}

// Clone returns a deep copy of the set, primary index included.
func (s *Set) Clone() *Set {
	out := &Set{cursors: make([]Cursor, len(s.cursors)), primary: s.primary}
	copy(out.cursors, s.cursors)
	return out
}

// Restore replaces the set's contents with those of a snapshot.
func (s *Set) Restore(snap *Set) {
	s.cursors = make([]Cursor, len(snap.cursors))
	copy(s.cursors, snap.cursors)
	s.primary = snap.primary
}

// Equals reports whether two sets hold identical cursors and primary.
func (s *Set) Equals(other *Set) bool {
	if other == nil || len(s.cursors) != len(other.cursors) || s.primary != other.primary {
		return false
	}
	for i, c := range s.cursors {
		o := other.cursors[i]
		if c.Lo != o.Lo || c.Hi != o.Hi || c.AtStart != o.AtStart {
			return false
		}
	}
	return true
}
