package key

// Stroke is one keypress: a keycode plus its modifier mask. Strokes are
// comparable, so they serve directly as trie edge labels.
type Stroke struct {
	Key  Key
	Rune rune
	Mods Modifier
}

// RuneStroke returns a stroke for a printable character. Shift is dropped
// from the mask and the character is kept as given, so a typed capital J
// matches "J" whatever modifier bits accompany it, while shift-j yields a
// plain lowercase j.
func RuneStroke(r rune, mods Modifier) Stroke {
	return Stroke{Key: KeyRune, Rune: r, Mods: mods &^ ModShift}
}

// SpecialStroke returns a stroke for a non-character key.
func SpecialStroke(k Key, mods Modifier) Stroke {
	return Stroke{Key: k, Mods: mods}
}

// String renders the stroke in key-string syntax: modifier prefixes joined
// with dashes, then the key name or literal character.
func (s Stroke) String() string {
	var name string
	switch {
	case s.Key == KeyRune:
		name = string(s.Rune)
	default:
		name = s.Key.Name()
	}

	mods := s.Mods
	if s.Key == KeyRune {
		// Shift is part of the character itself.
		mods &^= ModShift
	}
	if mods == ModNone {
		return name
	}
	return mods.String() + "-" + name
}
