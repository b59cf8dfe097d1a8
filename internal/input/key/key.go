// Package key defines keyboard input values and the key-string syntax
// used by keybinding configuration.
package key

// Key identifies a keyboard key. Printable characters use KeyRune with the
// rune carried alongside.
type Key int

// Special keys.
const (
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

var keyNames = map[string]Key{
	"esc":       KeyEscape,
	"escape":    KeyEscape,
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"cr":        KeyEnter,
	"tab":       KeyTab,
	"backspace": KeyBackspace,
	"bs":        KeyBackspace,
	"delete":    KeyDelete,
	"del":       KeyDelete,
	"insert":    KeyInsert,
	"home":      KeyHome,
	"end":       KeyEnd,
	"pageup":    KeyPageUp,
	"pagedown":  KeyPageDown,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
	"space":     KeySpace,
	"f1":        KeyF1,
	"f2":        KeyF2,
	"f3":        KeyF3,
	"f4":        KeyF4,
	"f5":        KeyF5,
	"f6":        KeyF6,
	"f7":        KeyF7,
	"f8":        KeyF8,
	"f9":        KeyF9,
	"f10":       KeyF10,
	"f11":       KeyF11,
	"f12":       KeyF12,
}

var namesByKey = func() map[Key]string {
	m := make(map[Key]string)
	// Later aliases must not overwrite the canonical spelling, so walk a
	// fixed list instead of the alias map.
	for _, e := range []struct {
		k Key
		n string
	}{
		{KeyEscape, "esc"}, {KeyEnter, "enter"}, {KeyTab, "tab"},
		{KeyBackspace, "backspace"}, {KeyDelete, "delete"},
		{KeyInsert, "insert"}, {KeyHome, "home"}, {KeyEnd, "end"},
		{KeyPageUp, "pageup"}, {KeyPageDown, "pagedown"},
		{KeyUp, "up"}, {KeyDown, "down"}, {KeyLeft, "left"},
		{KeyRight, "right"}, {KeySpace, "space"},
		{KeyF1, "f1"}, {KeyF2, "f2"}, {KeyF3, "f3"}, {KeyF4, "f4"},
		{KeyF5, "f5"}, {KeyF6, "f6"}, {KeyF7, "f7"}, {KeyF8, "f8"},
		{KeyF9, "f9"}, {KeyF10, "f10"}, {KeyF11, "f11"}, {KeyF12, "f12"},
	} {
		m[e.k] = e.n
	}
	return m
}()

// FromName returns the special key for a lowercase name, or KeyNone.
func FromName(name string) Key {
	return keyNames[name]
}

// Name returns the canonical name of a special key.
func (k Key) Name() string {
	return namesByKey[k]
}

// IsSpecial reports whether k is a non-character key.
func (k Key) IsSpecial() bool {
	return k != KeyNone && k != KeyRune
}
