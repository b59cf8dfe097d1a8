package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Parse errors.
var (
	ErrEmptySpec   = errors.New("key: empty key specification")
	ErrInvalidSpec = errors.New("key: invalid key specification")
)

// Parse converts a key-string into a Stroke.
//
// Syntax: zero or more dash-joined modifier prefixes followed by a key
// name or a literal printable character. Examples: "a", "A", "ctrl-a",
// "shift-f1", "alt-enter", "space".
func Parse(spec string) (Stroke, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Stroke{}, ErrEmptySpec
	}

	// A bare "-" binds the dash character itself.
	if spec == "-" {
		return RuneStroke('-', ModNone), nil
	}

	var mods Modifier
	rest := spec
	for {
		i := strings.IndexByte(rest, '-')
		if i <= 0 || i == len(rest)-1 {
			break
		}
		mod := ModifierFromName(strings.ToLower(rest[:i]))
		if mod == ModNone {
			break
		}
		mods = mods.With(mod)
		rest = rest[i+1:]
	}

	if k := FromName(strings.ToLower(rest)); k != KeyNone {
		return SpecialStroke(k, mods), nil
	}
	if utf8.RuneCountInString(rest) == 1 {
		r, _ := utf8.DecodeRuneInString(rest)
		return RuneStroke(r, mods), nil
	}
	return Stroke{}, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
}
