package key

import "github.com/gdamore/tcell/v2"

var tcellSpecial = map[tcell.Key]Key{
	tcell.KeyEscape:    KeyEscape,
	tcell.KeyEnter:     KeyEnter,
	tcell.KeyTab:       KeyTab,
	tcell.KeyBackspace: KeyBackspace,
	tcell.KeyDEL:       KeyBackspace,
	tcell.KeyDelete:    KeyDelete,
	tcell.KeyInsert:    KeyInsert,
	tcell.KeyHome:      KeyHome,
	tcell.KeyEnd:       KeyEnd,
	tcell.KeyPgUp:      KeyPageUp,
	tcell.KeyPgDn:      KeyPageDown,
	tcell.KeyUp:        KeyUp,
	tcell.KeyDown:      KeyDown,
	tcell.KeyLeft:      KeyLeft,
	tcell.KeyRight:     KeyRight,
	tcell.KeyF1:        KeyF1,
	tcell.KeyF2:        KeyF2,
	tcell.KeyF3:        KeyF3,
	tcell.KeyF4:        KeyF4,
	tcell.KeyF5:        KeyF5,
	tcell.KeyF6:        KeyF6,
	tcell.KeyF7:        KeyF7,
	tcell.KeyF8:        KeyF8,
	tcell.KeyF9:        KeyF9,
	tcell.KeyF10:       KeyF10,
	tcell.KeyF11:       KeyF11,
	tcell.KeyF12:       KeyF12,
}

// FromTcell converts a tcell key event into a Stroke.
func FromTcell(ev *tcell.EventKey) Stroke {
	var mods Modifier
	if ev.Modifiers()&tcell.ModShift != 0 {
		mods = mods.With(ModShift)
	}
	if ev.Modifiers()&tcell.ModCtrl != 0 {
		mods = mods.With(ModCtrl)
	}
	if ev.Modifiers()&tcell.ModAlt != 0 {
		mods = mods.With(ModAlt)
	}
	if ev.Modifiers()&tcell.ModMeta != 0 {
		mods = mods.With(ModMeta)
	}

	if k, ok := tcellSpecial[ev.Key()]; ok {
		return SpecialStroke(k, mods)
	}

	if ev.Key() == tcell.KeyRune {
		if ev.Rune() == ' ' {
			return SpecialStroke(KeySpace, mods)
		}
		return RuneStroke(ev.Rune(), mods)
	}

	// Control characters arrive as dedicated tcell keys (ctrl-a ..
	// ctrl-z); normalize them back to rune strokes with ModCtrl.
	if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
		r := rune('a' + (ev.Key() - tcell.KeyCtrlA))
		return RuneStroke(r, mods.With(ModCtrl))
	}

	return Stroke{Key: KeyNone, Mods: mods}
}
