package app

import (
	"unicode"

	"github.com/dshills/keel/internal/command"
	"github.com/dshills/keel/internal/input"
	"github.com/dshills/keel/internal/input/key"
	"github.com/dshills/keel/internal/input/keytree"
	"github.com/dshills/keel/internal/mode"
	"github.com/dshills/keel/internal/state"
)

// handleStroke feeds one keypress through the active mode's key tree and
// enqueues whatever it produces. Unmatched printable keys fall through
// to the mode's text target: the buffer in insert mode, the palette in
// command-line mode.
func (e *Editor) handleStroke(s key.Stroke) {
	ms, releaseMS := state.RLock[mode.Stack](e.reg)
	cur := ms.Current()
	releaseMS()

	km, releaseKM := state.Lock[Keymaps](e.reg)
	res := km.Step(cur, s)
	pending := seqDisplay(km.TreeFor(cur).PendingSequence())
	releaseKM()

	in, releaseIn := state.Lock[input.State](e.reg)
	in.Pending = pending
	releaseIn()

	switch res.Kind {
	case keytree.Success:
		cmd, err := command.ParseFromState(e.reg, command.SplitTokens(res.Action))
		if err != nil {
			e.log.Warn("action %q: %v", res.Action, err)
			return
		}
		e.enqueue(cmd)
	case keytree.Reset:
		e.handleUnmapped(cur, s)
	case keytree.Step:
		// Waiting for the rest of the sequence.
	}
}

// handleUnmapped routes keys no binding claimed.
func (e *Editor) handleUnmapped(cur rune, s key.Stroke) {
	r, ok := printableRune(s)
	if !ok {
		return
	}
	switch cur {
	case 'i':
		e.enqueue(command.InsertCharCommand{Char: r})
	case 'c':
		e.enqueue(command.PushPaletteCommand{Text: string(r)})
	}
}

func (e *Editor) enqueue(cmd command.Command) {
	q, release := state.Lock[command.Queue](e.reg)
	defer release()
	q.Push(cmd)
}

// printableRune extracts the text a stroke would type, if any.
func printableRune(s key.Stroke) (rune, bool) {
	if s.Mods&(key.ModCtrl|key.ModAlt|key.ModMeta) != 0 {
		return 0, false
	}
	if s.Key == key.KeySpace {
		return ' ', true
	}
	if s.Key != key.KeyRune || !unicode.IsPrint(s.Rune) {
		return 0, false
	}
	return s.Rune, true
}

func seqDisplay(seq []key.Stroke) string {
	out := ""
	for i, s := range seq {
		if i > 0 {
			out += " "
		}
		out += s.String()
	}
	return out
}
