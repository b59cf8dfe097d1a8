package command

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/dshills/keel/internal/engine/buffer"
	"github.com/dshills/keel/internal/register"
	"github.com/dshills/keel/internal/state"
)

// CopyRegisterCommand copies the primary selection into a register.
type CopyRegisterCommand struct {
	Register rune
}

// Apply implements Command.
func (c CopyRegisterCommand) Apply(_ context.Context, reg *state.Registry) bool {
	var text string
	withCurBuffer(reg, func(b *buffer.TextBuffer) bool {
		text = b.SliceSelection()
		return true
	})

	regs, release := state.Lock[register.Registers](reg)
	defer release()
	regs.Set(c.Register, text)
	return true
}

// PasteRegisterCommand appends a register's text at the primary cursor.
type PasteRegisterCommand struct {
	Register rune
	Extend   bool
}

// Apply implements Command.
func (c PasteRegisterCommand) Apply(ctx context.Context, reg *state.Registry) bool {
	regs, release := state.Lock[register.Registers](reg)
	text := regs.Get(c.Register)
	release()

	if text == "" {
		return false
	}
	return AppendCommand{Text: text, Extend: c.Extend}.Apply(ctx, reg)
}

func parseRegisterArg(tokens []string, idx int) (rune, error) {
	if len(tokens) <= idx {
		return register.Default, nil
	}
	if utf8.RuneCountInString(tokens[idx]) != 1 {
		return 0, fmt.Errorf("%w: register must be a single character", ErrBadArguments)
	}
	r, _ := utf8.DecodeRuneInString(tokens[idx])
	return r, nil
}

func parseCopyRegister(tokens []string) (Command, error) {
	r, err := parseRegisterArg(tokens, 1)
	if err != nil {
		return nil, err
	}
	return CopyRegisterCommand{Register: r}, nil
}

func parsePasteRegister(tokens []string) (Command, error) {
	r, err := parseRegisterArg(tokens, 1)
	if err != nil {
		return nil, err
	}
	extend := false
	if len(tokens) > 2 {
		extend = tokens[2] == "true"
	}
	return PasteRegisterCommand{Register: r, Extend: extend}, nil
}
