package command

import (
	"context"
	"fmt"

	"github.com/dshills/keel/internal/state"
)

// PaletteState is the registry-held command-line buffer.
type PaletteState struct {
	Input string
}

// NewPaletteState returns an empty palette.
func NewPaletteState() *PaletteState {
	return &PaletteState{}
}

// PushPaletteCommand appends text to the palette input.
type PushPaletteCommand struct {
	Text string
}

// RepeatNeutral implements the marker; palette editing never repeats.
func (PushPaletteCommand) RepeatNeutral() {}

// Apply implements Command.
func (c PushPaletteCommand) Apply(_ context.Context, reg *state.Registry) bool {
	p, release := state.Lock[PaletteState](reg)
	defer release()
	p.Input += c.Text
	return true
}

// ClearPaletteCommand empties the palette input.
type ClearPaletteCommand struct{}

// RepeatNeutral implements the marker.
func (ClearPaletteCommand) RepeatNeutral() {}

// Apply implements Command.
func (ClearPaletteCommand) Apply(_ context.Context, reg *state.Registry) bool {
	p, release := state.Lock[PaletteState](reg)
	defer release()
	p.Input = ""
	return true
}

// PopPaletteCommand removes the last character of the palette input.
type PopPaletteCommand struct{}

// RepeatNeutral implements the marker.
func (PopPaletteCommand) RepeatNeutral() {}

// Apply implements Command.
func (PopPaletteCommand) Apply(_ context.Context, reg *state.Registry) bool {
	p, release := state.Lock[PaletteState](reg)
	defer release()
	if p.Input == "" {
		return false
	}
	runes := []rune(p.Input)
	p.Input = string(runes[:len(runes)-1])
	return true
}

// ExecutePaletteCommand parses the palette input and enqueues the result.
type ExecutePaletteCommand struct{}

// Apply implements Command.
func (ExecutePaletteCommand) Apply(_ context.Context, reg *state.Registry) bool {
	p, release := state.Lock[PaletteState](reg)
	line := p.Input
	p.Input = ""
	release()

	if line == "" {
		return false
	}
	cmd, err := ParseFromState(reg, SplitTokens(line))
	if err != nil {
		logFrom(reg).Warn("palette: %v", err)
		return false
	}
	q, releaseQ := state.Lock[Queue](reg)
	defer releaseQ()
	q.Push(cmd)
	return false
}

func parsePushPalette(tokens []string) (Command, error) {
	if len(tokens) < 2 {
		return nil, fmt.Errorf("%w: expected text", ErrBadArguments)
	}
	return PushPaletteCommand{Text: restOrEmpty(tokens)}, nil
}
