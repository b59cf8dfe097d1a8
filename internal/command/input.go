package command

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/dshills/keel/internal/input"
	"github.com/dshills/keel/internal/state"
)

// PushRepeatCommand appends a digit to the repeat buffer. It is
// repeat-neutral: applying it must not consume the count it is building.
type PushRepeatCommand struct {
	Digit rune
}

// RepeatNeutral implements the marker.
func (PushRepeatCommand) RepeatNeutral() {}

// Apply implements Command.
func (c PushRepeatCommand) Apply(_ context.Context, reg *state.Registry) bool {
	in, release := state.Lock[input.State](reg)
	defer release()
	return in.PushRepeatDigit(c.Digit)
}

func parsePushRepeat(tokens []string) (Command, error) {
	if len(tokens) != 2 || utf8.RuneCountInString(tokens[1]) != 1 {
		return nil, fmt.Errorf("%w: expected a single digit", ErrBadArguments)
	}
	r, _ := utf8.DecodeRuneInString(tokens[1])
	return PushRepeatCommand{Digit: r}, nil
}

// PopRepeatCommand removes digits from the end of the repeat buffer.
type PopRepeatCommand struct {
	Count int
}

// RepeatNeutral implements the marker.
func (PopRepeatCommand) RepeatNeutral() {}

// Apply implements Command.
func (c PopRepeatCommand) Apply(_ context.Context, reg *state.Registry) bool {
	in, release := state.Lock[input.State](reg)
	defer release()
	return in.PopRepeatDigits(c.Count)
}

func parsePopRepeat(tokens []string) (Command, error) {
	n, err := parseIntArg(tokens, 1)
	if err != nil {
		return nil, err
	}
	return PopRepeatCommand{Count: n}, nil
}
