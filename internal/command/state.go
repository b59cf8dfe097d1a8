package command

import (
	"context"

	"github.com/dshills/keel/internal/state"
)

// Running is the registry flag the frame loop checks each frame. Setting
// Value to false exits the loop at the next frame boundary.
type Running struct {
	Value bool
}

// QuitCommand requests a clean shutdown. Never repeatable.
type QuitCommand struct{}

// Apply implements Command.
func (QuitCommand) Apply(_ context.Context, reg *state.Registry) bool {
	r, release := state.Lock[Running](reg)
	defer release()
	r.Value = false
	return false
}
