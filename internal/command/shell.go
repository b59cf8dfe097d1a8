package command

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/dshills/keel/internal/state"
)

// ShellCommand runs an external command, blocking until it finishes.
// Prefer SpawnCommand for anything long-running.
type ShellCommand struct {
	Argv []string
}

// Apply implements Command.
func (c ShellCommand) Apply(ctx context.Context, reg *state.Registry) bool {
	cmd := exec.CommandContext(ctx, c.Argv[0], c.Argv[1:]...)
	if err := cmd.Run(); err != nil {
		logFrom(reg).Error("shell %s: %v", c.Argv[0], err)
		return false
	}
	return true
}

// SpawnCommand starts an external command in the background.
type SpawnCommand struct {
	Argv []string
}

// Apply implements Command.
func (c SpawnCommand) Apply(_ context.Context, reg *state.Registry) bool {
	cmd := exec.Command(c.Argv[0], c.Argv[1:]...)
	if err := cmd.Start(); err != nil {
		logFrom(reg).Error("shell_spawn %s: %v", c.Argv[0], err)
		return false
	}
	go func() {
		// Reap the child so finished spawns don't accumulate.
		_ = cmd.Wait()
	}()
	return true
}

func parseShell(tokens []string) (Command, error) {
	if len(tokens) < 2 {
		return nil, fmt.Errorf("%w: expected a command", ErrBadArguments)
	}
	return ShellCommand{Argv: tokens[1:]}, nil
}

func parseSpawn(tokens []string) (Command, error) {
	if len(tokens) < 2 {
		return nil, fmt.Errorf("%w: expected a command", ErrBadArguments)
	}
	return SpawnCommand{Argv: tokens[1:]}, nil
}
