package command

import "fmt"

// RegisterBuiltins installs the core command set. Plugin commands join
// the same registry through the plugin host.
func RegisterBuiltins(r *Registry) error {
	regs := []struct {
		parse ParseFunc
		desc  string
		names []string
	}{
		{parseMoveCursor, "move every cursor by a row/column delta", []string{"move_cursor"}},
		{parseMove, "move every cursor one step", []string{"move"}},
		{parseInsertChar, "insert a character at the primary cursor", []string{"insert_char", "ic"}},
		{func(t []string) (Command, error) {
			if len(t) < 2 {
				return nil, fmt.Errorf("%w: expected text", ErrBadArguments)
			}
			return AppendCommand{Text: restOrEmpty(t)}, nil
		}, "insert a text blob at the primary cursor", []string{"append"}},
		{parseDeleteChars, "delete characters at the primary cursor", []string{"delete_chars", "del"}},
		{func(t []string) (Command, error) {
			n, err := parseIntArg(t, 0)
			if err != nil {
				return nil, err
			}
			return InsertNewlineCommand{Offset: n}, nil
		}, "insert a line break", []string{"insert_newline", "nl"}},
		{func(t []string) (Command, error) {
			n, err := parseIntArg(t, 0)
			if err != nil {
				return nil, err
			}
			return JoinLineCommand{Offset: n}, nil
		}, "join the line onto the one above", []string{"join_line", "jl"}},
		{noArgs(StartChangeCommand{}), "open an undo group", []string{"start_change"}},
		{noArgs(CommitChangeCommand{}), "commit the open undo group", []string{"commit_change"}},
		{parseCommit, "run a command inside an undo group", []string{"commit"}},
		{noArgs(UndoCommand{}), "undo the last change group", []string{"undo", "u"}},
		{noArgs(RedoCommand{}), "redo the next change group", []string{"redo", "U"}},

		{func(t []string) (Command, error) {
			if len(t) != 2 {
				return nil, fmt.Errorf("%w: expected a path", ErrBadArguments)
			}
			return OpenCommand{Path: t[1]}, nil
		}, "open a file into a new buffer", []string{"open", "o"}},
		{func(t []string) (Command, error) {
			if len(t) > 2 {
				return nil, fmt.Errorf("%w: expected at most a path", ErrBadArguments)
			}
			path := ""
			if len(t) == 2 {
				path = t[1]
			}
			return SaveCommand{Path: path}, nil
		}, "write the current buffer", []string{"save", "w"}},
		{noArgs(CloseBufferCommand{}), "close the current buffer", []string{"close_buffer", "bd"}},
		{func(t []string) (Command, error) {
			n, err := parseIntArg(t, 1)
			if err != nil {
				return nil, err
			}
			return SelectBufferCommand{Offset: n}, nil
		}, "switch buffers by offset", []string{"select_buffer", "bn"}},

		{noArgs(CreateCursorCommand{}), "duplicate the primary cursor", []string{"create_cursor", "cc"}},
		{parseChangeCursor, "change the active cursor", []string{"change_cursor", "cac"}},
		{noArgs(DropCursorCommand{}), "drop the primary cursor", []string{"drop_cursor", "dc"}},
		{noArgs(DropOtherCursorsCommand{}), "drop all other cursors", []string{"drop_other_cursors", "dcs"}},
		{parseApplyAll, "apply a command once per cursor", []string{"apply_all_cursor", "aa"}},

		{parsePushRepeat, "push a digit onto the repeat count", []string{"push_repeat_number", "p_rep"}},
		{parsePopRepeat, "pop digits off the repeat count", []string{"pop_repeat_number", "r_rep"}},

		{func(t []string) (Command, error) {
			r, err := parseModeRune(t)
			if err != nil {
				return nil, err
			}
			return ChangeModeCommand{Mode: r}, nil
		}, "switch to a mode", []string{"mode"}},
		{func(t []string) (Command, error) {
			r, err := parseModeRune(t)
			if err != nil {
				return nil, err
			}
			return PushModeCommand{Mode: r}, nil
		}, "push a mode onto the stack", []string{"push_mode"}},
		{noArgs(PopModeCommand{}), "pop the top mode", []string{"pop_mode"}},

		{parseCopyRegister, "copy the selection into a register", []string{"copy"}},
		{parsePasteRegister, "paste a register at the cursor", []string{"paste"}},

		{parseShell, "run a shell command, blocking", []string{"shell", "sh"}},
		{parseSpawn, "spawn a shell command in the background", []string{"shell_spawn", "shsp"}},

		{noArgs(QuitCommand{}), "exit the editor", []string{"quit", "q"}},

		{parsePushPalette, "append text to the command line", []string{"push_palette"}},
		{noArgs(PopPaletteCommand{}), "delete the last command-line character", []string{"pop_palette"}},
		{noArgs(ClearPaletteCommand{}), "clear the command line", []string{"clear_palette"}},
		{noArgs(ExecutePaletteCommand{}), "run the command line", []string{"execute_palette"}},
	}

	for _, e := range regs {
		if err := r.Register(e.parse, e.desc, e.names...); err != nil {
			return err
		}
	}
	return nil
}

// noArgs wraps an argument-free command value as a parser.
func noArgs(cmd Command) ParseFunc {
	return func(tokens []string) (Command, error) {
		if len(tokens) != 1 {
			return nil, fmt.Errorf("%w: %s takes no arguments", ErrBadArguments, tokens[0])
		}
		return cmd, nil
	}
}
