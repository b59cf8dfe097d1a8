package app

import "github.com/dshills/keel/internal/config"

// defaultKeybinds is the built-in binding set applied before user
// configuration. User bindings that conflict are reported and skipped,
// never silently merged.
func defaultKeybinds() []config.Keybind {
	return []config.Keybind{
		// Normal mode.
		{Mode: "n", Sequence: []string{"i"}, Action: "mode i", Desc: "insert mode"},
		{Mode: "n", Sequence: []string{"v"}, Action: "push_mode v", Desc: "visual mode"},
		{Mode: "n", Sequence: []string{"h"}, Action: "move left", Desc: "left"},
		{Mode: "n", Sequence: []string{"j"}, Action: "move down", Desc: "down"},
		{Mode: "n", Sequence: []string{"k"}, Action: "move up", Desc: "up"},
		{Mode: "n", Sequence: []string{"l"}, Action: "move right", Desc: "right"},
		{Mode: "n", Sequence: []string{"x"}, Action: "commit delete_chars 1", Desc: "delete char"},
		{Mode: "n", Sequence: []string{"u"}, Action: "undo", Desc: "undo"},
		{Mode: "n", Sequence: []string{"ctrl-r"}, Action: "redo", Desc: "redo"},
		{Mode: "n", Sequence: []string{"J"}, Action: "commit join_line 1", Desc: "join line"},
		{Mode: "n", Sequence: []string{"g", "g"}, Action: "move_cursor -1000000 -1000000", Desc: "go to top"},
		{Mode: "n", Sequence: []string{"G"}, Action: "move_cursor 1000000 -1000000", Desc: "go to bottom"},
		{Mode: "n", Sequence: []string{"{digits}"}, Action: "push_repeat_number {digits}", Desc: "repeat count"},
		{Mode: "n", Sequence: []string{"y"}, Action: "copy", Desc: "yank selection"},
		{Mode: "n", Sequence: []string{"p"}, Action: "paste", Desc: "paste"},
		{Mode: "n", Sequence: []string{"space", "c"}, Action: "create_cursor", Desc: "add cursor"},
		{Mode: "n", Sequence: []string{"space", "d"}, Action: "drop_cursor", Desc: "drop cursor"},
		{Mode: "n", Sequence: []string{"space", "o"}, Action: "drop_other_cursors", Desc: "only cursor"},
		{Mode: "n", Sequence: []string{"space", "n"}, Action: "change_cursor 1", Desc: "next cursor"},
		{Mode: "n", Sequence: []string{"space", "w"}, Action: "save", Desc: "save"},
		{Mode: "n", Sequence: []string{"space", "q"}, Action: "quit", Desc: "quit"},

		// Insert mode.
		{Mode: "i", Sequence: []string{"enter"}, Action: "insert_newline", Desc: "newline"},
		{Mode: "i", Sequence: []string{"backspace"}, Action: "delete_chars 1 -1", Desc: "delete back"},

		// Command-line mode.
		{Mode: "n", Sequence: []string{";"}, Action: "mode c", Desc: "command line"},
		{Mode: "c", Sequence: []string{"enter"}, Action: "execute_palette", Desc: "run"},
		{Mode: "c", Sequence: []string{"backspace"}, Action: "pop_palette", Desc: "erase"},

		// Global.
		{Sequence: []string{"esc"}, Action: "mode n", Desc: "normal mode"},
	}
}

// defaultGroups documents sequence prefixes for the which-key display.
func defaultGroups() []config.Group {
	return []config.Group{
		{Mode: "n", Sequence: []string{"space"}, Desc: "cursors and files"},
		{Mode: "n", Sequence: []string{"g"}, Desc: "goto"},
	}
}
