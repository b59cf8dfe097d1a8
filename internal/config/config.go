// Package config loads the editor's configuration files from the config
// folder: keybindings.toml and editor.toml. Deeper configuration
// surfaces are collaborator concerns; the core consumes only these two.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// KeybindingsFile is the keybinding file name inside the config folder.
const KeybindingsFile = "keybindings.toml"

// EditorFile is the editor settings file name inside the config folder.
const EditorFile = "editor.toml"

// Keybind is one binding record: a key sequence, the command line it
// dispatches, and optional documentation. Mode restricts the binding to
// a mode tag; empty means global.
type Keybind struct {
	Mode     string   `toml:"mode"`
	Sequence []string `toml:"sequence"`
	Action   string   `toml:"action"`
	Desc     string   `toml:"desc"`
}

// Group is a documentation-only record annotating a sequence prefix for
// which-key display.
type Group struct {
	Mode     string   `toml:"mode"`
	Sequence []string `toml:"sequence"`
	Desc     string   `toml:"desc"`
}

// Keybindings is the parsed keybinding file.
type Keybindings struct {
	Groups   []Group   `toml:"group"`
	Keybinds []Keybind `toml:"keybind"`
}

// Editor is the parsed editor settings file.
type Editor struct {
	LogLevel string `toml:"log_level"`
	FrameMS  int    `toml:"frame_ms"`
}

// DefaultEditor returns the settings used when no file exists.
func DefaultEditor() *Editor {
	return &Editor{LogLevel: "info", FrameMS: 16}
}

// LoadKeybindings reads the keybinding file under dir. A missing file is
// not an error; it yields an empty set so the built-in defaults apply
// alone.
func LoadKeybindings(dir string) (*Keybindings, error) {
	data, err := os.ReadFile(filepath.Join(dir, KeybindingsFile))
	if os.IsNotExist(err) {
		return &Keybindings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", KeybindingsFile, err)
	}
	var kb Keybindings
	if err := toml.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", KeybindingsFile, err)
	}
	return &kb, nil
}

// LoadEditor reads the editor settings under dir, falling back to
// defaults for a missing file or missing fields.
func LoadEditor(dir string) (*Editor, error) {
	cfg := DefaultEditor()
	data, err := os.ReadFile(filepath.Join(dir, EditorFile))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", EditorFile, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", EditorFile, err)
	}
	if cfg.FrameMS <= 0 {
		cfg.FrameMS = 16
	}
	return cfg, nil
}

// Folder is the registry-held config folder path.
type Folder struct {
	Path string
}
