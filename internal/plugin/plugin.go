// Package plugin hosts editor extensions. Plugin init is a sequentially
// awaited list of Init calls run before the post-init hook fires; a
// failing plugin is logged and skipped, never fatal. The built-in host
// runs Lua plugins, which register commands, keybindings and resolver
// templates through a small API table.
package plugin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/dshills/keel/internal/state"
)

// Plugin is one editor extension.
type Plugin interface {
	Name() string
	Init(ctx context.Context, reg *state.Registry) error
}

// Manifest describes a plugin directory.
type Manifest struct {
	Name    string
	Version string
	Entry   string
}

// LoadManifest reads a plugin's manifest.json.
func LoadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("plugin: invalid manifest in %s", dir)
	}
	m := &Manifest{
		Name:    gjson.GetBytes(data, "name").String(),
		Version: gjson.GetBytes(data, "version").String(),
		Entry:   gjson.GetBytes(data, "entry").String(),
	}
	if m.Name == "" {
		return nil, fmt.Errorf("plugin: manifest in %s has no name", dir)
	}
	if m.Entry == "" {
		m.Entry = "init.lua"
	}
	return m, nil
}

// Discover finds plugin directories (those holding a manifest.json)
// under the config folder's plugins directory and builds Lua plugins for
// them.
func Discover(configDir string) ([]Plugin, error) {
	root := filepath.Join(configDir, "plugins")
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var plugins []Plugin
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		m, err := LoadManifest(dir)
		if err != nil {
			continue
		}
		p, err := NewLuaPlugin(m.Name, filepath.Join(dir, m.Entry))
		if err != nil {
			continue
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}
