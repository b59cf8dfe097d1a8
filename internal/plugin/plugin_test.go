package plugin

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/keel/internal/command"
	"github.com/dshills/keel/internal/logging"
	"github.com/dshills/keel/internal/state"
)

func pluginWorld(t *testing.T) *state.Registry {
	t.Helper()
	reg := state.NewRegistry()
	cr := command.NewRegistry()
	if err := command.RegisterBuiltins(cr); err != nil {
		t.Fatal(err)
	}
	state.Set(reg, cr)
	state.Set(reg, logging.Discard())
	return reg
}

func TestLuaRegisterCommand(t *testing.T) {
	reg := pluginWorld(t)
	p := NewLuaPluginSource("test", `
keel.register_command("hello", "test command", function(...)
  return true
end)
keel.bind("n", {"space", "h"}, "hello", "say hello")
keel.template("pair", {"x", "y"})
`)
	if err := p.Init(context.Background(), reg); err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	cr, release := state.RLock[command.Registry](reg)
	cmd, err := cr.Parse([]string{"hello"}, nil, nil)
	release()
	if err != nil {
		t.Fatalf("parse plugin command: %v", err)
	}
	if !cmd.Apply(context.Background(), reg) {
		t.Error("plugin command should report repeatable true")
	}

	binds := p.Binds()
	if len(binds) != 1 || binds[0].Action != "hello" || binds[0].Mode != "n" {
		t.Errorf("binds = %+v", binds)
	}
	if vals := p.Templates()["pair"]; len(vals) != 2 || vals[0] != "x" {
		t.Errorf("templates = %v", p.Templates())
	}
}

func TestLuaBadScript(t *testing.T) {
	reg := pluginWorld(t)
	p := NewLuaPluginSource("broken", "this is not lua")
	if err := p.Init(context.Background(), reg); err == nil {
		t.Error("expected an init error")
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest := func(content string) {
		if err := os.WriteFile(filepath.Join(dir, "manifest.json"), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	writeManifest(`{"name": "tutor", "version": "0.1.0", "entry": "tutor.lua"}`)
	m, err := LoadManifest(dir)
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "tutor" || m.Entry != "tutor.lua" {
		t.Errorf("manifest = %+v", m)
	}

	writeManifest(`{"name": "minimal"}`)
	m, err = LoadManifest(dir)
	if err != nil {
		t.Fatal(err)
	}
	if m.Entry != "init.lua" {
		t.Errorf("default entry = %q", m.Entry)
	}

	writeManifest(`{"version": "1"}`)
	if _, err := LoadManifest(dir); err == nil {
		t.Error("manifest without a name should fail")
	}
}
