package plugin

import (
	"context"
	"fmt"
	"os"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keel/internal/command"
	"github.com/dshills/keel/internal/config"
	"github.com/dshills/keel/internal/logging"
	"github.com/dshills/keel/internal/state"
)

// LuaPlugin runs one Lua script at init. The script talks to the editor
// through the global `keel` table:
//
//	keel.register_command(name, desc, fn)  -- fn(tokens...) -> bool
//	keel.bind(mode, sequence, action, desc)
//	keel.template(name, values)
//	keel.log(msg)
type LuaPlugin struct {
	name   string
	source string

	mu sync.Mutex
	vm *lua.LState

	// Binds collected during init; the host folds them into the keymaps
	// after all plugins load.
	binds     []config.Keybind
	templates map[string][]string
}

// NewLuaPlugin loads the script source for a named plugin.
func NewLuaPlugin(name, scriptPath string) (*LuaPlugin, error) {
	src, err := os.ReadFile(scriptPath)
	if err != nil {
		return nil, err
	}
	return &LuaPlugin{name: name, source: string(src), templates: make(map[string][]string)}, nil
}

// NewLuaPluginSource builds a plugin from inline source. Used by tests.
func NewLuaPluginSource(name, source string) *LuaPlugin {
	return &LuaPlugin{name: name, source: source, templates: make(map[string][]string)}
}

// Name implements Plugin.
func (p *LuaPlugin) Name() string { return p.name }

// Binds returns the keybindings the script registered.
func (p *LuaPlugin) Binds() []config.Keybind { return p.binds }

// Templates returns the resolver templates the script registered.
func (p *LuaPlugin) Templates() map[string][]string { return p.templates }

// Init implements Plugin: it runs the script with the API table
// installed, registering commands into the shared command registry.
func (p *LuaPlugin) Init(_ context.Context, reg *state.Registry) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	vm := lua.NewState()
	p.vm = vm

	log := logging.Discard()
	if l, ok := state.Peek[logging.Logger](reg); ok {
		log = l.WithComponent("plugin:" + p.name)
	}

	api := vm.NewTable()
	vm.SetGlobal("keel", api)

	vm.SetField(api, "log", vm.NewFunction(func(L *lua.LState) int {
		log.Info("%s", L.CheckString(1))
		return 0
	}))

	vm.SetField(api, "register_command", vm.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		desc := L.CheckString(2)
		fn := L.CheckFunction(3)

		cr, release := state.Lock[command.Registry](reg)
		err := cr.Register(p.commandParser(fn), desc, name)
		release()
		if err != nil {
			L.RaiseError("register_command %s: %v", name, err)
		}
		return 0
	}))

	vm.SetField(api, "bind", vm.NewFunction(func(L *lua.LState) int {
		mode := L.CheckString(1)
		seqTable := L.CheckTable(2)
		action := L.CheckString(3)
		desc := L.OptString(4, "")

		var seq []string
		seqTable.ForEach(func(_, v lua.LValue) {
			seq = append(seq, lua.LVAsString(v))
		})
		p.binds = append(p.binds, config.Keybind{
			Mode: mode, Sequence: seq, Action: action, Desc: desc,
		})
		return 0
	}))

	vm.SetField(api, "template", vm.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		values := L.CheckTable(2)
		var out []string
		values.ForEach(func(_, v lua.LValue) {
			out = append(out, lua.LVAsString(v))
		})
		p.templates[name] = out
		return 0
	}))

	if err := vm.DoString(p.source); err != nil {
		return fmt.Errorf("plugin %s: %w", p.name, err)
	}
	return nil
}

// commandParser wraps a Lua function as a command parser. The produced
// command passes its tokens to the function and interprets a truthy
// return as repeatable.
func (p *LuaPlugin) commandParser(fn *lua.LFunction) command.ParseFunc {
	return func(tokens []string) (command.Command, error) {
		return &luaCommand{plugin: p, fn: fn, tokens: tokens}, nil
	}
}

type luaCommand struct {
	plugin *LuaPlugin
	fn     *lua.LFunction
	tokens []string
}

// Apply implements command.Command. The Lua VM is single-threaded;
// commands serialize on the plugin's lock.
func (c *luaCommand) Apply(_ context.Context, reg *state.Registry) bool {
	c.plugin.mu.Lock()
	defer c.plugin.mu.Unlock()

	vm := c.plugin.vm
	if vm == nil {
		return false
	}
	args := make([]lua.LValue, len(c.tokens))
	for i, t := range c.tokens {
		args[i] = lua.LString(t)
	}
	if err := vm.CallByParam(lua.P{Fn: c.fn, NRet: 1, Protect: true}, args...); err != nil {
		if log, ok := state.Peek[logging.Logger](reg); ok {
			log.Error("plugin %s command: %v", c.plugin.name, err)
		}
		return false
	}
	ret := vm.Get(-1)
	vm.Pop(1)
	return lua.LVAsBool(ret)
}

// Close shuts down the plugin's VM.
func (p *LuaPlugin) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.vm != nil {
		p.vm.Close()
		p.vm = nil
	}
}
