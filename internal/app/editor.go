// Package app wires the editor core together and runs the frame loop.
//
// Frame order: staged events promote, input feeds the key trees, the
// update hook runs, events dispatch, the command queue drains, the
// render hook runs, and the chunks composite onto the backend. The loop
// exits at the first frame boundary after Running flips false.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/keel/internal/command"
	"github.com/dshills/keel/internal/config"
	"github.com/dshills/keel/internal/engine/buffer"
	"github.com/dshills/keel/internal/event"
	"github.com/dshills/keel/internal/highlight"
	"github.com/dshills/keel/internal/input"
	"github.com/dshills/keel/internal/langserver"
	"github.com/dshills/keel/internal/logging"
	"github.com/dshills/keel/internal/mode"
	"github.com/dshills/keel/internal/plugin"
	"github.com/dshills/keel/internal/register"
	"github.com/dshills/keel/internal/render"
	"github.com/dshills/keel/internal/render/backend"
	"github.com/dshills/keel/internal/state"
	"github.com/dshills/keel/internal/theme"
)

// Session identifies one editor process.
type Session struct {
	ID uuid.UUID
}

// Options configures the editor.
type Options struct {
	// ConfigDir is the configuration folder. Empty uses ~/.keel.
	ConfigDir string

	// Backend overrides the terminal backend. Nil selects the real
	// terminal.
	Backend backend.Backend

	// Plugins are extensions loaded in addition to those discovered
	// under the config folder.
	Plugins []plugin.Plugin

	// Files are opened into buffers at startup.
	Files []string
}

// Editor is the assembled core.
type Editor struct {
	reg     *state.Registry
	sched   *state.Scheduler
	bus     *event.Bus
	backend backend.Backend
	log     *logging.Logger
	logFile *os.File
	watcher *config.Watcher
	plugins []plugin.Plugin

	frameTimeout time.Duration
}

// New assembles an editor. Plugin init runs here, sequentially, so that
// the post-init hook in Run sees every contribution.
func New(opts Options) (*Editor, error) {
	dir := opts.ConfigDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving config folder: %w", err)
		}
		dir = filepath.Join(home, ".keel")
	}

	cfg, err := config.LoadEditor(dir)
	if err != nil {
		return nil, err
	}

	e := &Editor{
		reg:          state.NewRegistry(),
		sched:        state.NewScheduler(),
		bus:          event.NewBus(),
		backend:      opts.Backend,
		frameTimeout: time.Duration(cfg.FrameMS) * time.Millisecond,
	}
	if e.backend == nil {
		term, err := backend.NewTerminal()
		if err != nil {
			return nil, fmt.Errorf("opening terminal: %w", err)
		}
		e.backend = term
	}

	e.log = e.openLog(dir, cfg)

	e.initState(dir)
	if err := e.registerSystems(); err != nil {
		return nil, err
	}
	if err := e.loadKeymaps(dir); err != nil {
		return nil, err
	}
	e.initPlugins(opts.Plugins, dir)
	e.openFiles(opts.Files)

	if w, err := config.Watch(dir, e.bus); err == nil {
		e.watcher = w
	} else {
		e.log.Warn("config watcher: %v", err)
	}

	return e, nil
}

func (e *Editor) openLog(dir string, cfg *config.Editor) *logging.Logger {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return logging.Discard()
	}
	f, err := os.OpenFile(filepath.Join(dir, "keel.log"),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return logging.Discard()
	}
	e.logFile = f
	return logging.New(f, logging.ParseLevel(cfg.LogLevel))
}

// initState seeds the registry with every core resource, mirroring the
// editor's dependency list.
func (e *Editor) initState(dir string) {
	reg := e.reg
	state.Set(reg, e.bus)
	state.Set(reg, e.log)
	state.Set(reg, &Session{ID: uuid.New()})
	state.Set(reg, &config.Folder{Path: dir})
	state.Set(reg, &command.Running{Value: true})
	state.Set(reg, buffer.NewBuffers())
	state.Set(reg, input.NewState())
	state.Set(reg, mode.NewStack())
	state.Set(reg, register.New())
	state.Set(reg, command.NewQueue())
	state.Set(reg, command.NewPaletteState())
	state.Set(reg, command.NewPrefixRegistry())
	state.Set(reg, render.NewChunks())
	state.Set(reg, theme.Default())
	state.Set(reg, &highlight.Host{})
	state.Set(reg, &langserver.Host{DebounceMin: 300 * time.Millisecond})
	state.Set(reg, NewKeymaps())

	cr := command.NewRegistry()
	if err := command.RegisterBuiltins(cr); err != nil {
		// A broken built-in table is a programming error.
		panic(err)
	}
	state.Set(reg, cr)
}

func (e *Editor) registerSystems() error {
	sc := e.sched
	sc.MustOnHook(state.HookUpdate, "highlight-feed", highlight.FeedSystem)
	sc.MustOnHook(state.HookUpdate, "langserver-open", langserver.OpenSystem)
	sc.MustOnHook(state.HookUpdate, "langserver-change", langserver.ChangeSystem)

	sc.MustOnHook(state.HookRender, "render-buffer", renderBufferSystem)
	sc.MustOnHook(state.HookRender, "render-statusline", renderStatuslineSystem)
	sc.MustOnHook(state.HookRender, "render-commandline", renderCommandlineSystem)

	if err := langserver.Subscribe(e.bus); err != nil {
		return err
	}

	// Keybinding files rebuild live when they change on disk.
	return event.Subscribe[config.ReloadEvent](e.bus).System("keymap-reload",
		func(km state.Exclusive[Keymaps], folder state.Shared[config.Folder], ev event.Data[config.ReloadEvent]) {
			if ev.Get() == nil {
				return
			}
			kb, err := config.LoadKeybindings(folder.Get().Path)
			if err != nil {
				e.log.Warn("reload: %v", err)
				return
			}
			km.Get().Build(kb, func(err error) { e.log.Warn("reload: %v", err) })
		})
}

func (e *Editor) loadKeymaps(dir string) error {
	kb, err := config.LoadKeybindings(dir)
	if err != nil {
		return err
	}
	km, release := state.Lock[Keymaps](e.reg)
	defer release()
	km.Build(kb, func(err error) { e.log.Warn("keybinding: %v", err) })
	return nil
}

// initPlugins runs every plugin's Init sequentially. Failures log and
// skip the plugin; they never abort startup.
func (e *Editor) initPlugins(extra []plugin.Plugin, dir string) {
	discovered, err := plugin.Discover(dir)
	if err != nil {
		e.log.Warn("plugin discovery: %v", err)
	}
	plugins := append(append([]plugin.Plugin(nil), extra...), discovered...)

	ctx := context.Background()
	for _, p := range plugins {
		if err := p.Init(ctx, e.reg); err != nil {
			e.log.Error("plugin %s: %v", p.Name(), err)
			continue
		}
		e.plugins = append(e.plugins, p)
	}

	// Fold plugin keybindings and templates into the keymaps.
	var rebuilt bool
	km, release := state.Lock[Keymaps](e.reg)
	for _, p := range e.plugins {
		if lp, ok := p.(*plugin.LuaPlugin); ok {
			km.AddTemplates(lp.Templates())
			if binds := lp.Binds(); len(binds) > 0 {
				km.AddPluginBinds(binds)
				rebuilt = true
			}
		}
	}
	release()
	if rebuilt {
		folder := state.MustPeek[config.Folder](e.reg)
		if err := e.loadKeymaps(folder.Path); err != nil {
			e.log.Error("keymap rebuild: %v", err)
		}
	}
}

func (e *Editor) openFiles(files []string) {
	for _, f := range files {
		b, err := buffer.FromFile(f)
		if err != nil {
			e.log.Error("open %s: %v", f, err)
			continue
		}
		bufs, release := state.Lock[buffer.Buffers](e.reg)
		bufs.Add(b)
		release()
	}
}

// Registry exposes the shared state for tests and embedding hosts.
func (e *Editor) Registry() *state.Registry { return e.reg }

// Scheduler exposes the hook scheduler for plugins registering systems.
func (e *Editor) Scheduler() *state.Scheduler { return e.sched }

// Bus exposes the event bus.
func (e *Editor) Bus() *event.Bus { return e.bus }

// Run drives the frame loop until shutdown. It returns nil on a clean
// exit; an internal invariant violation surfaces as an error after the
// terminal is restored.
func (e *Editor) Run(ctx context.Context) (err error) {
	if err := e.backend.Init(); err != nil {
		return fmt.Errorf("backend init: %w", err)
	}
	defer e.close()

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("fatal: %v", rec)
		}
	}()

	w, h := e.backend.Size()
	e.layout(w, h)

	e.sched.RunHook(ctx, state.HookPostInit, e.reg)

	for e.running() {
		if ctx.Err() != nil {
			return nil
		}
		e.Frame(ctx)
	}
	return nil
}

func (e *Editor) close() {
	e.backend.Fini()
	if e.watcher != nil {
		e.watcher.Close()
	}
	for _, p := range e.plugins {
		if lp, ok := p.(*plugin.LuaPlugin); ok {
			lp.Close()
		}
	}
	if e.logFile != nil {
		e.logFile.Close()
	}
}

func (e *Editor) running() bool {
	r, release := state.RLock[command.Running](e.reg)
	defer release()
	return r.Value
}

func (e *Editor) layout(w, h int) {
	cs, release := state.Lock[render.Chunks](e.reg)
	defer release()
	layoutChunks(cs, w, h)
}

// Frame runs one complete frame. Exposed for tests driving the editor
// headlessly.
func (e *Editor) Frame(ctx context.Context) {
	e.bus.BeginFrame()

	switch ev := e.backend.Poll(e.frameTimeout); ev.Kind {
	case backend.EventKey:
		e.handleStroke(ev.Stroke)
	case backend.EventResize:
		e.layout(ev.Width, ev.Height)
	}

	e.sched.RunHook(ctx, state.HookUpdate, e.reg)
	if ext := e.currentExt(); ext != "" {
		e.sched.RunHook(ctx, state.UpdateHookFor(ext), e.reg)
	}
	e.bus.Dispatch(ctx, e.reg)

	q, release := state.Lock[command.Queue](e.reg)
	cmds := q.Drain()
	release()
	for _, cmd := range cmds {
		command.Execute(ctx, e.reg, cmd)
	}

	cs, releaseCS := state.Lock[render.Chunks](e.reg)
	cs.ClearAll()
	releaseCS()

	e.sched.RunHook(ctx, state.HookRender, e.reg)

	e.backend.Clear()
	csr, releaseCSR := state.RLock[render.Chunks](e.reg)
	csr.Composite(e.backend)
	releaseCSR()
	e.backend.Show()
}

func (e *Editor) currentExt() string {
	bufs, release := state.RLock[buffer.Buffers](e.reg)
	defer release()
	return bufs.Cur().Ext()
}
