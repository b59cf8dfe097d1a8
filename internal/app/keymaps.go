package app

import (
	"fmt"

	"github.com/dshills/keel/internal/config"
	"github.com/dshills/keel/internal/input/key"
	"github.com/dshills/keel/internal/input/keytree"
	"github.com/dshills/keel/internal/mode"
)

// Keymaps is the registry-held set of per-mode key trees. Each mode gets
// its own tree holding the global bindings plus the mode's own; stepping
// always targets the active mode's tree.
type Keymaps struct {
	trees    map[rune]*keytree.Tree
	fallback *keytree.Tree
	resolver *keytree.Resolver

	// pluginBinds are bindings contributed by plugin init, folded into
	// every rebuild.
	pluginBinds []config.Keybind

	lastMode rune
}

// NewKeymaps returns an empty keymap set with the default resolver
// templates installed.
func NewKeymaps() *Keymaps {
	return &Keymaps{
		trees:    make(map[rune]*keytree.Tree),
		fallback: keytree.New(),
		resolver: keytree.NewResolver(defaultTemplates(), nil),
		lastMode: mode.Normal,
	}
}

func defaultTemplates() map[string][]string {
	return map[string][]string{
		"digits": {"1", "2", "3", "4", "5", "6", "7", "8", "9", "0"},
	}
}

// Resolver returns the template resolver.
func (k *Keymaps) Resolver() *keytree.Resolver {
	return k.resolver
}

// AddPluginBinds records bindings contributed by a plugin; they apply on
// the next Build.
func (k *Keymaps) AddPluginBinds(binds []config.Keybind) {
	k.pluginBinds = append(k.pluginBinds, binds...)
}

// AddTemplates installs plugin-contributed resolver templates.
func (k *Keymaps) AddTemplates(templates map[string][]string) {
	for name, vals := range templates {
		k.resolver.SetTemplate(name, vals)
	}
}

// Build rebuilds every mode tree from the default bindings, the loaded
// configuration, and plugin bindings. Registration failures (prefix
// conflicts, bad key strings) are reported but do not abort the rest of
// the set.
func (k *Keymaps) Build(kb *config.Keybindings, report func(error)) {
	if report == nil {
		report = func(error) {}
	}

	binds := append(append([]config.Keybind(nil), defaultKeybinds()...), kb.Keybinds...)
	binds = append(binds, k.pluginBinds...)

	modes := map[rune]bool{mode.Normal: true, 'i': true, 'c': true}
	for _, b := range binds {
		for _, m := range b.Mode {
			modes[m] = true
		}
	}

	k.trees = make(map[rune]*keytree.Tree)
	for m := range modes {
		k.trees[m] = keytree.New()
	}
	k.fallback = keytree.New()

	register := func(t *keytree.Tree, b config.Keybind) {
		var meta *keytree.Meta
		if b.Desc != "" {
			meta = &keytree.Meta{Desc: b.Desc}
		}
		if err := t.Register(k.resolver, b.Sequence, b.Action, meta); err != nil {
			report(fmt.Errorf("binding %v: %w", b.Sequence, err))
		}
	}

	for _, b := range binds {
		if b.Mode == "" {
			for m := range k.trees {
				register(k.trees[m], b)
			}
			register(k.fallback, b)
			continue
		}
		for _, m := range b.Mode {
			register(k.trees[m], b)
		}
	}

	groups := append(append([]config.Group(nil), defaultGroups()...), kb.Groups...)
	for _, g := range groups {
		for m, t := range k.trees {
			if g.Mode != "" && []rune(g.Mode)[0] != m {
				continue
			}
			if err := t.Annotate(g.Sequence, &keytree.Meta{Desc: g.Desc}); err != nil {
				report(fmt.Errorf("group %v: %w", g.Sequence, err))
			}
		}
	}
}

// TreeFor returns the tree for a mode, falling back to the global-only
// tree for modes without bindings of their own.
func (k *Keymaps) TreeFor(m rune) *keytree.Tree {
	if t, ok := k.trees[m]; ok {
		return t
	}
	return k.fallback
}

// Step feeds a stroke to the active mode's tree. Switching modes resets
// any partial sequence first.
func (k *Keymaps) Step(m rune, s key.Stroke) keytree.Result {
	if m != k.lastMode {
		k.TreeFor(k.lastMode).ResetPointer()
		k.lastMode = m
	}
	return k.TreeFor(m).Step(s)
}
